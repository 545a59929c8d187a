// Package viz renders snapshots in the terminal.
//
//   - [Canvas]: Braille dot matrix, 2x4 dots per cell
//   - [Scene]: draws trails, segments and heads through a [Camera] and a
//     spring-smoothed [Frame]
//   - [Shader]: half-block colour rendering of grid fields
//   - [Model]: bubbletea live view driving a controller
//   - [Picker]: demo menu in front of [Model]
//   - [FrameRenderer]: plain-terminal renderer for headless runs
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart with the next seed
//	Tab   - Select parameter
//	Up/Dn - Tune parameter
//	C     - Cycle charted metric
//	F     - Cycle displayed field
//	T     - Cycle colour themes
//	?     - Show help overlay
package viz
