package dynamo

// Segment is a line between two points, used for arms, branches and spokes.
type Segment struct {
	From, To Point
	Depth    int
}

// Snapshot is the read-only view of a kernel after a committed tick.
// Every slice is a copy; renderers may keep it across frames.
type Snapshot struct {
	Kernel string
	Tick   uint64
	Paused bool

	// Trails holds one ordered sequence per instance, most recent last.
	Trails [][]Point
	// Heads holds the current position of each instance or agent.
	Heads []Point
	// Fields holds named grids (e.g. "A" and "B"), nil for point kernels.
	Fields map[string]*GridView
	// Segments holds structural geometry such as pendulum arms.
	Segments []Segment
}

// Latest returns the most recent point of every non-empty trail.
func (s Snapshot) Latest() []Point {
	out := make([]Point, 0, len(s.Trails))
	for _, t := range s.Trails {
		if len(t) > 0 {
			out = append(out, t[len(t)-1])
		}
	}
	return out
}

// FinitePoints returns pts with every non-finite element removed.
func FinitePoints(pts []Point) []Point {
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if p.Finite() {
			out = append(out, p)
		}
	}
	return out
}
