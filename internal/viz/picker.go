package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	pickTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	pickSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	pickCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	pickName   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	pickDesc   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	pickDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	pickKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// Entry is one selectable demo.
type Entry struct {
	Name  string
	Title string
}

// Launcher builds the live model of a demo.
type Launcher func(name string) (Model, error)

const (
	stateMenu = iota
	stateSim
)

// Picker lists demos and opens the chosen one in a live model. Esc
// returns to the list.
type Picker struct {
	state   int
	cursor  int
	entries []Entry
	launch  Launcher
	live    Model
	err     error
	size    tea.WindowSizeMsg
}

func NewPicker(entries []Entry, launch Launcher) Picker {
	return Picker{entries: entries, launch: launch}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		p.size = size
	}
	if p.state == stateSim {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			p.state = stateMenu
			return p, nil
		}
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.entries) == 0 {
			return p, nil
		}
		live, err := p.launch(p.entries[p.cursor].Name)
		if err != nil {
			p.err = err
			return p, nil
		}
		p.err = nil
		if p.size.Width > 0 {
			next, _ := live.Update(p.size)
			live = next.(Model)
		}
		p.live, p.state = live, stateSim
		return p, p.live.Init()
	}
	return p, nil
}

func (p Picker) View() string {
	if p.state == stateSim {
		return p.live.View()
	}
	var b strings.Builder
	b.WriteString("\n\n    " + pickTitle.Render("EMERGENT") + "\n    " + pickSub.Render("emergent systems gallery") + "\n    " + pickSub.Render("─────────────────────────") + "\n\n")
	for i, e := range p.entries {
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", pickCursor.Render("▸"), pickName.Render(fmt.Sprintf("%-20s", e.Name)), pickDesc.Render(e.Title)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", pickDim.Render(fmt.Sprintf("  %-20s", e.Name)), pickDim.Render(e.Title)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + pickDesc.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + pickKey.Render("j/k") + pickDim.Render(" navigate  ") + pickKey.Render("enter") + pickDim.Render(" open  ") + pickKey.Render("esc") + pickDim.Render(" back  ") + pickKey.Render("q") + pickDim.Render(" quit") + "\n")
	return b.String()
}
