package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/solarsim/internal/cosmos"
)

// Entry is one selectable scenario. Load is called when it is chosen.
type Entry struct {
	Name        string
	Description string
	Load        func() (*cosmos.Registry, Options, error)
}

const (
	stateMenu = iota
	stateSim
)

// Picker lists entries and opens the live view of the chosen one.
type Picker struct {
	state   int
	cursor  int
	entries []Entry
	theme   Theme
	err     error
	live    Model
}

func NewPicker(entries []Entry, theme string) Picker {
	return Picker{entries: entries, theme: GetTheme(theme)}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		return p.start()
	}
	return p, nil
}

func (p Picker) start() (Picker, tea.Cmd) {
	if len(p.entries) == 0 {
		return p, nil
	}
	reg, opts, err := p.entries[p.cursor].Load()
	if err != nil {
		p.err = err
		return p, nil
	}
	p.err = nil
	if opts.Theme == "" {
		opts.Theme = p.theme.Name
	}
	p.live = NewModel(reg, opts)
	p.state = stateSim
	return p, p.live.Init()
}

func (p Picker) View() string {
	if p.state == stateSim {
		return p.live.View()
	}

	st := newStyles(p.theme)
	var b strings.Builder
	b.WriteString("\n\n    " + GradientText("SOLARSIM", p.theme.Primary, p.theme.Secondary) + "\n")
	b.WriteString("    " + st.item.Render("planar celestial simulator") + "\n")
	b.WriteString("    " + st.item.Render("─────────────────────────") + "\n\n")

	for i, e := range p.entries {
		desc := e.Description
		if len(desc) > 48 {
			desc = desc[:45] + "..."
		}
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", st.cursor.Render("▸"), st.value.Bold(true).Render(fmt.Sprintf("%-16s", e.Name)), st.key.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", st.item.Render(fmt.Sprintf("%-16s", e.Name)), st.item.Render(desc)))
		}
	}

	if p.err != nil {
		b.WriteString("\n    " + st.failed.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + st.key.Render("j/k") + st.item.Render(" navigate  ") +
		st.key.Render("enter") + st.item.Render(" select  ") +
		st.key.Render("esc") + st.item.Render(" back  ") +
		st.key.Render("q") + st.item.Render(" quit") + "\n")
	return b.String()
}

// RunPicker opens the scenario menu on the alternate screen.
func RunPicker(entries []Entry, theme string) error {
	_, err := tea.NewProgram(NewPicker(entries, theme), tea.WithAltScreen()).Run()
	return err
}
