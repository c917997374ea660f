// Package tui implements the Bubble Tea terminal UI for browsing miniql
// tables: a left-hand list of tables and a right-hand grid of the selected
// table's rows (not scrollable), built on the Charmbracelet ecosystem (Bubble
// Tea, Bubbles, Lip Gloss).
package tui

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/miniql/internal/engine"
	"github.com/Dicklesworthstone/miniql/internal/tui/components"
)

// Options configures the TUI session.
type Options struct {
	// InitialTable preselects a table by name; if empty or unknown, the
	// browser opens on the first table in sorted order.
	InitialTable string
	// RefreshInterval controls how often the selected table's grid
	// re-queries the engine while idle, in seconds. Zero disables
	// the periodic tick; the grid still refreshes on every keypress.
	RefreshInterval int
	DisableMouse    bool
}

// DefaultOptions returns the default TUI options.
func DefaultOptions() Options {
	return Options{RefreshInterval: 5}
}

// tickMsg drives the periodic re-render of the selected table's grid
// without a keypress. The grid is re-queried from this model's engine,
// which holds its tables in memory and is not reloaded, so changes written
// to the files by another process do not appear.
type tickMsg time.Time

var keyMap = struct {
	up, down, enter, quit key.Binding
}{
	up:    key.NewBinding(key.WithKeys("up", "k")),
	down:  key.NewBinding(key.WithKeys("down", "j")),
	enter: key.NewBinding(key.WithKeys("enter")),
	quit:  key.NewBinding(key.WithKeys("q", "ctrl+c", "esc")),
}

// Model is the table-browser Bubble Tea model: a list of table names on
// the left, a row grid for the selected table on the right.
type Model struct {
	eng     *engine.Engine
	tables  []string
	cursor  int
	loadErr error

	refreshInterval time.Duration

	width, height int
}

// New builds a Model bound to eng, listing its tables immediately and
// preselecting opts.InitialTable if it names a known table.
func New(eng *engine.Engine, opts Options) Model {
	names := eng.TableNames()
	sort.Strings(names)
	m := Model{
		eng:             eng,
		tables:          names,
		refreshInterval: time.Duration(opts.RefreshInterval) * time.Second,
	}
	if opts.InitialTable != "" {
		for i, name := range names {
			if name == opts.InitialTable {
				m.cursor = i
				break
			}
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.scheduleTick()
}

func (m Model) scheduleTick() tea.Cmd {
	if m.refreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		return m, m.scheduleTick()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyMap.quit):
			return m, tea.Quit
		case key.Matches(msg, keyMap.up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keyMap.down):
			if m.cursor < len(m.tables)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.tables) == 0 {
		return "no tables in catalog\npress q to quit\n"
	}

	listStyle := lipgloss.NewStyle().Padding(0, 1).Width(20)
	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))

	var left string
	for i, name := range m.tables {
		line := name
		if i == m.cursor {
			line = selectedStyle.Render("> " + name)
		} else {
			line = "  " + line
		}
		left += line + "\n"
	}
	left = listStyle.Render(left)

	right := m.renderSelectedTable()

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n(q to quit, up/down to switch tables)\n"
}

func (m Model) renderSelectedTable() string {
	if m.cursor >= len(m.tables) {
		return ""
	}
	name := m.tables[m.cursor]
	res, err := m.eng.Execute(fmt.Sprintf("SELECT * FROM %s", name))
	if err != nil {
		return fmt.Sprintf("error loading %s: %v", name, err)
	}
	rows, _ := res.([]map[string]any)
	if len(rows) == 0 {
		return fmt.Sprintf("%s is empty", name)
	}

	cols := columnOrder(rows[0])
	tableCols := make([]components.Column, len(cols))
	for i, c := range cols {
		tableCols[i] = components.Column{Header: c, MinWidth: len(c)}
	}
	grid := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = fmt.Sprint(row[c])
		}
		grid[i] = cells
	}
	return components.NewTable(tableCols).WithRows(grid).Render()
}

// columnOrder returns a deterministic column ordering for a row map: the
// map itself carries no order, so rows are sorted alphabetically for
// display purposes only (persistence order is unaffected).
func columnOrder(row map[string]any) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Run launches the table browser against eng.
func Run(eng *engine.Engine, opts Options) error {
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if !opts.DisableMouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(New(eng, opts), programOpts...)
	_, err := p.Run()
	return err
}
