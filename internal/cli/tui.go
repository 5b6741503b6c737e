package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ColumnPickerModel - Interactive encoding target selection
// =============================================================================

// ColumnPickerModel is the bubbletea model for multi-selecting categorical
// columns as encoding targets.
type ColumnPickerModel struct {
	Columns   []string
	Checked   map[int]bool
	Cursor    int
	Confirmed bool
	Height    int
	Offset    int
}

// NewColumnPickerModel creates a picker over the given column names.
func NewColumnPickerModel(columns []string) ColumnPickerModel {
	return ColumnPickerModel{
		Columns: columns,
		Checked: make(map[int]bool),
		Height:  15,
	}
}

func (m ColumnPickerModel) Init() tea.Cmd {
	return nil
}

func (m ColumnPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Columns)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			for i := range m.Columns {
				m.Checked[i] = true
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ColumnPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Columns to Encode"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ␣ toggle  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Columns) {
		end = len(m.Columns)
	}

	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.Checked[i] {
			check = "[x]"
		}

		style := listNormalStyle
		if i == m.Cursor {
			style = listSelectedStyle
		}
		b.WriteString(cursor + style.Render(check+" "+m.Columns[i]) + "\n")
	}
	return b.String()
}

// Selected returns the checked column names in list order.
func (m ColumnPickerModel) Selected() []string {
	var out []string
	for i, name := range m.Columns {
		if m.Checked[i] {
			out = append(out, name)
		}
	}
	return out
}

// pickColumns runs the interactive picker over the given column names and
// returns the confirmed selection. It fails on a non-interactive stdin and
// when the picker is quit without confirming.
func pickColumns(columns []string) ([]string, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("no categorical columns to pick from")
	}
	if fi, err := os.Stdin.Stat(); err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		return nil, fmt.Errorf("--encode-targets=pick requires an interactive terminal")
	}

	final, err := tea.NewProgram(NewColumnPickerModel(columns)).Run()
	if err != nil {
		return nil, fmt.Errorf("run column picker: %w", err)
	}
	m, ok := final.(ColumnPickerModel)
	if !ok || !m.Confirmed {
		return nil, fmt.Errorf("column selection aborted")
	}
	picked := m.Selected()
	if len(picked) == 0 {
		return nil, fmt.Errorf("no columns selected")
	}
	return picked, nil
}
