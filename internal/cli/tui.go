package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/brewtower/pkg/brew"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// StyleListModel is the bubbletea model behind chart --pick. The first row
// is "no style", which selects the simple display.
type StyleListModel struct {
	Styles []brew.Style
	Cursor int
	Height int
	Offset int

	// Chosen is set when the user confirmed a row; Selected is nil when
	// that row was "no style".
	Chosen   bool
	Selected *brew.Style
}

// NewStyleListModel starts with the cursor on current when it is listed.
func NewStyleListModel(styles []brew.Style, current string) StyleListModel {
	m := StyleListModel{Styles: styles, Height: 12}
	for i, s := range styles {
		if strings.EqualFold(s.ID, current) {
			m.Cursor = i + 1
		}
	}
	m.scroll()
	return m
}

func (m StyleListModel) Init() tea.Cmd { return nil }

func (m StyleListModel) rows() int { return len(m.Styles) + 1 }

func (m *StyleListModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m StyleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < m.rows()-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = m.rows() - 1
		case "enter":
			m.Chosen = true
			if m.Cursor > 0 {
				s := m.Styles[m.Cursor-1]
				m.Selected = &s
			}
			return m, tea.Quit
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 3)
		m.scroll()
	}
	return m, nil
}

func (m StyleListModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Select BJCP Style"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, m.rows())
	var rows [][]string
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		if i == 0 {
			rows = append(rows, []string{cursor, "—", "No style (simple display)", "", "", ""})
			continue
		}
		s := m.Styles[i-1]
		rows = append(rows, []string{cursor, s.ID, s.Name, s.OG.String(), s.IBU.String(), s.SRM.String()})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Style", "OG", "IBU", "SRM").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case m.Offset+row == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorAmber).Bold(true)
			case col >= 3:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, m.rows())))
	return b.String()
}

// pickStyle runs the picker. ok is false when the user quit without
// choosing.
func pickStyle(styles []brew.Style, current string) (style *brew.Style, ok bool, err error) {
	final, err := tea.NewProgram(NewStyleListModel(styles, current)).Run()
	if err != nil {
		return nil, false, err
	}
	m := final.(StyleListModel)
	return m.Selected, m.Chosen, nil
}
