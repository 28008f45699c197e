package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	resultio "github.com/omacc/omacc/pkg/io"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PathListModel - Interactive path browser
// =============================================================================

// PathListModel is the bubbletea model for browsing the steps of a path.
// The selected step is shown in full below the list.
type PathListModel struct {
	Doc    *resultio.Document
	Cursor int
	Height int
	Offset int
}

// NewPathListModel creates a new path browser.
func NewPathListModel(doc *resultio.Document) PathListModel {
	return PathListModel{
		Doc:    doc,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m PathListModel) Init() tea.Cmd {
	return nil
}

func (m PathListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.Doc.Path)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		}
	case tea.WindowSizeMsg:
		// Leave room for the header and the detail pane.
		m.Height = max(msg.Height-16, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m PathListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Path"))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("value %d · %d of %d alignments",
		m.Doc.Value, len(m.Doc.Path), m.Doc.Alignments)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Doc.Path) == 0 {
		b.WriteString(listDimStyle.Render("No alignments on the path."))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Doc.Path))
	visible := m.Doc.Path[m.Offset:end]
	rows := pathRows(visible)
	for i := range rows {
		cursor := "  "
		if m.Offset+i == m.Cursor {
			cursor = "▸ "
		}
		rows[i][0] = cursor + rows[i][0]
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(pathHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return listDimStyle.Padding(0, 1)
			case row >= len(visible):
				return lipgloss.NewStyle()
			case m.Offset+row == m.Cursor:
				return listSelectedStyle.Padding(0, 1)
			case col == len(pathHeaders)-1:
				return listNormalStyle.Padding(0, 1).Foreground(mismatchColor(visible[row].Mismatches))
			}
			return listNormalStyle.Padding(0, 1)
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	if len(m.Doc.Path) > m.Height {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d-%d of %d", m.Offset+1, end, len(m.Doc.Path))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(strings.Repeat("-", 40)))
	b.WriteString("\n")
	b.WriteString(stepDetail(m.Doc.Path[m.Cursor]))

	return b.String()
}

// stepDetail renders every field of one step.
func stepDetail(s resultio.Step) string {
	key := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	line := func(k string, v any) string {
		return key.Render(k) + " " + StyleValue.Render(fmt.Sprint(v)) + "\n"
	}

	var b strings.Builder
	b.WriteString(line("fragment", StyleHighlight.Render(s.Node)))
	b.WriteString(line("query", s.Query))
	b.WriteString(line("subject", s.Subject))
	b.WriteString(line("span", fmt.Sprintf("%d-%d", s.Start, s.End)))
	b.WriteString(line("score", StyleNumber.Render(fmt.Sprint(s.Score))))
	b.WriteString(line("value", StyleNumber.Render(fmt.Sprint(s.Value))))
	b.WriteString(line("mismatches", s.Mismatches))
	b.WriteString(line("index", s.Index))
	return b.String()
}
