package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stackreport/pkg/report"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// NodeListModel - Interactive subtree selection
// =============================================================================

// NodeListModel is the bubbletea model for picking a document subtree.
type NodeListModel struct {
	Entries  []outlineEntry
	Cursor   int
	Selected *outlineEntry
	Height   int
	Offset   int
}

// NewNodeListModel creates a list over the document outline.
func NewNodeListModel(entries []outlineEntry) NodeListModel {
	return NodeListModel{Entries: entries, Height: 15}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "enter":
			if len(m.Entries) == 0 {
				return m, tea.Quit
			}
			e := m.Entries[m.Cursor]
			m.Selected = &e
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select subtree to render"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		line := fmt.Sprintf("%s%-9s %s", strings.Repeat("  ", e.Depth), e.Kind, e.Summary)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if len(m.Entries) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s  [%d/%d]", m.Entries[m.Cursor].Path, m.Cursor+1, len(m.Entries))))
	}
	return b.String()
}

// pickSubtree lets the user choose a node of root. ok is false when the
// picker was closed without a selection.
func pickSubtree(ctx context.Context, root report.Node) (report.Node, bool, error) {
	p := tea.NewProgram(NewNodeListModel(flattenOutline(root)),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
	)
	final, err := p.Run()
	if err != nil {
		return nil, false, err
	}
	m, ok := final.(NodeListModel)
	if !ok || m.Selected == nil {
		return nil, false, nil
	}
	return m.Selected.Node, true, nil
}
