// Package dashboard renders executed-cell history, either as an
// interactive two-pane browser or as a plain listing for pipes.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/cellmon/cellmon"
	"github.com/dkoosis/cellmon/pkg/render"
)

// Browse launches the interactive history browser over records. It blocks
// until the user quits or ctx is canceled.
func Browse(ctx context.Context, records []cellmon.Record, theme render.Theme) error {
	program := tea.NewProgram(newModel(records, theme), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type model struct {
	records     []cellmon.Record
	theme       render.Theme
	styles      browserStyles
	selected    int
	viewport    viewport.Model
	ready       bool
	width       int // terminal width
	height      int // terminal height
	listWidth   int // width allocated to the cell list
	detailWidth int // width allocated to the detail pane
}

func newModel(records []cellmon.Record, theme render.Theme) model {
	vp := viewport.New(0, 0)
	vp.SetContent("Select a cell to view its run")
	return model{records: records, theme: theme, styles: compileStyles(theme), viewport: vp}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refreshViewport()
			}
		case "down", "j":
			if m.selected < len(m.records)-1 {
				m.selected++
				m.refreshViewport()
			}
		case "g":
			m.selected = 0
			m.refreshViewport()
		case "G":
			if len(m.records) > 0 {
				m.selected = len(m.records) - 1
				m.refreshViewport()
			}
		}
	case tea.WindowSizeMsg:
		// Subtract 7 chars for scrollbar + window chrome in terminals like VS Code
		m.width = msg.Width - 7
		m.height = msg.Height
		m.listWidth = m.calculateListWidth()
		if m.listWidth < 22 {
			m.listWidth = 22
		}
		if m.listWidth > m.width/2 {
			m.listWidth = m.width / 2
		}
		m.detailWidth = m.width - m.listWidth - 1 // 1 for gap
		m.viewport.Width = m.detailWidth - 4      // account for box padding + border
		m.viewport.Height = msg.Height - 8        // account for title, status bar, borders
		m.ready = true
		m.refreshViewport()
	}
	return m, nil
}

func (m *model) calculateListWidth() int {
	maxWidth := 0
	for _, r := range m.records {
		w := visualWidth(summaryLine(r, 0)) + 4 // icon + selection marker
		if w > maxWidth {
			maxWidth = w
		}
	}
	// Add minimal padding for box borders
	return maxWidth + 4
}

func (m *model) refreshViewport() {
	if m.selected < 0 || m.selected >= len(m.records) {
		return
	}
	m.viewport.SetContent(FormatDetail(m.records[m.selected], m.viewport.Width))
}

func (m model) View() string {
	if !m.ready {
		return "Loading history..."
	}
	if len(m.records) == 0 {
		return "\nNo cells executed yet. Press q to quit.\n"
	}

	// Note: Leading newline ensures title is visible in terminals that clip the first line (VS Code)
	title := "\n" + m.styles.Title.Render(fmt.Sprintf("Cell history (%d)", len(m.records)))

	// blank(1) + title(1) + status(2) + box chrome(4) = 8 total
	contentHeight := m.height - 8
	if contentHeight < 5 {
		contentHeight = 5
	}

	listContent := m.renderList()
	listLines := strings.Split(listContent, "\n")
	for len(listLines) < contentHeight {
		listLines = append(listLines, "")
	}
	if len(listLines) > contentHeight {
		listLines = listLines[:contentHeight]
	}
	listPanel := m.styles.ListBox.
		Width(m.listWidth).
		Render(strings.Join(listLines, "\n"))

	detailContent := m.viewport.View()
	detailLines := strings.Split(detailContent, "\n")
	for len(detailLines) < contentHeight {
		detailLines = append(detailLines, "")
	}
	if len(detailLines) > contentHeight {
		detailLines = detailLines[:contentHeight]
	}
	detailPanel := m.styles.DetailBox.
		Width(m.detailWidth).
		Render(strings.Join(detailLines, "\n"))

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)
	help := m.styles.StatusBar.Render("↑/↓ navigate • g/G first/last • q quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, panels, help)
}

func (m model) renderList() string {
	lines := make([]string, 0, len(m.records))
	lineWidth := m.listWidth - 6 // Account for padding
	if lineWidth < 20 {
		lineWidth = 20
	}
	for i, r := range m.records {
		if i == m.selected {
			// Selected: raw icon so the selection style controls all styling
			content := fmt.Sprintf("%s %s", m.rawStatusIcon(r), summaryLine(r, lineWidth-2))
			lines = append(lines, m.styles.Selected.Width(lineWidth).Render(content))
		} else {
			lines = append(lines, m.styles.Unselected.Render("  "+m.statusIcon(r)+" "+summaryLine(r, lineWidth-4)))
		}
	}
	return strings.Join(lines, "\n")
}

func (m model) statusIcon(r cellmon.Record) string {
	if r.Failed {
		return m.styles.FailIcon.Render(m.theme.Icons.Fail)
	}
	return m.styles.OkIcon.Render(m.theme.Icons.Done)
}

// rawStatusIcon returns the icon without styling (for use in selected rows).
func (m model) rawStatusIcon(r cellmon.Record) string {
	if r.Failed {
		return m.theme.Icons.Fail
	}
	return m.theme.Icons.Done
}
