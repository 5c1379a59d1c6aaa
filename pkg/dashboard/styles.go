package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/cellmon/pkg/render"
)

// browserStyles holds the compiled lipgloss styles the history browser
// derives from a monitor theme.
type browserStyles struct {
	Title      lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Duration   lipgloss.Style
	OkIcon     lipgloss.Style
	FailIcon   lipgloss.Style
	ListBox    lipgloss.Style
	DetailBox  lipgloss.Style
	StatusBar  lipgloss.Style
}

func compileStyles(th render.Theme) browserStyles {
	return browserStyles{
		Title:      th.Bold,
		Selected:   th.Accent.Reverse(true),
		Unselected: lipgloss.NewStyle(),
		Duration:   th.Muted,
		OkIcon:     th.Summary,
		FailIcon:   th.Alert,
		ListBox:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		DetailBox:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		StatusBar:  th.Muted,
	}
}
