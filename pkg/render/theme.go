package render

import "github.com/charmbracelet/lipgloss"

// Theme defines colors and icons for monitor output.
type Theme struct {
	Name     string
	Source   lipgloss.Style // pre-run banner and cell source listing
	Realtime lipgloss.Style // tee'd output lines
	Summary  lipgloss.Style // post-run report
	Accent   lipgloss.Style // activation notices
	Alert    lipgloss.Style // deactivation notices, failures
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Icons    ThemeIcons
}

// ThemeIcons defines the icon set for a theme.
type ThemeIcons struct {
	Run    string
	Done   string
	Fail   string
	Timer  string
	Lines  string
	Result string
}

// DefaultTheme returns a vibrant color theme matching the classic
// notebook palette: blue source, green realtime, yellow summary.
func DefaultTheme() Theme {
	return Theme{
		Name:     "default",
		Source:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // blue
		Realtime: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // green
		Summary:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")), // yellow
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("135")), // purple
		Alert:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")), // gray
		Bold:     lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Run:    "▶",
			Done:   "✓",
			Fail:   "✗",
			Timer:  "○",
			Lines:  "·",
			Result: "●",
		},
	}
}

// OrcaTheme returns a muted, professional theme.
func OrcaTheme() Theme {
	return Theme{
		Name:     "orca",
		Source:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")),  // pale blue
		Realtime: lipgloss.NewStyle().Foreground(lipgloss.Color("108")), // sage green
		Summary:  lipgloss.NewStyle().Foreground(lipgloss.Color("179")), // muted gold
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("139")), // dusty purple
		Alert:    lipgloss.NewStyle().Foreground(lipgloss.Color("167")), // muted red
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")), // lighter gray
		Bold:     lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Run:    "▶",
			Done:   "✓",
			Fail:   "✗",
			Timer:  "·",
			Lines:  "·",
			Result: "·",
		},
	}
}

// MonoTheme returns a monochrome theme (no colors).
func MonoTheme() Theme {
	return Theme{
		Name:     "mono",
		Source:   lipgloss.NewStyle(),
		Realtime: lipgloss.NewStyle(),
		Summary:  lipgloss.NewStyle(),
		Accent:   lipgloss.NewStyle(),
		Alert:    lipgloss.NewStyle(),
		Muted:    lipgloss.NewStyle(),
		Bold:     lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Run:    ">",
			Done:   "+",
			Fail:   "x",
			Timer:  "o",
			Lines:  "-",
			Result: "*",
		},
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "orca":
		return OrcaTheme()
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}
