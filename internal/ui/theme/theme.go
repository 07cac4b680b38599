package theme

import "github.com/charmbracelet/lipgloss"

// Night palette: the chonchón only flies after dark.
var (
	Night   = lipgloss.Color("#11111b")
	Mantle  = lipgloss.Color("#181825")
	Surface = lipgloss.Color("#313244")
	Border  = lipgloss.Color("#45475a")
	Text    = lipgloss.Color("#cdd6f4")
	Faded   = lipgloss.Color("#a6adc8")
	Moon    = lipgloss.Color("#f9e2af")
	Feather = lipgloss.Color("#b4befe")
	Ember   = lipgloss.Color("#fab387")
	Blood   = lipgloss.Color("#f38ba8")
	Moss    = lipgloss.Color("#a6e3a1")

	App = lipgloss.NewStyle().
		Background(Night).
		Foreground(Text).
		Padding(0, 1)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Background(Mantle).
		Foreground(Text)

	PaneActive = Pane.BorderForeground(Feather)

	Title  = lipgloss.NewStyle().Foreground(Moon).Bold(true)
	Muted  = lipgloss.NewStyle().Foreground(Faded)
	Hot    = lipgloss.NewStyle().Foreground(Ember).Bold(true)
	Open   = lipgloss.NewStyle().Foreground(Moss).Bold(true)
	Failed = lipgloss.NewStyle().Foreground(Blood)
)
