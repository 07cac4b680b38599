package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chonchon/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Moon).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Faded)
)

// paletteHints must stay in sync with the switch in app/model.go executePalette.
// Verbs marked onSession act on a session and complete to the one on screen.
var paletteHints = []struct {
	verb      string
	args      string
	onSession bool
}{
	{"start", "[title]", false},
	{"note", "<text>", false},
	{"list", "", false},
	{"close", "[summary]", false},
	{"recap", "<summary>", true},
	{"export", "", true},
	{"ask", "<question>", false},
}

// Palette is the ":" command line of the lore browser, backed by bubbles/textinput.
// Tab completes the verb being typed.
type Palette struct {
	input     textinput.Model
	visible   bool
	width     int
	sessionID int64
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "start, note, close, ask…"
	ti.CharLimit = 1000
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// SetSession names the session recap and export complete to; zero clears it.
func (p *Palette) SetSession(id int64) { p.sessionID = id }

func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			p.complete()
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// complete expands a verb prefix; session verbs get "#<id> " when a session is on screen.
func (p *Palette) complete() {
	typed := strings.ToLower(strings.TrimSpace(p.input.Value()))
	if typed == "" || strings.Contains(typed, " ") {
		return
	}
	for _, h := range paletteHints {
		if !strings.HasPrefix(h.verb, typed) {
			continue
		}
		value := h.verb + " "
		if h.onSession && p.sessionID != 0 {
			value += fmt.Sprintf("#%d ", p.sessionID)
		}
		p.input.SetValue(value)
		p.input.CursorEnd()
		return
	}
}

func (p Palette) hint(i int) string {
	h := paletteHints[i]
	parts := []string{h.verb}
	if h.onSession && p.sessionID != 0 {
		parts = append(parts, fmt.Sprintf("#%d", p.sessionID))
	}
	if h.args != "" {
		parts = append(parts, h.args)
	}
	return strings.Join(parts, " ")
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	verb, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(p.input.Value())), " ")
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(": " + p.input.View() + "\n\n")
	for i, h := range paletteHints {
		if verb != "" && !strings.HasPrefix(h.verb, verb) {
			continue
		}
		sb.WriteString(hintStyle.Render("  "+p.hint(i)) + "\n")
	}
	if p.sessionID == 0 {
		sb.WriteString(theme.Muted.Render("  (select a session to recap or export it)") + "\n")
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
