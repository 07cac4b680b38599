package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeInto(p Palette, keys ...tea.KeyMsg) Palette {
	for _, k := range keys {
		p, _ = p.Update(k)
	}
	return p
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func submitted(t *testing.T, p Palette) string {
	t.Helper()
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.Visible() || cmd == nil {
		t.Fatalf("enter must close the palette and submit")
	}
	msg, ok := cmd().(PaletteSubmitMsg)
	if !ok {
		t.Fatalf("expected a submit message")
	}
	return msg.Input
}

func TestTabCompletesTheSelectedSession(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.SetSession(3)
	p.Open()
	p = typeInto(p, runes("ex"), tea.KeyMsg{Type: tea.KeyTab})
	if got := submitted(t, p); got != "export #3" {
		t.Fatalf("submitted %q", got)
	}
}

func TestTabCompletesRecapBeforeTheSummary(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.SetSession(12)
	p.Open()
	p = typeInto(p, runes("rec"), tea.KeyMsg{Type: tea.KeyTab}, runes("The party fled"))
	if got := submitted(t, p); got != "recap #12 The party fled" {
		t.Fatalf("submitted %q", got)
	}
}

func TestTabWithoutSessionCompletesTheVerbOnly(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	p = typeInto(p, runes("ex"), tea.KeyMsg{Type: tea.KeyTab})
	if got := submitted(t, p); got != "export" {
		t.Fatalf("submitted %q", got)
	}
	if view := p.View(); view != "" {
		t.Fatalf("closed palette should render nothing")
	}
}

func TestTabLeavesArgumentsAlone(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.SetSession(3)
	p.Open()
	p = typeInto(p, runes("note ex"), tea.KeyMsg{Type: tea.KeyTab})
	if got := submitted(t, p); got != "note ex" {
		t.Fatalf("submitted %q", got)
	}
}

func TestHintsFollowTheSession(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	if view := p.View(); !strings.Contains(view, "select a session") || strings.Contains(view, "#") {
		t.Fatalf("hints without a session:\n%s", view)
	}
	p.SetSession(5)
	p = typeInto(p, runes("re"))
	view := p.View()
	if !strings.Contains(view, "recap #5 <summary>") || strings.Contains(view, "export") {
		t.Fatalf("filtered hints:\n%s", view)
	}
}

func TestEscCancels(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.Visible() {
		t.Fatalf("esc must close the palette")
	}
	if _, ok := cmd().(PaletteCancelMsg); !ok {
		t.Fatalf("expected a cancel message")
	}
}
