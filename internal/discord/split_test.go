package discord_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"chonchon/internal/discord"
)

func TestSplitMessageKeepsShortText(t *testing.T) {
	t.Parallel()
	got := discord.SplitMessage("hola", discord.MaxMessageLength)
	if len(got) != 1 || got[0] != "hola" {
		t.Fatalf("unexpected chunks %q", got)
	}
}

func TestSplitMessagePrefersLineBreaks(t *testing.T) {
	t.Parallel()
	line := strings.Repeat("a", 8)
	text := strings.Join([]string{line, line, line}, "\n")
	got := discord.SplitMessage(text, 20)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %q", got)
	}
	if got[0] != line+"\n"+line || got[1] != line {
		t.Fatalf("unexpected chunks %q", got)
	}
}

func TestSplitMessageCountsRunes(t *testing.T) {
	t.Parallel()
	text := strings.Repeat("ñ", 2500)
	got := discord.SplitMessage(text, discord.MaxMessageLength)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if n := utf8.RuneCountInString(got[0]); n != discord.MaxMessageLength {
		t.Fatalf("first chunk has %d runes", n)
	}
	if strings.Join(got, "") != text {
		t.Fatalf("chunks lost text")
	}
}
