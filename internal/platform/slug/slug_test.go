package slug_test

import (
	"testing"

	"chonchon/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"La Cueva del Chonchón": "la-cueva-del-chonchon",
		"  Ñandú & Pingüino!! ": "nandu-pinguino",
		"Session #12":           "session-12",
		"???":                   "untitled",
		"":                      "untitled",
	}
	for in, want := range cases {
		if got := slug.Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}
