package markdown_test

import (
	"strings"
	"testing"

	"chonchon/internal/platform/markdown"
)

type meta struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
}

func TestFrontmatterRoundTrip(t *testing.T) {
	t.Parallel()
	rendered, err := markdown.RenderFrontmatter(meta{Title: "Ruins", Tags: []string{"lore"}}, "# Ruins\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(rendered, "---\ntitle: Ruins\n") {
		t.Fatalf("unexpected rendering:\n%s", rendered)
	}
	var got meta
	body, err := markdown.SplitFrontmatter(rendered, &got)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if got.Title != "Ruins" || len(got.Tags) != 1 || body != "\n# Ruins\n" {
		t.Fatalf("unexpected result %+v body=%q", got, body)
	}
}

func TestSplitFrontmatterEdgeCases(t *testing.T) {
	t.Parallel()
	var m meta
	body, err := markdown.SplitFrontmatter("plain text", &m)
	if err != nil || body != "plain text" || m.Title != "" {
		t.Fatalf("content without frontmatter must pass through, got %q %v", body, err)
	}
	if _, err := markdown.SplitFrontmatter("---\ntitle: x\n", &m); err == nil {
		t.Fatalf("expected error for an unterminated block")
	}
}
