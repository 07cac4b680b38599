package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chonchon/internal/modules/lore/domain"
	loreout "chonchon/internal/modules/lore/port/out"
	"chonchon/internal/platform/markdown"
	"chonchon/internal/platform/slug"
)

// RecapFrontmatter is the YAML header of an exported session recap.
type RecapFrontmatter struct {
	SchemaVersion int      `yaml:"schema_version"`
	SessionID     int64    `yaml:"session_id"`
	GuildID       string   `yaml:"guild_id"`
	Title         string   `yaml:"title,omitempty"`
	StartedAt     string   `yaml:"started_at"`
	EndedAt       string   `yaml:"ended_at,omitempty"`
	NoteCount     int      `yaml:"note_count"`
	Tags          []string `yaml:"tags,omitempty"`
}

var defaultRecapTags = []string{"lore", "session"}

type VaultRecapWriter struct {
	vaultPath string
}

func NewVaultRecapWriter(vaultPath string) loreout.RecapWriter {
	return &VaultRecapWriter{vaultPath: vaultPath}
}

// Write renders the recap to <vault>/lore/<guild>/<date>-<id>-<slug>.md, replacing any earlier
// export. Tags edited by hand in a previous export are kept.
func (w *VaultRecapWriter) Write(_ context.Context, recap domain.Recap) (string, error) {
	session := recap.Session
	dir := filepath.Join(w.vaultPath, "lore", slug.Make(session.GuildID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create recap dir: %w", err)
	}
	name := fmt.Sprintf("%s-%d-%s.md", session.StartedAt.Format("2006-01-02"), session.ID, slug.Make(session.Label()))
	path := filepath.Join(dir, name)

	meta := RecapFrontmatter{
		SchemaVersion: domain.SchemaVersion,
		SessionID:     session.ID,
		GuildID:       session.GuildID,
		Title:         session.Title,
		StartedAt:     session.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		NoteCount:     len(recap.Notes),
		Tags:          existingTags(path),
	}
	if !session.IsOpen() {
		meta.EndedAt = session.EndedAt.Format("2006-01-02T15:04:05Z07:00")
	}

	var body strings.Builder
	fmt.Fprintf(&body, "# %s\n\n", session.Label())
	body.WriteString("## Summary\n\n")
	if strings.TrimSpace(session.Summary) != "" {
		body.WriteString(strings.TrimSpace(session.Summary) + "\n\n")
	} else {
		body.WriteString("_No summary yet._\n\n")
	}
	body.WriteString("## Notes\n\n")
	if len(recap.Notes) == 0 {
		body.WriteString("_No notes were recorded._\n")
	}
	for _, note := range recap.Notes {
		body.WriteString("- " + note.Line() + "\n")
	}

	rendered, err := markdown.RenderFrontmatter(meta, body.String())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write recap: %w", err)
	}
	return path, nil
}

func existingTags(path string) []string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return defaultRecapTags
	}
	var prev RecapFrontmatter
	if _, err := markdown.SplitFrontmatter(string(raw), &prev); err != nil || len(prev.Tags) == 0 {
		return defaultRecapTags
	}
	return prev.Tags
}
