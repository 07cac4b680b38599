package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "chonchon/internal/platform/errors"
)

const SchemaVersion = 1

// DisplayLayout is how note timestamps appear in chat and in exported recaps.
const DisplayLayout = "2006-01-02 15:04"

// Session is a game night owned by one guild. A zero EndedAt means the session is open.
type Session struct {
	ID        int64
	GuildID   string
	Title     string
	StartedAt time.Time
	EndedAt   time.Time
	Summary   string
}

func (s Session) IsOpen() bool {
	return s.EndedAt.IsZero()
}

// Label is the title when present, otherwise "Session #<id>".
func (s Session) Label() string {
	if t := strings.TrimSpace(s.Title); t != "" {
		return t
	}
	return fmt.Sprintf("Session #%d", s.ID)
}

type Note struct {
	ID         int64
	SessionID  int64
	CreatedAt  time.Time
	AuthorID   string
	AuthorName string
	Content    string
}

func (n Note) Author() string {
	switch {
	case strings.TrimSpace(n.AuthorName) != "":
		return n.AuthorName
	case strings.TrimSpace(n.AuthorID) != "":
		return n.AuthorID
	default:
		return "anonymous"
	}
}

// Line renders a note as "[ts] author: content".
func (n Note) Line() string {
	return fmt.Sprintf("[%s] %s: %s", n.CreatedAt.UTC().Format(DisplayLayout), n.Author(), n.Content)
}

// SessionStats pairs a session with its note count for history views.
type SessionStats struct {
	Session   Session
	NoteCount int
}

// Recap is everything written when a session is exported.
type Recap struct {
	Session Session
	Notes   []Note
}

func ValidateGuild(guildID string) error {
	if strings.TrimSpace(guildID) == "" {
		return fmt.Errorf("%w: guild id is required", apperrors.ErrInvalidInput)
	}
	return nil
}

func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return apperrors.ErrEmptyContent
	}
	return nil
}

// SortNotes orders notes by timestamp, ties broken by id.
func SortNotes(notes []Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].ID < notes[j].ID
		}
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
}
