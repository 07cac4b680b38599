package out

import (
	"context"

	"chonchon/internal/modules/lore/domain"
)

// SessionStore persists sessions and their notes. Every mutation is committed before it returns.
type SessionStore interface {
	CreateSession(ctx context.Context, guildID, title string) (domain.Session, error)
	AppendNote(ctx context.Context, sessionID int64, authorID, authorName, content string) (domain.Note, error)
	ListNotes(ctx context.Context, sessionID int64) ([]domain.Note, error)
	CloseSession(ctx context.Context, sessionID int64, summary string) (domain.Session, error)
	GetOpenSession(ctx context.Context, guildID string) (domain.Session, bool, error)
	GetSession(ctx context.Context, sessionID int64) (domain.Session, error)
	ListSessions(ctx context.Context, guildID string, limit int) ([]domain.Session, error)
	CountNotes(ctx context.Context, sessionID int64) (int, error)
	AmendSummary(ctx context.Context, sessionID int64, summary string) (domain.Session, error)
}

type RecapWriter interface {
	Write(ctx context.Context, recap domain.Recap) (string, error)
}
