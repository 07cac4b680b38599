package out

import (
	"context"
	"fmt"
	"sync"

	"chonchon/internal/modules/lore/domain"
	"chonchon/internal/platform/clock"
	apperrors "chonchon/internal/platform/errors"
)

type memoryTxKey struct{}

// MemorySessionStore is an in-process SessionStore with the same invariants as the SQLite one.
// A single mutex serializes calls; Within holds it across the whole callback.
type MemorySessionStore struct {
	mu            sync.Mutex
	clock         clock.Clock
	sessions      map[int64]domain.Session
	notes         map[int64][]domain.Note
	nextSessionID int64
	nextNoteID    int64
}

func NewMemorySessionStore(clk clock.Clock) *MemorySessionStore {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &MemorySessionStore{
		clock:    clk,
		sessions: map[int64]domain.Session{},
		notes:    map[int64][]domain.Note{},
	}
}

func (s *MemorySessionStore) Within(ctx context.Context, fn func(context.Context) error) error {
	if held, _ := ctx.Value(memoryTxKey{}).(bool); held {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.WithValue(ctx, memoryTxKey{}, true))
}

func (s *MemorySessionStore) lock(ctx context.Context) func() {
	if held, _ := ctx.Value(memoryTxKey{}).(bool); held {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemorySessionStore) CreateSession(ctx context.Context, guildID, title string) (domain.Session, error) {
	if err := domain.ValidateGuild(guildID); err != nil {
		return domain.Session{}, err
	}
	defer s.lock(ctx)()
	s.nextSessionID++
	session := domain.Session{
		ID:        s.nextSessionID,
		GuildID:   guildID,
		Title:     title,
		StartedAt: s.clock.Now().UTC(),
	}
	s.sessions[session.ID] = session
	return session, nil
}

func (s *MemorySessionStore) AppendNote(ctx context.Context, sessionID int64, authorID, authorName, content string) (domain.Note, error) {
	defer s.lock(ctx)()
	session, err := s.get(sessionID)
	if err != nil {
		return domain.Note{}, err
	}
	if !session.IsOpen() {
		return domain.Note{}, fmt.Errorf("%w: session %d", apperrors.ErrSessionClosed, sessionID)
	}
	if err := domain.ValidateContent(content); err != nil {
		return domain.Note{}, err
	}
	s.nextNoteID++
	note := domain.Note{
		ID:         s.nextNoteID,
		SessionID:  sessionID,
		CreatedAt:  s.clock.Now().UTC(),
		AuthorID:   authorID,
		AuthorName: authorName,
		Content:    content,
	}
	s.notes[sessionID] = append(s.notes[sessionID], note)
	return note, nil
}

func (s *MemorySessionStore) ListNotes(ctx context.Context, sessionID int64) ([]domain.Note, error) {
	defer s.lock(ctx)()
	if _, err := s.get(sessionID); err != nil {
		return nil, err
	}
	notes := append([]domain.Note{}, s.notes[sessionID]...)
	domain.SortNotes(notes)
	return notes, nil
}

func (s *MemorySessionStore) CloseSession(ctx context.Context, sessionID int64, summary string) (domain.Session, error) {
	defer s.lock(ctx)()
	session, err := s.get(sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if !session.IsOpen() {
		return domain.Session{}, fmt.Errorf("%w: session %d", apperrors.ErrAlreadyClosed, sessionID)
	}
	session.EndedAt = s.clock.Now().UTC()
	if summary != "" {
		session.Summary = summary
	}
	s.sessions[sessionID] = session
	return session, nil
}

func (s *MemorySessionStore) GetOpenSession(ctx context.Context, guildID string) (domain.Session, bool, error) {
	defer s.lock(ctx)()
	var (
		found domain.Session
		ok    bool
	)
	for _, session := range s.sessions {
		if session.GuildID != guildID || !session.IsOpen() {
			continue
		}
		if !ok || session.ID > found.ID {
			found, ok = session, true
		}
	}
	return found, ok, nil
}

func (s *MemorySessionStore) GetSession(ctx context.Context, sessionID int64) (domain.Session, error) {
	defer s.lock(ctx)()
	return s.get(sessionID)
}

func (s *MemorySessionStore) ListSessions(ctx context.Context, guildID string, limit int) ([]domain.Session, error) {
	defer s.lock(ctx)()
	sessions := []domain.Session{}
	for id := s.nextSessionID; id > 0; id-- {
		session, ok := s.sessions[id]
		if !ok || session.GuildID != guildID {
			continue
		}
		sessions = append(sessions, session)
		if limit > 0 && len(sessions) == limit {
			break
		}
	}
	return sessions, nil
}

func (s *MemorySessionStore) CountNotes(ctx context.Context, sessionID int64) (int, error) {
	defer s.lock(ctx)()
	if _, err := s.get(sessionID); err != nil {
		return 0, err
	}
	return len(s.notes[sessionID]), nil
}

func (s *MemorySessionStore) AmendSummary(ctx context.Context, sessionID int64, summary string) (domain.Session, error) {
	defer s.lock(ctx)()
	session, err := s.get(sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if session.IsOpen() {
		return domain.Session{}, fmt.Errorf("%w: session %d", apperrors.ErrSessionOpen, sessionID)
	}
	session.Summary = summary
	s.sessions[sessionID] = session
	return session, nil
}

func (s *MemorySessionStore) get(sessionID int64) (domain.Session, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: session %d", apperrors.ErrInvalidReference, sessionID)
	}
	return session, nil
}
