package service

import (
	"context"
	"fmt"

	"chonchon/internal/modules/lore/domain"
	loreout "chonchon/internal/modules/lore/port/out"
	apperrors "chonchon/internal/platform/errors"
	"chonchon/internal/platform/tx"
)

// Policy holds the per-deployment lore rules.
type Policy struct {
	// AllowConcurrentSessions lets a guild keep several sessions open; the newest one receives notes.
	AllowConcurrentSessions bool
}

type LoreService struct {
	tx     tx.Manager
	store  loreout.SessionStore
	recaps loreout.RecapWriter
	policy Policy
}

func NewLoreService(txm tx.Manager, store loreout.SessionStore, recaps loreout.RecapWriter, policy Policy) *LoreService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &LoreService{tx: txm, store: store, recaps: recaps, policy: policy}
}

// Start creates a session for the guild. Unless concurrent sessions are allowed, an already open
// session is returned together with ErrSessionAlreadyOpen.
func (s *LoreService) Start(ctx context.Context, guildID, title string) (domain.Session, error) {
	if err := domain.ValidateGuild(guildID); err != nil {
		return domain.Session{}, err
	}
	var session domain.Session
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		if !s.policy.AllowConcurrentSessions {
			open, ok, err := s.store.GetOpenSession(ctx, guildID)
			if err != nil {
				return err
			}
			if ok {
				session = open
				return fmt.Errorf("%w: session %d", apperrors.ErrSessionAlreadyOpen, open.ID)
			}
		}
		created, err := s.store.CreateSession(ctx, guildID, title)
		if err != nil {
			return err
		}
		session = created
		return nil
	})
	return session, err
}

func (s *LoreService) RecordNote(ctx context.Context, guildID, authorID, authorName, content string) (domain.Note, error) {
	var note domain.Note
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		open, err := s.openSession(ctx, guildID)
		if err != nil {
			return err
		}
		note, err = s.store.AppendNote(ctx, open.ID, authorID, authorName, content)
		return err
	})
	return note, err
}

// OpenNotes returns the guild's open session with its notes; ok is false when none is open.
func (s *LoreService) OpenNotes(ctx context.Context, guildID string) (domain.Session, []domain.Note, bool, error) {
	var (
		session domain.Session
		notes   []domain.Note
		ok      bool
	)
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		session, ok, err = s.store.GetOpenSession(ctx, guildID)
		if err != nil || !ok {
			return err
		}
		notes, err = s.store.ListNotes(ctx, session.ID)
		return err
	})
	return session, notes, ok, err
}

// Close ends the guild's open session and reports how many notes it holds.
func (s *LoreService) Close(ctx context.Context, guildID, summary string) (domain.Session, int, error) {
	var (
		closed domain.Session
		count  int
	)
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		open, err := s.openSession(ctx, guildID)
		if err != nil {
			return err
		}
		closed, err = s.store.CloseSession(ctx, open.ID, summary)
		if err != nil {
			return err
		}
		count, err = s.store.CountNotes(ctx, open.ID)
		return err
	})
	return closed, count, err
}

func (s *LoreService) History(ctx context.Context, guildID string, limit int) ([]domain.SessionStats, error) {
	if err := domain.ValidateGuild(guildID); err != nil {
		return nil, err
	}
	var stats []domain.SessionStats
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		sessions, err := s.store.ListSessions(ctx, guildID, limit)
		if err != nil {
			return err
		}
		stats = make([]domain.SessionStats, 0, len(sessions))
		for _, session := range sessions {
			count, err := s.store.CountNotes(ctx, session.ID)
			if err != nil {
				return err
			}
			stats = append(stats, domain.SessionStats{Session: session, NoteCount: count})
		}
		return nil
	})
	return stats, err
}

// SessionNotes loads any session of the guild, open or closed, with its notes.
func (s *LoreService) SessionNotes(ctx context.Context, guildID string, sessionID int64) (domain.Recap, error) {
	var recap domain.Recap
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		session, err := s.owned(ctx, guildID, sessionID)
		if err != nil {
			return err
		}
		notes, err := s.store.ListNotes(ctx, sessionID)
		if err != nil {
			return err
		}
		recap = domain.Recap{Session: session, Notes: notes}
		return nil
	})
	return recap, err
}

func (s *LoreService) AmendSummary(ctx context.Context, guildID string, sessionID int64, summary string) (domain.Session, error) {
	var amended domain.Session
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		if _, err := s.owned(ctx, guildID, sessionID); err != nil {
			return err
		}
		var err error
		amended, err = s.store.AmendSummary(ctx, sessionID, summary)
		return err
	})
	return amended, err
}

// Export writes the recap outside the store transaction.
func (s *LoreService) Export(ctx context.Context, guildID string, sessionID int64) (domain.Recap, string, error) {
	if s.recaps == nil {
		return domain.Recap{}, "", fmt.Errorf("recap writer is not configured")
	}
	recap, err := s.SessionNotes(ctx, guildID, sessionID)
	if err != nil {
		return domain.Recap{}, "", err
	}
	path, err := s.recaps.Write(ctx, recap)
	if err != nil {
		return domain.Recap{}, "", err
	}
	return recap, path, nil
}

func (s *LoreService) openSession(ctx context.Context, guildID string) (domain.Session, error) {
	if err := domain.ValidateGuild(guildID); err != nil {
		return domain.Session{}, err
	}
	open, ok, err := s.store.GetOpenSession(ctx, guildID)
	if err != nil {
		return domain.Session{}, err
	}
	if !ok {
		return domain.Session{}, apperrors.ErrNoOpenSession
	}
	return open, nil
}

func (s *LoreService) owned(ctx context.Context, guildID string, sessionID int64) (domain.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if session.GuildID != guildID {
		return domain.Session{}, fmt.Errorf("%w: session %d", apperrors.ErrInvalidReference, sessionID)
	}
	return session, nil
}
