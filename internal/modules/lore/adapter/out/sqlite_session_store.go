package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"chonchon/internal/modules/lore/domain"
	"chonchon/internal/platform/clock"
	apperrors "chonchon/internal/platform/errors"
	"chonchon/internal/platform/tx"

	_ "modernc.org/sqlite"
)

// tsLayout is fixed width and always UTC, so text order equals time order.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  guild_id TEXT NOT NULL,
  title TEXT,
  start_ts TEXT NOT NULL,
  end_ts TEXT,
  summary_md TEXT
);

CREATE INDEX IF NOT EXISTS idx_sessions_guild_open ON sessions(guild_id, end_ts);

CREATE TABLE IF NOT EXISTS notes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  session_id INTEGER NOT NULL,
  ts TEXT NOT NULL,
  author_id TEXT,
  author_name TEXT,
  content TEXT NOT NULL CHECK (length(trim(content)) > 0),
  FOREIGN KEY(session_id) REFERENCES sessions(id)
);

CREATE INDEX IF NOT EXISTS idx_notes_session_order ON notes(session_id, ts, id);

CREATE TRIGGER IF NOT EXISTS sessions_immutable_columns
BEFORE UPDATE ON sessions
WHEN (OLD.end_ts IS NOT NULL AND NEW.end_ts IS NOT OLD.end_ts)
  OR NEW.guild_id IS NOT OLD.guild_id
  OR NEW.start_ts IS NOT OLD.start_ts
BEGIN
  SELECT RAISE(ABORT, 'immutable session column');
END;

CREATE TRIGGER IF NOT EXISTS notes_require_open_session
BEFORE INSERT ON notes
WHEN (SELECT end_ts FROM sessions WHERE id = NEW.session_id) IS NOT NULL
BEGIN
  SELECT RAISE(ABORT, 'session is closed');
END;
`

const sessionColumns = `id, guild_id, title, start_ts, end_ts, summary_md`

// SQLiteSessionStore keeps sessions and notes in one SQLite file. It holds a single
// connection, so every statement and transaction is serialized.
type SQLiteSessionStore struct {
	db    *sql.DB
	tx    *tx.SQLManager
	clock clock.Clock
}

func NewSQLiteSessionStore(dbPath string, clk clock.Clock) (*SQLiteSessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if clk == nil {
		clk = clock.SystemClock{}
	}
	store := &SQLiteSessionStore{db: db, tx: tx.NewSQLManager(db), clock: clk}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create lore schema: %w", err)
	}
	return nil
}

// Within runs fn in a transaction shared by every store call made with the derived context.
func (s *SQLiteSessionStore) Within(ctx context.Context, fn func(context.Context) error) error {
	return s.tx.Within(ctx, fn)
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteSessionStore) CreateSession(ctx context.Context, guildID, title string) (domain.Session, error) {
	if err := domain.ValidateGuild(guildID); err != nil {
		return domain.Session{}, err
	}
	startedAt := s.now()
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
		`INSERT INTO sessions (guild_id, title, start_ts) VALUES (?, ?, ?)`,
		guildID, nullString(title), startedAt.Format(tsLayout),
	)
	if err != nil {
		return domain.Session{}, fmt.Errorf("insert session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Session{}, fmt.Errorf("session id: %w", err)
	}
	return domain.Session{ID: id, GuildID: guildID, Title: title, StartedAt: startedAt}, nil
}

func (s *SQLiteSessionStore) AppendNote(ctx context.Context, sessionID int64, authorID, authorName, content string) (domain.Note, error) {
	var note domain.Note
	err := s.Within(ctx, func(ctx context.Context) error {
		session, err := s.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if !session.IsOpen() {
			return fmt.Errorf("%w: session %d", apperrors.ErrSessionClosed, sessionID)
		}
		if err := domain.ValidateContent(content); err != nil {
			return err
		}
		createdAt := s.now()
		res, err := tx.Executor(ctx, s.db).ExecContext(ctx,
			`INSERT INTO notes (session_id, ts, author_id, author_name, content) VALUES (?, ?, ?, ?, ?)`,
			sessionID, createdAt.Format(tsLayout), nullString(authorID), nullString(authorName), content,
		)
		if err != nil {
			return fmt.Errorf("insert note: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("note id: %w", err)
		}
		note = domain.Note{
			ID:         id,
			SessionID:  sessionID,
			CreatedAt:  createdAt,
			AuthorID:   authorID,
			AuthorName: authorName,
			Content:    content,
		}
		return nil
	})
	if err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func (s *SQLiteSessionStore) ListNotes(ctx context.Context, sessionID int64) ([]domain.Note, error) {
	var notes []domain.Note
	err := s.Within(ctx, func(ctx context.Context) error {
		if _, err := s.GetSession(ctx, sessionID); err != nil {
			return err
		}
		rows, err := tx.Executor(ctx, s.db).QueryContext(ctx,
			`SELECT id, session_id, ts, author_id, author_name, content FROM notes WHERE session_id = ? ORDER BY ts, id`,
			sessionID,
		)
		if err != nil {
			return fmt.Errorf("query notes: %w", err)
		}
		defer rows.Close()
		notes = []domain.Note{}
		for rows.Next() {
			var (
				n                    domain.Note
				ts                   string
				authorID, authorName sql.NullString
			)
			if err := rows.Scan(&n.ID, &n.SessionID, &ts, &authorID, &authorName, &n.Content); err != nil {
				return fmt.Errorf("scan note: %w", err)
			}
			if n.CreatedAt, err = parseTS(ts); err != nil {
				return err
			}
			n.AuthorID = authorID.String
			n.AuthorName = authorName.String
			notes = append(notes, n)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *SQLiteSessionStore) CloseSession(ctx context.Context, sessionID int64, summary string) (domain.Session, error) {
	var closed domain.Session
	err := s.Within(ctx, func(ctx context.Context) error {
		session, err := s.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if !session.IsOpen() {
			return fmt.Errorf("%w: session %d", apperrors.ErrAlreadyClosed, sessionID)
		}
		endedAt := s.now()
		_, err = tx.Executor(ctx, s.db).ExecContext(ctx,
			`UPDATE sessions SET end_ts = ?, summary_md = COALESCE(?, summary_md) WHERE id = ? AND end_ts IS NULL`,
			endedAt.Format(tsLayout), nullString(summary), sessionID,
		)
		if err != nil {
			return fmt.Errorf("close session: %w", err)
		}
		closed = session
		closed.EndedAt = endedAt
		if summary != "" {
			closed.Summary = summary
		}
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}
	return closed, nil
}

func (s *SQLiteSessionStore) GetOpenSession(ctx context.Context, guildID string) (domain.Session, bool, error) {
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE guild_id = ? AND end_ts IS NULL ORDER BY id DESC LIMIT 1`,
		guildID,
	)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, err
	}
	return session, true, nil
}

func (s *SQLiteSessionStore) GetSession(ctx context.Context, sessionID int64) (domain.Session, error) {
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`,
		sessionID,
	)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, fmt.Errorf("%w: session %d", apperrors.ErrInvalidReference, sessionID)
	}
	if err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func (s *SQLiteSessionStore) ListSessions(ctx context.Context, guildID string, limit int) ([]domain.Session, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE guild_id = ? ORDER BY id DESC LIMIT ?`,
		guildID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()
	sessions := []domain.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

func (s *SQLiteSessionStore) CountNotes(ctx context.Context, sessionID int64) (int, error) {
	var count int
	err := s.Within(ctx, func(ctx context.Context) error {
		if _, err := s.GetSession(ctx, sessionID); err != nil {
			return err
		}
		row := tx.Executor(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM notes WHERE session_id = ?`, sessionID)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("count notes: %w", err)
		}
		return nil
	})
	return count, err
}

func (s *SQLiteSessionStore) AmendSummary(ctx context.Context, sessionID int64, summary string) (domain.Session, error) {
	var amended domain.Session
	err := s.Within(ctx, func(ctx context.Context) error {
		session, err := s.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if session.IsOpen() {
			return fmt.Errorf("%w: session %d", apperrors.ErrSessionOpen, sessionID)
		}
		if _, err := tx.Executor(ctx, s.db).ExecContext(ctx,
			`UPDATE sessions SET summary_md = ? WHERE id = ?`, nullString(summary), sessionID,
		); err != nil {
			return fmt.Errorf("amend summary: %w", err)
		}
		amended = session
		amended.Summary = summary
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}
	return amended, nil
}

func (s *SQLiteSessionStore) now() time.Time {
	return s.clock.Now().UTC()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var (
		session                 domain.Session
		start                   string
		title, end, summaryText sql.NullString
	)
	if err := row.Scan(&session.ID, &session.GuildID, &title, &start, &end, &summaryText); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, err
		}
		return domain.Session{}, fmt.Errorf("scan session: %w", err)
	}
	var err error
	if session.StartedAt, err = parseTS(start); err != nil {
		return domain.Session{}, err
	}
	if end.Valid {
		if session.EndedAt, err = parseTS(end.String); err != nil {
			return domain.Session{}, err
		}
	}
	session.Title = title.String
	session.Summary = summaryText.String
	return session, nil
}

func parseTS(value string) (time.Time, error) {
	t, err := time.Parse(tsLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return t, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
