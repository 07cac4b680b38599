package tx_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"chonchon/internal/platform/tx"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "tx.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(`CREATE TABLE items (name TEXT NOT NULL)`); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func count(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestSQLManagerCommitsNestedCalls(t *testing.T) {
	t.Parallel()
	db := openDB(t)
	m := tx.NewSQLManager(db)
	err := m.Within(context.Background(), func(ctx context.Context) error {
		if _, err := tx.Executor(ctx, db).ExecContext(ctx, `INSERT INTO items(name) VALUES ('a')`); err != nil {
			return err
		}
		return m.Within(ctx, func(ctx context.Context) error {
			_, err := tx.Executor(ctx, db).ExecContext(ctx, `INSERT INTO items(name) VALUES ('b')`)
			return err
		})
	})
	if err != nil {
		t.Fatalf("within: %v", err)
	}
	if n := count(t, db); n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
}

func TestSQLManagerRollsBackOnError(t *testing.T) {
	t.Parallel()
	db := openDB(t)
	m := tx.NewSQLManager(db)
	boom := errors.New("boom")
	err := m.Within(context.Background(), func(ctx context.Context) error {
		if _, err := tx.Executor(ctx, db).ExecContext(ctx, `INSERT INTO items(name) VALUES ('a')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n := count(t, db); n != 0 {
		t.Fatalf("expected rollback, got %d rows", n)
	}
}

func TestNoopManagerRunsInline(t *testing.T) {
	t.Parallel()
	called := false
	if err := (tx.NoopManager{}).Within(context.Background(), func(context.Context) error {
		called = true
		return nil
	}); err != nil || !called {
		t.Fatalf("noop manager must call fn, err=%v", err)
	}
}
