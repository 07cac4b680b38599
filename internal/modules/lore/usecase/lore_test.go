package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	loreout "chonchon/internal/modules/lore/adapter/out"
	"chonchon/internal/modules/lore/dto"
	lorein "chonchon/internal/modules/lore/port/in"
	"chonchon/internal/modules/lore/service"
	"chonchon/internal/modules/lore/usecase"
	"chonchon/internal/platform/clock"
	apperrors "chonchon/internal/platform/errors"
	"chonchon/internal/platform/logger"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

func newSQLiteKeeper(t *testing.T, clk clock.Clock, policy service.Policy) (lorein.Usecase, *loreout.SQLiteSessionStore, string) {
	t.Helper()
	vault := t.TempDir()
	store, err := loreout.NewSQLiteSessionStore(filepath.Join(vault, "data", "chonchon.db"), clk)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	svc := service.NewLoreService(store, store, loreout.NewVaultRecapWriter(vault), policy)
	return usecase.NewInteractor(svc, logger.Discard()), store, vault
}

func newMemoryKeeper(clk clock.Clock, policy service.Policy) (lorein.Usecase, *loreout.MemorySessionStore) {
	store := loreout.NewMemorySessionStore(clk)
	svc := service.NewLoreService(store, store, nil, policy)
	return usecase.NewInteractor(svc, logger.Discard()), store
}

func TestGameNightScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := clock.Fixed{At: time.Date(2026, 3, 14, 20, 15, 0, 0, time.UTC)}
	keeper, store, _ := newSQLiteKeeper(t, clk, service.Policy{})

	started, err := keeper.StartSession(ctx, dto.StartSessionInput{GuildID: "42", Title: "Session 1"})
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if started.SessionID != 1 || !strings.Contains(started.Text, "#1") {
		t.Fatalf("unexpected start output %+v", started)
	}
	open, ok, err := store.GetOpenSession(ctx, "42")
	if err != nil || !ok || open.ID != 1 || !open.IsOpen() {
		t.Fatalf("session 1 should be open: %+v ok=%v err=%v", open, ok, err)
	}

	noted, err := keeper.RecordNote(ctx, dto.RecordNoteInput{GuildID: "42", AuthorID: "1001", AuthorName: "Ana", Content: "Found a key"})
	if err != nil {
		t.Fatalf("record note: %v", err)
	}
	if noted.NoteID != 1 || noted.SessionID != 1 {
		t.Fatalf("unexpected note output %+v", noted)
	}

	listed, err := keeper.ListSession(ctx, dto.ListSessionInput{GuildID: "42"})
	if err != nil {
		t.Fatalf("list session: %v", err)
	}
	matching := 0
	for _, line := range strings.Split(listed.Text, "\n") {
		if strings.Contains(line, "Ana") && strings.Contains(line, "Found a key") {
			matching++
		}
	}
	if matching != 1 || len(listed.Notes) != 1 {
		t.Fatalf("expected exactly one note line, got:\n%s", listed.Text)
	}
	if listed.Notes[0].Line != "[2026-03-14 20:15] Ana: Found a key" {
		t.Fatalf("unexpected rendered line %q", listed.Notes[0].Line)
	}

	closed, err := keeper.CloseSession(ctx, dto.CloseSessionInput{GuildID: "42", Summary: "Explored the ruins"})
	if err != nil {
		t.Fatalf("close session: %v", err)
	}
	if closed.NoteCount != 1 || !strings.Contains(closed.Text, "1 note") {
		t.Fatalf("unexpected close output %+v", closed)
	}
	if _, err := store.AppendNote(ctx, 1, "1001", "Ana", "one more"); !errors.Is(err, apperrors.ErrSessionClosed) {
		t.Fatalf("expected session closed after close, got %v", err)
	}
	session, err := store.GetSession(ctx, 1)
	if err != nil || session.Summary != "Explored the ruins" {
		t.Fatalf("summary not stored: %+v (%v)", session, err)
	}
}

func TestRecordNoteWithoutOpenSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	keeper, store := newMemoryKeeper(clock.SystemClock{}, service.Policy{})

	out, err := keeper.RecordNote(ctx, dto.RecordNoteInput{GuildID: "42", AuthorName: "Ana", Content: "Found a key"})
	if !errors.Is(err, apperrors.ErrNoOpenSession) {
		t.Fatalf("expected no open session, got %v", err)
	}
	if !strings.Contains(out.Text, "start a session first") {
		t.Fatalf("expected start-a-session hint, got %q", out.Text)
	}
	if sessions, _ := store.ListSessions(ctx, "42", 0); len(sessions) != 0 {
		t.Fatalf("no rows may be written, got %+v", sessions)
	}
	if _, err := keeper.CloseSession(ctx, dto.CloseSessionInput{GuildID: "42"}); !errors.Is(err, apperrors.ErrNoOpenSession) {
		t.Fatalf("close without session: expected no open session, got %v", err)
	}
	listed, err := keeper.ListSession(ctx, dto.ListSessionInput{GuildID: "42"})
	if err != nil || listed.Session != nil || !strings.Contains(listed.Text, "no open session") {
		t.Fatalf("expected empty-state listing, got %+v (%v)", listed, err)
	}
}

func TestSingleOpenSessionPolicy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	keeper, _ := newMemoryKeeper(clock.SystemClock{}, service.Policy{})

	first, err := keeper.StartSession(ctx, dto.StartSessionInput{GuildID: "g", Title: "Arc I"})
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	second, err := keeper.StartSession(ctx, dto.StartSessionInput{GuildID: "g", Title: "Arc II"})
	if !errors.Is(err, apperrors.ErrSessionAlreadyOpen) {
		t.Fatalf("expected session already open, got %v", err)
	}
	if second.SessionID != first.SessionID || !strings.Contains(second.Text, "Arc I") {
		t.Fatalf("rejection should point at the open session, got %+v", second)
	}
	if _, err := keeper.StartSession(ctx, dto.StartSessionInput{GuildID: "other", Title: "Arc I"}); err != nil {
		t.Fatalf("other guilds are independent: %v", err)
	}
}

func TestConcurrentSessionsPolicyResolvesNewest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	keeper, store := newMemoryKeeper(clock.SystemClock{}, service.Policy{AllowConcurrentSessions: true})

	if _, err := keeper.StartSession(ctx, dto.StartSessionInput{GuildID: "g", Title: "Table A"}); err != nil {
		t.Fatalf("start A: %v", err)
	}
	b, err := keeper.StartSession(ctx, dto.StartSessionInput{GuildID: "g", Title: "Table B"})
	if err != nil {
		t.Fatalf("start B: %v", err)
	}
	noted, err := keeper.RecordNote(ctx, dto.RecordNoteInput{GuildID: "g", AuthorName: "Bo", Content: "Dragon!"})
	if err != nil {
		t.Fatalf("record note: %v", err)
	}
	if noted.SessionID != b.SessionID {
		t.Fatalf("note should land in newest session %d, got %d", b.SessionID, noted.SessionID)
	}
	if count, _ := store.CountNotes(ctx, b.SessionID); count != 1 {
		t.Fatalf("expected one note in session B, got %d", count)
	}
}

func TestEmptyNoteAndEmptyListing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	keeper, _ := newMemoryKeeper(clock.SystemClock{}, service.Policy{})
	if _, err := keeper.StartSession(ctx, dto.StartSessionInput{GuildID: "g"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	out, err := keeper.RecordNote(ctx, dto.RecordNoteInput{GuildID: "g", AuthorName: "Ana", Content: "   "})
	if !errors.Is(err, apperrors.ErrEmptyContent) || !strings.Contains(out.Text, "empty") {
		t.Fatalf("expected empty content rejection, got %+v (%v)", out, err)
	}
	listed, err := keeper.ListSession(ctx, dto.ListSessionInput{GuildID: "g"})
	if err != nil || listed.Session == nil || len(listed.Notes) != 0 || !strings.Contains(listed.Text, "no notes yet") {
		t.Fatalf("expected empty open session listing, got %+v (%v)", listed, err)
	}
	if _, err := keeper.StartSession(ctx, dto.StartSessionInput{GuildID: ""}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("blank guild must be rejected, got %v", err)
	}
}

func TestHistoryAmendAndExport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &fakeClock{values: []time.Time{
		time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC),
		time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 21, 19, 0, 0, 0, time.UTC),
	}}
	keeper, _, vault := newSQLiteKeeper(t, clk, service.Policy{})

	first, _ := keeper.StartSession(ctx, dto.StartSessionInput{GuildID: "42", Title: "The Ruins"})
	_, _ = keeper.RecordNote(ctx, dto.RecordNoteInput{GuildID: "42", AuthorName: "Ana", Content: "Found a key"})
	if _, err := keeper.AmendSummary(ctx, dto.AmendSummaryInput{GuildID: "42", SessionID: first.SessionID, Summary: "x"}); !errors.Is(err, apperrors.ErrSessionOpen) {
		t.Fatalf("amending an open session must fail, got %v", err)
	}
	_, _ = keeper.CloseSession(ctx, dto.CloseSessionInput{GuildID: "42"})
	second, _ := keeper.StartSession(ctx, dto.StartSessionInput{GuildID: "42"})

	history, err := keeper.History(ctx, dto.HistoryInput{GuildID: "42"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history.Sessions) != 2 || history.Sessions[0].ID != second.SessionID || !history.Sessions[0].Open {
		t.Fatalf("unexpected history %+v", history.Sessions)
	}
	if history.Sessions[1].NoteCount != 1 || !strings.Contains(history.Text, "#1 The Ruins (closed") {
		t.Fatalf("unexpected history text:\n%s", history.Text)
	}

	if _, err := keeper.AmendSummary(ctx, dto.AmendSummaryInput{GuildID: "42", SessionID: first.SessionID, Summary: "Explored the ruins"}); err != nil {
		t.Fatalf("amend summary: %v", err)
	}
	if _, err := keeper.AmendSummary(ctx, dto.AmendSummaryInput{GuildID: "other", SessionID: first.SessionID, Summary: "stolen"}); !errors.Is(err, apperrors.ErrInvalidReference) {
		t.Fatalf("sessions of another guild must be invisible, got %v", err)
	}

	exported, err := keeper.Export(ctx, dto.ExportInput{GuildID: "42", SessionID: first.SessionID})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(exported.Path, filepath.Join(vault, "lore", "42")) {
		t.Fatalf("unexpected export path %s", exported.Path)
	}
	raw, err := os.ReadFile(exported.Path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(raw), "Explored the ruins") || !strings.Contains(string(raw), "Ana: Found a key") {
		t.Fatalf("unexpected export:\n%s", raw)
	}

	notes, err := keeper.SessionNotes(ctx, dto.SessionNotesInput{GuildID: "42", SessionID: first.SessionID})
	if err != nil || len(notes.Notes) != 1 || notes.Session.Open {
		t.Fatalf("unexpected session notes %+v (%v)", notes, err)
	}
}
