package domain_test

import (
	"errors"
	"testing"
	"time"

	"chonchon/internal/modules/lore/domain"
	apperrors "chonchon/internal/platform/errors"
)

func TestSortNotesByTimestampThenID(t *testing.T) {
	t.Parallel()
	t0 := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	notes := []domain.Note{
		{ID: 3, CreatedAt: t0.Add(time.Minute)},
		{ID: 2, CreatedAt: t0},
		{ID: 1, CreatedAt: t0},
		{ID: 4, CreatedAt: t0.Add(-time.Minute)},
	}
	domain.SortNotes(notes)
	want := []int64{4, 1, 2, 3}
	for i, n := range notes {
		if n.ID != want[i] {
			t.Fatalf("position %d: expected note %d, got %d", i, want[i], n.ID)
		}
	}
}

func TestNoteLineAndAuthorFallback(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 3, 1, 20, 5, 0, 0, time.UTC)
	n := domain.Note{CreatedAt: at, AuthorName: "Ana", Content: "Found a key"}
	if got := n.Line(); got != "[2026-03-01 20:05] Ana: Found a key" {
		t.Fatalf("unexpected line %q", got)
	}
	if got := (domain.Note{AuthorID: "99"}).Author(); got != "99" {
		t.Fatalf("expected id fallback, got %q", got)
	}
	if got := (domain.Note{}).Author(); got != "anonymous" {
		t.Fatalf("expected anonymous, got %q", got)
	}
}

func TestValidation(t *testing.T) {
	t.Parallel()
	if err := domain.ValidateContent(" \n\t"); !errors.Is(err, apperrors.ErrEmptyContent) {
		t.Fatalf("expected empty content error, got %v", err)
	}
	if err := domain.ValidateGuild(""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if (domain.Session{ID: 7}).Label() != "Session #7" {
		t.Fatalf("untitled sessions are labelled by id")
	}
	if !(domain.Session{}).IsOpen() || (domain.Session{EndedAt: time.Now()}).IsOpen() {
		t.Fatalf("open state must follow EndedAt")
	}
}
