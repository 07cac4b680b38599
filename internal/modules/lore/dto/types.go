package dto

import "time"

// Every output carries Text, the message shown to the user. It is set even when the
// operation is rejected, alongside the returned error.

type StartSessionInput struct {
	GuildID string
	Title   string
}

type StartSessionOutput struct {
	Text      string
	SessionID int64
	StartedAt time.Time
}

type RecordNoteInput struct {
	GuildID    string
	AuthorID   string
	AuthorName string
	Content    string
}

type RecordNoteOutput struct {
	Text      string
	SessionID int64
	NoteID    int64
}

type ListSessionInput struct {
	GuildID string
}

type ListSessionOutput struct {
	Text    string
	Session *SessionOutput
	Notes   []NoteOutput
}

type CloseSessionInput struct {
	GuildID string
	Summary string
}

type CloseSessionOutput struct {
	Text      string
	SessionID int64
	NoteCount int
	EndedAt   time.Time
}

type HistoryInput struct {
	GuildID string
	Limit   int
}

type HistoryOutput struct {
	Text     string
	Sessions []SessionOutput
}

type SessionNotesInput struct {
	GuildID   string
	SessionID int64
}

type SessionNotesOutput struct {
	Text    string
	Session SessionOutput
	Notes   []NoteOutput
}

type AmendSummaryInput struct {
	GuildID   string
	SessionID int64
	Summary   string
}

type AmendSummaryOutput struct {
	Text      string
	SessionID int64
}

type ExportInput struct {
	GuildID   string
	SessionID int64
}

type ExportOutput struct {
	Text string
	Path string
}

type SessionOutput struct {
	ID        int64
	GuildID   string
	Title     string
	Label     string
	Open      bool
	StartedAt time.Time
	EndedAt   time.Time
	Summary   string
	NoteCount int
}

type NoteOutput struct {
	ID         int64
	SessionID  int64
	CreatedAt  time.Time
	AuthorID   string
	AuthorName string
	Content    string
	Line       string
}
