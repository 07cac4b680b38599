package in

import (
	"context"

	loredto "chonchon/internal/modules/lore/dto"
	lorein "chonchon/internal/modules/lore/port/in"
)

// CLIHandler is the entry point shared by the cobra commands, the Discord router and the TUI.
type CLIHandler struct {
	usecase lorein.Usecase
}

func NewCLIHandler(usecase lorein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) StartSession(ctx context.Context, guildID, title string) (loredto.StartSessionOutput, error) {
	return h.usecase.StartSession(ctx, loredto.StartSessionInput{GuildID: guildID, Title: title})
}

func (h CLIHandler) RecordNote(ctx context.Context, guildID, authorID, authorName, content string) (loredto.RecordNoteOutput, error) {
	return h.usecase.RecordNote(ctx, loredto.RecordNoteInput{GuildID: guildID, AuthorID: authorID, AuthorName: authorName, Content: content})
}

func (h CLIHandler) ListSession(ctx context.Context, guildID string) (loredto.ListSessionOutput, error) {
	return h.usecase.ListSession(ctx, loredto.ListSessionInput{GuildID: guildID})
}

func (h CLIHandler) CloseSession(ctx context.Context, guildID, summary string) (loredto.CloseSessionOutput, error) {
	return h.usecase.CloseSession(ctx, loredto.CloseSessionInput{GuildID: guildID, Summary: summary})
}

func (h CLIHandler) History(ctx context.Context, guildID string, limit int) (loredto.HistoryOutput, error) {
	return h.usecase.History(ctx, loredto.HistoryInput{GuildID: guildID, Limit: limit})
}

func (h CLIHandler) SessionNotes(ctx context.Context, guildID string, sessionID int64) (loredto.SessionNotesOutput, error) {
	return h.usecase.SessionNotes(ctx, loredto.SessionNotesInput{GuildID: guildID, SessionID: sessionID})
}

func (h CLIHandler) AmendSummary(ctx context.Context, guildID string, sessionID int64, summary string) (loredto.AmendSummaryOutput, error) {
	return h.usecase.AmendSummary(ctx, loredto.AmendSummaryInput{GuildID: guildID, SessionID: sessionID, Summary: summary})
}

func (h CLIHandler) Export(ctx context.Context, guildID string, sessionID int64) (loredto.ExportOutput, error) {
	return h.usecase.Export(ctx, loredto.ExportInput{GuildID: guildID, SessionID: sessionID})
}
