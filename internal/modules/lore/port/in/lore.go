package in

import (
	"context"

	"chonchon/internal/modules/lore/dto"
)

type Usecase interface {
	StartSession(ctx context.Context, input dto.StartSessionInput) (dto.StartSessionOutput, error)
	RecordNote(ctx context.Context, input dto.RecordNoteInput) (dto.RecordNoteOutput, error)
	ListSession(ctx context.Context, input dto.ListSessionInput) (dto.ListSessionOutput, error)
	CloseSession(ctx context.Context, input dto.CloseSessionInput) (dto.CloseSessionOutput, error)
	History(ctx context.Context, input dto.HistoryInput) (dto.HistoryOutput, error)
	SessionNotes(ctx context.Context, input dto.SessionNotesInput) (dto.SessionNotesOutput, error)
	AmendSummary(ctx context.Context, input dto.AmendSummaryInput) (dto.AmendSummaryOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
