package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"chonchon/internal/modules/lore/domain"
	"chonchon/internal/modules/lore/dto"
	lorein "chonchon/internal/modules/lore/port/in"
	"chonchon/internal/modules/lore/service"
	apperrors "chonchon/internal/platform/errors"
)

const defaultHistoryLimit = 10

// Interactor is the lore keeper: it turns commands into store calls and replies into text.
// It keeps no state between calls.
type Interactor struct {
	svc *service.LoreService
	log *slog.Logger
}

func NewInteractor(svc *service.LoreService, log *slog.Logger) lorein.Usecase {
	if log == nil {
		log = slog.Default()
	}
	return &Interactor{svc: svc, log: log}
}

func (i *Interactor) StartSession(ctx context.Context, input dto.StartSessionInput) (dto.StartSessionOutput, error) {
	title := strings.TrimSpace(input.Title)
	session, err := i.svc.Start(ctx, input.GuildID, title)
	if errors.Is(err, apperrors.ErrSessionAlreadyOpen) {
		return dto.StartSessionOutput{
			Text:      fmt.Sprintf("Session #%d (%s) is still open. Close it with /lore_close before starting another.", session.ID, session.Label()),
			SessionID: session.ID,
			StartedAt: session.StartedAt,
		}, err
	}
	if err != nil {
		return dto.StartSessionOutput{Text: i.describe(ctx, "start session", err)}, err
	}
	i.log.InfoContext(ctx, "lore session started", "guild", session.GuildID, "session", session.ID)
	return dto.StartSessionOutput{
		Text:      fmt.Sprintf("Session #%d started: %s. The shadows are listening.", session.ID, session.Label()),
		SessionID: session.ID,
		StartedAt: session.StartedAt,
	}, nil
}

func (i *Interactor) RecordNote(ctx context.Context, input dto.RecordNoteInput) (dto.RecordNoteOutput, error) {
	note, err := i.svc.RecordNote(ctx, input.GuildID, input.AuthorID, input.AuthorName, input.Content)
	if err != nil {
		return dto.RecordNoteOutput{Text: i.describe(ctx, "record note", err)}, err
	}
	return dto.RecordNoteOutput{
		Text:      fmt.Sprintf("Note #%d recorded in session #%d.", note.ID, note.SessionID),
		SessionID: note.SessionID,
		NoteID:    note.ID,
	}, nil
}

func (i *Interactor) ListSession(ctx context.Context, input dto.ListSessionInput) (dto.ListSessionOutput, error) {
	session, notes, ok, err := i.svc.OpenNotes(ctx, input.GuildID)
	if err != nil {
		return dto.ListSessionOutput{Text: i.describe(ctx, "list session", err)}, err
	}
	if !ok {
		return dto.ListSessionOutput{Text: "There is no open session in this server, so there is nothing to list. Start one with /lore_start."}, nil
	}
	out := toSessionOutput(session, len(notes))
	if len(notes) == 0 {
		return dto.ListSessionOutput{
			Text:    fmt.Sprintf("%s has no notes yet.", sessionHeading(session)),
			Session: &out,
			Notes:   []dto.NoteOutput{},
		}, nil
	}
	return dto.ListSessionOutput{
		Text:    renderNotes(session, notes),
		Session: &out,
		Notes:   toNoteOutputs(notes),
	}, nil
}

func (i *Interactor) CloseSession(ctx context.Context, input dto.CloseSessionInput) (dto.CloseSessionOutput, error) {
	session, count, err := i.svc.Close(ctx, input.GuildID, strings.TrimSpace(input.Summary))
	if err != nil {
		return dto.CloseSessionOutput{Text: i.describe(ctx, "close session", err)}, err
	}
	i.log.InfoContext(ctx, "lore session closed", "guild", session.GuildID, "session", session.ID, "notes", count)
	return dto.CloseSessionOutput{
		Text:      fmt.Sprintf("Session #%d closed with %d %s. The chronicle sinks back into the dark.", session.ID, count, plural(count, "note", "notes")),
		SessionID: session.ID,
		NoteCount: count,
		EndedAt:   session.EndedAt,
	}, nil
}

func (i *Interactor) History(ctx context.Context, input dto.HistoryInput) (dto.HistoryOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	stats, err := i.svc.History(ctx, input.GuildID, limit)
	if err != nil {
		return dto.HistoryOutput{Text: i.describe(ctx, "history", err)}, err
	}
	if len(stats) == 0 {
		return dto.HistoryOutput{Text: "No sessions have been recorded in this server yet.", Sessions: []dto.SessionOutput{}}, nil
	}
	sessions := make([]dto.SessionOutput, 0, len(stats))
	lines := make([]string, 0, len(stats))
	for _, st := range stats {
		sessions = append(sessions, toSessionOutput(st.Session, st.NoteCount))
		state := "open"
		if !st.Session.IsOpen() {
			state = "closed " + st.Session.EndedAt.Format(domain.DisplayLayout)
		}
		lines = append(lines, fmt.Sprintf("#%d %s (%s, %d %s, started %s)",
			st.Session.ID, st.Session.Label(), state, st.NoteCount, plural(st.NoteCount, "note", "notes"),
			st.Session.StartedAt.Format(domain.DisplayLayout)))
	}
	return dto.HistoryOutput{Text: strings.Join(lines, "\n"), Sessions: sessions}, nil
}

func (i *Interactor) SessionNotes(ctx context.Context, input dto.SessionNotesInput) (dto.SessionNotesOutput, error) {
	recap, err := i.svc.SessionNotes(ctx, input.GuildID, input.SessionID)
	if err != nil {
		return dto.SessionNotesOutput{Text: i.describe(ctx, "session notes", err)}, err
	}
	text := renderNotes(recap.Session, recap.Notes)
	if len(recap.Notes) == 0 {
		text = fmt.Sprintf("%s has no notes.", sessionHeading(recap.Session))
	}
	return dto.SessionNotesOutput{
		Text:    text,
		Session: toSessionOutput(recap.Session, len(recap.Notes)),
		Notes:   toNoteOutputs(recap.Notes),
	}, nil
}

func (i *Interactor) AmendSummary(ctx context.Context, input dto.AmendSummaryInput) (dto.AmendSummaryOutput, error) {
	summary := strings.TrimSpace(input.Summary)
	if summary == "" {
		err := fmt.Errorf("%w: summary is required", apperrors.ErrInvalidInput)
		return dto.AmendSummaryOutput{Text: "Write the recap you want to keep for that session."}, err
	}
	session, err := i.svc.AmendSummary(ctx, input.GuildID, input.SessionID, summary)
	if err != nil {
		return dto.AmendSummaryOutput{Text: i.describe(ctx, "amend summary", err)}, err
	}
	return dto.AmendSummaryOutput{
		Text:      fmt.Sprintf("Recap of session #%d updated.", session.ID),
		SessionID: session.ID,
	}, nil
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	recap, path, err := i.svc.Export(ctx, input.GuildID, input.SessionID)
	if err != nil {
		return dto.ExportOutput{Text: i.describe(ctx, "export session", err)}, err
	}
	return dto.ExportOutput{
		Text: fmt.Sprintf("Session #%d exported with %d %s to %s", recap.Session.ID, len(recap.Notes), plural(len(recap.Notes), "note", "notes"), path),
		Path: path,
	}, nil
}

// describe maps a rejected operation to the message shown to the user.
func (i *Interactor) describe(ctx context.Context, op string, err error) string {
	switch {
	case errors.Is(err, apperrors.ErrNoOpenSession):
		return "There is no open session in this server; start a session first with /lore_start."
	case errors.Is(err, apperrors.ErrSessionClosed):
		return "That session is closed; no more notes can be added to it."
	case errors.Is(err, apperrors.ErrAlreadyClosed):
		return "That session was already closed."
	case errors.Is(err, apperrors.ErrSessionOpen):
		return "That session is still open. Close it before rewriting its recap."
	case errors.Is(err, apperrors.ErrEmptyContent):
		return "The note is empty. Write something worth remembering."
	case errors.Is(err, apperrors.ErrInvalidReference):
		return "That session does not exist in this server."
	case errors.Is(err, apperrors.ErrInvalidInput):
		return "This command can only be used inside a server."
	default:
		i.log.ErrorContext(ctx, "lore operation failed", "op", op, "error", err)
		return "Something went wrong while consulting the lore. Try again later."
	}
}

func sessionHeading(session domain.Session) string {
	if strings.TrimSpace(session.Title) == "" {
		return fmt.Sprintf("Session #%d", session.ID)
	}
	return fmt.Sprintf("Session #%d (%s)", session.ID, session.Title)
}

func renderNotes(session domain.Session, notes []domain.Note) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, %d %s:", sessionHeading(session), len(notes), plural(len(notes), "note", "notes"))
	for _, note := range notes {
		b.WriteString("\n" + note.Line())
	}
	return b.String()
}

func toSessionOutput(session domain.Session, noteCount int) dto.SessionOutput {
	return dto.SessionOutput{
		ID:        session.ID,
		GuildID:   session.GuildID,
		Title:     session.Title,
		Label:     session.Label(),
		Open:      session.IsOpen(),
		StartedAt: session.StartedAt,
		EndedAt:   session.EndedAt,
		Summary:   session.Summary,
		NoteCount: noteCount,
	}
}

func toNoteOutputs(notes []domain.Note) []dto.NoteOutput {
	out := make([]dto.NoteOutput, 0, len(notes))
	for _, n := range notes {
		out = append(out, dto.NoteOutput{
			ID:         n.ID,
			SessionID:  n.SessionID,
			CreatedAt:  n.CreatedAt,
			AuthorID:   n.AuthorID,
			AuthorName: n.AuthorName,
			Content:    n.Content,
			Line:       n.Line(),
		})
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
