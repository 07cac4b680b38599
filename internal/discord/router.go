package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	loredto "chonchon/internal/modules/lore/dto"
	oracledto "chonchon/internal/modules/oracle/dto"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type LorePort interface {
	StartSession(ctx context.Context, guildID, title string) (loredto.StartSessionOutput, error)
	RecordNote(ctx context.Context, guildID, authorID, authorName, content string) (loredto.RecordNoteOutput, error)
	ListSession(ctx context.Context, guildID string) (loredto.ListSessionOutput, error)
	CloseSession(ctx context.Context, guildID, summary string) (loredto.CloseSessionOutput, error)
	History(ctx context.Context, guildID string, limit int) (loredto.HistoryOutput, error)
	SessionNotes(ctx context.Context, guildID string, sessionID int64) (loredto.SessionNotesOutput, error)
	AmendSummary(ctx context.Context, guildID string, sessionID int64, summary string) (loredto.AmendSummaryOutput, error)
}

type OraclePort interface {
	Ask(ctx context.Context, question string) oracledto.AskOutput
}

// Invocation is one slash command with its options already flattened to strings.
type Invocation struct {
	Name     string
	GuildID  string
	UserID   string
	UserName string
	Options  map[string]string
}

func (inv Invocation) option(name string) string {
	return strings.TrimSpace(inv.Options[name])
}

const guildOnlyReply = "The lore commands only work inside a server."

// Router maps an invocation to reply text. It never talks to the gateway.
type Router struct {
	lore   LorePort
	oracle OraclePort
}

func NewRouter(lore LorePort, oracle OraclePort) *Router {
	return &Router{lore: lore, oracle: oracle}
}

// Handle runs the command and returns what should be posted back.
// Rejected lore operations still produce their user-facing text.
func (r *Router) Handle(ctx context.Context, inv Invocation) string {
	switch inv.Name {
	case CommandAsk:
		question := inv.option(OptionQuestion)
		if question == "" {
			return "Ask me something, mortal."
		}
		out := r.oracle.Ask(ctx, question)
		if out.Persona == "" {
			return out.Text
		}
		return fmt.Sprintf("**%s answers:** %s", out.Persona, out.Text)
	case CommandLoreStart, CommandLoreNote, CommandLoreList, CommandLoreClose, CommandLoreHistory, CommandLoreRecap:
		if strings.TrimSpace(inv.GuildID) == "" {
			return guildOnlyReply
		}
		return r.handleLore(ctx, inv)
	default:
		return fmt.Sprintf("Unknown command %q.", inv.Name)
	}
}

func (r *Router) handleLore(ctx context.Context, inv Invocation) string {
	switch inv.Name {
	case CommandLoreStart:
		out, _ := r.lore.StartSession(ctx, inv.GuildID, inv.option(OptionTitle))
		return out.Text
	case CommandLoreNote:
		out, _ := r.lore.RecordNote(ctx, inv.GuildID, inv.UserID, inv.UserName, inv.option(OptionText))
		return out.Text
	case CommandLoreList:
		out, _ := r.lore.ListSession(ctx, inv.GuildID)
		return out.Text
	case CommandLoreClose:
		out, _ := r.lore.CloseSession(ctx, inv.GuildID, inv.option(OptionSummary))
		return out.Text
	case CommandLoreHistory:
		limit, _ := strconv.Atoi(inv.option(OptionLimit))
		out, _ := r.lore.History(ctx, inv.GuildID, limit)
		return out.Text
	default:
		id, err := strconv.ParseInt(inv.option(OptionSessionID), 10, 64)
		if err != nil || id <= 0 {
			return "Give the number of the session, as shown by /lore_history."
		}
		if summary := inv.option(OptionSummary); summary != "" {
			out, _ := r.lore.AmendSummary(ctx, inv.GuildID, id, summary)
			return out.Text
		}
		out, err := r.lore.SessionNotes(ctx, inv.GuildID, id)
		if err != nil || strings.TrimSpace(out.Session.Summary) == "" {
			return out.Text
		}
		return out.Text + "\n\nRecap: " + out.Session.Summary
	}
}
