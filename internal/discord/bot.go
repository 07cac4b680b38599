package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"chonchon/internal/platform/logger"
)

type BotOptions struct {
	Token     string
	AppID     string
	InviteURL string
}

// Bot connects the Router to the Discord gateway.
type Bot struct {
	session *discordgo.Session
	router  *Router
	opts    BotOptions
	log     *slog.Logger
	base    atomic.Pointer[context.Context]
}

func NewBot(opts BotOptions, router *Router, log *slog.Logger) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}
	session, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("new discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds
	b := &Bot{session: session, router: router, opts: opts, log: log}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	return b, nil
}

// Run blocks until ctx is cancelled, then disconnects.
func (b *Bot) Run(ctx context.Context) error {
	b.base.Store(&ctx)
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	b.log.Info("bot connected")
	<-ctx.Done()
	b.log.Info("bot shutting down")
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("close discord gateway: %w", err)
	}
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	appID := b.opts.AppID
	if appID == "" && r.User != nil {
		appID = r.User.ID
	}
	if r.User != nil {
		b.log.Info("bot ready", "user", r.User.Username, "guilds", len(r.Guilds))
	}
	if b.opts.InviteURL != "" {
		b.log.Info("invite the bot with", "url", b.opts.InviteURL)
	}
	if _, err := s.ApplicationCommandBulkOverwrite(appID, "", Commands()); err != nil {
		b.log.Error("register slash commands", "error", err)
		return
	}
	b.log.Info("slash commands registered", "count", len(Commands()))
}

func (b *Bot) onInteraction(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return
	}
	inv := toInvocation(ic.Interaction)
	log := logger.NewRequestLogger(b.log).With("command", inv.Name, "guild", inv.GuildID, "user", inv.UserID)
	ctx := b.runContext()
	log.Debug("interaction received")

	if inv.Name == CommandAsk {
		err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		})
		if err != nil {
			log.Error("defer interaction", "error", err)
			return
		}
		b.followUp(s, ic.Interaction, SplitMessage(b.router.Handle(ctx, inv), MaxMessageLength), log)
		return
	}

	chunks := SplitMessage(b.router.Handle(ctx, inv), MaxMessageLength)
	err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: chunks[0]},
	})
	if err != nil {
		log.Error("respond to interaction", "error", err)
		return
	}
	b.followUp(s, ic.Interaction, chunks[1:], log)
}

// runContext is the one Run was started with, so shutdown cancels in-flight answers.
func (b *Bot) runContext() context.Context {
	if ctx := b.base.Load(); ctx != nil {
		return *ctx
	}
	return context.Background()
}

func (b *Bot) followUp(s *discordgo.Session, i *discordgo.Interaction, chunks []string, log *slog.Logger) {
	for _, chunk := range chunks {
		if _, err := s.FollowupMessageCreate(i, true, &discordgo.WebhookParams{Content: chunk}); err != nil {
			log.Error("send follow-up", "error", err)
			return
		}
	}
}

func toInvocation(i *discordgo.Interaction) Invocation {
	data := i.ApplicationCommandData()
	inv := Invocation{
		Name:    data.Name,
		GuildID: i.GuildID,
		Options: map[string]string{},
	}
	switch {
	case i.Member != nil && i.Member.User != nil:
		inv.UserID = i.Member.User.ID
		inv.UserName = i.Member.User.Username
		if nick := strings.TrimSpace(i.Member.Nick); nick != "" {
			inv.UserName = nick
		}
	case i.User != nil:
		inv.UserID = i.User.ID
		inv.UserName = i.User.Username
	}
	for _, opt := range data.Options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionInteger:
			inv.Options[opt.Name] = fmt.Sprint(opt.IntValue())
		case discordgo.ApplicationCommandOptionString:
			inv.Options[opt.Name] = opt.StringValue()
		default:
			inv.Options[opt.Name] = fmt.Sprint(opt.Value)
		}
	}
	return inv
}
