package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"chonchon/internal/discord"
	loreinadapter "chonchon/internal/modules/lore/adapter/in"
	loreoutadapter "chonchon/internal/modules/lore/adapter/out"
	loreservice "chonchon/internal/modules/lore/service"
	loreusecase "chonchon/internal/modules/lore/usecase"
	oracleinadapter "chonchon/internal/modules/oracle/adapter/in"
	oracleoutadapter "chonchon/internal/modules/oracle/adapter/out"
	oracledomain "chonchon/internal/modules/oracle/domain"
	oracleout "chonchon/internal/modules/oracle/port/out"
	oracleservice "chonchon/internal/modules/oracle/service"
	oracleusecase "chonchon/internal/modules/oracle/usecase"
	"chonchon/internal/platform/clock"
	"chonchon/internal/platform/config"
	uiapp "chonchon/internal/ui/app"
)

// App is built once per process and passed to every entry point.
type App struct {
	Config    config.Config
	LoreCLI   loreinadapter.CLIHandler
	OracleCLI oracleinadapter.CLIHandler
	Log       *slog.Logger

	store *loreoutadapter.SQLiteSessionStore
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	clk := clock.SystemClock{}

	store, err := loreoutadapter.NewSQLiteSessionStore(cfg.DBPath, clk)
	if err != nil {
		return nil, fmt.Errorf("open lore store: %w", err)
	}
	loreSvc := loreservice.NewLoreService(
		store,
		store,
		loreoutadapter.NewVaultRecapWriter(cfg.VaultPath),
		loreservice.Policy{AllowConcurrentSessions: cfg.AllowConcurrentSessions},
	)
	loreUC := loreusecase.NewInteractor(loreSvc, log.With("module", "lore"))

	completer, err := NewCompleter(ctx, cfg.LLM)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	oracleUC := oracleusecase.NewInteractor(oracleservice.NewOracleService(
		completer,
		oracledomain.Persona{Name: cfg.Persona},
		cfg.LLM.Timeout,
		log.With("module", "oracle"),
	))

	return &App{
		Config:    cfg,
		LoreCLI:   loreinadapter.NewCLIHandler(loreUC),
		OracleCLI: oracleinadapter.NewCLIHandler(oracleUC),
		Log:       log,
		store:     store,
	}, nil
}

// NewCompleter picks the answer backend for the configured provider.
// Without a credential the oracle still runs and always answers with its fallback.
func NewCompleter(ctx context.Context, llm config.LLM) (oracleout.Completer, error) {
	if err := llm.Provider.Validate(); err != nil {
		return nil, err
	}
	if llm.APIKey == "" {
		return oracleoutadapter.UnavailableCompleter{Reason: llm.Provider.APIKeyEnv() + " is not set"}, nil
	}
	switch llm.Provider {
	case config.ProviderAnthropic:
		return oracleoutadapter.NewAnthropicCompleter(llm.APIKey, func(o *oracleoutadapter.AnthropicOptions) {
			o.Model = llm.Model
			o.BaseURL = llm.BaseURL
		}), nil
	case config.ProviderGemini:
		c, err := oracleoutadapter.NewGeminiCompleter(ctx, llm.APIKey, func(o *oracleoutadapter.GeminiOptions) {
			o.Model = llm.Model
		})
		if err != nil {
			return nil, fmt.Errorf("new gemini completer: %w", err)
		}
		return c, nil
	default:
		return oracleoutadapter.NewOpenAICompleter(llm.APIKey, func(o *oracleoutadapter.OpenAIOptions) {
			o.Model = llm.Model
			o.BaseURL = llm.BaseURL
		}), nil
	}
}

func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func RunTUI(app *App, guildID string, author uiapp.Author) error {
	if guildID == "" {
		return errors.New("tui needs a guild: pass --guild")
	}
	model := uiapp.NewModel(guildID, author, app.LoreCLI, app.OracleCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// RunBot serves slash commands until ctx is cancelled.
func RunBot(ctx context.Context, app *App) error {
	if err := app.Config.RequireBot(); err != nil {
		return err
	}
	router := discord.NewRouter(app.LoreCLI, app.OracleCLI)
	bot, err := discord.NewBot(discord.BotOptions{
		Token:     app.Config.Discord.Token,
		AppID:     app.Config.Discord.ClientID,
		InviteURL: app.Config.InviteURL(),
	}, router, app.Log.With("component", "discord"))
	if err != nil {
		return err
	}
	return bot.Run(ctx)
}
