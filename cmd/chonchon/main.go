package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"chonchon/internal/bootstrap"
	"chonchon/internal/platform/config"
	"chonchon/internal/platform/logger"
	uiapp "chonchon/internal/ui/app"
)

type rootFlags struct {
	configPath string
	dbPath     string
	vaultPath  string
	guildID    string
}

func main() {
	log := logger.Init(logger.FromEnv())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Debug("command failed", "error", err)
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "chonchon",
		Short:         "Lore keeper and rules oracle for tabletop game nights",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default chonchon.yaml if present)")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "lore database path (overrides LORE_DB_PATH)")
	root.PersistentFlags().StringVar(&flags.vaultPath, "vault", "", "directory for exported recaps (overrides LORE_VAULT)")
	root.PersistentFlags().StringVar(&flags.guildID, "guild", "", "guild (server) id the lore belongs to")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newSessionCmd(flags))
	root.AddCommand(newAskCmd(flags))
	root.AddCommand(newExportCmd(flags))
	root.AddCommand(newTUICmd(flags))
	return root
}

func loadConfig(flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigPath: flags.configPath})
	if err != nil {
		return config.Config{}, err
	}
	if flags.dbPath != "" {
		cfg.DBPath = flags.dbPath
	}
	if flags.vaultPath != "" {
		cfg.VaultPath = flags.vaultPath
	}
	return cfg, nil
}

func loadApp(ctx context.Context, flags *rootFlags) (*bootstrap.App, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, nil)
}

func requireGuild(flags *rootFlags) (string, error) {
	guild := strings.TrimSpace(flags.guildID)
	if guild == "" {
		return "", errors.New("--guild is required")
	}
	return guild, nil
}

// reply prints the keeper's text; a rejected operation still exits non-zero.
func reply(cmd *cobra.Command, text string, err error) error {
	if text != "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
	}
	return err
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Discord bot until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if err := cfg.RequireBot(); err != nil {
				return err
			}
			app, err := bootstrap.New(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunBot(cmd.Context(), app)
		},
	}
}

func newSessionCmd(flags *rootFlags) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Lore session lifecycle"}

	var title string
	start := &cobra.Command{
		Use:   "start",
		Short: "Start a session in the guild",
		RunE: func(cmd *cobra.Command, _ []string) error {
			guild, err := requireGuild(flags)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.LoreCLI.StartSession(cmd.Context(), guild, title)
			return reply(cmd, out.Text, err)
		},
	}
	start.Flags().StringVar(&title, "title", "", "session title")

	var authorID, authorName string
	note := &cobra.Command{
		Use:   "note <text>",
		Short: "Record a note in the open session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guild, err := requireGuild(flags)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.LoreCLI.RecordNote(cmd.Context(), guild, authorID, authorName, strings.Join(args, " "))
			return reply(cmd, out.Text, err)
		},
	}
	note.Flags().StringVar(&authorID, "author-id", "", "author id")
	note.Flags().StringVar(&authorName, "author", os.Getenv("USER"), "author name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the notes of the open session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			guild, err := requireGuild(flags)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.LoreCLI.ListSession(cmd.Context(), guild)
			return reply(cmd, out.Text, err)
		},
	}

	var closeSummary string
	closeCmd := &cobra.Command{
		Use:   "close",
		Short: "Close the open session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			guild, err := requireGuild(flags)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.LoreCLI.CloseSession(cmd.Context(), guild, closeSummary)
			return reply(cmd, out.Text, err)
		},
	}
	closeCmd.Flags().StringVar(&closeSummary, "summary", "", "recap of the session")

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "Show recent sessions of the guild",
		RunE: func(cmd *cobra.Command, _ []string) error {
			guild, err := requireGuild(flags)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.LoreCLI.History(cmd.Context(), guild, limit)
			return reply(cmd, out.Text, err)
		},
	}
	history.Flags().IntVar(&limit, "limit", 10, "number of sessions")

	var recapID int64
	var recapSummary string
	recap := &cobra.Command{
		Use:   "recap",
		Short: "Show a past session, or rewrite its recap with --summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			guild, err := requireGuild(flags)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			if strings.TrimSpace(recapSummary) != "" {
				out, err := app.LoreCLI.AmendSummary(cmd.Context(), guild, recapID, recapSummary)
				return reply(cmd, out.Text, err)
			}
			out, err := app.LoreCLI.SessionNotes(cmd.Context(), guild, recapID)
			if err == nil && out.Session.Summary != "" {
				out.Text += "\n\nRecap: " + out.Session.Summary
			}
			return reply(cmd, out.Text, err)
		},
	}
	recap.Flags().Int64Var(&recapID, "session-id", 0, "session id")
	recap.Flags().StringVar(&recapSummary, "summary", "", "new recap for a closed session")
	_ = recap.MarkFlagRequired("session-id")

	session.AddCommand(start, note, list, closeCmd, history, recap)
	return session
}

func newAskCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the oracle a rules question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if err := cfg.RequireLLM(); err != nil {
				return err
			}
			app, err := bootstrap.New(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer app.Close()
			out := app.OracleCLI.Ask(cmd.Context(), strings.Join(args, " "))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", out.Persona, out.Text)
			return nil
		},
	}
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	var sessionID int64
	export := &cobra.Command{
		Use:   "export",
		Short: "Write a session recap as Markdown into the vault",
		RunE: func(cmd *cobra.Command, _ []string) error {
			guild, err := requireGuild(flags)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.LoreCLI.Export(cmd.Context(), guild, sessionID)
			return reply(cmd, out.Text, err)
		},
	}
	export.Flags().Int64Var(&sessionID, "session-id", 0, "session id")
	_ = export.MarkFlagRequired("session-id")
	return export
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	var author string
	tui := &cobra.Command{
		Use:   "tui",
		Short: "Browse and keep the lore of a guild in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			guild, err := requireGuild(flags)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app, guild, uiapp.Author{Name: author})
		},
	}
	tui.Flags().StringVar(&author, "author", os.Getenv("USER"), "author name for notes")
	return tui
}
