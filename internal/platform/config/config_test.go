package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chonchon/internal/platform/config"
	apperrors "chonchon/internal/platform/errors"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Parallel()
	cfg, err := config.Load(config.LoadOptions{
		ConfigPath: "",
		Getenv:     envFrom(nil),
	})
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Persona != config.DefaultPersona {
		t.Fatalf("expected default persona, got %q", cfg.Persona)
	}
	if cfg.LLM.Provider != config.ProviderOpenAI || cfg.LLM.Timeout != config.DefaultAnswerTimeout {
		t.Fatalf("unexpected llm defaults: %+v", cfg.LLM)
	}
	if cfg.AllowConcurrentSessions {
		t.Fatalf("single open session must be the default")
	}
	if err := cfg.RequireBot(); !errors.Is(err, apperrors.ErrMissingConfig) {
		t.Fatalf("expected missing config error, got %v", err)
	}
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "chonchon.yaml")
	content := `persona: Trauco
db_path: /tmp/lore.db
allow_concurrent_sessions: true
discord:
  token: file-token
  client_id: "123"
llm:
  provider: anthropic
  answer_timeout: 5s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.Load(config.LoadOptions{
		ConfigPath: path,
		Getenv: envFrom(map[string]string{
			"DISCORD_BOT_TOKEN": "env-token",
			"ANTHROPIC_API_KEY": "sk-ant",
			"OPENAI_API_KEY":    "ignored",
		}),
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Persona != "Trauco" || cfg.DBPath != "/tmp/lore.db" || !cfg.AllowConcurrentSessions {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Discord.Token != "env-token" {
		t.Fatalf("env must override file token, got %q", cfg.Discord.Token)
	}
	if cfg.LLM.APIKey != "sk-ant" || cfg.LLM.Timeout != 5*time.Second {
		t.Fatalf("unexpected llm config: %+v", cfg.LLM)
	}
	if err := cfg.RequireBot(); err != nil {
		t.Fatalf("bot config should be complete: %v", err)
	}
	if !strings.Contains(cfg.InviteURL(), "client_id=123") {
		t.Fatalf("unexpected invite url %q", cfg.InviteURL())
	}
}

func TestLoadRejectsMissingExplicitFileAndBadValues(t *testing.T) {
	t.Parallel()
	if _, err := config.Load(config.LoadOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"), Getenv: envFrom(nil)}); err == nil {
		t.Fatalf("explicit missing config must fail")
	}
	if _, err := config.Load(config.LoadOptions{Getenv: envFrom(map[string]string{"LLM_PROVIDER": "llama"})}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid provider error, got %v", err)
	}
	if _, err := config.Load(config.LoadOptions{Getenv: envFrom(map[string]string{"ANSWER_TIMEOUT": "soon"})}); err == nil {
		t.Fatalf("bad timeout must fail")
	}
}

func TestRequireLLMNamesProviderVariable(t *testing.T) {
	t.Parallel()
	cfg, err := config.Load(config.LoadOptions{Getenv: envFrom(map[string]string{
		"LLM_PROVIDER":      "gemini",
		"DISCORD_BOT_TOKEN": "tok",
	})})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	err = cfg.RequireBot()
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("expected GEMINI_API_KEY error, got %v", err)
	}
}
