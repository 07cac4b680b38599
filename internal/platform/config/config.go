package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "chonchon/internal/platform/errors"
)

const (
	DefaultPersona       = "Chonchón"
	DefaultConfigFile    = "chonchon.yaml"
	DefaultAnswerTimeout = 30 * time.Second
)

type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

type Discord struct {
	Token    string `yaml:"token"`
	ClientID string `yaml:"client_id"`
}

type LLM struct {
	Provider Provider      `yaml:"provider"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"answer_timeout"`
}

type Config struct {
	Persona                 string  `yaml:"persona"`
	DBPath                  string  `yaml:"db_path"`
	VaultPath               string  `yaml:"vault"`
	AllowConcurrentSessions bool    `yaml:"allow_concurrent_sessions"`
	Discord                 Discord `yaml:"discord"`
	LLM                     LLM     `yaml:"llm"`
}

// LoadOptions locates the optional config and .env files. Getenv defaults to os.Getenv.
type LoadOptions struct {
	ConfigPath string
	EnvFile    string
	Getenv     func(string) string
}

func Default() Config {
	return Config{
		Persona:   DefaultPersona,
		DBPath:    filepath.Join("data", "chonchon.db"),
		VaultPath: ".",
		LLM: LLM{
			Provider: ProviderOpenAI,
			Timeout:  DefaultAnswerTimeout,
		},
	}
}

// Load resolves configuration as environment > config file > defaults.
// An explicit ConfigPath must exist; the default file is optional.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	path := opts.ConfigPath
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := readFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	getenv := opts.Getenv
	if getenv == nil {
		envFile := opts.EnvFile
		if envFile == "" {
			envFile = ".env"
		}
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
		getenv = os.Getenv
	}
	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.Persona) == "" {
		cfg.Persona = DefaultPersona
	}
	if cfg.LLM.Timeout <= 0 {
		cfg.LLM.Timeout = DefaultAnswerTimeout
	}
	if err := cfg.LLM.Provider.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.Persona, "BOT_PERSONA")
	set(&cfg.DBPath, "LORE_DB_PATH")
	set(&cfg.VaultPath, "LORE_VAULT")
	set(&cfg.Discord.Token, "DISCORD_BOT_TOKEN")
	set(&cfg.Discord.ClientID, "DISCORD_CLIENT_ID")
	set(&cfg.LLM.Model, "LLM_MODEL")

	if v := strings.TrimSpace(getenv("LLM_PROVIDER")); v != "" {
		cfg.LLM.Provider = Provider(strings.ToLower(v))
	}
	switch cfg.LLM.Provider {
	case ProviderOpenAI:
		set(&cfg.LLM.APIKey, "OPENAI_API_KEY")
		set(&cfg.LLM.BaseURL, "OPENAI_BASE_URL")
	case ProviderAnthropic:
		set(&cfg.LLM.APIKey, "ANTHROPIC_API_KEY")
	case ProviderGemini:
		set(&cfg.LLM.APIKey, "GEMINI_API_KEY")
	}

	if v := strings.TrimSpace(getenv("LORE_ALLOW_CONCURRENT_SESSIONS")); v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LORE_ALLOW_CONCURRENT_SESSIONS: %w", err)
		}
		cfg.AllowConcurrentSessions = allow
	}
	if v := strings.TrimSpace(getenv("ANSWER_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ANSWER_TIMEOUT: %w", err)
		}
		cfg.LLM.Timeout = d
	}
	return nil
}

func (p Provider) Validate() error {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
		return nil
	default:
		return fmt.Errorf("%w: unsupported llm provider %q", apperrors.ErrInvalidInput, string(p))
	}
}

// APIKeyEnv names the environment variable holding the provider credential.
func (p Provider) APIKeyEnv() string {
	switch p {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// RequireLLM fails when the answer backend has no credential.
func (c Config) RequireLLM() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("%w: %s is required", apperrors.ErrMissingConfig, c.LLM.Provider.APIKeyEnv())
	}
	return nil
}

// RequireBot fails unless both the Discord token and the LLM credential are present.
func (c Config) RequireBot() error {
	if strings.TrimSpace(c.Discord.Token) == "" {
		return fmt.Errorf("%w: DISCORD_BOT_TOKEN is required", apperrors.ErrMissingConfig)
	}
	return c.RequireLLM()
}

// InviteURL is the OAuth2 link that adds the bot with slash-command scope.
func (c Config) InviteURL() string {
	if c.Discord.ClientID == "" {
		return ""
	}
	return fmt.Sprintf("https://discord.com/oauth2/authorize?client_id=%s&permissions=277083450689&scope=bot%%20applications.commands", c.Discord.ClientID)
}
