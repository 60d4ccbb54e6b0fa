package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot transport settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"TELEGRAM_TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"PORT"`
}

// GenerationConfig configures the text-generation backend. The endpoint must
// speak the OpenAI chat-completions protocol; Gemini exposes one.
type GenerationConfig struct {
	APIKey          string  `yaml:"api_key" envconfig:"GEMINI_API_KEY"`
	BaseURL         string  `yaml:"base_url" envconfig:"GENERATION_BASE_URL"`
	Model           string  `yaml:"model" envconfig:"GENERATION_MODEL"`
	Temperature     float64 `yaml:"temperature" envconfig:"GENERATION_TEMPERATURE"`
	TopP            float64 `yaml:"top_p" envconfig:"GENERATION_TOP_P"`
	TopK            int     `yaml:"top_k" envconfig:"GENERATION_TOP_K"`
	MaxOutputTokens int     `yaml:"max_output_tokens" envconfig:"GENERATION_MAX_OUTPUT_TOKENS"`
	// TimeoutSeconds bounds a single generation call; 0 leaves it unbounded.
	TimeoutSeconds int `yaml:"timeout_seconds" envconfig:"GENERATION_TIMEOUT_SECONDS"`
}

// DatabaseConfig holds connection settings for the optional activity journal.
type DatabaseConfig struct {
	Enabled        bool   `yaml:"enabled" envconfig:"DB_ENABLED"`
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// StatsConfig controls the periodic session statistics report.
type StatsConfig struct {
	// Schedule is a cron expression; empty disables the report.
	Schedule          string `yaml:"schedule" envconfig:"STATS_SCHEDULE"`
	ActiveWindowHours int    `yaml:"active_window_hours" envconfig:"STATS_ACTIVE_WINDOW_HOURS"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir" envconfig:"LOG_DIR"`
	File        string `yaml:"file" envconfig:"LOG_FILE"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

// Defaults applied by Normalize when a value is left unset.
const (
	DefaultWebhookListen   = "0.0.0.0"
	DefaultWebhookPort     = 5000
	DefaultBaseURL         = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel           = "gemini-2.0-flash"
	DefaultTemperature     = 0.7
	DefaultTopP            = 0.8
	DefaultTopK            = 40
	DefaultMaxOutputTokens = 1024
	DefaultStatsSchedule   = "@hourly"
	DefaultActiveWindow    = 24
	DefaultDBMaxConns      = 5
)

// Config aggregates every setting read at startup.
type Config struct {
	Telegram   TelegramConfig   `yaml:"telegram"`
	Webhook    WebhookConfig    `yaml:"webhook"`
	Generation GenerationConfig `yaml:"generation"`
	Database   DatabaseConfig   `yaml:"database"`
	Stats      StatsConfig      `yaml:"stats"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Load reads configuration from an optional YAML file and environment variables.
// A missing file is not an error: the environment alone may carry everything.
func Load(path string) (*Config, error) {
	var cfg Config

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config: %w", err)
			}
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return fmt.Errorf("telegram token is required")
	}
	if strings.TrimSpace(cfg.Generation.APIKey) == "" {
		return fmt.Errorf("generation.api_key is required")
	}

	if err := normalizeTransport(cfg); err != nil {
		return err
	}
	if err := normalizeGeneration(&cfg.Generation); err != nil {
		return err
	}
	if err := normalizeDatabase(&cfg.Database); err != nil {
		return err
	}

	cfg.Stats.Schedule = strings.TrimSpace(cfg.Stats.Schedule)
	if cfg.Stats.Schedule == "" {
		cfg.Stats.Schedule = DefaultStatsSchedule
	}
	if strings.EqualFold(cfg.Stats.Schedule, "off") {
		cfg.Stats.Schedule = ""
	}
	if cfg.Stats.ActiveWindowHours <= 0 {
		cfg.Stats.ActiveWindowHours = DefaultActiveWindow
	}
	return nil
}

func normalizeTransport(cfg *Config) error {
	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		if strings.TrimSpace(cfg.Webhook.URL) != "" {
			rm = RunModeWebhook
		} else {
			rm = RunModeLongpoll
		}
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			cfg.Webhook.Listen = DefaultWebhookListen
		}
		if cfg.Webhook.Port == 0 {
			cfg.Webhook.Port = DefaultWebhookPort
		}
		if cfg.Webhook.Port < 0 || cfg.Webhook.Port > 65535 {
			return fmt.Errorf("webhook.port %d out of range", cfg.Webhook.Port)
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm
	return nil
}

// Zero values mean "unset" for the sampling parameters, so a literal
// temperature of 0 cannot be configured.
func normalizeGeneration(g *GenerationConfig) error {
	if strings.TrimSpace(g.BaseURL) == "" {
		g.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(g.Model) == "" {
		g.Model = DefaultModel
	}
	if g.Temperature == 0 {
		g.Temperature = DefaultTemperature
	}
	if g.TopP == 0 {
		g.TopP = DefaultTopP
	}
	if g.TopK == 0 {
		g.TopK = DefaultTopK
	}
	if g.MaxOutputTokens == 0 {
		g.MaxOutputTokens = DefaultMaxOutputTokens
	}
	switch {
	case g.Temperature < 0 || g.Temperature > 2:
		return fmt.Errorf("generation.temperature must be within [0, 2]")
	case g.TopP < 0 || g.TopP > 1:
		return fmt.Errorf("generation.top_p must be within [0, 1]")
	case g.TopK < 0:
		return fmt.Errorf("generation.top_k must be >= 0")
	case g.MaxOutputTokens < 0:
		return fmt.Errorf("generation.max_output_tokens must be >= 0")
	case g.TimeoutSeconds < 0:
		return fmt.Errorf("generation.timeout_seconds must be >= 0")
	}
	return nil
}

func normalizeDatabase(db *DatabaseConfig) error {
	if !db.Enabled {
		return nil
	}
	if strings.TrimSpace(db.Host) == "" || strings.TrimSpace(db.Name) == "" {
		return fmt.Errorf("database.host and database.name are required when database.enabled is true")
	}
	if db.Port == "" {
		db.Port = "5432"
	}
	if db.SSLMode == "" {
		db.SSLMode = "disable"
	}
	if db.MaxConnections <= 0 {
		db.MaxConnections = DefaultDBMaxConns
	}
	return nil
}
