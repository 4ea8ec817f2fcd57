package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// APIBaseURL points at the CRM backend, including the /api prefix.
	APIBaseURL string `env:"CRM_API_URL" envDefault:"http://localhost:8080/api"`

	// StateDir holds the local sqlite state database and exported files.
	StateDir string `env:"CRM_STATE_DIR" envDefault:".crmdesk"`

	LogLevel  string `env:"CRM_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"CRM_LOG_FORMAT" envDefault:"text"`

	// AllowOfflineLogin enables the built-in identity fallback when the
	// backend is unreachable. Demo convenience only: it bypasses the
	// backend entirely and must never be enabled in production.
	AllowOfflineLogin bool `env:"CRM_ALLOW_OFFLINE_LOGIN" envDefault:"false"`

	// Telegram toast sink; disabled unless both values are set.
	TelegramToken  string `env:"CRM_TELEGRAM_TOKEN"`
	TelegramChatID int64  `env:"CRM_TELEGRAM_CHAT_ID"`

	// Dev backend settings, used only by cmd/devserver.
	DevAddr          string `env:"CRM_DEV_ADDR" envDefault:":8080"`
	DevJWTSecret     string `env:"CRM_DEV_JWT_SECRET" envDefault:"dev-secret"`
	DevAdminEmail    string `env:"CRM_DEV_ADMIN_EMAIL" envDefault:"admin@example.com"`
	DevAdminPassword string `env:"CRM_DEV_ADMIN_PASSWORD" envDefault:"adminpass"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("CRM_API_URL is required")
	}
	if strings.TrimSpace(c.StateDir) == "" {
		return fmt.Errorf("CRM_STATE_DIR is required")
	}
	if (c.TelegramToken == "") != (c.TelegramChatID == 0) {
		return fmt.Errorf("CRM_TELEGRAM_TOKEN and CRM_TELEGRAM_CHAT_ID must be set together")
	}
	return nil
}

// TelegramEnabled reports whether the optional Telegram sink is fully
// configured.
func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
