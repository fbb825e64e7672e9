package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration. Everything except the bot
// token has a working default; a missing token aborts startup.
type Config struct {
	BotToken string `env:"TG_BOT_TOKEN"`

	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIModel   string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMTimeout    time.Duration `env:"LLM_TIMEOUT" envDefault:"40s"`

	MediaDir    string        `env:"MEDIA_DIR" envDefault:"media"`
	CardBGPath  string        `env:"CARD_BG_PATH" envDefault:"media/ui/card_bg.png"`
	CardRadius  int           `env:"CARD_RADIUS" envDefault:"48"`
	CardScale   float64       `env:"CARD_SCALE" envDefault:"0.9"`
	CacheDir    string        `env:"CACHE_DIR" envDefault:"media/cache/rounded"`
	RevealDelay time.Duration `env:"REVEAL_DELAY" envDefault:"150ms"`

	HTTPAddr     string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevelName string `env:"LOG_LEVEL" envDefault:"info"`

	LogLevel slog.Level
}

func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if c.BotToken == "" {
		return Config{}, fmt.Errorf("TG_BOT_TOKEN is required")
	}

	level, err := parseLogLevel(c.LogLevelName)
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	return c, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
