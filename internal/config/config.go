package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	TelegramToken      string        `env:"TELEGRAM_TOKEN,required"`
	APIBaseURL         string        `env:"API_BASE_URL,required"`
	APIServiceToken    string        `env:"API_SERVICE_TOKEN"`
	OperatorChatID     int64         `env:"OPERATOR_CHAT_ID,required"`
	RedisAddr          string        `env:"REDIS_ADDR,required"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisDB            int           `env:"REDIS_DB" envDefault:"0"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	HTTPRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	SearchResultLimit  int           `env:"SEARCH_RESULT_LIMIT" envDefault:"30"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.OperatorChatID == 0 {
		return nil, fmt.Errorf("operator chat ID is required")
	}

	return &cfg, nil
}
