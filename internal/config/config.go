// Package config loads startup configuration from the environment. The
// channel token and the admin identity are required; everything else has a
// working default.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	BotToken string `env:"BOT_TOKEN,required,notEmpty"`
	AdminID  int64  `env:"ADMIN_ID,required,notEmpty"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	BinBaseURL      string        `env:"BIN_BASE_URL" envDefault:"https://lookup.binlist.net"`
	IdentityBaseURL string        `env:"IDENTITY_BASE_URL" envDefault:"https://randomuser.me/api/"`
	MailBaseURL     string        `env:"MAIL_BASE_URL" envDefault:"https://api.tempmail.io"`
	ProviderTimeout time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"10s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
