package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DetectorNone   = "none"
	DetectorRemote = "remote"
	DetectorOpenAI = "openai"
)

type Config struct {
	Host        string `env:"SERVER_HOST"`
	Port        int    `env:"SERVER_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"production"`

	Detector      string        `env:"DETECTOR" envDefault:"none"`
	DetectURL     string        `env:"DETECT_URL"`
	DetectTimeout time.Duration `env:"DETECT_TIMEOUT" envDefault:"30s"`
	OpenAIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIModel   string        `env:"OPENAI_MODEL" envDefault:"gpt-4.1-mini"`
}

// Load reads .env if present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Detector {
	case DetectorNone:
	case DetectorRemote:
		if cfg.DetectURL == "" {
			return Config{}, fmt.Errorf("DETECTOR=remote requires DETECT_URL")
		}
	case DetectorOpenAI:
		if cfg.OpenAIKey == "" {
			return Config{}, fmt.Errorf("DETECTOR=openai requires OPENAI_API_KEY")
		}
	default:
		return Config{}, fmt.Errorf("unknown DETECTOR %q", cfg.Detector)
	}

	return cfg, nil
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c Config) IsDev() bool {
	return c.Environment == "dev"
}
