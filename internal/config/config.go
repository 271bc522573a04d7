package config

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port           int           `env:"PORT, default=5000"`
	AllowedOrigin  string        `env:"ALLOWED_ORIGIN"`
	MaxMessageSize int64         `env:"MAX_MESSAGE_SIZE, default=100000000"`
	RoomTTL        time.Duration `env:"ROOM_TTL, default=24h"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL, default=1m"`
	RedisURL       string        `env:"REDIS_URL"`
	RedisPrefix    string        `env:"REDIS_PREFIX, default=droprelay:"`
	DiscordURL     string        `env:"DISCORD_URL"`
	ServerName     string        `env:"SERVER_NAME, default=droprelay"`
}

func New(ctx context.Context, envpath string) (*Config, error) {
	if envpath != "" {
		log.Default().Println("loading env from file: ", envpath)
		err := godotenv.Load(envpath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	err := envconfig.Process(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.MaxMessageSize <= 0 {
		return nil, errors.New("MAX_MESSAGE_SIZE must be positive")
	}

	return cfg, nil
}
