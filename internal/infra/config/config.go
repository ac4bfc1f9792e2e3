package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "SOUNDBOARD_"

type Config struct {
	DiscordApplicationID string `env:"DISCORD_APPLICATION_ID,required"`
	DiscordPublicKey     string `env:"DISCORD_PUBLIC_KEY,required"`
	DiscordToken         string `env:"DISCORD_TOKEN,required"`
	DiscordGuild         string `env:"DISCORD_GUILD_ID,required"`
	SoundboardChannelID  string `env:"DISCORD_SOUNDBOARD_CHANNEL_ID,required"`
	DiscordBaseURL       string `env:"DISCORD_BASE_URL" envDefault:"https://discord.com/api/v10"`

	DatabaseURL string `env:"DATABASE_URL,required"`

	SoundDataDir string `env:"SOUND_DATA_DIR" envDefault:"./data"`
	SoundMaxSize int64  `env:"SOUND_MAX_SIZE" envDefault:"131072"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// playback
	PlayQueueSize int           `env:"PLAY_QUEUE_SIZE" envDefault:"6"`
	PressCooldown time.Duration `env:"PRESS_COOLDOWN" envDefault:"1s"`
}

// Load lee .env (si existe) y luego las variables SOUNDBOARD_*.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file, using process environment")
	}
	return parse(env.Options{Prefix: envPrefix})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	key, err := hex.DecodeString(c.DiscordPublicKey)
	if err != nil {
		return fmt.Errorf("DISCORD_PUBLIC_KEY is not hex: %w", err)
	}
	if len(key) != 32 {
		return fmt.Errorf("DISCORD_PUBLIC_KEY must be 32 bytes, got %d", len(key))
	}
	if c.SoundMaxSize <= 0 {
		return errors.New("SOUND_MAX_SIZE must be positive")
	}
	if c.PlayQueueSize <= 0 {
		return errors.New("PLAY_QUEUE_SIZE must be positive")
	}
	return nil
}

// BotAuth arma el header Authorization; acepta el token con o sin "Bot ".
func (c Config) BotAuth() string {
	return botAuth(c.DiscordToken)
}
