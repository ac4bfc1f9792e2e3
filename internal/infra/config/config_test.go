package config

import (
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"SOUNDBOARD_DISCORD_APPLICATION_ID":        "123",
		"SOUNDBOARD_DISCORD_PUBLIC_KEY":            strings.Repeat("ab", 32),
		"SOUNDBOARD_DISCORD_TOKEN":                 "tok",
		"SOUNDBOARD_DISCORD_GUILD_ID":              "456",
		"SOUNDBOARD_DISCORD_SOUNDBOARD_CHANNEL_ID": "789",
		"SOUNDBOARD_DATABASE_URL":                  "postgres://localhost/soundboard",
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := parse(env.Options{Prefix: envPrefix, Environment: baseEnv()})
	require.NoError(t, err)

	assert.Equal(t, "https://discord.com/api/v10", cfg.DiscordBaseURL)
	assert.Equal(t, int64(131072), cfg.SoundMaxSize)
	assert.Equal(t, "./data", cfg.SoundDataDir)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 6, cfg.PlayQueueSize)
	assert.Equal(t, time.Second, cfg.PressCooldown)
}

func TestParseMissingRequired(t *testing.T) {
	e := baseEnv()
	delete(e, "SOUNDBOARD_DISCORD_TOKEN")

	_, err := parse(env.Options{Prefix: envPrefix, Environment: e})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_TOKEN")
}

func TestParseRejectsBadPublicKey(t *testing.T) {
	for name, key := range map[string]string{
		"not hex":   "zz",
		"too short": "abcd",
	} {
		t.Run(name, func(t *testing.T) {
			e := baseEnv()
			e["SOUNDBOARD_DISCORD_PUBLIC_KEY"] = key
			_, err := parse(env.Options{Prefix: envPrefix, Environment: e})
			require.Error(t, err)
		})
	}
}

func TestParseRejectsNonPositiveMaxSize(t *testing.T) {
	e := baseEnv()
	e["SOUNDBOARD_SOUND_MAX_SIZE"] = "0"
	_, err := parse(env.Options{Prefix: envPrefix, Environment: e})
	require.Error(t, err)
}

func TestBotAuth(t *testing.T) {
	assert.Equal(t, "Bot abc", botAuth("abc"))
	assert.Equal(t, "Bot abc", botAuth("bot abc"))
	assert.Equal(t, "Bot abc", botAuth("  Bot   abc "))
}

func TestSetupLogging(t *testing.T) {
	prev := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(prev) })

	require.NoError(t, SetupLogging("debug"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	require.Error(t, SetupLogging("loud"))
}
