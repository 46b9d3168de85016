package config

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(env(nil))
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 600*time.Second, cfg.ClockDuration)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Origins())
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(env(map[string]string{
		"PORT":                 "8080",
		"ALLOWED_ORIGINS":      "http://a.test, http://b.test",
		"CLOCK_SECONDS":        "180",
		"MATCHMAKING_INTERVAL": "250ms",
		"LOG_LEVEL":            "debug",
	}))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3*time.Minute, cfg.ClockDuration)
	assert.Equal(t, 250*time.Millisecond, cfg.MatchmakingInterval)
	assert.Equal(t, log.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins())
}

func TestLoadRejectsBadValues(t *testing.T) {
	for k, v := range map[string]string{
		"CLOCK_SECONDS":        "-5",
		"MATCHMAKING_INTERVAL": "soon",
		"LOG_LEVEL":            "loud",
	} {
		_, err := load(env(map[string]string{k: v}))
		assert.Error(t, err, k)
	}
}
