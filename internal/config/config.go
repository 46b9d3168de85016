package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Config struct {
	Port                string
	AllowedOrigins      string
	ClockDuration       time.Duration
	MatchmakingInterval time.Duration
	LogLevel            log.Level
}

func defaults() Config {
	return Config{
		Port:                "3000",
		AllowedOrigins:      "http://localhost:5173",
		ClockDuration:       600 * time.Second,
		MatchmakingInterval: time.Second,
		LogLevel:            log.LevelInfo,
	}
}

// Load reads the configuration from the environment, falling back to
// defaults for unset variables.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := defaults()
	if v := getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = v
	}
	if v := getenv("CLOCK_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return Config{}, fmt.Errorf("invalid CLOCK_SECONDS %q", v)
		}
		cfg.ClockDuration = time.Duration(secs) * time.Second
	}
	if v := getenv("MATCHMAKING_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid MATCHMAKING_INTERVAL %q", v)
		}
		cfg.MatchmakingInterval = d
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		level, err := parseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", s)
}

// Origins splits AllowedOrigins for the websocket origin check.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
