package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        int
	DatabaseURL string
	NatsURL     string
	NatsToken   string
	LogLevel    string
	APIToken    string
	TuningPath  string
	CacheTTL    int // seconds; 0 disables the advisory cache
}

func Load() Config {
	return Config{
		Port:        envInt("PULSEBOARD_PORT", 8810),
		DatabaseURL: envStr("DATABASE_URL", ""),
		NatsURL:     envStr("NATS_URL", ""),
		NatsToken:   envStr("NATS_TOKEN", ""),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		APIToken:    envStr("PULSEBOARD_API_TOKEN", ""),
		TuningPath:  envStr("PULSEBOARD_TUNING", ""),
		CacheTTL:    envInt("PULSEBOARD_CACHE_TTL", 300),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
