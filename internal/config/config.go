package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port                  string
	AllowedOrigin         string
	OutletID              string
	TerminalID            string
	LocalDBPath           string
	BackendURL            string
	BackendAPIKey         string
	SyncIntervalSeconds   int
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	SearchCacheTTLSeconds int
	AuthSecret            string
	AccessTokenTTLMinutes int
	LogLevel              string
	LogEncoding           string
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	syncInterval, err := strconv.Atoi(getEnv("SYNC_INTERVAL_SECONDS", "30"))
	if err != nil || syncInterval < 1 {
		syncInterval = 30
	}
	cacheTTL, err := strconv.Atoi(getEnv("SEARCH_CACHE_TTL_SECONDS", "20"))
	if err != nil || cacheTTL < 1 {
		cacheTTL = 20
	}
	tokenTTL, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MINUTES", "480"))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 480
	}

	return Config{
		Port:                  getEnv("PORT", "7070"),
		AllowedOrigin:         getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		OutletID:              getEnv("OUTLET_ID", "main-outlet"),
		TerminalID:            getEnv("TERMINAL_ID", "terminal-1"),
		LocalDBPath:           os.Getenv("LOCAL_DB_PATH"),
		BackendURL:            os.Getenv("BACKEND_URL"),
		BackendAPIKey:         strings.TrimSpace(os.Getenv("BACKEND_API_KEY")),
		SyncIntervalSeconds:   syncInterval,
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               redisDB,
		SearchCacheTTLSeconds: cacheTTL,
		AuthSecret:            strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AccessTokenTTLMinutes: tokenTTL,
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogEncoding:           getEnv("LOG_ENCODING", "console"),
	}
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
