package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBoardWidth  = 10
	DefaultBoardHeight = 10
	DefaultBoardMines  = 8
	MaxBoardSide       = 100

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"

	defaultSessionTTL = 24 * time.Hour
)

// ServerConfig holds all configuration values loaded from environment variables.
type ServerConfig struct {
	ServerHost        string
	ServerPort        string
	RedisURL          string
	PostgresURL       string
	BasicAuthUsername string
	BasicAuthPassword string
	Token             string
	Prefork           bool
	StaticDir         string
	SessionStore      string
	SessionTTL        time.Duration
}

// LoadServerConfig loads configuration from environment variables.
// A .env file in the working directory is loaded first if present.
func LoadServerConfig() *ServerConfig {
	loadDotEnv()

	return &ServerConfig{
		ServerHost:        getEnvMust("MINES_SERVER_HOST"),
		ServerPort:        getEnvMust("MINES_SERVER_PORT"),
		RedisURL:          getEnvMust("MINES_REDIS_URL"),
		PostgresURL:       getEnvMust("MINES_POSTGRES_URL"),
		BasicAuthUsername: getEnvMust("MINES_BASIC_AUTH_USER"),
		BasicAuthPassword: getEnvMust("MINES_BASIC_AUTH_PASS"),
		Token:             getEnvMust("MINES_SERVER_TOKEN"),
		Prefork:           getEnvMustBool("MINES_SERVER_PREFORK"),
		StaticDir:         getEnvMust("MINES_STATIC_DIR"),
		SessionStore:      getEnvSessionStore("MINES_SESSION_STORE"),
		SessionTTL:        getEnvDuration("MINES_SESSION_TTL", defaultSessionTTL),
	}
}

type PlayClientConfig struct {
	ServerURL string
	Width     int
	Height    int
	Mines     int
}

func LoadPlayClientConfig() *PlayClientConfig {
	loadDotEnv()

	return &PlayClientConfig{
		ServerURL: getEnvMust("MINES_SERVER_URL"),
		Width:     getEnvInt("MINES_PLAY_WIDTH", DefaultBoardWidth),
		Height:    getEnvInt("MINES_PLAY_HEIGHT", DefaultBoardHeight),
		Mines:     getEnvInt("MINES_PLAY_MINES", DefaultBoardMines),
	}
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}
}

// getEnvMust either returns the environment variable or logs a fatal error if it is not set.
func getEnvMust(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Environment variable is not set", "key", key)
		os.Exit(1)
	}
	return value
}

func getEnvMustBool(key string) bool {
	value := getEnvMust(key)

	if value != "true" && value != "false" {
		slog.Error("Cannot load environment variable, it must be \"true\" or \"false\"", "key", key, "value", value)
		os.Exit(1)
	}

	return value == "true"
}

func getEnvSessionStore(key string) string {
	value := os.Getenv(key)

	switch value {
	case "":
		return SessionStoreMemory
	case SessionStoreMemory, SessionStoreRedis:
		return value
	default:
		slog.Error("Cannot load environment variable, it must be \"memory\" or \"redis\"", "key", key, "value", value)
		os.Exit(1)
	}

	return ""
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		slog.Error("Cannot load environment variable, it must be a positive duration", "key", key, "value", value)
		os.Exit(1)
	}

	return duration
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Error("Cannot load environment variable, it must be an integer", "key", key, "value", value)
		os.Exit(1)
	}

	return n
}
