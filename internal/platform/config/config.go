package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the tagger service and CLI.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	// GeminiAPIKey is the fallback credential used when a request does not
	// carry its own key. It may be empty.
	GeminiAPIKey string
	TagBackend   string
	TagModel     string
	TagBaseURL   string
	MaxTags      int

	TranscriptLanguage     string
	TranscriptLanguageName string
	YouTubeRatePerSec      float64

	UpstreamTimeout time.Duration
}

// Load reads the .env file from the current working directory and sets
// environment variables. If .env does not exist, Load returns an error but
// callers can ignore it and use system env or defaults. Pass one or more paths
// to load from specific files (e.g. ".env"); with no paths, ".env" is used.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// FromEnv builds a Config from environment variables, applying defaults.
func FromEnv() Config {
	return Config{
		Port:      GetEnv("PORT", "8080"),
		LogLevel:  GetEnv("LOG_LEVEL", "info"),
		LogFormat: GetEnv("LOG_FORMAT", "json"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		TagBackend:   GetEnv("TAG_BACKEND", "gemini"),
		TagModel:     GetEnv("TAG_MODEL", "gemini-2.5-flash"),
		TagBaseURL:   os.Getenv("TAG_BASE_URL"),
		MaxTags:      GetEnvInt("MAX_TAGS", 10),

		TranscriptLanguage:     GetEnv("TRANSCRIPT_LANGUAGE", "ml"),
		TranscriptLanguageName: GetEnv("TRANSCRIPT_LANGUAGE_NAME", "Malayalam"),
		YouTubeRatePerSec:      GetEnvFloat("YOUTUBE_RATE_PER_SEC", 2),

		UpstreamTimeout: GetEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),
	}
}

// GetEnv returns the value of the environment variable named by key, or fallback
// if the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// GetEnvInt returns the integer value of the environment variable named by key,
// or fallback if the variable is unset, empty, or not a valid integer.
func GetEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}

// GetEnvFloat is GetEnvInt for floating point values.
func GetEnvFloat(key string, fallback float64) float64 {
	if s := os.Getenv(key); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return fallback
}

// GetEnvDuration parses values such as "30s" or "1m"; invalid values yield fallback.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return fallback
}
