package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	// Task source and results
	QuizSource     string
	ImagesDir      string
	ResultFileName string
	Locale         string
	FetchTimeout   time.Duration

	// Task list cache
	RedisURL     string
	TaskCacheTTL time.Duration

	AllowedOrigins []string

	Events EventConfig
}

// LoadConfig reads .env when present and falls back to defaults for unset values.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		QuizSource:     getEnv("QUIZ_SOURCE", "./public/Question.xlsx"),
		ImagesDir:      getEnv("QUIZ_IMAGES_DIR", "./public/images"),
		ResultFileName: getEnv("QUIZ_RESULT_FILE", "Result.xlsx"),
		Locale:         getEnv("QUIZ_LOCALE", "ru"),
		FetchTimeout:   getEnvDuration("QUIZ_FETCH_TIMEOUT", 30*time.Second),
		RedisURL:       getEnv("REDIS_URL", ""),
		TaskCacheTTL:   getEnvDuration("TASK_CACHE_TTL", 10*time.Minute),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS"),
		Events: EventConfig{
			Enabled:      getEnvBool("EVENTS_ENABLED", true),
			Publisher:    getEnv("EVENTS_PUBLISHER", "channel"),
			KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			SessionTopic: getEnv("SESSION_EVENTS_TOPIC", "testtask.sessions"),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
