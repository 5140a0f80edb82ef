package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort        string
	Environment       string
	FirebaseProject   string
	DatabaseDSN       string
	RedisAddr         string
	InboxCacheTTLSecs int64
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		FirebaseProject:   getEnv("FIREBASE_PROJECT_ID", ""),
		DatabaseDSN:       getEnv("DB_DSN", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		InboxCacheTTLSecs: getEnvAsInt64("INBOX_CACHE_TTL_SECONDS", 3),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
