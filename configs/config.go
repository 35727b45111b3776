package configs

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	RedisAddr string

	CORSAllowOrigins []string

	// Google Sheets synchronization; the job is disabled when
	// SpreadsheetID is empty.
	SpreadsheetID     string
	GoogleCredentials string
	SyncInterval      time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading environment")
	}

	return &Config{
		Port: getEnv("PORT", "8000"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBUser: getEnv("DB_USER", "postgres"),
		DBPass: getEnv("DB_PASS", "postgres"),
		DBName: getEnv("DB_NAME", "cafe"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		CORSAllowOrigins: splitEnv("CORS_ALLOW_ORIGINS", "http://127.0.0.1:8000"),

		SpreadsheetID:     os.Getenv("SPREADSHEET_ID"),
		GoogleCredentials: getEnv("GOOGLE_CREDENTIALS", "admin/credentials.json"),
		SyncInterval:      getEnvDuration("SYNC_INTERVAL", 15*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func splitEnv(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
