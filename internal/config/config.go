// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all process configuration. It is built once at startup and
// injected into the components that need it; nothing reads the environment
// after Load returns.
type Config struct {
	Port          string
	WebhookSecret string
	DatabaseURL   string
	AMQPURL       string
}

// Load reads .env when present, then the OS environment. DATABASE_URL wins
// over the discrete DB_* variables.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AMQPURL:       os.Getenv("AMQP_URL"),
	}

	if cfg.DatabaseURL == "" {
		if host := os.Getenv("DB_HOST"); host != "" {
			cfg.DatabaseURL = fmt.Sprintf(
				"postgres://%s:%s@%s:%s/%s?sslmode=disable",
				os.Getenv("DB_USER"),
				os.Getenv("DB_PASSWORD"),
				host,
				getenv("DB_PORT", "5432"),
				os.Getenv("DB_NAME"),
			)
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
