package config

import (
	"log"
	"os"
)

// Config holds the dev backend settings, all read from the environment.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	// SendGrid is optional; with no API key reset mails are logged instead.
	SendGridAPIKey string
	FromName       string
	FromEmail      string
	ResetURLBase   string

	// MediaDir is where uploaded report photos land; BaseURL prefixes the
	// public URLs handed back to clients.
	MediaDir string
	BaseURL  string
}

func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "server"),
		DBPassword:     getEnv("DB_PASSWORD", "secret"),
		DBName:         getEnv("DB_NAME", "cleancity"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		FromName:       getEnv("SENDGRID_FROM_NAME", "CleanCity"),
		FromEmail:      getEnv("SENDGRID_FROM_EMAIL", "noreply@cleancity.example"),
		ResetURLBase:   getEnv("RESET_URL_BASE", "http://localhost:8080/reset"),
		MediaDir:       getEnv("MEDIA_DIR", "./media"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
