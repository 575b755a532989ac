package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration, loaded once at startup.
type Config struct {
	Port           string
	LogLevel       string
	JWTSecret      string
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration
	FrontendURL    string

	DBName     string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// New loads configuration from environment variables.
func New() (*Config, error) {
	accessTTL, err := getEnvMinutes("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	if err != nil {
		return nil, err
	}

	resetHours, err := getEnvInt("RESET_TOKEN_EXPIRE_HOURS", 24)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AccessTokenTTL: accessTTL,
		ResetTokenTTL:  time.Duration(resetHours) * time.Hour,
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		DBName:         getEnv("POSTGRES_DB", "auth"),
		DBUser:         getEnv("POSTGRES_USER", "postgres"),
		DBPassword:     getEnv("POSTGRES_PASSWORD", ""),
		DBHost:         getEnv("POSTGRES_HOST", "localhost"),
		DBPort:         getEnv("POSTGRES_PORT", "5432"),
		SMTPHost:       getEnv("SMTP_HOST", "localhost"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SenderEmail:    getEnv("SENDER_EMAIL", "no-reply@localhost"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// DatabaseURL builds the Postgres connection string from the POSTGRES_* parts.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvMinutes(key string, defaultVal int) (time.Duration, error) {
	n, err := getEnvInt(key, defaultVal)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Minute, nil
}
