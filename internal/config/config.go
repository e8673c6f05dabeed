package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment       string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRedirectURL  string
	Port              string
	ChatCountryCode   string
	SendDelayMs       int
	InboxLimit        int
}

func NewConfig() (*Config, error) {
	env := os.Getenv("CORREO_ENV")
	if env == "" {
		env = "development"
	}

	if env == "development" {
		if err := godotenv.Load(); err != nil {
			fmt.Println("Warning: .env file not found, using environment variables")
		}
	}

	config := &Config{
		Environment:       env,
		OAuthClientID:     os.Getenv("CORREO_OAUTH_CLIENT_ID"),
		OAuthClientSecret: os.Getenv("CORREO_OAUTH_CLIENT_SECRET"),
		OAuthRedirectURL:  os.Getenv("CORREO_OAUTH_REDIRECT_URL"),
		Port:              getEnvOrDefault("PORT", "8080"),
		ChatCountryCode:   getEnvOrDefault("CORREO_CHAT_COUNTRY_CODE", "52"),
		SendDelayMs:       getEnvIntOrDefault("CORREO_SEND_DELAY_MS", 1000),
		InboxLimit:        getEnvIntOrDefault("CORREO_INBOX_LIMIT", 10),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.OAuthClientID == "" {
		return fmt.Errorf("CORREO_OAUTH_CLIENT_ID is required")
	}

	if c.OAuthClientSecret == "" {
		return fmt.Errorf("CORREO_OAUTH_CLIENT_SECRET is required")
	}

	if c.OAuthRedirectURL == "" {
		return fmt.Errorf("CORREO_OAUTH_REDIRECT_URL is required")
	}

	if c.SendDelayMs < 0 {
		return fmt.Errorf("CORREO_SEND_DELAY_MS must not be negative")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		fmt.Printf("Warning: %s is not a number, using default %d\n", key, defaultValue)
		return defaultValue
	}

	return parsed
}
