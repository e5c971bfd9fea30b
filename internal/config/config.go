package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// Config holds all configuration for the application.
type Config struct {
	AppAddr         string
	APIBaseURL      string
	APITimeout      time.Duration
	SessionSecret   string
	Lang            language.Tag
	MessagesFile    string
	CredentialsFile string
}

// ErrMissingAPIBaseURL is returned when API_BASE_URL is not set.
var ErrMissingAPIBaseURL = errors.New("API_BASE_URL is not set")

// Load reads a .env file, if present, and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		AppAddr:         getenv("APP_ADDR"),
		APIBaseURL:      getenv("API_BASE_URL"),
		SessionSecret:   getenv("SESSION_SECRET"),
		MessagesFile:    getenv("MESSAGES_FILE"),
		CredentialsFile: getenv("CREDENTIALS_FILE"),
		APITimeout:      10 * time.Second,
		Lang:            language.English,
	}

	if cfg.AppAddr == "" {
		cfg.AppAddr = ":8080"
	}
	if cfg.APIBaseURL == "" {
		return nil, ErrMissingAPIBaseURL
	}
	if raw := getenv("API_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid API_TIMEOUT %q: %w", raw, err)
		}
		cfg.APITimeout = d
	}
	if raw := getenv("APP_LANG"); raw != "" {
		tag, err := language.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid APP_LANG %q: %w", raw, err)
		}
		cfg.Lang = tag
	}
	if cfg.CredentialsFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.CredentialsFile = home + "/.authform/credentials.json"
		}
	}
	return cfg, nil
}

// RequireSessionSecret fails when the server has no key to sign cookies with.
func (c *Config) RequireSessionSecret() error {
	if len(c.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET must be set to at least 16 characters")
	}
	return nil
}
