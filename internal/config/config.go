package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config is the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	WhatsApp WhatsAppConfig
	API      APIConfig
	ETL      ETLConfig
}

// ServerConfig holds HTTP server options.
type ServerConfig struct {
	Port  string
	Debug bool
}

// DatabaseConfig holds the Postgres connection string.
type DatabaseConfig struct {
	URL string
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
	APIVersion    string
}

// APIConfig holds the basic-auth credentials protecting the report API.
type APIConfig struct {
	User     string
	Password string
}

// ETLConfig configures the periodic spreadsheet import. An empty ExportURL
// disables the job.
type ETLConfig struct {
	ExportURL    string
	CronSchedule string
	Timezone     string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes straight
		// from the environment.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:  getenvWithDefault("APP_PORT", "8080"),
			Debug: os.Getenv("APP_DEBUG") == "true",
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:   os.Getenv("META_VERIFY_TOKEN"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
		},
		API: APIConfig{
			User:     os.Getenv("API_USER"),
			Password: os.Getenv("API_PASSWORD"),
		},
		ETL: ETLConfig{
			ExportURL:    os.Getenv("SHEET_EXPORT_URL"),
			CronSchedule: getenvWithDefault("ETL_CRON_SCHEDULE", "0 5 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Sao_Paulo"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures required fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL must be provided")
	}

	switch {
	case c.WhatsApp.AccessToken == "":
		return errors.New("WHATSAPP_TOKEN must be provided")
	case c.WhatsApp.PhoneNumberID == "":
		return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
	case c.WhatsApp.VerifyToken == "":
		return errors.New("META_VERIFY_TOKEN must be provided")
	case c.WhatsApp.BaseURL == "":
		return errors.New("WHATSAPP_BASE_URL must not be empty")
	case c.WhatsApp.APIVersion == "":
		return errors.New("WHATSAPP_API_VERSION must not be empty")
	}

	if c.API.User == "" || c.API.Password == "" {
		return errors.New("API_USER and API_PASSWORD must be provided")
	}

	if c.ETL.ExportURL != "" {
		if c.ETL.CronSchedule == "" {
			return errors.New("ETL_CRON_SCHEDULE must be provided when SHEET_EXPORT_URL is set")
		}
		if c.ETL.Timezone == "" {
			return errors.New("TIMEZONE must be provided when SHEET_EXPORT_URL is set")
		}
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
