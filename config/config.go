package config

import (
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends selectable via STORE_BACKEND.
const (
	BackendDatabase = "database"
	BackendSheet    = "sheet"
)

// Config holds all application configuration
type Config struct {
	Port         string
	GoEnv        string
	StoreBackend string

	// Relational backend
	DBDriver    string
	DatabaseURL string

	// Spreadsheet backend
	SpreadsheetID        string
	GoogleCredentialsB64 string
	CustomersSheet       string
	OrdersSheet          string

	// Image uploads
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	S3UploadFolder     string

	AllowedOrigins []string
	LogLevel       string
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	// Determine which environment file to load
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// If environment-specific file doesn't exist, try .env
		if err := godotenv.Load(); err != nil {
			// In production, environment variables are set directly
			// so it's okay if .env files don't exist
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		Port:                 getEnv("PORT", "8080"),
		GoEnv:                getEnv("GO_ENV", "development"),
		StoreBackend:         getEnv("STORE_BACKEND", BackendSheet),
		DBDriver:             getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		SpreadsheetID:        getEnv("SPREADSHEET_ID", ""),
		GoogleCredentialsB64: getEnv("GOOGLE_SHEETS_CREDENTIALS_B64", ""),
		CustomersSheet:       getEnv("CUSTOMERS_SHEET", "CLIENTES"),
		OrdersSheet:          getEnv("ORDERS_SHEET", "PULSERAS"),
		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:          getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:       getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		S3UploadFolder:       getEnv("S3_UPLOAD_FOLDER", "uploads/pulseras"),
		AllowedOrigins:       splitOrigins(getEnv("ALLOWED_ORIGINS", "")),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values for the selected
// store backend are set. Missing configuration fails here, at startup, rather
// than at first request.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendDatabase:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=%s", BackendDatabase)
		}
		switch c.DBDriver {
		case "postgres", "mysql", "sqlite":
		default:
			return fmt.Errorf("unsupported DB_DRIVER %q (expected postgres, mysql or sqlite)", c.DBDriver)
		}
	case BackendSheet:
		if c.SpreadsheetID == "" {
			return fmt.Errorf("SPREADSHEET_ID is required when STORE_BACKEND=%s", BackendSheet)
		}
		if c.GoogleCredentialsB64 == "" {
			return fmt.Errorf("GOOGLE_SHEETS_CREDENTIALS_B64 is required when STORE_BACKEND=%s", BackendSheet)
		}
		if _, err := c.GoogleCredentials(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q (expected %s or %s)", c.StoreBackend, BackendDatabase, BackendSheet)
	}
	return nil
}

// GoogleCredentials decodes the base64-encoded service account JSON blob.
func (c *Config) GoogleCredentials() ([]byte, error) {
	creds, err := base64.StdEncoding.DecodeString(c.GoogleCredentialsB64)
	if err != nil {
		return nil, fmt.Errorf("GOOGLE_SHEETS_CREDENTIALS_B64 is not valid base64: %w", err)
	}
	return creds, nil
}

// UploadsEnabled reports whether image uploads are configured.
func (c *Config) UploadsEnabled() bool {
	return c.AWSS3Bucket != ""
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitOrigins parses a comma-separated origin list, dropping empty entries.
func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
