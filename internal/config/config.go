package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	GRPCAddr string
	HTTPAddr string
	APIToken string

	// Storage settings
	StoreDriver string
	DataDir     string
	DBConnStr   string
	StoreKey    string

	// Valuation settings
	RefreshInterval time.Duration
	FXTicker        string
	DefaultFXRate   decimal.Decimal

	// Quote source settings
	QuoteTimeout    time.Duration
	PrimaryBaseURL  string
	FallbackBaseURL string
	SessionURL      string
	UserAgent       string

	Debug bool
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		GRPCAddr:        ":8080",
		HTTPAddr:        ":8081",
		APIToken:        "dev-token",
		StoreDriver:     StoreDriverFile,
		DataDir:         "data",
		StoreKey:        "my_wealth",
		RefreshInterval: 60 * time.Second,
		FXTicker:        "KRW=X",
		DefaultFXRate:   decimal.NewFromInt(1400),
		QuoteTimeout:    10 * time.Second,
		PrimaryBaseURL:  "https://query2.finance.yahoo.com",
		FallbackBaseURL: "https://query1.finance.yahoo.com",
		SessionURL:      "https://fc.yahoo.com",
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	}
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() {
	if v := os.Getenv("ASSETS_GRPC_ADDR"); v != "" {
		c.GRPCAddr = v
	}

	if v := os.Getenv("ASSETS_HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}

	if v := os.Getenv("API_TOKEN"); v != "" {
		c.APIToken = v
	}

	if v := os.Getenv("ASSETS_STORE"); v != "" {
		c.StoreDriver = v
	}

	if v := os.Getenv("ASSETS_DATA_DIR"); v != "" {
		c.DataDir = v
	}

	if v := os.Getenv("ASSETS_STORE_KEY"); v != "" {
		c.StoreKey = v
	}

	if v := os.Getenv("ASSETS_REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RefreshInterval = d
		}
	}

	if v := os.Getenv("ASSETS_FX_TICKER"); v != "" {
		c.FXTicker = v
	}

	if v := os.Getenv("ASSETS_DEFAULT_FX_RATE"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			c.DefaultFXRate = d
		}
	}

	if v := os.Getenv("ASSETS_QUOTE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.QuoteTimeout = d
		}
	}

	if v := os.Getenv("ASSETS_PRIMARY_URL"); v != "" {
		c.PrimaryBaseURL = v
	}

	if v := os.Getenv("ASSETS_FALLBACK_URL"); v != "" {
		c.FallbackBaseURL = v
	}

	if v := os.Getenv("ASSETS_SESSION_URL"); v != "" {
		c.SessionURL = v
	}

	if v := os.Getenv("ASSETS_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}

	c.DBConnStr = os.Getenv("DB_CONN_STR")
	if c.DBConnStr == "" {
		c.DBConnStr = connStrFromParts()
	}
}

// connStrFromParts builds a connection string from individual vars (Docker friendly)
func connStrFromParts() string {
	host := getenv("DB_HOST", "localhost")
	port := getenv("DB_PORT", "5432")
	user := getenv("DB_USER", "postgres")
	password := getenv("DB_PASSWORD", "postgres")
	dbname := getenv("DB_NAME", "assets")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverFile:
		if c.DataDir == "" {
			return fmt.Errorf("data directory cannot be empty")
		}
	case StoreDriverPostgres:
		if c.DBConnStr == "" {
			return fmt.Errorf("database connection string cannot be empty")
		}
	default:
		return fmt.Errorf("store must be %q or %q, got: %q", StoreDriverFile, StoreDriverPostgres, c.StoreDriver)
	}

	if c.StoreKey == "" {
		return fmt.Errorf("store key cannot be empty")
	}

	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got: %s", c.RefreshInterval)
	}

	if !c.DefaultFXRate.IsPositive() {
		return fmt.Errorf("default FX rate must be positive, got: %s", c.DefaultFXRate)
	}

	if c.FXTicker == "" {
		return fmt.Errorf("FX ticker cannot be empty")
	}

	if c.QuoteTimeout <= 0 {
		return fmt.Errorf("quote timeout must be positive, got: %s", c.QuoteTimeout)
	}

	return nil
}
