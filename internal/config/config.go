package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	TokenStoreMemory   = "memory"
	TokenStoreFile     = "file"
	TokenStorePostgres = "postgres"
)

type Config struct {
	ServerPort string

	API struct {
		URL     string
		Timeout time.Duration
	}

	Tokens struct {
		Store       string
		File        string
		DatabaseURL string
	}

	CurrencyFile string

	Payment struct {
		Delay       time.Duration
		SuccessRate float64
	}

	ToastTTL time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.ServerPort = os.Getenv("SERVER_PORT")
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.API.URL = os.Getenv("STOREFRONT_API_URL")
	if cfg.API.URL == "" {
		return nil, fmt.Errorf("STOREFRONT_API_URL must be set")
	}

	var err error
	if cfg.API.Timeout, err = duration("API_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.Tokens.Store = os.Getenv("TOKEN_STORE")
	if cfg.Tokens.Store == "" {
		cfg.Tokens.Store = TokenStoreFile
	}
	switch cfg.Tokens.Store {
	case TokenStoreMemory, TokenStoreFile:
	case TokenStorePostgres:
		cfg.Tokens.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.Tokens.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL must be set when TOKEN_STORE=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown TOKEN_STORE %q", cfg.Tokens.Store)
	}

	cfg.Tokens.File = os.Getenv("TOKEN_FILE")
	if cfg.Tokens.File == "" {
		cfg.Tokens.File = ".storefront-token"
	}

	cfg.CurrencyFile = os.Getenv("CURRENCY_FILE")

	if cfg.Payment.Delay, err = duration("PAYMENT_DELAY", 2*time.Second); err != nil {
		return nil, err
	}

	cfg.Payment.SuccessRate = 0.9
	if v := os.Getenv("PAYMENT_SUCCESS_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 || rate > 1 {
			return nil, fmt.Errorf("PAYMENT_SUCCESS_RATE must be a number between 0 and 1, got %q", v)
		}
		cfg.Payment.SuccessRate = rate
	}

	if cfg.ToastTTL, err = duration("TOAST_TTL", 3*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
