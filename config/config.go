package config

import (
	"fmt"
	"os"
)

// Config holds everything the service reads from the environment.
// Loaded once at startup and passed down explicitly; nothing in the
// codebase reads os.Getenv after Load returns.
type Config struct {
	Port string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string

	// CoinGeckoAPIKey is optional; the public simple-price endpoint
	// works without it.
	CoinGeckoAPIKey string

	HealthUser     string
	HealthPassword string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		CoinGeckoAPIKey:  os.Getenv("API_KEY"),
		HealthUser:       os.Getenv("HEALTH_USER"),
		HealthPassword:   os.Getenv("HEALTH_PASSWORD"),
	}

	if cfg.PostgresUser == "" {
		return nil, fmt.Errorf("POSTGRES_USER is not set")
	}
	if cfg.PostgresPassword == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD is not set")
	}
	if cfg.PostgresDB == "" {
		return nil, fmt.Errorf("POSTGRES_DB is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
