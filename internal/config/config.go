// Package config loads service configuration from an optional YAML
// file plus DB_* and service environment variables. Environment wins
// over the file, the file over defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Database holds Postgres connection settings.
type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// Config holds everything the service needs to start.
type Config struct {
	Port string   `yaml:"port"`
	DB   Database `yaml:"db"`

	NATSURL string `yaml:"nats_url"`

	// PollInterval is the fallback refresh cadence per room.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// DSN returns the Postgres connection URL.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

func defaults() Config {
	return Config{
		Port: "8080",
		DB: Database{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "draftroom",
			SSLMode:  "disable",
		},
		NATSURL:      "nats://localhost:4222",
		PollInterval: 1200 * time.Millisecond,
	}
}

// Load builds the config. A missing file is fine; a present but
// unparsable one is an error.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to env and defaults.
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.NATSURL = getEnv("NATS_URL", c.NATSURL)

	c.DB.Host = getEnv("DB_HOST", c.DB.Host)
	c.DB.Port = getEnvAsInt("DB_PORT", c.DB.Port)
	c.DB.User = getEnv("DB_USER", c.DB.User)
	c.DB.Password = getEnv("DB_PASSWORD", c.DB.Password)
	c.DB.Database = getEnv("DB_NAME", c.DB.Database)
	c.DB.SSLMode = getEnv("DB_SSLMODE", c.DB.SSLMode)

	if v := os.Getenv("POLL_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			c.PollInterval = time.Duration(ms) * time.Millisecond
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
