package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by Validate for every rejected field.
var ErrInvalid = errors.New("invalid config")

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultDatabase returns database settings for a local development server.
// Persistence to PostgreSQL is opt-in.
func DefaultDatabase() DatabaseConfig {
	return DatabaseConfig{
		Enabled:  false,
		Host:     "127.0.0.1",
		Port:     5432,
		User:     "zsurvive",
		Password: "zsurvive",
		DBName:   "zsurvive",
		SSLMode:  "disable",
	}
}

// loadYAML overlays the YAML file at path onto cfg.
// A missing file leaves cfg untouched.
func loadYAML(path string, cfg any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	return nil
}
