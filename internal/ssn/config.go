package ssn

import (
	"fmt"

	"github.com/zarlcorp/zsignup/internal/config"
)

// Config holds the deployment secret for SSN digests.
type Config struct {
	Secret   string `env:"SSN_SECRET"`
	Required bool   `env:"SSN_SECRET_REQUIRED" envDefault:"false"`
}

// LoadConfig reads the SSN settings from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("load ssn config: %w", err)
	}
	return cfg, nil
}

// Key returns the configured secret. When none is set it returns DevKey
// together with ErrDefaultKey so the caller can warn, or refuse to start when
// Required is set. The key is still returned in that case.
func (c Config) Key() (string, error) {
	if c.Secret != "" {
		return c.Secret, nil
	}
	return DevKey, ErrDefaultKey
}
