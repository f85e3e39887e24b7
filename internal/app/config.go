package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/ghostview/internal/forest"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Paths []string // hcl files or directories
	Mode  forest.Mode

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	PublishURL         string
	PublishNamespace   string
	PublishEvent       string
	InsecureSkipVerify bool

	DotOut string
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one diagram path is required")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort)
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format '%s': must be 'text' or 'json'", cfg.LogFormat)
	}
	return &cfg, nil
}
