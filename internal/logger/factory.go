package logger

import (
	"os"
	"strings"
)

const envPrefix = "ALIEN_DEFENSE_"

// NewLoggerFromEnv creates a logger configured by environment variables.
func NewLoggerFromEnv() (Logger, error) {
	return NewZapLogger(configFromEnv(os.Getenv))
}

// NewLoggerWithComponent creates a logger with a component field pre-set
func NewLoggerWithComponent(component string) (Logger, error) {
	logger, err := NewLoggerFromEnv()
	if err != nil {
		return nil, err
	}
	return logger.With(Field{Key: KeyComponent, Value: component}), nil
}

// Component returns parent with a component field attached.
func Component(parent Logger, component string) Logger {
	return parent.With(Field{Key: KeyComponent, Value: component})
}

// configFromEnv builds a LoggerConfig. Anything other than ENV=production
// starts from the development config.
func configFromEnv(getenv func(string) string) LoggerConfig {
	cfg := DevelopmentConfig()
	if strings.ToLower(getenv(envPrefix+"ENV")) == "production" {
		cfg = DefaultConfig()
	}

	if level := getenv(envPrefix + "LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	if format := getenv(envPrefix + "LOG_FORMAT"); format != "" {
		cfg.Format = format
	}

	return cfg
}
