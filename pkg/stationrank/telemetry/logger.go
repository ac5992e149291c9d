// Package telemetry provides logging, Prometheus metrics and analytics events.
package telemetry

import (
	"go.uber.org/zap"
)

// Config holds logging configuration.
type Config struct {
	Level       string            `yaml:"level" json:"level"`
	Format      string            `yaml:"format" json:"format"` // "json" or "console"
	OutputPath  string            `yaml:"output_path" json:"output_path"`
	Fields      map[string]string `yaml:"fields,omitempty" json:"fields"`
	Development bool              `yaml:"development" json:"development"`
}

// DefaultConfig returns the logging defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		OutputPath: "stderr",
	}
}

// NewLogger creates a structured logger from config.
func NewLogger(config Config) (*zap.Logger, error) {
	var zapConfig zap.Config

	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	if config.Format == "console" {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	if config.OutputPath != "" {
		zapConfig.OutputPaths = []string{config.OutputPath}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	fields := make([]zap.Field, 0, len(config.Fields))
	for k, v := range config.Fields {
		fields = append(fields, zap.String(k, v))
	}
	return logger.With(fields...), nil
}

// NewDefaultLogger creates a logger with DefaultConfig, falling back to a
// production logger.
func NewDefaultLogger() *zap.Logger {
	logger, err := NewLogger(DefaultConfig())
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}
