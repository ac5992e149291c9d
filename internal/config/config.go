// Package config loads the stationrank configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/stationrank/stationrank-go/pkg/stationrank/store"
	"github.com/stationrank/stationrank-go/pkg/stationrank/telemetry"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendS3     = "s3"
)

// Catalog drivers.
const (
	CatalogBlob     = "blob"
	CatalogPostgres = "postgres"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Config holds all stationrank configuration.
type Config struct {
	Logging telemetry.Config `yaml:"logging"`
	Input   InputConfig      `yaml:"input"`
	Export  ExportConfig     `yaml:"export"`
	Store   StoreConfig      `yaml:"store"`
	Metrics MetricsConfig    `yaml:"metrics"`
}

// InputConfig configures spreadsheet decoding.
type InputConfig struct {
	// Sheet is the worksheet to read; empty means the first sheet.
	Sheet string `yaml:"sheet"`
}

// ExportConfig configures result output.
type ExportConfig struct {
	Format string `yaml:"format"`
	Pretty bool   `yaml:"pretty"`
}

// StoreConfig configures the uploads library.
type StoreConfig struct {
	Backend string         `yaml:"backend"`
	Owner   string         `yaml:"owner"`
	S3      store.S3Config `yaml:"s3"`
	Catalog CatalogConfig  `yaml:"catalog"`
}

// CatalogConfig selects where upload metadata is indexed.
type CatalogConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	// TextfilePath receives the registry in text format after each command.
	TextfilePath string `yaml:"textfile_path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: telemetry.DefaultConfig(),
		Export: ExportConfig{
			Format: FormatJSON,
		},
		Store: StoreConfig{
			Backend: BackendMemory,
			Owner:   "local",
			S3: store.S3Config{
				Region: "us-east-1",
				Prefix: "stationrank",
				UseSSL: true,
			},
			Catalog: CatalogConfig{
				Driver: CatalogBlob,
			},
		},
	}
}

// Load loads configuration from a YAML file. An empty path or a missing file
// yields the defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies STATIONRANK_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	setString(&c.Logging.Level, "STATIONRANK_LOG_LEVEL")
	setString(&c.Logging.Format, "STATIONRANK_LOG_FORMAT")
	setString(&c.Input.Sheet, "STATIONRANK_SHEET")
	setString(&c.Export.Format, "STATIONRANK_FORMAT")
	setString(&c.Store.Backend, "STATIONRANK_STORE_BACKEND")
	setString(&c.Store.Owner, "STATIONRANK_OWNER")
	setString(&c.Store.S3.Endpoint, "STATIONRANK_S3_ENDPOINT")
	setString(&c.Store.S3.Region, "STATIONRANK_S3_REGION")
	setString(&c.Store.S3.Bucket, "STATIONRANK_S3_BUCKET")
	setString(&c.Store.S3.Prefix, "STATIONRANK_S3_PREFIX")
	setString(&c.Store.S3.AccessKeyID, "STATIONRANK_S3_ACCESS_KEY_ID")
	setString(&c.Store.S3.SecretAccessKey, "STATIONRANK_S3_SECRET_ACCESS_KEY")
	setString(&c.Metrics.TextfilePath, "STATIONRANK_METRICS_FILE")

	if v := os.Getenv("STATIONRANK_S3_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Store.S3.UseSSL = b
		}
	}
	if dsn := os.Getenv("STATIONRANK_PG_DSN"); dsn != "" {
		c.Store.Catalog.DSN = dsn
		c.Store.Catalog.Driver = CatalogPostgres
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Export.Format {
	case FormatJSON, FormatCSV, FormatXLSX:
	default:
		return fmt.Errorf("invalid export format: %s (valid: json, csv, xlsx)", c.Export.Format)
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendS3:
		if c.Store.S3.Bucket == "" {
			return fmt.Errorf("store.s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("invalid store backend: %s (valid: memory, s3)", c.Store.Backend)
	}

	switch c.Store.Catalog.Driver {
	case CatalogBlob:
	case CatalogPostgres:
		if c.Store.Catalog.DSN == "" {
			return fmt.Errorf("store.catalog.dsn is required for the postgres catalog")
		}
	default:
		return fmt.Errorf("invalid catalog driver: %s (valid: blob, postgres)", c.Store.Catalog.Driver)
	}
	return nil
}

// IsPersistent reports whether uploads survive the process.
func (c *Config) IsPersistent() bool {
	return c.Store.Backend != BackendMemory
}
