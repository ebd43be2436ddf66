// internal/workers/oracle/select-oracle-card/config.go
package selectoraclecard

import (
	"fmt"
	"os"
	"time"

	"atlas-oracle/internal/common/camunda"
	"atlas-oracle/internal/common/config"
	"atlas-oracle/internal/common/errors"
	"atlas-oracle/internal/oracle"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Retry         *camunda.RetryConfig
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       10 * time.Second,
		Retry:         camunda.DefaultRetryConfig,
	}
}

// FromWorkerConfig maps the shared workers.<task> section onto Config.
func FromWorkerConfig(w config.WorkerConfig) *Config {
	cfg := DefaultConfig()
	cfg.Enabled = w.Enabled
	if w.MaxJobsActive > 0 {
		cfg.MaxJobsActive = w.MaxJobsActive
	}
	if w.Timeout > 0 {
		cfg.Timeout = config.GetDuration(w.Timeout)
	}
	if w.MaxRetries > 0 {
		cfg.Retry = &camunda.RetryConfig{
			MaxRetries: w.MaxRetries,
			BaseDelay:  camunda.DefaultRetryConfig.BaseDelay,
			MaxDelay:   camunda.DefaultRetryConfig.MaxDelay,
		}
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	return nil
}

// LoadSelector builds the selector for the oracle config section. An empty
// catalog path uses the embedded catalog. Strict mode rejects catalogs that
// do not carry every canonical card.
func LoadSelector(cfg config.OracleConfig) (*oracle.Selector, error) {
	catalog := oracle.DefaultCatalog()

	if cfg.CatalogPath != "" {
		data, err := os.ReadFile(cfg.CatalogPath)
		if err != nil {
			return nil, errors.NewCatalogLoadFailedError(cfg.CatalogPath, err)
		}
		catalog, err = oracle.LoadCatalog(data)
		if err != nil {
			return nil, errors.NewCatalogInvalidError(fmt.Sprintf("%s: %v", cfg.CatalogPath, err))
		}
	}

	if cfg.RequireFullCatalog {
		if missing := catalog.MissingCanonical(); len(missing) > 0 {
			return nil, errors.NewCatalogIncompleteError(missing)
		}
	}
	return oracle.NewSelector(catalog), nil
}
