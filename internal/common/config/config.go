// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig               `mapstructure:"app"`
	Camunda CamundaConfig           `mapstructure:"camunda"`
	Server  ServerConfig            `mapstructure:"server"`
	Oracle  OracleConfig            `mapstructure:"oracle"`
	Workers map[string]WorkerConfig `mapstructure:"workers"`
	Logging LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// ServerConfig drives the public HTTP API.
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	EnableCORS     bool     `mapstructure:"enable_cors"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // milliseconds
	Debug          bool     `mapstructure:"debug"`
}

// Address is host:port for http.Server.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// OracleConfig selects the card catalog. An empty CatalogPath means the
// embedded catalog.
type OracleConfig struct {
	CatalogPath        string `mapstructure:"catalog_path"`
	RequireFullCatalog bool   `mapstructure:"require_full_catalog"`
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
