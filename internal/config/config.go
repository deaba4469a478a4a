// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server    ServerConfig
	Contracts ContractConfig
	Output    OutputConfig
	Entities  EntityConfig
	Database  DatabaseConfig
	Workers   WorkerConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server settings for the report server.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 5m,
	// long enough for an on-demand validation)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"5m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// TrustedProxies lists CIDRs whose X-Real-IP / X-Forwarded-For headers are honored
	TrustedProxies []string `env:"SERVER_TRUSTED_PROXIES"`

	// CORSOrigins may call the JSON API from a browser. Empty disables CORS.
	CORSOrigins []string `env:"SERVER_CORS_ORIGINS"`

	// APIKeys guard the validation endpoint. Empty leaves it open.
	APIKeys []string `env:"SERVER_API_KEYS"`
}

// ContractConfig locates contracts, the rule catalog and sample files.
type ContractConfig struct {
	// Dir holds one directory per entity with its contracts (default: Data_Contracts)
	Dir string `env:"CONTRACT_DIR" default:"Data_Contracts"`

	// Sheet is the workbook sheet holding the contract (default: Metadata Template)
	Sheet string `env:"CONTRACT_SHEET" default:"Metadata Template"`

	// HeaderRow is the zero-based row of the column header (default: 2)
	HeaderRow int `env:"CONTRACT_HEADER_ROW" default:"2"`

	// CatalogPath is the rule catalog, JSON or YAML. Empty uses the built-in catalog.
	CatalogPath string `env:"CATALOG_PATH" default:"config/template.json"`

	// SampleDirName is the sample file directory inside each entity directory (default: sampleFiles)
	SampleDirName string `env:"SAMPLE_DIR_NAME" default:"sampleFiles"`

	// SampleEncodingLines is the number of sample lines used to detect encoding (default: 5)
	SampleEncodingLines int `env:"SAMPLE_ENCODING_LINES" default:"5"`
}

// OutputConfig controls where reports and raw issues are written.
type OutputConfig struct {
	// ReportDir receives the HTML reports (default: reports)
	ReportDir string `env:"REPORT_DIR" default:"reports"`

	// IssuesDir receives the raw issue documents (default: issues)
	IssuesDir string `env:"ISSUES_DIR" default:"issues"`

	// IssuesFormat is json or yaml (default: json)
	IssuesFormat string `env:"ISSUES_FORMAT" default:"json"`

	// PersistIssues also stores issues in the database (default: false)
	PersistIssues bool `env:"PERSIST_ISSUES" default:"false"`
}

// EntityConfig configures the entity directory.
type EntityConfig struct {
	// File lists approved entities, one per line. Used when no database is configured.
	File string `env:"ENTITY_FILE" default:"config/entity.txt"`

	// Table is the database table holding approved entities (default: abc_db.entity_mapping)
	Table string `env:"ENTITY_TABLE" default:"abc_db.entity_mapping"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Optional: without it entities
	// come from the entity file and issues are not persisted.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// Enabled reports whether a database is configured.
func (c *DatabaseConfig) Enabled() bool { return c.URL != "" }

// WorkerConfig bounds validation work.
type WorkerConfig struct {
	// MaxConcurrent is the number of contracts validated in parallel (default: 4)
	MaxConcurrent int `env:"VALIDATE_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a server request waits for a validation slot (default: 30s)
	MaxWaitTime time.Duration `env:"VALIDATE_MAX_WAIT_TIME" default:"30s"`

	// Timeout is the maximum duration of one validation run (default: 5m)
	Timeout time.Duration `env:"VALIDATE_TIMEOUT" default:"5m"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
