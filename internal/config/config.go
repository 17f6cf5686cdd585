// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Source   SourceConfig
	Search   SearchConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout bounds each request, including the remote sheet fetch (default: 45s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"45s"`
}

// SourceConfig selects and configures the data backend.
type SourceConfig struct {
	// Kind is the backend: file or sheets (default: file)
	Kind string `env:"SOURCE_KIND" default:"file"`

	// Layout is the registered column layout (default: local for file, sheet for sheets)
	Layout string `env:"SOURCE_LAYOUT"`

	// Path is the local .csv or .xlsx file (default: notas.csv)
	Path string `env:"SOURCE_PATH" default:"notas.csv"`

	// Delimiter is the field separator for delimited files; "tab" for \t (default: ;)
	Delimiter string `env:"SOURCE_DELIMITER" default:";"`

	// Encoding is the text encoding of delimited files (default: utf-8)
	Encoding string `env:"SOURCE_ENCODING" default:"utf-8"`

	// XLSXSheet is the worksheet read from .xlsx files (default: first sheet)
	XLSXSheet string `env:"SOURCE_XLSX_SHEET"`

	// SpreadsheetID is the Google Sheets document key (required for sheets)
	SpreadsheetID string `env:"SHEETS_SPREADSHEET_ID"`

	// SheetName is the tab to read (default: donuts)
	SheetName string `env:"SHEETS_SHEET_NAME" default:"donuts"`

	// Credentials selects where the service account comes from: inline, secret, file (default: file)
	Credentials string `env:"SHEETS_CREDENTIALS" default:"file"`

	// CredentialsJSON is the inline service-account key
	CredentialsJSON string `env:"SHEETS_CREDENTIALS_JSON"`

	// CredentialsKey is the secret-store key holding the service account (default: GCLOUD_SERVICE_ACCOUNT)
	CredentialsKey string `env:"SHEETS_CREDENTIALS_KEY" default:"GCLOUD_SERVICE_ACCOUNT"`

	// CredentialsFile is a .json key or .toml secrets file (default: secrets.toml)
	CredentialsFile string `env:"SHEETS_CREDENTIALS_FILE" envAlt:"GOOGLE_APPLICATION_CREDENTIALS" default:"secrets.toml"`

	// CredentialsTable is the TOML table holding the key (default: gcloud)
	CredentialsTable string `env:"SHEETS_CREDENTIALS_TABLE" default:"gcloud"`
}

// SearchConfig holds search presentation settings.
type SearchConfig struct {
	// TrackingURLs is a comma-separated list of CARRIER=URL pairs
	TrackingURLs []string `env:"TRACKING_URLS"`

	// DefaultTrackingURL is offered with every result (default: carrier tracking page)
	DefaultTrackingURL string `env:"TRACKING_DEFAULT_URL" default:"https://rodonaves.com.br/rastreio-de-mercadoria"`

	// MaxQueryLength rejects longer queries at the HTTP layer (default: 200)
	MaxQueryLength int `env:"SEARCH_MAX_QUERY_LENGTH" default:"200"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 60)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"60"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
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
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// LayoutKey returns the configured layout, defaulting by backend kind.
func (c *SourceConfig) LayoutKey() string {
	if c.Layout != "" {
		return c.Layout
	}
	if c.Kind == KindSheets {
		return "sheet"
	}
	return "local"
}

// DelimiterRune returns the configured delimiter as a rune.
// Validate guarantees it is a single character or "tab".
func (c *SourceConfig) DelimiterRune() rune {
	if c.Delimiter == "tab" || c.Delimiter == `\t` {
		return '\t'
	}
	for _, r := range c.Delimiter {
		return r
	}
	return ';'
}

// Backend kinds and credential modes.
const (
	KindFile   = "file"
	KindSheets = "sheets"

	CredentialsInline = "inline"
	CredentialsSecret = "secret"
	CredentialsFile   = "file"
)
