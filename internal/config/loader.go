package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		// Get tags
		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		// Apply default if not set
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			// Split comma-separated values, trim whitespace
			parts := strings.Split(value, ",")
			result := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					result = append(result, p)
				}
			}
			field.Set(reflect.ValueOf(result))
		} else {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	// Source validation
	switch c.Source.Kind {
	case KindFile:
		if c.Source.Path == "" {
			errs = append(errs, "SOURCE_PATH is required when SOURCE_KIND is file")
		}
		if !validDelimiter(c.Source.Delimiter) {
			errs = append(errs, fmt.Sprintf("SOURCE_DELIMITER (%q) must be a single character or \"tab\"", c.Source.Delimiter))
		}
	case KindSheets:
		if c.Source.SpreadsheetID == "" {
			errs = append(errs, "SHEETS_SPREADSHEET_ID is required when SOURCE_KIND is sheets")
		}
		if c.Source.SheetName == "" {
			errs = append(errs, "SHEETS_SHEET_NAME is required when SOURCE_KIND is sheets")
		}
		switch c.Source.Credentials {
		case CredentialsInline:
			if c.Source.CredentialsJSON == "" {
				errs = append(errs, "SHEETS_CREDENTIALS_JSON is required when SHEETS_CREDENTIALS is inline")
			}
		case CredentialsSecret:
			if c.Source.CredentialsKey == "" {
				errs = append(errs, "SHEETS_CREDENTIALS_KEY is required when SHEETS_CREDENTIALS is secret")
			}
		case CredentialsFile:
			if c.Source.CredentialsFile == "" {
				errs = append(errs, "SHEETS_CREDENTIALS_FILE is required when SHEETS_CREDENTIALS is file")
			}
		default:
			errs = append(errs, fmt.Sprintf("SHEETS_CREDENTIALS (%q) must be one of: inline, secret, file", c.Source.Credentials))
		}
	default:
		errs = append(errs, fmt.Sprintf("SOURCE_KIND (%q) must be one of: file, sheets", c.Source.Kind))
	}

	// Search validation
	if c.Search.MaxQueryLength <= 0 {
		errs = append(errs, "SEARCH_MAX_QUERY_LENGTH must be positive")
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func validDelimiter(d string) bool {
	if d == "tab" || d == `\t` {
		return true
	}
	return utf8.RuneCountInString(d) == 1 && d != "\n" && d != "\r" && d != `"`
}

// String returns a safe string representation of the config for logging.
// Inline credentials are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Source: {Kind: %q, Layout: %q, ", c.Source.Kind, c.Source.LayoutKey()))
	if c.Source.Kind == KindSheets {
		b.WriteString(fmt.Sprintf("SpreadsheetID: %q, SheetName: %q, Credentials: %q",
			c.Source.SpreadsheetID, c.Source.SheetName, c.Source.Credentials))
		if c.Source.CredentialsJSON != "" {
			b.WriteString(", CredentialsJSON: [MASKED]")
		}
	} else {
		b.WriteString(fmt.Sprintf("Path: %q, Delimiter: %q, Encoding: %q",
			c.Source.Path, c.Source.Delimiter, c.Source.Encoding))
	}
	b.WriteString("}, ")
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
