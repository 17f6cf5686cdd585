package source

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/nflookup/internal/core"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/oauth2/google"
)

// Credentials is a validated service-account key. It is only forwarded to
// the Sheets client and never printed.
type Credentials struct {
	data []byte
}

// JSON returns the raw service-account key.
func (c Credentials) JSON() []byte {
	return c.data
}

// Empty reports whether no key is held.
func (c Credentials) Empty() bool {
	return len(c.data) == 0
}

// String masks the key material.
func (c Credentials) String() string {
	if c.Empty() {
		return "Credentials{}"
	}
	return "Credentials{[MASKED]}"
}

// CredentialSource resolves service-account credentials from one place.
type CredentialSource interface {
	Resolve() (Credentials, error)
	Describe() string
}

// InlineCredentials holds the key as structured configuration.
type InlineCredentials struct {
	Data map[string]any
}

func (c InlineCredentials) Resolve() (Credentials, error) {
	if len(c.Data) == 0 {
		return Credentials{}, authError(c, errors.New("inline credentials are empty"))
	}
	return c.resolveAs(c)
}

func (c InlineCredentials) Describe() string { return "inline" }

// SecretStore looks up secrets by key.
type SecretStore interface {
	Lookup(key string) (string, bool)
}

// EnvSecretStore reads secrets from process environment variables.
type EnvSecretStore struct{}

func (EnvSecretStore) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// SecretStoreCredentials reads the key from a SecretStore entry holding the
// JSON document, optionally base64-encoded.
type SecretStoreCredentials struct {
	Store SecretStore
	Key   string
}

func (c SecretStoreCredentials) Resolve() (Credentials, error) {
	raw, ok := c.Store.Lookup(c.Key)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return Credentials{}, authError(c, fmt.Errorf("secret %q is not set", c.Key))
	}
	if !strings.HasPrefix(raw, "{") {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return Credentials{}, authError(c, fmt.Errorf("secret %q is neither JSON nor base64", c.Key))
		}
		raw = string(decoded)
	}
	return parseCredentials(c, []byte(raw))
}

func (c SecretStoreCredentials) Describe() string { return "secret:" + c.Key }

// FileCredentials reads the key from a local file. A .json file holds the
// key itself; a .toml file holds it under Table (default "gcloud").
type FileCredentials struct {
	Path  string
	Table string
}

func (c FileCredentials) Resolve() (Credentials, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return Credentials{}, authError(c, err)
	}

	if strings.ToLower(filepath.Ext(c.Path)) != ".toml" {
		return parseCredentials(c, data)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Credentials{}, authError(c, fmt.Errorf("parse toml: %w", err))
	}

	table := c.Table
	if table == "" {
		table = "gcloud"
	}
	section, ok := doc[table].(map[string]any)
	if !ok {
		return Credentials{}, authError(c, fmt.Errorf("toml table [%s] not found", table))
	}

	return InlineCredentials{Data: section}.resolveAs(c)
}

func (c FileCredentials) Describe() string { return "file:" + c.Path }

// resolveAs resolves inline data but reports errors against src.
func (c InlineCredentials) resolveAs(src CredentialSource) (Credentials, error) {
	b, err := json.Marshal(c.Data)
	if err != nil {
		return Credentials{}, authError(src, err)
	}
	return parseCredentials(src, b)
}

// parseCredentials checks that data is a usable service-account key.
func parseCredentials(src CredentialSource, data []byte) (Credentials, error) {
	cfg, err := google.JWTConfigFromJSON(data, SheetsScopes...)
	if err != nil {
		return Credentials{}, authError(src, err)
	}
	if cfg.Email == "" || len(cfg.PrivateKey) == 0 {
		return Credentials{}, authError(src, errors.New("service account key lacks client_email or private_key"))
	}
	return Credentials{data: data}, nil
}

func authError(src CredentialSource, err error) error {
	return core.NewLoadError(core.KindAuth, "credentials "+src.Describe(), err)
}
