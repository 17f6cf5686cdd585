package source

import (
	"context"
	"testing"

	"github.com/JonMunkholm/nflookup/internal/config"
	"github.com/JonMunkholm/nflookup/internal/core"
	"github.com/JonMunkholm/nflookup/internal/core/layouts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_File(t *testing.T) {
	cfg := &config.SourceConfig{
		Kind:      config.KindFile,
		Path:      "notas.csv",
		Delimiter: "tab",
		Encoding:  "latin1",
	}

	src, layout, err := Open(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, layouts.LocalKey, layout.Key)
	fs, ok := src.(*FileSource)
	require.True(t, ok, "file kind should open a *FileSource")
	assert.Equal(t, '\t', fs.Delimiter)
	assert.Equal(t, "latin1", fs.Encoding)
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SourceConfig
		wantErr string
	}{
		{"unknown layout", config.SourceConfig{Kind: config.KindFile, Layout: "legacy"}, "unknown layout"},
		{"bad encoding", config.SourceConfig{Kind: config.KindFile, Encoding: "klingon"}, "unsupported encoding"},
		{"unknown kind", config.SourceConfig{Kind: "ftp"}, "unknown source kind"},
		{"unknown credentials", config.SourceConfig{Kind: config.KindSheets, Credentials: "vault"}, "unknown credentials mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Open(context.Background(), &tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpen_SheetsCredentialFailures(t *testing.T) {
	t.Setenv("NFLOOKUP_EMPTY_SECRET", "")

	tests := []struct {
		name string
		cfg  config.SourceConfig
	}{
		{"inline not json", config.SourceConfig{Credentials: config.CredentialsInline, CredentialsJSON: "{"}},
		{"secret unset", config.SourceConfig{Credentials: config.CredentialsSecret, CredentialsKey: "NFLOOKUP_EMPTY_SECRET"}},
		{"file missing", config.SourceConfig{Credentials: config.CredentialsFile, CredentialsFile: "/nonexistent/secrets.toml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Kind = config.KindSheets
			cfg.SpreadsheetID = "1gXMG571pgj2"
			cfg.SheetName = "donuts"

			_, _, err := Open(context.Background(), &cfg)
			assert.ErrorIs(t, err, core.ErrAuth)
		})
	}
}
