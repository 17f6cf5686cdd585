// Package source implements the record backends: local delimited or .xlsx
// files and Google Sheets tabs. Each backend re-reads its data on every Load.
package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JonMunkholm/nflookup/internal/config"
	"github.com/JonMunkholm/nflookup/internal/core"
	_ "github.com/JonMunkholm/nflookup/internal/core/layouts"
	"google.golang.org/api/option"
)

// Open builds the backend selected by cfg together with its layout.
// Sheets credentials are resolved eagerly so misconfiguration fails at startup.
func Open(ctx context.Context, cfg *config.SourceConfig, opts ...option.ClientOption) (core.Source, core.Layout, error) {
	layout, ok := core.Get(cfg.LayoutKey())
	if !ok {
		return nil, core.Layout{}, fmt.Errorf("unknown layout %q", cfg.LayoutKey())
	}

	switch cfg.Kind {
	case config.KindFile:
		if !ValidEncoding(cfg.Encoding) {
			return nil, core.Layout{}, fmt.Errorf("unsupported encoding %q", cfg.Encoding)
		}
		return &FileSource{
			Path:      cfg.Path,
			Delimiter: cfg.DelimiterRune(),
			Encoding:  cfg.Encoding,
			Sheet:     cfg.XLSXSheet,
			Layout:    layout,
		}, layout, nil

	case config.KindSheets:
		credSrc, err := credentialSource(cfg)
		if err != nil {
			return nil, core.Layout{}, err
		}
		creds, err := credSrc.Resolve()
		if err != nil {
			return nil, core.Layout{}, err
		}
		src, err := NewSheetsSource(ctx, cfg.SpreadsheetID, cfg.SheetName, creds, layout, opts...)
		if err != nil {
			return nil, core.Layout{}, err
		}
		return src, layout, nil

	default:
		return nil, core.Layout{}, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

func credentialSource(cfg *config.SourceConfig) (CredentialSource, error) {
	switch cfg.Credentials {
	case config.CredentialsInline:
		var data map[string]any
		if err := json.Unmarshal([]byte(cfg.CredentialsJSON), &data); err != nil {
			return nil, authError(InlineCredentials{}, fmt.Errorf("parse inline json: %w", err))
		}
		return InlineCredentials{Data: data}, nil
	case config.CredentialsSecret:
		return SecretStoreCredentials{Store: EnvSecretStore{}, Key: cfg.CredentialsKey}, nil
	case config.CredentialsFile:
		return FileCredentials{Path: cfg.CredentialsFile, Table: cfg.CredentialsTable}, nil
	default:
		return nil, fmt.Errorf("unknown credentials mode %q", cfg.Credentials)
	}
}
