package core

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// DefaultTrackingURL is the tracking page offered when no carrier-specific
// link is configured.
const DefaultTrackingURL = "https://rodonaves.com.br/rastreio-de-mercadoria"

// TrackingLinks maps carrier names to static tracking page URLs.
// Lookups are case-insensitive. No carrier API is ever called.
type TrackingLinks struct {
	Default  string
	carriers map[string]string
}

// NewTrackingLinks builds TrackingLinks from "CARRIER=URL" entries.
// An empty defaultURL falls back to DefaultTrackingURL.
func NewTrackingLinks(defaultURL string, entries []string) (TrackingLinks, error) {
	if defaultURL == "" {
		defaultURL = DefaultTrackingURL
	}
	if err := checkURL(defaultURL); err != nil {
		return TrackingLinks{}, fmt.Errorf("default tracking url: %w", err)
	}

	links := TrackingLinks{Default: defaultURL, carriers: make(map[string]string)}
	for _, entry := range entries {
		name, u, ok := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		u = strings.TrimSpace(u)
		if !ok || name == "" {
			return TrackingLinks{}, fmt.Errorf("tracking entry %q: want CARRIER=URL", entry)
		}
		if err := checkURL(u); err != nil {
			return TrackingLinks{}, fmt.Errorf("tracking entry %q: %w", entry, err)
		}
		links.carriers[strings.ToUpper(name)] = u
	}
	return links, nil
}

// Lookup returns the tracking URL configured for carrier.
func (l TrackingLinks) Lookup(carrier string) (string, bool) {
	u, ok := l.carriers[strings.ToUpper(strings.TrimSpace(carrier))]
	return u, ok
}

// All returns every configured carrier link sorted by carrier name.
func (l TrackingLinks) All() []TrackingLink {
	out := make([]TrackingLink, 0, len(l.carriers))
	for name, u := range l.carriers {
		out = append(out, TrackingLink{Carrier: name, URL: u})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Carrier < out[j].Carrier })
	return out
}

// ForTable returns one link per distinct carrier in table that has a
// configured URL, in first-seen order, followed by the default link.
func (l TrackingLinks) ForTable(table *Table) []TrackingLink {
	var out []TrackingLink
	if table.HasColumn(ColCarrier) {
		seen := make(map[string]bool)
		for _, rec := range table.Records {
			name := strings.ToUpper(strings.TrimSpace(rec[ColCarrier]))
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			if u, ok := l.carriers[name]; ok {
				out = append(out, TrackingLink{Carrier: name, URL: u})
			}
		}
	}
	return append(out, TrackingLink{URL: l.Default})
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}
