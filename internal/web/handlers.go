package web

import (
	"fmt"
	"net"
	"net/http"
	"unicode/utf8"

	"github.com/JonMunkholm/nflookup/internal/core"
	"github.com/JonMunkholm/nflookup/internal/logging"
)

// SourceResponse describes the configured backend and its layout.
type SourceResponse struct {
	Source        string           `json:"source"`
	Layout        string           `json:"layout"`
	Label         string           `json:"label"`
	Columns       []ColumnResponse `json:"columns"`
	SearchColumns []string         `json:"search_columns"`
}

// ColumnResponse describes one layout field.
type ColumnResponse struct {
	Name       string `json:"name"`
	Header     string `json:"header"`
	Required   bool   `json:"required"`
	Searchable bool   `json:"searchable"`
}

// TrackingResponse lists the configured carrier links.
type TrackingResponse struct {
	Default  string              `json:"default"`
	Carriers []core.TrackingLink `json:"carriers"`
}

// handleSearch runs one search against a freshly loaded source.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query().Get("q")

	if n := utf8.RuneCountInString(query); n > s.cfg.Search.MaxQueryLength {
		respondError(w, r, fmt.Errorf("%w: %d characters", errQueryTooLong, n), http.StatusBadRequest)
		return
	}

	result, err := s.service.Search(ctx, query)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.WithFields(ctx, "search_id", result.ID.String()).Info("search",
		"query_len", utf8.RuneCountInString(query),
		"scanned", result.Scanned,
		"matches", result.Count,
		"duration_ms", result.Duration.Milliseconds(),
	)

	writeJSON(w, http.StatusOK, result)
}

// handleSource describes the configured backend and layout.
func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	layout := s.service.Layout()

	cols := make([]ColumnResponse, len(layout.Fields))
	for i, f := range layout.Fields {
		cols[i] = ColumnResponse{
			Name:       f.Name,
			Header:     f.Header,
			Required:   f.Required,
			Searchable: f.Searchable,
		}
	}

	writeJSON(w, http.StatusOK, SourceResponse{
		Source:        s.service.Source(),
		Layout:        layout.Key,
		Label:         layout.Label,
		Columns:       cols,
		SearchColumns: layout.SearchColumns(),
	})
}

// handleTracking returns all configured tracking links.
func (s *Server) handleTracking(w http.ResponseWriter, r *http.Request) {
	links := s.service.Tracking()
	writeJSON(w, http.StatusOK, TrackingResponse{
		Default:  links.Default,
		Carriers: links.All(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clientIP returns the host part of RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
