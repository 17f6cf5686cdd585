package core

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service runs searches against a single configured source.
// It holds no table between calls: every search loads fresh data.
type Service struct {
	source Source
	layout Layout
	links  TrackingLinks
}

// NewService creates a Service that searches src using layout's
// searchable columns.
func NewService(src Source, layout Layout, links TrackingLinks) *Service {
	return &Service{source: src, layout: layout, links: links}
}

// Layout returns the layout the service searches with.
func (s *Service) Layout() Layout {
	return s.layout
}

// Source returns a description of the configured backend.
func (s *Service) Source() string {
	return s.source.Describe()
}

// Tracking returns all configured carrier links.
func (s *Service) Tracking() TrackingLinks {
	return s.links
}

// Search loads the source and filters it by query.
//
// A blank query returns ErrEmptyQuery without touching the source.
// Load errors are returned as *LoadError, missing search columns as
// *FilterError. No partial result is ever returned with an error.
func (s *Service) Search(ctx context.Context, query string) (*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()

	table, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	matches, err := Filter(table, query, s.layout.SearchColumns())
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		ID:       uuid.New(),
		Query:    query,
		Source:   s.source.Describe(),
		Columns:  matches.Columns,
		Rows:     matches.Records,
		Count:    matches.Len(),
		Scanned:  table.Len(),
		Tracking: s.links.ForTable(matches),
		Duration: time.Since(start),
	}, nil
}
