// Package feed serves the read-only spreadsheet pages.
package feed

import (
	"context"

	"github.com/obpp/dashboard/internal/domain/tabular"
	"github.com/obpp/dashboard/internal/infrastructure/spreadsheet"
)

// Fetcher downloads a remote spreadsheet
type Fetcher interface {
	Fetch(ctx context.Context, req spreadsheet.Request) (*tabular.Dataset, error)
}

// Page identifies one feed-backed page
type Page string

const (
	PageHome             Page = "home"
	PageComplianceStatus Page = "compliance-status"
)

// Config holds the feed URLs
type Config struct {
	HomeURL       string
	ComplianceURL string
}

// Service fetches feeds on every call; nothing is cached.
type Service struct {
	fetcher Fetcher
	urls    map[Page]string
}

// NewService creates a Service
func NewService(fetcher Fetcher, config Config) *Service {
	return &Service{
		fetcher: fetcher,
		urls: map[Page]string{
			PageHome:             config.HomeURL,
			PageComplianceStatus: config.ComplianceURL,
		},
	}
}

// Home returns the contents of the home feed
func (s *Service) Home(ctx context.Context) (*tabular.Dataset, error) {
	return s.Load(ctx, PageHome)
}

// ComplianceStatus returns the contents of the compliance feed
func (s *Service) ComplianceStatus(ctx context.Context) (*tabular.Dataset, error) {
	return s.Load(ctx, PageComplianceStatus)
}

// Load fetches the feed behind page as CSV
func (s *Service) Load(ctx context.Context, page Page) (*tabular.Dataset, error) {
	return s.fetcher.Fetch(ctx, spreadsheet.Request{
		Source: string(page) + " feed",
		URL:    s.urls[page],
		Format: spreadsheet.FormatCSV,
	})
}
