// Package broker loads the regulator's broker list and searches it by name.
package broker

import (
	"context"
	"net/http"
	"time"

	"github.com/obpp/dashboard/internal/domain/broker"
	"github.com/obpp/dashboard/internal/domain/tabular"
	"github.com/obpp/dashboard/internal/infrastructure/logger"
	"github.com/obpp/dashboard/internal/infrastructure/session"
	"github.com/obpp/dashboard/internal/infrastructure/spreadsheet"
	"go.uber.org/zap"
)

// requestHeaders make the export endpoint answer as it does for a browser
var requestHeaders = map[string]string{
	"Accept":             "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7",
	"Accept-Language":    "en-US,en;q=0.9,en-IN;q=0.8",
	"Cache-Control":      "max-age=0",
	"Content-Type":       "application/x-www-form-urlencoded",
	"Origin":             "https://www.sebi.gov.in",
	"Referer":            "https://www.sebi.gov.in/sebiweb/other/OtherAction.do?doRecognised=yes",
	"User-Agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36 Edg/127.0.0.0",
	"sec-ch-ua":          `"Not)A;Brand";v="99", "Microsoft Edge";v="127", "Chromium";v="127"`,
	"sec-ch-ua-mobile":   "?0",
	"sec-ch-ua-platform": `"Windows"`,
}

// Fetcher downloads a remote spreadsheet
type Fetcher interface {
	Fetch(ctx context.Context, req spreadsheet.Request) (*tabular.Dataset, error)
}

// Config locates the broker export
type Config struct {
	URL string
	// HeaderRow is the 0-based row holding the column names
	HeaderRow int
}

// Service loads and searches the broker directory
type Service struct {
	fetcher Fetcher
	config  Config
}

// NewService creates a Service
func NewService(fetcher Fetcher, config Config) *Service {
	return &Service{fetcher: fetcher, config: config}
}

// Load downloads the export and deduplicates it by registration number
func (s *Service) Load(ctx context.Context) (*tabular.Dataset, error) {
	start := time.Now()
	raw, err := s.fetcher.Fetch(ctx, spreadsheet.Request{
		Source:    "broker list",
		URL:       s.config.URL,
		Method:    http.MethodPost,
		Headers:   requestHeaders,
		Format:    spreadsheet.FormatXLSX,
		HeaderRow: s.config.HeaderRow,
	})
	if err != nil {
		return nil, err
	}

	dir, err := broker.Directory(raw)
	if err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Broker list loaded",
		zap.Int("rows", raw.Len()),
		zap.Int("brokers", dir.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return dir, nil
}

// Search looks up query in the directory memoized in slot, loading it on
// first use. A failed load leaves the slot empty.
func (s *Service) Search(ctx context.Context, slot *session.Slot[*tabular.Dataset], query string) ([]broker.Record, error) {
	dir, err := slot.Get(ctx, s.Load)
	if err != nil {
		return nil, err
	}
	return broker.Records(broker.Search(dir, query)), nil
}
