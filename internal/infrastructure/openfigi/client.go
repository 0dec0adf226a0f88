// Package openfigi maps ISINs to instruments through the OpenFIGI v3 API.
package openfigi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/obpp/dashboard/internal/domain/listing"
	"github.com/obpp/dashboard/internal/domain/shared"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	mappingPath     = "/v3/mapping"
	apiKeyHeader    = "X-OPENFIGI-APIKEY"
	maxResponseSize = 10 << 20
	// per-request job limit of the service
	maxBatch = listing.MaxBatchSize
)

// Client implements listing.Mapper
type Client struct {
	config     *Config
	httpClient *http.Client
}

var _ listing.Mapper = (*Client)(nil)

// NewClient creates a client after validating config
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// MapBatch posts one mapping job per ISIN and correlates response entry i
// with isins[i]. Any transport failure, non-2xx status, undecodable body or
// length mismatch fails the whole batch.
func (c *Client) MapBatch(ctx context.Context, isins listing.Batch) ([]listing.Match, error) {
	if len(isins) == 0 {
		return nil, nil
	}
	if len(isins) > maxBatch {
		return nil, fmt.Errorf("openfigi: batch of %d exceeds limit %d", len(isins), maxBatch)
	}

	jobs := make([]mappingJob, len(isins))
	for i, isin := range isins {
		jobs[i] = mappingJob{IDType: idTypeISIN, IDValue: isin}
	}

	body, err := c.doRequest(ctx, jobs)
	if err != nil {
		return nil, err
	}

	var results []mappingResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, shared.NewUpstreamParseError("openfigi: failed to decode response", err)
	}
	if len(results) != len(isins) {
		return nil, shared.NewUpstreamParseError(
			fmt.Sprintf("openfigi: %d results for %d jobs", len(results), len(isins)), nil)
	}

	matches := make([]listing.Match, len(isins))
	for i, r := range results {
		matches[i] = toMatch(isins[i], r)
	}
	return matches, nil
}

func (c *Client) doRequest(ctx context.Context, jobs []mappingJob) ([]byte, error) {
	payload, err := json.Marshal(jobs)
	if err != nil {
		return nil, fmt.Errorf("openfigi: failed to marshal request: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + mappingPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("openfigi: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set(apiKeyHeader, c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, shared.NewNetworkError("openfigi: mapping service unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, shared.NewNetworkError("openfigi: failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, shared.NewNetworkError(fmt.Sprintf("openfigi: HTTP %d", resp.StatusCode), nil)
	}
	return body, nil
}

func toMatch(isin string, r mappingResult) listing.Match {
	m := listing.Match{ISIN: isin}
	if len(r.Data) == 0 {
		return m
	}
	m.Instruments = make([]listing.Instrument, len(r.Data))
	for i, d := range r.Data {
		m.Instruments[i] = listing.Instrument{
			Name:         d.Name,
			ExchangeCode: d.ExchangeCode,
			Ticker:       d.Ticker,
			FIGI:         d.FIGI,
		}
	}
	return m
}
