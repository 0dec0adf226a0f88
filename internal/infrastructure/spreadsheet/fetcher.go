package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/obpp/dashboard/internal/domain/shared"
	"github.com/obpp/dashboard/internal/domain/tabular"
	"github.com/obpp/dashboard/internal/infrastructure/logger"
	"github.com/obpp/dashboard/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultFetchTimeout = 30 * time.Second
	defaultMaxBodySize  = 20 << 20
)

// FetcherConfig holds download limits
type FetcherConfig struct {
	Timeout     time.Duration
	MaxBodySize int64
}

// Request describes one remote spreadsheet
type Request struct {
	// Source names the feed in logs and metrics
	Source    string
	URL       string
	Method    string // GET when empty
	Headers   map[string]string
	Body      []byte
	Format    Format
	HeaderRow int
}

// Fetcher downloads remote spreadsheets and parses them into datasets.
// It never retries.
type Fetcher struct {
	client      *http.Client
	maxBodySize int64
	instruments *telemetry.Instruments
}

// FetcherOption is a functional option for Fetcher configuration
type FetcherOption func(*Fetcher)

// WithInstruments records download metrics
func WithInstruments(in *telemetry.Instruments) FetcherOption {
	return func(f *Fetcher) {
		f.instruments = in
	}
}

// NewFetcher creates a Fetcher. A zero timeout or body cap uses the defaults.
func NewFetcher(cfg FetcherConfig, opts ...FetcherOption) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultFetchTimeout
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = defaultMaxBodySize
	}
	f := &Fetcher{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		maxBodySize: cfg.MaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads req and parses the body. Transport failures, non-2xx
// statuses and unreadable bodies are NetworkErrors; malformed content is an
// upstream ParseError.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (*tabular.Dataset, error) {
	ctx, span := telemetry.StartSpan(ctx, "spreadsheet.fetch", trace.SpanKindInternal,
		attribute.String("spreadsheet.source", req.Source),
		attribute.String("http.url", req.URL),
	)
	defer span.End()

	start := time.Now()
	data, err := f.fetch(ctx, req)
	outcome := telemetry.OutcomeSuccess
	if err != nil {
		outcome = telemetry.OutcomeFailure
		telemetry.RecordError(span, err)
		logger.L(ctx).Warn("Spreadsheet fetch failed",
			zap.String("source", req.Source),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
	} else {
		span.SetAttributes(attribute.Int("spreadsheet.rows", data.Len()))
		telemetry.SetOK(span)
		logger.L(ctx).Debug("Spreadsheet fetched",
			zap.String("source", req.Source),
			zap.Int("rows", data.Len()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	f.instruments.RecordFetch(ctx, req.Source, outcome, time.Since(start))
	return data, err
}

func (f *Fetcher) fetch(ctx context.Context, req Request) (*tabular.Dataset, error) {
	body, contentType, err := f.download(ctx, req)
	if err != nil {
		return nil, err
	}

	format := req.Format
	if format == FormatAuto {
		format = DetectFormat(body, contentType)
	}

	var data *tabular.Dataset
	switch format {
	case FormatXLSX:
		data, err = ReadXLSX(bytes.NewReader(body), req.HeaderRow)
	default:
		data, err = NewCSVReader(WithCSVHeaderRow(req.HeaderRow)).Read(bytes.NewReader(body))
	}
	if err != nil {
		return nil, shared.NewUpstreamParseError(fmt.Sprintf("%s returned unreadable %s", sourceName(req), format), err)
	}
	return data, nil
}

func (f *Fetcher) download(ctx context.Context, req Request) ([]byte, string, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var reqBody io.Reader
	if req.Body != nil {
		reqBody = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, reqBody)
	if err != nil {
		return nil, "", shared.NewNetworkError(fmt.Sprintf("invalid request for %s", sourceName(req)), err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, "", shared.NewNetworkError(fmt.Sprintf("%s is unreachable", sourceName(req)), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", shared.NewNetworkError(
			fmt.Sprintf("%s answered HTTP %d", sourceName(req), resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, "", shared.NewNetworkError(fmt.Sprintf("failed to read %s", sourceName(req)), err)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, "", shared.NewNetworkError(fmt.Sprintf("failed to read %s", sourceName(req)), ErrBodyTooLarge)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func sourceName(req Request) string {
	if req.Source != "" {
		return req.Source
	}
	return "remote spreadsheet"
}
