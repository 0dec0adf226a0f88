// Package listing resolves ISIN listing status and augments uploaded
// spreadsheets with the result.
package listing

import (
	"context"
	"strings"
	"time"

	"github.com/obpp/dashboard/internal/domain/listing"
	"github.com/obpp/dashboard/internal/infrastructure/logger"
	"github.com/obpp/dashboard/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ResolverConfig controls batching and pacing of mapping calls
type ResolverConfig struct {
	BatchSize            int
	MaxConcurrentBatches int
	// RateLimit is in batches per second; 0 disables pacing
	RateLimit float64
	RateBurst int
}

// Resolver looks up the listing status of ISINs in batches
type Resolver struct {
	mapper      listing.Mapper
	batchSize   int
	concurrency int
	limiter     *rate.Limiter
	instruments *telemetry.Instruments
}

// ResolverOption is a functional option for Resolver configuration
type ResolverOption func(*Resolver)

// WithInstruments records batch metrics
func WithInstruments(in *telemetry.Instruments) ResolverOption {
	return func(r *Resolver) {
		r.instruments = in
	}
}

// NewResolver creates a Resolver over mapper
func NewResolver(mapper listing.Mapper, cfg ResolverConfig, opts ...ResolverOption) *Resolver {
	if cfg.BatchSize <= 0 || cfg.BatchSize > listing.MaxBatchSize {
		cfg.BatchSize = listing.MaxBatchSize
	}
	if cfg.MaxConcurrentBatches <= 0 {
		cfg.MaxConcurrentBatches = 1
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 1
	}

	r := &Resolver{
		mapper:      mapper,
		batchSize:   cfg.BatchSize,
		concurrency: cfg.MaxConcurrentBatches,
		limiter:     rate.NewLimiter(limit, cfg.RateBurst),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns one record per distinct input ISIN.
//
// Inputs are trimmed. Blank inputs are never sent and resolve to Unknown
// under the empty key. A batch whose call fails marks all of its ISINs as
// Error without affecting other batches. Results are merged in input order,
// so a repeated ISIN keeps the value of its last occurrence.
func (r *Resolver) Resolve(ctx context.Context, isins []string) map[string]listing.Record {
	results := make(map[string]listing.Record, len(isins))

	pending := make([]string, 0, len(isins))
	for _, raw := range isins {
		isin := strings.TrimSpace(raw)
		if isin == "" {
			results[""] = listing.UnknownRecord("")
			continue
		}
		pending = append(pending, isin)
	}

	batches := listing.SplitBatches(pending, r.batchSize)
	slots := make([][]listing.Record, len(batches))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			slots[i] = r.resolveBatch(ctx, i, batch)
			return nil
		})
	}
	_ = g.Wait()

	counts := make(map[string]int)
	for _, slot := range slots {
		for _, rec := range slot {
			results[rec.ISIN] = rec
			counts[string(rec.Status)]++
		}
	}
	r.instruments.RecordStatuses(ctx, counts)

	logger.L(ctx).Info("ISINs resolved",
		zap.Int("isins", len(isins)),
		zap.Int("batches", len(batches)),
		zap.Int("listed", counts[string(listing.StatusListed)]),
		zap.Int("errors", counts[string(listing.StatusError)]),
	)
	return results
}

// resolveBatch returns one record per batch element, in batch order
func (r *Resolver) resolveBatch(ctx context.Context, index int, batch listing.Batch) []listing.Record {
	ctx, span := telemetry.StartSpan(ctx, "listing.resolve_batch", trace.SpanKindInternal,
		attribute.Int("batch.index", index),
		attribute.Int("batch.size", len(batch)),
	)
	defer span.End()

	start := time.Now()
	matches, err := r.mapBatch(ctx, batch)
	log := logger.L(ctx).With(
		zap.Int("batch_index", index),
		zap.Int("batch_size", len(batch)),
		zap.Duration("elapsed", time.Since(start)),
	)

	records := make([]listing.Record, len(batch))
	if err != nil {
		telemetry.RecordError(span, err)
		r.instruments.RecordBatch(ctx, telemetry.OutcomeFailure, time.Since(start))
		log.Warn("Mapping batch failed", zap.Error(err))
		for i, isin := range batch {
			records[i] = listing.ErrorRecord(isin)
		}
		return records
	}

	byISIN := make(map[string]listing.Match, len(matches))
	for _, m := range matches {
		byISIN[m.ISIN] = m
	}
	for i, isin := range batch {
		if m, ok := byISIN[isin]; ok {
			records[i] = listing.Classify(m)
		} else {
			records[i] = listing.UnknownRecord(isin)
		}
	}

	telemetry.SetOK(span)
	r.instruments.RecordBatch(ctx, telemetry.OutcomeSuccess, time.Since(start))
	log.Debug("Mapping batch resolved")
	return records
}

func (r *Resolver) mapBatch(ctx context.Context, batch listing.Batch) ([]listing.Match, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.mapper.MapBatch(ctx, batch)
}
