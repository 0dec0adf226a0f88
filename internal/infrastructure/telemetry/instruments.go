package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome attribute values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Instruments are the counters and histograms recorded around outbound calls.
// The zero value is not usable; build one with NewInstruments.
type Instruments struct {
	fetches       metric.Int64Counter
	fetchDuration metric.Float64Histogram
	batches       metric.Int64Counter
	batchDuration metric.Float64Histogram
	isins         metric.Int64Counter
}

// NewInstruments registers the instruments on the global meter provider, which
// is a no-op until Setup installs an exporting one.
func NewInstruments() (*Instruments, error) {
	return NewInstrumentsFromMeter(otel.GetMeterProvider().Meter(TracerName))
}

// NewInstrumentsFromMeter registers the instruments on meter.
func NewInstrumentsFromMeter(meter metric.Meter) (*Instruments, error) {
	var (
		in  Instruments
		err error
	)
	if in.fetches, err = meter.Int64Counter("obpp.fetch.requests",
		metric.WithDescription("Spreadsheet downloads by source and outcome")); err != nil {
		return nil, err
	}
	if in.fetchDuration, err = meter.Float64Histogram("obpp.fetch.duration",
		metric.WithDescription("Spreadsheet download latency"),
		metric.WithUnit("ms")); err != nil {
		return nil, err
	}
	if in.batches, err = meter.Int64Counter("obpp.openfigi.batches",
		metric.WithDescription("Identifier mapping batches by outcome")); err != nil {
		return nil, err
	}
	if in.batchDuration, err = meter.Float64Histogram("obpp.openfigi.batch.duration",
		metric.WithDescription("Identifier mapping batch latency"),
		metric.WithUnit("ms")); err != nil {
		return nil, err
	}
	if in.isins, err = meter.Int64Counter("obpp.openfigi.isins",
		metric.WithDescription("ISINs resolved by listing status")); err != nil {
		return nil, err
	}
	return &in, nil
}

// RecordFetch records one spreadsheet download
func (in *Instruments) RecordFetch(ctx context.Context, source, outcome string, d time.Duration) {
	if in == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	)
	in.fetches.Add(ctx, 1, attrs)
	in.fetchDuration.Record(ctx, float64(d.Microseconds())/1000, attrs)
}

// RecordBatch records one identifier mapping batch
func (in *Instruments) RecordBatch(ctx context.Context, outcome string, d time.Duration) {
	if in == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	in.batches.Add(ctx, 1, attrs)
	in.batchDuration.Record(ctx, float64(d.Microseconds())/1000, attrs)
}

// RecordStatuses adds resolved ISIN counts keyed by listing status
func (in *Instruments) RecordStatuses(ctx context.Context, counts map[string]int) {
	if in == nil {
		return
	}
	for status, n := range counts {
		in.isins.Add(ctx, int64(n), metric.WithAttributes(attribute.String("status", status)))
	}
}
