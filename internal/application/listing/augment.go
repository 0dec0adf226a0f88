package listing

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/obpp/dashboard/internal/domain/listing"
	"github.com/obpp/dashboard/internal/domain/shared"
	"github.com/obpp/dashboard/internal/domain/tabular"
)

// Column names of the ISIN spreadsheet
const (
	ColumnISIN          = "ISIN"
	ColumnCompanyName   = "Company Name"
	ColumnListingStatus = "Listed/ Unlisted"
)

// OutputFilename is the download name of the augmented spreadsheet
const OutputFilename = "processed_file.xlsx"

// ColumnWriter receives the result columns. *tabular.Dataset and uploaded
// workbooks both qualify.
type ColumnWriter interface {
	SetColumn(name string, values []string) error
}

// Augment writes the Company Name and Listed/ Unlisted columns into dst, one
// value per entry of isins in row order. Existing columns of those names are
// overwritten in place; every other column and the row order are kept.
func Augment(dst ColumnWriter, isins []string, results map[string]listing.Record) error {
	names := make([]string, len(isins))
	statuses := make([]string, len(isins))
	for i, isin := range isins {
		rec, ok := results[isin]
		if !ok {
			rec = listing.UnknownRecord(isin)
		}
		names[i] = rec.CompanyName
		statuses[i] = string(rec.Status)
	}

	if err := dst.SetColumn(ColumnCompanyName, names); err != nil {
		return err
	}
	return dst.SetColumn(ColumnListingStatus, statuses)
}

// ISINs returns the trimmed ISIN cells of table in row order
func ISINs(table *tabular.Dataset) ([]string, error) {
	values, err := table.ColumnValues(ColumnISIN)
	if err != nil {
		return nil, shared.NewValidationError(fmt.Sprintf("The uploaded file must contain an '%s' column", ColumnISIN))
	}
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}
	return values, nil
}

// Workbook is an uploaded spreadsheet that takes the result columns
type Workbook interface {
	ColumnWriter
	Table() *tabular.Dataset
	Bytes() ([]byte, error)
	Close() error
}

// Opener parses an uploaded spreadsheet
type Opener func(io.Reader) (Workbook, error)

// Processor runs the upload round trip: open, resolve, augment, encode
type Processor struct {
	resolver *Resolver
	open     Opener
}

// NewProcessor creates a Processor
func NewProcessor(resolver *Resolver, open Opener) *Processor {
	return &Processor{resolver: resolver, open: open}
}

// Process returns the augmented workbook for upload. Only the two result
// columns are written; every other cell is returned as uploaded. Unreadable
// uploads are ParseErrors and a missing ISIN column is a ValidationError;
// lookup failures never fail the request, they show up as Error rows.
func (p *Processor) Process(ctx context.Context, upload io.Reader) ([]byte, error) {
	wb, err := p.open(upload)
	if err != nil {
		return nil, shared.NewParseError("The uploaded file could not be read as a spreadsheet", err)
	}
	defer func() { _ = wb.Close() }()

	isins, err := ISINs(wb.Table())
	if err != nil {
		return nil, err
	}

	if err := Augment(wb, isins, p.resolver.Resolve(ctx, isins)); err != nil {
		return nil, fmt.Errorf("failed to write result columns: %w", err)
	}

	out, err := wb.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return out, nil
}

// Resolve exposes the resolver for JSON lookups
func (p *Processor) Resolve(ctx context.Context, isins []string) map[string]listing.Record {
	return p.resolver.Resolve(ctx, isins)
}
