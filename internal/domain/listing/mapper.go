package listing

import "context"

// Instrument is one data record returned by the mapping service for an ISIN
type Instrument struct {
	Name         string
	ExchangeCode string
	Ticker       string
	FIGI         string
}

// Match is the mapping-service result for one ISIN. Implementations of Mapper
// are responsible for correlating each result with its ISIN.
type Match struct {
	ISIN        string
	Instruments []Instrument
}

// Mapper resolves a batch of ISINs against an identifier mapping service.
//
// MapBatch returns one Match per ISIN it has a result for. An error means the
// whole batch failed at the transport level.
type Mapper interface {
	MapBatch(ctx context.Context, isins Batch) ([]Match, error)
}

// Classify turns a Match into a Record.
//
// The first instrument decides: its name (Unknown when blank) and its
// exchange code (Listed unless blank or NOT LISTED). No instruments means
// Unknown.
func Classify(m Match) Record {
	if len(m.Instruments) == 0 {
		return UnknownRecord(m.ISIN)
	}

	first := m.Instruments[0]
	rec := Record{
		ISIN:        m.ISIN,
		CompanyName: first.Name,
		Status:      StatusUnlisted,
	}
	if rec.CompanyName == "" {
		rec.CompanyName = NameUnknown
	}
	if first.ExchangeCode != "" && first.ExchangeCode != NotListedExchangeCode {
		rec.Status = StatusListed
	}
	return rec
}
