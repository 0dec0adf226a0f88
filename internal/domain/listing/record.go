// Package listing models the listing-status lookup of securities identified
// by ISIN.
package listing

// ListingStatus is the outcome of a lookup
type ListingStatus string

const (
	StatusListed   ListingStatus = "Listed"
	StatusUnlisted ListingStatus = "Unlisted"
	StatusUnknown  ListingStatus = "Unknown"
	StatusError    ListingStatus = "Error"
)

// Names written when the mapping service has nothing better
const (
	NameUnknown = "Unknown"
	NameError   = "Error"
)

// NotListedExchangeCode is the exchange code the mapping service uses for
// instruments that do not trade on any exchange.
const NotListedExchangeCode = "NOT LISTED"

// Record is the per-ISIN lookup result
type Record struct {
	ISIN        string        `json:"isin"`
	CompanyName string        `json:"company_name"`
	Status      ListingStatus `json:"listing_status"`
}

// ErrorRecord is the record given to every ISIN of a failed batch
func ErrorRecord(isin string) Record {
	return Record{ISIN: isin, CompanyName: NameError, Status: StatusError}
}

// UnknownRecord is the record given to an ISIN the service knows nothing about
func UnknownRecord(isin string) Record {
	return Record{ISIN: isin, CompanyName: NameUnknown, Status: StatusUnknown}
}
