// Package broker models the regulator's registered stock broker list.
package broker

import (
	"strings"

	"github.com/obpp/dashboard/internal/domain/shared"
	"github.com/obpp/dashboard/internal/domain/tabular"
	"golang.org/x/text/cases"
)

// Column names of the regulator export
const (
	ColumnName               = "Name"
	ColumnRegistrationNumber = "Registration No."
	ColumnAddress            = "Address"
	ColumnFrom               = "From"
)

// SearchColumns is the projection returned by Search
var SearchColumns = []string{ColumnName, ColumnRegistrationNumber, ColumnAddress, ColumnFrom}

// Record is one registered broker
type Record struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
	Address            string `json:"address"`
	RegisteredFrom     string `json:"registered_from"`
}

// Directory prepares a freshly fetched broker list: it requires the name and
// registration number columns and keeps the first row per registration number.
func Directory(raw *tabular.Dataset) (*tabular.Dataset, error) {
	for _, col := range []string{ColumnName, ColumnRegistrationNumber} {
		if !raw.HasColumn(col) {
			return nil, shared.NewUpstreamParseError("broker list is missing column \""+col+"\"", nil)
		}
	}
	return raw.DistinctBy(ColumnRegistrationNumber)
}

// Search returns the brokers whose name contains query, ignoring case, projected
// to SearchColumns. Rows without a name never match. An empty query matches
// every named row.
func Search(directory *tabular.Dataset, query string) *tabular.Dataset {
	// a Caser is stateful, so one per call
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(query))
	return directory.Filter(func(i int) bool {
		name := directory.Value(i, ColumnName)
		if strings.TrimSpace(name) == "" {
			return false
		}
		return strings.Contains(folder.String(name), needle)
	}).Project(SearchColumns...)
}

// Records converts a dataset in SearchColumns layout into Records
func Records(d *tabular.Dataset) []Record {
	out := make([]Record, d.Len())
	for i := range out {
		out[i] = Record{
			Name:               d.Value(i, ColumnName),
			RegistrationNumber: d.Value(i, ColumnRegistrationNumber),
			Address:            d.Value(i, ColumnAddress),
			RegisteredFrom:     d.Value(i, ColumnFrom),
		}
	}
	return out
}
