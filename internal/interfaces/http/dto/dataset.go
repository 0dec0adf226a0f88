package dto

import "github.com/obpp/dashboard/internal/domain/tabular"

// Dataset is the JSON rendering of a table: header plus rows of cells
type Dataset struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewDataset copies d into its wire form
func NewDataset(d *tabular.Dataset) Dataset {
	return Dataset{Columns: d.Columns(), Rows: d.Rows()}
}
