package spreadsheet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/obpp/dashboard/internal/domain/tabular"
	"github.com/xuri/excelize/v2"
)

// Workbook is an uploaded workbook opened for editing. Table exposes the
// first sheet; SetColumn writes into the sheet itself, so cells outside the
// written columns keep their value, type and style.
type Workbook struct {
	file  *excelize.File
	sheet string
	table *tabular.Dataset
}

// OpenWorkbook opens src with the first row of the first sheet as header.
// Cells are read raw and untrimmed and blank rows are kept, so row i of
// Table is sheet row i+2. A row wider than the header extends it with
// "Unnamed: <index>" columns.
func OpenWorkbook(src io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		_ = f.Close()
		return nil, ErrMissingHeader
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	header := make([]string, width)
	copy(header, rows[0])

	table := tabular.New(normalizeHeader(header))
	for _, row := range rows[1:] {
		table.Append(row)
	}
	return &Workbook{file: f, sheet: sheets[0], table: table}, nil
}

// Table returns the first sheet as a dataset
func (w *Workbook) Table() *tabular.Dataset {
	return w.table
}

// SetColumn writes values below the header cell name. An existing column of
// that name is overwritten in place; otherwise the column is added after the
// last one. len(values) must equal the row count of Table.
func (w *Workbook) SetColumn(name string, values []string) error {
	_, existed := w.table.ColumnIndex(name)
	if err := w.table.SetColumn(name, values); err != nil {
		return err
	}
	idx, _ := w.table.ColumnIndex(name)

	cells := make([]interface{}, 0, len(values)+1)
	row := 1
	if existed {
		row = 2
	} else {
		cells = append(cells, name)
	}
	for _, v := range values {
		cells = append(cells, v)
	}

	start, err := excelize.CoordinatesToCellName(idx+1, row)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetCol(w.sheet, start, &cells); err != nil {
		return fmt.Errorf("failed to write column %q: %w", name, err)
	}
	return nil
}

// Bytes encodes the workbook
func (w *Workbook) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := w.file.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Close releases the workbook
func (w *Workbook) Close() error {
	return w.file.Close()
}
