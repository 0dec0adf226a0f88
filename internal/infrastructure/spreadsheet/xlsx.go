package spreadsheet

import (
	"fmt"
	"io"

	"github.com/obpp/dashboard/internal/domain/tabular"
	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the MIME type of an Office Open XML workbook
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReadXLSX parses the first worksheet of a workbook. Rows above headerRow
// (0-based) are discarded, the header row names the columns and rows whose
// cells are all blank are skipped.
func ReadXLSX(src io.Reader, headerRow int) (*tabular.Dataset, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if headerRow < 0 || headerRow >= len(rows) {
		return nil, ErrMissingHeader
	}

	data := tabular.New(normalizeHeader(rows[headerRow]))
	for _, row := range rows[headerRow+1:] {
		for i := range row {
			row[i] = trimSpaces(row[i])
		}
		if isBlank(row) {
			continue
		}
		data.Append(row)
	}
	return data, nil
}
