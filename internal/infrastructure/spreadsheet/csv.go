package spreadsheet

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/obpp/dashboard/internal/domain/tabular"
)

// CSVReader parses comma separated text into a dataset. Quoting is lenient and
// cells are trimmed of surrounding whitespace.
type CSVReader struct {
	headerRow int
}

// CSVOption is a functional option for CSVReader configuration
type CSVOption func(*CSVReader)

// WithCSVHeaderRow sets the 0-based record index of the header
func WithCSVHeaderRow(row int) CSVOption {
	return func(r *CSVReader) {
		r.headerRow = row
	}
}

// NewCSVReader creates a reader with the given options
func NewCSVReader(opts ...CSVOption) *CSVReader {
	r := &CSVReader{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read parses src. A UTF-8 BOM is stripped, rows above the header are
// discarded and rows whose cells are all blank are skipped.
func (r *CSVReader) Read(src io.Reader) (*tabular.Dataset, error) {
	br := bufio.NewReader(src)

	// UTF-8 BOM: 0xEF, 0xBB, 0xBF
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	if err := validateUTF8(br); err != nil {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var (
		data   *tabular.Dataset
		record int
	)
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record %d: %w", record+1, err)
		}
		record++

		for i := range fields {
			fields[i] = trimSpaces(fields[i])
		}

		switch {
		case record <= r.headerRow:
			continue
		case data == nil:
			data = tabular.New(normalizeHeader(fields))
		case !isBlank(fields):
			data.Append(fields)
		}
	}

	if data == nil {
		return nil, ErrMissingHeader
	}
	return data, nil
}

// validateUTF8 checks the leading chunk of the content
func validateUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	// a multi-byte rune may straddle the peek boundary
	if len(content) == checkSize {
		content = trimPartialRune(content)
	}
	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}
	return nil
}

// trimPartialRune drops an incomplete trailing UTF-8 sequence
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		start := len(b) - i
		if utf8.RuneStart(b[start]) {
			if !utf8.FullRune(b[start:]) {
				return b[:start]
			}
			return b
		}
	}
	return b
}

// trimSpaces trims ASCII whitespace from both ends
func trimSpaces(s string) string {
	start, end := 0, len(s)
	for start < end && isWhitespace(s[start]) {
		start++
	}
	for end > start && isWhitespace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if trimSpaces(c) != "" {
			return false
		}
	}
	return true
}
