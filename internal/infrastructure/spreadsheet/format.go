package spreadsheet

import (
	"bytes"
	"mime"
	"strings"
)

// Format selects the parser for a download
type Format string

const (
	FormatAuto Format = ""
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var zipSignature = []byte("PK\x03\x04")

// DetectFormat picks XLSX for zip containers or spreadsheet content types,
// CSV otherwise.
func DetectFormat(body []byte, contentType string) Format {
	if bytes.HasPrefix(body, zipSignature) {
		return FormatXLSX
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch mediaType {
	case XLSXContentType, "application/vnd.ms-excel":
		return FormatXLSX
	}
	return FormatCSV
}
