package spreadsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name        string
		body        []byte
		contentType string
		want        Format
	}{
		{name: "zip signature", body: []byte("PK\x03\x04rest"), want: FormatXLSX},
		{name: "xlsx mime", body: []byte("x"), contentType: XLSXContentType, want: FormatXLSX},
		{name: "legacy excel mime", body: []byte("x"), contentType: "application/vnd.ms-excel", want: FormatXLSX},
		{name: "csv mime with charset", body: []byte("a,b"), contentType: "text/csv; charset=utf-8", want: FormatCSV},
		{name: "no hints", body: []byte("a,b"), want: FormatCSV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.body, tt.contentType))
		})
	}
}
