package spreadsheet

import "errors"

// Content errors. Callers wrap them into a ParseError of the right origin.
var (
	// ErrEmptyFile is returned when the content has no bytes at all
	ErrEmptyFile = errors.New("file is empty")

	// ErrInvalidEncoding is returned when CSV content is not UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding, expected UTF-8")

	// ErrMissingHeader is returned when the header row is absent
	ErrMissingHeader = errors.New("file missing header row")

	// ErrNoSheets is returned when a workbook has no worksheet
	ErrNoSheets = errors.New("workbook has no sheets")

	// ErrBodyTooLarge is returned when a download exceeds the configured cap
	ErrBodyTooLarge = errors.New("response exceeds maximum allowed size")
)
