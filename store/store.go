// Package store abstracts the append-only tabular backing store used by the
// directory and ledger services. A table is a grid whose first row is the
// header; data rows follow in insertion order.
package store

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable indicates the backing service could not be reached
	// (network failure, timeout, upstream outage).
	ErrUnavailable = errors.New("record store unavailable")

	// ErrFormat indicates the backing store returned data that does not
	// match the expected tabular shape.
	ErrFormat = errors.New("record store returned malformed data")
)

// Color is an RGB color with components in [0, 1].
type Color struct {
	Red   float64
	Green float64
	Blue  float64
}

// CellStyle is a best-effort visual annotation on a single cell. Failures
// applying a style must never roll back the row write it decorates.
type CellStyle struct {
	Background Color
}

// Store exposes row-level operations over a logical table. Row and column
// positions are 1-based, matching spreadsheet conventions. Cell values passed
// to writes may be plain data or a store-native formula string; formula
// evaluation is the store's concern, not the caller's.
type Store interface {
	// Rows returns the raw grid including the header row, in store order.
	Rows(ctx context.Context, table string) ([][]string, error)

	// Records returns the data rows keyed by header column name.
	Records(ctx context.Context, table string) ([]map[string]string, error)

	// AppendRow appends a row at the logical end of the table and returns
	// its 1-based position. Tolerates sparse existing data.
	AppendRow(ctx context.Context, table string, cells []interface{}) (int, error)

	// InsertRow inserts a row before the given 1-based position, shifting
	// subsequent rows down.
	InsertRow(ctx context.Context, table string, position int, cells []interface{}) error

	// SetCell writes a single cell.
	SetCell(ctx context.Context, table string, row, col int, value interface{}) error

	// SetCellStyle applies a visual style to a single cell.
	SetCellStyle(ctx context.Context, table string, row, col int, style CellStyle) error
}

// ColumnLetter converts a 1-based column index to its A1-notation letter(s).
func ColumnLetter(col int) string {
	letter := ""
	for col > 0 {
		col--
		letter = string(rune('A'+col%26)) + letter
		col /= 26
	}
	return letter
}
