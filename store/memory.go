package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type cellRef struct {
	table string
	row   int
	col   int
}

// MemoryStore is an in-memory Store implementation. It backs unit tests and
// credential-less local runs, and records applied styles so tests can assert
// on them.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][][]string
	styles map[cellRef]CellStyle

	// Error injection for tests. When set, the corresponding operation
	// fails with the given error.
	SetCellErr      error
	SetCellStyleErr error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string][][]string),
		styles: make(map[cellRef]CellStyle),
	}
}

// Seed replaces the contents of a table, header row included.
func (m *MemoryStore) Seed(table string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	m.tables[table] = copied
}

// Rows returns the raw grid including the header row.
func (m *MemoryStore) Rows(ctx context.Context, table string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: unknown table %q", ErrFormat, table)
	}
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	return copied, nil
}

// Records returns the data rows keyed by header column name.
func (m *MemoryStore) Records(ctx context.Context, table string) ([]map[string]string, error) {
	rows, err := m.Rows(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: table %q has no header row", ErrFormat, table)
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = row[i]
			} else {
				record[name] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// AppendRow appends a row at the end of the table and returns its position.
func (m *MemoryStore) AppendRow(ctx context.Context, table string, cells []interface{}) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.tables[table]
	if !ok {
		return 0, fmt.Errorf("%w: unknown table %q", ErrFormat, table)
	}
	m.tables[table] = append(rows, stringCells(cells))
	return len(m.tables[table]), nil
}

// InsertRow inserts a row before the given 1-based position.
func (m *MemoryStore) InsertRow(ctx context.Context, table string, position int, cells []interface{}) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if position < 1 {
		return fmt.Errorf("%w: invalid row position %d", ErrFormat, position)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("%w: unknown table %q", ErrFormat, table)
	}

	// Pad with blank rows when inserting past the current end.
	for len(rows) < position-1 {
		rows = append(rows, []string{})
	}

	row := stringCells(cells)
	rows = append(rows, nil)
	copy(rows[position:], rows[position-1:])
	rows[position-1] = row
	m.tables[table] = rows

	// Shift recorded styles at or below the insertion point.
	shifted := make(map[cellRef]CellStyle, len(m.styles))
	for ref, style := range m.styles {
		if ref.table == table && ref.row >= position {
			ref.row++
		}
		shifted[ref] = style
	}
	m.styles = shifted
	return nil
}

// SetCell writes a single cell, growing the grid as needed.
func (m *MemoryStore) SetCell(ctx context.Context, table string, row, col int, value interface{}) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if m.SetCellErr != nil {
		return m.SetCellErr
	}
	if row < 1 || col < 1 {
		return fmt.Errorf("%w: invalid cell position (%d, %d)", ErrFormat, row, col)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.tables[table]
	if !ok {
		return fmt.Errorf("%w: unknown table %q", ErrFormat, table)
	}
	for len(rows) < row {
		rows = append(rows, []string{})
	}
	for len(rows[row-1]) < col {
		rows[row-1] = append(rows[row-1], "")
	}
	rows[row-1][col-1] = cellString(value)
	m.tables[table] = rows
	return nil
}

// SetCellStyle records a style for a single cell.
func (m *MemoryStore) SetCellStyle(ctx context.Context, table string, row, col int, style CellStyle) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if m.SetCellStyleErr != nil {
		return m.SetCellStyleErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[table]; !ok {
		return fmt.Errorf("%w: unknown table %q", ErrFormat, table)
	}
	m.styles[cellRef{table, row, col}] = style
	return nil
}

// Cell returns the value at a 1-based position, or "" if out of range.
func (m *MemoryStore) Cell(table string, row, col int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.tables[table]
	if row < 1 || row > len(rows) {
		return ""
	}
	if col < 1 || col > len(rows[row-1]) {
		return ""
	}
	return rows[row-1][col-1]
}

// StyleAt returns the recorded style for a cell, if any.
func (m *MemoryStore) StyleAt(table string, row, col int) (CellStyle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	style, ok := m.styles[cellRef{table, row, col}]
	return style, ok
}

// RowCount returns the number of rows in a table, header included.
func (m *MemoryStore) RowCount(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table])
}

func stringCells(cells []interface{}) []string {
	row := make([]string, len(cells))
	for i, cell := range cells {
		row[i] = cellString(cell)
	}
	return row
}

func cellString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strings.ToUpper(fmt.Sprint(v))
	default:
		return fmt.Sprint(v)
	}
}
