package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// defaultTimeout bounds every round trip to the Sheets API so a hung
// upstream surfaces as ErrUnavailable instead of blocking the request.
const defaultTimeout = 15 * time.Second

// SheetsStore implements Store on top of a Google Sheets spreadsheet. Each
// logical table is a worksheet (tab) identified by its title.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	timeout       time.Duration

	mu       sync.Mutex
	sheetIDs map[string]int64 // worksheet title -> numeric sheet id
}

// NewSheetsStore builds a store from service-account credentials JSON and a
// spreadsheet id.
func NewSheetsStore(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*SheetsStore, error) {
	jwt, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &SheetsStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		timeout:       defaultTimeout,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// Rows returns the raw grid including the header row.
func (s *SheetsStore) Rows(ctx context.Context, table string) ([][]string, error) {
	var resp *sheets.ValueRange
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		resp, err = s.svc.Spreadsheets.Values.Get(s.spreadsheetID, table).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = cellString(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

// Records returns the data rows keyed by header column name.
func (s *SheetsStore) Records(ctx context.Context, table string) ([]map[string]string, error) {
	rows, err := s.Rows(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", ErrFormat, table)
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

// AppendRow appends a row at the logical end of the sheet. USER_ENTERED input
// lets the backend parse numbers, dates and formulas the way a typing user
// would.
func (s *SheetsStore) AppendRow(ctx context.Context, table string, cells []interface{}) (int, error) {
	vr := &sheets.ValueRange{Values: [][]interface{}{cells}}

	var resp *sheets.AppendValuesResponse
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		resp, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, table, vr).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).Do()
		return err
	})
	if err != nil {
		return 0, err
	}
	if resp.Updates == nil {
		return 0, fmt.Errorf("%w: append response carried no update range", ErrFormat)
	}

	row, err := rowFromRange(resp.Updates.UpdatedRange)
	if err != nil {
		return 0, err
	}
	return row, nil
}

// InsertRow inserts a blank row before the given position, then fills it.
func (s *SheetsStore) InsertRow(ctx context.Context, table string, position int, cells []interface{}) error {
	sheetID, err := s.sheetID(ctx, table)
	if err != nil {
		return err
	}

	insert := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(position - 1),
					EndIndex:   int64(position),
				},
				InheritFromBefore: false,
			},
		}},
	}
	err = s.do(ctx, func(ctx context.Context) error {
		_, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, insert).Context(ctx).Do()
		return err
	})
	if err != nil {
		return err
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{cells}}
	writeRange := fmt.Sprintf("%s!A%d", table, position)
	return s.do(ctx, func(ctx context.Context) error {
		_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, writeRange, vr).
			ValueInputOption("USER_ENTERED").
			Context(ctx).Do()
		return err
	})
}

// SetCell writes a single cell. Formula strings (leading "=") are evaluated
// by the backend under USER_ENTERED semantics.
func (s *SheetsStore) SetCell(ctx context.Context, table string, row, col int, value interface{}) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	writeRange := fmt.Sprintf("%s!%s%d", table, ColumnLetter(col), row)
	return s.do(ctx, func(ctx context.Context) error {
		_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, writeRange, vr).
			ValueInputOption("USER_ENTERED").
			Context(ctx).Do()
		return err
	})
}

// SetCellStyle paints a single cell's background.
func (s *SheetsStore) SetCellStyle(ctx context.Context, table string, row, col int, style CellStyle) error {
	sheetID, err := s.sheetID(ctx, table)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    int64(row - 1),
					EndRowIndex:      int64(row),
					StartColumnIndex: int64(col - 1),
					EndColumnIndex:   int64(col),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor: &sheets.Color{
							Red:   style.Background.Red,
							Green: style.Background.Green,
							Blue:  style.Background.Blue,
						},
					},
				},
				Fields: "userEnteredFormat.backgroundColor",
			},
		}},
	}
	return s.do(ctx, func(ctx context.Context) error {
		_, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
		return err
	})
}

// sheetID resolves a worksheet title to its numeric id, caching the mapping.
func (s *SheetsStore) sheetID(ctx context.Context, table string) (int64, error) {
	s.mu.Lock()
	if id, ok := s.sheetIDs[table]; ok {
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	var spreadsheet *sheets.Spreadsheet
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		spreadsheet, err = s.svc.Spreadsheets.Get(s.spreadsheetID).
			Fields("sheets.properties").
			Context(ctx).Do()
		return err
	})
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			s.sheetIDs[sheet.Properties.Title] = sheet.Properties.SheetId
		}
	}
	id, ok := s.sheetIDs[table]
	if !ok {
		return 0, fmt.Errorf("%w: spreadsheet has no sheet named %q", ErrFormat, table)
	}
	return id, nil
}

// do runs one API call under the store timeout, classifying failures into the
// store error taxonomy. Transient failures get a single retry.
func (s *SheetsStore) do(ctx context.Context, call func(ctx context.Context) error) error {
	err := s.attempt(ctx, call)
	if err != nil && errors.Is(err, ErrUnavailable) && ctx.Err() == nil {
		err = s.attempt(ctx, call)
	}
	return err
}

func (s *SheetsStore) attempt(ctx context.Context, call func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := call(callCtx); err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != 429 {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// rowFromRange extracts the starting row from an A1 range like
// "PULSERAS!A12:O12".
func rowFromRange(a1 string) (int, error) {
	if i := strings.IndexByte(a1, '!'); i >= 0 {
		a1 = a1[i+1:]
	}
	if i := strings.IndexByte(a1, ':'); i >= 0 {
		a1 = a1[:i]
	}
	digits := strings.TrimLeft(a1, "ABCDEFGHIJKLMNOPQRSTUVWXYZ$")
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 {
		return 0, fmt.Errorf("%w: unparseable range %q", ErrFormat, a1)
	}
	return row, nil
}
