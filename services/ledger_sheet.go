package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/martin-sellanes/pulseras-crm-api/store"
)

// 1-based columns of the orders sheet.
const (
	orderColDate     = 1  // FECHA
	orderColCustID   = 2  // ID CLIENTE
	orderColName     = 3  // NOMBRE
	orderColPhone    = 4  // TELEFONO
	orderColRedes    = 5  // REDES
	orderColQuantity = 6  // CANTIDAD
	orderColModel    = 7  // MODELO
	orderColColor    = 8  // COLOR
	orderColPrice    = 9  // PRECIO U
	orderColNotes    = 10 // PEDIDO
	orderColImage    = 11 // PRODUCTO
	orderColTotal    = 12 // IMPORTE
	orderColDeposit  = 13 // SENA
	orderColBalance  = 14 // SALDO
	orderColDelivery = 15 // ENTREGA
)

// Header names used when reading ledger rows back.
const (
	orderHdrDate     = "FECHA"
	orderHdrName     = "NOMBRE"
	orderHdrPhone    = "TELEFONO"
	orderHdrRedes    = "REDES"
	orderHdrQuantity = "CANTIDAD"
	orderHdrModel    = "MODELO"
	orderHdrPrice    = "PRECIO U"
	orderHdrNotes    = "PEDIDO"
	orderHdrImage    = "PRODUCTO"
)

// ledgerDateFormat is the business-local calendar format of the date column.
const ledgerDateFormat = "02/01/2006"

// SheetLedger is the Order Ledger backed by an orders worksheet. Row
// placement is a read-then-write scan, so Create serializes per table;
// without that, two concurrent creations can compute the same row and
// overwrite each other.
type SheetLedger struct {
	store     store.Store
	table     string
	directory CustomerDirectory
	images    ImageService
	now       func() time.Time

	mu sync.Mutex // serializes writes to the orders table
}

// NewSheetLedger creates a ledger over the given store and worksheet.
func NewSheetLedger(st store.Store, table string, directory CustomerDirectory, images ImageService) *SheetLedger {
	return &SheetLedger{
		store:     st,
		table:     table,
		directory: directory,
		images:    images,
		now:       time.Now,
	}
}

// Create records an order in the ledger and returns its resolved fields.
func (l *SheetLedger) Create(ctx context.Context, input OrderInput) (*OrderRecord, error) {
	if err := validateOrder(input); err != nil {
		return nil, err
	}

	customer, err := l.directory.Find(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	total := input.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity)))

	l.mu.Lock()
	defer l.mu.Unlock()

	row, err := l.nextRow(ctx)
	if err != nil {
		return nil, err
	}

	date := l.now().Format(ledgerDateFormat)
	cells := []interface{}{
		date,                     // FECHA
		customer.ID,              // ID CLIENTE
		customer.Name,            // NOMBRE
		customer.Phone,           // TELEFONO
		input.CameViaSocial,      // REDES
		input.Quantity,           // CANTIDAD
		input.Model,              // MODELO
		input.Color,              // COLOR
		input.UnitPrice.String(), // PRECIO U
		input.Notes,              // PEDIDO
		"",                       // PRODUCTO, filled below when an image is attached
		total.String(),           // IMPORTE
		input.Deposit.String(),   // SENA
		"",                       // SALDO, filled below with a live formula
		"",                       // ENTREGA
	}
	if err := l.store.InsertRow(ctx, l.table, row, cells); err != nil {
		return nil, fmt.Errorf("writing order row: %w", err)
	}

	record := &OrderRecord{
		Row:           row,
		Date:          date,
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		Quantity:      input.Quantity,
		Model:         input.Model,
		Color:         input.Color,
		Notes:         input.Notes,
		CameViaSocial: input.CameViaSocial,
		UnitPrice:     input.UnitPrice,
		Total:         total,
		Deposit:       input.Deposit,
		Balance:       total.Sub(input.Deposit),
	}

	if input.ImagePayload != "" {
		url, err := l.attachImage(ctx, input, customer.ID, row)
		if err != nil {
			// The base row is already written; there is no rollback.
			return nil, err
		}
		record.ImageURL = url
	}

	// The balance stays a cell-reference formula so manual edits to the
	// total or deposit keep it live.
	balance := fmt.Sprintf("=%s%d-%s%d",
		store.ColumnLetter(orderColTotal), row,
		store.ColumnLetter(orderColDeposit), row)
	if err := l.store.SetCell(ctx, l.table, row, orderColBalance, balance); err != nil {
		return nil, fmt.Errorf("writing balance formula: %w", err)
	}

	if input.Deposit.Equal(total) {
		record.PaidInFull = true
		// Cosmetic only: a failed highlight never fails the order.
		if err := l.store.SetCellStyle(ctx, l.table, row, orderColDeposit, paidInFullStyle); err != nil {
			log.Printf("warning: paid-in-full highlight failed for row %d: %v", row, err)
		}
	}

	return record, nil
}

// nextRow scans the ledger for the last row whose leading date cell is
// non-empty and returns the position right after it. Trailing blank rows
// left by manual edits are skipped over, which a plain append would not do.
func (l *SheetLedger) nextRow(ctx context.Context) (int, error) {
	rows, err := l.store.Rows(ctx, l.table)
	if err != nil {
		return 0, fmt.Errorf("scanning ledger: %w", err)
	}

	last := 0
	for i, row := range rows {
		if len(row) > 0 && strings.TrimSpace(row[0]) != "" {
			last = i + 1
		}
	}
	return last + 1, nil
}

// attachImage uploads the payload and embeds it into the row's image cell.
func (l *SheetLedger) attachImage(ctx context.Context, input OrderInput, customerID string, row int) (string, error) {
	filename := fmt.Sprintf("pulsera_%s_%s.png", customerID, uuid.NewString())
	url, err := l.images.Attach(ctx, input.ImagePayload, filename)
	if err != nil {
		return "", err
	}

	formula := fmt.Sprintf(`=IMAGE("%s"; 4; %d; %d)`, url, imageHeight, imageWidth)
	if err := l.store.SetCell(ctx, l.table, row, orderColImage, formula); err != nil {
		// The object stays behind in cloud storage; acceptable at this
		// scale, but worth a trace.
		log.Printf("orphaned upload %s: image cell write failed: %v", url, err)
		return "", fmt.Errorf("writing image cell: %w", err)
	}
	return url, nil
}

// List returns one page of denormalized ledger rows.
func (l *SheetLedger) List(ctx context.Context, page PageParams) (*OrderPage, error) {
	records, err := l.store.Records(ctx, l.table)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	summaries := make([]OrderSummary, 0, len(records))
	for i, record := range records {
		summaries = append(summaries, OrderSummary{
			ID:           i + 2, // sheet row: header is row 1
			Date:         record[orderHdrDate],
			CustomerName: record[orderHdrName],
			Phone:        record[orderHdrPhone],
			Redes:        record[orderHdrRedes],
			Quantity:     record[orderHdrQuantity],
			Model:        record[orderHdrModel],
			Price:        record[orderHdrPrice],
			Description:  record[orderHdrNotes],
			Logo:         record[orderHdrImage],
		})
	}

	page = page.normalized()
	start, end := page.bounds(len(summaries))
	return &OrderPage{
		Data:  append([]OrderSummary{}, summaries[start:end]...),
		Total: len(summaries),
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}
