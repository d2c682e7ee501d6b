package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/martin-sellanes/pulseras-crm-api/store"
)

// Column names of the customers sheet.
const (
	customerColID         = "ID"
	customerColName       = "NOMBRE"
	customerColPhone      = "TELEFONO"
	customerColEmail      = "MAIL"
	customerColAddress    = "DIRECCION"
	customerColCity       = "CIUDAD"
	customerColDepartment = "DEPARTAMENTO"
	customerColTaxID      = "RUT"
	customerColCompany    = "RAZON SOCIAL"
)

// SheetDirectory is the Customer Directory backed by a customers worksheet.
// The sheet has no native auto-increment, so identifiers are assigned from
// the row count at creation time; Create serializes that read-then-write so
// concurrent registrations cannot collide.
type SheetDirectory struct {
	store store.Store
	table string

	mu sync.Mutex // serializes writes to the customers table
}

// NewSheetDirectory creates a directory over the given store and worksheet.
func NewSheetDirectory(st store.Store, table string) *SheetDirectory {
	return &SheetDirectory{store: st, table: table}
}

// List returns one page of customers matching the filter.
func (d *SheetDirectory) List(ctx context.Context, filter CustomerFilter, page PageParams) (*CustomerPage, error) {
	records, err := d.store.Records(ctx, d.table)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	var matched []CustomerRecord
	for _, record := range records {
		customer := customerFromRecord(record)
		switch {
		case filter.ID != "":
			if sameID(customer.ID, filter.ID) {
				matched = append(matched, customer)
			}
		case filter.Query != "":
			if customer.matchesQuery(filter.Query) {
				matched = append(matched, customer)
			}
		default:
			matched = append(matched, customer)
		}
	}

	page = page.normalized()
	start, end := page.bounds(len(matched))
	return &CustomerPage{
		Data:  append([]CustomerRecord{}, matched[start:end]...),
		Total: len(matched),
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}

// Find returns the customer with the given id, or ErrCustomerNotFound.
func (d *SheetDirectory) Find(ctx context.Context, id string) (*CustomerRecord, error) {
	records, err := d.store.Records(ctx, d.table)
	if err != nil {
		return nil, fmt.Errorf("looking up customer: %w", err)
	}

	for _, record := range records {
		customer := customerFromRecord(record)
		if sameID(customer.ID, id) {
			return &customer, nil
		}
	}
	return nil, fmt.Errorf("%w: id %q", ErrCustomerNotFound, id)
}

// Create registers a customer and returns the assigned identifier. The id is
// the current row count of the sheet, header included, so existing ids 1..N
// are followed by N+1.
func (d *SheetDirectory) Create(ctx context.Context, input CustomerInput) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rows, err := d.store.Rows(ctx, d.table)
	if err != nil {
		return "", fmt.Errorf("creating customer: %w", err)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("%w: customers sheet has no header row", store.ErrFormat)
	}

	nextID := len(rows)
	fields := map[string]string{
		customerColName:       input.Name,
		customerColPhone:      input.Phone,
		customerColEmail:      input.Email,
		customerColAddress:    input.Address,
		customerColCity:       input.City,
		customerColDepartment: input.Department,
		customerColTaxID:      input.TaxID,
		customerColCompany:    input.Company,
	}

	// The id occupies the leading column; the rest follow the sheet's own
	// header order so manual column rearrangements keep working.
	header := rows[0]
	cells := make([]interface{}, 0, len(header))
	cells = append(cells, nextID)
	for _, column := range header[1:] {
		cells = append(cells, fields[column])
	}

	if _, err := d.store.AppendRow(ctx, d.table, cells); err != nil {
		return "", fmt.Errorf("creating customer: %w", err)
	}
	return strconv.Itoa(nextID), nil
}

func customerFromRecord(record map[string]string) CustomerRecord {
	return CustomerRecord{
		ID:         record[customerColID],
		Name:       record[customerColName],
		Phone:      record[customerColPhone],
		Email:      record[customerColEmail],
		Address:    record[customerColAddress],
		City:       record[customerColCity],
		Department: record[customerColDepartment],
		TaxID:      record[customerColTaxID],
		Company:    record[customerColCompany],
	}
}
