package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/martin-sellanes/pulseras-crm-api/models"
	"github.com/martin-sellanes/pulseras-crm-api/store"
)

// DBDirectory is the Customer Directory backed by the relational store. The
// database assigns identifiers, so no read-then-write serialization is
// needed here.
type DBDirectory struct {
	db *gorm.DB
}

// NewDBDirectory creates a directory over a gorm handle.
func NewDBDirectory(db *gorm.DB) *DBDirectory {
	return &DBDirectory{db: db}
}

// List returns one page of customers matching the filter. Filtering happens
// in memory after a full ordered fetch so the id-substring and
// case-insensitive semantics are identical across postgres, mysql and
// sqlite, and identical to the sheet backend.
func (d *DBDirectory) List(ctx context.Context, filter CustomerFilter, page PageParams) (*CustomerPage, error) {
	var customers []models.Customer
	if err := d.db.WithContext(ctx).Order("id").Find(&customers).Error; err != nil {
		return nil, dbErr("listing customers", err)
	}

	var matched []CustomerRecord
	for _, c := range customers {
		record := customerFromModel(c)
		switch {
		case filter.ID != "":
			if sameID(record.ID, filter.ID) {
				matched = append(matched, record)
			}
		case filter.Query != "":
			if record.matchesQuery(filter.Query) {
				matched = append(matched, record)
			}
		default:
			matched = append(matched, record)
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
func (d *DBDirectory) Find(ctx context.Context, id string) (*CustomerRecord, error) {
	numeric, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || numeric < 1 {
		return nil, fmt.Errorf("%w: id %q", ErrCustomerNotFound, id)
	}

	var customer models.Customer
	if err := d.db.WithContext(ctx).First(&customer, numeric).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %q", ErrCustomerNotFound, id)
		}
		return nil, dbErr("looking up customer", err)
	}

	record := customerFromModel(customer)
	return &record, nil
}

// Create registers a customer; the database assigns the identifier.
func (d *DBDirectory) Create(ctx context.Context, input CustomerInput) (string, error) {
	customer := models.Customer{
		Name:       input.Name,
		Phone:      input.Phone,
		Email:      input.Email,
		Address:    input.Address,
		City:       input.City,
		Department: input.Department,
		TaxID:      input.TaxID,
		Company:    input.Company,
	}
	if err := d.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return "", dbErr("creating customer", err)
	}
	return strconv.FormatUint(uint64(customer.ID), 10), nil
}

func customerFromModel(c models.Customer) CustomerRecord {
	return CustomerRecord{
		ID:         strconv.FormatUint(uint64(c.ID), 10),
		Name:       c.Name,
		Phone:      c.Phone,
		Email:      c.Email,
		Address:    c.Address,
		City:       c.City,
		Department: c.Department,
		TaxID:      c.TaxID,
		Company:    c.Company,
	}
}

// dbErr folds database failures into the store error taxonomy so controllers
// can map them uniformly.
func dbErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, store.ErrUnavailable, err)
}
