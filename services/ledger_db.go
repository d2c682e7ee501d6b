package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/martin-sellanes/pulseras-crm-api/models"
)

// DBLedger is the Order Ledger backed by the relational store. Identifiers
// come from the database sequence and the whole order is one INSERT, so no
// placement scan or per-table serialization is needed.
type DBLedger struct {
	db        *gorm.DB
	directory CustomerDirectory
	images    ImageService
}

// NewDBLedger creates a ledger over a gorm handle.
func NewDBLedger(db *gorm.DB, directory CustomerDirectory, images ImageService) *DBLedger {
	return &DBLedger{db: db, directory: directory, images: images}
}

// Create records an order and returns its resolved fields.
func (l *DBLedger) Create(ctx context.Context, input OrderInput) (*OrderRecord, error) {
	if err := validateOrder(input); err != nil {
		return nil, err
	}

	customer, err := l.directory.Find(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	customerID, err := strconv.ParseUint(customer.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: id %q", ErrCustomerNotFound, input.CustomerID)
	}

	total := input.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity)))

	// Upload before the INSERT so the row carries its image URL from the
	// start; a failed INSERT leaves an orphaned object, which is accepted
	// and logged by the image service.
	var imageURL *string
	if input.ImagePayload != "" {
		filename := fmt.Sprintf("pulsera_%s_%s.png", customer.ID, uuid.NewString())
		url, err := l.images.Attach(ctx, input.ImagePayload, filename)
		if err != nil {
			return nil, err
		}
		imageURL = &url
	}

	order := models.Order{
		CustomerID:    uint(customerID),
		Quantity:      input.Quantity,
		Model:         input.Model,
		Color:         input.Color,
		Notes:         input.Notes,
		CameViaSocial: input.CameViaSocial,
		UnitPrice:     input.UnitPrice,
		Total:         total,
		Deposit:       input.Deposit,
		Balance:       total.Sub(input.Deposit),
		ImageURL:      imageURL,
		PaidInFull:    input.Deposit.Equal(total),
	}
	if err := l.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, dbErr("creating order", err)
	}

	record := &OrderRecord{
		Row:           int(order.ID),
		Date:          order.CreatedAt.Format(ledgerDateFormat),
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		CustomerPhone: customer.Phone,
		Quantity:      order.Quantity,
		Model:         order.Model,
		Color:         order.Color,
		Notes:         order.Notes,
		CameViaSocial: order.CameViaSocial,
		UnitPrice:     order.UnitPrice,
		Total:         order.Total,
		Deposit:       order.Deposit,
		Balance:       order.Balance,
		PaidInFull:    order.PaidInFull,
	}
	if imageURL != nil {
		record.ImageURL = *imageURL
	}
	return record, nil
}

// List returns one page of denormalized ledger rows, ordered by insertion.
func (l *DBLedger) List(ctx context.Context, page PageParams) (*OrderPage, error) {
	page = page.normalized()

	var total int64
	if err := l.db.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, dbErr("counting orders", err)
	}

	var orders []models.Order
	err := l.db.WithContext(ctx).
		Preload("Customer").
		Order("id").
		Offset((page.Page - 1) * page.Limit).
		Limit(page.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, dbErr("listing orders", err)
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		summary := OrderSummary{
			ID:           int(o.ID),
			Date:         o.CreatedAt.Format(ledgerDateFormat),
			CustomerName: o.Customer.Name,
			Phone:        o.Customer.Phone,
			Redes:        strconv.FormatBool(o.CameViaSocial),
			Quantity:     strconv.Itoa(o.Quantity),
			Model:        o.Model,
			Price:        o.UnitPrice.String(),
			Description:  o.Notes,
		}
		if o.ImageURL != nil {
			summary.Logo = *o.ImageURL
		}
		summaries = append(summaries, summary)
	}

	return &OrderPage{
		Data:  summaries,
		Total: int(total),
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}
