package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/martin-sellanes/pulseras-crm-api/store"
)

// Embedded product images render at a fixed size in the ledger.
const (
	imageHeight = 50
	imageWidth  = 300
)

// paidInFullStyle is the highlight applied to the deposit cell when an order
// is fully paid at creation time.
var paidInFullStyle = store.CellStyle{
	Background: store.Color{Red: 1.0, Green: 0.8, Blue: 0.6},
}

// OrderInput carries the fields accepted on order creation. Money fields use
// decimals so total and paid-in-full comparisons are exact.
type OrderInput struct {
	CustomerID    string
	Quantity      int
	UnitPrice     decimal.Decimal
	Model         string
	Color         string
	Notes         string // free-text "pedido"
	CameViaSocial bool   // "redes"
	Deposit       decimal.Decimal
	ImagePayload  string // optional data-URL payload
}

// OrderRecord is a created order with its resolved and computed fields.
type OrderRecord struct {
	Row           int             `json:"row"`
	Date          string          `json:"date"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Quantity      int             `json:"quantity"`
	Model         string          `json:"model"`
	Color         string          `json:"color"`
	Notes         string          `json:"notes"`
	CameViaSocial bool            `json:"came_via_social"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
	Deposit       decimal.Decimal `json:"deposit"`
	Balance       decimal.Decimal `json:"balance"`
	ImageURL      string          `json:"image_url,omitempty"`
	PaidInFull    bool            `json:"paid_in_full"`
}

// OrderSummary is a denormalized ledger row as served by order listings.
// Values are the raw cell contents; the backing store owns their formatting.
type OrderSummary struct {
	ID           int    `json:"id"`
	Date         string `json:"date"`
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	Redes        string `json:"redes"`
	Quantity     string `json:"quantity"`
	Model        string `json:"model"`
	Price        string `json:"price"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
}

// OrderPage is one page of ledger rows.
type OrderPage struct {
	Data  []OrderSummary `json:"data"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// OrderLedger records and lists orders.
type OrderLedger interface {
	Create(ctx context.Context, input OrderInput) (*OrderRecord, error)
	List(ctx context.Context, page PageParams) (*OrderPage, error)
}

// validateOrder rejects impossible quantities and negative money up front.
func validateOrder(input OrderInput) error {
	if input.Quantity <= 0 {
		return errInvalidOrderf("quantity must be a positive integer, got %d", input.Quantity)
	}
	if input.UnitPrice.IsNegative() {
		return errInvalidOrderf("unit price must not be negative, got %s", input.UnitPrice)
	}
	if input.Deposit.IsNegative() {
		return errInvalidOrderf("deposit must not be negative, got %s", input.Deposit)
	}
	return nil
}
