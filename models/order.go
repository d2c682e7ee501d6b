package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order represents one bracelet order in the ledger. Total and Balance are
// computed at creation time (total = quantity * unit price, balance = total -
// deposit) and stored as columns; the spreadsheet backend keeps the balance
// live via a cell formula instead.
type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	CustomerID    uint            `gorm:"not null;index" json:"customer_id"`
	Customer      Customer        `gorm:"foreignKey:CustomerID" json:"customer"`
	Quantity      int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	Model         string          `gorm:"not null" json:"model"`
	Color         string          `json:"color"`
	Notes         string          `gorm:"type:text" json:"notes"` // free-text "pedido"
	CameViaSocial bool            `json:"came_via_social"`        // "redes"
	UnitPrice     decimal.Decimal `gorm:"type:numeric" json:"unit_price"`
	Total         decimal.Decimal `gorm:"type:numeric" json:"total"`
	Deposit       decimal.Decimal `gorm:"type:numeric" json:"deposit"` // "senia"
	Balance       decimal.Decimal `gorm:"type:numeric" json:"balance"`
	ImageURL      *string         `json:"image_url,omitempty"`
	PaidInFull    bool            `json:"paid_in_full"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
