package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a registered customer. TaxID carries the Uruguayan RUT
// and Company the legal name ("razón social") used for invoicing.
type Customer struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	Phone      string         `gorm:"not null" json:"phone"`
	Email      string         `json:"email"`
	Address    string         `json:"address"`
	City       string         `json:"city"`
	Department string         `json:"department"`
	TaxID      string         `json:"tax_id"`
	Company    string         `json:"company"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
