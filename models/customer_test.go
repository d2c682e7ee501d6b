package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomerTableName(t *testing.T) {
	customer := Customer{}
	assert.Equal(t, "customers", customer.TableName(), "Table name should be 'customers'")
}

func TestCustomerStructFields(t *testing.T) {
	customer := Customer{
		Name:    "Ana García",
		Phone:   "099111222",
		TaxID:   "211234560011",
		Company: "Pulseras del Este",
	}

	assert.Equal(t, "Ana García", customer.Name, "Name should be set correctly")
	assert.Equal(t, "099111222", customer.Phone, "Phone should be set correctly")
	assert.Equal(t, "211234560011", customer.TaxID, "TaxID should be set correctly")
	assert.Equal(t, "Pulseras del Este", customer.Company, "Company should be set correctly")
}

func TestCustomerOptionalFieldsDefaultEmpty(t *testing.T) {
	customer := Customer{
		Name:  "Luis Pérez",
		Phone: "098333444",
	}

	assert.Equal(t, "", customer.Email, "Email should be empty string by default")
	assert.Equal(t, "", customer.City, "City should be empty string by default")
	assert.Equal(t, "", customer.Department, "Department should be empty string by default")
}
