package testutil

import (
	"fmt"
	"os"
	"strconv"
	"testing"

	"github.com/martin-sellanes/pulseras-crm-api/store"
)

// Worksheet names used across the test suites.
const (
	CustomersSheet = "CLIENTES"
	OrdersSheet    = "PULSERAS"
)

// CustomersHeader returns the header row of the customers worksheet.
func CustomersHeader() []string {
	return []string{
		"ID", "NOMBRE", "TELEFONO", "MAIL", "DIRECCION",
		"CIUDAD", "DEPARTAMENTO", "RUT", "RAZON SOCIAL",
	}
}

// OrdersHeader returns the header row of the orders worksheet.
func OrdersHeader() []string {
	return []string{
		"FECHA", "ID CLIENTE", "NOMBRE", "TELEFONO", "REDES",
		"CANTIDAD", "MODELO", "COLOR", "PRECIO U", "PEDIDO",
		"PRODUCTO", "IMPORTE", "SENA", "SALDO", "ENTREGA",
	}
}

// NewSeededStore creates an in-memory grid store with empty customers and
// orders worksheets, headers in place.
func NewSeededStore() *store.MemoryStore {
	st := store.NewMemoryStore()
	st.Seed(CustomersSheet, [][]string{CustomersHeader()})
	st.Seed(OrdersSheet, [][]string{OrdersHeader()})
	return st
}

// SeedCustomers fills the customers worksheet with n generated customers,
// ids 1..n.
func SeedCustomers(st *store.MemoryStore, n int) {
	rows := [][]string{CustomersHeader()}
	for i := 1; i <= n; i++ {
		rows = append(rows, []string{
			strconv.Itoa(i),
			fmt.Sprintf("Cliente %d", i),
			fmt.Sprintf("0990000%02d", i),
			"", "", "", "", "", "",
		})
	}
	st.Seed(CustomersSheet, rows)
}

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against a live spreadsheet or a
// production database. It fails the test immediately if GO_ENV is not "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}
