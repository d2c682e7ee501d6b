package services

import (
	"strconv"

	"github.com/martin-sellanes/pulseras-crm-api/store"
)

// Sheet fixtures shared by the directory and ledger tests.

const (
	testCustomersSheet = "CLIENTES"
	testOrdersSheet    = "PULSERAS"
)

var customersHeader = []string{
	"ID", "NOMBRE", "TELEFONO", "MAIL", "DIRECCION", "CIUDAD", "DEPARTAMENTO", "RUT", "RAZON SOCIAL",
}

var ordersHeader = []string{
	"FECHA", "ID CLIENTE", "NOMBRE", "TELEFONO", "REDES", "CANTIDAD", "MODELO",
	"COLOR", "PRECIO U", "PEDIDO", "PRODUCTO", "IMPORTE", "SENA", "SALDO", "ENTREGA",
}

// newSheetFixture builds a memory store with a customers sheet holding the
// given rows and an empty orders sheet.
func newSheetFixture(customers ...[]string) *store.MemoryStore {
	m := store.NewMemoryStore()
	m.Seed(testCustomersSheet, append([][]string{customersHeader}, customers...))
	m.Seed(testOrdersSheet, [][]string{ordersHeader})
	return m
}

// customerRow builds a customers sheet row with the given id, name and phone.
func customerRow(id int, name, phone string) []string {
	return []string{strconv.Itoa(id), name, phone, "", "", "", "", "", ""}
}
