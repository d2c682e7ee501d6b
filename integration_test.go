package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/martin-sellanes/pulseras-crm-api/config"
	"github.com/martin-sellanes/pulseras-crm-api/services"
	"github.com/martin-sellanes/pulseras-crm-api/store"
)

var integrationCustomersHeader = []string{
	"ID", "NOMBRE", "TELEFONO", "MAIL", "DIRECCION",
	"CIUDAD", "DEPARTAMENTO", "RUT", "RAZON SOCIAL",
}

var integrationOrdersHeader = []string{
	"FECHA", "ID CLIENTE", "NOMBRE", "TELEFONO", "REDES",
	"CANTIDAD", "MODELO", "COLOR", "PRECIO U", "PEDIDO",
	"PRODUCTO", "IMPORTE", "SENA", "SALDO", "ENTREGA",
}

// newMemoryBackedRouter wires the full application router over an in-memory
// grid store, exactly as main wires it over the sheets store.
func newMemoryBackedRouter() (*gin.Engine, *store.MemoryStore) {
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	st.Seed("CLIENTES", [][]string{integrationCustomersHeader})
	st.Seed("PULSERAS", [][]string{integrationOrdersHeader})

	cfg := &config.Config{
		StoreBackend:   config.BackendSheet,
		CustomersSheet: "CLIENTES",
		OrdersSheet:    "PULSERAS",
	}

	images := services.NewImageService(services.NewMockS3Service(), "uploads/pulseras")
	directory := services.NewSheetDirectory(st, cfg.CustomersSheet)
	ledger := services.NewSheetLedger(st, cfg.OrdersSheet, directory, images)

	return setupRouter(cfg, directory, ledger), st
}

func doJSON(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestHealthEndpointIntegration tests the /api/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	router, _ := newMemoryBackedRouter()

	w := doJSON(router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code, "Expected status 200 OK")

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "Response should be valid JSON")
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Pulseras CRM API is running", response["message"])
}

// TestAPIPrefix tests that all routes live under the /api prefix
func TestAPIPrefix(t *testing.T) {
	router, _ := newMemoryBackedRouter()

	w := doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "Endpoint should require /api prefix")

	w = doJSON(router, http.MethodGet, "/customers", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "Endpoint should require /api prefix")

	w = doJSON(router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestCustomerFlowIntegration registers a customer through the router and
// reads it back through the listing endpoint.
func TestCustomerFlowIntegration(t *testing.T) {
	router, st := newMemoryBackedRouter()

	w := doJSON(router, http.MethodPost, "/api/customers", map[string]interface{}{
		"name":       "Ana Perez",
		"phone":      "099111222",
		"email":      "ana@example.com",
		"city":       "Montevideo",
		"department": "Montevideo",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &created)
	assert.NoError(t, err)
	assert.Equal(t, "1", created["id"], "first customer under the header gets id 1")

	// Row landed in the grid.
	assert.Equal(t, 2, st.RowCount("CLIENTES"))

	// And comes back through the listing.
	w = doJSON(router, http.MethodGet, "/api/customers?q=ana", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var listed map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &listed)
	assert.NoError(t, err)
	assert.Equal(t, float64(1), listed["total"])

	data := listed["data"].([]interface{})
	customer := data[0].(map[string]interface{})
	assert.Equal(t, "1", customer["id"])
	assert.Equal(t, "Ana Perez", customer["name"])
	assert.Equal(t, "099111222", customer["phone"])
}

// TestOrderFlowIntegration runs the full customer-then-order flow through the
// router and checks the written ledger row.
func TestOrderFlowIntegration(t *testing.T) {
	router, st := newMemoryBackedRouter()

	w := doJSON(router, http.MethodPost, "/api/customers", map[string]interface{}{
		"name":  "Bruno Diaz",
		"phone": "098333444",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/orders", map[string]interface{}{
		"customer_id": "1",
		"quantity":    3,
		"unit_price":  "200",
		"model":       "lisa",
		"color":       "azul",
		"deposit":     "100",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &created)
	assert.NoError(t, err)

	data := created["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["row"])
	assert.Equal(t, "Bruno Diaz", data["customer_name"])
	assert.Equal(t, "600", data["total"])
	assert.Equal(t, "500", data["balance"])

	// The grid holds the denormalized customer data and the live balance formula.
	assert.Equal(t, "Bruno Diaz", st.Cell("PULSERAS", 2, 3))
	assert.Equal(t, "098333444", st.Cell("PULSERAS", 2, 4))
	assert.Equal(t, "600", st.Cell("PULSERAS", 2, 12))
	assert.Equal(t, "=L2-M2", st.Cell("PULSERAS", 2, 14))

	// And the listing endpoint serves it back.
	w = doJSON(router, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var listed map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &listed)
	assert.NoError(t, err)
	assert.Equal(t, float64(1), listed["total"])

	rows := listed["data"].([]interface{})
	first := rows[0].(map[string]interface{})
	assert.Equal(t, float64(2), first["id"])
	assert.Equal(t, "Bruno Diaz", first["customer_name"])
	assert.Equal(t, "lisa", first["model"])
}

// TestOrderForMissingCustomerIntegration verifies the 404 flow end to end.
func TestOrderForMissingCustomerIntegration(t *testing.T) {
	router, st := newMemoryBackedRouter()

	w := doJSON(router, http.MethodPost, "/api/orders", map[string]interface{}{
		"customer_id": "42",
		"quantity":    1,
		"unit_price":  "100",
		"model":       "lisa",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.False(t, response["success"].(bool))

	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "CUSTOMER_NOT_FOUND", errorData["code"])

	// No ledger row was written.
	assert.Equal(t, 1, st.RowCount("PULSERAS"))
}

// TestEndpointMethods tests that unsupported methods are rejected
func TestEndpointMethods(t *testing.T) {
	router, _ := newMemoryBackedRouter()

	w := doJSON(router, http.MethodPut, "/api/customers", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "PUT should not be allowed")

	w = doJSON(router, http.MethodDelete, "/api/orders", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "DELETE should not be allowed")
}
