package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/martin-sellanes/pulseras-crm-api/services"
)

// OrderController serves the order ledger endpoints.
type OrderController struct {
	Ledger services.OrderLedger
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	CustomerID    string          `json:"customer_id" binding:"required"`
	Quantity      int             `json:"quantity" binding:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Model         string          `json:"model" binding:"required"`
	Color         string          `json:"color" binding:"omitempty"`
	Notes         string          `json:"notes" binding:"omitempty"`
	CameViaSocial bool            `json:"came_via_social"`
	Deposit       decimal.Decimal `json:"deposit"`
	ImagePayload  string          `json:"image_payload" binding:"omitempty"`
}

// Create handles POST /api/orders - records a new order in the ledger
func (ctl *OrderController) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	order, err := ctl.Ledger.Create(c.Request.Context(), services.OrderInput{
		CustomerID:    req.CustomerID,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		Model:         req.Model,
		Color:         req.Color,
		Notes:         req.Notes,
		CameViaSocial: req.CameViaSocial,
		Deposit:       req.Deposit,
		ImagePayload:  req.ImagePayload,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order saved successfully",
		"data":    order,
	})
}

// List handles GET /api/orders?page=&limit= - paginated ledger rows with
// denormalized customer name/phone.
func (ctl *OrderController) List(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}

	result, err := ctl.Ledger.List(c.Request.Context(), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Data,
		"total":   result.Total,
		"page":    result.Page,
		"limit":   result.Limit,
	})
}
