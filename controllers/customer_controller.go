package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/martin-sellanes/pulseras-crm-api/services"
)

// CustomerController serves the customer directory endpoints.
type CustomerController struct {
	Directory services.CustomerDirectory
}

// CreateCustomerRequest represents the request body for registering a customer
type CreateCustomerRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Address    string `json:"address" binding:"omitempty"`
	City       string `json:"city" binding:"omitempty"`
	Department string `json:"department" binding:"omitempty"`
	Email      string `json:"email" binding:"omitempty,email"`
	TaxID      string `json:"tax_id" binding:"omitempty"`
	Company    string `json:"company" binding:"omitempty"`
}

// List handles GET /api/customers?q=&id=&page=&limit= - paginated customer
// lookup. An exact id match takes precedence over the substring query.
func (ctl *CustomerController) List(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}

	filter := services.CustomerFilter{
		ID:    c.Query("id"),
		Query: c.Query("q"),
	}

	result, err := ctl.Directory.List(c.Request.Context(), filter, page)
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

// Create handles POST /api/customers - registers a new customer
func (ctl *CustomerController) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	id, err := ctl.Directory.Create(c.Request.Context(), services.CustomerInput{
		Name:       req.Name,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		Department: req.Department,
		Email:      req.Email,
		TaxID:      req.TaxID,
		Company:    req.Company,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      id,
		"message": "Customer added successfully",
	})
}

// pageParams parses page/limit query parameters. Absent parameters fall back
// to the service defaults; malformed or sub-minimum values are rejected.
func pageParams(c *gin.Context) (services.PageParams, bool) {
	var page services.PageParams

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "page must be an integer >= 1")
			return page, false
		}
		page.Page = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be an integer >= 1")
			return page, false
		}
		page.Limit = n
	}
	return page, true
}
