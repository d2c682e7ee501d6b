package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/martin-sellanes/pulseras-crm-api/services"
	"github.com/martin-sellanes/pulseras-crm-api/store"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCustomerNotFound):
		respondError(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", err.Error())
	case errors.Is(err, services.ErrInvalidOrder):
		respondError(c, http.StatusBadRequest, "INVALID_ORDER", err.Error())
	case errors.Is(err, services.ErrInvalidImagePayload):
		respondError(c, http.StatusBadRequest, "INVALID_IMAGE_PAYLOAD", err.Error())
	case errors.Is(err, store.ErrUnavailable):
		respondError(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", err.Error())
	case errors.Is(err, store.ErrFormat):
		respondError(c, http.StatusInternalServerError, "STORE_FORMAT_ERROR", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
