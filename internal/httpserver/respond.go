package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"marketcore/internal/domain"
)

// respondError maps the domain error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	if oos, ok := domain.AsOutOfStock(err); ok {
		c.JSON(http.StatusConflict, gin.H{
			"error":       "out of stock",
			"productName": oos.ProductName,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid order transition"})
	case errors.Is(err, domain.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"error": "order is already paid for"})
	case errors.Is(err, domain.ErrVerificationFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "verification failed"})
	case errors.Is(err, domain.ErrOrderMappingMissing):
		c.JSON(http.StatusBadRequest, gin.H{"error": "order mapping missing"})
	case errors.Is(err, domain.ErrProviderUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
