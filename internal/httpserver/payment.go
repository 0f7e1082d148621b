package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type paymentCallbackRequest struct {
	ProviderOrderRef   string `json:"providerOrderRef" binding:"required"`
	ProviderPaymentRef string `json:"providerPaymentRef" binding:"required"`
	Signature          string `json:"signature" binding:"required"`
}

func createIntentHandler(svc paymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		intent, err := svc.CreateIntent(c.Request.Context(), c.Param("orderID"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, intent)
	}
}

func paymentCallbackHandler(svc paymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentCallbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		orderID, err := svc.ReconcileCallback(c.Request.Context(), req.ProviderOrderRef, req.ProviderPaymentRef, req.Signature)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orderId": orderID})
	}
}
