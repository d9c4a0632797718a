package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rniedson/brbandeiras-api/services"
)

// GetOrderHistory handles GET /api/v1/pedidos/:id/historico - the order
// timeline, replayed from the append-only production history in ascending
// timestamp order
func GetOrderHistory(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}

	orderID, ok := orderIDParam(c, "id")
	if !ok {
		return
	}

	events, err := services.ListHistory(orderID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    events,
	})
}
