package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rniedson/brbandeiras-api/services"
)

// UpdateItemsRequest represents the request body for replacing line items
type UpdateItemsRequest struct {
	Itens    []services.ItemInput `json:"itens" binding:"required"`
	Desconto *float64             `json:"desconto"`
}

// TransitionRequest represents the request body for a status change
type TransitionRequest struct {
	Status     string `json:"status" binding:"required"`
	Observacao string `json:"observacao"`
}

// CreateOrder handles POST /api/v1/pedidos - opens a new quote
func CreateOrder(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}

	var req services.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	order, err := services.CreateOrder(actor, req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetOrder handles GET /api/v1/pedidos/:id
func GetOrder(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}

	orderID, ok := orderIDParam(c, "id")
	if !ok {
		return
	}

	order, err := services.GetOrder(orderID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/pedidos
func ListOrders(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}

	orders, err := services.ListOrders(actor)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// UpdateOrderItems handles PUT /api/v1/pedidos/:id/itens - replaces the line
// items and recomputes totals, subject to the editability rules
func UpdateOrderItems(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}

	orderID, ok := orderIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	order, err := services.UpdateItems(orderID, actor, req.Itens, req.Desconto)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// TransitionOrder handles POST /api/v1/pedidos/:id/status - applies a status
// change through the transition engine
func TransitionOrder(c *gin.Context) {
	actor := currentActor(c)
	if actor == nil {
		return
	}

	orderID, ok := orderIDParam(c, "id")
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data: "+err.Error())
		return
	}

	order, err := services.TransitionOrder(orderID, req.Status, actor, req.Observacao)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
