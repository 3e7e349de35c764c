package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopez/internal/models"
	"shopez/internal/storefront"
)

type OrderHandler struct {
	registry *storefront.Registry
}

func NewOrderHandler(registry *storefront.Registry) *OrderHandler {
	return &OrderHandler{
		registry: registry,
	}
}

// POST /api/checkout
func (h *OrderHandler) StartCheckout(c *gin.Context) {
	ctrl := currentController(c)
	respond(c, ctrl, ctrl.StartCheckout())
}

// DELETE /api/checkout
func (h *OrderHandler) CancelCheckout(c *gin.Context) {
	ctrl := currentController(c)
	respond(c, ctrl, ctrl.CancelCheckout())
}

// POST /api/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	ctrl := currentController(c)

	var req models.CheckoutForm
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, ctrl, err)
		return
	}
	respond(c, ctrl, ctrl.PlaceOrder(c.Request.Context(), req))
}

// POST /api/orders/return
func (h *OrderHandler) ReturnToShop(c *gin.Context) {
	ctrl := currentController(c)
	respond(c, ctrl, ctrl.ReturnToShop())
}

// GET /api/orders/stats
func (h *OrderHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stats": h.registry.GetStats(),
	})
}
