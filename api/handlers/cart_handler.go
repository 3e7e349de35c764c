package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopez/internal/models"
)

type CartHandler struct{}

func NewCartHandler() *CartHandler {
	return &CartHandler{}
}

// POST /api/cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	ctrl := currentController(c)

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, ctrl, err)
		return
	}
	respond(c, ctrl, ctrl.AddToCart(req.ProductID))
}

// DELETE /api/cart/items/:product_id
// Removes one unit of the product.
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	ctrl := currentController(c)

	productID, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID", "data": ctrl.View()})
		return
	}
	respond(c, ctrl, ctrl.RemoveFromCart(productID))
}
