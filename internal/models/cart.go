package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Cart is an ordered list of products. Adding the same product twice keeps
// two entries; there is no quantity field.
type Cart struct {
	Items []Product `json:"items"`
}

type CartView struct {
	Items      []Product       `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// MarshalJSON renders the total as a fixed two-decimal string, so an empty
// cart reads "0.00".
func (v CartView) MarshalJSON() ([]byte, error) {
	type view CartView
	return json.Marshal(struct {
		view
		TotalPrice string `json:"total_price"`
	}{view(v), v.TotalPrice.StringFixed(2)})
}

type AddToCartRequest struct {
	ProductID int `json:"product_id" binding:"required"`
}

func (c *Cart) Add(p Product) {
	c.Items = append(c.Items, p)
}

// Remove drops the first entry with the given product id and reports whether
// one was found.
func (c *Cart) Remove(productID int) bool {
	for i, item := range c.Items {
		if item.ID == productID {
			c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) TotalItems() int {
	return len(c.Items)
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price)
	}
	return total
}

// Snapshot returns a copy of the lines and totals that is safe to hand out.
func (c *Cart) Snapshot() CartView {
	items := make([]Product, len(c.Items))
	copy(items, c.Items)
	return CartView{
		Items:      items,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}
