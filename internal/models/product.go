package models

import "github.com/shopspring/decimal"

// Product is an immutable catalog entry.
type Product struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}
