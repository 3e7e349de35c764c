package models

import "github.com/shopspring/decimal"

// TaxRate is applied to the cart total when an order is drafted.
var TaxRate = decimal.RequireFromString("0.08")

// OrderDraft is assembled at checkout and sent once to the order endpoint.
type OrderDraft struct {
	UserID     int             `json:"userId"`
	TrackingID int             `json:"trackingId"`
	Amount     decimal.Decimal `json:"amount"`
	AmountTax  decimal.Decimal `json:"amountTax"`
	CreditCard string          `json:"creditCard"`
}

// Receipt is what the order summary screen shows after a successful order.
type Receipt struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Address    string          `json:"address"`
	Items      []Product       `json:"items"`
	Total      decimal.Decimal `json:"total"`
	Tax        decimal.Decimal `json:"tax"`
	TrackingID int             `json:"tracking_id"`
}

func NewOrderDraft(userID, trackingID int, amount decimal.Decimal, creditCard string) OrderDraft {
	return OrderDraft{
		UserID:     userID,
		TrackingID: trackingID,
		Amount:     amount,
		AmountTax:  amount.Mul(TaxRate),
		CreditCard: creditCard,
	}
}
