package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopez/internal/models"
)

func seeded() *ProductService {
	s := NewProductService()
	s.InitSampleData()
	return s
}

func TestCatalogSeed(t *testing.T) {
	products := seeded().GetAllProducts()

	require.Len(t, products, 3)
	assert.Equal(t, "Laptop", products[0].Name)
	assert.Equal(t, "999.99", products[0].Price.StringFixed(2))
	assert.Equal(t, "Smartphone", products[1].Name)
	assert.Equal(t, "Headphones", products[2].Name)
	assert.Equal(t, "99.99", products[2].Price.StringFixed(2))
}

func TestGetProductByID(t *testing.T) {
	s := seeded()

	p, ok := s.GetProductByID(3)
	require.True(t, ok)
	assert.Equal(t, "Headphones", p.Name)

	_, ok = s.GetProductByID(99)
	assert.False(t, ok)
}

func TestSearchProducts(t *testing.T) {
	s := seeded()

	assert.Len(t, s.SearchProducts(""), 3)

	found := s.SearchProducts("PHONE")
	require.Len(t, found, 2)
	assert.Equal(t, "Smartphone", found[0].Name)
	assert.Equal(t, "Headphones", found[1].Name)

	assert.Empty(t, s.SearchProducts("tablet"))
}

func TestOrderDraftAndReceipt(t *testing.T) {
	catalog := seeded()
	orders := NewOrderService(func() int { return 777 })

	var cart models.Cart
	laptop, _ := catalog.GetProductByID(1)
	headphones, _ := catalog.GetProductByID(3)
	cart.Add(laptop)
	cart.Add(headphones)

	draft := orders.Draft(123, &cart, "1234-5678-9012-3456")

	assert.Equal(t, 123, draft.UserID)
	assert.Equal(t, 777, draft.TrackingID)
	assert.True(t, draft.Amount.Equal(decimal.RequireFromString("1099.98")))
	assert.True(t, draft.AmountTax.Equal(decimal.RequireFromString("87.9984")))
	assert.Equal(t, "1234567890123456", draft.CreditCard)

	form := models.CheckoutForm{Name: "Ada", Email: "ada@example.com", Address: "123 Main St, Austin, TX, USA"}
	receipt := orders.Receipt(form, &cart, draft)
	assert.Equal(t, "Ada", receipt.Name)
	assert.Len(t, receipt.Items, 2)
	assert.Equal(t, 777, receipt.TrackingID)

	cart.Clear()
	assert.Len(t, receipt.Items, 2, "receipt keeps its own copy of the lines")
}

func TestRandomTrackingIDRange(t *testing.T) {
	orders := NewOrderService(nil)
	var cart models.Cart
	for i := 0; i < 100; i++ {
		id := orders.Draft(1, &cart, "").TrackingID
		assert.GreaterOrEqual(t, id, 0)
		assert.Less(t, id, 1_000_000)
	}
}

func TestOrderStats(t *testing.T) {
	orders := NewOrderService(nil)
	orders.RecordResult(true)
	orders.RecordResult(false)
	orders.RecordResult(true)

	assert.Equal(t, map[string]int64{"total_orders": 2, "failed_orders": 1}, orders.GetStats())
}
