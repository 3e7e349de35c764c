package services

import (
	"math/rand/v2"
	"sync"

	"shopez/internal/models"
	"shopez/internal/validation"
)

const maxTrackingID = 1_000_000

// OrderService assembles order drafts at checkout and keeps counters of
// how submissions went.
type OrderService struct {
	newTrackingID func() int

	stats struct {
		sync.RWMutex
		totalOrders  int64
		failedOrders int64
	}
}

// NewOrderService uses trackingID to number orders; nil picks a random
// integer in [0, 1000000). Tracking ids are not guaranteed unique.
func NewOrderService(trackingID func() int) *OrderService {
	if trackingID == nil {
		trackingID = func() int { return rand.IntN(maxTrackingID) }
	}
	return &OrderService{newTrackingID: trackingID}
}

// Draft builds the order for the current cart. The card number is sent as
// its digits only.
func (s *OrderService) Draft(userID int, cart *models.Cart, creditCard string) models.OrderDraft {
	return models.NewOrderDraft(
		userID,
		s.newTrackingID(),
		cart.TotalPrice(),
		validation.NormalizeCard(creditCard),
	)
}

// Receipt is what the summary screen shows for an accepted draft.
func (s *OrderService) Receipt(form models.CheckoutForm, cart *models.Cart, draft models.OrderDraft) models.Receipt {
	view := cart.Snapshot()
	return models.Receipt{
		Name:       form.Name,
		Email:      form.Email,
		Address:    form.Address,
		Items:      view.Items,
		Total:      draft.Amount,
		Tax:        draft.AmountTax,
		TrackingID: draft.TrackingID,
	}
}

func (s *OrderService) RecordResult(ok bool) {
	s.stats.Lock()
	defer s.stats.Unlock()

	if ok {
		s.stats.totalOrders++
	} else {
		s.stats.failedOrders++
	}
}

// Statistics
func (s *OrderService) GetStats() map[string]int64 {
	s.stats.RLock()
	defer s.stats.RUnlock()

	return map[string]int64{
		"total_orders":  s.stats.totalOrders,
		"failed_orders": s.stats.failedOrders,
	}
}
