package storefront

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid screen transition")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrUnknownProduct    = errors.New("product not found")
	ErrNotInCart         = errors.New("product not in cart")
	ErrSessionNotFound   = errors.New("session not found")
)

// Messages shown to the user.
const (
	MsgInvalidOTP     = "Invalid OTP"
	MsgServerError    = "Server error"
	MsgSessionExpired = "Session expired, please log in again"
	MsgAccountCreated = "Account created, please log in"
	MsgOrderFailed    = "Order could not be placed"
	MsgOrderPlaced    = "Thank you for your order! We'll send a confirmation email shortly."
)

// TransitionError is returned when an action is not available on the
// current screen.
type TransitionError struct {
	From  Screen
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s not allowed on %s screen", e.Event, e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
