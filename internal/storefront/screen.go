package storefront

import "shopez/internal/models"

// Screen names the mutually exclusive top-level views.
type Screen int

const (
	ScreenLoggedOut Screen = iota
	ScreenOtpPending
	ScreenShopping
	ScreenCheckout
	ScreenOrderComplete
)

func (s Screen) String() string {
	switch s {
	case ScreenLoggedOut:
		return "logged_out"
	case ScreenOtpPending:
		return "otp_pending"
	case ScreenShopping:
		return "shopping"
	case ScreenCheckout:
		return "checkout"
	case ScreenOrderComplete:
		return "order_complete"
	default:
		return "unknown"
	}
}

func (s Screen) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// AuthMode is the login/create-account toggle on the logged-out screen.
type AuthMode int

const (
	ModeLogin AuthMode = iota
	ModeCreateAccount
)

func (m AuthMode) String() string {
	if m == ModeCreateAccount {
		return "create_account"
	}
	return "login"
}

func (m AuthMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// State is one of LoggedOut, OtpPending, Shopping, Checkout or OrderComplete.
type State interface {
	Screen() Screen
}

type LoggedOut struct {
	Mode AuthMode
}

type OtpPending struct {
	Email string
}

type Shopping struct{}

type Checkout struct{}

type OrderComplete struct {
	Receipt models.Receipt
}

func (LoggedOut) Screen() Screen     { return ScreenLoggedOut }
func (OtpPending) Screen() Screen    { return ScreenOtpPending }
func (Shopping) Screen() Screen      { return ScreenShopping }
func (Checkout) Screen() Screen      { return ScreenCheckout }
func (OrderComplete) Screen() Screen { return ScreenOrderComplete }

// Authenticated reports whether s is behind both login and OTP verification.
func Authenticated(s State) bool {
	switch s.(type) {
	case Shopping, Checkout, OrderComplete:
		return true
	default:
		return false
	}
}

// Event is anything that can move the controller between screens.
type Event interface {
	Name() string
}

type ModeToggled struct{}

type LoginSucceeded struct {
	Email string
}

type OtpAccepted struct{}

type CheckoutRequested struct{}

type CheckoutCancelled struct{}

type OrderAccepted struct {
	Receipt models.Receipt
}

type ShopReturned struct{}

// EndReason says why a session ended.
type EndReason string

const (
	ReasonExpired EndReason = "expired"
	ReasonLogout  EndReason = "logout"
)

type SessionEnded struct {
	Reason EndReason
}

// RequestFailed keeps the current screen and hands Err back to the caller.
type RequestFailed struct {
	Err error
}

func (ModeToggled) Name() string       { return "mode toggled" }
func (LoginSucceeded) Name() string    { return "login succeeded" }
func (OtpAccepted) Name() string       { return "otp accepted" }
func (CheckoutRequested) Name() string { return "checkout requested" }
func (CheckoutCancelled) Name() string { return "checkout cancelled" }
func (OrderAccepted) Name() string     { return "order accepted" }
func (ShopReturned) Name() string      { return "shop returned" }
func (SessionEnded) Name() string      { return "session ended" }
func (RequestFailed) Name() string     { return "request failed" }

// Transition is the only way screens change. Pairs not listed here return a
// *TransitionError and the unchanged state.
func Transition(s State, ev Event) (State, error) {
	switch cur := s.(type) {
	case LoggedOut:
		switch e := ev.(type) {
		case ModeToggled:
			if cur.Mode == ModeLogin {
				return LoggedOut{Mode: ModeCreateAccount}, nil
			}
			return LoggedOut{Mode: ModeLogin}, nil
		case LoginSucceeded:
			return OtpPending{Email: e.Email}, nil
		case RequestFailed:
			return cur, e.Err
		}

	case OtpPending:
		switch e := ev.(type) {
		case OtpAccepted:
			return Shopping{}, nil
		case SessionEnded:
			return LoggedOut{Mode: ModeLogin}, nil
		case RequestFailed:
			return cur, e.Err
		}

	case Shopping:
		switch ev.(type) {
		case CheckoutRequested:
			return Checkout{}, nil
		case SessionEnded:
			return LoggedOut{Mode: ModeLogin}, nil
		}

	case Checkout:
		switch e := ev.(type) {
		case CheckoutCancelled:
			return Shopping{}, nil
		case OrderAccepted:
			return OrderComplete{Receipt: e.Receipt}, nil
		case SessionEnded:
			return LoggedOut{Mode: ModeLogin}, nil
		case RequestFailed:
			return cur, e.Err
		}

	case OrderComplete:
		switch ev.(type) {
		case ShopReturned:
			return Shopping{}, nil
		case SessionEnded:
			return LoggedOut{Mode: ModeLogin}, nil
		}
	}

	return s, &TransitionError{From: s.Screen(), Event: ev.Name()}
}
