package storefront

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopez/internal/models"
)

func TestTransitionAllowed(t *testing.T) {
	receipt := models.Receipt{TrackingID: 42}

	tests := []struct {
		name string
		from State
		ev   Event
		want State
	}{
		{"toggle to create account", LoggedOut{Mode: ModeLogin}, ModeToggled{}, LoggedOut{Mode: ModeCreateAccount}},
		{"toggle back to login", LoggedOut{Mode: ModeCreateAccount}, ModeToggled{}, LoggedOut{Mode: ModeLogin}},
		{"login", LoggedOut{}, LoginSucceeded{Email: "a@b.com"}, OtpPending{Email: "a@b.com"}},
		{"otp accepted", OtpPending{Email: "a@b.com"}, OtpAccepted{}, Shopping{}},
		{"checkout", Shopping{}, CheckoutRequested{}, Checkout{}},
		{"cancel checkout", Checkout{}, CheckoutCancelled{}, Shopping{}},
		{"order accepted", Checkout{}, OrderAccepted{Receipt: receipt}, OrderComplete{Receipt: receipt}},
		{"return to shop", OrderComplete{Receipt: receipt}, ShopReturned{}, Shopping{}},
		{"expire while pending otp", OtpPending{Email: "a@b.com"}, SessionEnded{Reason: ReasonExpired}, LoggedOut{Mode: ModeLogin}},
		{"expire while shopping", Shopping{}, SessionEnded{Reason: ReasonExpired}, LoggedOut{Mode: ModeLogin}},
		{"logout from checkout", Checkout{}, SessionEnded{Reason: ReasonLogout}, LoggedOut{Mode: ModeLogin}},
		{"expire on summary", OrderComplete{}, SessionEnded{Reason: ReasonExpired}, LoggedOut{Mode: ModeLogin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.ev)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransitionRequestFailedKeepsState(t *testing.T) {
	boom := errors.New("boom")

	for _, s := range []State{LoggedOut{Mode: ModeCreateAccount}, OtpPending{Email: "a@b.com"}, Checkout{}} {
		got, err := Transition(s, RequestFailed{Err: boom})
		assert.Same(t, boom, err)
		assert.Equal(t, s, got)
	}
}

func TestTransitionRejected(t *testing.T) {
	tests := []struct {
		from State
		ev   Event
	}{
		// No way into the shop without OTP verification.
		{LoggedOut{}, OtpAccepted{}},
		{LoggedOut{}, CheckoutRequested{}},
		{LoggedOut{}, ShopReturned{}},
		{OtpPending{}, CheckoutRequested{}},
		{OtpPending{}, ShopReturned{}},
		{OtpPending{}, ModeToggled{}},

		{LoggedOut{}, SessionEnded{Reason: ReasonLogout}},
		{Shopping{}, OtpAccepted{}},
		{Shopping{}, OrderAccepted{}},
		{Shopping{}, RequestFailed{Err: errors.New("x")}},
		{Checkout{}, CheckoutRequested{}},
		{Checkout{}, LoginSucceeded{}},
		{OrderComplete{}, CheckoutCancelled{}},
		{OrderComplete{}, CheckoutRequested{}},
	}

	for _, tt := range tests {
		t.Run(tt.from.Screen().String()+"/"+tt.ev.Name(), func(t *testing.T) {
			got, err := Transition(tt.from, tt.ev)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.from, got)

			var terr *TransitionError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tt.from.Screen(), terr.From)
		})
	}
}

// Walk every event sequence of bounded length from LoggedOut and check that
// Shopping is never entered without passing through OtpPending.
func TestShoppingRequiresOtp(t *testing.T) {
	events := []Event{
		ModeToggled{}, LoginSucceeded{Email: "a@b.com"}, OtpAccepted{},
		CheckoutRequested{}, CheckoutCancelled{}, OrderAccepted{}, ShopReturned{},
		SessionEnded{Reason: ReasonExpired}, RequestFailed{Err: errors.New("x")},
	}

	var walk func(s State, verified bool, depth int)
	walk = func(s State, verified bool, depth int) {
		if Authenticated(s) {
			require.True(t, verified, "reached %s without otp", s.Screen())
		}
		if depth == 0 {
			return
		}
		for _, ev := range events {
			next, err := Transition(s, ev)
			if err != nil {
				continue
			}
			v := verified
			if _, ok := ev.(OtpAccepted); ok {
				v = true
			}
			if next.Screen() == ScreenLoggedOut {
				v = false
			}
			walk(next, v, depth-1)
		}
	}
	walk(LoggedOut{}, false, 6)
}

func TestScreenText(t *testing.T) {
	b, err := ScreenOtpPending.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "otp_pending", string(b))
	assert.Equal(t, "create_account", ModeCreateAccount.String())
}
