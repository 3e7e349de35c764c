package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"shopez/internal/mockbackend"
	"shopez/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func registration() models.Registration {
	return models.Registration{
		Email:        "ada@example.com",
		Password:     "Abcdef1!",
		CustomerName: "Ada",
		PhoneNo:      "5125550100",
		Street:       "123 Main St",
		City:         "Austin",
		State:        "TX",
		Zipcode:      "78701",
		Country:      "United States",
	}
}

func newBackend(t *testing.T) (*mockbackend.Server, *Client) {
	t.Helper()
	backend := mockbackend.NewServer(mockbackend.Config{OTP: "123456"}, zaptest.NewLogger(t))
	ts := httptest.NewServer(backend.Router())
	t.Cleanup(ts.Close)
	return backend, NewClient(ts.URL+"/", 5*time.Second, zaptest.NewLogger(t))
}

func TestClientAgainstBackend(t *testing.T) {
	backend, client := newBackend(t)
	ctx := context.Background()

	status, err := client.Register(ctx, registration())
	require.NoError(t, err)
	assert.True(t, status.Success)

	login, err := client.Login(ctx, "ada@example.com", "Abcdef1!")
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "ada@example.com", login.User.Email)

	_, err = client.VerifyOTP(ctx, "ada@example.com", "000000")
	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, http.StatusUnauthorized, rf.StatusCode)
	assert.Equal(t, "Invalid OTP", rf.Message)
	assert.False(t, rf.Transport())

	verified, err := client.VerifyOTP(ctx, "ada@example.com", "123456")
	require.NoError(t, err)
	assert.True(t, verified.Success)

	draft := models.NewOrderDraft(login.User.ID, 4242, decimal.RequireFromString("1099.98"), "1234567890123456")
	placed, err := client.CreateOrder(ctx, draft, login.Token)
	require.NoError(t, err)
	assert.True(t, placed.Success)

	orders := backend.Orders()
	require.Len(t, orders, 1)
	assert.InDelta(t, 1099.98, orders[0].Amount, 1e-9)
	assert.InDelta(t, 87.9984, orders[0].AmountTax, 1e-9)
	assert.Equal(t, 4242, orders[0].TrackingID)
}

func TestLoginFailureCarriesServerMessage(t *testing.T) {
	_, client := newBackend(t)

	_, err := client.Login(context.Background(), "nobody@example.com", "Abcdef1!")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRequestFailed))
	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, "Invalid email or password", rf.Message)
	assert.Equal(t, "login", rf.Op)
}

func TestCreateOrderWithoutTokenFails(t *testing.T) {
	_, client := newBackend(t)
	draft := models.NewOrderDraft(1, 1, decimal.NewFromInt(10), "1234567890123456")

	_, err := client.CreateOrder(context.Background(), draft, "")

	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, http.StatusUnauthorized, rf.StatusCode)
}

func TestFallbackMessageWhenBodyHasNone(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer ts.Close()
	client := NewClient(ts.URL, time.Second, nil)

	_, err := client.Register(context.Background(), registration())

	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, http.StatusInternalServerError, rf.StatusCode)
	assert.Equal(t, "Registration failed", rf.Message)
}

func TestUndecodableSuccessBodyIsTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer ts.Close()
	client := NewClient(ts.URL, time.Second, nil)

	_, err := client.VerifyOTP(context.Background(), "a@b.c", "1")

	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.True(t, rf.Transport())
}

func TestUnreachableServer(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()
	client := NewClient(url, time.Second, nil)

	_, err := client.Login(context.Background(), "a@b.c", "x")

	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.True(t, rf.Transport())
	assert.Equal(t, "Login failed", rf.Message)
}

func TestCreateOrderWireFormat(t *testing.T) {
	var got map[string]any
	var auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"success":false,"message":"card declined"}`))
	}))
	defer ts.Close()
	client := NewClient(ts.URL, time.Second, nil)

	draft := models.NewOrderDraft(123, 9, decimal.RequireFromString("99.99"), "1234567890123456")
	resp, err := client.CreateOrder(context.Background(), draft, "tok")

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "card declined", resp.Message)
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, float64(123), got["userId"])
	assert.Equal(t, float64(9), got["trackingId"])
	assert.Equal(t, 99.99, got["amount"])
	assert.Equal(t, "1234567890123456", got["creditCard"])
}
