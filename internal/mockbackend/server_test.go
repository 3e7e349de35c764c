package mockbackend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopez/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRegistration() models.Registration {
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

func do(t *testing.T, router http.Handler, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginOrderFlow(t *testing.T) {
	srv := NewServer(Config{OTP: "654321", JWTSecret: []byte("test-secret")}, nil)
	router := srv.Router()

	w := do(t, router, "/auth/register", "", testRegistration())
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, router, "/auth/register", "", testRegistration())
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, router, "/auth/login", "", gin.H{"email": "ada@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, "/auth/login", "", gin.H{"email": "ada@example.com", "password": "Abcdef1!"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
		User  struct {
			ID    int    `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, 1, login.User.ID)

	w = do(t, router, "/auth/verify-otp", "", gin.H{"email": "ada@example.com", "otp": "000000"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid OTP"}`, w.Body.String())

	w = do(t, router, "/auth/verify-otp", "", gin.H{"email": "ada@example.com", "otp": "654321"})
	assert.Equal(t, http.StatusOK, w.Code)

	order := gin.H{"userId": 1, "trackingId": 77, "amount": 1099.98, "amountTax": 87.9984, "creditCard": "1234567890123456"}
	w = do(t, router, "/api/transactions/create-order", "", order)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, "/api/transactions/create-order", "not-a-jwt", order)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, "/api/transactions/create-order", login.Token, order)
	require.Equal(t, http.StatusOK, w.Code)

	orders := srv.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, 77, orders[0].TrackingID)
	assert.Equal(t, "ada@example.com", orders[0].Email)
}

func TestCreateOrderRejectsEmptyAmount(t *testing.T) {
	srv := NewServer(Config{}, nil)
	require.NoError(t, srv.AddUser(testRegistration()))
	router := srv.Router()

	w := do(t, router, "/auth/login", "", gin.H{"email": "ada@example.com", "password": "Abcdef1!"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = do(t, router, "/api/transactions/create-order", login.Token, gin.H{"amount": 0, "creditCard": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, srv.Orders())
}
