// Package apiclient calls the remote auth, OTP and order endpoints.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"shopez/internal/models"
)

const (
	pathLogin       = "/auth/login"
	pathRegister    = "/auth/register"
	pathVerifyOTP   = "/auth/verify-otp"
	pathCreateOrder = "/api/transactions/create-order"
)

// LoginResponse is the /auth/login success body.
type LoginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    int    `json:"id,omitempty"`
		Email string `json:"email"`
	} `json:"user"`
}

// StatusResponse is the {success, message} body shared by register,
// verify-otp and create-order.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorBody struct {
	Message string `json:"message"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// createOrderRequest carries amounts as JSON numbers.
type createOrderRequest struct {
	UserID     int         `json:"userId"`
	TrackingID int         `json:"trackingId"`
	Amount     json.Number `json:"amount"`
	AmountTax  json.Number `json:"amountTax"`
	CreditCard string      `json:"creditCard"`
}

// Client talks to the storefront's remote server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for baseURL, e.g. http://localhost:8080.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	body := models.LoginForm{Email: email, Password: password}
	if err := c.post(ctx, "login", pathLogin, "", body, &out, "Login failed"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, reg models.Registration) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.post(ctx, "register", pathRegister, "", reg, &out, "Registration failed"); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTP returns the server's verdict. A 2xx answer with success=false
// is not an error; an error status without a message reads "Invalid OTP".
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*StatusResponse, error) {
	var out StatusResponse
	body := verifyOTPRequest{Email: email, OTP: otp}
	if err := c.post(ctx, "verify otp", pathVerifyOTP, "", body, &out, "Invalid OTP"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, draft models.OrderDraft, token string) (*StatusResponse, error) {
	var out StatusResponse
	body := createOrderRequest{
		UserID:     draft.UserID,
		TrackingID: draft.TrackingID,
		Amount:     json.Number(draft.Amount.String()),
		AmountTax:  json.Number(draft.AmountTax.String()),
		CreditCard: draft.CreditCard,
	}
	if err := c.post(ctx, "create order", pathCreateOrder, token, body, &out, "Order creation failed"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, op, path, token string, in, out any, fallback string) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return &RequestFailedError{Op: op, Message: fallback, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &RequestFailedError{Op: op, Message: fallback, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Request failed", zap.String("op", op), zap.String("path", path), zap.Error(err))
		return &RequestFailedError{Op: op, Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestFailedError{Op: op, Message: fallback, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fallback
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Message != "" {
			msg = eb.Message
		}
		c.logger.Warn("Server rejected request",
			zap.String("op", op),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return &RequestFailedError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    msg,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Warn("Undecodable response", zap.String("op", op), zap.String("path", path), zap.Error(err))
		return &RequestFailedError{Op: op, Message: fallback, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
