// Package mockbackend is a development stand-in for the remote auth, OTP and
// order server the storefront talks to.
package mockbackend

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shopez/internal/models"
)

type user struct {
	ID           int
	Email        string
	PasswordHash []byte
	Profile      models.Registration
	Verified     bool
}

// Order is a create-order request as the backend received it.
type Order struct {
	ID         string  `json:"id"`
	UserID     int     `json:"userId"`
	TrackingID int     `json:"trackingId"`
	Amount     float64 `json:"amount"`
	AmountTax  float64 `json:"amountTax"`
	CreditCard string  `json:"creditCard"`
	Email      string  `json:"-"`
}

type Config struct {
	OTP       string
	JWTSecret []byte
	TokenTTL  time.Duration
}

type Server struct {
	cfg    Config
	logger *zap.Logger

	mu     sync.RWMutex
	users  map[string]*user // email -> user
	nextID int
	orders []Order
}

func NewServer(cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.OTP == "" {
		cfg.OTP = "123456"
	}
	if len(cfg.JWTSecret) == 0 {
		cfg.JWTSecret = []byte(uuid.NewString())
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		users:  make(map[string]*user),
		nextID: 1,
	}
}

// Router returns the gin engine serving the four remote endpoints.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	auth := router.Group("/auth")
	{
		auth.POST("/login", s.login)
		auth.POST("/register", s.register)
		auth.POST("/verify-otp", s.verifyOTP)
	}
	router.POST("/api/transactions/create-order", s.createOrder)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

// AddUser registers an account directly, bypassing the HTTP surface.
func (s *Server) AddUser(reg models.Registration) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(reg.Email)
	if _, exists := s.users[key]; exists {
		return errors.New("email already registered")
	}
	s.users[key] = &user{
		ID:           s.nextID,
		Email:        reg.Email,
		PasswordHash: hash,
		Profile:      reg,
	}
	s.nextID++
	return nil
}

// Orders returns a copy of every order accepted so far.
func (s *Server) Orders() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// POST /auth/register
func (s *Server) register(c *gin.Context) {
	var req models.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := s.AddUser(req); err != nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email already registered"})
		return
	}

	s.logger.Info("User registered", zap.String("email", req.Email))
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User registered successfully"})
}

// POST /auth/login
func (s *Server) login(c *gin.Context) {
	var req models.LoginForm
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s.mu.RLock()
	u, exists := s.users[strings.ToLower(req.Email)]
	s.mu.RUnlock()

	if !exists || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	token, err := s.issueToken(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"id": u.ID, "email": u.Email},
	})
}

// POST /auth/verify-otp
func (s *Server) verifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	s.mu.Lock()
	u, exists := s.users[strings.ToLower(req.Email)]
	if exists && req.OTP == s.cfg.OTP {
		u.Verified = true
	}
	s.mu.Unlock()

	if !exists || req.OTP != s.cfg.OTP {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid OTP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User verified successfully"})
}

// POST /api/transactions/create-order
func (s *Server) createOrder(c *gin.Context) {
	email, err := s.authenticate(c.GetHeader("Authorization"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var order Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if order.Amount <= 0 || order.CreditCard == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order"})
		return
	}

	order.ID = uuid.NewString()
	order.Email = email

	s.mu.Lock()
	s.orders = append(s.orders, order)
	s.mu.Unlock()

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.Int("tracking_id", order.TrackingID),
		zap.Float64("amount", order.Amount),
	)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order created successfully", "orderId": order.ID})
}

func (s *Server) issueToken(u *user) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   u.Email,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.JWTSecret)
}

// authenticate validates a "Bearer <jwt>" header and returns the subject.
func (s *Server) authenticate(header string) (string, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", errors.New("missing bearer token")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return s.cfg.JWTSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
