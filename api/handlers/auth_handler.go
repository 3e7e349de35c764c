package handlers

import (
	"github.com/gin-gonic/gin"

	"shopez/internal/models"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// GET /api/screen
func (h *AuthHandler) Screen(c *gin.Context) {
	respond(c, currentController(c), nil)
}

// POST /api/auth/mode
func (h *AuthHandler) ToggleMode(c *gin.Context) {
	ctrl := currentController(c)
	respond(c, ctrl, ctrl.ToggleMode())
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctrl := currentController(c)

	var req models.LoginForm
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, ctrl, err)
		return
	}
	respond(c, ctrl, ctrl.Login(c.Request.Context(), req))
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	ctrl := currentController(c)

	var req models.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, ctrl, err)
		return
	}
	respond(c, ctrl, ctrl.Register(c.Request.Context(), req))
}

// POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	ctrl := currentController(c)

	var req models.OtpForm
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, ctrl, err)
		return
	}
	respond(c, ctrl, ctrl.VerifyOTP(c.Request.Context(), req))
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	ctrl := currentController(c)
	respond(c, ctrl, ctrl.Logout(c.Request.Context()))
}
