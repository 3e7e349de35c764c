package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopez/internal/apiclient"
	"shopez/internal/storefront"
	"shopez/internal/validation"
)

const (
	SessionCookie = "shopez_sid"
	controllerKey = "storefront_controller"
)

// cookieMaxAge is long enough to outlive any idle browser session.
const cookieMaxAge = 24 * 60 * 60

// SessionMiddleware attaches the browser session's controller to the
// request, creating a session when the cookie is missing or stale.
func SessionMiddleware(registry *storefront.Registry, secure bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, _ := c.Cookie(SessionCookie)

		sid, ctrl, created := registry.GetOrCreate(sid)
		if created {
			logger.Debug("Browser session created", zap.String("session_id", sid))
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sid, cookieMaxAge, "/", "", secure, true)

		c.Set(controllerKey, ctrl)
		c.Next()
	}
}

func currentController(c *gin.Context) *storefront.Controller {
	return c.MustGet(controllerKey).(*storefront.Controller)
}

// respond writes the controller's view, with err mapped to a status code.
func respond(c *gin.Context, ctrl *storefront.Controller, err error) {
	view := ctrl.View()
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"data": view})
		return
	}

	msg := view.Error
	if msg == "" {
		msg = err.Error()
	}
	c.JSON(statusFor(err), gin.H{
		"error": msg,
		"data":  view,
	})
}

// badRequest answers a body that failed to bind.
func badRequest(c *gin.Context, ctrl *storefront.Controller, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": err.Error(),
		"data":  ctrl.View(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apiclient.ErrRequestFailed):
		return http.StatusBadGateway
	case errors.Is(err, storefront.ErrInvalidTransition), errors.Is(err, storefront.ErrCartEmpty):
		return http.StatusConflict
	case errors.Is(err, storefront.ErrUnknownProduct), errors.Is(err, storefront.ErrNotInCart):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
