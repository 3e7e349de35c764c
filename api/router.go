package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"shopez/api/handlers"
	"shopez/api/middleware"
	"shopez/internal/config"
	"shopez/internal/services"
	"shopez/internal/storefront"
)

// authBurst is how many auth requests one IP may fire back to back.
const authBurst = 5

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, registry *storefront.Registry, catalog *services.ProductService, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	productHandler := handlers.NewProductHandler(catalog)
	authHandler := handlers.NewAuthHandler()
	cartHandler := handlers.NewCartHandler()
	orderHandler := handlers.NewOrderHandler(registry)

	limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRatePerMinute, authBurst)

	api := router.Group("/api")
	{
		api.GET("/health", productHandler.HealthCheck)

		products := api.Group("/products")
		{
			products.GET("", productHandler.GetAllProducts)
			products.GET("/:id", productHandler.GetProductByID)
		}

		api.GET("/orders/stats", orderHandler.GetStats)

		// Routes below act on the caller's browser session
		sessionRoutes := api.Group("")
		sessionRoutes.Use(handlers.SessionMiddleware(registry, cfg.IsProduction(), logger))
		{
			sessionRoutes.GET("/screen", authHandler.Screen)

			auth := sessionRoutes.Group("/auth")
			auth.Use(limiter.Limit(logger))
			{
				auth.POST("/mode", authHandler.ToggleMode)
				auth.POST("/login", authHandler.Login)
				auth.POST("/register", authHandler.Register)
				auth.POST("/verify-otp", authHandler.VerifyOTP)
				auth.POST("/logout", authHandler.Logout)
			}

			cart := sessionRoutes.Group("/cart")
			{
				cart.POST("/items", cartHandler.AddToCart)
				cart.DELETE("/items/:product_id", cartHandler.RemoveFromCart)
			}

			sessionRoutes.POST("/checkout", orderHandler.StartCheckout)
			sessionRoutes.DELETE("/checkout", orderHandler.CancelCheckout)

			orders := sessionRoutes.Group("/orders")
			{
				orders.POST("", orderHandler.PlaceOrder)
				orders.POST("/return", orderHandler.ReturnToShop)
			}
		}
	}

	// Debug endpoints in development
	if gin.Mode() != gin.ReleaseMode {
		router.GET("/debug/metrics", productHandler.Metrics)
	}

	return router
}

// WithCORS lets the browser renderer on origins call the API with its
// session cookie.
func WithCORS(h http.Handler, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(h)
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
