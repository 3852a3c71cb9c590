package handler

import (
	"lnurl-offlineshop/internal/adapter/http/middleware"
	"lnurl-offlineshop/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	ShopSvc         ports.ShopService
	LnurlSvc        ports.LnurlService
	ConfirmationSvc ports.ConfirmationService
	WalletSvc       ports.WalletService
	HealthCheckers  []ports.HealthChecker
	Logger          zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB, bounds embedded item images

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	shop := r.Group("/offlineshop")

	// --- Public routes: LNURL-pay exchange + confirmation page ---
	lnurlHandler := NewLnurlHandler(deps.LnurlSvc, deps.Logger)
	confirmationHandler := NewConfirmationHandler(deps.ConfirmationSvc, deps.Logger)
	{
		shop.GET("/lnurl/:item_id", lnurlHandler.PayRequest)
		shop.GET("/lnurl/cb/:item_id", lnurlHandler.Callback)
		shop.GET("/confirmation/:payment_hash", confirmationHandler.Confirm)
	}

	// --- Administrative API (API-key authenticated) ---
	shopHandler := NewShopHandler(deps.ShopSvc, deps.LnurlSvc, deps.Logger)
	invoiceAuth := middleware.APIKeyAuth(deps.WalletSvc, false, deps.Logger)
	adminAuth := middleware.APIKeyAuth(deps.WalletSvc, true, deps.Logger)

	api := shop.Group("/api/v1")
	{
		api.GET("/shop", invoiceAuth, shopHandler.GetShop)
		api.POST("/items", adminAuth, shopHandler.CreateItem)
		api.PUT("/items/:item_id", adminAuth, shopHandler.UpdateItem)
		api.DELETE("/items/:item_id", adminAuth, shopHandler.DeleteItem)
		api.PUT("/method", adminAuth, shopHandler.UpdateMethod)
	}

	return r
}
