package middleware

import (
	"net/http"
	"time"

	"lnurl-offlineshop/internal/core/ports"
	"lnurl-offlineshop/pkg/apperror"
	"lnurl-offlineshop/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	// HeaderAPIKey carries the merchant's wallet API key.
	HeaderAPIKey = "X-Api-Key"

	// Context keys
	CtxWalletID = "wallet_id"
	CtxIsAdmin  = "is_admin"
)

// APIKeyAuth verifies the X-Api-Key header against the external wallet
// service. An invoice key grants read access; requireAdmin additionally
// demands the wallet's admin key.
func APIKeyAuth(walletSvc ports.WalletService, requireAdmin bool, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(HeaderAPIKey)
		if apiKey == "" {
			response.Error(c, apperror.ErrInvalidAPIKey())
			c.Abort()
			return
		}

		key, err := walletSvc.ResolveKey(c.Request.Context(), apiKey)
		if err != nil {
			log.Error().Err(err).Msg("wallet key resolution failed")
			response.Error(c, apperror.ErrUpstream("wallet", err))
			c.Abort()
			return
		}
		if key == nil {
			response.Error(c, apperror.ErrInvalidAPIKey())
			c.Abort()
			return
		}
		if requireAdmin && !key.Admin {
			response.Error(c, apperror.ErrAdminKeyRequired())
			c.Abort()
			return
		}

		c.Set(CtxWalletID, key.WalletID)
		c.Set(CtxIsAdmin, key.Admin)

		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_002",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// MaxBodySize limits request body size (embedded item images are the only
// large payloads this API accepts).
func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
