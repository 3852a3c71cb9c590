package handler

import (
	"errors"
	"net/http"
	"strconv"

	"lnurl-offlineshop/internal/core/ports"
	"lnurl-offlineshop/pkg/apperror"
	"lnurl-offlineshop/pkg/lnurl"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// LnurlHandler serves the two public LNURL-pay endpoints.
type LnurlHandler struct {
	lnurlSvc ports.LnurlService
	log      zerolog.Logger
}

// NewLnurlHandler creates a new LnurlHandler.
func NewLnurlHandler(lnurlSvc ports.LnurlService, log zerolog.Logger) *LnurlHandler {
	return &LnurlHandler{lnurlSvc: lnurlSvc, log: log}
}

// PayRequest handles GET /offlineshop/lnurl/:item_id.
func (h *LnurlHandler) PayRequest(c *gin.Context) {
	resp, err := h.lnurlSvc.PayRequest(c.Request.Context(), c.Param("item_id"))
	if err != nil {
		h.protocolError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Callback handles GET /offlineshop/lnurl/cb/:item_id?amount=<msat>.
func (h *LnurlHandler) Callback(c *gin.Context) {
	amountMsat, err := strconv.ParseInt(c.Query("amount"), 10, 64)
	if err != nil {
		c.JSON(http.StatusOK, lnurl.NewErrorResponse("Missing or invalid amount parameter."))
		return
	}

	resp, err := h.lnurlSvc.Callback(c.Request.Context(), c.Param("item_id"), amountMsat)
	if err != nil {
		h.protocolError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// protocolError renders a domain failure as an LNURL error payload. Always
// HTTP 200: wallet clients expect machine-readable errors, not transport
// statuses.
func (h *LnurlHandler) protocolError(c *gin.Context, err error) {
	reason := "Internal server error"
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		reason = appErr.Message
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("lnurl request failed")
		}
	} else {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("lnurl request failed")
	}
	c.JSON(http.StatusOK, lnurl.NewErrorResponse(reason))
}
