package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"lnurl-offlineshop/internal/core/ports"
	"lnurl-offlineshop/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Rendered full-screen on the buyer's phone so the merchant can read the
// code at arm's length.
const confirmationStyle = "<style>* { font-size: 100px}</style>"

// ConfirmationHandler serves the human-facing confirmation-code page opened
// via the LNURL success action.
type ConfirmationHandler struct {
	confirmationSvc ports.ConfirmationService
	log             zerolog.Logger
}

// NewConfirmationHandler creates a new ConfirmationHandler.
func NewConfirmationHandler(confirmationSvc ports.ConfirmationService, log zerolog.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{confirmationSvc: confirmationSvc, log: log}
}

// Confirm handles GET /offlineshop/confirmation/:payment_hash.
// Unlike the LNURL endpoints the caller here is a browser, so domain
// failures map to transport status codes.
func (h *ConfirmationHandler) Confirm(c *gin.Context) {
	conf, err := h.confirmationSvc.Confirm(c.Request.Context(), c.Param("payment_hash"))
	if err != nil {
		status := http.StatusInternalServerError
		message := "Internal server error"
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			status = appErr.HTTPStatus
			message = appErr.Message
		}
		if status >= http.StatusInternalServerError {
			h.log.Error().Err(err).Str("payment_hash", c.Param("payment_hash")).Msg("confirmation failed")
		}
		c.Data(status, "text/html; charset=utf-8", []byte(message+confirmationStyle))
		return
	}

	body := fmt.Sprintf("[%s]<br>%s<br>%s %s<br>%s%s",
		conf.Code,
		conf.ItemName,
		strconv.FormatFloat(conf.Price, 'f', -1, 64),
		conf.Unit,
		conf.SettledAt.Format("2006-01-02 15:04:05"),
		confirmationStyle,
	)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}
