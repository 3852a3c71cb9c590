package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Lookup failures (SHOP) ----

func ErrNotFound(entity string) *AppError {
	return New("SHOP_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrItemDisabled() *AppError {
	return New("SHOP_002", "Item disabled", http.StatusForbidden)
}

func ErrIntegrity(detail string) *AppError {
	return New("SHOP_003", detail, http.StatusInternalServerError)
}

// ---- Confirmation pipeline (CONF) ----

func ErrNotSettled(paymentHash string) *AppError {
	return New("CONF_001",
		fmt.Sprintf("Payment %s wasn't received yet. Try again in a minute.", paymentHash),
		http.StatusPaymentRequired)
}

func ErrConfirmationExpired() *AppError {
	return New("CONF_002", "Too much time has passed.", http.StatusRequestTimeout)
}

func ErrMissingCorrelation() *AppError {
	return New("CONF_003", "Payment is missing extra data.", http.StatusBadRequest)
}

// ---- LNURL protocol (LNURL) ----

func ErrAmountOutOfBounds(received, bound int64, below bool) *AppError {
	if below {
		return New("LNURL_001",
			fmt.Sprintf("Amount %d is smaller than minimum %d.", received, bound),
			http.StatusBadRequest)
	}
	return New("LNURL_001",
		fmt.Sprintf("Amount %d is greater than maximum %d.", received, bound),
		http.StatusBadRequest)
}

// ---- Administrative surface (ITEM) ----

func ErrImageTooLarge(sizeKB int) *AppError {
	return New("ITEM_001",
		fmt.Sprintf("Image size is too big, %dKb. Max: 100kb. Compress the image or use an URL.", sizeKB),
		http.StatusBadRequest)
}

func ErrEmptyWordlist() *AppError {
	return New("ITEM_002", "Wordlist must not be empty for the wordlist method", http.StatusBadRequest)
}

// ---- Security (SEC) ----

func ErrInvalidAPIKey() *AppError {
	return New("SEC_001", "Invalid API key", http.StatusUnauthorized)
}

func ErrAdminKeyRequired() *AppError {
	return New("SEC_002", "Admin key required", http.StatusForbidden)
}

// ---- System & upstream (SYS) ----

func ErrUpstream(service string, err error) *AppError {
	return Wrap("SYS_001", fmt.Sprintf("%s request failed: %v", service, err), http.StatusBadGateway, err)
}

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_002", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_002 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_002", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("REQ_001", message, http.StatusBadRequest)
}
