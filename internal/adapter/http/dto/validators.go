package dto

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var currencyRe = regexp.MustCompile(`^[A-Za-z]{3}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("price_unit", validatePriceUnit)
		_ = v.RegisterValidation("item_image", validateItemImage)
	}
}

// validatePriceUnit accepts "sats" or a three-letter fiat currency code.
func validatePriceUnit(fl validator.FieldLevel) bool {
	unit := fl.Field().String()
	return unit == "sats" || currencyRe.MatchString(unit)
}

// validateItemImage accepts http(s) URLs and base64 data URLs.
func validateItemImage(fl validator.FieldLevel) bool {
	img := fl.Field().String()
	return strings.HasPrefix(img, "http://") ||
		strings.HasPrefix(img, "https://") ||
		strings.HasPrefix(img, "data:")
}
