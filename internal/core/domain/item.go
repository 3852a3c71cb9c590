package domain

import "strings"

// UnitSats is the price unit for items priced directly in satoshis.
// Any other unit is interpreted as a fiat currency code.
const UnitSats = "sats"

// Item is a purchasable good bound to a static LNURL-pay QR code.
type Item struct {
	ID          string `json:"id"`
	Shop        string `json:"shop"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"` // data URL or http(s) URL
	Enabled     bool   `json:"enabled"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	// FiatBaseMultiplier scales fiat prices stored in minor units back to
	// major units (e.g. cents with multiplier 100). Ignored for sats.
	FiatBaseMultiplier int `json:"fiat_base_multiplier"`
}

// IsFiat reports whether the price must go through the rate oracle.
func (i *Item) IsFiat() bool {
	return i.Unit != UnitSats
}

// PayMetadata builds the LNURL-pay metadata pairs for this item: always the
// plain-text description, plus the embedded image when the item carries one
// as a data URL.
func (i *Item) PayMetadata() [][]string {
	metadata := [][]string{{"text/plain", i.Description}}

	if strings.HasPrefix(i.Image, "data:") {
		// "data:image/png;base64,iVBOR..." -> ["image/png;base64", "iVBOR..."]
		rest := strings.TrimPrefix(i.Image, "data:")
		if mime, payload, ok := strings.Cut(rest, ","); ok {
			metadata = append(metadata, []string{mime, payload})
		}
	}

	return metadata
}
