package dto

// UpdateShopRequest is the request body for changing a shop's confirmation
// method and wordlist.
type UpdateShopRequest struct {
	Method   string `json:"method" binding:"required,oneof=wordlist totp"`
	Wordlist string `json:"wordlist,omitempty"`
}

// ItemRequest is the request body for item create/update.
type ItemRequest struct {
	Name               string  `json:"name" binding:"required,max=100"`
	Description        string  `json:"description" binding:"required,max=500"`
	Image              string  `json:"image,omitempty" binding:"omitempty,item_image"`
	Price              float64 `json:"price" binding:"required,gt=0"`
	Unit               string  `json:"unit" binding:"required,price_unit"`
	FiatBaseMultiplier int     `json:"fiat_base_multiplier,omitempty" binding:"omitempty,gte=1"`
	Enabled            *bool   `json:"enabled,omitempty"`
}

// ShopResponse is the admin view of a shop with its items.
type ShopResponse struct {
	ID       string         `json:"id"`
	Wallet   string         `json:"wallet"`
	Method   string         `json:"method"`
	Wordlist string         `json:"wordlist"`
	OTPKey   string         `json:"otp_key"`
	Items    []ItemResponse `json:"items"`
}

// ItemResponse is an item with its printable LNURL.
type ItemResponse struct {
	ID                 string  `json:"id"`
	Shop               string  `json:"shop"`
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	Image              string  `json:"image,omitempty"`
	Enabled            bool    `json:"enabled"`
	Price              float64 `json:"price"`
	Unit               string  `json:"unit"`
	FiatBaseMultiplier int     `json:"fiat_base_multiplier"`
	Lnurl              string  `json:"lnurl"`
}
