package handler

import (
	"lnurl-offlineshop/internal/adapter/http/dto"
	"lnurl-offlineshop/internal/adapter/http/middleware"
	"lnurl-offlineshop/internal/core/domain"
	"lnurl-offlineshop/internal/core/ports"
	"lnurl-offlineshop/pkg/apperror"
	"lnurl-offlineshop/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ShopHandler serves the administrative API: shop configuration and item CRUD.
type ShopHandler struct {
	shopSvc  ports.ShopService
	lnurlSvc ports.LnurlService
	log      zerolog.Logger
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(shopSvc ports.ShopService, lnurlSvc ports.LnurlService, log zerolog.Logger) *ShopHandler {
	return &ShopHandler{shopSvc: shopSvc, lnurlSvc: lnurlSvc, log: log}
}

// GetShop handles GET /offlineshop/api/v1/shop. Get-or-create semantics:
// first access for a wallet materializes its shop.
func (h *ShopHandler) GetShop(c *gin.Context) {
	shop, err := h.shopSvc.GetOrCreateShopByWallet(c.Request.Context(), c.GetString(middleware.CtxWalletID))
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.shopSvc.ListItems(c.Request.Context(), shop.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.ShopResponse{
		ID:       shop.ID,
		Wallet:   shop.Wallet,
		Method:   string(shop.Method),
		Wordlist: shop.Wordlist,
		OTPKey:   shop.OTPKey(),
		Items:    make([]dto.ItemResponse, 0, len(items)),
	}
	for i := range items {
		ir, err := h.toItemResponse(&items[i])
		if err != nil {
			response.Error(c, err)
			return
		}
		resp.Items = append(resp.Items, ir)
	}

	response.OK(c, resp)
}

// CreateItem handles POST /offlineshop/api/v1/items.
func (h *ShopHandler) CreateItem(c *gin.Context) {
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	shop, err := h.shopSvc.GetOrCreateShopByWallet(c.Request.Context(), c.GetString(middleware.CtxWalletID))
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.shopSvc.CreateItem(c.Request.Context(), shop.ID, toItemRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}

	ir, err := h.toItemResponse(item)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ir)
}

// UpdateItem handles PUT /offlineshop/api/v1/items/:item_id.
func (h *ShopHandler) UpdateItem(c *gin.Context) {
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	shop, err := h.shopSvc.GetOrCreateShopByWallet(c.Request.Context(), c.GetString(middleware.CtxWalletID))
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.shopSvc.UpdateItem(c.Request.Context(), shop.ID, c.Param("item_id"), toItemRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}

	ir, err := h.toItemResponse(item)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ir)
}

// DeleteItem handles DELETE /offlineshop/api/v1/items/:item_id.
func (h *ShopHandler) DeleteItem(c *gin.Context) {
	shop, err := h.shopSvc.GetOrCreateShopByWallet(c.Request.Context(), c.GetString(middleware.CtxWalletID))
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.shopSvc.DeleteItem(c.Request.Context(), shop.ID, c.Param("item_id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": true})
}

// UpdateMethod handles PUT /offlineshop/api/v1/method. Changing the
// configuration resets the shop's code rotation.
func (h *ShopHandler) UpdateMethod(c *gin.Context) {
	var req dto.UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	shop, err := h.shopSvc.UpdateShopMethod(c.Request.Context(), c.GetString(middleware.CtxWalletID), ports.UpdateShopRequest{
		Method:   domain.CodeMethod(req.Method),
		Wordlist: req.Wordlist,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ShopResponse{
		ID:       shop.ID,
		Wallet:   shop.Wallet,
		Method:   string(shop.Method),
		Wordlist: shop.Wordlist,
		OTPKey:   shop.OTPKey(),
		Items:    []dto.ItemResponse{},
	})
}

// toItemRequest converts the DTO into the service request, defaulting the
// fiat multiplier to cents.
func toItemRequest(req dto.ItemRequest) ports.ItemRequest {
	multiplier := req.FiatBaseMultiplier
	if multiplier == 0 {
		multiplier = 100
	}
	return ports.ItemRequest{
		Name:               req.Name,
		Description:        req.Description,
		Image:              req.Image,
		Price:              req.Price,
		Unit:               req.Unit,
		FiatBaseMultiplier: multiplier,
		Enabled:            req.Enabled,
	}
}

// toItemResponse converts an item to its DTO with the printable LNURL.
func (h *ShopHandler) toItemResponse(item *domain.Item) (dto.ItemResponse, error) {
	encoded, err := h.lnurlSvc.LnurlURL(item.ID)
	if err != nil {
		return dto.ItemResponse{}, apperror.InternalError(err)
	}
	return dto.ItemResponse{
		ID:                 item.ID,
		Shop:               item.Shop,
		Name:               item.Name,
		Description:        item.Description,
		Image:              item.Image,
		Enabled:            item.Enabled,
		Price:              item.Price,
		Unit:               item.Unit,
		FiatBaseMultiplier: item.FiatBaseMultiplier,
		Lnurl:              encoded,
	}, nil
}
