package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lnurl-offlineshop/internal/adapter/http/dto"
	"lnurl-offlineshop/internal/adapter/http/middleware"
	"lnurl-offlineshop/internal/core/domain"
	"lnurl-offlineshop/internal/core/ports"
	"lnurl-offlineshop/internal/core/ports/mocks"
	"lnurl-offlineshop/pkg/apperror"
	"lnurl-offlineshop/pkg/lnurl"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T, method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

// --- LNURL Handler Tests ---

func TestLnurlPayRequest_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLnurl := mocks.NewMockLnurlService(ctrl)
	h := NewLnurlHandler(mockLnurl, zerolog.Nop())

	mockLnurl.EXPECT().PayRequest(gomock.Any(), "item-1").Return(&lnurl.PayResponse{
		Callback:    "https://shop.example.com/offlineshop/lnurl/cb/item-1",
		MinSendable: 1_000_000,
		MaxSendable: 1_000_000,
		Metadata:    `[["text/plain","A cup of coffee"]]`,
		Tag:         "payRequest",
	}, nil)

	c, w := testContext(t, http.MethodGet, "/offlineshop/lnurl/item-1")
	c.Params = gin.Params{{Key: "item_id", Value: "item-1"}}

	h.PayRequest(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "payRequest", resp["tag"])
	assert.Equal(t, float64(1_000_000), resp["minSendable"])
	assert.Equal(t, float64(1_000_000), resp["maxSendable"])
}

func TestLnurlPayRequest_ErrorIsHTTP200(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLnurl := mocks.NewMockLnurlService(ctrl)
	h := NewLnurlHandler(mockLnurl, zerolog.Nop())

	mockLnurl.EXPECT().PayRequest(gomock.Any(), "missing").Return(nil, apperror.ErrNotFound("Item"))

	c, w := testContext(t, http.MethodGet, "/offlineshop/lnurl/missing")
	c.Params = gin.Params{{Key: "item_id", Value: "missing"}}

	h.PayRequest(c)

	// LNURL protocol errors ride on HTTP 200.
	assert.Equal(t, http.StatusOK, w.Code)
	var resp lnurl.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ERROR", resp.Status)
	assert.Equal(t, "Item not found", resp.Reason)
}

func TestLnurlCallback_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLnurl := mocks.NewMockLnurlService(ctrl)
	h := NewLnurlHandler(mockLnurl, zerolog.Nop())

	mockLnurl.EXPECT().Callback(gomock.Any(), "item-1", int64(1_000_000)).Return(&lnurl.PayActionResponse{
		PR:     "lnbc10...",
		Routes: []struct{}{},
		SuccessAction: &lnurl.SuccessAction{
			Tag: "url",
			URL: "https://shop.example.com/offlineshop/confirmation/hash-1",
		},
	}, nil)

	c, w := testContext(t, http.MethodGet, "/offlineshop/lnurl/cb/item-1?amount=1000000")
	c.Params = gin.Params{{Key: "item_id", Value: "item-1"}}

	h.Callback(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "lnbc10...", resp["pr"])
	assert.NotNil(t, resp["routes"])
	assert.Contains(t, resp, "successAction")
}

func TestLnurlCallback_MissingAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLnurl := mocks.NewMockLnurlService(ctrl)
	h := NewLnurlHandler(mockLnurl, zerolog.Nop())

	c, w := testContext(t, http.MethodGet, "/offlineshop/lnurl/cb/item-1")
	c.Params = gin.Params{{Key: "item_id", Value: "item-1"}}

	h.Callback(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp lnurl.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ERROR", resp.Status)
	assert.Equal(t, "Missing or invalid amount parameter.", resp.Reason)
}

func TestLnurlCallback_AmountOutOfBounds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLnurl := mocks.NewMockLnurlService(ctrl)
	h := NewLnurlHandler(mockLnurl, zerolog.Nop())

	mockLnurl.EXPECT().Callback(gomock.Any(), "item-1", int64(500)).
		Return(nil, apperror.ErrAmountOutOfBounds(500, 1_000_000, true))

	c, w := testContext(t, http.MethodGet, "/offlineshop/lnurl/cb/item-1?amount=500")
	c.Params = gin.Params{{Key: "item_id", Value: "item-1"}}

	h.Callback(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp lnurl.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ERROR", resp.Status)
	assert.Equal(t, "Amount 500 is smaller than minimum 1000000.", resp.Reason)
}

// --- Confirmation Handler Tests ---

func TestConfirm_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConf := mocks.NewMockConfirmationService(ctrl)
	h := NewConfirmationHandler(mockConf, zerolog.Nop())

	mockConf.EXPECT().Confirm(gomock.Any(), "hash-1").Return(&ports.Confirmation{
		Code:      "alpha",
		ItemName:  "Coffee",
		Price:     1000,
		Unit:      domain.UnitSats,
		SettledAt: time.Date(2024, 6, 1, 11, 55, 0, 0, time.UTC),
	}, nil)

	c, w := testContext(t, http.MethodGet, "/offlineshop/confirmation/hash-1")
	c.Params = gin.Params{{Key: "payment_hash", Value: "hash-1"}}

	h.Confirm(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Contains(t, body, "[alpha]<br>Coffee<br>1000 sats<br>2024-06-01 11:55:00")
	assert.Contains(t, body, "font-size: 100px")
}

func TestConfirm_ErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        *apperror.AppError
		wantStatus int
	}{
		{"unknown payment", apperror.ErrNotFound("Payment hash-1"), http.StatusNotFound},
		{"not settled", apperror.ErrNotSettled("hash-1"), http.StatusPaymentRequired},
		{"expired", apperror.ErrConfirmationExpired(), http.StatusRequestTimeout},
		{"missing correlation", apperror.ErrMissingCorrelation(), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockConf := mocks.NewMockConfirmationService(ctrl)
			h := NewConfirmationHandler(mockConf, zerolog.Nop())
			mockConf.EXPECT().Confirm(gomock.Any(), "hash-1").Return(nil, tc.err)

			c, w := testContext(t, http.MethodGet, "/offlineshop/confirmation/hash-1")
			c.Params = gin.Params{{Key: "payment_hash", Value: "hash-1"}}

			h.Confirm(c)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tc.err.Message)
			// The page is styled even on failure, it is shown to a human.
			assert.Contains(t, w.Body.String(), "font-size: 100px")
		})
	}
}

// --- Shop Handler Tests ---

func shopHandlerDeps(t *testing.T) (*ShopHandler, *mocks.MockShopService, *mocks.MockLnurlService, *gomock.Controller) {
	ctrl := gomock.NewController(t)
	mockShop := mocks.NewMockShopService(ctrl)
	mockLnurl := mocks.NewMockLnurlService(ctrl)
	return NewShopHandler(mockShop, mockLnurl, zerolog.Nop()), mockShop, mockLnurl, ctrl
}

func TestGetShop_Success(t *testing.T) {
	h, mockShop, mockLnurl, ctrl := shopHandlerDeps(t)
	defer ctrl.Finish()

	shop := &domain.Shop{
		ID:       "shop-1",
		Wallet:   "wallet-1",
		Method:   domain.CodeMethodWordlist,
		Wordlist: "alpha\nbeta",
	}
	items := []domain.Item{{
		ID:      "item-1",
		Shop:    "shop-1",
		Name:    "Coffee",
		Enabled: true,
		Price:   1000,
		Unit:    domain.UnitSats,
	}}

	mockShop.EXPECT().GetOrCreateShopByWallet(gomock.Any(), "wallet-1").Return(shop, nil)
	mockShop.EXPECT().ListItems(gomock.Any(), "shop-1").Return(items, nil)
	mockLnurl.EXPECT().LnurlURL("item-1").Return("LNURL1ABC", nil)

	c, w := testContext(t, http.MethodGet, "/offlineshop/api/v1/shop")
	c.Set(middleware.CtxWalletID, "wallet-1")

	h.GetShop(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "shop-1", data["id"])
	assert.Equal(t, shop.OTPKey(), data["otp_key"])

	respItems := data["items"].([]interface{})
	require.Len(t, respItems, 1)
	assert.Equal(t, "LNURL1ABC", respItems[0].(map[string]interface{})["lnurl"])
}

func TestCreateItem_Success(t *testing.T) {
	h, mockShop, mockLnurl, ctrl := shopHandlerDeps(t)
	defer ctrl.Finish()

	shop := &domain.Shop{ID: "shop-1", Wallet: "wallet-1"}
	mockShop.EXPECT().GetOrCreateShopByWallet(gomock.Any(), "wallet-1").Return(shop, nil)
	mockShop.EXPECT().CreateItem(gomock.Any(), "shop-1", ports.ItemRequest{
		Name:               "Coffee",
		Description:        "A cup of coffee",
		Price:              1000,
		Unit:               domain.UnitSats,
		FiatBaseMultiplier: 100,
	}).Return(&domain.Item{
		ID:      "item-1",
		Shop:    "shop-1",
		Name:    "Coffee",
		Enabled: true,
		Price:   1000,
		Unit:    domain.UnitSats,
	}, nil)
	mockLnurl.EXPECT().LnurlURL("item-1").Return("LNURL1ABC", nil)

	body, _ := json.Marshal(dto.ItemRequest{
		Name:        "Coffee",
		Description: "A cup of coffee",
		Price:       1000,
		Unit:        domain.UnitSats,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/offlineshop/api/v1/items", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxWalletID, "wallet-1")

	h.CreateItem(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "item-1", data["id"])
	assert.Equal(t, "LNURL1ABC", data["lnurl"])
}

func TestCreateItem_ValidationError(t *testing.T) {
	h, _, _, ctrl := shopHandlerDeps(t)
	defer ctrl.Finish()

	// Empty body => binding error, no service call
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/offlineshop/api/v1/items", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxWalletID, "wallet-1")

	h.CreateItem(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteItem_Success(t *testing.T) {
	h, mockShop, _, ctrl := shopHandlerDeps(t)
	defer ctrl.Finish()

	shop := &domain.Shop{ID: "shop-1", Wallet: "wallet-1"}
	mockShop.EXPECT().GetOrCreateShopByWallet(gomock.Any(), "wallet-1").Return(shop, nil)
	mockShop.EXPECT().DeleteItem(gomock.Any(), "shop-1", "item-1").Return(nil)

	c, w := testContext(t, http.MethodDelete, "/offlineshop/api/v1/items/item-1")
	c.Params = gin.Params{{Key: "item_id", Value: "item-1"}}
	c.Set(middleware.CtxWalletID, "wallet-1")

	h.DeleteItem(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateMethod_Success(t *testing.T) {
	h, mockShop, _, ctrl := shopHandlerDeps(t)
	defer ctrl.Finish()

	mockShop.EXPECT().UpdateShopMethod(gomock.Any(), "wallet-1", ports.UpdateShopRequest{
		Method:   domain.CodeMethodTOTP,
		Wordlist: "",
	}).Return(&domain.Shop{
		ID:       "shop-1",
		Wallet:   "wallet-1",
		Method:   domain.CodeMethodTOTP,
		Wordlist: "alpha\nbeta",
	}, nil)

	body, _ := json.Marshal(dto.UpdateShopRequest{Method: "totp"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/offlineshop/api/v1/method", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxWalletID, "wallet-1")

	h.UpdateMethod(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "totp", data["method"])
	assert.NotEmpty(t, data["otp_key"])
}

func TestUpdateMethod_UnknownMethodRejected(t *testing.T) {
	h, _, _, ctrl := shopHandlerDeps(t)
	defer ctrl.Finish()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/offlineshop/api/v1/method", bytes.NewReader([]byte(`{"method":"dice"}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxWalletID, "wallet-1")

	h.UpdateMethod(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Health Handler Tests ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(_ context.Context) error { return s.err }
func (s stubChecker) Name() string                 { return s.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	c, w := testContext(t, http.MethodGet, "/health")

	HealthCheck(stubChecker{name: "postgres"}, stubChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	c, w := testContext(t, http.MethodGet, "/health")

	HealthCheck(
		stubChecker{name: "postgres"},
		stubChecker{name: "redis", err: errors.New("connection refused")},
	)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	assert.Equal(t, "unhealthy", deps["redis"].(map[string]interface{})["status"])
}
