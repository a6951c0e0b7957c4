package server

import (
	"net/http"
	"testing"

	"queentouch/internal/models"
	"queentouch/internal/pricing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCheckoutProducts(t *testing.T, db *gorm.DB) []models.Product {
	t.Helper()
	products := []models.Product{
		{Name: "Esmalte Rojo", Price: 35000, Category: "esmaltes", Stock: 10},
		{Name: "Lámpara UV", Price: 180000, Category: "equipos", Stock: 5},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
	return products
}

func TestQuoteCart_GuestAndTier(t *testing.T) {
	s, app, db := setupTestServer(t)
	products := seedCheckoutProducts(t, db)
	_, goldToken := createTestUser(t, s, db, models.User{
		Email: "gold@queentouch.com", Name: "Gold",
		Role: models.RoleMember, Tier: models.TierGold,
	})

	body := fiber.Map{
		"items": []fiber.Map{{"product_id": products[0].ID, "quantity": 2}},
	}

	// Guest: base prices, shipping charged below the threshold.
	resp := doJSON(t, app, http.MethodPost, "/api/checkout/quote", "", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var quote pricing.Quote
	decodeBody(t, resp, &quote)
	assert.Equal(t, int64(70000), quote.Subtotal)
	assert.Equal(t, int64(0), quote.DiscountAmount)
	assert.Equal(t, int64(15000), quote.Shipping)
	assert.Equal(t, int64(85000), quote.Total)

	// Gold member: 20% off the subtotal.
	resp = doJSON(t, app, http.MethodPost, "/api/checkout/quote", goldToken, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &quote)
	assert.Equal(t, int64(14000), quote.DiscountAmount)
	assert.Equal(t, int64(71000), quote.Total)
}

func TestQuoteCart_UnknownProduct(t *testing.T) {
	_, app, _ := setupTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/checkout/quote", "", fiber.Map{
		"items": []fiber.Map{{"product_id": 999, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestPlaceOrder_DistributorWholesale(t *testing.T) {
	s, app, db := setupTestServer(t)
	products := seedCheckoutProducts(t, db)
	distributor, token := createTestUser(t, s, db, models.User{
		Email: "distribuidor@queentouch.com", Name: "Distribuidora",
		Role: models.RoleDistributor,
	})

	resp := doJSON(t, app, http.MethodPost, "/api/checkout/orders", token, fiber.Map{
		"items":       []fiber.Map{{"product_id": products[1].ID, "quantity": 1}},
		"coupon_code": "QUEEN20", // ignored in wholesale mode
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order models.Order
	decodeBody(t, resp, &order)
	assert.Equal(t, distributor.ID, order.UserID)
	assert.NotEmpty(t, order.Reference)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, int64(108000), order.Subtotal) // 180000 * 0.60
	assert.Equal(t, int64(0), order.Discount)
	assert.Empty(t, order.CouponCode)
	assert.Equal(t, int64(0), order.Shipping) // above the free-shipping threshold
	assert.Equal(t, int64(108000), order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(108000), order.Items[0].UnitPrice)

	// Order history shows it.
	resp = doJSON(t, app, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history struct {
		Data []models.Order `json:"data"`
	}
	decodeBody(t, resp, &history)
	require.Len(t, history.Data, 1)
	assert.Equal(t, order.Reference, history.Data[0].Reference)
}

func TestPlaceOrder_CouponApplied(t *testing.T) {
	s, app, db := setupTestServer(t)
	products := seedCheckoutProducts(t, db)
	_, token := createTestUser(t, s, db, models.User{
		Email: "silver@queentouch.com", Name: "Silver",
		Role: models.RoleMember, Tier: models.TierSilver,
	})

	resp := doJSON(t, app, http.MethodPost, "/api/checkout/orders", token, fiber.Map{
		"items":       []fiber.Map{{"product_id": products[0].ID, "quantity": 1}},
		"coupon_code": "QUEEN20",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order models.Order
	decodeBody(t, resp, &order)
	// Coupon replaces the silver tier discount.
	assert.Equal(t, "QUEEN20", order.CouponCode)
	assert.Equal(t, int64(7000), order.Discount) // 35000 * 0.20
	assert.Equal(t, int64(43000), order.Total)   // 28000 + 15000 shipping
}

func TestGetOrder_Authorization(t *testing.T) {
	s, app, db := setupTestServer(t)
	products := seedCheckoutProducts(t, db)
	_, ownerToken := createTestUser(t, s, db, models.User{
		Email: "duena@queentouch.com", Name: "Dueña",
	})
	_, otherToken := createTestUser(t, s, db, models.User{
		Email: "otra@queentouch.com", Name: "Otra",
	})

	resp := doJSON(t, app, http.MethodPost, "/api/checkout/orders", ownerToken, fiber.Map{
		"items": []fiber.Map{{"product_id": products[0].ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decodeBody(t, resp, &order)

	resp = doJSON(t, app, http.MethodGet, "/api/orders/"+order.Reference, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/orders/"+order.Reference, ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}
