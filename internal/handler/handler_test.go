package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eclora/eclora-api/internal/auth"
	"github.com/eclora/eclora-api/internal/domain/coupon"
	"github.com/eclora/eclora-api/internal/domain/order"
	"github.com/eclora/eclora-api/internal/domain/user"
	"github.com/eclora/eclora-api/internal/mailer"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type mockCouponRepo struct {
	byCode map[string]*coupon.Coupon
}

func (m *mockCouponRepo) FindByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	if c, ok := m.byCode[code]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, coupon.ErrNotFound
}

func (m *mockCouponRepo) IncrementUsage(_ context.Context, code string) (*coupon.Coupon, error) {
	c, ok := m.byCode[code]
	if !ok {
		return nil, coupon.ErrNotFound
	}
	c.UsageCount++
	cp := *c
	return &cp, nil
}

func (m *mockCouponRepo) List(context.Context) ([]coupon.Coupon, error) {
	out := make([]coupon.Coupon, 0, len(m.byCode))
	for _, c := range m.byCode {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCouponRepo) GetByID(_ context.Context, id string) (*coupon.Coupon, error) {
	for _, c := range m.byCode {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, coupon.ErrNotFound
}

func (m *mockCouponRepo) Create(_ context.Context, c *coupon.Coupon) error {
	if _, ok := m.byCode[c.Code]; ok {
		return coupon.ErrDuplicateCode
	}
	cp := *c
	m.byCode[c.Code] = &cp
	return nil
}

func (m *mockCouponRepo) Update(_ context.Context, c *coupon.Coupon) error {
	cp := *c
	m.byCode[c.Code] = &cp
	return nil
}

func (m *mockCouponRepo) Delete(_ context.Context, id string) error {
	for code, c := range m.byCode {
		if c.ID == id {
			delete(m.byCode, code)
			return nil
		}
	}
	return coupon.ErrNotFound
}

type mockOrderRepo struct {
	byID    map[string]*order.Order
	updated map[string]order.StatusUpdate
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		byID:    make(map[string]*order.Order),
		updated: make(map[string]order.StatusUpdate),
	}
}

func (m *mockOrderRepo) Create(_ context.Context, o *order.Order) error {
	cp := *o
	m.byID[o.ID] = &cp
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*order.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context, filter order.Status) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.byID {
		if filter == "" || o.Status == filter {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID string) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.byID {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, upd order.StatusUpdate) error {
	o, ok := m.byID[id]
	if !ok {
		return order.ErrNotFound
	}
	m.updated[id] = upd
	if upd.Status != nil {
		o.Status = *upd.Status
	}
	if upd.PaymentStatus != nil {
		o.PaymentStatus = *upd.PaymentStatus
	}
	return nil
}

func (m *mockOrderRepo) MarkPaidBySession(_ context.Context, sessionID string) error {
	for _, o := range m.byID {
		if o.StripeSessionID == sessionID {
			o.PaymentStatus = order.PaymentPaid
		}
	}
	return nil
}

type testEnv struct {
	router  *gin.Engine
	auth    *auth.Manager
	coupons *mockCouponRepo
	orders  *mockOrderRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	coupons := &mockCouponRepo{byCode: make(map[string]*coupon.Coupon)}
	orders := newMockOrderRepo()
	authManager := auth.NewManager("test-secret", time.Hour)

	h := New(Config{
		Coupons:   coupons,
		Validator: coupon.NewValidator(coupons),
		Orders:    order.NewService(orders),
		Auth:      authManager,
		Mail:      mailer.NopMailer{},
	})

	router := gin.New()
	h.RegisterRoutes(router)

	return &testEnv{router: router, auth: authManager, coupons: coupons, orders: orders}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, err := e.auth.Issue(&user.User{ID: "admin-1", Role: user.RoleAdmin})
	require.NoError(t, err)
	return token
}

func (e *testEnv) userToken(t *testing.T, id string) string {
	t.Helper()
	token, err := e.auth.Issue(&user.User{ID: id, Role: user.RoleUser})
	require.NoError(t, err)
	return token
}

func TestValidateCouponEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.coupons.byCode["SAVE10"] = &coupon.Coupon{
		ID: "c1", Code: "SAVE10",
		DiscountType: coupon.DiscountPercentage, DiscountValue: d("10"),
		ExpiryDate: time.Now().Add(24 * time.Hour),
		UsageLimit: 100, Active: true,
	}

	t.Run("valid coupon", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/coupons/validate", "",
			gin.H{"code": "save10", "orderTotal": 50})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, true, body["success"])
		data := body["data"].(map[string]interface{})
		assert.Equal(t, true, data["isValid"])
		assert.Equal(t, "5", data["discount"])
		assert.Equal(t, "45", data["finalAmount"])

		echo := data["coupon"].(map[string]interface{})
		assert.Equal(t, "SAVE10", echo["code"])
		_, hasUsage := echo["usageCount"]
		assert.False(t, hasUsage)
	})

	t.Run("unknown code is 404", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/coupons/validate", "",
			gin.H{"code": "NOPE", "orderTotal": 50})
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, false, decodeEnvelope(t, rec)["success"])
	})

	t.Run("missing orderTotal is 400", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/coupons/validate", "",
			gin.H{"code": "SAVE10"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("below minimum is 400 with threshold message", func(t *testing.T) {
		env.coupons.byCode["MIN50"] = &coupon.Coupon{
			ID: "c2", Code: "MIN50",
			DiscountType: coupon.DiscountFixed, DiscountValue: d("5"),
			MinPurchase: d("50"), ExpiryDate: time.Now().Add(24 * time.Hour),
			UsageLimit: 10, Active: true,
		}
		rec := env.request(t, http.MethodPost, "/api/coupons/validate", "",
			gin.H{"code": "MIN50", "orderTotal": 40})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeEnvelope(t, rec)["message"], "minimum purchase of $50.00")
	})
}

func TestApplyCouponEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.coupons.byCode["EXPIRED"] = &coupon.Coupon{
		ID: "c1", Code: "EXPIRED",
		DiscountType: coupon.DiscountFixed, DiscountValue: d("5"),
		ExpiryDate: time.Now().Add(-24 * time.Hour),
		UsageLimit: 10, UsageCount: 3, Active: true,
	}

	// Apply does not revalidate: an expired coupon still increments.
	rec := env.request(t, http.MethodPost, "/api/coupons/apply", "", gin.H{"code": "expired"})
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["usageCount"])
}

func TestCouponAdminEndpointsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/coupons", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/coupons", env.userToken(t, "u1"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/coupons", env.adminToken(t), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateCouponDuplicateCode(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)
	body := gin.H{
		"code": "twice", "discountType": "fixed", "discountValue": 5,
		"expiryDate": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"usageLimit": 10,
	}

	rec := env.request(t, http.MethodPost, "/api/coupons", token, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "TWICE", data["code"])

	rec = env.request(t, http.MethodPost, "/api/coupons", token, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateOrderEndpoint(t *testing.T) {
	env := newTestEnv(t)

	t.Run("guest checkout", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/orders", "", gin.H{
			"products": []gin.H{
				{"productId": "p1", "name": "Candle", "price": 19.99, "quantity": 2},
			},
			"email":       "guest@example.com",
			"totalAmount": 39.98,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
		assert.Equal(t, "pending", data["paymentStatus"])
		assert.Equal(t, "pending", data["orderStatus"])
		assert.Empty(t, data["userId"])
	})

	t.Run("authenticated checkout records user", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/orders", env.userToken(t, "u7"), gin.H{
			"products": []gin.H{
				{"productId": "p1", "name": "Candle", "price": 19.99, "quantity": 1},
			},
			"email":       "user@example.com",
			"totalAmount": 19.99,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
		assert.Equal(t, "u7", data["userId"])
	})

	t.Run("explicit statuses on create are honored", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/orders", "", gin.H{
			"products": []gin.H{
				{"productId": "p1", "name": "Candle", "price": 19.99, "quantity": 1},
			},
			"email":         "guest@example.com",
			"totalAmount":   19.99,
			"paymentStatus": "paid",
			"orderStatus":   "processing",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
		assert.Equal(t, "paid", data["paymentStatus"])
		assert.Equal(t, "processing", data["orderStatus"])
	})

	t.Run("unknown orderStatus is 400", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/orders", "", gin.H{
			"products": []gin.H{
				{"productId": "p1", "name": "Candle", "price": 19.99, "quantity": 1},
			},
			"email":       "guest@example.com",
			"totalAmount": 19.99,
			"orderStatus": "teleported",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty items is 400", func(t *testing.T) {
		rec := env.request(t, http.MethodPost, "/api/orders", "", gin.H{
			"products":    []gin.H{},
			"email":       "guest@example.com",
			"totalAmount": 10,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateOrderStatusAliasing(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)
	env.orders.byID["o1"] = &order.Order{
		ID: "o1", Status: order.StatusPending, PaymentStatus: order.PaymentPending,
		TotalAmount: d("10"),
	}

	tests := []struct {
		name       string
		body       gin.H
		wantStatus order.Status
	}{
		{"status key", gin.H{"status": "shipped"}, order.StatusShipped},
		{"orderStatus key", gin.H{"orderStatus": "delivered"}, order.StatusDelivered},
		{"orderStatus wins over status", gin.H{"status": "pending", "orderStatus": "cancelled"}, order.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.request(t, http.MethodPut, "/api/orders/o1", token, tt.body)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantStatus, env.orders.byID["o1"].Status)
		})
	}

	t.Run("invalid status is 400", func(t *testing.T) {
		rec := env.request(t, http.MethodPut, "/api/orders/o1", token, gin.H{"status": "lost"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown order is 404", func(t *testing.T) {
		rec := env.request(t, http.MethodPut, "/api/orders/nope", token, gin.H{"status": "shipped"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListUserOrdersOwnership(t *testing.T) {
	env := newTestEnv(t)
	env.orders.byID["o1"] = &order.Order{ID: "o1", UserID: "u1", TotalAmount: d("10")}

	rec := env.request(t, http.MethodGet, "/api/orders/u1", env.userToken(t, "u1"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/orders/u1", env.userToken(t, "u2"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/orders/u1", env.adminToken(t), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContactSwallowsDeliveryFailures(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/contact", "", gin.H{
		"name": "Jo", "email": "jo@example.com",
		"subject": "Hi", "message": "Hello there",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeEnvelope(t, rec)["success"])
}
