//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

// createCoupon provisions a coupon through the admin API and returns it.
func createCoupon(t *testing.T, token string, body map[string]any) couponResponse {
	t.Helper()

	resp := doPostWithAuth(t, "/api/coupons", body, token)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create coupon: expected 201, got %d", resp.StatusCode)
	}
	return decodeJSON[envelope[couponResponse]](t, resp).Data
}

func uniqueCode(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixNano()%1_000_000)
}

func TestValidateFixedCoupon(t *testing.T) {
	token := adminLogin(t)
	code := uniqueCode("SAVE")
	createCoupon(t, token, map[string]any{
		"code":          code,
		"discountType":  "fixed",
		"discountValue": "10",
		"minPurchase":   "50",
		"expiryDate":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"usageLimit":    100,
	})

	resp := doPost(t, "/api/coupons/validate", map[string]any{
		"code":       code,
		"orderTotal": "60",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[envelope[validateCouponResponse]](t, resp)
	if !body.Data.IsValid {
		t.Error("expected coupon to be valid")
	}
	if body.Data.Discount != "10" {
		t.Errorf("discount: got %q, want %q", body.Data.Discount, "10")
	}
	if body.Data.FinalAmount != "50" {
		t.Errorf("finalAmount: got %q, want %q", body.Data.FinalAmount, "50")
	}
}

func TestValidatePercentageCoupon(t *testing.T) {
	token := adminLogin(t)
	code := uniqueCode("PCT")
	createCoupon(t, token, map[string]any{
		"code":          code,
		"discountType":  "percentage",
		"discountValue": "10",
		"expiryDate":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"usageLimit":    100,
	})

	resp := doPost(t, "/api/coupons/validate", map[string]any{
		"code":       code,
		"orderTotal": "200",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[envelope[validateCouponResponse]](t, resp)
	if body.Data.Discount != "20" {
		t.Errorf("discount: got %q, want %q", body.Data.Discount, "20")
	}
	if body.Data.FinalAmount != "180" {
		t.Errorf("finalAmount: got %q, want %q", body.Data.FinalAmount, "180")
	}
}

func TestValidateCouponBelowMinimum(t *testing.T) {
	token := adminLogin(t)
	code := uniqueCode("MIN")
	createCoupon(t, token, map[string]any{
		"code":          code,
		"discountType":  "fixed",
		"discountValue": "5",
		"minPurchase":   "50",
		"expiryDate":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"usageLimit":    100,
	})

	resp := doPost(t, "/api/coupons/validate", map[string]any{
		"code":       code,
		"orderTotal": "20",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestValidateUnknownCoupon(t *testing.T) {
	resp := doPost(t, "/api/coupons/validate", map[string]any{
		"code":       "NOSUCHCODE",
		"orderTotal": "100",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestApplyCouponIncrementsUsage(t *testing.T) {
	token := adminLogin(t)
	code := uniqueCode("USE")
	created := createCoupon(t, token, map[string]any{
		"code":          code,
		"discountType":  "fixed",
		"discountValue": "5",
		"expiryDate":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"usageLimit":    3,
	})
	if created.UsageCount != 0 {
		t.Fatalf("new coupon usageCount: got %d, want 0", created.UsageCount)
	}

	resp := doPost(t, "/api/coupons/apply", map[string]any{"code": code})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[envelope[couponResponse]](t, resp)
	if body.Data.UsageCount != 1 {
		t.Errorf("usageCount: got %d, want 1", body.Data.UsageCount)
	}
}

func TestCreateCouponDuplicateCode(t *testing.T) {
	token := adminLogin(t)
	code := uniqueCode("TWIN")
	body := map[string]any{
		"code":          code,
		"discountType":  "fixed",
		"discountValue": "5",
		"expiryDate":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"usageLimit":    10,
	}
	createCoupon(t, token, body)

	resp := doPostWithAuth(t, "/api/coupons", body, token)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}
