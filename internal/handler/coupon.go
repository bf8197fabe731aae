package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eclora/eclora-api/internal/domain/coupon"
)

type validateCouponRequest struct {
	Code       string          `json:"code" binding:"required"`
	OrderTotal decimal.Decimal `json:"orderTotal" binding:"required"`
}

type applyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

type couponEcho struct {
	Code          string              `json:"code"`
	DiscountType  coupon.DiscountType `json:"discountType"`
	DiscountValue decimal.Decimal     `json:"discountValue"`
}

type validateCouponResponse struct {
	IsValid     bool            `json:"isValid"`
	Discount    decimal.Decimal `json:"discount"`
	FinalAmount decimal.Decimal `json:"finalAmount"`
	Coupon      couponEcho      `json:"coupon"`
}

type couponRequest struct {
	Code          string              `json:"code" binding:"required"`
	DiscountType  coupon.DiscountType `json:"discountType" binding:"required"`
	DiscountValue decimal.Decimal     `json:"discountValue" binding:"required"`
	MinPurchase   decimal.Decimal     `json:"minPurchase"`
	ExpiryDate    time.Time           `json:"expiryDate" binding:"required"`
	UsageLimit    int                 `json:"usageLimit" binding:"required,min=1"`
	IsActive      *bool               `json:"isActive"`
}

type couponDTO struct {
	ID            string              `json:"id"`
	Code          string              `json:"code"`
	DiscountType  coupon.DiscountType `json:"discountType"`
	DiscountValue decimal.Decimal     `json:"discountValue"`
	MinPurchase   decimal.Decimal     `json:"minPurchase"`
	ExpiryDate    time.Time           `json:"expiryDate"`
	UsageLimit    int                 `json:"usageLimit"`
	UsageCount    int                 `json:"usageCount"`
	IsActive      bool                `json:"isActive"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func toCouponDTO(cp *coupon.Coupon) couponDTO {
	return couponDTO{
		ID:            cp.ID,
		Code:          cp.Code,
		DiscountType:  cp.DiscountType,
		DiscountValue: cp.DiscountValue,
		MinPurchase:   cp.MinPurchase,
		ExpiryDate:    cp.ExpiryDate,
		UsageLimit:    cp.UsageLimit,
		UsageCount:    cp.UsageCount,
		IsActive:      cp.Active,
		CreatedAt:     cp.CreatedAt,
		UpdatedAt:     cp.UpdatedAt,
	}
}

func (h *Handler) validateCoupon(c *gin.Context) {
	var req validateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "code and orderTotal are required")
		return
	}
	if !req.OrderTotal.IsPositive() {
		respondError(c, http.StatusBadRequest, "orderTotal must be greater than zero")
		return
	}

	res, err := h.validator.Validate(c.Request.Context(), req.Code, req.OrderTotal)
	if err != nil {
		var (
			invalidErr *coupon.InvalidError
			minimumErr *coupon.BelowMinimumError
		)
		switch {
		case errors.Is(err, coupon.ErrNotFound):
			respondError(c, http.StatusNotFound, "coupon not found")
		case errors.As(err, &invalidErr), errors.As(err, &minimumErr):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondInternal(c, err)
		}
		return
	}

	respondData(c, http.StatusOK, "Coupon is valid", validateCouponResponse{
		IsValid:     true,
		Discount:    res.Discount,
		FinalAmount: res.FinalAmount,
		Coupon: couponEcho{
			Code:          res.Code,
			DiscountType:  res.DiscountType,
			DiscountValue: res.DiscountValue,
		},
	})
}

func (h *Handler) applyCoupon(c *gin.Context) {
	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "code is required")
		return
	}

	applied, err := h.validator.Apply(c.Request.Context(), req.Code)
	if err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			respondError(c, http.StatusNotFound, "coupon not found")
			return
		}
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "Coupon applied successfully", gin.H{
		"code":       applied.Code,
		"usageCount": applied.UsageCount,
	})
}

func (h *Handler) listCoupons(c *gin.Context) {
	coupons, err := h.coupons.List(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}
	dtos := make([]couponDTO, len(coupons))
	for i := range coupons {
		dtos[i] = toCouponDTO(&coupons[i])
	}
	respondData(c, http.StatusOK, "Coupons fetched successfully", dtos)
}

func (h *Handler) getCoupon(c *gin.Context) {
	cp, err := h.coupons.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			respondError(c, http.StatusNotFound, "coupon not found")
			return
		}
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "", toCouponDTO(cp))
}

func (h *Handler) createCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "code, discountType, discountValue, expiryDate and usageLimit are required")
		return
	}
	if !coupon.ValidDiscountType(req.DiscountType) {
		respondError(c, http.StatusBadRequest, "discountType must be percentage or fixed")
		return
	}
	if req.DiscountValue.IsNegative() || req.MinPurchase.IsNegative() {
		respondError(c, http.StatusBadRequest, "discountValue and minPurchase must not be negative")
		return
	}

	cp := &coupon.Coupon{
		ID:            uuid.NewString(),
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinPurchase:   req.MinPurchase,
		ExpiryDate:    req.ExpiryDate,
		UsageLimit:    req.UsageLimit,
		Active:        true,
	}
	if req.IsActive != nil {
		cp.Active = *req.IsActive
	}

	if err := h.coupons.Create(c.Request.Context(), cp); err != nil {
		if errors.Is(err, coupon.ErrDuplicateCode) {
			respondError(c, http.StatusConflict, "coupon code already exists")
			return
		}
		respondInternal(c, err)
		return
	}

	created, err := h.coupons.GetByID(c.Request.Context(), cp.ID)
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusCreated, "Coupon created successfully", toCouponDTO(created))
}

func (h *Handler) updateCoupon(c *gin.Context) {
	id := c.Param("id")
	existing, err := h.coupons.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			respondError(c, http.StatusNotFound, "coupon not found")
			return
		}
		respondInternal(c, err)
		return
	}

	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "code, discountType, discountValue, expiryDate and usageLimit are required")
		return
	}
	if !coupon.ValidDiscountType(req.DiscountType) {
		respondError(c, http.StatusBadRequest, "discountType must be percentage or fixed")
		return
	}
	if req.DiscountValue.IsNegative() || req.MinPurchase.IsNegative() {
		respondError(c, http.StatusBadRequest, "discountValue and minPurchase must not be negative")
		return
	}

	existing.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	existing.DiscountType = req.DiscountType
	existing.DiscountValue = req.DiscountValue
	existing.MinPurchase = req.MinPurchase
	existing.ExpiryDate = req.ExpiryDate
	existing.UsageLimit = req.UsageLimit
	if req.IsActive != nil {
		existing.Active = *req.IsActive
	}

	if err := h.coupons.Update(c.Request.Context(), existing); err != nil {
		if errors.Is(err, coupon.ErrDuplicateCode) {
			respondError(c, http.StatusConflict, "coupon code already exists")
			return
		}
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "Coupon updated successfully", toCouponDTO(existing))
}

func (h *Handler) deleteCoupon(c *gin.Context) {
	if err := h.coupons.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			respondError(c, http.StatusNotFound, "coupon not found")
			return
		}
		respondInternal(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Coupon deleted successfully")
}
