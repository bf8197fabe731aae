// Package handler exposes the store API over HTTP using gin. Handlers parse
// and validate requests at the boundary, call into the domain layer, and
// translate domain errors into the shared response envelope.
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/eclora/eclora-api/internal/auth"
	"github.com/eclora/eclora-api/internal/domain/banner"
	"github.com/eclora/eclora-api/internal/domain/category"
	"github.com/eclora/eclora-api/internal/domain/coupon"
	"github.com/eclora/eclora-api/internal/domain/order"
	"github.com/eclora/eclora-api/internal/domain/product"
	"github.com/eclora/eclora-api/internal/domain/settings"
	"github.com/eclora/eclora-api/internal/domain/stats"
	"github.com/eclora/eclora-api/internal/domain/user"
	"github.com/eclora/eclora-api/internal/imagestore"
	"github.com/eclora/eclora-api/internal/mailer"
	"github.com/eclora/eclora-api/internal/payment"
)

// Handler bundles the dependencies behind the API routes.
type Handler struct {
	products   product.Repository
	categories category.Repository
	coupons    coupon.Repository
	validator  *coupon.Validator
	orders     *order.Service
	users      user.Repository
	banners    banner.Repository
	settings   settings.Repository
	stats      stats.Provider
	auth       *auth.Manager
	payments   payment.Client
	mail       mailer.Mailer
	images     imagestore.Store
}

// Config wires a Handler.
type Config struct {
	Products   product.Repository
	Categories category.Repository
	Coupons    coupon.Repository
	Validator  *coupon.Validator
	Orders     *order.Service
	Users      user.Repository
	Banners    banner.Repository
	Settings   settings.Repository
	Stats      stats.Provider
	Auth       *auth.Manager
	Payments   payment.Client
	Mail       mailer.Mailer
	Images     imagestore.Store
}

// New returns a Handler serving the store API.
func New(cfg Config) *Handler {
	return &Handler{
		products:   cfg.Products,
		categories: cfg.Categories,
		coupons:    cfg.Coupons,
		validator:  cfg.Validator,
		orders:     cfg.Orders,
		users:      cfg.Users,
		banners:    cfg.Banners,
		settings:   cfg.Settings,
		stats:      cfg.Stats,
		auth:       cfg.Auth,
		payments:   cfg.Payments,
		mail:       cfg.Mail,
		images:     cfg.Images,
	}
}

// RegisterRoutes mounts every API route on the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	protect := h.auth.Protect()
	admin := h.auth.RequireAdmin()

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.GET("/me", protect, h.me)
	}

	products := api.Group("/products")
	{
		products.GET("", h.auth.OptionalAuth(), h.listProducts)
		products.GET("/:id", h.getProduct)
		products.POST("", protect, admin, h.createProduct)
		products.PUT("/:id", protect, admin, h.updateProduct)
		products.DELETE("/:id", protect, admin, h.deleteProduct)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.listCategories)
		categories.GET("/:id", h.getCategory)
		categories.POST("", protect, admin, h.createCategory)
		categories.PUT("/:id", protect, admin, h.updateCategory)
		categories.DELETE("/:id", protect, admin, h.deleteCategory)
	}

	coupons := api.Group("/coupons")
	{
		coupons.POST("/validate", h.validateCoupon)
		coupons.POST("/apply", h.applyCoupon)
		coupons.GET("", protect, admin, h.listCoupons)
		coupons.GET("/:id", protect, admin, h.getCoupon)
		coupons.POST("", protect, admin, h.createCoupon)
		coupons.PUT("/:id", protect, admin, h.updateCoupon)
		coupons.DELETE("/:id", protect, admin, h.deleteCoupon)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", h.auth.OptionalAuth(), h.createOrder)
		orders.GET("", protect, admin, h.listOrders)
		orders.GET("/:userId", protect, h.listUserOrders)
		orders.PUT("/:id", protect, admin, h.updateOrderStatus)
	}

	users := api.Group("/users", protect, admin)
	{
		users.GET("", h.listUsers)
		users.GET("/:id", h.getUser)
		users.PUT("/:id/role", h.updateUserRole)
		users.DELETE("/:id", h.deleteUser)
	}

	banners := api.Group("/banners")
	{
		banners.GET("", h.listBanners)
		banners.GET("/admin", protect, admin, h.listBannersAdmin)
		banners.GET("/:id", h.getBanner)
		banners.POST("", protect, admin, h.createBanner)
		banners.PUT("/:id", protect, admin, h.updateBanner)
		banners.DELETE("/:id", protect, admin, h.deleteBanner)
	}

	settingsGroup := api.Group("/settings")
	{
		settingsGroup.GET("", h.getSettings)
		settingsGroup.PUT("", protect, admin, h.updateSettings)
	}

	api.POST("/upload", protect, admin, h.uploadImage)
	api.POST("/contact", h.sendContact)
	api.POST("/create-checkout-session", h.createCheckoutSession)
	api.POST("/webhook", h.paymentWebhook)

	dashboard := api.Group("/dashboard", protect, admin)
	{
		dashboard.GET("/stats", h.dashboardStats)
		dashboard.GET("/recent-orders", h.dashboardRecentOrders)
	}
}
