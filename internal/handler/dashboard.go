package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type dashboardStatsDTO struct {
	TotalUsers    int             `json:"totalUsers"`
	TotalProducts int             `json:"totalProducts"`
	TotalOrders   int             `json:"totalOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

func (h *Handler) dashboardStats(c *gin.Context) {
	s, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "", dashboardStatsDTO{
		TotalUsers:    s.TotalUsers,
		TotalProducts: s.TotalProducts,
		TotalOrders:   s.TotalOrders,
		TotalRevenue:  s.TotalRevenue,
	})
}

const recentOrderCount = 10

// dashboardRecentOrders returns the latest orders for the admin overview.
func (h *Handler) dashboardRecentOrders(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context(), "")
	if err != nil {
		respondInternal(c, err)
		return
	}
	if len(orders) > recentOrderCount {
		orders = orders[:recentOrderCount]
	}
	respondData(c, http.StatusOK, "", toOrderDTOs(orders))
}
