package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/eclora/eclora-api/internal/auth"
	"github.com/eclora/eclora-api/internal/domain/user"
)

type updateRoleRequest struct {
	Role user.Role `json:"role" binding:"required"`
}

type userWithStatsDTO struct {
	userDTO
	OrderCount int             `json:"orderCount"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.ListWithStats(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}

	dtos := make([]userWithStatsDTO, len(users))
	for i, u := range users {
		dtos[i] = userWithStatsDTO{
			userDTO:    toUserDTO(&u.User),
			OrderCount: u.OrderCount,
			TotalSpent: u.TotalSpent,
		}
	}
	respondData(c, http.StatusOK, "Users fetched successfully", dtos)
}

func (h *Handler) getUser(c *gin.Context) {
	id := c.Param("id")
	u, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		respondInternal(c, err)
		return
	}

	stats, err := h.users.StatsFor(c.Request.Context(), id)
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "", userWithStatsDTO{
		userDTO:    toUserDTO(u),
		OrderCount: stats.OrderCount,
		TotalSpent: stats.TotalSpent,
	})
}

func (h *Handler) updateUserRole(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "role is required")
		return
	}
	if !user.ValidRole(req.Role) {
		respondError(c, http.StatusBadRequest, "role must be user or admin")
		return
	}

	id := c.Param("id")
	if err := h.users.UpdateRole(c.Request.Context(), id, req.Role); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		respondInternal(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "User role updated successfully")
}

// deleteUser removes an account. Admins cannot delete themselves.
func (h *Handler) deleteUser(c *gin.Context) {
	id := c.Param("id")
	if claims := auth.ClaimsFrom(c); claims != nil && claims.UserID == id {
		respondError(c, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		respondInternal(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "User deleted successfully")
}
