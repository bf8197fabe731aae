package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/eclora/eclora-api/internal/auth"
	"github.com/eclora/eclora-api/internal/domain/user"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

func toUserDTO(u *user.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name, email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondInternal(c, err)
		return
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         user.RoleUser,
	}
	if err := h.users.Create(c.Request.Context(), u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			respondError(c, http.StatusConflict, "email already registered")
			return
		}
		respondInternal(c, err)
		return
	}

	token, err := h.auth.Issue(u)
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusCreated, "registered successfully",
		authResponse{Token: token, User: toUserDTO(u)})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	u, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondError(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		respondInternal(c, err)
		return
	}
	if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
		respondError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.auth.Issue(u)
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "logged in successfully",
		authResponse{Token: token, User: toUserDTO(u)})
}

func (h *Handler) me(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	u, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "", toUserDTO(u))
}
