package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/eclora/eclora-api/internal/domain/banner"
)

type bannerRequest struct {
	Title    string `json:"title" binding:"required"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image" binding:"required"`
	CTAText  string `json:"ctaText"`
	CTALink  string `json:"ctaLink"`
	Priority int    `json:"priority"`
	IsActive *bool  `json:"isActive"`
}

type bannerDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Image     string    `json:"image"`
	CTAText   string    `json:"ctaText"`
	CTALink   string    `json:"ctaLink"`
	Priority  int       `json:"priority"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toBannerDTO(b *banner.Banner) bannerDTO {
	return bannerDTO{
		ID:        b.ID,
		Title:     b.Title,
		Subtitle:  b.Subtitle,
		Image:     b.Image,
		CTAText:   b.CTAText,
		CTALink:   b.CTALink,
		Priority:  b.Priority,
		IsActive:  b.Active,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (h *Handler) respondBannerList(c *gin.Context, activeOnly bool) {
	banners, err := h.banners.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondInternal(c, err)
		return
	}
	dtos := make([]bannerDTO, len(banners))
	for i := range banners {
		dtos[i] = toBannerDTO(&banners[i])
	}
	respondData(c, http.StatusOK, "Banners fetched successfully", dtos)
}

func (h *Handler) listBanners(c *gin.Context) {
	h.respondBannerList(c, true)
}

func (h *Handler) listBannersAdmin(c *gin.Context) {
	h.respondBannerList(c, false)
}

func (h *Handler) getBanner(c *gin.Context) {
	b, err := h.banners.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, banner.ErrNotFound) {
			respondError(c, http.StatusNotFound, "banner not found")
			return
		}
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "", toBannerDTO(b))
}

func (h *Handler) createBanner(c *gin.Context) {
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "title and image are required")
		return
	}

	b := &banner.Banner{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Image:    req.Image,
		CTAText:  req.CTAText,
		CTALink:  req.CTALink,
		Priority: req.Priority,
		Active:   true,
	}
	if req.IsActive != nil {
		b.Active = *req.IsActive
	}

	if err := h.banners.Create(c.Request.Context(), b); err != nil {
		respondInternal(c, err)
		return
	}

	created, err := h.banners.GetByID(c.Request.Context(), b.ID)
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusCreated, "Banner created successfully", toBannerDTO(created))
}

func (h *Handler) updateBanner(c *gin.Context) {
	id := c.Param("id")
	existing, err := h.banners.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, banner.ErrNotFound) {
			respondError(c, http.StatusNotFound, "banner not found")
			return
		}
		respondInternal(c, err)
		return
	}

	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "title and image are required")
		return
	}

	existing.Title = req.Title
	existing.Subtitle = req.Subtitle
	existing.Image = req.Image
	existing.CTAText = req.CTAText
	existing.CTALink = req.CTALink
	existing.Priority = req.Priority
	if req.IsActive != nil {
		existing.Active = *req.IsActive
	}

	if err := h.banners.Update(c.Request.Context(), existing); err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "Banner updated successfully", toBannerDTO(existing))
}

func (h *Handler) deleteBanner(c *gin.Context) {
	if err := h.banners.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, banner.ErrNotFound) {
			respondError(c, http.StatusNotFound, "banner not found")
			return
		}
		respondInternal(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Banner deleted successfully")
}
