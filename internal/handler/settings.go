package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eclora/eclora-api/internal/domain/settings"
)

type settingsRequest struct {
	StoreName        string            `json:"storeName" binding:"required"`
	StoreEmail       string            `json:"storeEmail" binding:"required,email"`
	HomepageTitle    string            `json:"homepageTitle"`
	HomepageSubtitle string            `json:"homepageSubtitle"`
	FooterText       string            `json:"footerText"`
	Extras           map[string]string `json:"extras"`
}

type settingsDTO struct {
	StoreName        string            `json:"storeName"`
	StoreEmail       string            `json:"storeEmail"`
	HomepageTitle    string            `json:"homepageTitle"`
	HomepageSubtitle string            `json:"homepageSubtitle"`
	FooterText       string            `json:"footerText"`
	Extras           map[string]string `json:"extras"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func toSettingsDTO(s *settings.Settings) settingsDTO {
	extras := s.Extras
	if extras == nil {
		extras = map[string]string{}
	}
	return settingsDTO{
		StoreName:        s.StoreName,
		StoreEmail:       s.StoreEmail,
		HomepageTitle:    s.HomepageTitle,
		HomepageSubtitle: s.HomepageSubtitle,
		FooterText:       s.FooterText,
		Extras:           extras,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (h *Handler) getSettings(c *gin.Context) {
	s, err := h.settings.Get(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "", toSettingsDTO(s))
}

func (h *Handler) updateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "storeName and storeEmail are required")
		return
	}

	updated, err := h.settings.Update(c.Request.Context(), &settings.Settings{
		StoreName:        req.StoreName,
		StoreEmail:       req.StoreEmail,
		HomepageTitle:    req.HomepageTitle,
		HomepageSubtitle: req.HomepageSubtitle,
		FooterText:       req.FooterText,
		Extras:           req.Extras,
	})
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "Settings updated successfully", toSettingsDTO(updated))
}
