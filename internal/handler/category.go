package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/eclora/eclora-api/internal/domain/category"
)

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type categoryDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toCategoryDTO(cat *category.Category) categoryDTO {
	return categoryDTO{
		ID:          cat.ID,
		Name:        cat.Name,
		Description: cat.Description,
		Image:       cat.Image,
		CreatedAt:   cat.CreatedAt,
		UpdatedAt:   cat.UpdatedAt,
	}
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}
	dtos := make([]categoryDTO, len(categories))
	for i := range categories {
		dtos[i] = toCategoryDTO(&categories[i])
	}
	respondData(c, http.StatusOK, "Categories fetched successfully", dtos)
}

func (h *Handler) getCategory(c *gin.Context) {
	cat, err := h.categories.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			respondError(c, http.StatusNotFound, "category not found")
			return
		}
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "", toCategoryDTO(cat))
}

func (h *Handler) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name is required")
		return
	}

	cat := &category.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := h.categories.Create(c.Request.Context(), cat); err != nil {
		if errors.Is(err, category.ErrDuplicateName) {
			respondError(c, http.StatusConflict, "category name already exists")
			return
		}
		respondInternal(c, err)
		return
	}

	created, err := h.categories.GetByID(c.Request.Context(), cat.ID)
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusCreated, "Category created successfully", toCategoryDTO(created))
}

func (h *Handler) updateCategory(c *gin.Context) {
	id := c.Param("id")
	existing, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, category.ErrNotFound) {
			respondError(c, http.StatusNotFound, "category not found")
			return
		}
		respondInternal(c, err)
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name is required")
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Image = req.Image

	if err := h.categories.Update(c.Request.Context(), existing); err != nil {
		if errors.Is(err, category.ErrDuplicateName) {
			respondError(c, http.StatusConflict, "category name already exists")
			return
		}
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "Category updated successfully", toCategoryDTO(existing))
}

func (h *Handler) deleteCategory(c *gin.Context) {
	id := c.Param("id")

	count, err := h.products.CountByCategory(c.Request.Context(), id)
	if err != nil {
		respondInternal(c, err)
		return
	}
	if count > 0 {
		respondError(c, http.StatusBadRequest, "cannot delete category with products")
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, category.ErrNotFound):
			respondError(c, http.StatusNotFound, "category not found")
		case errors.Is(err, category.ErrInUse):
			respondError(c, http.StatusBadRequest, "cannot delete category with products")
		default:
			respondInternal(c, err)
		}
		return
	}
	respondMessage(c, http.StatusOK, "Category deleted successfully")
}
