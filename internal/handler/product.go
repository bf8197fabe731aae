package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eclora/eclora-api/internal/auth"
	"github.com/eclora/eclora-api/internal/domain/product"
	"github.com/eclora/eclora-api/internal/domain/user"
)

const (
	defaultPage  = 1
	defaultLimit = 12
	maxLimit     = 100
)

type productRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Brand       string          `json:"brand"`
	Image       string          `json:"image"`
	Images      []string        `json:"images"`
	Stock       int             `json:"stock" binding:"min=0"`
	IsActive    *bool           `json:"isActive"`
	Featured    bool            `json:"featured"`
}

type categoryRefDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type productDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    *categoryRefDTO `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Brand       string          `json:"brand"`
	Image       string          `json:"image"`
	Images      []string        `json:"images"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"isActive"`
	Featured    bool            `json:"featured"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func toProductDTO(p *product.Product) productDTO {
	dto := productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Brand:       p.Brand,
		Image:       p.Image,
		Images:      p.Images,
		Stock:       p.Stock,
		IsActive:    p.Active,
		Featured:    p.Featured,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if dto.Images == nil {
		dto.Images = []string{}
	}
	if p.Category != nil {
		dto.Category = &categoryRefDTO{
			ID:          p.Category.ID,
			Name:        p.Category.Name,
			Description: p.Category.Description,
		}
	}
	return dto
}

func toProductDTOs(products []product.Product) []productDTO {
	dtos := make([]productDTO, len(products))
	for i := range products {
		dtos[i] = toProductDTO(&products[i])
	}
	return dtos
}

// parseListFilter maps query parameters onto a ListFilter. The category
// parameter accepts either a category ID or a name; the repository resolves
// whichever form matches.
func parseListFilter(c *gin.Context) product.ListFilter {
	f := product.ListFilter{
		Brand:  c.Query("brand"),
		Name:   c.Query("product"),
		Search: c.Query("search"),
		Page:   defaultPage,
		Limit:  defaultLimit,
	}

	if cat := c.Query("category"); cat != "" {
		if _, err := uuid.Parse(cat); err == nil {
			f.CategoryID = cat
		} else {
			f.CategoryName = cat
		}
	}
	if v := c.Query("minPrice"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MinPrice = &d
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MaxPrice = &d
		}
	}
	if v := c.Query("featured"); v != "" {
		f.Featured = true
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		f.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		f.Limit = min(v, maxLimit)
	}
	return f
}

func (h *Handler) listProducts(c *gin.Context) {
	f := parseListFilter(c)

	claims := auth.ClaimsFrom(c)
	f.ActiveOnly = claims == nil || claims.Role != user.RoleAdmin

	products, total, err := h.products.List(c.Request.Context(), f)
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondList(c, "Products fetched successfully",
		toProductDTOs(products), newPagination(f.Page, f.Limit, total))
}

func (h *Handler) getProduct(c *gin.Context) {
	p, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "", toProductDTO(p))
}

func (h *Handler) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name, category and price are required")
		return
	}
	if req.Price.IsNegative() {
		respondError(c, http.StatusBadRequest, "price must not be negative")
		return
	}

	p := &product.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.Category,
		Price:       req.Price,
		Brand:       req.Brand,
		Image:       req.Image,
		Images:      req.Images,
		Stock:       req.Stock,
		Active:      true,
		Featured:    req.Featured,
	}
	if p.Brand == "" {
		p.Brand = product.DefaultBrand
	}
	if req.IsActive != nil {
		p.Active = *req.IsActive
	}

	if err := h.products.Create(c.Request.Context(), p); err != nil {
		respondInternal(c, err)
		return
	}

	created, err := h.products.GetByID(c.Request.Context(), p.ID)
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusCreated, "Product created successfully", toProductDTO(created))
}

func (h *Handler) updateProduct(c *gin.Context) {
	id := c.Param("id")
	existing, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(c, err)
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name, category and price are required")
		return
	}
	if req.Price.IsNegative() {
		respondError(c, http.StatusBadRequest, "price must not be negative")
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.CategoryID = req.Category
	existing.Price = req.Price
	existing.Image = req.Image
	existing.Images = req.Images
	existing.Stock = req.Stock
	existing.Featured = req.Featured
	if req.Brand != "" {
		existing.Brand = req.Brand
	}
	if req.IsActive != nil {
		existing.Active = *req.IsActive
	}

	if err := h.products.Update(c.Request.Context(), existing); err != nil {
		respondInternal(c, err)
		return
	}

	updated, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "Product updated successfully", toProductDTO(updated))
}

func (h *Handler) deleteProduct(c *gin.Context) {
	err := h.products.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Product deleted successfully")
}
