package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// envelope is the JSON shape shared by every endpoint.
type envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *pagination `json:"pagination,omitempty"`
}

// pagination accompanies list responses.
type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func newPagination(page, limit, total int) *pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

func respondData(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondList(c *gin.Context, message string, data interface{}, p *pagination) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data, Pagination: p})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: true, Message: message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Message: message})
}

// respondInternal logs the error and returns a generic 500 so internals never
// leak to clients.
func respondInternal(c *gin.Context, err error) {
	zctx.From(c.Request.Context()).Error("Internal error", zap.Error(err))
	respondError(c, http.StatusInternalServerError, "internal server error")
}
