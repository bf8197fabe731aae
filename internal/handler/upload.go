package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 10 << 20 // 10 MiB

// uploadImage accepts a multipart image under the "image" field, stores it,
// and returns its durable URL.
func (h *Handler) uploadImage(c *gin.Context) {
	if h.images == nil {
		respondError(c, http.StatusServiceUnavailable, "image uploads are not configured")
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image file is required")
		return
	}
	if header.Size > maxUploadSize {
		respondError(c, http.StatusBadRequest, "image must be smaller than 10MB")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "only image uploads are allowed")
		return
	}

	file, err := header.Open()
	if err != nil {
		respondInternal(c, err)
		return
	}
	defer file.Close()

	url, err := h.images.Upload(c.Request.Context(), header.Filename, contentType, file)
	if err != nil {
		respondInternal(c, err)
		return
	}
	respondData(c, http.StatusOK, "Image uploaded successfully", gin.H{"url": url})
}
