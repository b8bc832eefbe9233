package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cleancity/api"
)

const maxImageBytes = 10 << 20

// UploadMedia stores an uploaded report photo on disk and returns its
// public URL.
func (h *Handlers) UploadMedia(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "missing image file"})
		return
	}
	if file.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: "image too large"})
		return
	}

	if err := os.MkdirAll(h.mediaDir, 0o755); err != nil {
		log.Errorf("Failed to create media dir: %v", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to store image"})
		return
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.NewString() + ext

	if err := c.SaveUploadedFile(file, filepath.Join(h.mediaDir, name)); err != nil {
		log.Errorf("Failed to save upload: %v", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to store image"})
		return
	}

	c.JSON(http.StatusOK, api.UploadResponse{
		URL: fmt.Sprintf("%s/media/%s", h.baseURL, name),
	})
}
