package handlers

import (
	"errors"
	"net/http"

	"ngo-cms/pkg/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListMedia(c *gin.Context) {
	files, err := h.media.ListMediaFiles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list media: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, files)
}

func (h *Handler) UploadMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	info, err := h.media.SaveMediaFile(file, services.SanitizeText(c.PostForm("alt")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, info)
}

func (h *Handler) DeleteMedia(c *gin.Context) {
	var req struct {
		ID string `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if err := h.media.DeleteMediaFile(req.ID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) ServeMedia(c *gin.Context) {
	fullPath := services.SafeJoin(services.MediaDir(), "", c.Param("filepath"))
	if fullPath == "" {
		h.notFound(c)
		return
	}
	c.File(fullPath)
}
