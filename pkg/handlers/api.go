package handlers

import (
	"net/http"
	"os"
	"time"

	"ngo-cms/pkg/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func accessToken(c *gin.Context) string {
	token, _ := sessions.Default(c).Get(sessionToken).(string)
	return token
}

func (h *Handler) HandleSync(c *gin.Context) {
	log, err := services.SyncRepo(accessToken(c), h.index)
	if err != nil {
		c.JSON(500, gin.H{"status": "error", "log": log})
		return
	}
	c.JSON(200, gin.H{"status": "ok", "log": log})
}

func (h *Handler) HandlePublish(c *gin.Context) {
	log, err := services.PublishRepo(accessToken(c))
	if err != nil {
		c.JSON(500, gin.H{"status": "error", "log": log})
		return
	}
	c.JSON(200, gin.H{"status": "ok", "log": log})
}

func (h *Handler) ListRecords(c *gin.Context) {
	typ := c.Query("type")
	if _, ok := h.registry.Collection(typ); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown record type"})
		return
	}
	records, err := h.index.AllRecords(typ)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to fetch records"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetRecordMeta returns the stored meta of one record.
func (h *Handler) GetRecordMeta(c *gin.Context) {
	rec, err := h.index.Record(c.Query("type"), c.Query("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	meta, err := h.meta.All(rec)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to read meta"})
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (h *Handler) CreateRecord(c *gin.Context) {
	var req struct {
		Type  string `json:"type" binding:"required"`
		Slug  string `json:"slug" binding:"required"`
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid JSON"})
		return
	}
	col, ok := h.registry.Collection(req.Type)
	if !ok {
		c.JSON(400, gin.H{"error": "Unknown record type"})
		return
	}

	overrides := map[string]interface{}{"date": time.Now().Format(time.RFC3339)}
	if req.Title != "" {
		overrides["title"] = req.Title
	}
	path, err := services.CreateRecord(col, req.Slug, overrides)
	if err != nil {
		if os.IsExist(err) {
			c.JSON(409, gin.H{"error": "Record already exists"})
		} else {
			c.JSON(500, gin.H{"error": "Create failed: " + err.Error()})
		}
		return
	}

	h.index.InvalidateCache()
	c.JSON(200, gin.H{"status": "created", "path": path})
}

func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"collections": h.registry.Collections(),
		"taxonomies":  h.registry.Taxonomies(),
		"shortcodes":  h.shortcodes.Names(),
	})
}
