package handlers

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"ngo-cms/pkg/config"
	"ngo-cms/pkg/logging"
	"ngo-cms/pkg/models"
	"ngo-cms/pkg/schema"
	"ngo-cms/pkg/services"
	"ngo-cms/pkg/shortcode"
	"ngo-cms/pkg/store"
	"ngo-cms/pkg/views"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	sessionUser  = "user"
	sessionToken = "access_token"
	sessionState = "oauth_state"
)

type Deps struct {
	Registry   *schema.Registry
	Index      *services.Index
	Meta       *services.Meta
	Media      *services.Media
	Options    *store.OptionStore
	Nonces     *services.Nonces
	Shortcodes *shortcode.Expander
}

// Handler serves the public site and the admin surface.
type Handler struct {
	registry   *schema.Registry
	index      *services.Index
	meta       *services.Meta
	media      *services.Media
	options    *store.OptionStore
	nonces     *services.Nonces
	shortcodes *shortcode.Expander
}

func New(d Deps) *Handler {
	return &Handler{
		registry:   d.Registry,
		index:      d.Index,
		meta:       d.Meta,
		media:      d.Media,
		options:    d.Options,
		nonces:     d.Nonces,
		shortcodes: d.Shortcodes,
	}
}

func currentUser(c *gin.Context) string {
	if v, ok := sessions.Default(c).Get(sessionUser).(string); ok {
		return v
	}
	return ""
}

func (h *Handler) site(c *gin.Context) views.Site {
	return views.Site{
		Name:        config.SiteName,
		LogoURL:     h.imageURL(config.CustomLogo),
		HomeURL:     "/",
		ProjectsURL: h.registry.ArchiveURL(models.TypeProject),
		NoticesURL:  h.registry.ArchiveURL(models.TypeNotice),
		User:        currentUser(c),
	}
}

func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	data["Site"] = h.site(c)
	c.HTML(status, name, data)
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "not_found.html", gin.H{"Title": "Page not found"})
}

func (h *Handler) serverError(c *gin.Context, err error) {
	logging.L().Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.Error(err)
	h.render(c, http.StatusInternalServerError, "not_found.html", gin.H{
		"Title":   "Error",
		"Message": "Something went wrong while loading this page.",
	})
}

// imageURL resolves an attachment id. Values that already look like URLs pass through.
func (h *Handler) imageURL(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return h.media.URL(ref)
}

// renderBody turns a record body into HTML with shortcodes expanded.
func (h *Handler) renderBody(c *gin.Context, rec *models.Record) template.HTML {
	out, err := services.RenderMarkdown(rec.Body)
	if err != nil {
		logging.L().Warn("markdown render failed", zap.String("path", rec.Path), zap.Error(err))
		return ""
	}
	return template.HTML(h.shortcodes.Expand(c.Request.Context(), out))
}

func queryPage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
