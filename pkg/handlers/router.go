package handlers

import (
	"net/http"
	"strings"

	"ngo-cms/pkg/logging"
	"ngo-cms/pkg/services"
	"ngo-cms/pkg/views"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
)

// NewRouter wires every route. Public prefixes come from the registry.
func NewRouter(h *Handler, sessionSecret []byte) *gin.Engine {
	r := gin.New()
	r.Use(logging.GinLogger(), gin.Recovery())

	if len(sessionSecret) == 0 {
		logging.L().Warn("SESSION_SECRET is empty; sessions will not survive a restart")
		sessionSecret = securecookie.GenerateRandomKey(32)
	}
	store := cookie.NewStore(sessionSecret)
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("ngo_session", store))

	r.SetHTMLTemplate(views.Templates())
	r.StaticFS("/static", views.Static())
	r.GET(strings.TrimSuffix(services.MediaURLPrefix, "/")+"/*filepath", h.ServeMedia)

	r.GET("/", h.Home)

	public := r.Group("/")
	public.Use(h.RoutesReady)
	for _, col := range h.registry.Collections() {
		if !col.Public {
			continue
		}
		base := h.registry.ArchiveURL(col.Name)
		public.GET(base, h.Archive(col.Name))
		public.GET(base+":slug/", h.Single(col.Name))
	}
	for _, tax := range h.registry.Taxonomies() {
		public.GET(h.registry.TermLink(tax.Name, ":term"), h.TermArchive(tax.Name))
	}

	r.GET("/login", h.LoginPage)
	r.GET("/login/github", h.GithubLogin)
	r.GET("/auth/callback", h.AuthCallback)
	r.GET("/logout", h.Logout)

	admin := r.Group("/admin")
	admin.Use(AuthRequired)
	{
		admin.GET("/", h.AdminIndex)
		admin.GET("/projects", h.AdminProjects)
		admin.GET("/projects/:slug", h.EditProject)
		admin.POST("/projects/:slug", h.SaveProject)
		admin.GET("/notices/:slug", h.EditNotice)
		admin.POST("/notices/:slug", h.SaveNotice)
		admin.GET("/playlists/:slug", h.EditPlaylist)
		admin.POST("/playlists/:slug", h.SavePlaylist)
		admin.GET("/settings/notices", h.EditNoticeSettings)
		admin.POST("/settings/notices", h.SaveNoticeSettings)

		maintenance := admin.Group("/maintenance")
		maintenance.Use(EditorRequired)
		{
			maintenance.GET("/check", h.Check)
			maintenance.POST("/flush", h.Flush)
		}

		api := admin.Group("/api")
		api.Use(EditorRequired)
		{
			api.GET("/config", h.GetConfig)
			api.GET("/records", h.ListRecords)
			api.GET("/meta", h.GetRecordMeta)
			api.POST("/create", h.CreateRecord)
			api.POST("/sync", h.HandleSync)
			api.POST("/publish", h.HandlePublish)
			api.GET("/media", h.ListMedia)
			api.POST("/media", h.UploadMedia)
			api.POST("/media/delete", h.DeleteMedia)
		}
	}

	r.NoRoute(h.notFound)
	return r
}

// RoutesReady answers 404 for content routes until a flush has recorded the
// current prefixes.
func (h *Handler) RoutesReady(c *gin.Context) {
	if !h.index.RoutesReady() {
		h.notFound(c)
		c.Abort()
		return
	}
	c.Next()
}
