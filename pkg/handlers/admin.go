package handlers

import (
	"fmt"
	"net/http"
	"time"

	"ngo-cms/pkg/config"
	"ngo-cms/pkg/logging"
	"ngo-cms/pkg/models"
	"ngo-cms/pkg/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Nonce actions
const (
	actionProjectDetails = "save_project_details"
	actionNoticePDF      = "save_notice_pdf"
	actionPlaylist       = "save_playlist"
	actionNoticeSettings = "save_notice_settings"
	actionFlush          = "flush_routes"
)

var displayModes = []string{"grid", "list", "carousel"}

type adminRow struct {
	Title     string
	Slug      string
	Date      time.Time
	Draft     bool
	Dirty     bool
	EditURL   string
	Shortcode string
}

type adminSection struct {
	Label   string
	Records []adminRow
}

func editURL(typ, slug string) string {
	switch typ {
	case models.TypeProject:
		return "/admin/projects/" + slug
	case models.TypeNotice:
		return "/admin/notices/" + slug
	case models.TypePlaylist:
		return "/admin/playlists/" + slug
	}
	return ""
}

func shortcodeFor(typ, slug string) string {
	switch typ {
	case models.TypeGallery:
		return fmt.Sprintf(`[gallery_photo id="%s"]`, slug)
	case models.TypePlaylist:
		return fmt.Sprintf(`[playlist_embed id="%s"]`, slug)
	}
	return ""
}

func (h *Handler) adminSections(types ...string) ([]adminSection, error) {
	var out []adminSection
	for _, col := range h.registry.Collections() {
		if len(types) > 0 && !contains(types, col.Name) {
			continue
		}
		records, err := h.index.AllRecords(col.Name)
		if err != nil {
			return nil, err
		}
		section := adminSection{Label: col.Label}
		for _, rec := range records {
			section.Records = append(section.Records, adminRow{
				Title:     rec.Title,
				Slug:      rec.Slug,
				Date:      rec.Date,
				Draft:     rec.Draft,
				Dirty:     rec.IsDirty,
				EditURL:   editURL(col.Name, rec.Slug),
				Shortcode: shortcodeFor(col.Name, rec.Slug),
			})
		}
		out = append(out, section)
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (h *Handler) renderAdminIndex(c *gin.Context, types ...string) {
	sections, err := h.adminSections(types...)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_index.html", gin.H{
		"Title":       "Admin",
		"Sections":    sections,
		"RoutesReady": h.index.RoutesReady(),
		"FlushNonce":  h.nonces.Create(actionFlush, currentUser(c)),
		"Flash":       flash(c),
	})
}

func (h *Handler) AdminIndex(c *gin.Context) {
	h.renderAdminIndex(c)
}

func (h *Handler) AdminProjects(c *gin.Context) {
	h.renderAdminIndex(c, models.TypeProject)
}

func flash(c *gin.Context) string {
	switch {
	case c.Query("saved") != "":
		return "Saved."
	case c.Query("flushed") != "":
		return "Routes flushed."
	case c.Query("error") != "":
		return "The submitted values were not valid."
	}
	return ""
}

// allowed reports whether a form submission may be saved: the token must
// match action and user, and the user must hold the edit capability.
func (h *Handler) allowed(c *gin.Context, field, action string) bool {
	user := currentUser(c)
	return h.nonces.Verify(c.PostForm(field), action, user) && config.CanEdit(user)
}

func (h *Handler) adminRecord(c *gin.Context, typ string) (*models.Record, bool) {
	rec, err := h.index.Record(typ, c.Param("slug"))
	if err != nil {
		h.notFound(c)
		return nil, false
	}
	return rec, true
}

func (h *Handler) EditProject(c *gin.Context) {
	rec, ok := h.adminRecord(c, models.TypeProject)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "admin_project.html", gin.H{
		"Title":   "Edit " + rec.Title,
		"Record":  rec,
		"Details": h.meta.ProjectDetails(rec),
		"Nonce":   h.nonces.Create(actionProjectDetails+":"+rec.Slug, currentUser(c)),
		"ViewURL": h.registry.Permalink(models.TypeProject, rec.Slug),
		"Flash":   flash(c),
	})
}

// SaveProject stores the fields present in the form. A bad token or missing
// capability saves nothing and redirects back without comment.
func (h *Handler) SaveProject(c *gin.Context) {
	rec, ok := h.adminRecord(c, models.TypeProject)
	if !ok {
		return
	}
	back := "/admin/projects/" + rec.Slug
	if !h.allowed(c, "project_details_nonce", actionProjectDetails+":"+rec.Slug) {
		c.Redirect(http.StatusSeeOther, back)
		return
	}
	if err := h.meta.SaveProjectDetails(rec, c.Request.PostForm); err != nil {
		logging.L().Error("saving project details", zap.String("slug", rec.Slug), zap.Error(err))
		c.Redirect(http.StatusSeeOther, back+"?error=1")
		return
	}
	c.Redirect(http.StatusSeeOther, back+"?saved=1")
}

func (h *Handler) EditNotice(c *gin.Context) {
	rec, ok := h.adminRecord(c, models.TypeNotice)
	if !ok {
		return
	}
	files, err := h.media.ListMediaFiles()
	if err != nil {
		h.serverError(c, err)
		return
	}
	var pdfs []models.Attachment
	for _, f := range files {
		if f.IsPDF() {
			pdfs = append(pdfs, f)
		}
	}

	pdfID := h.meta.NoticePDF(rec)
	data := gin.H{
		"Title":   "Edit " + rec.Title,
		"Record":  rec,
		"PDFs":    pdfs,
		"PDFID":   pdfID,
		"Nonce":   h.nonces.Create(actionNoticePDF+":"+rec.Slug, currentUser(c)),
		"ViewURL": h.registry.Permalink(models.TypeNotice, rec.Slug),
		"Flash":   flash(c),
	}
	if att, err := h.media.Get(pdfID); err == nil {
		data["PDF"] = att
	}
	h.render(c, http.StatusOK, "admin_notice.html", data)
}

func (h *Handler) SaveNotice(c *gin.Context) {
	rec, ok := h.adminRecord(c, models.TypeNotice)
	if !ok {
		return
	}
	back := "/admin/notices/" + rec.Slug
	if !h.allowed(c, "notice_pdf_nonce", actionNoticePDF+":"+rec.Slug) {
		c.Redirect(http.StatusSeeOther, back)
		return
	}
	id := c.PostForm("notice_pdf_id")
	if id != "" {
		att, err := h.media.Get(id)
		if err != nil || !att.IsPDF() {
			c.Redirect(http.StatusSeeOther, back+"?error=1")
			return
		}
	}
	if err := h.meta.SetNoticePDF(rec, id); err != nil {
		logging.L().Error("saving notice pdf", zap.String("slug", rec.Slug), zap.Error(err))
		c.Redirect(http.StatusSeeOther, back+"?error=1")
		return
	}
	c.Redirect(http.StatusSeeOther, back+"?saved=1")
}

type playlistForm struct {
	URL         string `form:"playlist_url" binding:"omitempty,url"`
	ID          string `form:"playlist_id" binding:"omitempty,max=64"`
	DisplayMode string `form:"display_mode" binding:"required,oneof=grid list carousel"`
}

func (h *Handler) EditPlaylist(c *gin.Context) {
	rec, ok := h.adminRecord(c, models.TypePlaylist)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "admin_playlist.html", gin.H{
		"Title":    "Edit " + rec.Title,
		"Record":   rec,
		"Settings": h.meta.Playlist(rec),
		"Modes":    displayModes,
		"Nonce":    h.nonces.Create(actionPlaylist+":"+rec.Slug, currentUser(c)),
		"Flash":    flash(c),
	})
}

func (h *Handler) SavePlaylist(c *gin.Context) {
	rec, ok := h.adminRecord(c, models.TypePlaylist)
	if !ok {
		return
	}
	back := "/admin/playlists/" + rec.Slug
	if !h.allowed(c, "playlist_nonce", actionPlaylist+":"+rec.Slug) {
		c.Redirect(http.StatusSeeOther, back)
		return
	}
	var form playlistForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusSeeOther, back+"?error=1")
		return
	}
	err := h.meta.SavePlaylist(rec, services.PlaylistSettings{
		URL:         form.URL,
		ID:          form.ID,
		DisplayMode: form.DisplayMode,
	})
	if err != nil {
		logging.L().Error("saving playlist", zap.String("slug", rec.Slug), zap.Error(err))
		c.Redirect(http.StatusSeeOther, back+"?error=1")
		return
	}
	c.Redirect(http.StatusSeeOther, back+"?saved=1")
}

func (h *Handler) EditNoticeSettings(c *gin.Context) {
	h.render(c, http.StatusOK, "admin_settings.html", gin.H{
		"Title":    "Notice Settings",
		"Settings": services.LoadNoticeSettings(h.options),
		"Nonce":    h.nonces.Create(actionNoticeSettings, currentUser(c)),
		"Flash":    flash(c),
	})
}

func (h *Handler) SaveNoticeSettings(c *gin.Context) {
	back := "/admin/settings/notices"
	if !h.allowed(c, "_nonce", actionNoticeSettings) {
		c.Redirect(http.StatusSeeOther, back)
		return
	}
	var s services.NoticeSettings
	if err := c.ShouldBind(&s); err != nil {
		c.Redirect(http.StatusSeeOther, back+"?error=1")
		return
	}
	if err := services.SaveNoticeSettings(h.options, s); err != nil {
		logging.L().Error("saving notice settings", zap.Error(err))
		c.Redirect(http.StatusSeeOther, back+"?error=1")
		return
	}
	c.Redirect(http.StatusSeeOther, back+"?saved=1")
}
