package handlers

import (
	"net/http"

	"ngo-cms/pkg/logging"
	"ngo-cms/pkg/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) Check(c *gin.Context) {
	report := services.CheckInstall(h.index, h.registry)
	h.render(c, http.StatusOK, "admin_check.html", gin.H{
		"Title":      "Installation Check",
		"Report":     report,
		"FlushNonce": h.nonces.Create(actionFlush, currentUser(c)),
		"Flash":      flash(c),
	})
}

func (h *Handler) Flush(c *gin.Context) {
	if !h.nonces.Verify(c.PostForm("_nonce"), actionFlush, currentUser(c)) {
		c.Redirect(http.StatusSeeOther, "/admin/maintenance/check")
		return
	}
	if err := services.Flush(h.index, h.options, h.registry); err != nil {
		logging.L().Error("flush failed", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/admin/maintenance/check?error=1")
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/maintenance/check?flushed=1")
}
