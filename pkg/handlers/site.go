package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"ngo-cms/pkg/config"
	"ngo-cms/pkg/models"
	"ngo-cms/pkg/services"
	"ngo-cms/pkg/views"

	"github.com/gin-gonic/gin"
)

const homeProjects = 3

func (h *Handler) Archive(typ string) gin.HandlerFunc {
	switch typ {
	case models.TypeProject:
		return h.ProjectArchive
	case models.TypeNotice:
		return h.NoticeArchive
	}
	return h.notFound
}

func (h *Handler) Single(typ string) gin.HandlerFunc {
	switch typ {
	case models.TypeProject:
		return h.ProjectSingle
	case models.TypeNotice:
		return h.NoticeSingle
	}
	return h.notFound
}

func (h *Handler) TermArchive(taxonomy string) gin.HandlerFunc {
	switch taxonomy {
	case models.TaxProjectStatus:
		return h.StatusArchive
	case models.TaxProjectCategory:
		return h.CategoryArchive
	}
	return h.notFound
}

func (h *Handler) projectCard(rec *models.Record) views.ProjectCard {
	classes := append([]string{"project-card"}, services.StatusClasses(rec)...)
	return views.ProjectCard{
		Title:    rec.Title,
		URL:      h.registry.Permalink(models.TypeProject, rec.Slug),
		Thumb:    h.imageURL(rec.FeaturedImage),
		Classes:  strings.Join(classes, " "),
		Excerpt:  rec.Excerpt,
		Statuses: h.index.RecordTerms(rec, models.TaxProjectStatus),
		Details:  h.meta.ProjectDetails(rec),
	}
}

func (h *Handler) projectCards(records []*models.Record) []views.ProjectCard {
	cards := make([]views.ProjectCard, 0, len(records))
	for _, rec := range records {
		cards = append(cards, h.projectCard(rec))
	}
	return cards
}

func (h *Handler) Home(c *gin.Context) {
	projects, err := h.index.Records(models.TypeProject)
	if err != nil {
		h.serverError(c, err)
		return
	}
	if len(projects) > homeProjects {
		projects = projects[:homeProjects]
	}
	h.render(c, http.StatusOK, "home.html", gin.H{
		"LatestNotices": template.HTML(h.shortcodes.Expand(c.Request.Context(), "[latest_notice count=3]")),
		"Cards":         h.projectCards(projects),
	})
}

func (h *Handler) ProjectArchive(c *gin.Context) {
	records, err := h.index.Records(models.TypeProject)
	if err != nil {
		h.serverError(c, err)
		return
	}
	terms, err := h.index.Terms(models.TaxProjectStatus)
	if err != nil {
		h.serverError(c, err)
		return
	}

	p := services.Paginate(len(records), queryPage(c), config.PostsPerPage)
	h.render(c, http.StatusOK, "projects_archive.html", gin.H{
		"Title":   "Projects",
		"Filters": services.NonEmptyTerms(terms),
		"Cards":   h.projectCards(services.Window(records, p)),
		"Pager":   views.Pager{Pagination: p, BaseURL: h.registry.ArchiveURL(models.TypeProject)},
	})
}

func (h *Handler) ProjectSingle(c *gin.Context) {
	rec, err := h.index.Record(models.TypeProject, c.Param("slug"))
	if err != nil || !rec.Published() {
		h.notFound(c)
		return
	}
	published, err := h.index.Records(models.TypeProject)
	if err != nil {
		h.serverError(c, err)
		return
	}

	card := h.projectCard(rec)
	data := gin.H{
		"Title":      rec.Title,
		"Project":    card,
		"Body":       h.renderBody(c, rec),
		"Goals":      services.Paragraphs(card.Details.Goals),
		"Outcomes":   card.Details.OutcomeList(),
		"ArchiveURL": h.registry.ArchiveURL(models.TypeProject),
	}

	var categories []views.Link
	for _, t := range h.index.RecordTerms(rec, models.TaxProjectCategory) {
		categories = append(categories, views.Link{Title: t.Name, URL: h.registry.TermLink(t.Taxonomy, t.Slug)})
	}
	data["Categories"] = categories

	prev, next := services.Adjacent(published, rec.Slug)
	if prev != nil {
		data["Prev"] = &views.Link{Title: prev.Title, URL: h.registry.Permalink(models.TypeProject, prev.Slug)}
	}
	if next != nil {
		data["Next"] = &views.Link{Title: next.Title, URL: h.registry.Permalink(models.TypeProject, next.Slug)}
	}
	h.render(c, http.StatusOK, "project_single.html", data)
}

func (h *Handler) StatusArchive(c *gin.Context) {
	term, err := h.index.Term(models.TaxProjectStatus, c.Param("term"))
	if err != nil {
		h.notFound(c)
		return
	}
	data, ok := h.termArchive(c, term)
	if !ok {
		return
	}
	data["Heading"] = services.StatusHeading(*term)
	data["Description"] = services.StatusDescription(*term)

	ongoing, errOngoing := h.index.Term(models.TaxProjectStatus, services.StatusOngoing)
	completed, errCompleted := services.CompletedTerm(h.index)
	if errOngoing == nil && errCompleted == nil {
		data["Nav"] = &views.StatusNav{
			Ongoing:         *ongoing,
			OngoingURL:      h.registry.TermLink(models.TaxProjectStatus, ongoing.Slug),
			Completed:       *completed,
			CompletedURL:    h.registry.TermLink(models.TaxProjectStatus, completed.Slug),
			ArchiveURL:      h.registry.ArchiveURL(models.TypeProject),
			ActiveOngoing:   term.Slug == services.StatusOngoing,
			ActiveCompleted: services.IsCompletedSlug(term.Slug),
		}
	}
	h.render(c, http.StatusOK, "term_archive.html", data)
}

func (h *Handler) CategoryArchive(c *gin.Context) {
	term, err := h.index.Term(models.TaxProjectCategory, c.Param("term"))
	if err != nil {
		h.notFound(c)
		return
	}
	data, ok := h.termArchive(c, term)
	if !ok {
		return
	}
	data["Heading"] = term.Name
	data["Description"] = term.Description
	h.render(c, http.StatusOK, "term_archive.html", data)
}

// termArchive builds the paginated card list shared by both taxonomy archives.
func (h *Handler) termArchive(c *gin.Context, term *models.Term) (gin.H, bool) {
	records, err := h.index.Records(models.TypeProject)
	if err != nil {
		h.serverError(c, err)
		return nil, false
	}
	family := []string{term.Slug}
	if tax, ok := h.registry.Taxonomy(term.Taxonomy); ok && tax.Hierarchical {
		terms, err := h.index.Terms(term.Taxonomy)
		if err != nil {
			h.serverError(c, err)
			return nil, false
		}
		family = services.TermFamily(terms, term.Slug)
	}
	records = services.FilterByTerm(records, term.Taxonomy, family...)
	p := services.Paginate(len(records), queryPage(c), config.PostsPerPage)
	return gin.H{
		"Title": term.Name,
		"Term":  term,
		"Cards": h.projectCards(services.Window(records, p)),
		"Pager": views.Pager{Pagination: p, BaseURL: h.registry.TermLink(term.Taxonomy, term.Slug)},
	}, true
}

func (h *Handler) NoticeArchive(c *gin.Context) {
	records, err := h.index.Records(models.TypeNotice)
	if err != nil {
		h.serverError(c, err)
		return
	}
	p := services.Paginate(len(records), queryPage(c), config.PostsPerPage)

	var items []views.NoticeItem
	for _, rec := range services.Window(records, p) {
		excerpt := rec.Excerpt
		if excerpt == "" {
			body, _ := services.RenderMarkdown(rec.Body)
			excerpt = services.TrimWords(body, 25)
		}
		items = append(items, views.NoticeItem{
			Title:   rec.Title,
			URL:     h.registry.Permalink(models.TypeNotice, rec.Slug),
			Date:    rec.Date,
			Excerpt: excerpt,
			HasPDF:  h.meta.NoticePDF(rec) != "",
		})
	}
	h.render(c, http.StatusOK, "notices_archive.html", gin.H{
		"Title":        "Notices",
		"Notices":      items,
		"ReadMoreText": services.LoadNoticeSettings(h.options).ReadMoreText,
		"Pager":        views.Pager{Pagination: p, BaseURL: h.registry.ArchiveURL(models.TypeNotice)},
	})
}

func (h *Handler) NoticeSingle(c *gin.Context) {
	rec, err := h.index.Record(models.TypeNotice, c.Param("slug"))
	if err != nil || !rec.Published() {
		h.notFound(c)
		return
	}
	data := gin.H{
		"Title":       rec.Title,
		"Notice":      rec,
		"Body":        h.renderBody(c, rec),
		"ViewPDFText": services.LoadNoticeSettings(h.options).ViewPDFText,
		"ArchiveURL":  h.registry.ArchiveURL(models.TypeNotice),
	}
	if id := h.meta.NoticePDF(rec); id != "" {
		if att, err := h.media.Get(id); err == nil && att.IsPDF() {
			data["PDF"] = att
		}
	}
	h.render(c, http.StatusOK, "notice_single.html", data)
}
