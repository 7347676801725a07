// Package views holds the embedded page templates and static assets.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ngo-cms/pkg/models"
	"ngo-cms/pkg/services"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

func Templates() *template.Template {
	return template.Must(template.New("views").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html"))
}

func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"projectCount": ProjectCount,
		"join":         strings.Join,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("January 2, 2006")
		},
	}
}

// ProjectCount is the archive count badge.
func ProjectCount(n int) string {
	if n == 1 {
		return "1 Project"
	}
	return fmt.Sprintf("%d Projects", n)
}

// Site is the chrome shared by every page.
type Site struct {
	Name        string
	LogoURL     string
	HomeURL     string
	ProjectsURL string
	NoticesURL  string
	User        string
}

type Link struct {
	Title string
	URL   string
}

type ProjectCard struct {
	Title    string
	URL      string
	Thumb    string
	Classes  string
	Excerpt  string
	Statuses []models.Term
	Details  models.ProjectDetails
}

type NoticeItem struct {
	Title   string
	URL     string
	Date    time.Time
	Excerpt string
	HasPDF  bool
}

// StatusNav cross-links the ongoing and completed archives.
type StatusNav struct {
	Ongoing         models.Term
	OngoingURL      string
	Completed       models.Term
	CompletedURL    string
	ArchiveURL      string
	ActiveOngoing   bool
	ActiveCompleted bool
}

type Pager struct {
	services.Pagination
	BaseURL string
}

func (p Pager) URL(page int) string {
	if page <= 1 {
		return p.BaseURL
	}
	return p.BaseURL + "?page=" + strconv.Itoa(page)
}
