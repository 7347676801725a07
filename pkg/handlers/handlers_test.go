package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ngo-cms/pkg/config"
	"ngo-cms/pkg/models"
	"ngo-cms/pkg/schema"
	"ngo-cms/pkg/services"
	"ngo-cms/pkg/shortcode"
	"ngo-cms/pkg/store"
	"ngo-cms/pkg/youtube"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Fixtures
// =============================================================================

var testFiles = map[string]string{
	"content/taxonomies/project_status.yml": `- slug: ongoing
  name: Ongoing
- slug: previous
  name: Previous
- slug: completed
  name: Completed
- slug: planned
  name: Planned
`,
	"content/taxonomies/project_category.yml": `- slug: health
  name: Health
  description: Clinics and outreach.
`,
	"content/projects/water.md": `---
title: Clean Water
date: 2024-03-01
excerpt: Wells for three villages.
project_status: [ongoing]
project_category: [health]
---
We drill wells.`,
	"content/projects/school.md": `---
title: School Build
date: 2024-02-01
project_status: [previous]
---
Classrooms.`,
	"content/projects/clinic.md": `---
title: Rural Clinic
date: 2024-01-01
project_status: [completed]
---
A clinic.`,
	"content/projects/hidden.md": `---
title: Hidden Draft
date: 2024-04-01
draft: true
project_status: [ongoing]
---
Not yet.`,
	"content/notices/closure.md": `---
title: Office Closure
date: 2024-04-02
---
The office is closed on Friday.`,
}

type fixture struct {
	h       *Handler
	router  *gin.Engine
	index   *services.Index
	options *store.OptionStore
	meta    *services.Meta
}

func setup(t *testing.T, flush bool) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := t.TempDir()
	oldRepo, oldEditors := config.RepoPath, config.Editors
	config.RepoPath = repo
	config.Editors = nil
	t.Cleanup(func() {
		config.RepoPath = oldRepo
		config.Editors = oldEditors
	})

	for rel, content := range testFiles {
		full := filepath.Join(repo, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}

	db, err := store.Open(store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	registry := schema.Default()
	options := store.NewOptionStore(db)
	meta := services.NewMeta(store.NewMetaStore(db))
	media := services.NewMedia(store.NewAttachmentStore(db))
	index := services.NewIndex(registry, options)

	yt := youtube.NewClient(time.Second)
	feed := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(feed.Close)
	yt.FeedURL = feed.URL

	h := New(Deps{
		Registry: registry,
		Index:    index,
		Meta:     meta,
		Media:    media,
		Options:  options,
		Nonces:   services.NewNonces([]byte("nonce-secret-for-handler-tests!!")),
		Shortcodes: shortcode.New(shortcode.Deps{
			Repo:     index,
			Meta:     meta,
			Media:    media,
			Options:  options,
			Registry: registry,
			YouTube:  yt,
		}),
	})

	r := NewRouter(h, []byte("session-secret-for-handler-tests"))
	r.GET("/test/login", func(c *gin.Context) {
		s := sessions.Default(c)
		s.Set(sessionUser, c.Query("user"))
		s.Save()
		c.Status(http.StatusNoContent)
	})

	if flush {
		require.NoError(t, services.Flush(index, options, registry))
	}
	return &fixture{h: h, router: r, index: index, options: options, meta: meta}
}

func (f *fixture) do(t *testing.T, req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) get(t *testing.T, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return f.do(t, httptest.NewRequest(http.MethodGet, target, nil), cookies)
}

func (f *fixture) postForm(t *testing.T, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(t, req, cookies)
}

func (f *fixture) postJSON(t *testing.T, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return f.do(t, req, cookies)
}

func (f *fixture) login(t *testing.T, user string) []*http.Cookie {
	t.Helper()
	w := f.get(t, "/test/login?user="+user)
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func (f *fixture) record(t *testing.T, typ, slug string) *models.Record {
	t.Helper()
	rec, err := f.index.Record(typ, slug)
	require.NoError(t, err)
	return rec
}

// =============================================================================
// Public pages
// =============================================================================

func TestRoutesGate(t *testing.T) {
	f := setup(t, false)

	assert.Equal(t, http.StatusNotFound, f.get(t, "/projects/").Code)
	assert.Equal(t, http.StatusNotFound, f.get(t, "/projects/water/").Code)
	assert.Equal(t, http.StatusNotFound, f.get(t, "/project-status/ongoing/").Code)
	assert.Equal(t, http.StatusOK, f.get(t, "/").Code, "home is always served")

	require.NoError(t, services.Flush(f.index, f.options, f.h.registry))

	assert.Equal(t, http.StatusOK, f.get(t, "/projects/").Code)
	assert.Equal(t, http.StatusOK, f.get(t, "/projects/water/").Code)
	assert.Equal(t, http.StatusOK, f.get(t, "/project-status/ongoing/").Code)
}

func TestProjectArchive(t *testing.T) {
	f := setup(t, true)

	t.Run("filters and cards", func(t *testing.T) {
		w := f.get(t, "/projects/")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()

		assert.Contains(t, body, "Our Development Projects")
		assert.Contains(t, body, `data-status="all"`)
		assert.Contains(t, body, `data-status="ongoing"`)
		assert.Contains(t, body, `data-status="previous"`)
		assert.NotContains(t, body, `data-status="planned"`, "empty terms get no button")
		assert.Contains(t, body, `class="project-card project-status-ongoing"`)
		assert.Contains(t, body, "Clean Water")
		assert.NotContains(t, body, "Hidden Draft")
	})

	t.Run("page past the end", func(t *testing.T) {
		w := f.get(t, "/projects/?page=9")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No projects found.")
	})
}

func TestStatusArchive(t *testing.T) {
	f := setup(t, true)

	t.Run("previous reads as completed", func(t *testing.T) {
		prev := f.get(t, "/project-status/previous/")
		done := f.get(t, "/project-status/completed/")
		require.Equal(t, http.StatusOK, prev.Code)
		require.Equal(t, http.StatusOK, done.Code)

		heading := `<h1 class="page-title">Completed Projects</h1>`
		assert.Contains(t, prev.Body.String(), heading)
		assert.Contains(t, done.Body.String(), heading)
		assert.Contains(t, prev.Body.String(), "Explore our successfully completed development projects")
	})

	t.Run("listing uses the raw slug", func(t *testing.T) {
		body := f.get(t, "/project-status/previous/").Body.String()
		assert.Contains(t, body, "School Build")
		assert.NotContains(t, body, "Rural Clinic")
		assert.Contains(t, body, "1 Project")
	})

	t.Run("nav prefers the previous term", func(t *testing.T) {
		body := f.get(t, "/project-status/ongoing/").Body.String()
		assert.Contains(t, body, "Ongoing Projects")
		assert.Contains(t, body, `href="/project-status/previous/"`)
		assert.Contains(t, body, `taxonomy-nav-link active`)
	})

	t.Run("empty term", func(t *testing.T) {
		w := f.get(t, "/project-status/planned/")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "0 Projects")
		assert.Contains(t, w.Body.String(), "No projects found.")
	})

	t.Run("unknown term", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, f.get(t, "/project-status/nope/").Code)
	})
}

func TestCategoryArchive(t *testing.T) {
	f := setup(t, true)

	w := f.get(t, "/project-category/health/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<h1 class="page-title">Health</h1>`)
	assert.Contains(t, body, "Clinics and outreach.")
	assert.Contains(t, body, "Clean Water")
	assert.NotContains(t, body, "taxonomy-navigation")
}

func TestCategoryArchiveIncludesChildTerms(t *testing.T) {
	f := setup(t, true)
	files := map[string]string{
		"content/taxonomies/project_category.yml": "- slug: health\n  name: Health\n- slug: maternal\n  name: Maternal Health\n  parent: health\n",
		"content/projects/mothers.md":             "---\ntitle: Safe Motherhood\ndate: 2024-04-01\nproject_category: [maternal]\n---\n",
	}
	for rel, content := range files {
		full := filepath.Join(config.RepoPath, filepath.FromSlash(rel))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	f.index.InvalidateCache()

	w := f.get(t, "/project-category/health/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Clean Water")
	assert.Contains(t, body, "Safe Motherhood")
	assert.Contains(t, body, "2 Projects")

	w = f.get(t, "/project-category/maternal/")
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, "Safe Motherhood")
	assert.NotContains(t, body, "Clean Water", "children do not inherit the parent's records")
	assert.Contains(t, body, "1 Project")
}

func TestProjectSingle(t *testing.T) {
	f := setup(t, true)

	w := f.get(t, "/projects/school/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "School Build")
	assert.Contains(t, body, "Classrooms.")
	assert.Contains(t, body, "Rural Clinic", "older neighbour")
	assert.Contains(t, body, "Clean Water", "newer neighbour")

	assert.Equal(t, http.StatusNotFound, f.get(t, "/projects/hidden/").Code)
	assert.Equal(t, http.StatusNotFound, f.get(t, "/projects/missing/").Code)
}

func TestNotices(t *testing.T) {
	f := setup(t, true)

	w := f.get(t, "/notices/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Office Closure")
	assert.Contains(t, w.Body.String(), "Read More")

	w = f.get(t, "/notices/closure/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The office is closed on Friday.")
	assert.NotContains(t, w.Body.String(), "<iframe")

	home := f.get(t, "/")
	require.Equal(t, http.StatusOK, home.Code)
	assert.Contains(t, home.Body.String(), "Latest Notice")
	assert.Contains(t, home.Body.String(), "Office Closure")
}

func TestNotFound(t *testing.T) {
	f := setup(t, true)
	assert.Equal(t, http.StatusNotFound, f.get(t, "/no/such/page").Code)
}

// =============================================================================
// Admin
// =============================================================================

func TestAdminRequiresLogin(t *testing.T) {
	f := setup(t, true)

	w := f.get(t, "/admin/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	assert.Equal(t, http.StatusUnauthorized, f.get(t, "/admin/api/config").Code)

	cookies := f.login(t, "alice")
	assert.Equal(t, http.StatusOK, f.get(t, "/admin/", cookies...).Code)
}

func TestSaveProject(t *testing.T) {
	f := setup(t, true)
	cookies := f.login(t, "alice")
	water := f.record(t, models.TypeProject, "water")
	nonce := f.h.nonces.Create(actionProjectDetails+":water", "alice")

	require.NoError(t, f.meta.Set(water, models.MetaKey(models.FieldBudget), "$1,000"))

	w := f.postForm(t, "/admin/projects/water", url.Values{
		"project_details_nonce": {nonce},
		"project_location":      {"Dhaka <b>North</b>"},
		"project_outcomes":      {"Wells dug\n\n  Training held  "},
	}, cookies...)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/projects/water?saved=1", w.Header().Get("Location"))

	w = f.get(t, "/admin/api/meta?type="+models.TypeProject+"&slug=water", cookies...)
	require.Equal(t, http.StatusOK, w.Code)
	var stored map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, "Dhaka North", stored[models.MetaKey(models.FieldLocation)])

	details := f.meta.ProjectDetails(water)
	assert.Equal(t, "Dhaka North", details.Location)
	assert.Equal(t, "$1,000", details.Budget, "absent fields keep their value")
	assert.Equal(t, []string{"Wells dug", "Training held"}, details.OutcomeList())

	body := f.get(t, "/projects/water/").Body.String()
	assert.Contains(t, body, "Dhaka North")
	assert.Contains(t, body, "<li>Training held</li>")
}

func TestSaveProjectRejected(t *testing.T) {
	f := setup(t, true)
	cookies := f.login(t, "alice")
	water := f.record(t, models.TypeProject, "water")

	cases := []struct {
		name  string
		nonce string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-token"},
		{"other user", f.h.nonces.Create(actionProjectDetails+":water", "bob")},
		{"other record", f.h.nonces.Create(actionProjectDetails+":school", "alice")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := f.postForm(t, "/admin/projects/water", url.Values{
				"project_details_nonce": {tc.nonce},
				"project_location":      {"Nowhere"},
			}, cookies...)
			require.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/admin/projects/water", w.Header().Get("Location"))
			assert.Empty(t, f.meta.ProjectDetails(water).Location)
		})
	}

	t.Run("without capability", func(t *testing.T) {
		config.Editors = []string{"carol"}
		defer func() { config.Editors = nil }()

		w := f.postForm(t, "/admin/projects/water", url.Values{
			"project_details_nonce": {f.h.nonces.Create(actionProjectDetails+":water", "alice")},
			"project_location":      {"Nowhere"},
		}, cookies...)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Empty(t, f.meta.ProjectDetails(water).Location)
	})
}

func TestSavePlaylist(t *testing.T) {
	f := setup(t, true)
	full := filepath.Join(config.RepoPath, "content", "playlists", "visits.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte("---\ntitle: Field Visits\n---\n"), 0644))
	f.index.InvalidateCache()

	cookies := f.login(t, "alice")
	nonce := f.h.nonces.Create(actionPlaylist+":visits", "alice")

	w := f.postForm(t, "/admin/playlists/visits", url.Values{
		"playlist_nonce": {nonce},
		"playlist_url":   {"https://www.youtube.com/playlist?list=PLabc"},
		"display_mode":   {"list"},
	}, cookies...)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/playlists/visits?saved=1", w.Header().Get("Location"))

	s := f.meta.Playlist(f.record(t, models.TypePlaylist, "visits"))
	assert.Equal(t, "PLabc", s.ID)
	assert.Equal(t, "list", s.DisplayMode)

	w = f.postForm(t, "/admin/playlists/visits", url.Values{
		"playlist_nonce": {nonce},
		"display_mode":   {"slideshow"},
	}, cookies...)
	assert.Equal(t, "/admin/playlists/visits?error=1", w.Header().Get("Location"))
}

func TestNoticeSettings(t *testing.T) {
	f := setup(t, true)
	cookies := f.login(t, "alice")

	w := f.postForm(t, "/admin/settings/notices", url.Values{
		"_nonce":         {f.h.nonces.Create(actionNoticeSettings, "alice")},
		"section_title":  {"Announcements"},
		"read_more_text": {"Continue"},
	}, cookies...)
	require.Equal(t, http.StatusSeeOther, w.Code)

	s := services.LoadNoticeSettings(f.options)
	assert.Equal(t, "Announcements", s.SectionTitle)
	assert.Equal(t, "Continue", s.ReadMoreText)
	assert.Equal(t, "View All Notices", s.ButtonText)

	assert.Contains(t, f.get(t, "/notices/").Body.String(), "Continue")
}

func TestFlushHandler(t *testing.T) {
	f := setup(t, false)
	cookies := f.login(t, "alice")

	w := f.postForm(t, "/admin/maintenance/flush", url.Values{"_nonce": {"bad"}}, cookies...)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.False(t, f.index.RoutesReady())

	w = f.postForm(t, "/admin/maintenance/flush", url.Values{
		"_nonce": {f.h.nonces.Create(actionFlush, "alice")},
	}, cookies...)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/maintenance/check?flushed=1", w.Header().Get("Location"))
	assert.True(t, f.index.RoutesReady())

	check := f.get(t, "/admin/maintenance/check", cookies...)
	require.Equal(t, http.StatusOK, check.Code)
	assert.Contains(t, check.Body.String(), "content/taxonomies/project_status.yml")
}

// =============================================================================
// API
// =============================================================================

func TestRecordsAPI(t *testing.T) {
	f := setup(t, true)
	cookies := f.login(t, "alice")

	t.Run("list includes drafts", func(t *testing.T) {
		w := f.get(t, "/admin/api/records?type="+models.TypeProject, cookies...)
		require.Equal(t, http.StatusOK, w.Code)
		var records []models.Record
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
		assert.Len(t, records, 4)
	})

	t.Run("unknown type", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, f.get(t, "/admin/api/records?type=post", cookies...).Code)
	})

	t.Run("create", func(t *testing.T) {
		w := f.postJSON(t, "/admin/api/create", `{"type":"notice","slug":"agm","title":"Annual Meeting"}`, cookies...)
		require.Equal(t, http.StatusOK, w.Code)
		_, err := os.Stat(config.ContentPath("notices", "agm.md"))
		require.NoError(t, err)

		rec := f.record(t, models.TypeNotice, "agm")
		assert.Equal(t, "Annual Meeting", rec.Title)

		w = f.postJSON(t, "/admin/api/create", `{"type":"notice","slug":"agm"}`, cookies...)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("create rejects bad input", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, f.postJSON(t, "/admin/api/create", `{"type":"post","slug":"x"}`, cookies...).Code)
		assert.Equal(t, http.StatusBadRequest, f.postJSON(t, "/admin/api/create", `{`, cookies...).Code)
	})

	t.Run("editors only", func(t *testing.T) {
		config.Editors = []string{"carol"}
		defer func() { config.Editors = nil }()
		assert.Equal(t, http.StatusForbidden, f.get(t, "/admin/api/config", cookies...).Code)
	})
}

func TestServeMedia(t *testing.T) {
	f := setup(t, true)
	full := filepath.Join(config.RepoPath, config.MediaFolder, "report.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte("annual report"), 0644))

	w := f.get(t, "/media/report.txt")
	require.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.Equal(t, "annual report", string(body))
}
