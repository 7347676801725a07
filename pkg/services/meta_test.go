package services

import (
	"net/url"
	"testing"

	"ngo-cms/pkg/models"
	"ngo-cms/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestProjectDetails(t *testing.T) {
	meta := NewMeta(store.NewMetaStore(setupTestDB(t)))
	rec := &models.Record{
		Type: models.TypeProject,
		Slug: "water",
		Meta: map[string]string{models.MetaKey(models.FieldDonor): "Seeded Donor"},
	}

	t.Run("front matter seeds meta", func(t *testing.T) {
		d := meta.ProjectDetails(rec)
		assert.Equal(t, "Seeded Donor", d.Donor)
		assert.True(t, d.HasHeadline())
	})

	t.Run("only present fields change", func(t *testing.T) {
		require.NoError(t, meta.SaveProjectDetails(rec, url.Values{
			models.FieldLocation: {"<em>Sylhet</em>"},
			models.FieldGoals:    {"Goal one\n\n<b>Goal</b> two"},
		}))
		require.NoError(t, meta.SaveProjectDetails(rec, url.Values{
			models.FieldBudget: {"$5,000"},
		}))

		d := meta.ProjectDetails(rec)
		assert.Equal(t, "Sylhet", d.Location)
		assert.Equal(t, "Goal one\n\nGoal two", d.Goals)
		assert.Equal(t, "$5,000", d.Budget)
		assert.Equal(t, "Seeded Donor", d.Donor)
	})

	t.Run("empty value clears", func(t *testing.T) {
		require.NoError(t, meta.SaveProjectDetails(rec, url.Values{models.FieldDonor: {""}}))
		assert.Empty(t, meta.ProjectDetails(rec).Donor)
	})
}

func TestPlaylistSettings(t *testing.T) {
	meta := NewMeta(store.NewMetaStore(setupTestDB(t)))
	rec := &models.Record{
		Type: models.TypePlaylist,
		Slug: "visits",
		Fields: map[string]any{
			"playlist_url": "https://www.youtube.com/playlist?list=PLfront",
			"display_mode": "carousel",
		},
	}

	s := meta.Playlist(rec)
	assert.Equal(t, "PLfront", s.ID)
	assert.Equal(t, "carousel", s.DisplayMode)

	require.NoError(t, meta.SavePlaylist(rec, PlaylistSettings{
		URL:         "https://www.youtube.com/watch?v=abc&list=PLsaved",
		DisplayMode: "list",
	}))
	s = meta.Playlist(rec)
	assert.Equal(t, "PLsaved", s.ID)
	assert.Equal(t, "list", s.DisplayMode)

	require.NoError(t, meta.SavePlaylist(rec, PlaylistSettings{ID: "PLexplicit", DisplayMode: "grid"}))
	assert.Equal(t, "PLexplicit", meta.Playlist(rec).ID)
}

func TestNoticePDF(t *testing.T) {
	meta := NewMeta(store.NewMetaStore(setupTestDB(t)))
	rec := &models.Record{Type: models.TypeNotice, Slug: "closure", Fields: map[string]any{"notice_pdf": "seed.pdf"}}

	assert.Equal(t, "seed.pdf", meta.NoticePDF(rec))
	require.NoError(t, meta.SetNoticePDF(rec, " report.pdf "))
	assert.Equal(t, "report.pdf", meta.NoticePDF(rec))
	require.NoError(t, meta.SetNoticePDF(rec, ""))
	assert.Equal(t, "seed.pdf", meta.NoticePDF(rec))
}

func TestNoticeSettings(t *testing.T) {
	options := store.NewOptionStore(setupTestDB(t))
	assert.Equal(t, DefaultNoticeSettings(), LoadNoticeSettings(options))

	require.NoError(t, SaveNoticeSettings(options, NoticeSettings{
		SectionTitle: "<b>News</b>",
		ViewPDFText:  "Open",
	}))
	s := LoadNoticeSettings(options)
	assert.Equal(t, "News", s.SectionTitle)
	assert.Equal(t, "Open", s.ViewPDFText)
	assert.Equal(t, "Read More", s.ReadMoreText)

	require.NoError(t, SaveNoticeSettings(options, NoticeSettings{SectionTitle: "   "}))
	assert.Equal(t, "Latest Notice", LoadNoticeSettings(options).SectionTitle)
}

func TestNonces(t *testing.T) {
	n := NewNonces([]byte("0123456789abcdef0123456789abcdef"))
	token := n.Create("save_project_details:water", "alice")
	require.NotEmpty(t, token)

	assert.True(t, n.Verify(token, "save_project_details:water", "alice"))
	assert.False(t, n.Verify(token, "save_project_details:school", "alice"))
	assert.False(t, n.Verify(token, "save_project_details:water", "bob"))
	assert.False(t, n.Verify("", "save_project_details:water", "alice"))
	assert.False(t, n.Verify(token, "save_project_details:water", ""))

	other := NewNonces([]byte("fedcba9876543210fedcba9876543210"))
	assert.False(t, other.Verify(token, "save_project_details:water", "alice"))
}
