package services

import (
	"net/url"
	"strings"

	"ngo-cms/pkg/models"
	"ngo-cms/pkg/store"
	"ngo-cms/pkg/youtube"
)

// Meta reads record meta from the store, falling back to values seeded in the
// record's front matter.
type Meta struct {
	store *store.MetaStore
}

func NewMeta(s *store.MetaStore) *Meta {
	return &Meta{store: s}
}

func (m *Meta) Get(rec *models.Record, key string) string {
	if v, ok, err := m.store.Get(rec.Type, rec.Slug, key); err == nil && ok {
		return v
	}
	return rec.Meta[key]
}

// All returns the stored meta of a record, without front matter seeds.
func (m *Meta) All(rec *models.Record) (map[string]string, error) {
	return m.store.All(rec.Type, rec.Slug)
}

func (m *Meta) Set(rec *models.Record, key, value string) error {
	return m.store.Set(rec.Type, rec.Slug, key, value)
}

func (m *Meta) Delete(rec *models.Record, key string) error {
	return m.store.Delete(rec.Type, rec.Slug, key)
}

func (m *Meta) ProjectDetails(rec *models.Record) models.ProjectDetails {
	return models.ProjectDetails{
		Location:      m.Get(rec, models.MetaKey(models.FieldLocation)),
		Duration:      m.Get(rec, models.MetaKey(models.FieldDuration)),
		Budget:        m.Get(rec, models.MetaKey(models.FieldBudget)),
		Donor:         m.Get(rec, models.MetaKey(models.FieldDonor)),
		Goals:         m.Get(rec, models.MetaKey(models.FieldGoals)),
		Beneficiaries: m.Get(rec, models.MetaKey(models.FieldBeneficiaries)),
		Outcomes:      m.Get(rec, models.MetaKey(models.FieldOutcomes)),
	}
}

// SaveProjectDetails stores every project field present in form. Absent
// fields keep their current value. Fields are written one at a time; an error
// stops the loop and leaves earlier fields saved.
func (m *Meta) SaveProjectDetails(rec *models.Record, form url.Values) error {
	for _, field := range models.ProjectFields {
		values, ok := form[field]
		if !ok {
			continue
		}
		value := ""
		if len(values) > 0 {
			value = values[0]
		}
		switch field {
		case models.FieldGoals, models.FieldOutcomes:
			value = SanitizeTextarea(value)
		default:
			value = SanitizeText(value)
		}
		if err := m.Set(rec, models.MetaKey(field), value); err != nil {
			return err
		}
	}
	return nil
}

type PlaylistSettings struct {
	URL         string
	ID          string
	DisplayMode string
}

// Playlist reads a playlist's settings. Meta wins over front matter; an
// empty id is taken from the URL's list parameter.
func (m *Meta) Playlist(rec *models.Record) PlaylistSettings {
	s := PlaylistSettings{
		URL:         m.Get(rec, models.MetaPlaylistURL),
		ID:          m.Get(rec, models.MetaPlaylistID),
		DisplayMode: m.Get(rec, models.MetaDisplayMode),
	}
	if s.URL == "" {
		s.URL = rec.StringField("playlist_url")
	}
	if s.ID == "" {
		s.ID = rec.StringField("playlist_id")
	}
	if s.DisplayMode == "" {
		s.DisplayMode = rec.StringField("display_mode")
	}
	if s.ID == "" && s.URL != "" {
		s.ID = youtube.ExtractPlaylistID(s.URL)
	}
	return s
}

func (m *Meta) SavePlaylist(rec *models.Record, s PlaylistSettings) error {
	if s.ID == "" && s.URL != "" {
		s.ID = youtube.ExtractPlaylistID(s.URL)
	}
	if err := m.Set(rec, models.MetaPlaylistURL, strings.TrimSpace(s.URL)); err != nil {
		return err
	}
	if err := m.Set(rec, models.MetaPlaylistID, SanitizeText(s.ID)); err != nil {
		return err
	}
	return m.Set(rec, models.MetaDisplayMode, SanitizeText(s.DisplayMode))
}

// NoticePDF returns the attachment id of a notice's PDF, or "".
func (m *Meta) NoticePDF(rec *models.Record) string {
	if id := m.Get(rec, models.MetaNoticePDF); id != "" {
		return id
	}
	return rec.StringField("notice_pdf")
}

// SetNoticePDF attaches a PDF; an empty id removes it.
func (m *Meta) SetNoticePDF(rec *models.Record, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return m.Delete(rec, models.MetaNoticePDF)
	}
	return m.Set(rec, models.MetaNoticePDF, id)
}
