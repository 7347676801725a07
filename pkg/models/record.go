package models

import (
	"strings"
	"time"
)

// Record types
const (
	TypeProject  = "ngo_project"
	TypeNotice   = "notice"
	TypeGallery  = "photo_gallery"
	TypePlaylist = "youtube_playlist"
)

// Taxonomies
const (
	TaxProjectStatus   = "project_status"
	TaxProjectCategory = "project_category"
)

// Record is one content file: front matter plus body.
type Record struct {
	Type          string              `json:"type"`
	Slug          string              `json:"slug"`
	Path          string              `json:"path"`
	Title         string              `json:"title"`
	Body          string              `json:"body,omitempty"`
	Excerpt       string              `json:"excerpt,omitempty"`
	Date          time.Time           `json:"date"`
	Draft         bool                `json:"draft"`
	FeaturedImage string              `json:"featured_image,omitempty"`
	Terms         map[string][]string `json:"terms,omitempty"`
	Images        []string            `json:"images,omitempty"`
	Meta          map[string]string   `json:"meta,omitempty"`
	Fields        map[string]any      `json:"fields,omitempty"`
	IsDirty       bool                `json:"is_dirty"`
}

func (r *Record) Published() bool {
	return !r.Draft
}

func (r *Record) HasTerm(taxonomy, slug string) bool {
	for _, s := range r.Terms[taxonomy] {
		if s == slug {
			return true
		}
	}
	return false
}

// StringField returns a top-level front matter value as a string.
func (r *Record) StringField(name string) string {
	if v, ok := r.Fields[name].(string); ok {
		return v
	}
	return ""
}

// Term is a value within a taxonomy. Count is the number of published records using it.
type Term struct {
	Taxonomy    string `json:"taxonomy" yaml:"-"`
	Slug        string `json:"slug" yaml:"slug"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Parent      string `json:"parent,omitempty" yaml:"parent,omitempty"`
	Count       int    `json:"count" yaml:"-"`
}

type Attachment struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Path     string    `json:"path"` // repo relative
	URL      string    `json:"url"`
	MimeType string    `json:"mime_type"`
	Alt      string    `json:"alt,omitempty"`
	Size     int64     `json:"size"`
	Uploaded time.Time `json:"uploaded"`
}

func (a *Attachment) IsPDF() bool {
	return a.MimeType == "application/pdf"
}

// Project detail form fields, in display order.
const (
	FieldLocation      = "project_location"
	FieldDuration      = "project_duration"
	FieldBudget        = "project_budget"
	FieldDonor         = "project_donor"
	FieldGoals         = "project_goals"
	FieldBeneficiaries = "project_beneficiaries"
	FieldOutcomes      = "project_outcomes"
)

var ProjectFields = []string{
	FieldLocation,
	FieldDuration,
	FieldBudget,
	FieldDonor,
	FieldGoals,
	FieldBeneficiaries,
	FieldOutcomes,
}

// MetaKey is the storage key for a form field.
func MetaKey(field string) string {
	return "_" + field
}

// Notice meta
const (
	MetaNoticePDF = "_notice_pdf_file"
)

// Playlist meta
const (
	MetaPlaylistID  = "_playlist_id"
	MetaPlaylistURL = "_playlist_url"
	MetaDisplayMode = "_display_mode"
)

type ProjectDetails struct {
	Location      string
	Duration      string
	Budget        string
	Donor         string
	Goals         string
	Beneficiaries string
	Outcomes      string
}

// OutcomeList splits outcomes on newlines, dropping blank lines.
func (d ProjectDetails) OutcomeList() []string {
	var out []string
	for _, line := range strings.Split(d.Outcomes, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// HasHeadline reports whether any of the four card attributes is set.
func (d ProjectDetails) HasHeadline() bool {
	return d.Location != "" || d.Duration != "" || d.Budget != "" || d.Donor != ""
}
