// Package schema declares the record types and taxonomies the site serves.
package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"ngo-cms/pkg/config"
	"ngo-cms/pkg/models"
)

type Registry struct {
	collections []models.Collection
	taxonomies  []models.Taxonomy
}

func New() *Registry {
	return &Registry{}
}

// Default registers the project, notice, gallery and playlist types with the
// prefixes from config.
func Default() *Registry {
	r := New()
	for _, tax := range []models.Taxonomy{
		{
			Name:         models.TaxProjectStatus,
			Label:        "Project Status",
			Prefix:       config.ProjectStatusSlug,
			Hierarchical: true,
			ObjectTypes:  []string{models.TypeProject},
		},
		{
			Name:         models.TaxProjectCategory,
			Label:        "Project Categories",
			Prefix:       config.ProjectCategorySlug,
			Hierarchical: true,
			ObjectTypes:  []string{models.TypeProject},
		},
	} {
		if err := r.RegisterTaxonomy(tax); err != nil {
			panic(err)
		}
	}

	for _, col := range []models.Collection{
		{
			Name:       models.TypeProject,
			Label:      "Projects",
			Folder:     "projects",
			Extension:  "md",
			Prefix:     config.ProjectsSlug,
			Public:     true,
			HasArchive: true,
			Taxonomies: []string{models.TaxProjectCategory, models.TaxProjectStatus},
			Fields: []models.Field{
				{Name: "title", Widget: "string"},
				{Name: "date", Widget: "datetime"},
				{Name: "draft", Widget: "boolean", Default: true},
				{Name: "excerpt", Widget: "text"},
				{Name: "featured_image", Widget: "image"},
				{Name: models.TaxProjectStatus, Widget: "list"},
				{Name: models.TaxProjectCategory, Widget: "list"},
				{Name: "body", Widget: "markdown"},
			},
		},
		{
			Name:       models.TypeNotice,
			Label:      "Notices",
			Folder:     "notices",
			Extension:  "md",
			Prefix:     config.NoticesSlug,
			Public:     true,
			HasArchive: true,
			Fields: []models.Field{
				{Name: "title", Widget: "string"},
				{Name: "date", Widget: "datetime"},
				{Name: "draft", Widget: "boolean", Default: false},
				{Name: "excerpt", Widget: "text"},
				{Name: "featured_image", Widget: "image"},
				{Name: "body", Widget: "markdown"},
			},
		},
		{
			Name:      models.TypeGallery,
			Label:     "Photo Galleries",
			Folder:    "galleries",
			Extension: "md",
			Fields: []models.Field{
				{Name: "title", Widget: "string"},
				{Name: "images", Widget: "list"},
			},
		},
		{
			Name:      models.TypePlaylist,
			Label:     "YouTube Playlists",
			Folder:    "playlists",
			Extension: "md",
			Fields: []models.Field{
				{Name: "title", Widget: "string"},
				{Name: "playlist_url", Widget: "string"},
				{Name: "playlist_id", Widget: "string"},
				{Name: "display_mode", Widget: "select", Default: "grid"},
			},
		},
	} {
		if err := r.Register(col); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Register(col models.Collection) error {
	if col.Name == "" || col.Folder == "" {
		return fmt.Errorf("collection needs a name and a folder")
	}
	if _, ok := r.Collection(col.Name); ok {
		return fmt.Errorf("collection %q already registered", col.Name)
	}
	if col.Public {
		if err := r.checkPrefix(col.Prefix); err != nil {
			return fmt.Errorf("collection %q: %w", col.Name, err)
		}
	}
	for _, tax := range col.Taxonomies {
		if _, ok := r.Taxonomy(tax); !ok {
			return fmt.Errorf("collection %q: unknown taxonomy %q", col.Name, tax)
		}
	}
	r.collections = append(r.collections, col)
	return nil
}

func (r *Registry) RegisterTaxonomy(tax models.Taxonomy) error {
	if tax.Name == "" {
		return fmt.Errorf("taxonomy needs a name")
	}
	if _, ok := r.Taxonomy(tax.Name); ok {
		return fmt.Errorf("taxonomy %q already registered", tax.Name)
	}
	if err := r.checkPrefix(tax.Prefix); err != nil {
		return fmt.Errorf("taxonomy %q: %w", tax.Name, err)
	}
	r.taxonomies = append(r.taxonomies, tax)
	return nil
}

func (r *Registry) checkPrefix(prefix string) error {
	p := strings.Trim(prefix, "/")
	if p == "" {
		return fmt.Errorf("empty url prefix")
	}
	if p == "admin" || p == "static" || p == "media" || p == "auth" {
		return fmt.Errorf("url prefix %q is reserved", p)
	}
	for _, c := range r.collections {
		if c.Public && strings.Trim(c.Prefix, "/") == p {
			return fmt.Errorf("url prefix %q already used by %s", p, c.Name)
		}
	}
	for _, t := range r.taxonomies {
		if strings.Trim(t.Prefix, "/") == p {
			return fmt.Errorf("url prefix %q already used by %s", p, t.Name)
		}
	}
	return nil
}

func (r *Registry) Collections() []models.Collection {
	return append([]models.Collection(nil), r.collections...)
}

func (r *Registry) Taxonomies() []models.Taxonomy {
	return append([]models.Taxonomy(nil), r.taxonomies...)
}

func (r *Registry) Collection(name string) (models.Collection, bool) {
	for _, c := range r.collections {
		if c.Name == name {
			return c, true
		}
	}
	return models.Collection{}, false
}

func (r *Registry) Taxonomy(name string) (models.Taxonomy, bool) {
	for _, t := range r.taxonomies {
		if t.Name == name {
			return t, true
		}
	}
	return models.Taxonomy{}, false
}

// ArchiveURL is the listing URL of a public collection.
func (r *Registry) ArchiveURL(typ string) string {
	c, ok := r.Collection(typ)
	if !ok || !c.Public {
		return ""
	}
	return "/" + strings.Trim(c.Prefix, "/") + "/"
}

func (r *Registry) Permalink(typ, slug string) string {
	base := r.ArchiveURL(typ)
	if base == "" {
		return ""
	}
	return base + slug + "/"
}

func (r *Registry) TermLink(taxonomy, slug string) string {
	t, ok := r.Taxonomy(taxonomy)
	if !ok {
		return ""
	}
	return "/" + strings.Trim(t.Prefix, "/") + "/" + slug + "/"
}

// Signature identifies the current set of routes. A stored signature that
// differs from this one means the content index has to be flushed.
func (r *Registry) Signature() string {
	var parts []string
	for _, c := range r.collections {
		if c.Public {
			parts = append(parts, "type:"+c.Name+"="+strings.Trim(c.Prefix, "/"))
		}
	}
	for _, t := range r.taxonomies {
		parts = append(parts, "tax:"+t.Name+"="+strings.Trim(t.Prefix, "/"))
	}
	sort.Strings(parts)
	sum := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	return hex.EncodeToString(sum[:8])
}
