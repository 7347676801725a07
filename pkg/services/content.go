package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ngo-cms/pkg/config"
	"ngo-cms/pkg/models"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("not found")

// DecodeRecord turns a content file into a record. Known front matter keys are
// lifted onto the record; everything else stays in Fields.
func DecodeRecord(typ, relPath string, content []byte) (*models.Record, error) {
	fm, body, _, err := ParseFrontMatter(content)
	if err != nil {
		return nil, err
	}

	base := filepath.Base(relPath)
	rec := &models.Record{
		Type:   typ,
		Slug:   strings.TrimSuffix(base, filepath.Ext(base)),
		Path:   filepath.ToSlash(relPath),
		Body:   body,
		Terms:  map[string][]string{},
		Meta:   map[string]string{},
		Fields: map[string]any{},
	}

	for k, v := range sanitizeFrontMatter(fm) {
		if v == nil {
			continue
		}
		switch k {
		case "title":
			rec.Title = fmt.Sprint(v)
		case "slug":
			if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
				rec.Slug = s
			}
		case "excerpt":
			rec.Excerpt = fmt.Sprint(v)
		case "date":
			rec.Date = toTime(v)
		case "draft":
			rec.Draft, _ = v.(bool)
		case "featured_image":
			rec.FeaturedImage = fmt.Sprint(v)
		case "images":
			rec.Images = toStrings(v)
		case models.TaxProjectStatus, models.TaxProjectCategory:
			rec.Terms[k] = toStrings(v)
		case "meta":
			if m, ok := v.(map[string]interface{}); ok {
				for mk, mv := range m {
					rec.Meta[mk] = fmt.Sprint(mv)
				}
			}
		default:
			rec.Fields[k] = v
		}
	}
	if rec.Title == "" {
		rec.Title = rec.Slug
	}
	return rec, nil
}

func toTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case toml.LocalDate:
		return t.AsTime(time.UTC)
	case toml.LocalDateTime:
		return t.AsTime(time.UTC)
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, strings.TrimSpace(t)); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

func toStrings(v interface{}) []string {
	switch list := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return list
	case string:
		if s := strings.TrimSpace(list); s != "" {
			return []string{s}
		}
	}
	return nil
}

// LoadTerms reads content/taxonomies/<taxonomy>.yml.
func LoadTerms(taxonomy string) ([]models.Term, error) {
	data, err := os.ReadFile(config.ContentPath("taxonomies", taxonomy+".yml"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var terms []models.Term
	if err := yaml.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", taxonomy, err)
	}

	seen := make(map[string]bool, len(terms))
	out := terms[:0]
	for _, t := range terms {
		t.Slug = strings.TrimSpace(t.Slug)
		if t.Slug == "" || seen[t.Slug] {
			continue
		}
		seen[t.Slug] = true
		t.Taxonomy = taxonomy
		if t.Name == "" {
			t.Name = t.Slug
		}
		out = append(out, t)
	}
	return out, nil
}

// CreateRecord writes a new content file from the collection's defaults.
func CreateRecord(collection models.Collection, slug string, overrides map[string]interface{}) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" || strings.ContainsAny(slug, `/\`) || strings.Contains(slug, "..") {
		return "", fmt.Errorf("invalid slug %q", slug)
	}

	ext := collection.Extension
	if ext == "" {
		ext = "md"
	}
	relPath := filepath.Join(collection.Folder, slug+"."+ext)
	fullPath := SafeJoin(config.RepoPath, "content", relPath)
	if fullPath == "" {
		return "", fmt.Errorf("invalid path")
	}
	if _, err := os.Stat(fullPath); err == nil {
		return "", os.ErrExist
	}

	content, err := GenerateContentFromCollection(collection, overrides, "yaml")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return "", err
	}
	return filepath.ToSlash(relPath), nil
}
