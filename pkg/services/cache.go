package services

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"ngo-cms/pkg/config"
	"ngo-cms/pkg/logging"
	"ngo-cms/pkg/models"
	"ngo-cms/pkg/schema"
	"ngo-cms/pkg/store"

	"go.uber.org/zap"
)

// OptionRewriteFlushed holds the route signature of the last flush.
const OptionRewriteFlushed = "rewrite_flushed"

// Repository is the read side of the content store used by views and shortcodes.
type Repository interface {
	// Records returns published records of a type, newest first.
	Records(typ string) ([]*models.Record, error)
	// AllRecords includes drafts.
	AllRecords(typ string) ([]*models.Record, error)
	Record(typ, slug string) (*models.Record, error)
	Terms(taxonomy string) ([]models.Term, error)
	Term(taxonomy, slug string) (*models.Term, error)
}

// Index caches every content file. It is rebuilt lazily after InvalidateCache.
type Index struct {
	registry *schema.Registry
	options  *store.OptionStore

	mu      sync.Mutex
	loaded  bool
	records map[string][]*models.Record
	terms   map[string][]models.Term
}

func NewIndex(registry *schema.Registry, options *store.OptionStore) *Index {
	return &Index{registry: registry, options: options}
}

func (idx *Index) load() error {
	if idx.loaded {
		return nil
	}

	dirtyFiles, _ := getGitDirtyFiles(config.RepoPath)
	records := make(map[string][]*models.Record)

	for _, col := range idx.registry.Collections() {
		dir := config.ContentPath(col.Folder)
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return fs.SkipDir
				}
				return err
			}
			if d.IsDir() || !isContentFile(d.Name()) {
				return nil
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			relPath, _ := filepath.Rel(config.ContentPath(), path)
			rec, err := DecodeRecord(col.Name, relPath, content)
			if err != nil {
				logging.L().Warn("skipping content file", zap.String("path", relPath), zap.Error(err))
				return nil
			}
			repoRelPath, _ := filepath.Rel(config.RepoPath, path)
			rec.IsDirty = dirtyFiles[filepath.ToSlash(repoRelPath)]
			records[col.Name] = append(records[col.Name], rec)
			return nil
		})
		if err != nil {
			return err
		}

		list := records[col.Name]
		sort.SliceStable(list, func(i, j int) bool {
			if !list[i].Date.Equal(list[j].Date) {
				return list[i].Date.After(list[j].Date)
			}
			return list[i].Slug < list[j].Slug
		})
	}

	terms := make(map[string][]models.Term)
	for _, tax := range idx.registry.Taxonomies() {
		list, err := LoadTerms(tax.Name)
		if err != nil {
			return err
		}
		for i := range list {
			family := []string{list[i].Slug}
			if tax.Hierarchical {
				family = TermFamily(list, list[i].Slug)
			}
			list[i].Count = countTerm(records, tax, family)
		}
		terms[tax.Name] = list
	}

	idx.records = records
	idx.terms = terms
	idx.loaded = true
	return nil
}

func isContentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown", ".json":
		return true
	}
	return false
}

// countTerm counts published records tagged with any slug of family, each record once.
func countTerm(records map[string][]*models.Record, tax models.Taxonomy, family []string) int {
	n := 0
	for _, typ := range tax.ObjectTypes {
		for _, rec := range records[typ] {
			if !rec.Published() {
				continue
			}
			for _, slug := range family {
				if rec.HasTerm(tax.Name, slug) {
					n++
					break
				}
			}
		}
	}
	return n
}

func (idx *Index) AllRecords(typ string) ([]*models.Record, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := idx.load(); err != nil {
		return nil, err
	}
	return append([]*models.Record(nil), idx.records[typ]...), nil
}

func (idx *Index) Records(typ string) ([]*models.Record, error) {
	all, err := idx.AllRecords(typ)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, rec := range all {
		if rec.Published() {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (idx *Index) Record(typ, slug string) (*models.Record, error) {
	all, err := idx.AllRecords(typ)
	if err != nil {
		return nil, err
	}
	for _, rec := range all {
		if rec.Slug == slug {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

func (idx *Index) Terms(taxonomy string) ([]models.Term, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := idx.load(); err != nil {
		return nil, err
	}
	return append([]models.Term(nil), idx.terms[taxonomy]...), nil
}

func (idx *Index) Term(taxonomy, slug string) (*models.Term, error) {
	terms, err := idx.Terms(taxonomy)
	if err != nil {
		return nil, err
	}
	for i := range terms {
		if terms[i].Slug == slug {
			return &terms[i], nil
		}
	}
	return nil, ErrNotFound
}

// RecordTerms resolves a record's term slugs. Slugs missing from the
// vocabulary are skipped.
func (idx *Index) RecordTerms(rec *models.Record, taxonomy string) []models.Term {
	var out []models.Term
	for _, slug := range rec.Terms[taxonomy] {
		if t, err := idx.Term(taxonomy, slug); err == nil {
			out = append(out, *t)
		}
	}
	return out
}

func (idx *Index) InvalidateCache() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.loaded = false
	idx.records = nil
	idx.terms = nil
}

// RoutesReady reports whether the routes were flushed for the current registry.
func (idx *Index) RoutesReady() bool {
	flushed := idx.options.Get(OptionRewriteFlushed, "")
	return flushed == idx.registry.Signature()
}

func getGitDirtyFiles(dir string) (map[string]bool, error) {
	cmd := exec.Command("git", "status", "--porcelain")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	dirty := make(map[string]bool)
	lines := strings.Split(string(out), "\n")
	for _, line := range lines {
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		path = strings.Trim(path, "\"")
		dirty[path] = true
	}
	return dirty, nil
}
