package services

import (
	"ngo-cms/pkg/models"
)

type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	Offset     int
}

// Paginate clamps nothing: a page past the end yields an empty window so the
// caller can render its empty state.
func Paginate(total, page, perPage int) Pagination {
	if perPage <= 0 {
		perPage = 10
	}
	if page < 1 {
		page = 1
	}
	totalPages := (total + perPage - 1) / perPage
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		Offset:     (page - 1) * perPage,
	}
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }
func (p Pagination) PrevPage() int { return p.Page - 1 }
func (p Pagination) NextPage() int { return p.Page + 1 }

// Pages lists page numbers for the pager, or nil when everything fits on one page.
func (p Pagination) Pages() []int {
	if p.TotalPages <= 1 {
		return nil
	}
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// Window returns the records of the current page.
func Window[T any](items []T, p Pagination) []T {
	if p.Offset >= len(items) {
		return nil
	}
	end := p.Offset + p.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end]
}

// FilterByTerm keeps records carrying any of slugs in taxonomy. An empty taxonomy keeps everything.
func FilterByTerm(records []*models.Record, taxonomy string, slugs ...string) []*models.Record {
	if taxonomy == "" {
		return records
	}
	var out []*models.Record
	for _, rec := range records {
		for _, slug := range slugs {
			if rec.HasTerm(taxonomy, slug) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// TermFamily returns slug followed by the slugs of all its descendants in terms.
// Cycles in the parent chain are cut at the first repeat.
func TermFamily(terms []models.Term, slug string) []string {
	children := make(map[string][]string)
	for _, t := range terms {
		if t.Parent != "" {
			children[t.Parent] = append(children[t.Parent], t.Slug)
		}
	}
	family := []string{slug}
	seen := map[string]bool{slug: true}
	for i := 0; i < len(family); i++ {
		for _, child := range children[family[i]] {
			if !seen[child] {
				seen[child] = true
				family = append(family, child)
			}
		}
	}
	return family
}

// Adjacent returns the published records around slug in publish order.
// records must be newest first; prev is the older neighbour, next the newer one.
func Adjacent(records []*models.Record, slug string) (prev, next *models.Record) {
	for i, rec := range records {
		if rec.Slug != slug {
			continue
		}
		if i+1 < len(records) {
			prev = records[i+1]
		}
		if i > 0 {
			next = records[i-1]
		}
		return prev, next
	}
	return nil, nil
}

// Status terms with dedicated copy. "previous" is the legacy slug for completed.
const (
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusPrevious  = "previous"
)

func IsCompletedSlug(slug string) bool {
	return slug == StatusCompleted || slug == StatusPrevious
}

func StatusHeading(term models.Term) string {
	switch {
	case term.Slug == StatusOngoing:
		return "Ongoing Projects"
	case IsCompletedSlug(term.Slug):
		return "Completed Projects"
	}
	return term.Name
}

func StatusDescription(term models.Term) string {
	if term.Description != "" {
		return term.Description
	}
	switch {
	case term.Slug == StatusOngoing:
		return "Browse our currently active development projects making a difference in communities."
	case IsCompletedSlug(term.Slug):
		return "Explore our successfully completed development projects and their impact."
	}
	return ""
}

// CompletedTerm looks up the legacy slug first, then the canonical one.
func CompletedTerm(repo Repository) (*models.Term, error) {
	if t, err := repo.Term(models.TaxProjectStatus, StatusPrevious); err == nil {
		return t, nil
	}
	return repo.Term(models.TaxProjectStatus, StatusCompleted)
}

// NonEmptyTerms drops terms no published record uses.
func NonEmptyTerms(terms []models.Term) []models.Term {
	var out []models.Term
	for _, t := range terms {
		if t.Count > 0 {
			out = append(out, t)
		}
	}
	return out
}

// StatusClasses are the card classes the client-side filter matches on.
func StatusClasses(rec *models.Record) []string {
	var out []string
	for _, slug := range rec.Terms[models.TaxProjectStatus] {
		out = append(out, "project-status-"+slug)
	}
	return out
}

// FilterShows mirrors the browser filter: "all" shows every card, any other
// value shows only cards carrying project-status-<value>.
func FilterShows(rec *models.Record, filter string) bool {
	if filter == "all" {
		return true
	}
	want := "project-status-" + filter
	for _, class := range StatusClasses(rec) {
		if class == want {
			return true
		}
	}
	return false
}
