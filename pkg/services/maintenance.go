package services

import (
	"os"
	"path/filepath"

	"ngo-cms/pkg/config"
	"ngo-cms/pkg/logging"
	"ngo-cms/pkg/schema"
	"ngo-cms/pkg/store"

	"go.uber.org/zap"
)

// Flush rebuilds the content index and records the current route signature.
func Flush(idx *Index, options *store.OptionStore, registry *schema.Registry) error {
	idx.InvalidateCache()
	for _, col := range registry.Collections() {
		if _, err := idx.AllRecords(col.Name); err != nil {
			return err
		}
	}
	sig := registry.Signature()
	if err := options.Set(OptionRewriteFlushed, sig); err != nil {
		return err
	}
	logging.L().Info("routes flushed", zap.String("signature", sig))
	return nil
}

type FileCheck struct {
	Path   string
	Exists bool
}

type RouteCheck struct {
	Kind   string // "type" or "taxonomy"
	Name   string
	Label  string
	Prefix string
	Public bool
}

type InstallReport struct {
	Files       []FileCheck
	Routes      []RouteCheck
	Flushed     bool
	RecordCount map[string]int
}

// Missing returns the expected files that are absent.
func (r InstallReport) Missing() []string {
	var out []string
	for _, f := range r.Files {
		if !f.Exists {
			out = append(out, f.Path)
		}
	}
	return out
}

var expectedFiles = []string{
	"content/projects",
	"content/taxonomies/project_status.yml",
	"content/taxonomies/project_category.yml",
	"content/notices",
}

// CheckInstall reports which expected content files exist and what is registered.
func CheckInstall(idx *Index, registry *schema.Registry) InstallReport {
	report := InstallReport{RecordCount: map[string]int{}}
	for _, rel := range expectedFiles {
		_, err := os.Stat(filepath.Join(config.RepoPath, filepath.FromSlash(rel)))
		report.Files = append(report.Files, FileCheck{Path: rel, Exists: err == nil})
	}

	for _, col := range registry.Collections() {
		report.Routes = append(report.Routes, RouteCheck{
			Kind:   "type",
			Name:   col.Name,
			Label:  col.Label,
			Prefix: col.Prefix,
			Public: col.Public,
		})
		if records, err := idx.AllRecords(col.Name); err == nil {
			report.RecordCount[col.Name] = len(records)
		}
	}
	for _, tax := range registry.Taxonomies() {
		report.Routes = append(report.Routes, RouteCheck{
			Kind:   "taxonomy",
			Name:   tax.Name,
			Label:  tax.Label,
			Prefix: tax.Prefix,
			Public: true,
		})
	}
	report.Flushed = idx.RoutesReady()
	return report
}
