package models

// Collection declares one record type: where its files live, which URL prefix
// serves it and which taxonomies classify it.
type Collection struct {
	Name       string   `yaml:"name" json:"name"`
	Label      string   `yaml:"label" json:"label"`
	Folder     string   `yaml:"folder" json:"folder"`
	Extension  string   `yaml:"extension" json:"extension"`
	Prefix     string   `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Public     bool     `yaml:"public" json:"public"`
	HasArchive bool     `yaml:"has_archive" json:"has_archive"`
	Taxonomies []string `yaml:"taxonomies,omitempty" json:"taxonomies,omitempty"`
	Fields     []Field  `yaml:"fields" json:"fields"`
}

type Field struct {
	Name    string      `yaml:"name" json:"name"`
	Widget  string      `yaml:"widget" json:"widget"`
	Default interface{} `yaml:"default,omitempty" json:"default,omitempty"`
}

// Taxonomy is a classification vocabulary attached to one or more collections.
type Taxonomy struct {
	Name         string   `yaml:"name" json:"name"`
	Label        string   `yaml:"label" json:"label"`
	Prefix       string   `yaml:"prefix" json:"prefix"`
	Hierarchical bool     `yaml:"hierarchical" json:"hierarchical"`
	ObjectTypes  []string `yaml:"object_types" json:"object_types"`
}
