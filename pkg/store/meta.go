package store

import (
	"errors"
	"strings"
)

// MetaStore holds per-record key/value pairs. Each key is written on its own;
// there is no transaction across keys of the same record.
type MetaStore struct {
	db *DB
}

func NewMetaStore(db *DB) *MetaStore {
	return &MetaStore{db: db}
}

func metaKey(typ, slug, key string) string {
	return "meta/" + typ + "/" + slug + "/" + key
}

// Get returns the value and whether it was set.
func (s *MetaStore) Get(typ, slug, key string) (string, bool, error) {
	data, err := s.db.GetBytes(metaKey(typ, slug, key))
	if err != nil {
		if IsErrKeyNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

func (s *MetaStore) Set(typ, slug, key, value string) error {
	return s.db.SetBytes(metaKey(typ, slug, key), []byte(value))
}

func (s *MetaStore) Delete(typ, slug, key string) error {
	return s.db.Delete(metaKey(typ, slug, key))
}

// All returns every stored key for a record.
func (s *MetaStore) All(typ, slug string) (map[string]string, error) {
	prefix := metaKey(typ, slug, "")
	out := make(map[string]string)
	err := s.db.Scan(prefix, func(key string, val []byte) error {
		out[strings.TrimPrefix(key, prefix)] = string(val)
		return nil
	})
	return out, err
}

// OptionStore holds site-wide settings.
type OptionStore struct {
	db *DB
}

func NewOptionStore(db *DB) *OptionStore {
	return &OptionStore{db: db}
}

// Get returns the option or fallback when unset.
func (s *OptionStore) Get(name, fallback string) string {
	data, err := s.db.GetBytes("option/" + name)
	if err != nil {
		return fallback
	}
	return string(data)
}

func (s *OptionStore) Lookup(name string) (string, error) {
	data, err := s.db.GetBytes("option/" + name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *OptionStore) Set(name, value string) error {
	return s.db.SetBytes("option/"+name, []byte(value))
}

func (s *OptionStore) Delete(name string) error {
	err := s.db.Delete("option/" + name)
	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}
	return err
}
