package store

import (
	"encoding/json"
	"sort"

	"ngo-cms/pkg/models"
)

type AttachmentStore struct {
	db *DB
}

func NewAttachmentStore(db *DB) *AttachmentStore {
	return &AttachmentStore{db: db}
}

func attachmentKey(id string) string {
	return "attachment/" + id
}

func (s *AttachmentStore) Get(id string) (*models.Attachment, error) {
	var a models.Attachment
	if err := s.db.GetJSON(attachmentKey(id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AttachmentStore) Put(a *models.Attachment) error {
	return s.db.SetJSON(attachmentKey(a.ID), a)
}

func (s *AttachmentStore) Delete(id string) error {
	return s.db.Delete(attachmentKey(id))
}

// List returns attachments, newest first.
func (s *AttachmentStore) List() ([]models.Attachment, error) {
	var out []models.Attachment
	err := s.db.Scan("attachment/", func(_ string, val []byte) error {
		var a models.Attachment
		if err := json.Unmarshal(val, &a); err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Uploaded.After(out[j].Uploaded)
	})
	return out, nil
}
