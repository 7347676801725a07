package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"ngo-cms/pkg/config"
	"ngo-cms/pkg/models"
	"ngo-cms/pkg/store"

	"github.com/gabriel-vasile/mimetype"
)

// MediaURLPrefix is where uploaded files are served.
const MediaURLPrefix = "/media/"

var allowedMedia = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"application/pdf",
}

// Media manages uploaded files and their attachment records.
type Media struct {
	attachments *store.AttachmentStore
}

func NewMedia(attachments *store.AttachmentStore) *Media {
	return &Media{attachments: attachments}
}

func MediaDir() string {
	return filepath.Join(config.RepoPath, config.MediaFolder)
}

func (m *Media) Get(id string) (*models.Attachment, error) {
	a, err := m.attachments.Get(id)
	if err != nil {
		if store.IsErrKeyNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// URL returns the public URL of an attachment, or "" when it does not exist.
func (m *Media) URL(id string) string {
	if id == "" {
		return ""
	}
	a, err := m.Get(id)
	if err != nil {
		return ""
	}
	return a.URL
}

func (m *Media) ListMediaFiles() ([]models.Attachment, error) {
	return m.attachments.List()
}

func (m *Media) SaveMediaFile(header *multipart.FileHeader, alt string) (*models.Attachment, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, err
	}
	if !mimetype.EqualsAny(mtype.String(), allowedMedia...) {
		return nil, fmt.Errorf("unsupported media type %s", mtype.String())
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	filename := filepath.Base(header.Filename)
	filename = strings.ReplaceAll(filename, " ", "_")

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = mtype.Extension()
	}
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = fmt.Sprintf("%s_%d%s", name, time.Now().Unix(), ext)

	fullMediaPath := SafeJoin(config.RepoPath, config.MediaFolder, filename)
	if fullMediaPath == "" {
		return nil, fmt.Errorf("invalid media path")
	}
	if err := os.MkdirAll(filepath.Dir(fullMediaPath), 0755); err != nil {
		return nil, err
	}

	dst, err := os.Create(fullMediaPath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return nil, err
	}

	a := &models.Attachment{
		ID:       filename,
		Name:     filename,
		Path:     path.Join(filepath.ToSlash(config.MediaFolder), filename),
		URL:      MediaURLPrefix + filename,
		MimeType: mtype.String(),
		Alt:      alt,
		Size:     size,
		Uploaded: time.Now(),
	}
	if err := m.attachments.Put(a); err != nil {
		os.Remove(fullMediaPath)
		return nil, err
	}
	return a, nil
}

func (m *Media) DeleteMediaFile(id string) error {
	a, err := m.Get(id)
	if err != nil {
		return err
	}
	fullMediaPath := SafeJoin(config.RepoPath, config.MediaFolder, a.Name)
	if fullMediaPath == "" {
		return fmt.Errorf("invalid media path")
	}
	if err := os.Remove(fullMediaPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return m.attachments.Delete(id)
}
