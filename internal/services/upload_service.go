package services

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"tireshop/internal/domain"
)

// UploadService stores product images under generated unique names.
type UploadService struct {
	Dir string
}

func NewUploadService(dir string) *UploadService { return &UploadService{Dir: dir} }

// Save writes the file and returns its servable path. The original name
// contributes only its extension.
func (s *UploadService) Save(originalName string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		ext = ".jpg"
	}
	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return "/api/uploads/" + name, nil
}

// Resolve maps a requested filename to its on-disk path, rejecting
// traversal and unknown files.
func (s *UploadService) Resolve(name string) (string, error) {
	clean := filepath.Base(filepath.Clean(name))
	if clean == "." || clean == ".." || strings.ContainsAny(clean, "/\\\x00") {
		return "", domain.ErrNotFound
	}
	full := filepath.Join(s.Dir, clean)
	if _, err := os.Stat(full); err != nil {
		return "", domain.ErrNotFound
	}
	return full, nil
}
