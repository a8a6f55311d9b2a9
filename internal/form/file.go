package form

import (
	"sync"

	"github.com/kermes/kermes-panel/internal/media"
	"github.com/kermes/kermes-panel/pkg/multipart"
	"github.com/kermes/kermes-panel/pkg/routes"
)

// FileSlot holds the single image of a form: either a new upload or the stored path.
type FileSlot struct {
	mu     sync.Mutex
	policy media.Policy
	upload *multipart.Upload
	stored string
}

func NewFileSlot(policy media.Policy) *FileSlot {
	return &FileSlot{policy: policy}
}

// Seed records the persisted file path, prefixed with storageURL.
func (s *FileSlot) Seed(storageURL, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if storageURL != "" {
		path = routes.StorageURL(storageURL, path)
	}
	s.stored = path
}

// Set replaces the slot with a new upload.
func (s *FileSlot) Set(filename string, data []byte) (multipart.Upload, error) {
	upload, err := s.policy.Accept(filename, data)
	if err != nil {
		return multipart.Upload{}, rejected(filename, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upload = &upload
	s.stored = upload.Filename
	return upload, nil
}

// Clear drops the upload and the stored path.
func (s *FileSlot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upload = nil
	s.stored = ""
}

// Upload returns the pending upload, nil when the stored file is kept.
func (s *FileSlot) Upload() *multipart.Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upload
}

// Preview is the path shown next to the drop zone.
func (s *FileSlot) Preview() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stored
}

// Empty reports whether the slot has neither an upload nor a stored file.
func (s *FileSlot) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upload == nil && s.stored == ""
}
