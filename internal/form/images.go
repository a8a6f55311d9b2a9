package form

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/kermes/kermes-panel/internal/media"
	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
	"github.com/kermes/kermes-panel/pkg/multipart"
	"github.com/kermes/kermes-panel/pkg/routes"
	"go.uber.org/multierr"
)

// DefaultMaxImages caps how many images one product may carry.
const DefaultMaxImages = 10

// Image is the client-side wrapper of one attachment. New images carry an upload and its
// file name as path; kept images carry the persisted id and the storage path.
type Image struct {
	ClientID   string            `json:"id"`
	PersistID  int64             `json:"persisted_id,omitempty"`
	Path       string            `json:"path"`
	IsNew      bool              `json:"is_new"`
	IsFeatured bool              `json:"is_featured"`
	Upload     *multipart.Upload `json:"-"`
}

// ExistingImage is a persisted image as the API returns it on the edit screen.
type ExistingImage struct {
	ID         int64  `json:"id"`
	ImagePath  string `json:"image_path"`
	IsFeatured bool   `json:"is_featured"`
}

// Reconciled is what an image set sends on submit.
type Reconciled struct {
	New      []multipart.Upload
	Existing []int64
	// Featured is the persisted id of the featured image, or its client id when it is new.
	Featured string
}

// ImageSet holds the images of one form with exactly one featured image whenever it is non-empty.
type ImageSet struct {
	mu       sync.Mutex
	policy   media.Policy
	maxFiles int
	images   []Image
	newID    func() string
}

// ImageSetOption configures an ImageSet.
type ImageSetOption func(*ImageSet)

// WithMaxFiles overrides DefaultMaxImages.
func WithMaxFiles(n int) ImageSetOption {
	return func(s *ImageSet) {
		if n > 0 {
			s.maxFiles = n
		}
	}
}

func NewImageSet(policy media.Policy, opts ...ImageSetOption) *ImageSet {
	s := &ImageSet{
		policy:   policy,
		maxFiles: DefaultMaxImages,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed loads persisted images, prefixing their paths with storageURL.
func (s *ImageSet) Seed(storageURL string, existing []ExistingImage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, img := range existing {
		path := img.ImagePath
		if storageURL != "" {
			path = routes.StorageURL(storageURL, img.ImagePath)
		}
		s.images = append(s.images, Image{
			ClientID:   fmt.Sprint(img.ID),
			PersistID:  img.ID,
			Path:       path,
			IsFeatured: img.IsFeatured,
		})
	}
	s.ensureFeatured()
}

// Add accepts one file through the upload policy.
func (s *ImageSet) Add(filename string, data []byte) (Image, error) {
	upload, err := s.policy.Accept(filename, data)
	if err != nil {
		return Image{}, rejected(filename, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.images) >= s.maxFiles {
		return Image{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s: En fazla %d görsel yüklenebilir", filename, s.maxFiles))
	}
	id := s.newID()
	img := Image{ClientID: id, Path: upload.Filename, IsNew: true, Upload: &upload}
	s.images = append(s.images, img)
	s.ensureFeatured()
	return s.images[len(s.images)-1], nil
}

// File is one dropped file.
type File struct {
	Name string
	Data []byte
}

// AddMany adds every accepted file and returns the rejections combined.
func (s *ImageSet) AddMany(files []File) ([]Image, error) {
	var (
		added []Image
		errs  error
	)
	for _, f := range files {
		img, err := s.Add(f.Name, f.Data)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		added = append(added, img)
	}
	return added, errs
}

// SetFeatured flags the image with clientID and unflags every other one.
func (s *ImageSet) SetFeatured(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(clientID)
	if idx < 0 {
		return false
	}
	for i := range s.images {
		s.images[i].IsFeatured = i == idx
	}
	return true
}

// Remove drops the image and moves the featured flag to the first image if needed.
func (s *ImageSet) Remove(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(clientID)
	if idx < 0 {
		return false
	}
	s.images = append(s.images[:idx], s.images[idx+1:]...)
	s.ensureFeatured()
	return true
}

// Images returns a copy of the current images in order.
func (s *ImageSet) Images() []Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Image(nil), s.images...)
}

func (s *ImageSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}

// Reconcile splits the set into new uploads and retained ids.
func (s *ImageSet) Reconcile() Reconciled {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Reconciled{New: []multipart.Upload{}, Existing: []int64{}}
	for _, img := range s.images {
		if img.IsNew {
			if img.Upload != nil {
				out.New = append(out.New, *img.Upload)
			}
		} else {
			out.Existing = append(out.Existing, img.PersistID)
		}
		if img.IsFeatured {
			out.Featured = img.ClientID
		}
	}
	return out
}

func (s *ImageSet) indexOf(clientID string) int {
	for i, img := range s.images {
		if img.ClientID == clientID {
			return i
		}
	}
	return -1
}

// ensureFeatured keeps exactly one featured image, the first flagged one or else the first image.
func (s *ImageSet) ensureFeatured() {
	featured := -1
	for i := range s.images {
		if s.images[i].IsFeatured && featured < 0 {
			featured = i
			continue
		}
		s.images[i].IsFeatured = false
	}
	if featured < 0 && len(s.images) > 0 {
		s.images[0].IsFeatured = true
	}
}

func rejected(filename string, err error) error {
	typed := pkgerrors.As(err)
	if typed == nil {
		return err
	}
	return pkgerrors.Wrap(typed.Code(), err, fmt.Sprintf("%s: %s", filename, typed.Message())).
		WithDetails(typed.Details())
}
