package form

import (
	"strings"

	"github.com/kermes/kermes-panel/pkg/slug"
)

// SlugTracker keeps a slug derived from a name while leaving it editable.
type SlugTracker struct {
	Name string `json:"name" validate:"notblank"`
	Slug string `json:"slug" validate:"notblank"`
}

// NewSlugTracker seeds the tracker from a stored record without re-deriving the slug.
func NewSlugTracker(name, currentSlug string) SlugTracker {
	return SlugTracker{Name: name, Slug: currentSlug}
}

// SetName records a name change and recomputes the slug from it.
func (s *SlugTracker) SetName(name string) {
	s.Name = name
	s.Slug = slug.Make(name)
}

// SetSlug records a manual slug edit, sanitized the same way.
func (s *SlugTracker) SetSlug(value string) {
	s.Slug = slug.Make(value)
}

// Normalize is applied to submitted input: a blank slug is derived from the name,
// anything else is sanitized.
func (s *SlugTracker) Normalize() {
	if strings.TrimSpace(s.Slug) == "" {
		s.SetName(s.Name)
		return
	}
	s.SetSlug(s.Slug)
}
