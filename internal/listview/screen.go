// Package listview holds the state of a paginated, sortable, filterable list screen.
package listview

import (
	"context"
	"slices"
	"sync"

	"github.com/kermes/kermes-panel/internal/apiclient"
	"github.com/kermes/kermes-panel/internal/resource"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/pagination"
	"github.com/kermes/kermes-panel/pkg/types"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Lister loads one page of records.
type Lister[T any] interface {
	List(ctx context.Context, params resource.ListParams) (types.Page[T], error)
}

// StatusChanger toggles is_active on the server.
type StatusChanger[T any] interface {
	ChangeStatus(ctx context.Context, id int64) (resource.StatusResult[T], error)
}

// Deleter removes a record on the server.
type Deleter interface {
	Delete(ctx context.Context, id int64) error
}

// View is a snapshot of the screen for rendering.
type View[T any] struct {
	State         State          `json:"state"`
	Rows          []T            `json:"rows"`
	Total         int            `json:"total"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
	PageCount     int            `json:"page_count"`
	PageSizes     []int          `json:"page_sizes"`
	Sort          resource.Sort  `json:"sort"`
	Filters       map[string]any `json:"filters,omitempty"`
	HiddenColumns []string       `json:"hidden_columns"`
	Error         string         `json:"error,omitempty"`
}

// Screen is the list state machine: idle, loading, then success or error.
// Every change of page, page size, sort or filters reloads. Responses of
// superseded loads are discarded.
type Screen[T resource.Record[T]] struct {
	mu         sync.Mutex
	source     Lister[T]
	logg       *logger.Logger
	params     resource.ListParams
	state      State
	rows       []T
	total      int
	err        error
	generation uint64
	hidden     []string
}

type Option func(*screenConfig)

type screenConfig struct {
	logg   *logger.Logger
	params resource.ListParams
	hidden []string
}

// WithLogger sets the logger for dropped stale responses.
func WithLogger(logg *logger.Logger) Option {
	return func(c *screenConfig) { c.logg = logg }
}

// WithParams sets the initial page, size, sort and filters.
func WithParams(params resource.ListParams) Option {
	return func(c *screenConfig) { c.params = params }
}

// WithHiddenColumns starts with the given columns hidden.
func WithHiddenColumns(accessors ...string) Option {
	return func(c *screenConfig) { c.hidden = append(c.hidden, accessors...) }
}

// New builds an idle screen over source. A screen that only applies status patches may
// have a nil source since it never reloads.
func New[T resource.Record[T]](source Lister[T], opts ...Option) *Screen[T] {
	cfg := screenConfig{params: resource.ListParams{Sort: resource.DefaultSort()}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logg == nil {
		cfg.logg = logger.Nop()
	}
	return &Screen[T]{
		source: source,
		logg:   cfg.logg,
		params: cfg.params.Normalized(),
		state:  StateIdle,
		rows:   []T{},
		hidden: cfg.hidden,
	}
}

// Reload fetches the current page. A response that arrives after a newer load started is dropped.
func (s *Screen[T]) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	params := s.params.Normalized()
	params.Filters = NormalizeFilters(params.Filters)
	s.state = StateLoading
	s.mu.Unlock()

	page, err := s.source.List(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logg.Debug(s.logg.WithField(ctx, "generation", gen), "listview.stale_response_dropped")
		return nil
	}
	if err != nil {
		s.state = StateError
		s.err = err
		return err
	}
	s.state = StateSuccess
	s.err = nil
	s.rows = page.Data
	s.total = page.Total
	return nil
}

// SetPage moves to page and reloads.
func (s *Screen[T]) SetPage(ctx context.Context, page int) error {
	s.mu.Lock()
	s.params.Page = pagination.NormalizePage(page)
	s.mu.Unlock()
	return s.Reload(ctx)
}

// Patch is the server delta of a status toggle.
type Patch struct {
	ID       int64
	IsActive types.Flag
	Message  string
}

// ApplyStatus toggles the record on the server and patches only its is_active in place.
// The advisory message of the response travels in the patch.
func (s *Screen[T]) ApplyStatus(ctx context.Context, svc StatusChanger[T], id int64) (Patch, error) {
	res, err := svc.ChangeStatus(ctx, id)
	if err != nil {
		return Patch{}, err
	}
	s.applyDelta(id, func(row T) (T, bool) {
		return row.WithActive(res.IsActive), true
	})
	return Patch{ID: id, IsActive: res.IsActive, Message: res.Message}, nil
}

// Delete removes the record on the server, drops it locally and reloads the page.
// When that empties a page past the first, it steps back one page.
func (s *Screen[T]) Delete(ctx context.Context, svc Deleter, id int64) error {
	if err := svc.Delete(ctx, id); err != nil {
		return err
	}
	if s.applyDelta(id, func(row T) (T, bool) { return row, false }) {
		s.mu.Lock()
		if s.total > 0 {
			s.total--
		}
		s.mu.Unlock()
	}
	if err := s.Reload(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	page, empty := s.params.Page, len(s.rows) == 0 && s.total > 0
	s.mu.Unlock()
	if empty && page > pagination.DefaultPage {
		return s.SetPage(ctx, page-1)
	}
	return nil
}

// applyDelta rewrites or drops the row with id and reports whether it was found.
func (s *Screen[T]) applyDelta(id int64, fn func(T) (T, bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, row := range s.rows {
		if row.RecordID() != id {
			continue
		}
		updated, keep := fn(row)
		if keep {
			s.rows[i] = updated
		} else {
			s.rows = slices.Delete(s.rows, i, i+1)
		}
		return true
	}
	return false
}

// View snapshots the screen for rendering.
func (s *Screen[T]) View() View[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := View[T]{
		State:         s.state,
		Rows:          slices.Clone(s.rows),
		Total:         s.total,
		Page:          s.params.Page,
		Limit:         s.params.Limit,
		PageCount:     pagination.PageCount(s.total, s.params.Limit),
		PageSizes:     pagination.PageSizes(),
		Sort:          s.params.Sort,
		Filters:       s.params.Filters,
		HiddenColumns: append([]string{}, s.hidden...),
	}
	if view.Rows == nil {
		view.Rows = []T{}
	}
	if s.err != nil {
		view.Error = apiclient.MessageOf(s.err)
	}
	return view
}
