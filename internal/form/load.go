package form

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// LoadAll runs the loaders of an edit screen concurrently and returns the first failure.
func LoadAll(ctx context.Context, loaders ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, load := range loaders {
		g.Go(func() error {
			return load(gctx)
		})
	}
	return g.Wait()
}

// Mode tells a form screen whether it creates or edits a record.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// ModeFor returns ModeEdit when an id is present.
func ModeFor(id int64) Mode {
	if id > 0 {
		return ModeEdit
	}
	return ModeCreate
}
