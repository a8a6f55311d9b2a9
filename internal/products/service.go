package product

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kermes/kermes-panel/internal/apiclient"
	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/internal/resource"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/types"
)

// BasePath is the admin REST root of products.
const BasePath = "admin/product"

// Service exposes the product admin operations.
type Service interface {
	List(ctx context.Context, params resource.ListParams) (types.Page[Product], error)
	FetchByID(ctx context.Context, id int64) (Product, error)
	EditData(ctx context.Context, id int64) (EditData, error)
	CreateData(ctx context.Context) (Options, error)
	FiltersData(ctx context.Context) (Options, error)
	Save(ctx context.Context, f *Form) (Product, error)
	Delete(ctx context.Context, id int64) error
	ChangeStatus(ctx context.Context, id int64) (resource.StatusResult[Product], error)
	PriceHistory(ctx context.Context, id int64) ([]PriceHistoryEntry, error)
	History(ctx context.Context, id int64) (HistoryView, error)
}

type service struct {
	*resource.Service[Product]
}

// NewService returns the product service bound to api.
func NewService(api resource.API, logg *logger.Logger) Service {
	return &service{Service: resource.New[Product](api, BasePath, logg)}
}

// EditData loads GET admin/product/{id}: {product, tags, categories, brands}, optionally wrapped in data.
func (s *service) EditData(ctx context.Context, id int64) (EditData, error) {
	var raw json.RawMessage
	if err := s.Fetch(ctx, fmt.Sprint(id), nil, &raw); err != nil {
		return EditData{}, err
	}
	return apiclient.DecodeRecord[EditData](raw)
}

func (s *service) CreateData(ctx context.Context) (Options, error) {
	return s.options(ctx, "create")
}

func (s *service) FiltersData(ctx context.Context) (Options, error) {
	return s.options(ctx, "filters-data")
}

func (s *service) options(ctx context.Context, suffix string) (Options, error) {
	var raw json.RawMessage
	if err := s.Fetch(ctx, suffix, nil, &raw); err != nil {
		return Options{}, err
	}
	return apiclient.DecodeRecord[Options](raw)
}

// Save validates f locally and creates or updates the product. A failed local check
// returns a validation error without calling the API.
func (s *service) Save(ctx context.Context, f *Form) (Product, error) {
	if err := f.Validate().AsError(); err != nil {
		return Product{}, err
	}
	if form.ModeFor(f.ID) == form.ModeEdit {
		return s.Update(ctx, f.ID, f)
	}
	return s.Add(ctx, f)
}

func (s *service) PriceHistory(ctx context.Context, id int64) ([]PriceHistoryEntry, error) {
	var raw json.RawMessage
	if err := s.Fetch(ctx, fmt.Sprintf("%d/price-history", id), nil, &raw); err != nil {
		return nil, err
	}
	entries, err := apiclient.DecodeRecord[[]PriceHistoryEntry](raw)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []PriceHistoryEntry{}
	}
	return entries, nil
}

// History loads the product summary and its price history concurrently.
func (s *service) History(ctx context.Context, id int64) (HistoryView, error) {
	var (
		data    EditData
		entries []PriceHistoryEntry
	)
	err := form.LoadAll(ctx,
		func(ctx context.Context) (err error) {
			data, err = s.EditData(ctx, id)
			return err
		},
		func(ctx context.Context) (err error) {
			entries, err = s.PriceHistory(ctx, id)
			return err
		},
	)
	if err != nil {
		return HistoryView{}, err
	}
	return NewHistoryView(data.Product, entries), nil
}
