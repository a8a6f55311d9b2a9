package category

import (
	"context"
	"encoding/json"

	"github.com/kermes/kermes-panel/internal/apiclient"
	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/internal/resource"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/types"
)

const BasePath = "admin/category"

type Service interface {
	List(ctx context.Context, params resource.ListParams) (types.Page[Category], error)
	FetchByID(ctx context.Context, id int64) (Category, error)
	CreateData(ctx context.Context) (Options, error)
	Save(ctx context.Context, f *Form) (Category, error)
	Delete(ctx context.Context, id int64) error
	ChangeStatus(ctx context.Context, id int64) (resource.StatusResult[Category], error)
}

type service struct {
	*resource.Service[Category]
}

func NewService(api resource.API, logg *logger.Logger) Service {
	return &service{Service: resource.New[Category](api, BasePath, logg)}
}

// CreateData loads the parent and tag options from /admin/category/create.
func (s *service) CreateData(ctx context.Context) (Options, error) {
	var raw json.RawMessage
	if err := s.Fetch(ctx, "create", nil, &raw); err != nil {
		return Options{}, err
	}
	return apiclient.DecodeRecord[Options](raw)
}

func (s *service) Save(ctx context.Context, f *Form) (Category, error) {
	if err := f.Validate().AsError(); err != nil {
		return Category{}, err
	}
	if form.ModeFor(f.ID) == form.ModeEdit {
		return s.Update(ctx, f.ID, f.payload())
	}
	return s.Add(ctx, f.payload())
}
