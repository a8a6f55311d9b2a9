package brand

import (
	"context"

	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/internal/resource"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/types"
)

const BasePath = "admin/brand"

// Brand is a product manufacturer.
type Brand struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	IsActive       types.Flag `json:"is_active"`
	Keywords       string     `json:"keywords"`
	SEODescription string     `json:"seo_description"`
	Author         string     `json:"author"`
	CreatedAt      string     `json:"formatted_created_at,omitempty"`
}

func (b Brand) RecordID() int64 { return b.ID }

func (b Brand) WithActive(active types.Flag) Brand {
	b.IsActive = active
	return b
}

var messages = form.Messages{
	"name": "Marka adı zorunludur",
	"slug": "Slug alanı zorunludur",
}

// Form is the brand create and edit state.
type Form struct {
	ID int64 `json:"-"`
	form.SlugTracker
	IsActive       types.Flag `json:"is_active"`
	Keywords       string     `json:"keywords"`
	SEODescription string     `json:"seo_description"`
	Author         string     `json:"author"`
}

func NewForm() *Form {
	return &Form{IsActive: true}
}

func FormFromBrand(b Brand) *Form {
	return &Form{
		ID:             b.ID,
		SlugTracker:    form.NewSlugTracker(b.Name, b.Slug),
		IsActive:       b.IsActive,
		Keywords:       b.Keywords,
		SEODescription: b.SEODescription,
		Author:         b.Author,
	}
}

func (f *Form) Validate() form.Errors {
	return form.Validate(f, messages)
}

type Service interface {
	List(ctx context.Context, params resource.ListParams) (types.Page[Brand], error)
	FetchByID(ctx context.Context, id int64) (Brand, error)
	Save(ctx context.Context, f *Form) (Brand, error)
	Delete(ctx context.Context, id int64) error
	ChangeStatus(ctx context.Context, id int64) (resource.StatusResult[Brand], error)
}

type service struct {
	*resource.Service[Brand]
}

func NewService(api resource.API, logg *logger.Logger) Service {
	return &service{Service: resource.New[Brand](api, BasePath, logg)}
}

func (s *service) Save(ctx context.Context, f *Form) (Brand, error) {
	if err := f.Validate().AsError(); err != nil {
		return Brand{}, err
	}
	if form.ModeFor(f.ID) == form.ModeEdit {
		return s.Update(ctx, f.ID, f)
	}
	return s.Add(ctx, f)
}
