package tag

import (
	"context"

	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/internal/resource"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/types"
)

const BasePath = "admin/tag"

type Tag struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	IsActive  types.Flag `json:"is_active"`
	CreatedAt string     `json:"formatted_created_at,omitempty"`
}

func (t Tag) RecordID() int64 { return t.ID }

func (t Tag) WithActive(active types.Flag) Tag {
	t.IsActive = active
	return t
}

var messages = form.Messages{
	"name": "Etiket adı zorunludur",
	"slug": "Slug alanı zorunludur",
}

type Form struct {
	ID int64 `json:"-"`
	form.SlugTracker
	IsActive types.Flag `json:"is_active"`
}

func NewForm() *Form {
	return &Form{IsActive: true}
}

func FormFromTag(t Tag) *Form {
	return &Form{ID: t.ID, SlugTracker: form.NewSlugTracker(t.Name, t.Slug), IsActive: t.IsActive}
}

func (f *Form) Validate() form.Errors {
	return form.Validate(f, messages)
}

type Service interface {
	List(ctx context.Context, params resource.ListParams) (types.Page[Tag], error)
	FetchByID(ctx context.Context, id int64) (Tag, error)
	Save(ctx context.Context, f *Form) (Tag, error)
	Delete(ctx context.Context, id int64) error
	ChangeStatus(ctx context.Context, id int64) (resource.StatusResult[Tag], error)
}

type service struct {
	*resource.Service[Tag]
}

func NewService(api resource.API, logg *logger.Logger) Service {
	return &service{Service: resource.New[Tag](api, BasePath, logg)}
}

func (s *service) Save(ctx context.Context, f *Form) (Tag, error) {
	if err := f.Validate().AsError(); err != nil {
		return Tag{}, err
	}
	if form.ModeFor(f.ID) == form.ModeEdit {
		return s.Update(ctx, f.ID, f)
	}
	return s.Add(ctx, f)
}
