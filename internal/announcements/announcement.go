package announcement

import (
	"context"

	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/internal/media"
	"github.com/kermes/kermes-panel/internal/resource"
	"github.com/kermes/kermes-panel/pkg/enums"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/multipart"
	"github.com/kermes/kermes-panel/pkg/types"
)

const BasePath = "admin/announcement"

// ImageRequiredMessage is reported when a new announcement has no image.
const ImageRequiredMessage = "Görsel yüklenmelidir."

// Announcement is a news item or an event shown on the storefront.
type Announcement struct {
	ID               int64                  `json:"id"`
	Title            string                 `json:"title"`
	Type             enums.AnnouncementType `json:"type"`
	Date             string                 `json:"date"`
	ShortDescription string                 `json:"short_description"`
	Description      string                 `json:"description"`
	Image            string                 `json:"image"`
	IsActive         types.Flag             `json:"is_active"`
	CreatedAt        string                 `json:"formatted_created_at,omitempty"`
}

func (a Announcement) RecordID() int64 { return a.ID }

func (a Announcement) WithActive(active types.Flag) Announcement {
	a.IsActive = active
	return a
}

// TypeOption is one entry of the type select.
type TypeOption struct {
	Value enums.AnnouncementType `json:"value"`
	Label string                 `json:"label"`
}

// TypeOptions lists the selectable kinds with their labels.
func TypeOptions() []TypeOption {
	return []TypeOption{
		{Value: enums.AnnouncementTypeAnnouncement, Label: "Duyuru"},
		{Value: enums.AnnouncementTypeEvent, Label: "Etkinlik"},
	}
}

var messages = form.Messages{
	"title": "Başlık zorunludur",
	"type":  "Tür seçilmelidir",
	"date":  "Tarih zorunludur",
}

// Form is the announcement create and edit state.
type Form struct {
	ID               int64                  `json:"-"`
	Title            string                 `json:"title" validate:"notblank"`
	Type             enums.AnnouncementType `json:"type" validate:"oneof=announcement event"`
	Date             string                 `json:"date" validate:"notblank"`
	ShortDescription string                 `json:"short_description"`
	Description      string                 `json:"description"`
	IsActive         types.Flag             `json:"is_active"`

	Image *form.FileSlot `json:"-"`
}

func NewForm(maxBytes int64) *Form {
	return &Form{Image: form.NewFileSlot(media.NewPolicy(media.KindAnnouncementImage, maxBytes))}
}

func FormFromAnnouncement(a Announcement, storageURL string, maxBytes int64) *Form {
	f := NewForm(maxBytes)
	f.ID = a.ID
	f.Title = a.Title
	f.Type = a.Type
	f.Date = a.Date
	f.ShortDescription = a.ShortDescription
	f.Description = a.Description
	f.IsActive = a.IsActive
	if a.Image != "" {
		f.Image.Seed(storageURL, a.Image)
	}
	return f
}

func (f *Form) Validate() form.Errors {
	errs := form.Validate(f, messages)
	if f.ID == 0 && (f.Image == nil || f.Image.Empty()) {
		errs.Set("image", ImageRequiredMessage)
	}
	return errs
}

func (f *Form) MultipartSchema() multipart.Schema {
	return multipart.Schema{"image": multipart.File}
}

func (f *Form) MultipartValues() map[string]any {
	values := map[string]any{
		"title":             f.Title,
		"type":              f.Type.String(),
		"date":              f.Date,
		"short_description": f.ShortDescription,
		"description":       f.Description,
		"is_active":         f.IsActive,
	}
	if f.Image != nil {
		if upload := f.Image.Upload(); upload != nil {
			values["image"] = upload
		}
	}
	return values
}

type Service interface {
	List(ctx context.Context, params resource.ListParams) (types.Page[Announcement], error)
	FetchByID(ctx context.Context, id int64) (Announcement, error)
	Save(ctx context.Context, f *Form) (Announcement, error)
	Delete(ctx context.Context, id int64) error
	ChangeStatus(ctx context.Context, id int64) (resource.StatusResult[Announcement], error)
}

type service struct {
	*resource.Service[Announcement]
}

func NewService(api resource.API, logg *logger.Logger) Service {
	return &service{Service: resource.New[Announcement](api, BasePath, logg)}
}

func (s *service) Save(ctx context.Context, f *Form) (Announcement, error) {
	if err := f.Validate().AsError(); err != nil {
		return Announcement{}, err
	}
	if form.ModeFor(f.ID) == form.ModeEdit {
		return s.Update(ctx, f.ID, f)
	}
	return s.Add(ctx, f)
}

// DefaultSort lists the newest announcements first.
func DefaultSort() resource.Sort {
	return resource.Sort{Column: "id", Direction: enums.SortDesc}
}
