package slider

import (
	"context"

	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/internal/media"
	"github.com/kermes/kermes-panel/internal/resource"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/multipart"
	"github.com/kermes/kermes-panel/pkg/types"
)

const BasePath = "admin/slider"

// ImageRequiredMessage is reported when a new slider has no background.
const ImageRequiredMessage = "Görsel yüklenmelidir."

const (
	TargetSelf  = "_self"
	TargetBlank = "_blank"
)

// Slider is one homepage slide: a background image, two text rows and a button.
type Slider struct {
	ID           int64      `json:"id"`
	Path         string     `json:"path"`
	Row1Text     string     `json:"row_1_text"`
	Row1Color    string     `json:"row_1_color"`
	Row1CSS      string     `json:"row_1_css"`
	Row2Text     string     `json:"row_2_text"`
	Row2Color    string     `json:"row_2_color"`
	Row2CSS      string     `json:"row_2_css"`
	ButtonText   string     `json:"button_text"`
	ButtonURL    string     `json:"button_url"`
	ButtonTarget string     `json:"button_target"`
	ButtonColor  string     `json:"button_color"`
	ButtonCSS    string     `json:"button_css"`
	IsActive     types.Flag `json:"is_active"`
}

func (s Slider) RecordID() int64 { return s.ID }

func (s Slider) WithActive(active types.Flag) Slider {
	s.IsActive = active
	return s
}

// Form is the slider create and edit state. CSS fields are opaque editor content.
type Form struct {
	ID           int64      `json:"-"`
	Row1Text     string     `json:"row_1_text"`
	Row1Color    string     `json:"row_1_color"`
	Row1CSS      string     `json:"row_1_css"`
	Row2Text     string     `json:"row_2_text"`
	Row2Color    string     `json:"row_2_color"`
	Row2CSS      string     `json:"row_2_css"`
	ButtonText   string     `json:"button_text"`
	ButtonURL    string     `json:"button_url"`
	ButtonTarget string     `json:"button_target" validate:"omitempty,oneof=_self _blank"`
	ButtonColor  string     `json:"button_color"`
	ButtonCSS    string     `json:"button_css"`
	IsActive     types.Flag `json:"is_active"`

	Background *form.FileSlot `json:"-"`
}

func NewForm(maxBytes int64) *Form {
	return &Form{
		ButtonTarget: TargetSelf,
		IsActive:     true,
		Background:   form.NewFileSlot(media.NewPolicy(media.KindSliderBackground, maxBytes)),
	}
}

func FormFromSlider(s Slider, storageURL string, maxBytes int64) *Form {
	f := NewForm(maxBytes)
	f.ID = s.ID
	f.Row1Text, f.Row1Color, f.Row1CSS = s.Row1Text, s.Row1Color, s.Row1CSS
	f.Row2Text, f.Row2Color, f.Row2CSS = s.Row2Text, s.Row2Color, s.Row2CSS
	f.ButtonText, f.ButtonURL, f.ButtonColor, f.ButtonCSS = s.ButtonText, s.ButtonURL, s.ButtonColor, s.ButtonCSS
	if s.ButtonTarget != "" {
		f.ButtonTarget = s.ButtonTarget
	}
	f.IsActive = s.IsActive
	if s.Path != "" {
		f.Background.Seed(storageURL, s.Path)
	}
	return f
}

// Validate requires a background unless the slider already exists.
func (f *Form) Validate() form.Errors {
	errs := form.Validate(f, form.Messages{"button_target": "Geçersiz bağlantı hedefi."})
	if f.ID == 0 && (f.Background == nil || f.Background.Empty()) {
		errs.Set("path", ImageRequiredMessage)
	}
	return errs
}

func (f *Form) MultipartSchema() multipart.Schema {
	return multipart.Schema{"path": multipart.File}
}

func (f *Form) MultipartValues() map[string]any {
	values := map[string]any{
		"row_1_text":    f.Row1Text,
		"row_1_color":   f.Row1Color,
		"row_1_css":     f.Row1CSS,
		"row_2_text":    f.Row2Text,
		"row_2_color":   f.Row2Color,
		"row_2_css":     f.Row2CSS,
		"button_text":   f.ButtonText,
		"button_url":    f.ButtonURL,
		"button_target": f.ButtonTarget,
		"button_color":  f.ButtonColor,
		"button_css":    f.ButtonCSS,
		"is_active":     f.IsActive,
	}
	if f.Background != nil {
		if upload := f.Background.Upload(); upload != nil {
			values["path"] = upload
		}
	}
	return values
}

type Service interface {
	List(ctx context.Context, params resource.ListParams) (types.Page[Slider], error)
	FetchByID(ctx context.Context, id int64) (Slider, error)
	Save(ctx context.Context, f *Form) (Slider, error)
	Delete(ctx context.Context, id int64) error
	ChangeStatus(ctx context.Context, id int64) (resource.StatusResult[Slider], error)
}

type service struct {
	*resource.Service[Slider]
}

func NewService(api resource.API, logg *logger.Logger) Service {
	return &service{Service: resource.New[Slider](api, BasePath, logg)}
}

func (s *service) Save(ctx context.Context, f *Form) (Slider, error) {
	if err := f.Validate().AsError(); err != nil {
		return Slider{}, err
	}
	if form.ModeFor(f.ID) == form.ModeEdit {
		return s.Update(ctx, f.ID, f)
	}
	return s.Add(ctx, f)
}
