package setting

import (
	"context"
	"strings"

	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/internal/media"
	"github.com/kermes/kermes-panel/internal/resource"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/multipart"
	"github.com/kermes/kermes-panel/pkg/types"
)

const BasePath = "admin/settings"

// Keys whose value is an uploaded file rather than text.
const (
	KeyLogo    = "logo"
	KeyFavicon = "favicon"
)

// Setting is one key/value site setting.
type Setting struct {
	ID        int64   `json:"id"`
	Key       string  `json:"key"`
	Value     *string `json:"value"`
	CreatedAt string  `json:"formatted_created_at,omitempty"`
}

func (s Setting) RecordID() int64 { return s.ID }

// WithActive returns s unchanged; settings have no status.
func (s Setting) WithActive(types.Flag) Setting { return s }

// IsFileKey reports whether key carries an upload.
func IsFileKey(key string) bool {
	switch strings.TrimSpace(key) {
	case KeyLogo, KeyFavicon:
		return true
	}
	return false
}

func kindFor(key string) media.Kind {
	if strings.TrimSpace(key) == KeyFavicon {
		return media.KindFavicon
	}
	return media.KindLogo
}

var messages = form.Messages{
	"key": "Anahtar zorunludur",
}

// Form is the setting create and edit state. The key cannot change once saved.
type Form struct {
	ID    int64  `json:"-"`
	Key   string `json:"key" validate:"notblank"`
	Value string `json:"value"`

	maxBytes int64
	file     *form.FileSlot
}

func NewForm(maxBytes int64) *Form {
	return &Form{maxBytes: maxBytes}
}

// FormFromSetting seeds an edit form; for file keys the stored value is the file path.
func FormFromSetting(s Setting, storageURL string, maxBytes int64) *Form {
	f := NewForm(maxBytes)
	f.ID = s.ID
	f.Key = s.Key
	if s.Value != nil {
		if IsFileKey(s.Key) {
			f.File().Seed(storageURL, *s.Value)
		} else {
			f.Value = *s.Value
		}
	}
	return f
}

// SetKey changes the key of a new setting. The upload slot follows the key's file kind.
func (f *Form) SetKey(key string) bool {
	if f.ID > 0 {
		return false
	}
	if kindFor(key) != kindFor(f.Key) {
		f.file = nil
	}
	f.Key = key
	return true
}

// File returns the upload slot for logo and favicon keys.
func (f *Form) File() *form.FileSlot {
	if f.file == nil {
		f.file = form.NewFileSlot(media.NewPolicy(kindFor(f.Key), f.maxBytes))
	}
	return f.file
}

func (f *Form) Validate() form.Errors {
	return form.Validate(f, messages)
}

func (f *Form) MultipartSchema() multipart.Schema {
	if IsFileKey(f.Key) {
		return multipart.Schema{strings.TrimSpace(f.Key): multipart.File}
	}
	return nil
}

// MultipartValues sends the file under the key's own name for logo and favicon, value otherwise.
func (f *Form) MultipartValues() map[string]any {
	key := strings.TrimSpace(f.Key)
	values := map[string]any{"key": key}
	if IsFileKey(key) {
		if f.file != nil {
			if upload := f.file.Upload(); upload != nil {
				values[key] = upload
			}
		}
		return values
	}
	values["value"] = f.Value
	return values
}

type Service interface {
	List(ctx context.Context, params resource.ListParams) (types.Page[Setting], error)
	FetchByID(ctx context.Context, id int64) (Setting, error)
	Save(ctx context.Context, f *Form) (Setting, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	*resource.Service[Setting]
}

func NewService(api resource.API, logg *logger.Logger) Service {
	return &service{Service: resource.New[Setting](api, BasePath, logg)}
}

func (s *service) Save(ctx context.Context, f *Form) (Setting, error) {
	if err := f.Validate().AsError(); err != nil {
		return Setting{}, err
	}
	if form.ModeFor(f.ID) == form.ModeEdit {
		return s.Update(ctx, f.ID, f)
	}
	return s.Add(ctx, f)
}
