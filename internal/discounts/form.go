package discount

import (
	"strings"
	"time"

	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/pkg/enums"
	"github.com/kermes/kermes-panel/pkg/multipart"
	"github.com/kermes/kermes-panel/pkg/types"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of discount_start and discount_end.
const DateLayout = "2006-01-02 15:04"

var messages = form.Messages{
	"name":            "İndirim adı zorunludur",
	"target_type":     "Geçerli bir hedef tipi seçiniz",
	"discount_type":   "Geçerli bir indirim tipi seçiniz",
	"discount_amount": "İndirim miktarı negatif olamaz",
	"discount_start":  "Tarih YYYY-AA-GG SS:dd biçiminde olmalıdır",
	"discount_end":    "Tarih YYYY-AA-GG SS:dd biçiminde olmalıdır",
}

// Form is the discount create and edit state.
type Form struct {
	ID             int64              `json:"-"`
	Name           string             `json:"name" validate:"notblank"`
	Description    string             `json:"description"`
	IsActive       types.Flag         `json:"is_active"`
	TargetType     enums.TargetType   `json:"target_type"`
	Targets        []types.Option     `json:"targets"`
	DiscountStart  string             `json:"discount_start"`
	DiscountEnd    string             `json:"discount_end"`
	Priority       *int               `json:"priority"`
	DiscountType   enums.DiscountType `json:"discount_type"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	CategoryIDs    []types.Option     `json:"category_ids"`
	TagIDs         []types.Option     `json:"tag_ids"`
	BrandIDs       []types.Option     `json:"brand_ids"`
}

func NewForm() *Form {
	return &Form{
		IsActive:     true,
		TargetType:   enums.TargetTypeProduct,
		Targets:      []types.Option{},
		DiscountType: enums.DiscountTypePercentage,
		CategoryIDs:  []types.Option{},
		TagIDs:       []types.Option{},
		BrandIDs:     []types.Option{},
	}
}

func FormFromDiscount(d Discount) *Form {
	f := NewForm()
	f.ID = d.ID
	f.Name = d.Name
	f.Description = d.Description
	f.IsActive = d.IsActive
	if d.TargetType.IsValid() {
		f.TargetType = d.TargetType
	}
	f.Targets = nonNil(d.Targets)
	f.DiscountStart = d.DiscountStart
	f.DiscountEnd = d.DiscountEnd
	f.Priority = d.Priority
	if d.DiscountType.IsValid() {
		f.DiscountType = d.DiscountType
	}
	f.DiscountAmount = d.DiscountAmount
	f.CategoryIDs = nonNil(d.CategoryIDs)
	f.TagIDs = nonNil(d.TagIDs)
	f.BrandIDs = nonNil(d.BrandIDs)
	return f
}

// SetTargetType switches the target class and always empties the selected targets.
func (f *Form) SetTargetType(t enums.TargetType) {
	f.TargetType = t
	f.Targets = []types.Option{}
}

// SetStart and SetEnd record picker values in DateLayout.
func (f *Form) SetStart(t time.Time) { f.DiscountStart = t.Format(DateLayout) }
func (f *Form) SetEnd(t time.Time)   { f.DiscountEnd = t.Format(DateLayout) }

// pickerLayouts are the other shapes datetime pickers submit.
var pickerLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", time.RFC3339}

// NormalizeDates rewrites picker values such as 2025-04-01T09:30 into DateLayout.
// Values in DateLayout and unparseable ones are left for Validate.
func (f *Form) NormalizeDates() {
	if t, ok := parsePicker(f.DiscountStart); ok {
		f.SetStart(t)
	}
	if t, ok := parsePicker(f.DiscountEnd); ok {
		f.SetEnd(t)
	}
}

func parsePicker(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range pickerLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Validate checks shapes only. Overlaps and ranges are decided by the server.
func (f *Form) Validate() form.Errors {
	errs := form.Validate(f, messages)
	if !f.TargetType.IsValid() {
		errs.Set("target_type", messages["target_type"])
	}
	if !f.DiscountType.IsValid() {
		errs.Set("discount_type", messages["discount_type"])
	}
	if f.DiscountAmount.IsNegative() {
		errs.Set("discount_amount", messages["discount_amount"])
	}
	for _, field := range []struct {
		name  string
		value string
	}{{"discount_start", f.DiscountStart}, {"discount_end", f.DiscountEnd}} {
		if v := strings.TrimSpace(field.value); v != "" {
			if _, err := time.Parse(DateLayout, v); err != nil {
				errs.Set(field.name, messages[field.name])
			}
		}
	}
	return errs
}

func (f *Form) MultipartSchema() multipart.Schema {
	return multipart.Schema{
		"category_ids": multipart.JSON,
		"tag_ids":      multipart.JSON,
		"brand_ids":    multipart.JSON,
		"targets":      multipart.JSON,
	}
}

// MultipartValues flattens every option list to ids. A nil priority is left out.
func (f *Form) MultipartValues() map[string]any {
	return map[string]any{
		"name":            f.Name,
		"description":     f.Description,
		"is_active":       f.IsActive,
		"target_type":     f.TargetType.String(),
		"targets":         types.OptionValues(f.Targets),
		"discount_start":  f.DiscountStart,
		"discount_end":    f.DiscountEnd,
		"priority":        f.Priority,
		"discount_type":   f.DiscountType.String(),
		"discount_amount": f.DiscountAmount,
		"category_ids":    types.OptionValues(f.CategoryIDs),
		"tag_ids":         types.OptionValues(f.TagIDs),
		"brand_ids":       types.OptionValues(f.BrandIDs),
	}
}

func nonNil(opts []types.Option) []types.Option {
	if opts == nil {
		return []types.Option{}
	}
	return opts
}
