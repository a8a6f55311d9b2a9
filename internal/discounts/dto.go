package discount

import (
	"github.com/kermes/kermes-panel/pkg/enums"
	"github.com/kermes/kermes-panel/pkg/types"
	"github.com/shopspring/decimal"
)

// Discount is a product discount rule. The engine that applies it lives server-side.
type Discount struct {
	ID             int64              `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	TargetType     enums.TargetType   `json:"target_type"`
	Targets        []types.Option     `json:"targets,omitempty"`
	DiscountType   enums.DiscountType `json:"discount_type"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	Priority       *int               `json:"priority"`
	DiscountStart  string             `json:"discount_start"`
	DiscountEnd    string             `json:"discount_end"`
	IsActive       types.Flag         `json:"is_active"`
	CategoryIDs    []types.Option     `json:"category_ids,omitempty"`
	TagIDs         []types.Option     `json:"tag_ids,omitempty"`
	BrandIDs       []types.Option     `json:"brand_ids,omitempty"`
}

func (d Discount) RecordID() int64 { return d.ID }

func (d Discount) WithActive(active types.Flag) Discount {
	d.IsActive = active
	return d
}

// Options are the narrowing lists offered by /admin/product-discount/create.
type Options struct {
	Tags       []types.IDName `json:"tags"`
	Categories []types.IDName `json:"categories"`
	Brands     []types.IDName `json:"brands"`
}

// TargetLabel is the Turkish display name of a target type, "" when unknown.
func TargetLabel(t enums.TargetType) string {
	switch t {
	case enums.TargetTypeProduct:
		return "Ürün"
	case enums.TargetTypeCategory:
		return "Kategori"
	case enums.TargetTypeBrand:
		return "Marka"
	case enums.TargetTypeTag:
		return "Etiket"
	case enums.TargetTypeUser:
		return "Kullanıcı"
	}
	return ""
}

// DiscountTypeLabel is the Turkish display name of a discount type.
func DiscountTypeLabel(t enums.DiscountType) string {
	switch t {
	case enums.DiscountTypePercentage:
		return "Yüzde"
	case enums.DiscountTypeFixed:
		return "Sabit Miktar"
	}
	return ""
}

// Choice is a select entry keyed by an enum value.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TargetChoices lists every target type with its label.
func TargetChoices() []Choice {
	out := make([]Choice, 0, len(enums.TargetTypes()))
	for _, t := range enums.TargetTypes() {
		out = append(out, Choice{Value: t.String(), Label: TargetLabel(t)})
	}
	return out
}

// DiscountTypeChoices lists the amount kinds with their labels.
func DiscountTypeChoices() []Choice {
	return []Choice{
		{Value: enums.DiscountTypePercentage.String(), Label: DiscountTypeLabel(enums.DiscountTypePercentage)},
		{Value: enums.DiscountTypeFixed.String(), Label: DiscountTypeLabel(enums.DiscountTypeFixed)},
	}
}
