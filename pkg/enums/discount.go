package enums

import "fmt"

// TargetType is the entity class a discount rule applies to.
type TargetType string

const (
	TargetTypeProduct  TargetType = "product"
	TargetTypeCategory TargetType = "category"
	TargetTypeBrand    TargetType = "brand"
	TargetTypeTag      TargetType = "tag"
	TargetTypeUser     TargetType = "user"
)

var validTargetTypes = []TargetType{
	TargetTypeProduct,
	TargetTypeCategory,
	TargetTypeBrand,
	TargetTypeTag,
	TargetTypeUser,
}

// TargetTypes returns the selectable target types in display order.
func TargetTypes() []TargetType {
	out := make([]TargetType, len(validTargetTypes))
	copy(out, validTargetTypes)
	return out
}

// String implements fmt.Stringer.
func (t TargetType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TargetType.
func (t TargetType) IsValid() bool {
	for _, candidate := range validTargetTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTargetType converts raw input into a TargetType.
func ParseTargetType(value string) (TargetType, error) {
	for _, candidate := range validTargetTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid target type %q", value)
}

// DiscountType selects how discount_amount is applied.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

var validDiscountTypes = []DiscountType{
	DiscountTypePercentage,
	DiscountTypeFixed,
}

// String implements fmt.Stringer.
func (d DiscountType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountType.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountType converts raw input into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}
