package enums

import (
	"fmt"
	"strings"
)

// SortDirection is the order sent as sort_order on list requests.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// String implements fmt.Stringer.
func (s SortDirection) String() string {
	return string(s)
}

// IsValid reports whether the value is asc or desc.
func (s SortDirection) IsValid() bool {
	return s == SortAsc || s == SortDesc
}

// ParseSortDirection accepts asc/desc in any case.
func ParseSortDirection(value string) (SortDirection, error) {
	switch SortDirection(strings.ToLower(strings.TrimSpace(value))) {
	case SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	}
	return "", fmt.Errorf("invalid sort direction %q", value)
}
