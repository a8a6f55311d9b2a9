package resource

import (
	"net/url"
	"strings"

	"github.com/kermes/kermes-panel/internal/apiclient"
	"github.com/kermes/kermes-panel/pkg/enums"
	"github.com/kermes/kermes-panel/pkg/pagination"
)

// Sort is the column and direction a list is ordered by.
type Sort struct {
	Column    string              `json:"column"`
	Direction enums.SortDirection `json:"direction"`
}

// DefaultSort orders lists by id ascending.
func DefaultSort() Sort {
	return Sort{Column: pagination.DefaultSortColumn, Direction: enums.SortAsc}
}

// ListParams is one list request. Filters are sent as filter[...] in bracket notation.
type ListParams struct {
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	Sort    Sort           `json:"sort"`
	Filters map[string]any `json:"filters,omitempty"`
}

// Normalized applies the page, page size and sort defaults.
func (p ListParams) Normalized() ListParams {
	p.Page = pagination.NormalizePage(p.Page)
	p.Limit = pagination.NormalizeLimit(p.Limit)
	if strings.TrimSpace(p.Sort.Column) == "" {
		p.Sort.Column = pagination.DefaultSortColumn
	}
	if !p.Sort.Direction.IsValid() {
		p.Sort.Direction = enums.SortAsc
	}
	return p
}

// Query renders the params exactly as the list endpoints expect them.
func (p ListParams) Query() url.Values {
	n := p.Normalized()
	params := map[string]any{
		"page":       n.Page,
		"limit":      n.Limit,
		"sort_by":    n.Sort.Column,
		"sort_order": n.Sort.Direction.String(),
	}
	if len(n.Filters) > 0 {
		params["filter"] = n.Filters
	}
	return apiclient.EncodeQuery(params)
}
