package validators

import (
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kermes/kermes-panel/internal/resource"
	"github.com/kermes/kermes-panel/pkg/enums"
	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
	"github.com/kermes/kermes-panel/pkg/pagination"
)

var filterKey = regexp.MustCompile(`^filter\[([^\]]+)\](\[\])?$`)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(pkgerrors.FieldErrors{key: {"Sayısal bir değer olmalıdır."}})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(pkgerrors.FieldErrors{key: {"Geçersiz değer."}})
	}
	return value, nil
}

// ParseIDParam reads a positive record id from the chi route parameter name.
func ParseIDParam(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "Kayıt bulunamadı.")
	}
	return id, nil
}

// ParseListParams reads page, limit, sort_by, sort_order and filter[...] from the query,
// ordering by fallback when no sort is given. Repeated filter[name][] values become a list.
func ParseListParams(r *http.Request, fallback resource.Sort) (resource.ListParams, error) {
	page, err := ParseQueryInt(r, "page", pagination.DefaultPage, 1, 1<<30)
	if err != nil {
		return resource.ListParams{}, err
	}
	limit, err := ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, slices.Max(pagination.PageSizes()))
	if err != nil {
		return resource.ListParams{}, err
	}

	query := r.URL.Query()
	params := resource.ListParams{
		Page:  page,
		Limit: limit,
		Sort:  fallback,
	}
	if column := SanitizeString(query.Get("sort_by"), 64); column != "" {
		params.Sort.Column = column
	}
	if raw := query.Get("sort_order"); raw != "" {
		dir, err := enums.ParseSortDirection(raw)
		if err != nil {
			return resource.ListParams{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort order").WithDetails(pkgerrors.FieldErrors{"sort_order": {"Geçersiz değer."}})
		}
		params.Sort.Direction = dir
	}

	filters := map[string]any{}
	for key, values := range query {
		m := filterKey.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		if m[2] != "" {
			filters[m[1]] = values
			continue
		}
		filters[m[1]] = SanitizeString(values[0], 256)
	}
	if len(filters) > 0 {
		params.Filters = filters
	}
	return params, nil
}
