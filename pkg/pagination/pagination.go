package pagination

import "slices"

const (
	// DefaultLimit is the page size a list screen opens with.
	DefaultLimit = 10
	// DefaultPage is the first page; pages are 1-based.
	DefaultPage = 1
	// DefaultSortColumn is the column lists sort by until the user picks one.
	DefaultSortColumn = "id"
)

var pageSizes = []int{5, 10, 20, 50, 100}

// PageSizes returns the page-size options offered by list screens.
func PageSizes() []int {
	return slices.Clone(pageSizes)
}

// NormalizeLimit snaps limit to an offered page size, falling back to DefaultLimit.
func NormalizeLimit(limit int) int {
	if slices.Contains(pageSizes, limit) {
		return limit
	}
	return DefaultLimit
}

// NormalizePage enforces the 1-based page index.
func NormalizePage(page int) int {
	if page < DefaultPage {
		return DefaultPage
	}
	return page
}

// PageCount reports how many pages total records span at the given limit.
func PageCount(total, limit int) int {
	limit = NormalizeLimit(limit)
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
