package domain

// AllCategories is the category sentinel that disables category filtering.
const AllCategories = "all"

// Default limits of the catalog grid.
const (
	DefaultProductsPerPage = 8
	DefaultPreviewLimit    = 8
	DefaultSuggestionLimit = 5
)

// FilterState is the active category and search term.
type FilterState struct {
	Category   string `json:"category"`
	SearchTerm string `json:"search_term"`
}

// DefaultFilterState is the state on load: every category, no search.
func DefaultFilterState() FilterState {
	return FilterState{Category: AllCategories}
}

// IsAll reports whether the category filter passes every product.
func (f FilterState) IsAll() bool {
	return f.Category == AllCategories
}

// ViewState is the grid position within the filtered set.
type ViewState struct {
	CurrentPage int  `json:"current_page"`
	ShowAll     bool `json:"show_all"`
}

// DefaultViewState is the first page with preview mode collapsed.
func DefaultViewState() ViewState {
	return ViewState{CurrentPage: 1}
}

// Limits bounds how many products the grid shows at once.
type Limits struct {
	ProductsPerPage int
	PreviewLimit    int
	SuggestionLimit int
}

// DefaultLimits returns the grid limits used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{
		ProductsPerPage: DefaultProductsPerPage,
		PreviewLimit:    DefaultPreviewLimit,
		SuggestionLimit: DefaultSuggestionLimit,
	}
}

// LoadStatus tracks the startup catalog load.
type LoadStatus string

const (
	StatusPending LoadStatus = "pending"
	StatusLoaded  LoadStatus = "loaded"
	StatusFailed  LoadStatus = "failed"
)

// Ready reports whether the load has finished, successfully or not.
func (s LoadStatus) Ready() bool {
	return s == StatusLoaded || s == StatusFailed
}
