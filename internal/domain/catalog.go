package domain

// SuggestionKind says which product field a search suggestion came from.
type SuggestionKind string

const (
	SuggestionName     SuggestionKind = "name"
	SuggestionBrand    SuggestionKind = "brand"
	SuggestionCategory SuggestionKind = "category"
)

// Suggestion is a search completion offered while the user types.
type Suggestion struct {
	Value string         `json:"value"`
	Kind  SuggestionKind `json:"kind"`
}

// CategoryCount is one entry of the category picker.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryLabel is the display label for a category value.
func CategoryLabel(category string) string {
	if category == AllCategories {
		return "All Categories"
	}
	return category
}
