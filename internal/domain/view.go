package domain

import "github.com/utafrali/catalog-widget/pkg/pagination"

// ProductCard is one tile of the grid.
type ProductCard struct {
	Product  Product     `json:"product"`
	Pricing  PricingView `json:"pricing"`
	InCart   bool        `json:"in_cart"`
	Quantity int         `json:"quantity"`
	Removing bool        `json:"removing,omitempty"`
}

// PaginationView drives the page links under the grid.
type PaginationView struct {
	CurrentPage int               `json:"current_page"`
	PageCount   int               `json:"page_count"`
	HasPrev     bool              `json:"has_prev"`
	HasNext     bool              `json:"has_next"`
	Links       []pagination.Link `json:"links"`
}

// PreviewBanner is the "view all" prompt of a collapsed category.
type PreviewBanner struct {
	RemainingCount int `json:"remaining_count"`
	TotalCount     int `json:"total_count"`
}

// ViewModel is everything the renderer needs to draw the widget.
type ViewModel struct {
	Status        LoadStatus      `json:"status"`
	Filter        FilterState     `json:"filter"`
	CategoryLabel string          `json:"category_label"`
	Products      []ProductCard   `json:"products"`
	Pagination    *PaginationView `json:"pagination,omitempty"`
	PreviewBanner *PreviewBanner  `json:"preview_banner,omitempty"`
	Empty         bool            `json:"empty"`
	CartCount     int             `json:"cart_count"`
	Suggestions   []Suggestion    `json:"suggestions,omitempty"`
}
