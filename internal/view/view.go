// Package view decides which slice of the filtered catalog the grid shows
// and turns it into product cards.
package view

import (
	"github.com/utafrali/catalog-widget/internal/domain"
	"github.com/utafrali/catalog-widget/pkg/pagination"
)

// Layout is the arranged grid for one render.
type Layout struct {
	Products      []domain.Product
	View          domain.ViewState
	Pagination    *domain.PaginationView
	PreviewBanner *domain.PreviewBanner
	Empty         bool
	TotalCount    int
}

// Arrange lays out filtered for the current filter and view state.
//
// With every category selected the grid is paged, and a pager is present only
// when there is more than one page. With a single category selected the grid
// previews the first PreviewLimit products and a banner counts the rest,
// unless ShowAll is set, in which case every product is shown and there is no
// pager. The returned View carries the page clamped into range.
func Arrange(filtered []domain.Product, f domain.FilterState, v domain.ViewState, limits domain.Limits) Layout {
	l := Layout{View: v, TotalCount: len(filtered)}
	if l.View.CurrentPage < 1 {
		l.View.CurrentPage = 1
	}

	if len(filtered) == 0 {
		l.Empty = true
		l.View.CurrentPage = 1
		return l
	}

	if f.IsAll() {
		page := pagination.Paginate(filtered, v.CurrentPage, limits.ProductsPerPage)
		l.Products = page.Items
		l.View.CurrentPage = page.Page
		if page.TotalPages > 1 {
			l.Pagination = &domain.PaginationView{
				CurrentPage: page.Page,
				PageCount:   page.TotalPages,
				HasPrev:     page.HasPrev,
				HasNext:     page.HasNext,
				Links:       pagination.Links(page.Page, page.TotalPages),
			}
		}
		return l
	}

	preview := limits.PreviewLimit
	if preview < 1 {
		preview = 1
	}
	if len(filtered) > preview && !v.ShowAll {
		l.Products = filtered[:preview]
		l.PreviewBanner = &domain.PreviewBanner{
			RemainingCount: len(filtered) - preview,
			TotalCount:     len(filtered),
		}
		return l
	}

	l.Products = filtered
	return l
}

// CartReader is the part of the cart a product card needs.
type CartReader interface {
	Quantity(id int) int
}

// Cards builds the grid tiles for products. removing is the id of the
// product whose removal transition is in flight, or 0.
func Cards(products []domain.Product, cart CartReader, removing int) []domain.ProductCard {
	out := make([]domain.ProductCard, 0, len(products))
	for _, p := range products {
		q := cart.Quantity(p.ID)
		out = append(out, domain.ProductCard{
			Product:  p,
			Pricing:  p.Pricing(),
			InCart:   q > 0,
			Quantity: q,
			Removing: removing != 0 && p.ID == removing,
		})
	}
	return out
}
