package pagination

// Page is one page cut from an ordered sequence.
type Page[T any] struct {
	Items      []T  `json:"items"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// PageCount returns ceil(total / perPage). A perPage below 1 is treated as 1.
func PageCount(total, perPage int) int {
	if perPage < 1 {
		perPage = 1
	}
	if total <= 0 {
		return 0
	}
	pages := total / perPage
	if total%perPage > 0 {
		pages++
	}
	return pages
}

// Clamp pins page into [1, max(totalPages, 1)].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate returns items[(page-1)*perPage : page*perPage] with the page number
// clamped into range. The returned slice aliases items.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage < 1 {
		perPage = 1
	}
	total := len(items)
	totalPages := PageCount(total, perPage)
	page = Clamp(page, totalPages)

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// LinkKind distinguishes numbered page links from elided gaps.
type LinkKind string

const (
	LinkPage LinkKind = "page"
	LinkGap  LinkKind = "gap"
)

// Link is one entry in a pager control.
type Link struct {
	Kind   LinkKind `json:"kind"`
	Page   int      `json:"page,omitempty"`
	Active bool     `json:"active,omitempty"`
}

// Links builds the pager window: the first and last page, every page within
// two of current, and a gap marker at distance three.
func Links(current, totalPages int) []Link {
	if totalPages < 1 {
		return nil
	}
	current = Clamp(current, totalPages)

	links := make([]Link, 0, 9)
	for i := 1; i <= totalPages; i++ {
		switch {
		case i == 1 || i == totalPages || (i >= current-2 && i <= current+2):
			links = append(links, Link{Kind: LinkPage, Page: i, Active: i == current})
		case i == current-3 || i == current+3:
			links = append(links, Link{Kind: LinkGap})
		}
	}
	return links
}
