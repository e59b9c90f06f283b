package controller

import "github.com/utafrali/catalog-widget/internal/domain"

// EventType names a user interaction with the widget.
type EventType string

const (
	EventCategorySelected   EventType = "category_selected"
	EventSearchInput        EventType = "search_input"
	EventSearchSubmitted    EventType = "search_submitted"
	EventSearchCleared      EventType = "search_cleared"
	EventSuggestionSelected EventType = "suggestion_selected"
	EventAddToCart          EventType = "add_to_cart"
	EventRemoveFromCart     EventType = "remove_from_cart"
	EventClearCart          EventType = "clear_cart"
	EventPageChanged        EventType = "page_changed"
	EventShowAllInCategory  EventType = "show_all_in_category"
)

// EventTypes lists every event the controller handles.
var EventTypes = []EventType{
	EventCategorySelected,
	EventSearchInput,
	EventSearchSubmitted,
	EventSearchCleared,
	EventSuggestionSelected,
	EventAddToCart,
	EventRemoveFromCart,
	EventClearCart,
	EventPageChanged,
	EventShowAllInCategory,
}

// Event is one user interaction. Only the fields its Type uses are read:
// Category for category_selected, Term for the search events, ProductID for
// the cart events and Page for page_changed.
type Event struct {
	Type      EventType
	Category  string
	Term      string
	ProductID int
	Page      int
}

// Delta reports what handling an event changed.
type Delta struct {
	// Ignored is set when the event arrived before the catalog load finished
	// or could not be applied.
	Ignored       bool
	FilterChanged bool
	ViewChanged   bool
	CartChanged   bool
	Notices       []domain.Notice
	Suggestions   []domain.Suggestion
}

func (d *Delta) notice(n domain.Notice) {
	d.Notices = append(d.Notices, n)
}
