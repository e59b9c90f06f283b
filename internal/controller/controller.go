// Package controller owns the widget state and applies user events to it.
package controller

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/utafrali/catalog-widget/internal/cart"
	"github.com/utafrali/catalog-widget/internal/catalog"
	"github.com/utafrali/catalog-widget/internal/domain"
	"github.com/utafrali/catalog-widget/internal/filter"
	"github.com/utafrali/catalog-widget/internal/metrics"
	"github.com/utafrali/catalog-widget/internal/view"
	"github.com/utafrali/catalog-widget/pkg/logger"
	"github.com/utafrali/catalog-widget/pkg/tracing"
)

const tracerName = "github.com/utafrali/catalog-widget/internal/controller"

// DefaultRemoveTransition is how long a product card shows its removal
// transition before the cart is updated.
const DefaultRemoveTransition = 500 * time.Millisecond

// Renderer draws the widget from a view model.
type Renderer interface {
	Render(ctx context.Context, vm domain.ViewModel)
}

// Notifier shows a transient notice to the user.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notice)
}

// Notifiers fans each notice out to every notifier in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, n domain.Notice) {
	for _, x := range ns {
		if x != nil {
			x.Notify(ctx, n)
		}
	}
}

// Options tune the controller.
type Options struct {
	Limits           domain.Limits
	RemoveTransition time.Duration
}

// DefaultOptions returns the default grid limits and removal transition.
func DefaultOptions() Options {
	return Options{
		Limits:           domain.DefaultLimits(),
		RemoveTransition: DefaultRemoveTransition,
	}
}

// State is the widget state owned by the controller.
type State struct {
	Catalog     *catalog.Catalog
	Filter      domain.FilterState
	View        domain.ViewState
	Status      domain.LoadStatus
	Removing    int
	Suggestions []domain.Suggestion
}

// Controller applies events to the widget state one at a time and renders
// after each. It is not safe for concurrent use.
type Controller struct {
	state    State
	cart     *cart.Store
	renderer Renderer
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	opts     Options
}

// New creates a controller in the pending state. m may be nil.
func New(cartStore *cart.Store, renderer Renderer, notifier Notifier, logger *slog.Logger, m *metrics.Metrics, opts Options) *Controller {
	if opts.Limits.ProductsPerPage < 1 {
		opts.Limits.ProductsPerPage = domain.DefaultProductsPerPage
	}
	if opts.Limits.PreviewLimit < 1 {
		opts.Limits.PreviewLimit = domain.DefaultPreviewLimit
	}
	if opts.Limits.SuggestionLimit < 1 {
		opts.Limits.SuggestionLimit = domain.DefaultSuggestionLimit
	}
	if opts.RemoveTransition < 0 {
		opts.RemoveTransition = 0
	}

	return &Controller{
		state: State{
			Catalog: catalog.Empty(),
			Filter:  domain.DefaultFilterState(),
			View:    domain.DefaultViewState(),
			Status:  domain.StatusPending,
		},
		cart:     cartStore,
		renderer: renderer,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
		opts:     opts,
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	s := c.state
	s.Suggestions = append([]domain.Suggestion(nil), c.state.Suggestions...)
	return s
}

// Load restores the persisted cart and loads the catalog from src. On
// success the cart is reconciled against the catalog. On failure the catalog
// stays empty, an error notice is raised and the error is returned. Either
// way the widget is rendered and starts accepting events.
func (c *Controller) Load(ctx context.Context, src catalog.Source) error {
	ctx, span := tracing.Tracer(tracerName).Start(ctx, "widget.load")
	defer span.End()

	c.cart.Restore(ctx)

	cat, err := catalog.Load(ctx, src, c.logger)
	if err != nil {
		tracing.RecordError(span, err)
		c.logger.ErrorContext(ctx, "catalog load failed",
			slog.String("source", src.Name()),
			slog.String("error", err.Error()),
		)
		c.state.Catalog = catalog.Empty()
		c.state.Status = domain.StatusFailed
		c.cart.SetCatalog(c.state.Catalog)
		c.recordLoad("failure", 0)

		var d Delta
		c.raise(ctx, &d, noticeLoadFailed)
		c.render(ctx)
		return err
	}

	c.state.Catalog = cat
	c.state.Status = domain.StatusLoaded
	c.cart.SetCatalog(cat)
	c.cart.Reconcile(ctx)
	c.recordLoad("success", cat.Len())
	span.SetAttributes(attribute.Int("catalog.products", cat.Len()))

	c.render(ctx)
	return nil
}

// Handle applies ev and renders the result. Events received before Load has
// finished are ignored.
func (c *Controller) Handle(ctx context.Context, ev Event) Delta {
	if !c.state.Status.Ready() {
		c.logger.DebugContext(ctx, "ignoring event before catalog load",
			slog.String("event", string(ev.Type)),
		)
		return Delta{Ignored: true}
	}

	ctx, span := tracing.Tracer(tracerName).Start(ctx, "widget.handle")
	defer span.End()
	span.SetAttributes(attribute.String("widget.event", string(ev.Type)))

	if c.metrics != nil {
		c.metrics.EventsHandled.WithLabelValues(string(ev.Type)).Inc()
	}

	var d Delta
	switch ev.Type {
	case EventCategorySelected:
		c.setFilter(&d, ev.Category, c.state.Filter.SearchTerm)
		c.raise(ctx, &d, noticeFiltered(c.state.Filter.Category))
	case EventSearchInput:
		c.setFilter(&d, c.state.Filter.Category, ev.Term)
		c.setSuggestions(&d, filter.Suggest(c.state.Catalog.Products(), ev.Term, c.opts.Limits.SuggestionLimit))
	case EventSearchSubmitted:
		term := strings.TrimSpace(ev.Term)
		if term == "" {
			c.raise(ctx, &d, noticeEmptySearch)
			break
		}
		c.setFilter(&d, c.state.Filter.Category, term)
		c.setSuggestions(&d, nil)
		c.raise(ctx, &d, noticeSearching(term))
	case EventSearchCleared:
		c.setFilter(&d, c.state.Filter.Category, "")
		c.setSuggestions(&d, nil)
		c.raise(ctx, &d, noticeCleared)
	case EventSuggestionSelected:
		c.setFilter(&d, c.state.Filter.Category, term)
		c.setSuggestions(&d, nil)
		c.raise(ctx, &d, noticeSuggestion(ev.Term))
	case EventAddToCart:
		c.addToCart(ctx, &d, ev.ProductID)
	case EventRemoveFromCart:
		c.removeFromCart(ctx, &d, ev.ProductID)
		return d
	case EventClearCart:
		c.cart.Clear(ctx)
		d.CartChanged = true
		c.raise(ctx, &d, noticeCartCleared)
	case EventPageChanged:
		c.state.View.CurrentPage = ev.Page
		d.ViewChanged = true
	case EventShowAllInCategory:
		c.state.View.ShowAll = true
		d.ViewChanged = true
	default:
		c.logger.WarnContext(ctx, "ignoring unknown event", slog.String("event", string(ev.Type)))
		return Delta{Ignored: true}
	}

	c.render(ctx)
	return d
}

// ViewModel builds the current view model without rendering it.
func (c *Controller) ViewModel() domain.ViewModel {
	vm, _ := c.build()
	return vm
}

func (c *Controller) build() (domain.ViewModel, view.Layout) {
	filtered := filter.Apply(c.state.Catalog.Products(), c.state.Filter)
	layout := view.Arrange(filtered, c.state.Filter, c.state.View, c.opts.Limits)

	vm := domain.ViewModel{
		Status:        c.state.Status,
		Filter:        c.state.Filter,
		CategoryLabel: domain.CategoryLabel(c.state.Filter.Category),
		Products:      view.Cards(layout.Products, c.cart, c.state.Removing),
		Pagination:    layout.Pagination,
		PreviewBanner: layout.PreviewBanner,
		Empty:         layout.Empty,
		CartCount:     c.cart.TotalItemCount(),
		Suggestions:   append([]domain.Suggestion(nil), c.state.Suggestions...),
	}
	return vm, layout
}

// ProductDetail returns the full card of one product.
func (c *Controller) ProductDetail(id int) (domain.ProductCard, error) {
	p, err := c.state.Catalog.Lookup(id)
	if err != nil {
		return domain.ProductCard{}, err
	}
	cards := view.Cards([]domain.Product{p}, c.cart, c.state.Removing)
	return cards[0], nil
}

// CartSummary returns the cart review lines and totals.
func (c *Controller) CartSummary() domain.CartSummary {
	return c.cart.Summary()
}

// Categories returns the category picker entries.
func (c *Controller) Categories() []domain.CategoryCount {
	return c.state.Catalog.Categories()
}

func (c *Controller) setFilter(d *Delta, category, term string) {
	if category == "" {
		category = domain.AllCategories
	}
	c.state.Filter = domain.FilterState{Category: category, SearchTerm: term}
	c.state.View = domain.DefaultViewState()
	d.FilterChanged = true
	d.ViewChanged = true
}

func (c *Controller) setSuggestions(d *Delta, s []domain.Suggestion) {
	c.state.Suggestions = s
	d.Suggestions = append([]domain.Suggestion(nil), s...)
}

func (c *Controller) addToCart(ctx context.Context, d *Delta, id int) {
	p, ok := c.state.Catalog.FindByID(id)
	if !ok {
		c.logger.DebugContext(ctx, "ignoring add of unknown product", slog.Int("product_id", id))
		d.Ignored = true
		return
	}
	if _, err := c.cart.Add(ctx, id); err != nil {
		c.logger.DebugContext(ctx, "add to cart rejected",
			slog.Int("product_id", id),
			slog.String("error", err.Error()),
		)
		d.Ignored = true
		return
	}
	d.CartChanged = true
	c.raise(ctx, d, noticeAdded(p.Name))
}

// removeFromCart renders the removal transition, waits for it, then commits
// the decrement and renders again. If ctx ends during the transition the
// removal is abandoned.
func (c *Controller) removeFromCart(ctx context.Context, d *Delta, id int) {
	p, ok := c.state.Catalog.FindByID(id)
	if !ok || !c.cart.Contains(id) {
		c.logger.DebugContext(ctx, "ignoring removal of product not in cart", slog.Int("product_id", id))
		d.Ignored = true
		return
	}

	c.state.Removing = id
	c.render(ctx)

	if err := c.wait(ctx, c.opts.RemoveTransition); err != nil {
		c.state.Removing = 0
		c.logger.WarnContext(ctx, "removal abandoned",
			slog.Int("product_id", id),
			slog.String("error", err.Error()),
		)
		d.Ignored = true
		c.render(context.WithoutCancel(ctx))
		return
	}

	c.state.Removing = 0
	if _, err := c.cart.Remove(ctx, id); err != nil {
		d.Ignored = true
		c.render(ctx)
		return
	}
	d.CartChanged = true
	c.raise(ctx, d, noticeRemoved(p.Name))
	c.render(ctx)
}

func (c *Controller) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) raise(ctx context.Context, d *Delta, n domain.Notice) {
	d.notice(n)
	if c.metrics != nil {
		c.metrics.NoticesRaised.WithLabelValues(string(n.Severity)).Inc()
	}
	if c.notifier != nil {
		c.notifier.Notify(ctx, n)
	}
}

func (c *Controller) render(ctx context.Context) {
	vm, layout := c.build()
	c.state.View = layout.View

	if c.metrics != nil {
		c.metrics.FilterResults.Observe(float64(layout.TotalCount))
	}
	if c.renderer != nil {
		c.renderer.Render(ctx, vm)
	}
	logger.WithContext(ctx, c.logger).DebugContext(ctx, "rendered widget",
		slog.Int("products", len(vm.Products)),
		slog.Int("matched", layout.TotalCount),
		slog.Int("cart_count", vm.CartCount),
		slog.String("category", vm.Filter.Category),
		slog.Int("page", layout.View.CurrentPage),
	)
}

func (c *Controller) recordLoad(result string, size int) {
	if c.metrics == nil {
		return
	}
	c.metrics.CatalogLoads.WithLabelValues(result).Inc()
	c.metrics.CatalogSize.Set(float64(size))
}
