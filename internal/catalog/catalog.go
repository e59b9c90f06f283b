package catalog

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/utafrali/catalog-widget/internal/domain"
	apperrors "github.com/utafrali/catalog-widget/pkg/errors"
	"github.com/utafrali/catalog-widget/pkg/validator"
)

// Catalog is the read-only product set of a session.
type Catalog struct {
	products   []domain.Product
	index      map[int]int
	categories []domain.CategoryCount
}

// New builds a catalog from already validated products with unique ids.
func New(products []domain.Product) *Catalog {
	c := &Catalog{
		products: make([]domain.Product, len(products)),
		index:    make(map[int]int, len(products)),
	}
	copy(c.products, products)
	for i, p := range c.products {
		c.index[p.ID] = i
	}
	c.categories = countCategories(c.products)
	return c
}

// Empty is the catalog used before a load completes or after it fails.
func Empty() *Catalog {
	return New(nil)
}

// Load reads src and keeps every valid record. Records failing validation,
// records whose mrp is below their price and records repeating an earlier id
// are dropped with a warning. A source
// failure is returned as a LOAD_FAILED error wrapping apperrors.ErrLoad.
func Load(ctx context.Context, src Source, logger *slog.Logger) (*Catalog, error) {
	records, err := src.Load(ctx)
	if err != nil {
		return nil, apperrors.LoadFailed(src.Name(), err)
	}

	kept := make([]domain.Product, 0, len(records))
	seen := make(map[int]struct{}, len(records))
	for i, p := range records {
		if err := validator.Validate(p); err != nil {
			logger.WarnContext(ctx, "dropping invalid product record",
				slog.Int("position", i),
				slog.Int("product_id", p.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if p.MRP != nil && *p.MRP < p.Price {
			logger.WarnContext(ctx, "dropping product priced above its MRP",
				slog.Int("position", i),
				slog.Int("product_id", p.ID),
				slog.Int64("price", p.Price),
				slog.Int64("mrp", *p.MRP),
			)
			continue
		}
		if _, dup := seen[p.ID]; dup {
			logger.WarnContext(ctx, "dropping duplicate product id",
				slog.Int("position", i),
				slog.Int("product_id", p.ID),
			)
			continue
		}
		seen[p.ID] = struct{}{}
		kept = append(kept, p)
	}

	logger.InfoContext(ctx, "catalog loaded",
		slog.String("source", src.Name()),
		slog.Int("products", len(kept)),
		slog.Int("dropped", len(records)-len(kept)),
	)

	return New(kept), nil
}

// Products returns a copy of the catalog in feed order.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// FindByID looks a product up by id.
func (c *Catalog) FindByID(id int) (domain.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// Lookup is FindByID returning an apperrors.NotFound error for unknown ids.
func (c *Catalog) Lookup(id int) (domain.Product, error) {
	p, ok := c.FindByID(id)
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", strconv.Itoa(id))
	}
	return p, nil
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Categories returns the "all" entry with the total count first, then each
// distinct category in first-seen order with its count.
func (c *Catalog) Categories() []domain.CategoryCount {
	out := make([]domain.CategoryCount, len(c.categories))
	copy(out, c.categories)
	return out
}

func countCategories(products []domain.Product) []domain.CategoryCount {
	counts := []domain.CategoryCount{{Category: domain.AllCategories, Count: len(products)}}
	pos := make(map[string]int)
	for _, p := range products {
		i, ok := pos[p.Category]
		if !ok {
			i = len(counts)
			pos[p.Category] = i
			counts = append(counts, domain.CategoryCount{Category: p.Category})
		}
		counts[i].Count++
	}
	return counts
}
