package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/utafrali/catalog-widget/internal/catalog"
	"github.com/utafrali/catalog-widget/internal/domain"
	"github.com/utafrali/catalog-widget/internal/metrics"
	"github.com/utafrali/catalog-widget/internal/repository"
	apperrors "github.com/utafrali/catalog-widget/pkg/errors"
)

const keySuffix = "_cart_items"

// Key returns the storage key of the cart for a widget namespace.
func Key(namespace string) string {
	return namespace + keySuffix
}

// Store is the session cart: product id to quantity, in insertion order.
// Every mutation is persisted before it returns. Store is not safe for
// concurrent use; the controller serializes access.
type Store struct {
	repo    repository.StateStore
	key     string
	catalog *catalog.Catalog
	logger  *slog.Logger
	metrics *metrics.Metrics

	order []int
	qty   map[int]int
}

// NewStore creates an empty cart backed by repo. m may be nil.
func NewStore(repo repository.StateStore, namespace string, logger *slog.Logger, m *metrics.Metrics) *Store {
	return &Store{
		repo:    repo,
		key:     Key(namespace),
		catalog: catalog.Empty(),
		logger:  logger,
		metrics: m,
		qty:     make(map[int]int),
	}
}

// SetCatalog sets the catalog that Add and LineItems resolve ids against.
func (s *Store) SetCatalog(c *catalog.Catalog) {
	if c == nil {
		c = catalog.Empty()
	}
	s.catalog = c
}

// Add increments the quantity of id, starting at 1, and returns the new
// quantity. An id missing from the catalog is rejected without mutation.
func (s *Store) Add(ctx context.Context, id int) (int, error) {
	if _, ok := s.catalog.FindByID(id); !ok {
		return 0, apperrors.NotFound("product", strconv.Itoa(id))
	}

	if _, ok := s.qty[id]; !ok {
		s.order = append(s.order, id)
	}
	s.qty[id]++

	s.mutated(ctx, "add")
	return s.qty[id], nil
}

// Remove decrements the quantity of id and drops the entry when it reaches
// zero. It returns the remaining quantity. An id not in the cart is rejected
// without mutation.
func (s *Store) Remove(ctx context.Context, id int) (int, error) {
	q, ok := s.qty[id]
	if !ok {
		return 0, apperrors.NotFound("cart item", strconv.Itoa(id))
	}

	q--
	if q > 0 {
		s.qty[id] = q
	} else {
		s.drop(id)
	}

	s.mutated(ctx, "remove")
	return q, nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.order = nil
	s.qty = make(map[int]int)
	s.mutated(ctx, "clear")
}

// TotalItemCount is the sum of quantities over the ids the catalog can
// resolve, so it always equals the quantities shown by LineItems. Entries
// for unknown ids stay stored until Reconcile drops them.
func (s *Store) TotalItemCount() int {
	total := 0
	for id, q := range s.qty {
		if _, ok := s.catalog.FindByID(id); ok {
			total += q
		}
	}
	return total
}

// Quantity returns the quantity of id, or 0.
func (s *Store) Quantity(id int) int {
	return s.qty[id]
}

// Contains reports whether id is in the cart.
func (s *Store) Contains(id int) bool {
	_, ok := s.qty[id]
	return ok
}

// Entries returns the cart in insertion order.
func (s *Store) Entries() []domain.CartEntry {
	out := make([]domain.CartEntry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, domain.CartEntry{ProductID: id, Quantity: s.qty[id]})
	}
	return out
}

// LineItems joins the cart against the catalog. Ids the catalog does not
// know are skipped.
func (s *Store) LineItems() []domain.LineItem {
	out := make([]domain.LineItem, 0, len(s.order))
	for _, id := range s.order {
		p, ok := s.catalog.FindByID(id)
		if !ok {
			continue
		}
		out = append(out, domain.NewLineItem(p, s.qty[id]))
	}
	return out
}

// Summary returns the resolvable lines with their totals.
func (s *Store) Summary() domain.CartSummary {
	lines := s.LineItems()
	sum := domain.CartSummary{Lines: lines}
	for _, li := range lines {
		sum.TotalCount += li.Quantity
		sum.TotalPrice += li.LineTotal
	}
	return sum
}

// Reconcile drops entries whose product is not in the catalog and persists
// when anything changed. It returns the number of dropped entries.
func (s *Store) Reconcile(ctx context.Context) int {
	var stale []int
	for _, id := range s.order {
		if _, ok := s.catalog.FindByID(id); !ok {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return 0
	}

	for _, id := range stale {
		s.drop(id)
	}
	s.logger.InfoContext(ctx, "dropped cart entries missing from catalog",
		slog.Int("count", len(stale)),
	)
	s.mutated(ctx, "reconcile")
	return len(stale)
}

// Persist writes the cart as a JSON array of [productId, quantity] pairs.
// The error is a STORAGE_FAILED AppError.
func (s *Store) Persist(ctx context.Context) error {
	pairs := make([][2]int, 0, len(s.order))
	for _, id := range s.order {
		pairs = append(pairs, [2]int{id, s.qty[id]})
	}

	data, err := json.Marshal(pairs)
	if err != nil {
		return apperrors.StorageFailed("encode", err)
	}
	if err := s.repo.Set(ctx, s.key, data); err != nil {
		return apperrors.StorageFailed("write", err)
	}
	return nil
}

// Restore replaces the cart with the persisted one. A missing key yields an
// empty cart. Unreadable or corrupt data yields an empty cart and a warning.
// Pairs with a non-positive id or quantity are dropped.
func (s *Store) Restore(ctx context.Context) {
	s.order = nil
	s.qty = make(map[int]int)

	data, err := s.repo.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.storageError(ctx, "read", apperrors.StorageFailed("read", err))
		}
		s.observe()
		return
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.WarnContext(ctx, "discarding corrupt cart state",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
		s.observe()
		return
	}

	dropped := 0
	for _, r := range raw {
		var pair []int
		if err := json.Unmarshal(r, &pair); err != nil || len(pair) != 2 || pair[0] <= 0 || pair[1] <= 0 {
			dropped++
			continue
		}
		id, q := pair[0], pair[1]
		if _, ok := s.qty[id]; !ok {
			s.order = append(s.order, id)
		}
		s.qty[id] = q
	}

	if dropped > 0 {
		s.logger.WarnContext(ctx, "dropped invalid cart entries",
			slog.String("key", s.key),
			slog.Int("count", dropped),
		)
	}
	s.observe()
}

func (s *Store) drop(id int) {
	delete(s.qty, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *Store) mutated(ctx context.Context, op string) {
	if s.metrics != nil {
		s.metrics.CartMutations.WithLabelValues(op).Inc()
	}
	s.observe()
	if err := s.Persist(ctx); err != nil {
		s.storageError(ctx, "write", err)
	}
}

func (s *Store) observe() {
	if s.metrics != nil {
		s.metrics.CartItems.Set(float64(s.TotalItemCount()))
	}
}

func (s *Store) storageError(ctx context.Context, op string, err error) {
	s.logger.ErrorContext(ctx, "cart storage failed",
		slog.String("key", s.key),
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	if s.metrics != nil {
		s.metrics.StorageErrors.WithLabelValues(op).Inc()
	}
}
