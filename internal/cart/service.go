package cart

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bazarly/storefront-backend/internal/analytics"
	"github.com/bazarly/storefront-backend/internal/catalog"
	"github.com/bazarly/storefront-backend/pkg/auth"
	"github.com/bazarly/storefront-backend/pkg/enums"
	pkgerrors "github.com/bazarly/storefront-backend/pkg/errors"
	"github.com/bazarly/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type productLoader interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
}

type persistence interface {
	Key(auth.Identity) string
	Load(ctx context.Context, id auth.Identity) (State, error)
	Save(ctx context.Context, id auth.Identity, s State) error
	Clear(ctx context.Context, id auth.Identity) error
}

// Service orchestrates cart mutations: pure state transitions first, then
// persistence and tracking as decoupled post-mutation effects. The in-memory
// state stays authoritative for the session even when persistence fails.
type Service interface {
	GetCart(ctx context.Context, id auth.Identity) State
	PendingAdds(id auth.Identity) []int64
	AddItem(ctx context.Context, id auth.Identity, productID int64, quantity int) (State, Result, error)
	UpdateQuantity(ctx context.Context, id auth.Identity, productID int64, quantity int) (State, Result)
	RemoveItem(ctx context.Context, id auth.Identity, productID int64) State
	ClearCart(ctx context.Context, id auth.Identity) State
	BeginCheckout(ctx context.Context, id auth.Identity) (State, error)
}

// ServiceParams groups dependencies for the cart service. Analytics and
// OnItemAdded are optional: a nil recorder disables tracking and a nil hook
// disables the open-cart signal.
type ServiceParams struct {
	Repo        *Repository
	Products    productLoader
	Analytics   analytics.Service
	Logger      *logger.Logger
	Currency    enums.Currency
	OnItemAdded func()
}

type service struct {
	mu      sync.Mutex
	carts   map[string]State
	pending map[string]map[int64]int

	repo        persistence
	products    productLoader
	analytics   analytics.Service
	logg        *logger.Logger
	currency    enums.Currency
	onItemAdded func()
}

// NewService builds a cart service backed by the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("cart repository is required")
	}
	if params.Products == nil {
		return nil, errors.New("product loader is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	currency := params.Currency
	if currency == "" {
		currency = enums.CurrencyBDT
	}
	if !currency.IsValid() {
		return nil, fmt.Errorf("invalid currency %q", currency)
	}
	return &service{
		carts:       map[string]State{},
		pending:     map[string]map[int64]int{},
		repo:        params.Repo,
		products:    params.Products,
		analytics:   params.Analytics,
		logg:        params.Logger,
		currency:    currency,
		onItemAdded: params.OnItemAdded,
	}, nil
}

// GetCart returns the current cart for the identity, hydrating from storage
// on first access.
func (s *service) GetCart(ctx context.Context, id auth.Identity) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(ctx, id)
}

// PendingAdds lists product ids with an in-flight add, for UI disabling only.
func (s *service) PendingAdds(id auth.Identity) []int64 {
	key := s.repo.Key(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.pending[key]))
	for productID := range s.pending[key] {
		ids = append(ids, productID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AddItem fetches a fresh product snapshot and merge-adds it to the cart.
// Stock rejections come back in the Result, not as errors; errors are
// reserved for bad input and catalog failures.
func (s *service) AddItem(ctx context.Context, id auth.Identity, productID int64, quantity int) (State, Result, error) {
	if productID <= 0 {
		return Empty(), Result{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	key := s.repo.Key(id)
	s.markPending(key, productID)
	defer s.unmarkPending(key, productID)

	if quantity < 1 {
		s.mu.Lock()
		state := s.stateLocked(ctx, id)
		s.mu.Unlock()
		return state, rejected(enums.RejectReasonInvalidQuantity), nil
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return Empty(), Result{}, err
	}

	s.mu.Lock()
	state := s.stateLocked(ctx, id)
	next, result := applyAdd(state, *product, quantity)
	if result.OK {
		s.carts[key] = next
	}
	s.mu.Unlock()

	if result.OK {
		s.persist(ctx, id, next)
		s.signalItemAdded(ctx)
		if s.analytics != nil {
			s.analytics.ItemAdded(ctx, s.itemEvent(*product, quantity))
		}
	}
	return next, result, nil
}

// UpdateQuantity replaces the quantity of an existing line using the stock
// snapshot captured at add time. A non-positive quantity removes the line.
func (s *service) UpdateQuantity(ctx context.Context, id auth.Identity, productID int64, quantity int) (State, Result) {
	key := s.repo.Key(id)

	s.mu.Lock()
	state := s.stateLocked(ctx, id)
	next, result, changed := applyUpdate(state, productID, quantity)
	if result.OK && changed != nil {
		s.carts[key] = next
	}
	s.mu.Unlock()

	if result.OK && changed != nil {
		s.persist(ctx, id, next)
		if s.analytics != nil {
			if quantity <= 0 {
				s.analytics.ItemRemoved(ctx, s.itemEvent(changed.Product, changed.Quantity))
			} else {
				s.analytics.ItemUpdated(ctx, s.itemEvent(changed.Product, changed.Quantity))
			}
		}
	}
	return next, result
}

// RemoveItem drops the line item if present; absent ids are a no-op.
func (s *service) RemoveItem(ctx context.Context, id auth.Identity, productID int64) State {
	key := s.repo.Key(id)

	s.mu.Lock()
	state := s.stateLocked(ctx, id)
	next, removed := applyRemove(state, productID)
	if removed != nil {
		s.carts[key] = next
	}
	s.mu.Unlock()

	if removed != nil {
		s.persist(ctx, id, next)
		if s.analytics != nil {
			s.analytics.ItemRemoved(ctx, s.itemEvent(removed.Product, removed.Quantity))
		}
	}
	return next
}

// ClearCart empties the cart and drops the stored blob.
func (s *service) ClearCart(ctx context.Context, id auth.Identity) State {
	key := s.repo.Key(id)

	s.mu.Lock()
	state := s.stateLocked(ctx, id)
	next := applyClear(state)
	s.carts[key] = next
	s.mu.Unlock()

	if err := s.repo.Clear(ctx, id); err != nil {
		s.logg.Error(s.logg.WithCartKey(ctx, key), "cart.clear_failed", err)
	}
	return next
}

// BeginCheckout snapshots the cart and records a checkout-level tracking
// event so abandonment can be measured downstream.
func (s *service) BeginCheckout(ctx context.Context, id auth.Identity) (State, error) {
	s.mu.Lock()
	state := s.stateLocked(ctx, id)
	s.mu.Unlock()

	if len(state.Items) == 0 {
		return state, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	if s.analytics != nil {
		contents := make([]analytics.CheckoutContent, 0, len(state.Items))
		for _, item := range state.Items {
			contents = append(contents, analytics.CheckoutContent{
				ID:        item.Product.ID,
				Quantity:  item.Quantity,
				ItemPrice: effectiveUnitPrice(item.Product).StringFixed(2),
			})
		}
		s.analytics.CheckoutStarted(ctx, analytics.CheckoutEvent{
			Value:    state.TotalPrice.StringFixed(2),
			Currency: s.currency,
			Contents: contents,
		})
	}
	return state, nil
}

// stateLocked returns the cached state for the identity, hydrating from the
// repository on first access. Callers must hold s.mu. A failed hydration
// degrades to the empty cart and is not cached, so a later successful load
// can still win before the first mutation.
func (s *service) stateLocked(ctx context.Context, id auth.Identity) State {
	key := s.repo.Key(id)
	if state, ok := s.carts[key]; ok {
		return state
	}

	state, err := s.repo.Load(ctx, id)
	if err != nil {
		s.logg.Error(s.logg.WithCartKey(ctx, key), "cart.hydrate_failed", err)
		return Empty()
	}
	s.carts[key] = state
	return state
}

// persist is best-effort: a failed write is logged and the in-memory state
// stays authoritative for the rest of the session.
func (s *service) persist(ctx context.Context, id auth.Identity, state State) {
	if err := s.repo.Save(ctx, id, state); err != nil {
		s.logg.Error(s.logg.WithCartKey(ctx, s.repo.Key(id)), "cart.persist_failed", err)
	}
}

// signalItemAdded fires the open-cart hook. A panicking hook is contained so
// UI wiring can never break a mutation.
func (s *service) signalItemAdded(ctx context.Context) {
	if s.onItemAdded == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			s.logg.Error(ctx, "cart.open_signal_panicked", fmt.Errorf("panic: %v", rec))
		}
	}()
	s.onItemAdded()
}

func (s *service) itemEvent(product catalog.Product, quantity int) analytics.ItemEvent {
	unit := effectiveUnitPrice(product)
	value := unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
	return analytics.ItemEvent{
		ProductID:    product.ID,
		ProductName:  product.Name,
		ProductPrice: unit.StringFixed(2),
		Currency:     s.currency,
		Quantity:     quantity,
		Value:        value.StringFixed(2),
	}
}

func (s *service) markPending(key string, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[key] == nil {
		s.pending[key] = map[int64]int{}
	}
	s.pending[key][productID]++
}

func (s *service) unmarkPending(key string, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.pending[key]
	if bucket == nil {
		return
	}
	bucket[productID]--
	if bucket[productID] <= 0 {
		delete(bucket, productID)
	}
	if len(bucket) == 0 {
		delete(s.pending, key)
	}
}
