package cart

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/bakeshop-mx/storefront-client/internal/gateway"
	"github.com/bakeshop-mx/storefront-client/internal/pricing"
	pkgerrors "github.com/bakeshop-mx/storefront-client/pkg/errors"
	"github.com/bakeshop-mx/storefront-client/pkg/logger"
	"github.com/shopspring/decimal"
)

// StoreParams names the dependencies of the cart store.
type StoreParams struct {
	Gateway gateway.Gateway
	Engine  pricing.Engine
	Logger  *logger.Logger
}

// Store is the authoritative local mirror of the server cart. The server is
// the source of truth: every mutation round-trips, and the response replaces
// the local view.
type Store struct {
	gw     gateway.Gateway
	engine pricing.Engine
	logg   *logger.Logger

	mu          sync.RWMutex
	cart        *Cart
	busy        map[int64]bool
	subscribers []func()
}

// NewStore builds an empty cart store.
func NewStore(params StoreParams) (*Store, error) {
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnknown, "gateway required")
	}
	return &Store{
		gw:     params.Gateway,
		engine: params.Engine,
		logg:   params.Logger,
		busy:   map[int64]bool{},
	}, nil
}

// OnChange registers a hook invoked after the local cart is replaced. It is
// a UI notification aid; state is read through the getters.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Load fetches the cart. Any failure, including "no session", leaves an
// absent cart and returns nil: the cart screen must always render.
func (s *Store) Load(ctx context.Context) error {
	resp, err := s.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "cart"})
	if err != nil {
		if s.logg != nil {
			s.logg.Debug(ctx, "cart load degraded to empty: "+err.Error())
		}
		s.replace(nil)
		return nil
	}

	loaded := &Cart{}
	if err := resp.Decode(loaded); err != nil {
		s.replace(nil)
		return nil
	}
	s.replace(loaded)
	return nil
}

// AddItem sends an add request and replaces the local cart with the server's
// response. Callers are expected to have checked stock and price; the server
// remains the final authority and its rejection propagates.
func (s *Store) AddItem(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	resp, err := s.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "cart/items",
		Body:   addItemRequest{ProductID: productID, Quantity: quantity},
	})
	if err != nil {
		return err
	}
	return s.ingest(resp)
}

// UpdateQuantity changes a line's quantity. A zero or negative quantity is
// defined as removal and never reaches the backend as an update. A quantity
// above the cached stock is rejected before any network call, since stock
// is already known from the last load.
func (s *Store) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, itemID)
	}

	if item := s.item(itemID); item != nil && quantity > item.Product.Stock {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("quantity %d exceeds available stock %d", quantity, item.Product.Stock))
	}

	s.setBusy(itemID, true)
	defer s.setBusy(itemID, false)

	resp, err := s.gw.Do(ctx, gateway.Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("cart/items/%d", itemID),
		Body:   updateItemRequest{Quantity: quantity},
	})
	if err != nil {
		return err
	}
	return s.ingest(resp)
}

// RemoveItem deletes a line unconditionally.
func (s *Store) RemoveItem(ctx context.Context, itemID int64) error {
	s.setBusy(itemID, true)
	defer s.setBusy(itemID, false)

	resp, err := s.gw.Do(ctx, gateway.Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("cart/items/%d", itemID),
	})
	if err != nil {
		return err
	}
	return s.ingest(resp)
}

// Clear empties the cart on the server and drops the local view.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.gw.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: "cart/clear"}); err != nil {
		return err
	}
	s.replace(nil)
	return nil
}

// Cart returns a copy of the current local view, or nil when absent. Only
// server responses mutate the store's own cart.
func (s *Store) Cart() *Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return nil
	}
	clone := *s.cart
	clone.Items = make([]Item, len(s.cart.Items))
	copy(clone.Items, s.cart.Items)
	return &clone
}

// Busy reports whether a mutation for the item is in flight. It is an
// advisory flag for disabling per-row controls, not a lock: the store does
// not serialize concurrent calls on the same item.
func (s *Store) Busy(itemID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy[itemID]
}

// IsEmpty reports whether the cart has no items.
func (s *Store) IsEmpty() bool {
	return s.ItemCount() == 0
}

// ItemCount sums the quantities across lines.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return 0
	}
	count := 0
	for _, item := range s.cart.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal sums the recomputed line subtotals.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subtotalLocked()
}

// Shipping derives the shipping fee from the current subtotal.
func (s *Store) Shipping() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.ShippingCost(s.subtotalLocked())
}

// Total is the subtotal plus shipping.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subtotal := s.subtotalLocked()
	return subtotal.Add(s.engine.ShippingCost(subtotal))
}

// ItemForProduct returns the line holding the product, or nil.
func (s *Store) ItemForProduct(productID int64) *Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return nil
	}
	for i := range s.cart.Items {
		if s.cart.Items[i].ProductID == productID {
			line := s.cart.Items[i]
			return &line
		}
	}
	return nil
}

// HasProduct reports whether the product is already in the cart.
func (s *Store) HasProduct(productID int64) bool {
	return s.ItemForProduct(productID) != nil
}

func (s *Store) subtotalLocked() decimal.Decimal {
	if s.cart == nil {
		return decimal.Zero
	}
	subtotals := make([]decimal.Decimal, 0, len(s.cart.Items))
	for _, item := range s.cart.Items {
		subtotals = append(subtotals, item.Subtotal)
	}
	return s.engine.CartTotal(subtotals)
}

func (s *Store) item(itemID int64) *Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return nil
	}
	for i := range s.cart.Items {
		if s.cart.Items[i].ID == itemID {
			line := s.cart.Items[i]
			return &line
		}
	}
	return nil
}

func (s *Store) ingest(resp *gateway.Response) error {
	updated := &Cart{}
	if err := resp.Decode(updated); err != nil {
		return err
	}
	s.replace(updated)
	return nil
}

// replace installs the server's cart, recomputing every line subtotal and
// the total instead of trusting the payload.
func (s *Store) replace(cart *Cart) {
	if cart != nil {
		for i := range cart.Items {
			cart.Items[i].Subtotal = s.engine.LineSubtotal(cart.Items[i].UnitPrice, cart.Items[i].Quantity)
		}
		subtotals := make([]decimal.Decimal, 0, len(cart.Items))
		for _, item := range cart.Items {
			subtotals = append(subtotals, item.Subtotal)
		}
		cart.Total = s.engine.CartTotal(subtotals)
	}

	s.mu.Lock()
	s.cart = cart
	subscribers := make([]func(), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn()
	}
}

func (s *Store) setBusy(itemID int64, busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if busy {
		s.busy[itemID] = true
		return
	}
	delete(s.busy, itemID)
}
