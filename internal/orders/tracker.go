package orders

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/bakeshop-mx/storefront-client/internal/gateway"
	"github.com/bakeshop-mx/storefront-client/pkg/enums"
	pkgerrors "github.com/bakeshop-mx/storefront-client/pkg/errors"
	"github.com/bakeshop-mx/storefront-client/pkg/logger"
)

// TrackerParams names the dependencies of the order tracker.
type TrackerParams struct {
	Gateway gateway.Gateway
	Logger  *logger.Logger
}

// Tracker creates orders from the cart and mirrors their lifecycle state.
// The server snapshots items and zeroes the cart on creation; the tracker
// only stores what comes back.
type Tracker struct {
	gw   gateway.Gateway
	logg *logger.Logger

	mu      sync.RWMutex
	orders  []Order
	current *Order
}

// NewTracker builds an empty tracker.
func NewTracker(params TrackerParams) (*Tracker, error) {
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnknown, "gateway required")
	}
	return &Tracker{gw: params.Gateway, logg: params.Logger}, nil
}

// CreateFromCart converts the current server-side cart into an order
// shipped to the given address.
func (t *Tracker) CreateFromCart(ctx context.Context, addressID int64, notes *string) (*Order, error) {
	resp, err := t.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "orders",
		Body:   createOrderRequest{AddressID: addressID, Notes: notes},
	})
	if err != nil {
		return nil, err
	}

	order := &Order{}
	if err := resp.Decode(order); err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.current = order
	t.mu.Unlock()
	return order, nil
}

// ListOrders fetches the user's orders, replacing the local cache fully.
// Read failures degrade to an empty list so the orders screen always renders.
func (t *Tracker) ListOrders(ctx context.Context) ([]Order, error) {
	resp, err := t.gw.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "orders"})
	if err != nil {
		if t.logg != nil {
			t.logg.Debug(ctx, "order listing degraded to empty: "+err.Error())
		}
		t.mu.Lock()
		t.orders = nil
		t.mu.Unlock()
		return nil, nil
	}

	var listed []Order
	if err := resp.Decode(&listed); err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.orders = listed
	t.mu.Unlock()
	return listed, nil
}

// GetOrder fetches one order. Failures degrade to nil.
func (t *Tracker) GetOrder(ctx context.Context, id int64) (*Order, error) {
	resp, err := t.gw.Do(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("orders/%d", id),
	})
	if err != nil {
		if t.logg != nil {
			t.logg.Debug(ctx, "order fetch degraded to nil: "+err.Error())
		}
		return nil, nil
	}

	order := &Order{}
	if err := resp.Decode(order); err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.current = order
	t.mu.Unlock()
	return order, nil
}

// CanCancel reports whether the order may still be canceled. Only pending
// orders qualify; every other status is either in flight or terminal.
func (t *Tracker) CanCancel(order Order) bool {
	return order.Status == enums.OrderStatusPending
}

// Cancel cancels a pending order. A locally known non-pending order is
// rejected without a round-trip; the server still has the final word, and a
// race where it already advanced the order comes back as a normal conflict.
func (t *Tracker) Cancel(ctx context.Context, id int64) (*Order, error) {
	if cached := t.cached(id); cached != nil && !t.CanCancel(*cached) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("order %d is %s and can no longer be canceled", id, cached.Status))
	}

	resp, err := t.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("orders/%d/cancel", id),
		Body:   struct{}{},
	})
	if err != nil {
		return nil, err
	}

	order := &Order{}
	if err := resp.Decode(order); err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.current = order
	for i := range t.orders {
		if t.orders[i].ID == order.ID {
			t.orders[i] = *order
		}
	}
	t.mu.Unlock()
	return order, nil
}

// Orders returns the cached listing.
func (t *Tracker) Orders() []Order {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Order, len(t.orders))
	copy(out, t.orders)
	return out
}

// Current returns the most recently created or fetched order.
func (t *Tracker) Current() *Order {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

func (t *Tracker) cached(id int64) *Order {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.current != nil && t.current.ID == id {
		order := *t.current
		return &order
	}
	for i := range t.orders {
		if t.orders[i].ID == id {
			order := t.orders[i]
			return &order
		}
	}
	return nil
}
