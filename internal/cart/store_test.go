package cart

import (
	"context"
	"net/http"
	"testing"

	"github.com/bakeshop-mx/storefront-client/internal/gateway"
	"github.com/bakeshop-mx/storefront-client/internal/pricing"
	"github.com/bakeshop-mx/storefront-client/pkg/config"
	pkgerrors "github.com/bakeshop-mx/storefront-client/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubGateway struct {
	calls []gateway.Request
	body  []byte
	err   error

	// onDo lets tests observe store state mid-request.
	onDo func(req gateway.Request)
}

func (s *stubGateway) Do(ctx context.Context, req gateway.Request) (*gateway.Response, error) {
	s.calls = append(s.calls, req)
	if s.onDo != nil {
		s.onDo(req)
	}
	if s.err != nil {
		return nil, s.err
	}
	body := s.body
	if body == nil {
		body = []byte(`{"id":1,"items":[],"total":0}`)
	}
	return &gateway.Response{Status: http.StatusOK, Body: body}, nil
}

func newTestStore(t *testing.T, gw gateway.Gateway) *Store {
	t.Helper()
	store, err := NewStore(StoreParams{
		Gateway: gw,
		Engine:  pricing.NewEngine(config.PricingConfig{}),
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

// The server payload carries a stale subtotal and total; the store must
// recompute both on ingest.
func TestLoadRecomputesSubtotals(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{body: []byte(`{
		"id": 3,
		"items": [
			{"id": 10, "producto_id": 5, "cantidad": 3, "precio_unitario": 100, "subtotal": 250,
			 "producto": {"id": 5, "nombre": "Concha", "precio": 100, "stock": 10, "is_active": true}}
		],
		"total": 250
	}`)}
	store := newTestStore(t, gw)

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	cart := store.Cart()
	if cart == nil || len(cart.Items) != 1 {
		t.Fatalf("unexpected cart %+v", cart)
	}
	if !cart.Items[0].Subtotal.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("line subtotal not recomputed: %s", cart.Items[0].Subtotal)
	}
	if !cart.Total.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("cart total not recomputed: %s", cart.Total)
	}
	if !store.Subtotal().Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected subtotal %s", store.Subtotal())
	}
}

func TestLoadDegradesToEmptyOnError(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{err: pkgerrors.FromStatus(http.StatusUnauthorized, "")}
	store := newTestStore(t, gw)

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load must swallow read errors, got %v", err)
	}
	if store.Cart() != nil {
		t.Fatal("cart should be absent after failed load")
	}
	if !store.IsEmpty() {
		t.Fatal("cart should read as empty")
	}
}

func TestAddItemValidatesQuantity(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{}
	store := newTestStore(t, gw)

	err := store.AddItem(context.Background(), 5, 0)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(gw.calls) != 0 {
		t.Fatal("invalid quantity must not reach the network")
	}
}

func TestAddItemReplacesCartFromResponse(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{body: []byte(`{
		"id": 3,
		"items": [
			{"id": 10, "producto_id": 5, "cantidad": 2, "precio_unitario": 40,
			 "producto": {"id": 5, "nombre": "Bolillo", "precio": 40, "stock": 50, "is_active": true}}
		],
		"total": 80
	}`)}
	store := newTestStore(t, gw)

	if err := store.AddItem(context.Background(), 5, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if len(gw.calls) != 1 || gw.calls[0].Method != http.MethodPost || gw.calls[0].Path != "cart/items" {
		t.Fatalf("unexpected request %+v", gw.calls)
	}
	if !store.HasProduct(5) {
		t.Fatal("product should be in local cart")
	}
	if got := store.ItemForProduct(5); got == nil || got.Quantity != 2 {
		t.Fatalf("unexpected line %+v", got)
	}
}

func TestAddItemPropagatesServerRejection(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{err: pkgerrors.FromStatus(http.StatusConflict, "stock insuficiente")}
	store := newTestStore(t, gw)

	err := store.AddItem(context.Background(), 5, 3)
	if !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if store.Cart() != nil {
		t.Fatal("failed mutation must not alter local state")
	}
	if len(gw.calls) != 1 {
		t.Fatalf("the store must not retry, saw %d calls", len(gw.calls))
	}
}

func seedCart(t *testing.T, store *Store, gw *stubGateway) {
	t.Helper()
	gw.body = []byte(`{
		"id": 3,
		"items": [
			{"id": 10, "producto_id": 5, "cantidad": 2, "precio_unitario": 40,
			 "producto": {"id": 5, "nombre": "Bolillo", "precio": 40, "stock": 4, "is_active": true}}
		],
		"total": 80
	}`)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("seed load: %v", err)
	}
	gw.calls = nil
}

func TestUpdateQuantityZeroBehavesLikeRemove(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{}
	store := newTestStore(t, gw)
	seedCart(t, store, gw)
	gw.body = []byte(`{"id":3,"items":[],"total":0}`)

	if err := store.UpdateQuantity(context.Background(), 10, 0); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}

	if len(gw.calls) != 1 || gw.calls[0].Method != http.MethodDelete || gw.calls[0].Path != "cart/items/10" {
		t.Fatalf("expected a DELETE, got %+v", gw.calls)
	}
	if !store.IsEmpty() {
		t.Fatal("cart should be empty after removal")
	}

	// A direct remove on a fresh store produces the same resulting cart.
	gw2 := &stubGateway{}
	store2 := newTestStore(t, gw2)
	seedCart(t, store2, gw2)
	gw2.body = []byte(`{"id":3,"items":[],"total":0}`)
	if err := store2.RemoveItem(context.Background(), 10); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if got, want := store2.ItemCount(), store.ItemCount(); got != want {
		t.Fatalf("remove and update(0) diverged: %d != %d", got, want)
	}
}

func TestUpdateQuantityRejectsBeyondCachedStock(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{}
	store := newTestStore(t, gw)
	seedCart(t, store, gw)

	err := store.UpdateQuantity(context.Background(), 10, 5) // stock is 4
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected client-side rejection, got %v", err)
	}
	if len(gw.calls) != 0 {
		t.Fatal("locally invalid update must not reach the network")
	}
	if got := store.ItemForProduct(5); got == nil || got.Quantity != 2 {
		t.Fatalf("local state must be untouched, got %+v", got)
	}
}

func TestUpdateQuantityRoundTrips(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{}
	store := newTestStore(t, gw)
	seedCart(t, store, gw)
	gw.body = []byte(`{
		"id": 3,
		"items": [
			{"id": 10, "producto_id": 5, "cantidad": 4, "precio_unitario": 40,
			 "producto": {"id": 5, "nombre": "Bolillo", "precio": 40, "stock": 4, "is_active": true}}
		],
		"total": 160
	}`)

	if err := store.UpdateQuantity(context.Background(), 10, 4); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if len(gw.calls) != 1 || gw.calls[0].Method != http.MethodPut || gw.calls[0].Path != "cart/items/10" {
		t.Fatalf("unexpected request %+v", gw.calls)
	}
	if got := store.ItemForProduct(5); got == nil || got.Quantity != 4 {
		t.Fatalf("cart not replaced: %+v", got)
	}
}

func TestBusyFlagDuringMutation(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{}
	store := newTestStore(t, gw)
	seedCart(t, store, gw)

	var busyDuring bool
	gw.onDo = func(req gateway.Request) {
		busyDuring = store.Busy(10)
	}

	if err := store.UpdateQuantity(context.Background(), 10, 3); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if !busyDuring {
		t.Fatal("item should be marked busy while the request is in flight")
	}
	if store.Busy(10) {
		t.Fatal("busy marker should clear after the request")
	}
}

func TestClearDropsLocalCart(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{}
	store := newTestStore(t, gw)
	seedCart(t, store, gw)

	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(gw.calls) != 1 || gw.calls[0].Method != http.MethodDelete || gw.calls[0].Path != "cart/clear" {
		t.Fatalf("unexpected request %+v", gw.calls)
	}
	if store.Cart() != nil {
		t.Fatal("cart should be absent after clear")
	}
}

func TestShippingBoundaryThroughStore(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{body: []byte(`{
		"id": 3,
		"items": [
			{"id": 10, "producto_id": 5, "cantidad": 5, "precio_unitario": 100,
			 "producto": {"id": 5, "nombre": "Rosca", "precio": 100, "stock": 10, "is_active": true}}
		],
		"total": 500
	}`)}
	store := newTestStore(t, gw)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Exactly 500: still pays shipping.
	if !store.Shipping().Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected shipping 50 at subtotal 500, got %s", store.Shipping())
	}
	if !store.Total().Equal(decimal.NewFromInt(550)) {
		t.Fatalf("expected total 550, got %s", store.Total())
	}

	gw.body = []byte(`{
		"id": 3,
		"items": [
			{"id": 10, "producto_id": 5, "cantidad": 6, "precio_unitario": 100,
			 "producto": {"id": 5, "nombre": "Rosca", "precio": 100, "stock": 10, "is_active": true}}
		],
		"total": 600
	}`)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !store.Shipping().IsZero() {
		t.Fatalf("expected free shipping above 500, got %s", store.Shipping())
	}
	if !store.Total().Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected total 600, got %s", store.Total())
	}
}

func TestCartReturnsACopy(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{body: []byte(`{
		"id": 3,
		"items": [
			{"id": 10, "producto_id": 5, "cantidad": 2, "precio_unitario": 100, "subtotal": 200,
			 "producto": {"id": 5, "nombre": "Concha", "precio": 100, "stock": 10, "is_active": true}}
		],
		"total": 200
	}`)}
	store := newTestStore(t, gw)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	view := store.Cart()
	view.Total = decimal.NewFromInt(1)
	view.Items[0].Quantity = 99

	fresh := store.Cart()
	if !fresh.Total.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("store total mutated through the returned view: %s", fresh.Total)
	}
	if fresh.Items[0].Quantity != 2 {
		t.Fatalf("store line mutated through the returned view: %d", fresh.Items[0].Quantity)
	}
}

func TestOnChangeFires(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{}
	store := newTestStore(t, gw)

	var notified int
	store.OnChange(func() { notified++ })

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if notified != 1 {
		t.Fatalf("expected one notification, got %d", notified)
	}
}
