package addresses

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/bakeshop-mx/storefront-client/internal/gateway"
	pkgerrors "github.com/bakeshop-mx/storefront-client/pkg/errors"
	"github.com/bakeshop-mx/storefront-client/pkg/logger"
)

// BookParams names the dependencies of the address book.
type BookParams struct {
	Gateway gateway.Gateway
	Logger  *logger.Logger
}

// Book mirrors the user's saved shipping addresses and tracks which one is
// the default. Reads degrade to empty; writes propagate their errors.
type Book struct {
	gw       gateway.Gateway
	logg     *logger.Logger
	validate *validator.Validate

	mu          sync.RWMutex
	addresses   []Address
	defaultAddr *Address
}

// NewBook builds an empty address book.
func NewBook(params BookParams) (*Book, error) {
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnknown, "gateway required")
	}
	return &Book{
		gw:       params.Gateway,
		logg:     params.Logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// List fetches all saved addresses and replaces the cached book.
func (b *Book) List(ctx context.Context) ([]Address, error) {
	resp, err := b.gw.Do(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   "addresses",
	})
	if err != nil {
		if b.logg != nil {
			b.logg.Debug(ctx, "address listing degraded to empty: "+err.Error())
		}
		b.replace(nil)
		return nil, nil
	}

	var listed []Address
	if err := resp.Decode(&listed); err != nil {
		b.replace(nil)
		return nil, nil
	}
	b.replace(listed)
	return listed, nil
}

// Default fetches the default shipping address, nil when none is set or the
// backend cannot be reached.
func (b *Book) Default(ctx context.Context) (*Address, error) {
	resp, err := b.gw.Do(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   "addresses/default",
	})
	if err != nil {
		if b.logg != nil {
			b.logg.Debug(ctx, "default address degraded to nil: "+err.Error())
		}
		return nil, nil
	}

	var addr Address
	if err := resp.Decode(&addr); err != nil {
		return nil, nil
	}

	b.mu.Lock()
	b.defaultAddr = &addr
	b.mu.Unlock()
	return &addr, nil
}

// Get fetches a single address by id, nil when missing or unreachable.
func (b *Book) Get(ctx context.Context, id int64) (*Address, error) {
	resp, err := b.gw.Do(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("addresses/%d", id),
	})
	if err != nil {
		if b.logg != nil {
			b.logg.Debug(ctx, "address fetch degraded to nil: "+err.Error())
		}
		return nil, nil
	}

	var addr Address
	if err := resp.Decode(&addr); err != nil {
		return nil, nil
	}
	return &addr, nil
}

// Create saves a new address and appends it to the cached book.
func (b *Book) Create(ctx context.Context, data CreateAddress) (*Address, error) {
	if err := b.validate.Struct(data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address")
	}

	resp, err := b.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "addresses",
		Body:   data,
	})
	if err != nil {
		return nil, err
	}

	var addr Address
	if err := resp.Decode(&addr); err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.addresses = append(b.addresses, addr)
	if addr.IsDefault {
		b.defaultAddr = &addr
	}
	b.mu.Unlock()
	return &addr, nil
}

// Update edits an existing address and refreshes its cached entry.
func (b *Book) Update(ctx context.Context, id int64, data UpdateAddress) (*Address, error) {
	if err := b.validate.Struct(data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address")
	}

	resp, err := b.gw.Do(ctx, gateway.Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("addresses/%d", id),
		Body:   data,
	})
	if err != nil {
		return nil, err
	}

	var addr Address
	if err := resp.Decode(&addr); err != nil {
		return nil, err
	}

	b.mu.Lock()
	for i := range b.addresses {
		if b.addresses[i].ID == id {
			b.addresses[i] = addr
		}
	}
	if addr.IsDefault {
		b.defaultAddr = &addr
	}
	b.mu.Unlock()
	return &addr, nil
}

// SetDefault marks the given address as the shipping default. Every other
// cached address loses the flag, mirroring what the server does.
func (b *Book) SetDefault(ctx context.Context, id int64) (*Address, error) {
	resp, err := b.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("addresses/%d/set-default", id),
		Body:   struct{}{},
	})
	if err != nil {
		return nil, err
	}

	var addr Address
	if err := resp.Decode(&addr); err != nil {
		return nil, err
	}

	b.mu.Lock()
	for i := range b.addresses {
		b.addresses[i].IsDefault = b.addresses[i].ID == id
	}
	b.defaultAddr = &addr
	b.mu.Unlock()
	return &addr, nil
}

// Delete removes an address. If it was the default, the cached default is
// cleared as well.
func (b *Book) Delete(ctx context.Context, id int64) error {
	if _, err := b.gw.Do(ctx, gateway.Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("addresses/%d", id),
	}); err != nil {
		return err
	}

	b.mu.Lock()
	kept := b.addresses[:0]
	for _, addr := range b.addresses {
		if addr.ID != id {
			kept = append(kept, addr)
		}
	}
	b.addresses = kept
	if b.defaultAddr != nil && b.defaultAddr.ID == id {
		b.defaultAddr = nil
	}
	b.mu.Unlock()
	return nil
}

// Addresses returns the cached book from the last successful fetch.
func (b *Book) Addresses() []Address {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Address, len(b.addresses))
	copy(out, b.addresses)
	return out
}

// CachedDefault returns the default address known locally, if any.
func (b *Book) CachedDefault() *Address {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.defaultAddr == nil {
		return nil
	}
	clone := *b.defaultAddr
	return &clone
}

func (b *Book) replace(addresses []Address) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.addresses = addresses
	b.defaultAddr = nil
	for i := range addresses {
		if addresses[i].IsDefault {
			clone := addresses[i]
			b.defaultAddr = &clone
			break
		}
	}
}

// Format renders the address as a single shipping line.
func Format(addr Address) string {
	out := addr.Street + " " + addr.ExteriorNumber
	if addr.InteriorNumber != nil && *addr.InteriorNumber != "" {
		out += " Int. " + *addr.InteriorNumber
	}
	return fmt.Sprintf("%s, %s, %s, %s %s", out, addr.Neighborhood, addr.City, addr.State, addr.PostalCode)
}

// FormatShort renders the street and neighborhood only.
func FormatShort(addr Address) string {
	return fmt.Sprintf("%s %s, %s", addr.Street, addr.ExteriorNumber, addr.Neighborhood)
}
