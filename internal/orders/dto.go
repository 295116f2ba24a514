package orders

import (
	"github.com/bakeshop-mx/storefront-client/internal/catalog"
	"github.com/bakeshop-mx/storefront-client/pkg/enums"
	"github.com/shopspring/decimal"
)

// OrderItem is a frozen snapshot of a cart line at order time. Later catalog
// price or stock changes never alter a placed order.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"pedido_id"`
	ProductID int64           `json:"producto_id"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Product   catalog.Product `json:"producto"`
	CreatedAt string          `json:"created_at"`
}

// Order is the server's order record. Timestamps stay opaque strings; the
// client displays them and never does arithmetic on them.
type Order struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"usuario_id"`
	AddressID int64             `json:"direccion_id"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	Shipping  decimal.Decimal   `json:"envio"`
	Total     decimal.Decimal   `json:"total"`
	Status    enums.OrderStatus `json:"status"`
	Notes     *string           `json:"notas,omitempty"`
	Items     []OrderItem       `json:"items"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

type createOrderRequest struct {
	AddressID int64   `json:"direccion_id"`
	Notes     *string `json:"notas,omitempty"`
}
