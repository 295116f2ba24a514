package cart

import (
	"github.com/bakeshop-mx/storefront-client/internal/catalog"
	"github.com/shopspring/decimal"
)

// Item is one cart line. UnitPrice is the price at the time the product was
// added; Subtotal is recomputed locally, never trusted from the payload.
type Item struct {
	ID        int64           `json:"id"`
	CartID    int64           `json:"carrito_id"`
	ProductID int64           `json:"producto_id"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Product   catalog.Product `json:"producto"`
}

// Cart mirrors the server's cart. Items keep the server's insertion order.
type Cart struct {
	ID    int64           `json:"id"`
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type addItemRequest struct {
	ProductID int64 `json:"producto_id"`
	Quantity  int   `json:"cantidad"`
}

type updateItemRequest struct {
	Quantity int `json:"cantidad"`
}
