package catalog

import "github.com/shopspring/decimal"

// Product is the read-only projection of a catalog product. The client never
// mutates products; the catalog is mirrored from the server.
type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"nombre"`
	Description *string          `json:"descripcion,omitempty"`
	BasePrice   decimal.Decimal  `json:"precio"`
	// DiscountPrice, when present, should be below BasePrice. The pricing
	// engine tolerates violations by ignoring the discount.
	DiscountPrice *decimal.Decimal `json:"precio_descuento,omitempty"`
	Category      *string          `json:"categoria,omitempty"`
	CategoryID    *int64           `json:"categoria_id,omitempty"`
	Stock         int              `json:"stock"`
	Unit          string           `json:"unidad"`
	ImageURL      *string          `json:"imagen_url,omitempty"`
	IsActive      bool             `json:"is_active"`
}

// InStock reports whether the product can currently be added to a cart.
func (p Product) InStock() bool {
	return p.IsActive && p.Stock > 0
}

// Category is a catalog grouping. The backend returns plain names; the
// client assigns positional ids for display.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

// Filters narrows a product listing.
type Filters struct {
	CategoryID *int64
	Search     string
	Limit      int
	Offset     int
}
