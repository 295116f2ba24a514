package addresses

// Address is a saved shipping address. Coordinates are optional; the
// backend fills them in when the address was geocoded.
type Address struct {
	ID             int64    `json:"id"`
	UserID         int64    `json:"usuario_id"`
	FullName       string   `json:"nombre_completo"`
	Phone          string   `json:"telefono"`
	Street         string   `json:"calle"`
	ExteriorNumber string   `json:"numero_exterior"`
	InteriorNumber *string  `json:"numero_interior,omitempty"`
	Neighborhood   string   `json:"colonia"`
	City           string   `json:"ciudad"`
	State          string   `json:"estado"`
	PostalCode     string   `json:"codigo_postal"`
	References     *string  `json:"referencias,omitempty"`
	Latitude       *float64 `json:"latitud,omitempty"`
	Longitude      *float64 `json:"longitud,omitempty"`
	IsDefault      bool     `json:"is_default"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// CreateAddress is the payload for creating a new address.
type CreateAddress struct {
	FullName       string   `json:"nombre_completo" validate:"required"`
	Phone          string   `json:"telefono" validate:"required"`
	Street         string   `json:"calle" validate:"required"`
	ExteriorNumber string   `json:"numero_exterior" validate:"required"`
	InteriorNumber *string  `json:"numero_interior,omitempty"`
	Neighborhood   string   `json:"colonia" validate:"required"`
	City           string   `json:"ciudad" validate:"required"`
	State          string   `json:"estado" validate:"required"`
	PostalCode     string   `json:"codigo_postal" validate:"required,len=5,numeric"`
	References     *string  `json:"referencias,omitempty"`
	Latitude       *float64 `json:"latitud,omitempty"`
	Longitude      *float64 `json:"longitud,omitempty"`
	IsDefault      bool     `json:"is_default,omitempty"`
}

// UpdateAddress is the partial payload for editing an address. Nil fields
// are left untouched by the server.
type UpdateAddress struct {
	FullName       *string  `json:"nombre_completo,omitempty"`
	Phone          *string  `json:"telefono,omitempty"`
	Street         *string  `json:"calle,omitempty"`
	ExteriorNumber *string  `json:"numero_exterior,omitempty"`
	InteriorNumber *string  `json:"numero_interior,omitempty"`
	Neighborhood   *string  `json:"colonia,omitempty"`
	City           *string  `json:"ciudad,omitempty"`
	State          *string  `json:"estado,omitempty"`
	PostalCode     *string  `json:"codigo_postal,omitempty" validate:"omitempty,len=5,numeric"`
	References     *string  `json:"referencias,omitempty"`
	Latitude       *float64 `json:"latitud,omitempty"`
	Longitude      *float64 `json:"longitud,omitempty"`
	IsDefault      *bool    `json:"is_default,omitempty"`
}
