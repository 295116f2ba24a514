package auth

import "github.com/bakeshop-mx/storefront-client/internal/users"

// Credentials captures the payload sent to the login endpoint.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterData captures the payload for account creation. Field names follow
// the backend contract.
type RegisterData struct {
	Name            string  `json:"nombre" validate:"required"`
	PaternalSurname string  `json:"ap_p" validate:"required"`
	MaternalSurname *string `json:"ap_m,omitempty"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required"`
	Phone           *string `json:"telefono,omitempty"`
}

// LoginResponse is the token-and-identity payload a successful login yields.
type LoginResponse struct {
	User        users.User `json:"user"`
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
}
