package users

import (
	"strings"

	"github.com/bakeshop-mx/storefront-client/pkg/enums"
)

// User is the identity record returned by the backend. It is replaced
// wholesale on every refresh, never patched field by field.
type User struct {
	ID          int64          `json:"id_usuario"`
	Name        string         `json:"nombre"`
	Surname     string         `json:"apellido"`
	Email       string         `json:"email"`
	Phone       *string        `json:"telefono,omitempty"`
	AccountType string         `json:"tipo_usuario"`
	Role        enums.UserRole `json:"rol"`
	IsActive    bool           `json:"is_active"`
}

// FullName joins the name parts for display.
func (u User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}
