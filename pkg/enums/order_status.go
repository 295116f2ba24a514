package enums

import "fmt"

// OrderStatus tracks the lifecycle of a placed order. Wire values follow the
// backend contract.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pendiente"
	OrderStatusProcessing OrderStatus = "procesando"
	OrderStatusShipped    OrderStatus = "enviado"
	OrderStatusDelivered  OrderStatus = "entregado"
	OrderStatusCanceled   OrderStatus = "cancelado"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

// orderStatusLabels is total over validOrderStatuses; a status missing here
// is caught by the totality test in this package.
var orderStatusLabels = map[OrderStatus]string{
	OrderStatusPending:    "Pendiente",
	OrderStatusProcessing: "Procesando",
	OrderStatusShipped:    "Enviado",
	OrderStatusDelivered:  "Entregado",
	OrderStatusCanceled:   "Cancelado",
}

var orderStatusBadges = map[OrderStatus]StatusBadge{
	OrderStatusPending:    StatusBadgeWarning,
	OrderStatusProcessing: StatusBadgeInfo,
	OrderStatusShipped:    StatusBadgeAccent,
	OrderStatusDelivered:  StatusBadgeSuccess,
	OrderStatusCanceled:   StatusBadgeDanger,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusDelivered || o == OrderStatusCanceled
}

// Label returns the display label for the status.
func (o OrderStatus) Label() string {
	if label, ok := orderStatusLabels[o]; ok {
		return label
	}
	return string(o)
}

// Badge returns the UI badge category for the status.
func (o OrderStatus) Badge() StatusBadge {
	if badge, ok := orderStatusBadges[o]; ok {
		return badge
	}
	return StatusBadgeInfo
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// OrderStatuses returns the full set of order statuses.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(validOrderStatuses))
	copy(out, validOrderStatuses)
	return out
}
