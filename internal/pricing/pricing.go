package pricing

import (
	"github.com/bakeshop-mx/storefront-client/internal/catalog"
	"github.com/bakeshop-mx/storefront-client/pkg/config"
	"github.com/shopspring/decimal"
)

var (
	defaultFreeShippingThreshold = decimal.NewFromInt(500)
	defaultStandardShippingFee   = decimal.NewFromInt(50)

	hundred = decimal.NewFromInt(100)
)

// Engine derives display prices, discounts, shipping, and totals from
// catalog and cart state. It is pure and carries no mutable state.
type Engine struct {
	freeShippingThreshold decimal.Decimal
	standardShippingFee   decimal.Decimal
}

// NewEngine builds an engine from the pricing configuration. Zero values
// fall back to the defaults (threshold 500, fee 50).
func NewEngine(cfg config.PricingConfig) Engine {
	threshold := cfg.FreeShippingThreshold
	if threshold.IsZero() {
		threshold = defaultFreeShippingThreshold
	}
	fee := cfg.StandardShippingFee
	if fee.IsZero() {
		fee = defaultStandardShippingFee
	}
	return Engine{
		freeShippingThreshold: threshold,
		standardShippingFee:   fee,
	}
}

// HasDiscount reports whether the product carries a discounted price that is
// strictly below the base price. A discount at or above the base price is a
// data-integrity violation and reads as "no discount".
func (e Engine) HasDiscount(p catalog.Product) bool {
	return p.DiscountPrice != nil && p.DiscountPrice.LessThan(p.BasePrice)
}

// FinalPrice returns the price the customer pays per unit.
func (e Engine) FinalPrice(p catalog.Product) decimal.Decimal {
	if e.HasDiscount(p) {
		return *p.DiscountPrice
	}
	return p.BasePrice
}

// DiscountPercent returns the discount as a whole percentage, rounded
// half-up. Products without a valid discount return 0.
func (e Engine) DiscountPercent(p catalog.Product) int {
	if !e.HasDiscount(p) || !p.BasePrice.IsPositive() {
		return 0
	}
	percent := p.BasePrice.Sub(*p.DiscountPrice).Mul(hundred).Div(p.BasePrice)
	return int(percent.Round(0).IntPart())
}

// ShippingCost returns the shipping fee for the given subtotal. The
// threshold is strictly exclusive: a subtotal exactly at the threshold still
// pays shipping, only amounts above it ship free.
func (e Engine) ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(e.threshold()) {
		return decimal.Zero
	}
	return e.fee()
}

// threshold and fee fall back to the defaults so a zero-value Engine charges
// shipping the same way a configured one does.
func (e Engine) threshold() decimal.Decimal {
	if e.freeShippingThreshold.IsZero() {
		return defaultFreeShippingThreshold
	}
	return e.freeShippingThreshold
}

func (e Engine) fee() decimal.Decimal {
	if e.standardShippingFee.IsZero() {
		return defaultStandardShippingFee
	}
	return e.standardShippingFee
}

// LineSubtotal recomputes a line's subtotal from its unit price and
// quantity; server payloads are rechecked against this, never trusted.
func (e Engine) LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// CartTotal sums the line subtotals. Addition is commutative, so the result
// is independent of item order.
func (e Engine) CartTotal(lineSubtotals []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, subtotal := range lineSubtotals {
		total = total.Add(subtotal)
	}
	return total
}
