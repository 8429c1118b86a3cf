package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veranievas/floralia-backend/pkg/enums"
)

// ItemInput is one cart line as submitted by the storefront. Prices are never
// accepted from the client; only ids and quantity matter.
type ItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Qty       int       `json:"qty" validate:"required,gt=0"`
}

// Input is the checkout request body.
type Input struct {
	Items      []ItemInput `json:"items" validate:"required,min=1,dive"`
	CouponCode string      `json:"coupon_code"`
	Email      string      `json:"email" validate:"omitempty,email"`
	Locale     string      `json:"locale"`
}

// Result is what the storefront needs to start the payment form: the frozen
// totals and the processor preference, when one could be created.
type Result struct {
	Reference      string          `json:"reference"`
	Status         enums.OrderStatus `json:"status"`
	Currency       enums.Currency  `json:"currency"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	PreferenceID   string          `json:"preference_id,omitempty"`
	InitPoint      string          `json:"init_point,omitempty"`
}
