package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veranievas/floralia-backend/pkg/enums"
)

// Order is one checkout attempt. Monetary fields are frozen at creation time
// in the settlement currency; payment columns are filled in by the submission
// handler and webhook reconciliation, both keyed by Reference.
type Order struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Reference string     `gorm:"column:reference;not null;uniqueIndex"`
	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid"`
	Email     string     `gorm:"column:email;not null"`
	Locale    enums.Locale `gorm:"column:locale;type:text;not null;default:'es'"`

	Status   enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Currency enums.Currency    `gorm:"column:currency;type:text;not null;default:'MXN'"`

	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"column:tax_amount;type:numeric(12,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	// TaxRate snapshots the inclusive rate in force at creation so historical
	// orders stay auditable after the store setting changes.
	TaxRate decimal.Decimal `gorm:"column:tax_rate;type:numeric(6,4);not null"`

	CouponID *uuid.UUID `gorm:"column:coupon_id;type:uuid"`
	Coupon   *Coupon    `gorm:"foreignKey:CouponID"`

	PaymentID       *string `gorm:"column:payment_id"`
	PreferenceID    *string `gorm:"column:preference_id"`
	RawStatus       *string `gorm:"column:raw_status"`
	RawStatusDetail *string `gorm:"column:raw_status_detail"`

	Items  []OrderItem  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Events []OrderEvent `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
