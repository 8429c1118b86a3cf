package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is the immutable snapshot of one purchased cart line. Name, label
// and image are denormalized on purpose so later catalog edits never rewrite
// order history.
type OrderItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	VariantID uuid.UUID `gorm:"column:variant_id;type:uuid;not null"`

	ProductName  string          `gorm:"column:product_name;not null"`
	VariantLabel string          `gorm:"column:variant_label;not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Qty          int             `gorm:"column:qty;not null"`
	ImageURL     string          `gorm:"column:image_url"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
