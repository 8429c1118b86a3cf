package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veranievas/floralia-backend/pkg/enums"
)

// ProductVariant carries the authoritative price and availability read
// server-side at checkout. Client-submitted prices are never trusted.
type ProductVariant struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`

	LabelEs string `gorm:"column:label_es;not null"`
	LabelEn string `gorm:"column:label_en;not null"`

	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Currency  enums.Currency  `gorm:"column:currency;type:text;not null;default:'MXN'"`
	Available bool            `gorm:"column:available;not null;default:true"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Label returns the variant label for the requested locale.
func (v *ProductVariant) Label(locale string) string {
	if locale == "en" && v.LabelEn != "" {
		return v.LabelEn
	}
	return v.LabelEs
}
