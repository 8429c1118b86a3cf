package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coupon is the one-per-user welcome discount. Redemption is a one-way flip
// performed by webhook reconciliation with an is_redeemed = false guard.
type Coupon struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code   string    `gorm:"column:code;not null;uniqueIndex"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`

	Percent   decimal.Decimal `gorm:"column:percent;type:numeric(5,2);not null"`
	ExpiresAt time.Time       `gorm:"column:expires_at;not null"`

	IsRedeemed bool       `gorm:"column:is_redeemed;not null;default:false"`
	RedeemedAt *time.Time `gorm:"column:redeemed_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Usable reports whether the coupon can still discount a checkout at the
// given instant.
func (c *Coupon) Usable(now time.Time) bool {
	if c == nil || c.IsRedeemed {
		return false
	}
	return now.Before(c.ExpiresAt)
}
