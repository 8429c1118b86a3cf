package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/veranievas/floralia-backend/pkg/enums"
	"github.com/veranievas/floralia-backend/pkg/types"
)

// OrderEvent is one row of the append-only order timeline. Rows are never
// updated or deleted; the fulfillment stage is derived by scanning them.
type OrderEvent struct {
	ID       uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID  uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index"`
	Type     enums.OrderEventType `gorm:"column:event_type;type:text;not null"`
	Metadata types.JSONMap        `gorm:"column:metadata;type:jsonb"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
