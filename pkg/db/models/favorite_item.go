package models

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteItem is a per-user catalog bookmark.
type FavoriteItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_favorites_user_product,unique,priority:1"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:idx_favorites_user_product,unique,priority:2"`

	Product *Product `gorm:"foreignKey:ProductID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
