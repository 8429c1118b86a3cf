package models

import (
	"time"

	"github.com/google/uuid"
)

// SettingTaxRate is the key holding the store-wide inclusive tax rate.
const SettingTaxRate = "tax_rate"

// StoreSetting is a versioned configuration value. Writes append a new
// version; reads take the highest version for a key, so historical orders can
// always point at the exact rate they were priced with.
type StoreSetting struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Key     string    `gorm:"column:key;not null;index:idx_store_settings_key_version,unique,priority:1"`
	Version int       `gorm:"column:version;not null;index:idx_store_settings_key_version,unique,priority:2"`
	Value   string    `gorm:"column:value;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
