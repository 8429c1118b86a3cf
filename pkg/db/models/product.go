package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry with bilingual copy. The checkout flow reads it
// only to snapshot names and images; pricing lives on the variants.
type Product struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug string    `gorm:"column:slug;not null;uniqueIndex"`

	NameEs        string `gorm:"column:name_es;not null"`
	NameEn        string `gorm:"column:name_en;not null"`
	DescriptionEs string `gorm:"column:description_es"`
	DescriptionEn string `gorm:"column:description_en"`
	ImageURL      string `gorm:"column:image_url"`

	Active bool `gorm:"column:active;not null;default:true"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Name returns the product name for the requested locale.
func (p *Product) Name(locale string) string {
	if locale == "en" && p.NameEn != "" {
		return p.NameEn
	}
	return p.NameEs
}
