package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veranievas/floralia-backend/pkg/db/models"
	"github.com/veranievas/floralia-backend/pkg/enums"
)

// ProductView is the locale-resolved product shape the storefront renders.
type ProductView struct {
	ID          uuid.UUID     `json:"id"`
	Slug        string        `json:"slug"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	ImageURL    string        `json:"image_url"`
	Variants    []VariantView `json:"variants"`
}

// VariantView is one purchasable size/price option.
type VariantView struct {
	ID        uuid.UUID       `json:"id"`
	Label     string          `json:"label"`
	Price     decimal.Decimal `json:"price"`
	Currency  enums.Currency  `json:"currency"`
	Available bool            `json:"available"`
}

// NewProductView resolves a product row into the shape for the given locale.
func NewProductView(product models.Product, locale enums.Locale) ProductView {
	view := ProductView{
		ID:       product.ID,
		Slug:     product.Slug,
		Name:     product.Name(locale.String()),
		ImageURL: product.ImageURL,
		Variants: make([]VariantView, 0, len(product.Variants)),
	}
	view.Description = product.DescriptionEs
	if locale == enums.LocaleEnglish && product.DescriptionEn != "" {
		view.Description = product.DescriptionEn
	}
	for _, variant := range product.Variants {
		view.Variants = append(view.Variants, VariantView{
			ID:        variant.ID,
			Label:     variant.Label(locale.String()),
			Price:     variant.Price,
			Currency:  variant.Currency,
			Available: variant.Available,
		})
	}
	return view
}
