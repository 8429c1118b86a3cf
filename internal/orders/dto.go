package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veranievas/floralia-backend/pkg/db/models"
	"github.com/veranievas/floralia-backend/pkg/enums"
	"github.com/veranievas/floralia-backend/pkg/types"
)

// ItemView is one immutable snapshot line on an order.
type ItemView struct {
	ProductID    uuid.UUID       `json:"product_id"`
	VariantID    uuid.UUID       `json:"variant_id"`
	ProductName  string          `json:"product_name"`
	VariantLabel string          `json:"variant_label"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Qty          int             `json:"qty"`
	ImageURL     string          `json:"image_url,omitempty"`
}

// EventView is one timeline row the storefront polls for.
type EventView struct {
	Type      enums.OrderEventType `json:"type"`
	Metadata  types.JSONMap        `json:"metadata,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// Detail is the full order view: frozen money, payment linkage, derived
// stage, and the event log.
type Detail struct {
	Reference      string            `json:"reference"`
	Email          string            `json:"email"`
	Locale         enums.Locale      `json:"locale"`
	Status         enums.OrderStatus `json:"status"`
	Stage          enums.OrderStage  `json:"stage"`
	Currency       enums.Currency    `json:"currency"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	Total          decimal.Decimal   `json:"total"`
	TaxRate        decimal.Decimal   `json:"tax_rate"`
	PaymentID      *string           `json:"payment_id,omitempty"`
	PreferenceID   *string           `json:"preference_id,omitempty"`
	Items          []ItemView        `json:"items"`
	Events         []EventView       `json:"events"`
	CreatedAt      time.Time         `json:"created_at"`
}

// List is one admin page of paid orders plus the cursor for the next one.
type List struct {
	Orders     []Detail `json:"orders"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

// PhotoUpload is one multipart file accepted by the delivery photo endpoint.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func newDetail(order *models.Order) Detail {
	detail := Detail{
		Reference:      order.Reference,
		Email:          order.Email,
		Locale:         order.Locale,
		Status:         order.Status,
		Stage:          StageOf(order.Events),
		Currency:       order.Currency,
		Subtotal:       order.Subtotal,
		DiscountAmount: order.DiscountAmount,
		TaxAmount:      order.TaxAmount,
		Total:          order.Total,
		TaxRate:        order.TaxRate,
		PaymentID:      order.PaymentID,
		PreferenceID:   order.PreferenceID,
		Items:          make([]ItemView, 0, len(order.Items)),
		Events:         make([]EventView, 0, len(order.Events)),
		CreatedAt:      order.CreatedAt,
	}
	for _, item := range order.Items {
		detail.Items = append(detail.Items, ItemView{
			ProductID:    item.ProductID,
			VariantID:    item.VariantID,
			ProductName:  item.ProductName,
			VariantLabel: item.VariantLabel,
			UnitPrice:    item.UnitPrice,
			Qty:          item.Qty,
			ImageURL:     item.ImageURL,
		})
	}
	for _, event := range order.Events {
		detail.Events = append(detail.Events, EventView{
			Type:      event.Type,
			Metadata:  event.Metadata,
			CreatedAt: event.CreatedAt,
		})
	}
	return detail
}

// StageOf derives the fulfillment stage from the event log by fixed priority,
// delivered > ready > preparing > new. Insertion order does not matter.
func StageOf(events []models.OrderEvent) enums.OrderStage {
	stage := enums.OrderStageNew
	for _, event := range events {
		if candidate := event.Type.Stage(); candidate != enums.OrderStageNone && candidate.Rank() > stage.Rank() {
			stage = candidate
		}
	}
	return stage
}
