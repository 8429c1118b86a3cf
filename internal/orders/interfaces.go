package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veranievas/floralia-backend/pkg/db/models"
	"github.com/veranievas/floralia-backend/pkg/enums"
	"github.com/veranievas/floralia-backend/pkg/pagination"
	"github.com/veranievas/floralia-backend/pkg/types"
)

// Repository persists orders, their snapshot items, and the append-only event
// log. Event rows are never updated or deleted.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error

	FindByReference(ctx context.Context, reference string) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateByReference(ctx context.Context, reference string, updates map[string]any) error

	AppendEvent(ctx context.Context, event *models.OrderEvent) error
	// AppendEventIfAbsent inserts the event only when no event of that type
	// exists for the order yet, and reports whether a row was written.
	AppendEventIfAbsent(ctx context.Context, orderID uuid.UUID, eventType enums.OrderEventType, metadata types.JSONMap) (bool, error)
	FindEventsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderEvent, error)

	ListByStatus(ctx context.Context, status enums.OrderStatus, limit int, cursor *pagination.Cursor) ([]models.Order, error)
}
