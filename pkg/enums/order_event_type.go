package enums

import "fmt"

// OrderEventType tags a row in the append-only order_events log.
type OrderEventType string

const (
	OrderEventOrderCreated     OrderEventType = "order_created"
	OrderEventPaymentPending   OrderEventType = "payment_pending"
	OrderEventPaymentApproved  OrderEventType = "payment_approved"
	OrderEventPaymentFailed    OrderEventType = "payment_failed"
	OrderEventPaymentCancelled OrderEventType = "payment_cancelled"
	OrderEventPreparing        OrderEventType = "preparing"
	OrderEventReady            OrderEventType = "ready"
	OrderEventPhotoAdded       OrderEventType = "photo_added"
	OrderEventDelivered        OrderEventType = "delivered"
)

var validOrderEventTypes = []OrderEventType{
	OrderEventOrderCreated,
	OrderEventPaymentPending,
	OrderEventPaymentApproved,
	OrderEventPaymentFailed,
	OrderEventPaymentCancelled,
	OrderEventPreparing,
	OrderEventReady,
	OrderEventPhotoAdded,
	OrderEventDelivered,
}

// String implements fmt.Stringer.
func (o OrderEventType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderEventType.
func (o OrderEventType) IsValid() bool {
	for _, candidate := range validOrderEventTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderEventType converts raw input into an OrderEventType.
func ParseOrderEventType(value string) (OrderEventType, error) {
	for _, candidate := range validOrderEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order event type %q", value)
}

// Stage returns the fulfillment stage this event advances the order to, or
// StageNone for events that do not move the timeline.
func (o OrderEventType) Stage() OrderStage {
	switch o {
	case OrderEventPreparing:
		return OrderStagePreparing
	case OrderEventReady:
		return OrderStageReady
	case OrderEventDelivered:
		return OrderStageDelivered
	default:
		return OrderStageNone
	}
}
