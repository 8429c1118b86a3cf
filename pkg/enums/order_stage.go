package enums

import "fmt"

// OrderStage is the fulfillment phase derived from the event log. It is never
// stored on its own; the log is the source of truth and the stage is computed
// by priority, delivered > ready > preparing > new.
type OrderStage string

const (
	// OrderStageNone marks events that do not participate in stage derivation.
	OrderStageNone      OrderStage = ""
	OrderStageNew       OrderStage = "new"
	OrderStagePreparing OrderStage = "preparing"
	OrderStageReady     OrderStage = "ready"
	OrderStageDelivered OrderStage = "delivered"
)

var validOrderStages = []OrderStage{
	OrderStageNew,
	OrderStagePreparing,
	OrderStageReady,
	OrderStageDelivered,
}

var orderStageRanks = map[OrderStage]int{
	OrderStageNew:       0,
	OrderStagePreparing: 1,
	OrderStageReady:     2,
	OrderStageDelivered: 3,
}

// String implements fmt.Stringer.
func (o OrderStage) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStage.
func (o OrderStage) IsValid() bool {
	for _, candidate := range validOrderStages {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStage converts raw input into an OrderStage.
func ParseOrderStage(value string) (OrderStage, error) {
	for _, candidate := range validOrderStages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order stage %q", value)
}

// Rank returns the stage's position in the fixed priority order.
func (o OrderStage) Rank() int {
	return orderStageRanks[o]
}

// Next returns the single stage an admin may advance to from this one. The
// second result is false once the order is delivered.
func (o OrderStage) Next() (OrderStage, bool) {
	switch o {
	case OrderStageNew:
		return OrderStagePreparing, true
	case OrderStagePreparing:
		return OrderStageReady, true
	case OrderStageReady:
		return OrderStageDelivered, true
	default:
		return OrderStageNone, false
	}
}

// CanAdvance reports whether moving from the current stage to next is a legal
// single-step transition. Skips and rewinds are rejected at write time.
func (o OrderStage) CanAdvance(next OrderStage) bool {
	expected, ok := o.Next()
	return ok && expected == next
}
