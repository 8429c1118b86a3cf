package enums

import "fmt"

// ProcessorStatus is the closed set of Mercado Pago payment statuses the
// reconciliation flow understands. Anything outside this set fails parsing
// loudly instead of silently defaulting.
type ProcessorStatus string

const (
	ProcessorStatusApproved   ProcessorStatus = "approved"
	ProcessorStatusPending    ProcessorStatus = "pending"
	ProcessorStatusInProcess  ProcessorStatus = "in_process"
	ProcessorStatusAuthorized ProcessorStatus = "authorized"
	ProcessorStatusRejected   ProcessorStatus = "rejected"
	ProcessorStatusCancelled  ProcessorStatus = "cancelled"
	ProcessorStatusRefunded   ProcessorStatus = "refunded"
	ProcessorStatusChargedBack ProcessorStatus = "charged_back"
)

var validProcessorStatuses = []ProcessorStatus{
	ProcessorStatusApproved,
	ProcessorStatusPending,
	ProcessorStatusInProcess,
	ProcessorStatusAuthorized,
	ProcessorStatusRejected,
	ProcessorStatusCancelled,
	ProcessorStatusRefunded,
	ProcessorStatusChargedBack,
}

// String implements fmt.Stringer.
func (p ProcessorStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProcessorStatus.
func (p ProcessorStatus) IsValid() bool {
	for _, candidate := range validProcessorStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProcessorStatus converts raw input into a ProcessorStatus.
func ParseProcessorStatus(value string) (ProcessorStatus, error) {
	for _, candidate := range validProcessorStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid processor status %q", value)
}

// OrderStatus maps the processor status onto the internal order lifecycle.
// The mapping is exhaustive over the closed enum.
func (p ProcessorStatus) OrderStatus() OrderStatus {
	switch p {
	case ProcessorStatusApproved:
		return OrderStatusPaid
	case ProcessorStatusRejected:
		return OrderStatusFailed
	case ProcessorStatusCancelled, ProcessorStatusRefunded, ProcessorStatusChargedBack:
		return OrderStatusCancelled
	case ProcessorStatusPending, ProcessorStatusInProcess, ProcessorStatusAuthorized:
		return OrderStatusPending
	default:
		return OrderStatusPending
	}
}

// EventType returns the timeline event appended for the mapped order status.
func (p ProcessorStatus) EventType() OrderEventType {
	switch p.OrderStatus() {
	case OrderStatusPaid:
		return OrderEventPaymentApproved
	case OrderStatusFailed:
		return OrderEventPaymentFailed
	case OrderStatusCancelled:
		return OrderEventPaymentCancelled
	default:
		return OrderEventPaymentPending
	}
}
