package enums

import "testing"

func TestOrderStageNext(t *testing.T) {
	next, ok := OrderStageNew.Next()
	if !ok || next != OrderStagePreparing {
		t.Fatalf("new -> %q (%v)", next, ok)
	}
	next, ok = OrderStageReady.Next()
	if !ok || next != OrderStageDelivered {
		t.Fatalf("ready -> %q (%v)", next, ok)
	}
	if _, ok := OrderStageDelivered.Next(); ok {
		t.Fatal("delivered must be terminal")
	}
}

func TestOrderStageCanAdvanceRejectsSkips(t *testing.T) {
	if !OrderStageNew.CanAdvance(OrderStagePreparing) {
		t.Fatal("single-step advance should be allowed")
	}
	if OrderStageNew.CanAdvance(OrderStageDelivered) {
		t.Fatal("skipping stages must be rejected")
	}
	if OrderStageReady.CanAdvance(OrderStagePreparing) {
		t.Fatal("rewinding must be rejected")
	}
}

func TestOrderEventTypeStage(t *testing.T) {
	if got := OrderEventDelivered.Stage(); got != OrderStageDelivered {
		t.Fatalf("delivered stage = %q", got)
	}
	if got := OrderEventPhotoAdded.Stage(); got != OrderStageNone {
		t.Fatalf("photo_added should not move the timeline, got %q", got)
	}
	if got := OrderEventPaymentApproved.Stage(); got != OrderStageNone {
		t.Fatalf("payment events should not move the timeline, got %q", got)
	}
}
