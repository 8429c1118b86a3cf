package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/veranievas/floralia-backend/internal/orders"
	"github.com/veranievas/floralia-backend/pkg/db/models"
	"github.com/veranievas/floralia-backend/pkg/enums"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
	"github.com/veranievas/floralia-backend/pkg/logger"
	"github.com/veranievas/floralia-backend/pkg/mercadopago"
	"github.com/veranievas/floralia-backend/pkg/pagination"
	"github.com/veranievas/floralia-backend/pkg/types"
)

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type stubOrdersRepo struct {
	order       *models.Order
	findErr     error
	updates     map[string]any
	updateErr   error
	eventTypes  []enums.OrderEventType
	eventMeta   types.JSONMap
	absentErr   error
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) error { return nil }

func (s *stubOrdersRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	return nil
}

func (s *stubOrdersRepo) FindByReference(ctx context.Context, reference string) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.order, nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.order, s.findErr
}

func (s *stubOrdersRepo) UpdateByReference(ctx context.Context, reference string, updates map[string]any) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates = updates
	return nil
}

func (s *stubOrdersRepo) AppendEvent(ctx context.Context, event *models.OrderEvent) error { return nil }

func (s *stubOrdersRepo) AppendEventIfAbsent(ctx context.Context, orderID uuid.UUID, eventType enums.OrderEventType, metadata types.JSONMap) (bool, error) {
	if s.absentErr != nil {
		return false, s.absentErr
	}
	s.eventTypes = append(s.eventTypes, eventType)
	s.eventMeta = metadata
	return true, nil
}

func (s *stubOrdersRepo) FindEventsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderEvent, error) {
	return nil, nil
}

func (s *stubOrdersRepo) ListByStatus(ctx context.Context, status enums.OrderStatus, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	return nil, nil
}

type stubProcessor struct {
	payment *mercadopago.Payment
	err     error
	params  *mercadopago.PaymentParams
}

func (s *stubProcessor) CreatePayment(ctx context.Context, params mercadopago.PaymentParams) (*mercadopago.Payment, error) {
	s.params = &params
	if s.err != nil {
		return nil, s.err
	}
	return s.payment, nil
}

func pendingOrder() *models.Order {
	return &models.Order{
		ID:        uuid.New(),
		Reference: "FL-20260301-ABCDEF",
		Email:     "clienta@example.com",
		Status:    enums.OrderStatusPending,
		Currency:  enums.CurrencyMXN,
		Subtotal:  decimal.RequireFromString("560.00"),
		Total:     decimal.RequireFromString("560.00"),
		TaxRate:   decimal.RequireFromString("0.16"),
	}
}

func submitInput() SubmitInput {
	return SubmitInput{
		Reference:       "FL-20260301-ABCDEF",
		Token:           "card-token",
		PaymentMethodID: "visa",
		Installments:    1,
		PayerEmail:      "clienta@example.com",
	}
}

func newPaymentsService(t *testing.T, repo orders.Repository, processor paymentCreator) Service {
	t.Helper()

	svc, err := NewService(stubTx{}, repo, processor, nil, logger.New(logger.Options{ServiceName: "payments-test"}))
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func expectPaymentsCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if appErr.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code(), err)
	}
}

func TestSubmitApprovedPayment(t *testing.T) {
	repo := &stubOrdersRepo{order: pendingOrder()}
	processor := &stubProcessor{payment: &mercadopago.Payment{
		ID:           "987654",
		Status:       "approved",
		StatusDetail: "accredited",
	}}
	svc := newPaymentsService(t, repo, processor)

	result, err := svc.Submit(context.Background(), submitInput())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.Status != enums.OrderStatusPaid {
		t.Fatalf("expected paid, got %s", result.Status)
	}
	if result.PaymentID != "987654" || result.StatusDetail != "accredited" {
		t.Fatalf("unexpected result %+v", result)
	}

	if repo.updates["status"] != enums.OrderStatusPaid {
		t.Fatalf("expected paid status persisted, got %v", repo.updates)
	}
	if repo.updates["payment_id"] != "987654" || repo.updates["raw_status"] != "approved" {
		t.Fatalf("expected payment columns persisted, got %v", repo.updates)
	}
	if len(repo.eventTypes) != 1 || repo.eventTypes[0] != enums.OrderEventPaymentApproved {
		t.Fatalf("expected payment_approved event, got %v", repo.eventTypes)
	}
	if repo.eventMeta["payment_id"] != "987654" {
		t.Fatalf("expected payment id in event metadata, got %v", repo.eventMeta)
	}

	if processor.params.Amount.StringFixed(2) != "560.00" {
		t.Fatalf("expected charged amount from the order, got %s", processor.params.Amount)
	}
	if processor.params.ExternalReference != "FL-20260301-ABCDEF" {
		t.Fatalf("unexpected external reference %s", processor.params.ExternalReference)
	}
}

func TestSubmitStatusMapping(t *testing.T) {
	cases := []struct {
		raw       string
		status    enums.OrderStatus
		eventType enums.OrderEventType
	}{
		{raw: "in_process", status: enums.OrderStatusPending, eventType: enums.OrderEventPaymentPending},
		{raw: "rejected", status: enums.OrderStatusFailed, eventType: enums.OrderEventPaymentFailed},
		{raw: "cancelled", status: enums.OrderStatusCancelled, eventType: enums.OrderEventPaymentCancelled},
		{raw: "some_future_status", status: enums.OrderStatusPending, eventType: enums.OrderEventPaymentPending},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			repo := &stubOrdersRepo{order: pendingOrder()}
			processor := &stubProcessor{payment: &mercadopago.Payment{ID: "1", Status: tc.raw}}
			svc := newPaymentsService(t, repo, processor)

			result, err := svc.Submit(context.Background(), submitInput())
			if err != nil {
				t.Fatalf("Submit returned error: %v", err)
			}
			if result.Status != tc.status {
				t.Fatalf("expected %s, got %s", tc.status, result.Status)
			}
			if repo.eventTypes[0] != tc.eventType {
				t.Fatalf("expected %s event, got %s", tc.eventType, repo.eventTypes[0])
			}
			if repo.updates["raw_status"] != tc.raw {
				t.Fatalf("expected raw status %q persisted, got %v", tc.raw, repo.updates["raw_status"])
			}
		})
	}
}

func TestSubmitProcessorFailureLeavesOrderUntouched(t *testing.T) {
	repo := &stubOrdersRepo{order: pendingOrder()}
	processor := &stubProcessor{err: errors.New("gateway timeout")}
	svc := newPaymentsService(t, repo, processor)

	_, err := svc.Submit(context.Background(), submitInput())
	expectPaymentsCode(t, err, pkgerrors.CodeDependency)
	if repo.updates != nil {
		t.Fatalf("expected no order mutation, got %v", repo.updates)
	}
	if len(repo.eventTypes) != 0 {
		t.Fatalf("expected no events, got %v", repo.eventTypes)
	}
}

func TestSubmitRejectsNonPendingOrder(t *testing.T) {
	order := pendingOrder()
	order.Status = enums.OrderStatusPaid
	svc := newPaymentsService(t, &stubOrdersRepo{order: order}, &stubProcessor{})

	_, err := svc.Submit(context.Background(), submitInput())
	expectPaymentsCode(t, err, pkgerrors.CodeStateConflict)
}

func TestSubmitUnknownOrder(t *testing.T) {
	svc := newPaymentsService(t, &stubOrdersRepo{findErr: gorm.ErrRecordNotFound}, &stubProcessor{})

	_, err := svc.Submit(context.Background(), submitInput())
	expectPaymentsCode(t, err, pkgerrors.CodeNotFound)
}

func TestSubmitValidation(t *testing.T) {
	svc := newPaymentsService(t, &stubOrdersRepo{}, &stubProcessor{})

	input := submitInput()
	input.Reference = " "
	_, err := svc.Submit(context.Background(), input)
	expectPaymentsCode(t, err, pkgerrors.CodeValidation)

	input = submitInput()
	input.Token = ""
	_, err = svc.Submit(context.Background(), input)
	expectPaymentsCode(t, err, pkgerrors.CodeValidation)
}
