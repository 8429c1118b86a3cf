package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	paymentssvc "github.com/veranievas/floralia-backend/internal/payments"
	"github.com/veranievas/floralia-backend/pkg/enums"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
)

type stubPaymentsService struct {
	result *paymentssvc.SubmitResult
	err    error

	gotInput paymentssvc.SubmitInput
}

func (s *stubPaymentsService) Submit(ctx context.Context, input paymentssvc.SubmitInput) (*paymentssvc.SubmitResult, error) {
	s.gotInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func submitBody() string {
	return `{
		"reference": "FL-20260115-ABCDEF",
		"token": "tok_visa",
		"payment_method_id": "visa",
		"installments": 1,
		"payer_email": "ana@example.mx"
	}`
}

func TestProcessPaymentSuccess(t *testing.T) {
	t.Parallel()

	svc := &stubPaymentsService{result: &paymentssvc.SubmitResult{
		PaymentID:    "120027",
		Status:       enums.OrderStatusPaid,
		StatusDetail: "accredited",
	}}
	handler := ProcessPayment(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/process", strings.NewReader(submitBody()))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data paymentssvc.SubmitResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != enums.OrderStatusPaid {
		t.Fatalf("unexpected status: %s", envelope.Data.Status)
	}
	if svc.gotInput.Reference != "FL-20260115-ABCDEF" {
		t.Fatalf("unexpected reference passed to service: %s", svc.gotInput.Reference)
	}
}

func TestProcessPaymentValidationError(t *testing.T) {
	t.Parallel()

	handler := ProcessPayment(&stubPaymentsService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/process", strings.NewReader(`{"reference":"FL-1"}`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProcessPaymentStateConflict(t *testing.T) {
	t.Parallel()

	svc := &stubPaymentsService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "order already paid")}
	handler := ProcessPayment(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/process", strings.NewReader(submitBody()))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}
