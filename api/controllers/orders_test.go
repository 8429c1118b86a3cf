package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	orderssvc "github.com/veranievas/floralia-backend/internal/orders"
	"github.com/veranievas/floralia-backend/pkg/enums"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
	"github.com/veranievas/floralia-backend/pkg/pagination"
)

type stubOrdersService struct {
	detail *orderssvc.Detail
	list   *orderssvc.List
	urls   []string
	err    error

	gotReference string
	gotStage     enums.OrderStage
	gotParams    pagination.Params
	gotPhotos    []orderssvc.PhotoUpload
}

func (s *stubOrdersService) GetByReference(ctx context.Context, reference string) (*orderssvc.Detail, error) {
	s.gotReference = reference
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func (s *stubOrdersService) ListPaid(ctx context.Context, params pagination.Params) (*orderssvc.List, error) {
	s.gotParams = params
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *stubOrdersService) AdvanceStage(ctx context.Context, reference string, target enums.OrderStage) (*orderssvc.Detail, error) {
	s.gotReference = reference
	s.gotStage = target
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func (s *stubOrdersService) AttachPhotos(ctx context.Context, reference string, photos []orderssvc.PhotoUpload) ([]string, error) {
	s.gotReference = reference
	s.gotPhotos = photos
	if s.err != nil {
		return nil, s.err
	}
	return s.urls, nil
}

func TestGetOrderSuccess(t *testing.T) {
	t.Parallel()

	svc := &stubOrdersService{detail: &orderssvc.Detail{
		Reference: "FL-20260115-ABCDEF",
		Status:    enums.OrderStatusPaid,
		Stage:     enums.OrderStagePreparing,
	}}
	handler := GetOrder(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/FL-20260115-ABCDEF", nil)
	req = withURLParam(req, "reference", "FL-20260115-ABCDEF")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotReference != "FL-20260115-ABCDEF" {
		t.Fatalf("unexpected reference: %s", svc.gotReference)
	}

	var envelope struct {
		Data orderssvc.Detail `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Stage != enums.OrderStagePreparing {
		t.Fatalf("unexpected stage: %s", envelope.Data.Stage)
	}
}

func TestGetOrderMissingReference(t *testing.T) {
	t.Parallel()

	handler := GetOrder(&stubOrdersService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	req = withURLParam(req, "reference", "  ")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	t.Parallel()

	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := GetOrder(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/FL-20260115-ZZZZZZ", nil)
	req = withURLParam(req, "reference", "FL-20260115-ZZZZZZ")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
