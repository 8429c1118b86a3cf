package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/veranievas/floralia-backend/api/middleware"
	"github.com/veranievas/floralia-backend/pkg/db/models"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
)

type stubCouponsService struct {
	coupon *models.Coupon
	err    error

	gotCode   string
	gotUserID uuid.UUID
}

func (s *stubCouponsService) EnsureWelcome(ctx context.Context, userID uuid.UUID) (*models.Coupon, error) {
	s.gotUserID = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.coupon, nil
}

func (s *stubCouponsService) Validate(ctx context.Context, code string, userID uuid.UUID) (*models.Coupon, error) {
	s.gotCode = code
	s.gotUserID = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.coupon, nil
}

type stubSettingsService struct {
	rate decimal.Decimal
	err  error
}

func (s *stubSettingsService) CurrentTaxRate(ctx context.Context) (decimal.Decimal, error) {
	return s.rate, s.err
}

func (s *stubSettingsService) SetTaxRate(ctx context.Context, rate decimal.Decimal) error {
	return s.err
}

func welcomeCoupon(userID uuid.UUID) *models.Coupon {
	return &models.Coupon{
		ID:        uuid.New(),
		Code:      "BIENVENIDA-ABC234",
		UserID:    userID,
		Percent:   decimal.NewFromInt(10),
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}
}

func TestGetCouponIssuesWelcome(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	coupons := &stubCouponsService{coupon: welcomeCoupon(userID)}
	settings := &stubSettingsService{rate: decimal.RequireFromString("0.16")}
	handler := GetCoupon(coupons, settings, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/coupons", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if coupons.gotUserID != userID {
		t.Fatalf("unexpected user id: %s", coupons.gotUserID)
	}

	var envelope struct {
		Data struct {
			Coupon  couponResponse `json:"coupon"`
			TaxRate string         `json:"tax_rate"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Coupon.Code != "BIENVENIDA-ABC234" {
		t.Fatalf("unexpected coupon code: %s", envelope.Data.Coupon.Code)
	}
	if envelope.Data.TaxRate != "0.16" {
		t.Fatalf("unexpected tax rate: %s", envelope.Data.TaxRate)
	}
}

func TestGetCouponWithoutIdentity(t *testing.T) {
	t.Parallel()

	coupons := &stubCouponsService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")}
	handler := GetCoupon(coupons, &stubSettingsService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/coupons", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestValidateCoupon(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	coupons := &stubCouponsService{coupon: welcomeCoupon(userID)}
	handler := ValidateCoupon(coupons, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/coupons", strings.NewReader(`{"code":"BIENVENIDA-ABC234"}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if coupons.gotCode != "BIENVENIDA-ABC234" {
		t.Fatalf("unexpected code passed to service: %s", coupons.gotCode)
	}
}

func TestValidateCouponRequiresCode(t *testing.T) {
	t.Parallel()

	handler := ValidateCoupon(&stubCouponsService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/coupons", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestValidateCouponForeignCode(t *testing.T) {
	t.Parallel()

	coupons := &stubCouponsService{err: pkgerrors.New(pkgerrors.CodeForbidden, "coupon belongs to another account")}
	handler := ValidateCoupon(coupons, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/coupons", strings.NewReader(`{"code":"BIENVENIDA-XYZ789"}`))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
