package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veranievas/floralia-backend/api/middleware"
	"github.com/veranievas/floralia-backend/api/responses"
	"github.com/veranievas/floralia-backend/api/validators"
	couponssvc "github.com/veranievas/floralia-backend/internal/coupons"
	settingssvc "github.com/veranievas/floralia-backend/internal/settings"
	"github.com/veranievas/floralia-backend/pkg/db/models"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
	"github.com/veranievas/floralia-backend/pkg/logger"
)

type couponResponse struct {
	Code       string          `json:"code"`
	Percent    decimal.Decimal `json:"percent"`
	ExpiresAt  time.Time       `json:"expires_at"`
	IsRedeemed bool            `json:"is_redeemed"`
}

func newCouponResponse(coupon *models.Coupon) couponResponse {
	return couponResponse{
		Code:       coupon.Code,
		Percent:    coupon.Percent,
		ExpiresAt:  coupon.ExpiresAt,
		IsRedeemed: coupon.IsRedeemed,
	}
}

// GetCoupon returns the caller's welcome coupon, issuing it on first fetch,
// together with the current inclusive tax rate so the storefront can preview
// totals without a checkout round trip.
func GetCoupon(svc couponssvc.Service, settings settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || settings == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupons service unavailable"))
			return
		}

		coupon, err := svc.EnsureWelcome(r.Context(), middleware.UserUUIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		taxRate, err := settings.CurrentTaxRate(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"coupon":   newCouponResponse(coupon),
			"tax_rate": taxRate,
		})
	}
}

type validateCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// ValidateCoupon checks an explicit code for the caller. Rate limited per IP
// so the code space cannot be enumerated.
func ValidateCoupon(svc couponssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupons service unavailable"))
			return
		}

		var payload validateCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.Validate(r.Context(), payload.Code, middleware.UserUUIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCouponResponse(coupon))
	}
}
