package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/veranievas/floralia-backend/api/responses"
	"github.com/veranievas/floralia-backend/api/validators"
	settingssvc "github.com/veranievas/floralia-backend/internal/settings"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
	"github.com/veranievas/floralia-backend/pkg/logger"
)

type setTaxRateRequest struct {
	// TaxRate is the inclusive rate as a decimal string, "0.16" for 16%.
	TaxRate string `json:"tax_rate" validate:"required"`
}

// AdminSetTaxRate writes a new settings version with the given inclusive tax
// rate. Orders created before the change keep their snapshotted rate.
func AdminSetTaxRate(svc settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		var payload setTaxRateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := decimal.NewFromString(payload.TaxRate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be a decimal string"))
			return
		}

		if err := svc.SetTaxRate(r.Context(), rate); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"tax_rate": rate})
	}
}
