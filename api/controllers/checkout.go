package controllers

import (
	"net/http"

	"github.com/veranievas/floralia-backend/api/middleware"
	"github.com/veranievas/floralia-backend/api/responses"
	"github.com/veranievas/floralia-backend/api/validators"
	checkoutsvc "github.com/veranievas/floralia-backend/internal/checkout"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
	"github.com/veranievas/floralia-backend/pkg/logger"
)

// Checkout revalidates the client cart and creates a pending order. Guests
// check out with an email in the body; signed-in users fall back to the email
// on their token.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutsvc.Input
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Email == "" {
			payload.Email = middleware.EmailFromContext(r.Context())
		}

		result, err := svc.Execute(r.Context(), middleware.UserUUIDFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
