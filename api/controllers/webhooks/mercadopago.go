package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/veranievas/floralia-backend/api/responses"
	mpwebhook "github.com/veranievas/floralia-backend/internal/webhooks/mercadopago"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
	"github.com/veranievas/floralia-backend/pkg/logger"
	"github.com/veranievas/floralia-backend/pkg/mercadopago"
)

type MercadoPagoService interface {
	HandleNotification(ctx context.Context, note mpwebhook.Notification) error
}

type mercadoPagoClient interface {
	SigningSecret() string
}

// MercadoPago receives processor notifications. Verification is best effort:
// a configured secret plus a present x-signature header must match, but the
// processor omits the header on test notifications, so an absent header is
// let through and reconciliation relies on fetching the payment by id.
func MercadoPago(svc MercadoPagoService, client mercadoPagoClient, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		var note mpwebhook.Notification
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &note); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "malformed notification body"))
				return
			}
		}

		// The IPN variant carries the payment id in the query string only.
		if queryID := strings.TrimSpace(r.URL.Query().Get("data.id")); queryID != "" {
			note.Data.ID = queryID
		}

		if err := verifySignature(r, client, note.Data.ID); err != nil {
			if logg != nil {
				logg.Warn(ctx, "webhook.mercadopago.signature_rejected")
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.HandleNotification(ctx, note); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

func verifySignature(r *http.Request, client mercadoPagoClient, dataID string) error {
	if client == nil {
		return nil
	}
	secret := client.SigningSecret()
	if secret == "" {
		return nil
	}

	header := strings.TrimSpace(r.Header.Get("x-signature"))
	if header == "" {
		return nil
	}

	sig, err := mercadopago.ParseSignatureHeader(header)
	if err != nil {
		return err
	}
	return mercadopago.VerifySignature(secret, dataID, r.Header.Get("x-request-id"), sig)
}
