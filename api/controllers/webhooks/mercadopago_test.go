package webhooks

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mpwebhook "github.com/veranievas/floralia-backend/internal/webhooks/mercadopago"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
)

type stubWebhookService struct {
	err error

	gotNote mpwebhook.Notification
	calls   int
}

func (s *stubWebhookService) HandleNotification(ctx context.Context, note mpwebhook.Notification) error {
	s.calls++
	s.gotNote = note
	return s.err
}

type stubSigner struct {
	secret string
}

func (s stubSigner) SigningSecret() string { return s.secret }

func signatureHeader(secret, dataID, requestID, ts string) string {
	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", strings.ToLower(dataID), requestID, ts)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	return "ts=" + ts + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}

func paymentBody(id string) string {
	return `{"id":42,"type":"payment","action":"payment.updated","data":{"id":"` + id + `"}}`
}

func TestMercadoPagoAcceptsValidSignature(t *testing.T) {
	t.Parallel()

	svc := &stubWebhookService{}
	handler := MercadoPago(svc, stubSigner{secret: "shhh"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/mercadopago?data.id=120027", strings.NewReader(paymentBody("120027")))
	req.Header.Set("x-request-id", "req-1")
	req.Header.Set("x-signature", signatureHeader("shhh", "120027", "req-1", "1704908010"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.calls != 1 {
		t.Fatalf("expected one service call, got %d", svc.calls)
	}
	if svc.gotNote.Data.ID != "120027" {
		t.Fatalf("unexpected data id: %s", svc.gotNote.Data.ID)
	}
}

func TestMercadoPagoRejectsBadSignature(t *testing.T) {
	t.Parallel()

	svc := &stubWebhookService{}
	handler := MercadoPago(svc, stubSigner{secret: "shhh"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/mercadopago?data.id=120027", strings.NewReader(paymentBody("120027")))
	req.Header.Set("x-request-id", "req-1")
	req.Header.Set("x-signature", signatureHeader("wrong-secret", "120027", "req-1", "1704908010"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("service must not run on signature mismatch")
	}
}

func TestMercadoPagoAllowsMissingSignature(t *testing.T) {
	t.Parallel()

	svc := &stubWebhookService{}
	handler := MercadoPago(svc, stubSigner{secret: "shhh"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/mercadopago", strings.NewReader(paymentBody("120027")))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.calls != 1 {
		t.Fatalf("expected one service call, got %d", svc.calls)
	}
}

func TestMercadoPagoQueryIDOverridesBody(t *testing.T) {
	t.Parallel()

	svc := &stubWebhookService{}
	handler := MercadoPago(svc, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/mercadopago?data.id=999", strings.NewReader(paymentBody("120027")))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotNote.Data.ID != "999" {
		t.Fatalf("expected query id to win, got %s", svc.gotNote.Data.ID)
	}
}

func TestMercadoPagoMalformedBody(t *testing.T) {
	t.Parallel()

	svc := &stubWebhookService{}
	handler := MercadoPago(svc, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/mercadopago", strings.NewReader("not-json"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("service must not run on malformed body")
	}
}

func TestMercadoPagoServiceErrorTriggersRetry(t *testing.T) {
	t.Parallel()

	svc := &stubWebhookService{err: pkgerrors.New(pkgerrors.CodeDependency, "persist notification")}
	handler := MercadoPago(svc, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/mercadopago", strings.NewReader(paymentBody("120027")))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code < http.StatusInternalServerError {
		t.Fatalf("expected 5xx so the processor retries, got %d", resp.Code)
	}
}
