package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
)

// Signature is the parsed x-signature webhook header.
type Signature struct {
	Timestamp string
	Hash      string
}

// ParseSignatureHeader splits the comma-separated ts/v1 pairs Mercado Pago
// sends, e.g. "ts=1704908010,v1=618c85...".
func ParseSignatureHeader(header string) (Signature, error) {
	var sig Signature
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "ts":
			sig.Timestamp = strings.TrimSpace(value)
		case "v1":
			sig.Hash = strings.TrimSpace(value)
		}
	}
	if sig.Timestamp == "" || sig.Hash == "" {
		return Signature{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "malformed webhook signature header")
	}
	return sig, nil
}

// VerifySignature recomputes the notification HMAC and compares it in
// constant time. The manifest layout and lowercase id normalization follow
// the processor's published scheme.
func VerifySignature(secret, paymentID, requestID string, sig Signature) error {
	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", strings.ToLower(paymentID), requestID, sig.Timestamp)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(sig.Hash))) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook signature mismatch")
	}
	return nil
}
