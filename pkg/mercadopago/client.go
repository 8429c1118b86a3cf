// Package mercadopago wraps the Mercado Pago SDK with centralized auth,
// logging, and error mapping. Only the surface the checkout flow needs is
// exposed; the SDK types never leak past this package.
package mercadopago

import (
	"context"
	"errors"
	"strconv"
	"strings"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"

	"github.com/veranievas/floralia-backend/pkg/config"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
	"github.com/veranievas/floralia-backend/pkg/logger"
)

var (
	errAccessTokenRequired = errors.New("mercado pago access token is required")
	errLoggerRequired      = errors.New("mercado pago logger is required")
)

// Client exposes the Mercado Pago primitives used by checkout, payment
// submission, and webhook reconciliation.
type Client struct {
	payments      payment.Client
	preferences   preference.Client
	webhookSecret string
	successURL    string
	failureURL    string
	pendingURL    string
	logger        *logger.Logger
}

// PaymentsAPI is the payment surface consumed by the submission handler and
// webhook reconciliation.
type PaymentsAPI interface {
	CreatePayment(ctx context.Context, params PaymentParams) (*Payment, error)
	GetPayment(ctx context.Context, id string) (*Payment, error)
}

// PreferencesAPI is the checkout-initiation surface.
type PreferencesAPI interface {
	CreatePreference(ctx context.Context, params PreferenceParams) (*Preference, error)
}

// NewClient initializes the wrapper and validates credentials.
func NewClient(ctx context.Context, cfg config.MercadoPagoConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	accessToken := strings.TrimSpace(cfg.AccessToken)
	if accessToken == "" {
		return nil, errAccessTokenRequired
	}

	sdkCfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}

	c := &Client{
		payments:      payment.NewClient(sdkCfg),
		preferences:   preference.NewClient(sdkCfg),
		webhookSecret: strings.TrimSpace(cfg.WebhookSecret),
		successURL:    cfg.SuccessURL,
		failureURL:    cfg.FailureURL,
		pendingURL:    cfg.PendingURL,
		logger:        logg,
	}

	logg.Info(ctx, "mercado pago client initialized")
	return c, nil
}

// SigningSecret returns the webhook secret, empty when soft verification is
// in force.
func (c *Client) SigningSecret() string {
	if c == nil {
		return ""
	}
	return c.webhookSecret
}

// PreferenceItem is one purchasable line inside a checkout preference.
type PreferenceItem struct {
	ID         string
	Title      string
	Quantity   int
	UnitPrice  decimal.Decimal
	PictureURL string
}

// PreferenceParams scope a payment intent to an order's items and reference.
type PreferenceParams struct {
	ExternalReference string
	PayerEmail        string
	Items             []PreferenceItem
}

// Preference is the created payment intent the storefront embeds.
type Preference struct {
	ID        string
	InitPoint string
}

// CreatePreference registers the order with Mercado Pago and returns the
// intent reference the client-side payment form needs.
func (c *Client) CreatePreference(ctx context.Context, params PreferenceParams) (*Preference, error) {
	if len(params.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "preference requires at least one item")
	}

	items := make([]preference.ItemRequest, 0, len(params.Items))
	for _, item := range params.Items {
		items = append(items, preference.ItemRequest{
			ID:         item.ID,
			Title:      item.Title,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.InexactFloat64(),
			CurrencyID: "MXN",
			PictureURL: item.PictureURL,
		})
	}

	request := preference.Request{
		ExternalReference: params.ExternalReference,
		Items:             items,
	}
	if params.PayerEmail != "" {
		request.Payer = &preference.PayerRequest{Email: params.PayerEmail}
	}
	if c.successURL != "" || c.failureURL != "" || c.pendingURL != "" {
		request.BackURLs = &preference.BackURLsRequest{
			Success: c.successURL,
			Failure: c.failureURL,
			Pending: c.pendingURL,
		}
	}

	resource, err := c.preferences.Create(ctx, request)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment preference")
	}
	return &Preference{ID: resource.ID, InitPoint: resource.InitPoint}, nil
}

// PaymentParams is the opaque payment-method bag collected client-side plus
// the order's identity.
type PaymentParams struct {
	ExternalReference string
	Amount            decimal.Decimal
	Description       string
	Token             string
	Installments      int
	PaymentMethodID   string
	IssuerID          string
	PayerEmail        string
}

// Payment is the processor's view of a payment, normalized to strings.
type Payment struct {
	ID                string
	Status            string
	StatusDetail      string
	ExternalReference string
}

// CreatePayment executes the synchronous card charge.
func (c *Client) CreatePayment(ctx context.Context, params PaymentParams) (*Payment, error) {
	installments := params.Installments
	if installments <= 0 {
		installments = 1
	}

	request := payment.Request{
		TransactionAmount: params.Amount.InexactFloat64(),
		Description:       params.Description,
		ExternalReference: params.ExternalReference,
		Token:             params.Token,
		Installments:      installments,
		PaymentMethodID:   params.PaymentMethodID,
		IssuerID:          params.IssuerID,
	}
	if params.PayerEmail != "" {
		request.Payer = &payment.PayerRequest{Email: params.PayerEmail}
	}

	resource, err := c.payments.Create(ctx, request)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
	}
	return newPayment(resource), nil
}

// GetPayment re-fetches the authoritative payment object by its processor id.
func (c *Client) GetPayment(ctx context.Context, id string) (*Payment, error) {
	numeric, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment id")
	}

	resource, err := c.payments.Get(ctx, numeric)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch payment")
	}
	return newPayment(resource), nil
}

func newPayment(resource *payment.Response) *Payment {
	if resource == nil {
		return nil
	}
	return &Payment{
		ID:                strconv.Itoa(resource.ID),
		Status:            resource.Status,
		StatusDetail:      resource.StatusDetail,
		ExternalReference: resource.ExternalReference,
	}
}
