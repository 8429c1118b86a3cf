package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/veranievas/floralia-backend/internal/orders"
	"github.com/veranievas/floralia-backend/pkg/enums"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
	"github.com/veranievas/floralia-backend/pkg/logger"
	"github.com/veranievas/floralia-backend/pkg/mercadopago"
	"github.com/veranievas/floralia-backend/pkg/metrics"
	"github.com/veranievas/floralia-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type paymentCreator interface {
	CreatePayment(ctx context.Context, params mercadopago.PaymentParams) (*mercadopago.Payment, error)
}

// SubmitInput is the opaque card payload collected by the client-side form.
// The server never sees raw card data, only the tokenized reference.
type SubmitInput struct {
	Reference       string `json:"reference" validate:"required"`
	Token           string `json:"token" validate:"required"`
	PaymentMethodID string `json:"payment_method_id" validate:"required"`
	Installments    int    `json:"installments" validate:"required,gt=0"`
	IssuerID        string `json:"issuer_id"`
	PayerEmail      string `json:"payer_email" validate:"required,email"`
}

// SubmitResult is returned to the storefront after the synchronous charge.
type SubmitResult struct {
	PaymentID    string            `json:"payment_id"`
	Status       enums.OrderStatus `json:"status"`
	StatusDetail string            `json:"status_detail"`
}

// Service performs the synchronous payment submission against Mercado Pago
// and records the outcome on the order.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
}

type service struct {
	tx         txRunner
	ordersRepo orders.Repository
	processor  paymentCreator
	metrics    *metrics.CheckoutMetrics
	logger     *logger.Logger
}

// NewService builds the payment submission service.
func NewService(
	tx txRunner,
	ordersRepo orders.Repository,
	processor paymentCreator,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if processor == nil {
		return nil, fmt.Errorf("payment processor required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:         tx,
		ordersRepo: ordersRepo,
		processor:  processor,
		metrics:    checkoutMetrics,
		logger:     logg,
	}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	reference := strings.TrimSpace(input.Reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order reference required")
	}
	if strings.TrimSpace(input.Token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card token required")
	}
	ctx = s.logger.WithOrderRef(ctx, reference)

	order, err := s.ordersRepo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order already %s", order.Status))
	}

	payment, err := s.processor.CreatePayment(ctx, mercadopago.PaymentParams{
		ExternalReference: order.Reference,
		Amount:            order.Total,
		Description:       fmt.Sprintf("Floralia order %s", order.Reference),
		Token:             input.Token,
		Installments:      input.Installments,
		PaymentMethodID:   input.PaymentMethodID,
		IssuerID:          input.IssuerID,
		PayerEmail:        input.PayerEmail,
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncPayment("error")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit payment")
	}

	processorStatus, parseErr := enums.ParseProcessorStatus(payment.Status)
	if parseErr != nil {
		// Unknown statuses stay pending until the webhook clears them up.
		s.logger.Warn(ctx, fmt.Sprintf("unrecognized processor status %q, keeping order pending", payment.Status))
		processorStatus = enums.ProcessorStatusPending
	}
	orderStatus := processorStatus.OrderStatus()

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)

		updates := map[string]any{
			"payment_id":        payment.ID,
			"raw_status":        payment.Status,
			"raw_status_detail": payment.StatusDetail,
			"status":            orderStatus,
		}
		if err := repo.UpdateByReference(ctx, order.Reference, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment outcome")
		}

		metadata := types.JSONMap{
			"payment_id":    payment.ID,
			"status_detail": payment.StatusDetail,
		}
		if _, err := repo.AppendEventIfAbsent(ctx, order.ID, processorStatus.EventType(), metadata); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncPayment(orderStatus.String())
	}
	return &SubmitResult{
		PaymentID:    payment.ID,
		Status:       orderStatus,
		StatusDetail: payment.StatusDetail,
	}, nil
}
