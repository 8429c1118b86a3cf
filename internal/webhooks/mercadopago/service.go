package mpwebhook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/veranievas/floralia-backend/internal/orders"
	"github.com/veranievas/floralia-backend/pkg/enums"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
	"github.com/veranievas/floralia-backend/pkg/logger"
	"github.com/veranievas/floralia-backend/pkg/mercadopago"
	"github.com/veranievas/floralia-backend/pkg/metrics"
	"github.com/veranievas/floralia-backend/pkg/types"
)

// deliveryWindow bounds how long a webhook delivery id is remembered for
// duplicate suppression. Mercado Pago retries within hours, not days.
const deliveryWindow = 48 * time.Hour

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type paymentFetcher interface {
	GetPayment(ctx context.Context, id string) (*mercadopago.Payment, error)
}

type couponRedeemer interface {
	RedeemIfUnredeemed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type deliveryGuard interface {
	MarkWebhookDelivery(ctx context.Context, provider, deliveryID string, window time.Duration) (bool, error)
}

// Notification is the decoded Mercado Pago webhook body. Everything except
// payment notifications is acknowledged and dropped.
type Notification struct {
	ID     int64  `json:"id"`
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Service reconciles order state from asynchronous processor notifications.
type Service interface {
	HandleNotification(ctx context.Context, note Notification) error
}

type service struct {
	tx         txRunner
	ordersRepo orders.Repository
	coupons    couponRedeemer
	processor  paymentFetcher
	guard      deliveryGuard
	metrics    *metrics.CheckoutMetrics
	logger     *logger.Logger
	now        func() time.Time
}

// NewService builds the webhook reconciliation service. guard may be nil when
// redis is unavailable; duplicate deliveries are then only caught by the
// event-log idempotency check.
func NewService(
	tx txRunner,
	ordersRepo orders.Repository,
	coupons couponRedeemer,
	processor paymentFetcher,
	guard deliveryGuard,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon redeemer required")
	}
	if processor == nil {
		return nil, fmt.Errorf("payment fetcher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:         tx,
		ordersRepo: ordersRepo,
		coupons:    coupons,
		processor:  processor,
		guard:      guard,
		metrics:    checkoutMetrics,
		logger:     logg,
		now:        time.Now,
	}, nil
}

func (s *service) HandleNotification(ctx context.Context, note Notification) error {
	if !strings.EqualFold(note.Type, "payment") {
		s.observe("ignored")
		return nil
	}
	paymentID := strings.TrimSpace(note.Data.ID)
	if paymentID == "" {
		s.observe("ignored")
		return nil
	}

	if s.guard != nil {
		first, err := s.guard.MarkWebhookDelivery(ctx, "mercadopago", deliveryID(note), deliveryWindow)
		if err != nil {
			// Redis being down must not stall reconciliation; the event-log
			// check still keeps the update idempotent.
			s.logger.Warn(ctx, "webhook delivery guard unavailable")
		} else if !first {
			s.observe("duplicate")
			return nil
		}
	}

	// The notification body is untrusted; the payment is always re-fetched
	// from the processor before anything changes.
	payment, err := s.processor.GetPayment(ctx, paymentID)
	if err != nil {
		s.logger.Warn(ctx, fmt.Sprintf("payment %s could not be fetched, acking", paymentID))
		s.observe("fetch_failed")
		return nil
	}
	reference := strings.TrimSpace(payment.ExternalReference)
	if reference == "" {
		s.logger.Warn(ctx, fmt.Sprintf("payment %s carries no external reference, acking", paymentID))
		s.observe("ignored")
		return nil
	}
	ctx = s.logger.WithOrderRef(ctx, reference)

	processorStatus, parseErr := enums.ParseProcessorStatus(payment.Status)
	if parseErr != nil {
		s.logger.Warn(ctx, fmt.Sprintf("unrecognized processor status %q, treating as pending", payment.Status))
		processorStatus = enums.ProcessorStatusPending
	}
	orderStatus := processorStatus.OrderStatus()

	var couponID *uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.ordersRepo.WithTx(tx)

		order, err := repo.FindByReference(ctx, reference)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		couponID = order.CouponID

		updates := map[string]any{
			"payment_id":        payment.ID,
			"raw_status":        payment.Status,
			"raw_status_detail": payment.StatusDetail,
			"status":            orderStatus,
		}
		if err := repo.UpdateByReference(ctx, reference, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reconcile order")
		}

		metadata := types.JSONMap{
			"payment_id": payment.ID,
			"source":     "webhook",
		}
		inserted, err := repo.AppendEventIfAbsent(ctx, order.ID, processorStatus.EventType(), metadata)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment event")
		}
		if !inserted {
			s.logger.Info(ctx, "payment event already recorded, delivery is a duplicate")
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
			// Unknown references come from test pings and sandbox traffic.
			s.logger.Warn(ctx, "notification for unknown order, acking")
			s.observe("ignored")
			return nil
		}
		s.observe("failed")
		return err
	}

	// Redemption rides on the conditional write, so a coupon failure never
	// rolls back the reconciled order. It is logged and retried on the next
	// delivery.
	var postErr error
	if orderStatus == enums.OrderStatusPaid && couponID != nil {
		if _, err := s.coupons.RedeemIfUnredeemed(ctx, *couponID, s.now()); err != nil {
			postErr = multierr.Append(postErr, fmt.Errorf("redeem coupon %s: %w", couponID, err))
		}
	}
	if postErr != nil {
		s.logger.Error(ctx, "webhook post-processing incomplete", postErr)
	}

	s.observe("processed")
	return nil
}

func (s *service) observe(result string) {
	if s.metrics != nil {
		s.metrics.IncWebhook(result)
	}
}

func deliveryID(note Notification) string {
	if note.ID != 0 {
		return fmt.Sprintf("%d", note.ID)
	}
	return fmt.Sprintf("%s:%s", strings.ToLower(note.Action), note.Data.ID)
}
