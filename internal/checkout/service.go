package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/veranievas/floralia-backend/internal/catalog"
	"github.com/veranievas/floralia-backend/internal/orders"
	"github.com/veranievas/floralia-backend/pkg/db/models"
	"github.com/veranievas/floralia-backend/pkg/enums"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
	"github.com/veranievas/floralia-backend/pkg/logger"
	"github.com/veranievas/floralia-backend/pkg/mercadopago"
	"github.com/veranievas/floralia-backend/pkg/metrics"
	"github.com/veranievas/floralia-backend/pkg/reference"
	"github.com/veranievas/floralia-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type couponValidator interface {
	Validate(ctx context.Context, code string, userID uuid.UUID) (*models.Coupon, error)
}

type taxRateSource interface {
	CurrentTaxRate(ctx context.Context) (decimal.Decimal, error)
}

type preferenceCreator interface {
	CreatePreference(ctx context.Context, params mercadopago.PreferenceParams) (*mercadopago.Preference, error)
}

// Service executes checkout orchestration: cart revalidation, pricing, order
// persistence, and payment intent creation.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID, input Input) (*Result, error)
}

type service struct {
	tx          txRunner
	ordersRepo  orders.Repository
	catalogRepo catalog.Repository
	coupons     couponValidator
	settings    taxRateSource
	preferences preferenceCreator
	metrics     *metrics.CheckoutMetrics
	logger      *logger.Logger
	now         func() time.Time
}

// NewService builds the checkout service. preferences may be nil in
// environments without processor credentials; orders are then created without
// a payment intent.
func NewService(
	tx txRunner,
	ordersRepo orders.Repository,
	catalogRepo catalog.Repository,
	coupons couponValidator,
	settings taxRateSource,
	preferences preferenceCreator,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon validator required")
	}
	if settings == nil {
		return nil, fmt.Errorf("tax rate source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:          tx,
		ordersRepo:  ordersRepo,
		catalogRepo: catalogRepo,
		coupons:     coupons,
		settings:    settings,
		preferences: preferences,
		metrics:     checkoutMetrics,
		logger:      logg,
		now:         time.Now,
	}, nil
}

func (s *service) Execute(ctx context.Context, userID uuid.UUID, input Input) (*Result, error) {
	result, err := s.execute(ctx, userID, input)
	if s.metrics != nil {
		if err != nil {
			s.metrics.IncCheckout("rejected")
		} else {
			s.metrics.IncCheckout("created")
		}
	}
	return result, err
}

func (s *service) execute(ctx context.Context, userID uuid.UUID, input Input) (*Result, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	locale, err := enums.ParseLocale(input.Locale)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported locale")
	}
	ctx = s.logger.WithLocale(ctx, locale.String())

	var coupon *models.Coupon
	if strings.TrimSpace(input.CouponCode) != "" {
		coupon, err = s.coupons.Validate(ctx, input.CouponCode, userID)
		if err != nil {
			return nil, err
		}
	}

	taxRate, err := s.settings.CurrentTaxRate(ctx)
	if err != nil {
		return nil, err
	}

	ref, err := reference.New(s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order reference")
	}

	order := &models.Order{
		ID:        uuid.New(),
		Reference: ref,
		Email:     email,
		Locale:    locale,
		Status:    enums.OrderStatusPending,
		Currency:  enums.SettlementCurrency,
		TaxRate:   taxRate,
	}
	if userID != uuid.Nil {
		order.UserID = &userID
	}
	if coupon != nil {
		order.CouponID = &coupon.ID
	}

	var snapshot []models.OrderItem
	var prefItems []mercadopago.PreferenceItem

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.ordersRepo.WithTx(tx)
		catalogRepo := s.catalogRepo.WithTx(tx)

		products := map[uuid.UUID]*models.Product{}
		subtotal := decimal.Zero

		for _, item := range input.Items {
			variant, err := catalogRepo.FindVariant(ctx, item.ProductID, item.VariantID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation,
						fmt.Sprintf("variant %s is not purchasable", item.VariantID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
			}
			if !variant.Available {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("variant %s is unavailable", item.VariantID))
			}
			if variant.Currency != enums.SettlementCurrency {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("variant %s is not priced in %s", item.VariantID, enums.SettlementCurrency))
			}

			product, ok := products[item.ProductID]
			if !ok {
				product, err = catalogRepo.FindProductByID(ctx, item.ProductID)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return pkgerrors.New(pkgerrors.CodeValidation,
							fmt.Sprintf("product %s is not purchasable", item.ProductID))
					}
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
				}
				if !product.Active {
					return pkgerrors.New(pkgerrors.CodeValidation,
						fmt.Sprintf("product %s is not purchasable", item.ProductID))
				}
				products[item.ProductID] = product
			}

			qty := decimal.NewFromInt(int64(item.Qty))
			subtotal = subtotal.Add(variant.Price.Mul(qty))

			snapshot = append(snapshot, models.OrderItem{
				ID:           uuid.New(),
				OrderID:      order.ID,
				ProductID:    product.ID,
				VariantID:    variant.ID,
				ProductName:  product.Name(locale.String()),
				VariantLabel: variant.Label(locale.String()),
				UnitPrice:    variant.Price,
				Qty:          item.Qty,
				ImageURL:     product.ImageURL,
			})
			prefItems = append(prefItems, mercadopago.PreferenceItem{
				ID:         variant.ID.String(),
				Title:      product.Name(locale.String()),
				Quantity:   item.Qty,
				UnitPrice:  variant.Price,
				PictureURL: product.ImageURL,
			})
		}

		discount := decimal.Zero
		if coupon != nil {
			discount = subtotal.Mul(coupon.Percent).Div(decimal.NewFromInt(100)).Round(2)
		}
		total := subtotal.Sub(discount)
		// Prices are tax inclusive; the amount is carved out of the total,
		// never added on top.
		tax := total.Mul(taxRate).Div(decimal.NewFromInt(1).Add(taxRate)).Round(2)

		order.Subtotal = subtotal
		order.DiscountAmount = discount
		order.Total = total
		order.TaxAmount = tax

		if err := ordersRepo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := ordersRepo.CreateOrderItems(ctx, snapshot); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}
		event := &models.OrderEvent{
			ID:      uuid.New(),
			OrderID: order.ID,
			Type:    enums.OrderEventOrderCreated,
			Metadata: types.JSONMap{
				"subtotal": subtotal.String(),
				"total":    total.String(),
			},
		}
		if err := ordersRepo.AppendEvent(ctx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record order_created event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Reference:      order.Reference,
		Status:         order.Status,
		Currency:       order.Currency,
		Subtotal:       order.Subtotal,
		DiscountAmount: order.DiscountAmount,
		TaxAmount:      order.TaxAmount,
		Total:          order.Total,
		TaxRate:        order.TaxRate,
	}

	// The preference call happens outside the transaction. A processor outage
	// leaves a pending order with no intent id, which the storefront treats as
	// abandonable.
	if s.preferences != nil {
		ctx := s.logger.WithOrderRef(ctx, order.Reference)
		pref, err := s.preferences.CreatePreference(ctx, mercadopago.PreferenceParams{
			ExternalReference: order.Reference,
			PayerEmail:        email,
			Items:             prefItems,
		})
		if err != nil {
			s.logger.Error(ctx, "payment preference creation failed", err)
			return result, nil
		}
		updates := map[string]any{"preference_id": pref.ID}
		if err := s.ordersRepo.UpdateByReference(ctx, order.Reference, updates); err != nil {
			s.logger.Error(ctx, "storing preference id failed", err)
			return result, nil
		}
		result.PreferenceID = pref.ID
		result.InitPoint = pref.InitPoint
	}
	return result, nil
}
