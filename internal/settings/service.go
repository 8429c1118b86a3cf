package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/veranievas/floralia-backend/pkg/db/models"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the store-wide settings the checkout flow depends on.
type Service interface {
	CurrentTaxRate(ctx context.Context) (decimal.Decimal, error)
	SetTaxRate(ctx context.Context, rate decimal.Decimal) error
}

type service struct {
	repo        Repository
	tx          txRunner
	defaultRate decimal.Decimal
}

// NewService builds the settings service. defaultRate backstops reads before
// the first setting row exists.
func NewService(repo Repository, tx txRunner, defaultRate decimal.Decimal) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if defaultRate.IsNegative() || defaultRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("default tax rate must be in [0, 1)")
	}
	return &service{repo: repo, tx: tx, defaultRate: defaultRate}, nil
}

func (s *service) CurrentTaxRate(ctx context.Context) (decimal.Decimal, error) {
	setting, err := s.repo.FindCurrent(ctx, models.SettingTaxRate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.defaultRate, nil
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tax rate setting")
	}
	rate, err := decimal.NewFromString(setting.Value)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse stored tax rate")
	}
	return rate, nil
}

func (s *service) SetTaxRate(ctx context.Context, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be in [0, 1)")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		version := 1
		current, err := repo.FindCurrent(ctx, models.SettingTaxRate)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current tax rate")
		}
		if current != nil {
			version = current.Version + 1
		}

		setting := &models.StoreSetting{
			Key:     models.SettingTaxRate,
			Version: version,
			Value:   rate.String(),
		}
		if err := repo.AppendVersion(ctx, setting); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append tax rate version")
		}
		return nil
	})
}
