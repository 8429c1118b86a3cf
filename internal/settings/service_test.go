package settings

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/veranievas/floralia-backend/pkg/db/models"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
)

type stubSettingsRepo struct {
	current  *models.StoreSetting
	appended []*models.StoreSetting
	findErr  error
}

func (s *stubSettingsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubSettingsRepo) FindCurrent(ctx context.Context, key string) (*models.StoreSetting, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.current == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.current, nil
}

func (s *stubSettingsRepo) AppendVersion(ctx context.Context, setting *models.StoreSetting) error {
	s.appended = append(s.appended, setting)
	s.current = setting
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func TestCurrentTaxRateFallsBackToDefault(t *testing.T) {
	svc, err := NewService(&stubSettingsRepo{}, stubTxRunner{}, decimal.RequireFromString("0.16"))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	rate, err := svc.CurrentTaxRate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("0.16")) {
		t.Fatalf("expected default rate, got %s", rate)
	}
}

func TestCurrentTaxRateReadsStoredValue(t *testing.T) {
	repo := &stubSettingsRepo{current: &models.StoreSetting{Key: models.SettingTaxRate, Version: 2, Value: "0.08"}}
	svc, err := NewService(repo, stubTxRunner{}, decimal.RequireFromString("0.16"))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	rate, err := svc.CurrentTaxRate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("0.08")) {
		t.Fatalf("expected stored rate, got %s", rate)
	}
}

func TestSetTaxRateAppendsNextVersion(t *testing.T) {
	repo := &stubSettingsRepo{current: &models.StoreSetting{Key: models.SettingTaxRate, Version: 3, Value: "0.16"}}
	svc, err := NewService(repo, stubTxRunner{}, decimal.RequireFromString("0.16"))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.SetTaxRate(context.Background(), decimal.RequireFromString("0.08")); err != nil {
		t.Fatalf("set tax rate: %v", err)
	}

	if len(repo.appended) != 1 {
		t.Fatalf("expected one append, got %d", len(repo.appended))
	}
	if repo.appended[0].Version != 4 {
		t.Fatalf("expected version 4, got %d", repo.appended[0].Version)
	}
	if repo.appended[0].Value != "0.08" {
		t.Fatalf("unexpected value %s", repo.appended[0].Value)
	}
}

func TestSetTaxRateRejectsOutOfRange(t *testing.T) {
	svc, err := NewService(&stubSettingsRepo{}, stubTxRunner{}, decimal.RequireFromString("0.16"))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	for _, raw := range []string{"-0.01", "1", "1.5"} {
		err := svc.SetTaxRate(context.Background(), decimal.RequireFromString(raw))
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %s, got %v", raw, err)
		}
	}
}
