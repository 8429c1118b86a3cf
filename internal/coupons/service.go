package coupons

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/veranievas/floralia-backend/pkg/db"
	"github.com/veranievas/floralia-backend/pkg/db/models"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
)

// Welcome code shape: FLOR-XXXXXX. Same no-ambiguity alphabet as order
// references since customers read these aloud.
const (
	codePrefix    = "FLOR"
	codeAlphabet  = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	codeSuffixLen = 6
)

// Options fix the welcome coupon terms at service construction.
type Options struct {
	Percent decimal.Decimal
	TTL     time.Duration
}

// Service issues and validates welcome coupons. Redemption is not exposed
// here; only webhook reconciliation redeems, through the repository guard.
type Service interface {
	EnsureWelcome(ctx context.Context, userID uuid.UUID) (*models.Coupon, error)
	Validate(ctx context.Context, code string, userID uuid.UUID) (*models.Coupon, error)
}

type service struct {
	repo Repository
	opts Options
	now  func() time.Time
}

// NewService builds the coupons service.
func NewService(repo Repository, opts Options) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupons repository required")
	}
	if opts.Percent.LessThanOrEqual(decimal.Zero) || opts.Percent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("welcome percent must be in (0, 100]")
	}
	if opts.TTL <= 0 {
		return nil, fmt.Errorf("welcome ttl must be positive")
	}
	return &service{repo: repo, opts: opts, now: time.Now}, nil
}

// EnsureWelcome returns the caller's coupon, creating it on first fetch. The
// unique user_id constraint settles races between concurrent first fetches.
func (s *service) EnsureWelcome(ctx context.Context, userID uuid.UUID) (*models.Coupon, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	existing, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	code, err := newCode()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate coupon code")
	}
	coupon := &models.Coupon{
		Code:      code,
		UserID:    userID,
		Percent:   s.opts.Percent,
		ExpiresAt: s.now().Add(s.opts.TTL),
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		if db.IsUniqueViolation(err, "uq_coupons_user_id") {
			if existing, findErr := s.repo.FindByUserID(ctx, userID); findErr == nil {
				return existing, nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}
	return coupon, nil
}

// Validate checks an explicit code for the given user. Unknown, foreign,
// redeemed, and expired codes are each rejected with their own error code so
// the storefront can localize the message.
func (s *service) Validate(ctx context.Context, code string, userID uuid.UUID) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code required")
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to use coupons")
	}
	if coupon.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "coupon belongs to another account")
	}
	if coupon.IsRedeemed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "coupon already redeemed")
	}
	if !s.now().Before(coupon.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "coupon expired")
	}
	return coupon, nil
}

func newCode() (string, error) {
	suffix := make([]byte, codeSuffixLen)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("reading randomness: %w", err)
		}
		suffix[i] = codeAlphabet[n.Int64()]
	}
	return codePrefix + "-" + string(suffix), nil
}
