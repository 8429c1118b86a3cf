package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veranievas/floralia-backend/pkg/enums"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
)

// Service serves locale-resolved catalog reads.
type Service interface {
	ListProducts(ctx context.Context, locale enums.Locale) ([]ProductView, error)
	GetProduct(ctx context.Context, id uuid.UUID, locale enums.Locale) (*ProductView, error)
}

type service struct {
	repo Repository
}

// NewService builds the catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context, locale enums.Locale) ([]ProductView, error) {
	products, err := s.repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, NewProductView(product, locale))
	}
	return views, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID, locale enums.Locale) (*ProductView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	view := NewProductView(*product, locale)
	return &view, nil
}
