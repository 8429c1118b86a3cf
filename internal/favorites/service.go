package favorites

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/veranievas/floralia-backend/internal/catalog"
	"github.com/veranievas/floralia-backend/pkg/enums"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
)

// Item is one favorite with its locale-resolved product attached.
type Item struct {
	ProductID uuid.UUID           `json:"product_id"`
	Product   catalog.ProductView `json:"product"`
	AddedAt   time.Time           `json:"added_at"`
}

// Service manages per-user favorites. Every operation requires an
// authenticated user; guests keep favorites client-side.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, locale enums.Locale) ([]Item, error)
}

type service struct {
	repo    Repository
	catalog catalog.Repository
}

// NewService builds the favorites service.
func NewService(repo Repository, catalogRepo catalog.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("favorites repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, catalog: catalogRepo}, nil
}

func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to save favorites")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if _, err := s.catalog.FindProductByID(ctx, productID); err != nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err := s.repo.AddItem(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to save favorites")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, locale enums.Locale) ([]Item, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to save favorites")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		item := Item{ProductID: row.ProductID, AddedAt: row.CreatedAt}
		if row.Product != nil {
			item.Product = catalog.NewProductView(*row.Product, locale)
		}
		items = append(items, item)
	}
	return items, nil
}
