package favorites

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/veranievas/floralia-backend/internal/catalog"
	"github.com/veranievas/floralia-backend/pkg/db/models"
	"github.com/veranievas/floralia-backend/pkg/enums"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
)

type stubFavoritesRepo struct {
	added   [][2]uuid.UUID
	removed [][2]uuid.UUID
	rows    []models.FavoriteItem
}

func (s *stubFavoritesRepo) AddItem(ctx context.Context, userID, productID uuid.UUID) error {
	s.added = append(s.added, [2]uuid.UUID{userID, productID})
	return nil
}

func (s *stubFavoritesRepo) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	s.removed = append(s.removed, [2]uuid.UUID{userID, productID})
	return nil
}

func (s *stubFavoritesRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FavoriteItem, error) {
	return s.rows, nil
}

type stubCatalogRepo struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) catalog.Repository { return s }

func (s *stubCatalogRepo) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	return nil, nil
}

func (s *stubCatalogRepo) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubCatalogRepo) FindVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error) {
	return nil, gorm.ErrRecordNotFound
}

func expectFavoritesCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if appErr.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, appErr.Code(), err)
	}
}

func TestAddRequiresAuthAndKnownProduct(t *testing.T) {
	product := &models.Product{ID: uuid.New(), NameEs: "Girasoles", Active: true}
	repo := &stubFavoritesRepo{}
	svc, err := NewService(repo, &stubCatalogRepo{products: map[uuid.UUID]*models.Product{product.ID: product}})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	err = svc.Add(context.Background(), uuid.Nil, product.ID)
	expectFavoritesCode(t, err, pkgerrors.CodeUnauthorized)

	err = svc.Add(context.Background(), uuid.New(), uuid.New())
	expectFavoritesCode(t, err, pkgerrors.CodeNotFound)

	if err := svc.Add(context.Background(), uuid.New(), product.ID); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if len(repo.added) != 1 {
		t.Fatalf("expected one repo add, got %d", len(repo.added))
	}
}

func TestListResolvesLocale(t *testing.T) {
	product := &models.Product{ID: uuid.New(), NameEs: "Girasoles", NameEn: "Sunflowers", Active: true}
	repo := &stubFavoritesRepo{rows: []models.FavoriteItem{{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		ProductID: product.ID,
		Product:   product,
		CreatedAt: time.Now(),
	}}}
	svc, err := NewService(repo, &stubCatalogRepo{})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	items, err := svc.List(context.Background(), uuid.New(), enums.LocaleEnglish)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 1 || items[0].Product.Name != "Sunflowers" {
		t.Fatalf("expected english product name, got %+v", items)
	}

	_, err = svc.List(context.Background(), uuid.Nil, enums.LocaleSpanish)
	expectFavoritesCode(t, err, pkgerrors.CodeUnauthorized)
}
