package favorites

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/veranievas/floralia-backend/pkg/db/models"
)

func setupFavoritesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  name_es TEXT NOT NULL,
  name_en TEXT NOT NULL,
  description_es TEXT NOT NULL DEFAULT '',
  description_en TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	variants := `
CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  label_es TEXT NOT NULL,
  label_en TEXT NOT NULL,
  price NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'MXN',
  available INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	favorites := `
CREATE TABLE IF NOT EXISTS favorite_items (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (user_id, product_id)
);`

	for _, stmt := range []string{products, variants, favorites} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedFavoriteProduct(t *testing.T, db *gorm.DB) models.Product {
	t.Helper()

	product := models.Product{
		ID:     uuid.New(),
		Slug:   "ramo-" + uuid.NewString()[:8],
		NameEs: "Ramo de rosas",
		NameEn: "Rose bouquet",
		Active: true,
	}
	require.NoError(t, db.Omit("Variants").Create(&product).Error)
	return product
}

func TestAddItemIgnoresDuplicates(t *testing.T) {
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	product := seedFavoriteProduct(t, db)

	require.NoError(t, repo.AddItem(ctx, userID, product.ID))
	require.NoError(t, repo.AddItem(ctx, userID, product.ID))

	items, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestAddItemRejectsNilIDs(t *testing.T) {
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)

	assert.Error(t, repo.AddItem(context.Background(), uuid.Nil, uuid.New()))
	assert.Error(t, repo.AddItem(context.Background(), uuid.New(), uuid.Nil))
}

func TestRemoveItem(t *testing.T) {
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	product := seedFavoriteProduct(t, db)
	require.NoError(t, repo.AddItem(ctx, userID, product.ID))

	require.NoError(t, repo.RemoveItem(ctx, userID, product.ID))

	items, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Removing an absent favorite is a no-op.
	require.NoError(t, repo.RemoveItem(ctx, userID, product.ID))
}

func TestListByUserScopesAndPreloads(t *testing.T) {
	db := setupFavoritesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	otherUser := uuid.New()
	first := seedFavoriteProduct(t, db)
	second := seedFavoriteProduct(t, db)

	require.NoError(t, repo.AddItem(ctx, userID, first.ID))
	require.NoError(t, repo.AddItem(ctx, userID, second.ID))
	require.NoError(t, repo.AddItem(ctx, otherUser, first.ID))

	items, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		require.NotNil(t, item.Product)
		assert.Equal(t, item.ProductID, item.Product.ID)
	}
}
