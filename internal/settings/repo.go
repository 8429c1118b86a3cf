package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/veranievas/floralia-backend/pkg/db/models"
)

// Repository reads and appends versioned store settings. Values are never
// updated in place; each write inserts the next version for its key.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindCurrent(ctx context.Context, key string) (*models.StoreSetting, error)
	AppendVersion(ctx context.Context, setting *models.StoreSetting) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindCurrent(ctx context.Context, key string) (*models.StoreSetting, error) {
	var setting models.StoreSetting
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		Order("version DESC").
		First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *repository) AppendVersion(ctx context.Context, setting *models.StoreSetting) error {
	return r.db.WithContext(ctx).Create(setting).Error
}
