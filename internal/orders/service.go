package orders

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/veranievas/floralia-backend/pkg/db/models"
	"github.com/veranievas/floralia-backend/pkg/enums"
	pkgerrors "github.com/veranievas/floralia-backend/pkg/errors"
	"github.com/veranievas/floralia-backend/pkg/logger"
	"github.com/veranievas/floralia-backend/pkg/pagination"
	"github.com/veranievas/floralia-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PhotoStorage uploads delivery photo bytes and returns a public URL.
type PhotoStorage interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, data []byte) (string, error)
}

// Service exposes order reads and the admin fulfillment operations.
type Service interface {
	GetByReference(ctx context.Context, reference string) (*Detail, error)
	ListPaid(ctx context.Context, params pagination.Params) (*List, error)
	AdvanceStage(ctx context.Context, reference string, target enums.OrderStage) (*Detail, error)
	AttachPhotos(ctx context.Context, reference string, photos []PhotoUpload) ([]string, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	storage PhotoStorage
	bucket  string
	logger  *logger.Logger
}

// NewService builds the orders service. storage may be nil when photo upload
// is disabled; AttachPhotos then fails with a dependency error.
func NewService(repo Repository, tx txRunner, storage PhotoStorage, bucket string, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		storage: storage,
		bucket:  bucket,
		logger:  logg,
	}, nil
}

func (s *service) GetByReference(ctx context.Context, reference string) (*Detail, error) {
	order, err := s.loadOrder(ctx, reference)
	if err != nil {
		return nil, err
	}
	detail := newDetail(order)
	return &detail, nil
}

func (s *service) ListPaid(ctx context.Context, params pagination.Params) (*List, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListByStatus(ctx, enums.OrderStatusPaid, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list paid orders")
	}

	list := &List{Orders: make([]Detail, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		list.Orders = append(list.Orders, newDetail(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func (s *service) AdvanceStage(ctx context.Context, reference string, target enums.OrderStage) (*Detail, error) {
	if !target.IsValid() || target == enums.OrderStageNew {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid target stage")
	}
	eventType, err := stageEvent(target)
	if err != nil {
		return nil, err
	}

	var detail *Detail
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByReference(ctx, reference)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status != enums.OrderStatusPaid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not paid")
		}

		current := StageOf(order.Events)
		if !current.CanAdvance(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot advance from %s to %s", current, target))
		}

		inserted, err := repo.AppendEventIfAbsent(ctx, order.ID, eventType, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append stage event")
		}
		if !inserted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "stage already recorded")
		}

		refreshed, err := repo.FindByReference(ctx, reference)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		d := newDetail(refreshed)
		detail = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *service) AttachPhotos(ctx context.Context, reference string, photos []PhotoUpload) ([]string, error) {
	if len(photos) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one photo required")
	}
	if s.storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "photo storage not configured")
	}

	order, err := s.loadOrder(ctx, reference)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not paid")
	}

	ctx = s.logger.WithOrderRef(ctx, order.Reference)

	var uploadErr error
	urls := make([]string, 0, len(photos))
	for _, photo := range photos {
		object := photoObjectKey(order.Reference, photo.Filename)
		url, err := s.storage.UploadObject(ctx, s.bucket, object, photo.ContentType, photo.Data)
		if err != nil {
			uploadErr = multierr.Append(uploadErr, fmt.Errorf("upload %s: %w", photo.Filename, err))
			continue
		}
		urls = append(urls, url)
	}
	if len(urls) == 0 {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, uploadErr, "upload delivery photos")
	}
	if uploadErr != nil {
		s.logger.Warn(ctx, "some delivery photos failed to upload")
	}

	event := &models.OrderEvent{
		ID:       uuid.New(),
		OrderID:  order.ID,
		Type:     enums.OrderEventPhotoAdded,
		Metadata: types.JSONMap{"urls": urls},
	}
	if err := s.repo.AppendEvent(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record photo event")
	}
	return urls, nil
}

func (s *service) loadOrder(ctx context.Context, reference string) (*models.Order, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order reference required")
	}
	row, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return row, nil
}

func stageEvent(stage enums.OrderStage) (enums.OrderEventType, error) {
	switch stage {
	case enums.OrderStagePreparing:
		return enums.OrderEventPreparing, nil
	case enums.OrderStageReady:
		return enums.OrderEventReady, nil
	case enums.OrderStageDelivered:
		return enums.OrderEventDelivered, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid target stage")
	}
}

func photoObjectKey(reference, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("orders/%s/%s%s", reference, uuid.NewString(), ext)
}
