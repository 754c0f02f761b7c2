package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabworks/backend/internal/domain/accounting"
	"github.com/fabworks/backend/internal/domain/shared"
)

// GormAppErrorRepository implements accounting.Repository using GORM
type GormAppErrorRepository struct {
	db *gorm.DB
}

// NewGormAppErrorRepository creates a new GormAppErrorRepository
func NewGormAppErrorRepository(db *gorm.DB) *GormAppErrorRepository {
	return &GormAppErrorRepository{db: db}
}

// Save persists an error record
func (r *GormAppErrorRepository) Save(ctx context.Context, e *accounting.AppError) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// FindByID finds an error record by its ID
func (r *GormAppErrorRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.AppError, error) {
	var e accounting.AppError
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindAll finds error records with filtering, search and pagination
func (r *GormAppErrorRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*accounting.AppError], error) {
	var records []*accounting.AppError
	var total int64

	query := r.db.WithContext(ctx).Model(&accounting.AppError{})

	if filter.Search != "" {
		query = query.Where("message LIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "severity":
			query = query.Where("severity = ?", value)
		case "resolved":
			query = query.Where("resolved = ?", value)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*accounting.AppError]{}, err
	}

	query = applySortAndPage(query, filter, AppErrorSortFields)
	if err := query.Find(&records).Error; err != nil {
		return shared.Paginated[*accounting.AppError]{}, err
	}
	return shared.NewPaginated(records, total, filter.Page, filter.PageSize), nil
}

// CountUnresolved counts error records not yet resolved
func (r *GormAppErrorRepository) CountUnresolved(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&accounting.AppError{}).
		Where("resolved = ?", false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteResolvedOlderThan prunes resolved records older than the cutoff and
// returns how many were deleted
func (r *GormAppErrorRepository) DeleteResolvedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("resolved = ? AND updated_at < ?", true, cutoff).
		Delete(&accounting.AppError{})
	return result.RowsAffected, result.Error
}

var _ accounting.Repository = (*GormAppErrorRepository)(nil)
