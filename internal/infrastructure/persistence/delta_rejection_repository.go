package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabworks/backend/internal/domain/job"
	"github.com/fabworks/backend/internal/domain/shared"
)

// GormDeltaRejectionRepository implements job.DeltaRejectionRepository using GORM
type GormDeltaRejectionRepository struct {
	db *gorm.DB
}

// NewGormDeltaRejectionRepository creates a new GormDeltaRejectionRepository
func NewGormDeltaRejectionRepository(db *gorm.DB) *GormDeltaRejectionRepository {
	return &GormDeltaRejectionRepository{db: db}
}

// Save persists a rejected delta
func (r *GormDeltaRejectionRepository) Save(ctx context.Context, rej *job.DeltaRejection) error {
	return r.db.WithContext(ctx).Save(rej).Error
}

// FindByJob returns the rejection history for a job, newest first
func (r *GormDeltaRejectionRepository) FindByJob(ctx context.Context, jobID uuid.UUID, filter shared.Filter) (shared.Paginated[*job.DeltaRejection], error) {
	var rejections []*job.DeltaRejection
	var total int64

	query := r.db.WithContext(ctx).Model(&job.DeltaRejection{}).
		Where("job_id = ?", jobID)

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*job.DeltaRejection]{}, err
	}

	query = query.Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&rejections).Error; err != nil {
		return shared.Paginated[*job.DeltaRejection]{}, err
	}
	return shared.NewPaginated(rejections, total, filter.Page, filter.PageSize), nil
}

// DeleteOlderThan removes rejections recorded before the cutoff and returns
// how many were deleted
func (r *GormDeltaRejectionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&job.DeltaRejection{})
	return result.RowsAffected, result.Error
}

var _ job.DeltaRejectionRepository = (*GormDeltaRejectionRepository)(nil)
