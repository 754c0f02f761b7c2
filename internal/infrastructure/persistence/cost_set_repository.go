package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabworks/backend/internal/domain/job"
	"github.com/fabworks/backend/internal/domain/shared"
)

// GormCostSetRepository implements job.CostSetRepository using GORM
type GormCostSetRepository struct {
	db *gorm.DB
}

// NewGormCostSetRepository creates a new GormCostSetRepository
func NewGormCostSetRepository(db *gorm.DB) *GormCostSetRepository {
	return &GormCostSetRepository{db: db}
}

// Save persists a cost set together with its lines. Lines removed from the
// set are deleted.
func (r *GormCostSetRepository) Save(ctx context.Context, cs *job.CostSet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(cs).Error; err != nil {
			return err
		}

		currentIDs := make([]uuid.UUID, len(cs.Lines))
		for i, l := range cs.Lines {
			currentIDs[i] = l.ID
		}
		q := tx.Where("cost_set_id = ?", cs.GetID())
		if len(currentIDs) > 0 {
			q = q.Where("id NOT IN ?", currentIDs)
		}
		if err := q.Delete(&job.CostLine{}).Error; err != nil {
			return err
		}

		for i := range cs.Lines {
			cs.Lines[i].CostSetID = cs.GetID()
			if err := tx.Save(&cs.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a cost set by its ID
func (r *GormCostSetRepository) FindByID(ctx context.Context, id uuid.UUID) (*job.CostSet, error) {
	var cs job.CostSet
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&cs, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cs, nil
}

// FindByJobKindRev finds a specific revision of a cost set
func (r *GormCostSetRepository) FindByJobKindRev(ctx context.Context, jobID uuid.UUID, kind job.CostSetKind, rev int) (*job.CostSet, error) {
	var cs job.CostSet
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&cs, "job_id = ? AND kind = ? AND rev = ?", jobID, kind, rev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cs, nil
}

// FindLatest finds the highest revision of a cost set kind for a job
func (r *GormCostSetRepository) FindLatest(ctx context.Context, jobID uuid.UUID, kind job.CostSetKind) (*job.CostSet, error) {
	var cs job.CostSet
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("job_id = ? AND kind = ?", jobID, kind).
		Order("rev DESC").
		First(&cs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cs, nil
}

// FindByJob returns all cost sets for a job, ordered by kind then revision
func (r *GormCostSetRepository) FindByJob(ctx context.Context, jobID uuid.UUID) ([]*job.CostSet, error) {
	var sets []*job.CostSet
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("job_id = ?", jobID).
		Order("kind ASC, rev ASC").
		Find(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

var _ job.CostSetRepository = (*GormCostSetRepository)(nil)
