package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/domain/workforce"
)

// GormTimeEntryRepository implements workforce.TimeEntryRepository using GORM
type GormTimeEntryRepository struct {
	db *gorm.DB
}

// NewGormTimeEntryRepository creates a new GormTimeEntryRepository
func NewGormTimeEntryRepository(db *gorm.DB) *GormTimeEntryRepository {
	return &GormTimeEntryRepository{db: db}
}

// Save persists a time entry
func (r *GormTimeEntryRepository) Save(ctx context.Context, e *workforce.TimeEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// FindByID finds a time entry by its ID
func (r *GormTimeEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.TimeEntry, error) {
	var e workforce.TimeEntry
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindByStaffAndDate returns all entries a staff member logged on a calendar day
func (r *GormTimeEntryRepository) FindByStaffAndDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]*workforce.TimeEntry, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return r.findRange(ctx, staffID, day, day.AddDate(0, 0, 1))
}

// FindByStaffAndRange returns entries a staff member logged in [from, to)
func (r *GormTimeEntryRepository) FindByStaffAndRange(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*workforce.TimeEntry, error) {
	return r.findRange(ctx, staffID, from, to)
}

func (r *GormTimeEntryRepository) findRange(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*workforce.TimeEntry, error) {
	var entries []*workforce.TimeEntry
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND entry_date >= ? AND entry_date < ?", staffID, from, to).
		Order("entry_date ASC, created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByJob returns all time logged against a job
func (r *GormTimeEntryRepository) FindByJob(ctx context.Context, jobID uuid.UUID) ([]*workforce.TimeEntry, error) {
	var entries []*workforce.TimeEntry
	if err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("entry_date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes a time entry
func (r *GormTimeEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&workforce.TimeEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ workforce.TimeEntryRepository = (*GormTimeEntryRepository)(nil)
