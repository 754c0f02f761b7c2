package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabworks/backend/internal/domain/job"
	"github.com/fabworks/backend/internal/domain/shared"
)

// GormJobRepository implements job.Repository using GORM
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new GormJobRepository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// Save creates or updates a job together with its assignments
func (r *GormJobRepository) Save(ctx context.Context, j *job.Job) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("People").Save(j).Error; err != nil {
			return err
		}
		return r.syncAssignments(tx, j)
	})
}

// SaveWithLock saves with optimistic locking. The caller holds the version
// it loaded; if someone saved in between, RowsAffected is 0 and the save is
// rejected.
func (r *GormJobRepository) SaveWithLock(ctx context.Context, j *job.Job) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := j.Version
		j.Version++
		j.UpdatedAt = time.Now()

		result := tx.Model(&job.Job{}).
			Where("id = ? AND version = ?", j.GetID(), currentVersion).
			Updates(map[string]interface{}{
				"name":                j.Name,
				"client_id":           j.ClientID,
				"client_contact":      j.ClientContact,
				"description":         j.Description,
				"order_number":        j.OrderNumber,
				"notes":               j.Notes,
				"pricing":             j.Pricing,
				"status":              j.Status,
				"delivery_date":       j.DeliveryDate,
				"quote_accepted_at":   j.QuoteAcceptedAt,
				"paused":              j.Paused,
				"rejected_reason":     j.RejectedReason,
				"complexity":          j.Complexity,
				"latest_estimate_rev": j.LatestEstimateRev,
				"latest_quote_rev":    j.LatestQuoteRev,
				"latest_actual_rev":   j.LatestActualRev,
				"version":             j.Version,
				"updated_at":          j.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			j.Version = currentVersion
			return shared.ErrConcurrencyConflict
		}
		return r.syncAssignments(tx, j)
	})
}

func (r *GormJobRepository) syncAssignments(tx *gorm.DB, j *job.Job) error {
	currentIDs := make([]uuid.UUID, len(j.People))
	for i, a := range j.People {
		currentIDs[i] = a.ID
	}
	q := tx.Where("job_id = ?", j.GetID())
	if len(currentIDs) > 0 {
		q = q.Where("id NOT IN ?", currentIDs)
	}
	if err := q.Delete(&job.Assignment{}).Error; err != nil {
		return err
	}
	for i := range j.People {
		j.People[i].JobID = j.GetID()
		if err := tx.Save(&j.People[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID finds a job by its ID
func (r *GormJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	var j job.Job
	if err := r.db.WithContext(ctx).
		Preload("People").
		First(&j, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

// FindByNumber finds a job by its job number
func (r *GormJobRepository) FindByNumber(ctx context.Context, number string) (*job.Job, error) {
	var j job.Job
	if err := r.db.WithContext(ctx).
		Preload("People").
		First(&j, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

// FindAll finds jobs with filtering, search and pagination
func (r *GormJobRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*job.Job], error) {
	var jobs []*job.Job
	var total int64

	query := r.db.WithContext(ctx).Model(&job.Job{})
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*job.Job]{}, err
	}

	query = applySortAndPage(query, filter, JobSortFields)
	if err := query.Preload("People").Find(&jobs).Error; err != nil {
		return shared.Paginated[*job.Job]{}, err
	}
	return shared.NewPaginated(jobs, total, filter.Page, filter.PageSize), nil
}

// FindByStatus finds all jobs in a given status
func (r *GormJobRepository) FindByStatus(ctx context.Context, status job.JobStatus) ([]*job.Job, error) {
	var jobs []*job.Job
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindRecentlyCompletedBefore finds recently completed jobs whose completion
// predates the cutoff, for archival
func (r *GormJobRepository) FindRecentlyCompletedBefore(ctx context.Context, cutoff time.Time) ([]*job.Job, error) {
	var jobs []*job.Job
	if err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", job.StatusRecentlyCompleted, cutoff).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// CountByYear counts jobs created in a given year
func (r *GormJobRepository) CountByYear(ctx context.Context, year int) (int64, error) {
	var count int64
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	if err := r.db.WithContext(ctx).Model(&job.Job{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReassignClient repoints all jobs from one client to another, used when
// duplicate clients are merged. Returns the number of jobs moved.
func (r *GormJobRepository) ReassignClient(ctx context.Context, fromClientID, toClientID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&job.Job{}).
		Where("client_id = ?", fromClientID).
		Update("client_id", toClientID)
	return result.RowsAffected, result.Error
}

// Delete removes a job and its assignments
func (r *GormJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&job.Assignment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&job.Job{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormJobRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number LIKE ? OR name LIKE ? OR order_number LIKE ?",
			pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "paused":
			query = query.Where("paused = ?", value)
		case "pricing":
			query = query.Where("pricing = ?", value)
		}
	}
	return query
}

// applySortAndPage applies whitelisted ordering and pagination to a query
func applySortAndPage(query *gorm.DB, filter shared.Filter, sortFields map[string]string) *gorm.DB {
	col := ValidateSortField(filter.OrderBy, sortFields, "created_at")
	query = query.Order(col + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

var _ job.Repository = (*GormJobRepository)(nil)
