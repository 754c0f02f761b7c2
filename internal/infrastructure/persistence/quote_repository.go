package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabworks/backend/internal/domain/billing"
	"github.com/fabworks/backend/internal/domain/shared"
)

// GormQuoteRepository implements billing.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// Save persists a quote
func (r *GormQuoteRepository) Save(ctx context.Context, q *billing.Quote) error {
	return r.db.WithContext(ctx).Save(q).Error
}

// FindByID finds a quote by its ID
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Quote, error) {
	var q billing.Quote
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindByNumber finds a quote by its document number
func (r *GormQuoteRepository) FindByNumber(ctx context.Context, number string) (*billing.Quote, error) {
	var q billing.Quote
	if err := r.db.WithContext(ctx).First(&q, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindByJob returns all quotes raised against a job, newest first
func (r *GormQuoteRepository) FindByJob(ctx context.Context, jobID uuid.UUID) ([]*billing.Quote, error) {
	var quotes []*billing.Quote
	if err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// FindAll finds quotes with filtering, search and pagination
func (r *GormQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*billing.Quote], error) {
	var quotes []*billing.Quote
	var total int64

	query := r.db.WithContext(ctx).Model(&billing.Quote{})

	if filter.Search != "" {
		query = query.Where("number LIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "job_id":
			query = query.Where("job_id = ?", value)
		case "sync_status":
			query = query.Where("sync_status = ?", value)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*billing.Quote]{}, err
	}

	query = applySortAndPage(query, filter, QuoteSortFields)
	if err := query.Find(&quotes).Error; err != nil {
		return shared.Paginated[*billing.Quote]{}, err
	}
	return shared.NewPaginated(quotes, total, filter.Page, filter.PageSize), nil
}

// CountByYear counts quotes created in a given year
func (r *GormQuoteRepository) CountByYear(ctx context.Context, year int) (int64, error) {
	var count int64
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	if err := r.db.WithContext(ctx).Model(&billing.Quote{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ billing.QuoteRepository = (*GormQuoteRepository)(nil)
