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

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Save persists an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, i *billing.Invoice) error {
	return r.db.WithContext(ctx).Save(i).Error
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var i billing.Invoice
	if err := r.db.WithContext(ctx).First(&i, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

// FindByNumber finds an invoice by its document number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	var i billing.Invoice
	if err := r.db.WithContext(ctx).First(&i, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

// FindByJob returns all invoices raised against a job, newest first
func (r *GormInvoiceRepository) FindByJob(ctx context.Context, jobID uuid.UUID) ([]*billing.Invoice, error) {
	var invoices []*billing.Invoice
	if err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindAll finds invoices with filtering, search and pagination
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*billing.Invoice], error) {
	var invoices []*billing.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&billing.Invoice{})

	if filter.Search != "" {
		query = query.Where("number LIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "job_id":
			query = query.Where("job_id = ?", value)
		case "paid":
			query = query.Where("paid = ?", value)
		case "sync_status":
			query = query.Where("sync_status = ?", value)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*billing.Invoice]{}, err
	}

	query = applySortAndPage(query, filter, InvoiceSortFields)
	if err := query.Find(&invoices).Error; err != nil {
		return shared.Paginated[*billing.Invoice]{}, err
	}
	return shared.NewPaginated(invoices, total, filter.Page, filter.PageSize), nil
}

// FindAuthorisedUnpaid returns authorised invoices not yet marked paid,
// the candidates for paid-flag reconciliation
func (r *GormInvoiceRepository) FindAuthorisedUnpaid(ctx context.Context) ([]*billing.Invoice, error) {
	var invoices []*billing.Invoice
	if err := r.db.WithContext(ctx).
		Where("status = ? AND paid = ?", billing.InvoiceAuthorised, false).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// CountByYear counts invoices created in a given year
func (r *GormInvoiceRepository) CountByYear(ctx context.Context, year int) (int64, error) {
	var count int64
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	if err := r.db.WithContext(ctx).Model(&billing.Invoice{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
