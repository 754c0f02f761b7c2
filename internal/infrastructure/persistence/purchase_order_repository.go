package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabworks/backend/internal/domain/purchasing"
	"github.com/fabworks/backend/internal/domain/shared"
)

// GormPurchaseOrderRepository implements purchasing.Repository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// Save persists a purchase order together with its lines. Lines removed from
// the order are deleted.
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *purchasing.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(po).Error; err != nil {
			return err
		}

		currentIDs := make([]uuid.UUID, len(po.Lines))
		for i, l := range po.Lines {
			currentIDs[i] = l.ID
		}
		q := tx.Where("purchase_order_id = ?", po.GetID())
		if len(currentIDs) > 0 {
			q = q.Where("id NOT IN ?", currentIDs)
		}
		if err := q.Delete(&purchasing.PurchaseOrderLine{}).Error; err != nil {
			return err
		}

		for i := range po.Lines {
			po.Lines[i].PurchaseOrderID = po.GetID()
			if err := tx.Save(&po.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a purchase order by its ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var po purchasing.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&po, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindByNumber finds a purchase order by its document number
func (r *GormPurchaseOrderRepository) FindByNumber(ctx context.Context, number string) (*purchasing.PurchaseOrder, error) {
	var po purchasing.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&po, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &po, nil
}

// FindAll finds purchase orders with filtering, search and pagination
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*purchasing.PurchaseOrder], error) {
	var orders []*purchasing.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number LIKE ? OR supplier_name LIKE ? OR reference LIKE ?",
			pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier_name":
			query = query.Where("supplier_name = ?", value)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*purchasing.PurchaseOrder]{}, err
	}

	query = applySortAndPage(query, filter, PurchaseOrderSortFields)
	if err := query.Preload("Lines").Find(&orders).Error; err != nil {
		return shared.Paginated[*purchasing.PurchaseOrder]{}, err
	}
	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

// FindByJob returns purchase orders with at least one line allocated to a job
func (r *GormPurchaseOrderRepository) FindByJob(ctx context.Context, jobID uuid.UUID) ([]*purchasing.PurchaseOrder, error) {
	var orders []*purchasing.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id IN (?)", r.db.Model(&purchasing.PurchaseOrderLine{}).
			Select("purchase_order_id").
			Where("job_id = ?", jobID)).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountByYear counts purchase orders created in a given year
func (r *GormPurchaseOrderRepository) CountByYear(ctx context.Context, year int) (int64, error) {
	var count int64
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	if err := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ purchasing.Repository = (*GormPurchaseOrderRepository)(nil)
