package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/domain/workforce"
)

// GormStaffRepository implements workforce.StaffRepository using GORM
type GormStaffRepository struct {
	db *gorm.DB
}

// NewGormStaffRepository creates a new GormStaffRepository
func NewGormStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

// Save persists a staff member
func (r *GormStaffRepository) Save(ctx context.Context, s *workforce.Staff) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// FindByID finds a staff member by their ID
func (r *GormStaffRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.Staff, error) {
	var s workforce.Staff
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByEmail finds a staff member by email, case-insensitive
func (r *GormStaffRepository) FindByEmail(ctx context.Context, email string) (*workforce.Staff, error) {
	var s workforce.Staff
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).First(&s, "email = ?", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll finds staff with filtering, search and pagination
func (r *GormStaffRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*workforce.Staff], error) {
	var staff []*workforce.Staff
	var total int64

	query := r.db.WithContext(ctx).Model(&workforce.Staff{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}
	if v, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", v)
	}

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*workforce.Staff]{}, err
	}

	query = applySortAndPage(query, filter, StaffSortFields)
	if err := query.Find(&staff).Error; err != nil {
		return shared.Paginated[*workforce.Staff]{}, err
	}
	return shared.NewPaginated(staff, total, filter.Page, filter.PageSize), nil
}

var _ workforce.StaffRepository = (*GormStaffRepository)(nil)
