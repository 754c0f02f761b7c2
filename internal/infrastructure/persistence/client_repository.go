package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fabworks/backend/internal/domain/partner"
	"github.com/fabworks/backend/internal/domain/shared"
)

// GormClientRepository implements partner.Repository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// Save persists a client together with its contacts
func (r *GormClientRepository) Save(ctx context.Context, c *partner.Client) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Contacts").Save(c).Error; err != nil {
			return err
		}

		currentIDs := make([]uuid.UUID, len(c.Contacts))
		for i, ct := range c.Contacts {
			currentIDs[i] = ct.ID
		}
		q := tx.Where("client_id = ?", c.GetID())
		if len(currentIDs) > 0 {
			q = q.Where("id NOT IN ?", currentIDs)
		}
		if err := q.Delete(&partner.Contact{}).Error; err != nil {
			return err
		}

		for i := range c.Contacts {
			c.Contacts[i].ClientID = c.GetID()
			if err := tx.Save(&c.Contacts[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	var c partner.Client
	if err := r.db.WithContext(ctx).
		Preload("Contacts").
		First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByName finds a client by exact name
func (r *GormClientRepository) FindByName(ctx context.Context, name string) (*partner.Client, error) {
	var c partner.Client
	if err := r.db.WithContext(ctx).
		Preload("Contacts").
		First(&c, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll finds clients with filtering, search and pagination. Merged and
// archived clients are excluded unless asked for.
func (r *GormClientRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*partner.Client], error) {
	var clients []*partner.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&partner.Client{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}
	if v, ok := filter.Filters["archived"]; ok {
		query = query.Where("archived = ?", v)
	} else {
		query = query.Where("archived = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[*partner.Client]{}, err
	}

	query = applySortAndPage(query, filter, ClientSortFields)
	if err := query.Preload("Contacts").Find(&clients).Error; err != nil {
		return shared.Paginated[*partner.Client]{}, err
	}
	return shared.NewPaginated(clients, total, filter.Page, filter.PageSize), nil
}

// Delete removes a client and its contacts
func (r *GormClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", id).Delete(&partner.Contact{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&partner.Client{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ partner.Repository = (*GormClientRepository)(nil)
