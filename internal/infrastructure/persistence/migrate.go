package persistence

import (
	"gorm.io/gorm"

	"github.com/fabworks/backend/internal/domain/accounting"
	"github.com/fabworks/backend/internal/domain/billing"
	"github.com/fabworks/backend/internal/domain/job"
	"github.com/fabworks/backend/internal/domain/partner"
	"github.com/fabworks/backend/internal/domain/purchasing"
	"github.com/fabworks/backend/internal/domain/workforce"
)

// AutoMigrate creates or updates the schema for every persisted aggregate.
// Ordering matters: referenced tables first.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&partner.Client{},
		&partner.Contact{},
		&workforce.Staff{},
		&workforce.TimeEntry{},
		&job.Job{},
		&job.Assignment{},
		&job.CostSet{},
		&job.CostLine{},
		&job.DeltaRejection{},
		&billing.Quote{},
		&billing.Invoice{},
		&purchasing.PurchaseOrder{},
		&purchasing.PurchaseOrderLine{},
		&accounting.AppError{},
	)
}
