package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fabworks/backend/internal/domain/accounting"
	"github.com/fabworks/backend/internal/domain/billing"
	"github.com/fabworks/backend/internal/domain/job"
	"github.com/fabworks/backend/internal/domain/partner"
	"github.com/fabworks/backend/internal/domain/purchasing"
	"github.com/fabworks/backend/internal/domain/workforce"
)

// newTestDB opens an isolated in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&job.Job{},
		&job.Assignment{},
		&job.CostSet{},
		&job.CostLine{},
		&job.DeltaRejection{},
		&partner.Client{},
		&partner.Contact{},
		&billing.Quote{},
		&billing.Invoice{},
		&purchasing.PurchaseOrder{},
		&purchasing.PurchaseOrderLine{},
		&workforce.Staff{},
		&workforce.TimeEntry{},
		&accounting.AppError{},
	))
	return db
}
