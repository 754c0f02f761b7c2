package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabworks/backend/internal/domain/billing"
	"github.com/fabworks/backend/internal/domain/shared"
)

func seedInvoice(t *testing.T, repo *GormInvoiceRepository, number string, jobID uuid.UUID) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(number, jobID,
		decimal.NewFromInt(1000), decimal.NewFromFloat(0.15))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), inv))
	return inv
}

func TestGormInvoiceRepository_FindAuthorisedUnpaid(t *testing.T) {
	repo := NewGormInvoiceRepository(newTestDB(t))
	ctx := context.Background()
	jobID := uuid.New()

	draft := seedInvoice(t, repo, "INV-2026-00001", jobID)

	authorised := seedInvoice(t, repo, "INV-2026-00002", jobID)
	require.NoError(t, authorised.Submit())
	require.NoError(t, authorised.Authorise())
	require.NoError(t, repo.Save(ctx, authorised))

	paid := seedInvoice(t, repo, "INV-2026-00003", jobID)
	require.NoError(t, paid.Submit())
	require.NoError(t, paid.Authorise())
	require.NoError(t, paid.MarkPaid(time.Now()))
	require.NoError(t, repo.Save(ctx, paid))

	unpaid, err := repo.FindAuthorisedUnpaid(ctx)
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, "INV-2026-00002", unpaid[0].Number)
	assert.NotEqual(t, draft.GetID(), unpaid[0].GetID())
}

func TestGormInvoiceRepository_FindByJob(t *testing.T) {
	repo := NewGormInvoiceRepository(newTestDB(t))
	ctx := context.Background()
	jobID := uuid.New()

	seedInvoice(t, repo, "INV-2026-00010", jobID)
	seedInvoice(t, repo, "INV-2026-00011", jobID)
	seedInvoice(t, repo, "INV-2026-00012", uuid.New())

	invoices, err := repo.FindByJob(ctx, jobID)
	require.NoError(t, err)
	assert.Len(t, invoices, 2)
}

func TestGormInvoiceRepository_FilterByPaid(t *testing.T) {
	repo := NewGormInvoiceRepository(newTestDB(t))
	ctx := context.Background()

	inv := seedInvoice(t, repo, "INV-2026-00020", uuid.New())
	require.NoError(t, inv.Submit())
	require.NoError(t, inv.Authorise())
	require.NoError(t, inv.MarkPaid(time.Now()))
	require.NoError(t, repo.Save(ctx, inv))
	seedInvoice(t, repo, "INV-2026-00021", uuid.New())

	filter := shared.DefaultFilter()
	filter.Filters["paid"] = true
	page, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, "INV-2026-00020", page.Items[0].Number)
	assert.True(t, page.Items[0].Paid)
}
