package job

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/billing"
	"github.com/fabworks/backend/internal/domain/job"
	"github.com/fabworks/backend/internal/domain/partner"
	"github.com/fabworks/backend/internal/domain/purchasing"
	"github.com/fabworks/backend/internal/domain/workforce"
)

func TestQuoteAcceptedHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("moves quoting job to accepted", func(t *testing.T) {
		jobs := &mockJobRepo{}
		publisher := &capturingPublisher{}
		handler := NewQuoteAcceptedHandler(jobs, publisher, zap.NewNop())

		j := testJob(t, uuid.New())
		q, err := billing.NewQuote("Q-2026-00001", j.GetID(),
			decimal.NewFromInt(1000), decimal.NewFromFloat(0.15))
		require.NoError(t, err)
		event := billing.NewQuoteAcceptedEvent(q, time.Now())
		event.JobID = j.GetID()

		jobs.On("FindByID", ctx, j.GetID()).Return(j, nil)
		jobs.On("SaveWithLock", ctx, j).Return(nil)

		require.NoError(t, handler.Handle(ctx, event))
		assert.Equal(t, job.StatusAcceptedQuote, j.Status)
		assert.Contains(t, publisher.typesPublished(), job.EventJobStatusChanged)
	})

	t.Run("ignores jobs past quoting", func(t *testing.T) {
		jobs := &mockJobRepo{}
		handler := NewQuoteAcceptedHandler(jobs, &capturingPublisher{}, zap.NewNop())

		j := testJob(t, uuid.New())
		require.NoError(t, j.AcceptQuote(time.Now()))
		j.ClearDomainEvents()

		q, err := billing.NewQuote("Q-2026-00002", j.GetID(),
			decimal.NewFromInt(500), decimal.NewFromFloat(0.15))
		require.NoError(t, err)
		event := billing.NewQuoteAcceptedEvent(q, time.Now())

		jobs.On("FindByID", ctx, j.GetID()).Return(j, nil)
		require.NoError(t, handler.Handle(ctx, event))
		jobs.AssertNotCalled(t, "SaveWithLock")
	})
}

func TestTimeLoggedHandler(t *testing.T) {
	ctx := context.Background()
	jobs := &mockJobRepo{}
	costSets := &mockCostSetRepo{}
	costing := NewCostingService(jobs, costSets, zap.NewNop())
	handler := NewTimeLoggedHandler(costing, zap.NewNop())

	staff, err := workforce.NewStaff("welder@example.co.nz", "Pat Welder", "s3cret-pass",
		decimal.NewFromInt(32), decimal.NewFromInt(85))
	require.NoError(t, err)

	jobID := uuid.New()
	entry, err := workforce.NewTimeEntry(staff, jobID, time.Now(),
		decimal.NewFromFloat(2.5), true, "Welding")
	require.NoError(t, err)
	event := workforce.NewTimeLoggedEvent(entry, staff.Name)

	cs, err := job.NewCostSet(jobID, job.CostSetActual, 1)
	require.NoError(t, err)
	costSets.On("FindLatest", ctx, jobID, job.CostSetActual).Return(cs, nil)
	costSets.On("Save", ctx, cs).Return(nil)

	require.NoError(t, handler.Handle(ctx, event))
	require.Len(t, cs.Lines, 1)
	line := cs.Lines[0]
	assert.Equal(t, job.CostLineTime, line.Kind)
	assert.True(t, line.Quantity.Equal(decimal.NewFromFloat(2.5)))
	assert.True(t, line.UnitCost.Equal(decimal.NewFromInt(32)))
	assert.True(t, line.UnitRevenue.Equal(decimal.NewFromInt(85)))
	assert.Equal(t, "time_entry", line.SourceType)
}

func TestGoodsReceivedHandler_SkipsUnallocatedLines(t *testing.T) {
	ctx := context.Background()
	jobs := &mockJobRepo{}
	costSets := &mockCostSetRepo{}
	handler := NewGoodsReceivedHandler(NewCostingService(jobs, costSets, zap.NewNop()), zap.NewNop())

	jobID := uuid.New()
	po, err := purchasing.NewPurchaseOrder("PO-2026-00001", "Steel & Tube", "ST-100")
	require.NoError(t, err)

	cs, err := job.NewCostSet(jobID, job.CostSetActual, 1)
	require.NoError(t, err)
	costSets.On("FindLatest", ctx, jobID, job.CostSetActual).Return(cs, nil)
	costSets.On("Save", ctx, cs).Return(nil)

	event := purchasing.NewGoodsReceivedEvent(po, []purchasing.ReceivedLine{
		{LineID: uuid.New(), JobID: &jobID, Description: "304 sheet 1.5mm",
			Quantity: decimal.NewFromInt(4), UnitCost: decimal.NewFromFloat(85.50)},
		{LineID: uuid.New(), Description: "Workshop consumables",
			Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(120)},
	})
	require.NoError(t, handler.Handle(ctx, event))
	require.Len(t, cs.Lines, 1)
	assert.Equal(t, job.CostLineMaterial, cs.Lines[0].Kind)
}

func TestClientMergedHandler(t *testing.T) {
	ctx := context.Background()
	jobs := &mockJobRepo{}
	handler := NewClientMergedHandler(jobs, zap.NewNop())

	loser, err := partner.NewClient("Dup Client", "", "", "")
	require.NoError(t, err)
	survivorID := uuid.New()
	require.NoError(t, loser.MergeInto(survivorID))

	var event *partner.ClientMergedEvent
	for _, e := range loser.GetDomainEvents() {
		if m, ok := e.(*partner.ClientMergedEvent); ok {
			event = m
		}
	}
	require.NotNil(t, event)

	jobs.On("ReassignClient", ctx, loser.GetID(), survivorID).Return(int64(3), nil)
	require.NoError(t, handler.Handle(ctx, event))
	jobs.AssertExpectations(t)
}
