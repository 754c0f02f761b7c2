package job

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabworks/backend/internal/domain/shared"
)

func newTestJob(t *testing.T) *Job {
	t.Helper()
	j, err := NewJob("J-2026-00042", "Stainless bench frames", uuid.New(), PricingTimeMaterials)
	require.NoError(t, err)
	return j
}

func TestNewJob(t *testing.T) {
	t.Run("creates job in quoting status", func(t *testing.T) {
		j := newTestJob(t)

		assert.Equal(t, StatusQuoting, j.Status)
		assert.Equal(t, 1, j.GetVersion())
		assert.False(t, j.Paused)
		assert.Len(t, j.GetDomainEvents(), 1)
		assert.Equal(t, EventJobCreated, j.GetDomainEvents()[0].EventType())
	})

	t.Run("defaults pricing methodology", func(t *testing.T) {
		j, err := NewJob("J-2026-00043", "Ducting", uuid.New(), "")
		require.NoError(t, err)
		assert.Equal(t, PricingTimeMaterials, j.Pricing)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewJob("J-2026-00044", "  ", uuid.New(), PricingFixedPrice)
		assert.Error(t, err)
	})

	t.Run("rejects missing client", func(t *testing.T) {
		_, err := NewJob("J-2026-00044", "Ducting", uuid.Nil, PricingFixedPrice)
		assert.Error(t, err)
	})

	t.Run("rejects unknown pricing", func(t *testing.T) {
		_, err := NewJob("J-2026-00044", "Ducting", uuid.New(), "COST_PLUS")
		assert.Error(t, err)
	})
}

func TestJob_Lifecycle(t *testing.T) {
	t.Run("happy path through completion", func(t *testing.T) {
		j := newTestJob(t)
		accepted := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

		require.NoError(t, j.AcceptQuote(accepted))
		assert.Equal(t, StatusAcceptedQuote, j.Status)
		require.NotNil(t, j.QuoteAcceptedAt)
		assert.Equal(t, accepted, *j.QuoteAcceptedAt)

		require.NoError(t, j.Start())
		require.NoError(t, j.Complete())
		assert.Equal(t, StatusRecentlyCompleted, j.Status)

		require.NoError(t, j.Archive())
		assert.Equal(t, StatusCompleted, j.Status)
	})

	t.Run("cannot start from quoting", func(t *testing.T) {
		j := newTestJob(t)

		err := j.Start()
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATUS_TRANSITION", domainErr.Code)
	})

	t.Run("rejection from quoting records reason", func(t *testing.T) {
		j := newTestJob(t)

		require.NoError(t, j.Reject("client went with another fabricator"))
		assert.Equal(t, StatusRejected, j.Status)
		assert.True(t, j.IsRejected())
		assert.Equal(t, "client went with another fabricator", j.RejectedReason)
	})

	t.Run("cannot reject once in progress", func(t *testing.T) {
		j := newTestJob(t)
		require.NoError(t, j.AcceptQuote(time.Now()))
		require.NoError(t, j.Start())

		assert.Error(t, j.Reject("too late"))
	})

	t.Run("status changes emit events", func(t *testing.T) {
		j := newTestJob(t)
		j.ClearDomainEvents()

		require.NoError(t, j.AcceptQuote(time.Now()))

		events := j.GetDomainEvents()
		require.Len(t, events, 1)
		evt, ok := events[0].(*JobStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, StatusQuoting, evt.From)
		assert.Equal(t, StatusAcceptedQuote, evt.To)
	})
}

func TestJob_PauseResume(t *testing.T) {
	j := newTestJob(t)
	require.NoError(t, j.AcceptQuote(time.Now()))
	require.NoError(t, j.Start())

	t.Run("pause and resume in progress", func(t *testing.T) {
		require.NoError(t, j.Pause())
		assert.True(t, j.Paused)
		// Status is untouched, pause is only a flag
		assert.Equal(t, StatusInProgress, j.Status)

		assert.Error(t, j.Pause())

		require.NoError(t, j.Resume())
		assert.False(t, j.Paused)
		assert.Error(t, j.Resume())
	})

	t.Run("cannot complete while paused", func(t *testing.T) {
		require.NoError(t, j.Pause())
		assert.Error(t, j.Complete())
		require.NoError(t, j.Resume())
		assert.NoError(t, j.Complete())
	})
}

func TestJob_Assignments(t *testing.T) {
	j := newTestJob(t)
	staffID := uuid.New()

	require.NoError(t, j.AssignPerson(staffID))
	assert.Len(t, j.People, 1)

	err := j.AssignPerson(staffID)
	assert.Error(t, err)

	require.NoError(t, j.UnassignPerson(staffID))
	assert.Empty(t, j.People)

	assert.Error(t, j.UnassignPerson(staffID))
}

func TestJob_LatestRev(t *testing.T) {
	j := newTestJob(t)

	assert.Equal(t, 0, j.LatestRev(CostSetActual))

	require.NoError(t, j.SetLatestRev(CostSetActual, 1))
	assert.Equal(t, 1, j.LatestRev(CostSetActual))
	assert.Equal(t, 0, j.LatestRev(CostSetEstimate))

	t.Run("revisions must increase", func(t *testing.T) {
		assert.Error(t, j.SetLatestRev(CostSetActual, 1))
		assert.NoError(t, j.SetLatestRev(CostSetActual, 2))
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		assert.Error(t, j.SetLatestRev("BUDGET", 1))
	})
}
