package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabworks/backend/internal/domain/workforce"
)

func newTestStaff(t *testing.T) *workforce.Staff {
	t.Helper()
	s, err := workforce.NewStaff("welder@example.co.nz", "Pat Welder", "s3cret-pass",
		decimal.NewFromInt(32), decimal.NewFromInt(85))
	require.NoError(t, err)
	return s
}

func TestGormTimeEntryRepository_DateQueries(t *testing.T) {
	repo := NewGormTimeEntryRepository(newTestDB(t))
	ctx := context.Background()
	staff := newTestStaff(t)
	jobID := uuid.New()

	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 3; day++ {
		e, err := workforce.NewTimeEntry(staff, jobID, monday.AddDate(0, 0, day),
			decimal.NewFromFloat(7.5), true, "Welding")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, e))
	}

	t.Run("single day", func(t *testing.T) {
		entries, err := repo.FindByStaffAndDate(ctx, staff.GetID(), monday)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("week range", func(t *testing.T) {
		entries, err := repo.FindByStaffAndRange(ctx, staff.GetID(), monday, monday.AddDate(0, 0, 7))
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})

	t.Run("range excludes other staff", func(t *testing.T) {
		entries, err := repo.FindByStaffAndRange(ctx, uuid.New(), monday, monday.AddDate(0, 0, 7))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("by job", func(t *testing.T) {
		entries, err := repo.FindByJob(ctx, jobID)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})
}

func TestGormTimeEntryRepository_RatesSurviveRoundtrip(t *testing.T) {
	repo := NewGormTimeEntryRepository(newTestDB(t))
	ctx := context.Background()
	staff := newTestStaff(t)

	e, err := workforce.NewTimeEntry(staff, uuid.New(), time.Now(),
		decimal.NewFromInt(4), true, "Polishing")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, e))

	found, err := repo.FindByID(ctx, e.GetID())
	require.NoError(t, err)
	assert.True(t, found.WageRate.Equal(decimal.NewFromInt(32)))
	assert.True(t, found.ChargeOutRate.Equal(decimal.NewFromInt(85)))
}
