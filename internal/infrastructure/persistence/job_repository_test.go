package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabworks/backend/internal/domain/job"
	"github.com/fabworks/backend/internal/domain/shared"
)

func seedJob(t *testing.T, repo *GormJobRepository, number, name string) *job.Job {
	t.Helper()
	j, err := job.NewJob(number, name, uuid.New(), job.PricingTimeMaterials)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), j))
	return j
}

func TestGormJobRepository_SaveAndFind(t *testing.T) {
	repo := NewGormJobRepository(newTestDB(t))
	ctx := context.Background()

	j := seedJob(t, repo, "J-2026-00001", "Stainless bench frames")
	require.NoError(t, j.AssignPerson(uuid.New()))
	require.NoError(t, repo.Save(ctx, j))

	t.Run("by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, j.GetID())
		require.NoError(t, err)
		assert.Equal(t, "J-2026-00001", found.Number)
		assert.Equal(t, job.StatusQuoting, found.Status)
		assert.Len(t, found.People, 1)
	})

	t.Run("by number", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, "J-2026-00001")
		require.NoError(t, err)
		assert.Equal(t, j.GetID(), found.GetID())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByNumber(ctx, "J-1999-99999")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormJobRepository_SaveWithLock(t *testing.T) {
	repo := NewGormJobRepository(newTestDB(t))
	ctx := context.Background()

	j := seedJob(t, repo, "J-2026-00002", "Ducting run")

	t.Run("bumps version on success", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, j.GetID())
		require.NoError(t, err)

		loaded.Name = "Ducting run - revised"
		require.NoError(t, repo.SaveWithLock(ctx, loaded))

		reloaded, err := repo.FindByID(ctx, j.GetID())
		require.NoError(t, err)
		assert.Equal(t, "Ducting run - revised", reloaded.Name)
		assert.Equal(t, loaded.Version, reloaded.Version)
	})

	t.Run("rejects stale version", func(t *testing.T) {
		first, err := repo.FindByID(ctx, j.GetID())
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, j.GetID())
		require.NoError(t, err)

		first.Notes = "winner"
		require.NoError(t, repo.SaveWithLock(ctx, first))

		second.Notes = "loser"
		err = repo.SaveWithLock(ctx, second)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		reloaded, err := repo.FindByID(ctx, j.GetID())
		require.NoError(t, err)
		assert.Equal(t, "winner", reloaded.Notes)
	})
}

func TestGormJobRepository_FindAll(t *testing.T) {
	repo := NewGormJobRepository(newTestDB(t))
	ctx := context.Background()

	clientID := uuid.New()
	a, err := job.NewJob("J-2026-00010", "Balustrade", clientID, job.PricingFixedPrice)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, a))

	b := seedJob(t, repo, "J-2026-00011", "Handrail polish")
	require.NoError(t, b.AcceptQuote(time.Now()))
	require.NoError(t, repo.Save(ctx, b))

	seedJob(t, repo, "J-2026-00012", "Tank baffles")

	t.Run("search by name", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "rail"
		page, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, "J-2026-00011", page.Items[0].Number)
	})

	t.Run("filter by status", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = job.StatusAcceptedQuote
		page, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("filter by client", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["client_id"] = clientID
		page, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, "J-2026-00010", page.Items[0].Number)
	})

	t.Run("pagination", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 2
		filter.OrderBy = "number"
		filter.OrderDir = "asc"
		page, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 2, page.TotalPages)
	})
}

func TestGormJobRepository_Archival(t *testing.T) {
	repo := NewGormJobRepository(newTestDB(t))
	ctx := context.Background()

	j := seedJob(t, repo, "J-2026-00020", "Louvre panels")
	require.NoError(t, j.AcceptQuote(time.Now()))
	require.NoError(t, j.Start())
	require.NoError(t, j.Complete())
	require.NoError(t, repo.Save(ctx, j))

	stale, err := repo.FindRecentlyCompletedBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, stale, 1)

	fresh, err := repo.FindRecentlyCompletedBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestGormJobRepository_CountByYear(t *testing.T) {
	repo := NewGormJobRepository(newTestDB(t))
	ctx := context.Background()

	seedJob(t, repo, "J-2026-00030", "Gate frame")
	seedJob(t, repo, "J-2026-00031", "Gate infill")

	count, err := repo.CountByYear(ctx, time.Now().UTC().Year())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByYear(ctx, 1999)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGormJobRepository_Delete(t *testing.T) {
	repo := NewGormJobRepository(newTestDB(t))
	ctx := context.Background()

	j := seedJob(t, repo, "J-2026-00040", "Scrap bin")
	require.NoError(t, j.AssignPerson(uuid.New()))
	require.NoError(t, repo.Save(ctx, j))

	require.NoError(t, repo.Delete(ctx, j.GetID()))

	_, err := repo.FindByID(ctx, j.GetID())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, j.GetID()), shared.ErrNotFound)
}
