package accounting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/accounting"
	"github.com/fabworks/backend/internal/domain/shared"
)

type mockErrorRepo struct {
	mock.Mock
}

func (m *mockErrorRepo) Save(ctx context.Context, e *accounting.AppError) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockErrorRepo) FindByID(ctx context.Context, id uuid.UUID) (*accounting.AppError, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.AppError), args.Error(1)
}

func (m *mockErrorRepo) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*accounting.AppError], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*accounting.AppError]), args.Error(1)
}

func (m *mockErrorRepo) CountUnresolved(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockErrorRepo) DeleteResolvedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func TestErrorLogService_Capture(t *testing.T) {
	ctx := context.Background()

	t.Run("persists and marks the error", func(t *testing.T) {
		repo := &mockErrorRepo{}
		svc := NewErrorLogService(repo, zap.NewNop())
		repo.On("Save", ctx, mock.AnythingOfType("*accounting.AppError")).Return(nil)

		cause := errors.New("xero sync timed out")
		got := svc.Capture(ctx, accounting.KindSync, accounting.SeverityError, cause, "invoice INV-2026-00010")

		assert.True(t, accounting.IsAlreadyLogged(got))
		assert.ErrorIs(t, got, cause)
		repo.AssertNumberOfCalls(t, "Save", 1)

		saved := repo.Calls[0].Arguments.Get(1).(*accounting.AppError)
		assert.Equal(t, accounting.KindSync, saved.Kind)
		assert.Equal(t, "xero sync timed out", saved.Message)
	})

	t.Run("does not persist twice", func(t *testing.T) {
		repo := &mockErrorRepo{}
		svc := NewErrorLogService(repo, zap.NewNop())
		repo.On("Save", ctx, mock.AnythingOfType("*accounting.AppError")).Return(nil)

		first := svc.Capture(ctx, accounting.KindApp, accounting.SeverityWarning, errors.New("boom"), "")
		second := svc.Capture(ctx, accounting.KindApp, accounting.SeverityWarning, first, "")

		assert.Equal(t, first, second)
		repo.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("nil passes through", func(t *testing.T) {
		repo := &mockErrorRepo{}
		svc := NewErrorLogService(repo, zap.NewNop())

		assert.NoError(t, svc.Capture(ctx, accounting.KindApp, accounting.SeverityInfo, nil, ""))
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("save failure returns the original error unmarked", func(t *testing.T) {
		repo := &mockErrorRepo{}
		svc := NewErrorLogService(repo, zap.NewNop())
		repo.On("Save", ctx, mock.AnythingOfType("*accounting.AppError")).Return(errors.New("db down"))

		cause := errors.New("boom")
		got := svc.Capture(ctx, accounting.KindApp, accounting.SeverityError, cause, "")
		assert.Equal(t, cause, got)
		assert.False(t, accounting.IsAlreadyLogged(got))
	})
}

func TestErrorLogService_Resolve(t *testing.T) {
	ctx := context.Background()
	repo := &mockErrorRepo{}
	svc := NewErrorLogService(repo, zap.NewNop())

	record, err := accounting.NewAppError(accounting.KindApp, accounting.SeverityError, "boom", "")
	require.NoError(t, err)
	repo.On("FindByID", ctx, record.ID).Return(record, nil)
	repo.On("Save", ctx, record).Return(nil)

	resolved, err := svc.Resolve(ctx, record.ID)
	require.NoError(t, err)
	assert.True(t, resolved.Resolved)

	// A second resolve is refused by the record itself
	_, err = svc.Resolve(ctx, record.ID)
	require.Error(t, err)
}
