package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/partner"
	"github.com/fabworks/backend/internal/domain/shared"
)

type mockClientRepo struct {
	mock.Mock
}

func (m *mockClientRepo) Save(ctx context.Context, c *partner.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockClientRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *mockClientRepo) FindByName(ctx context.Context, name string) (*partner.Client, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *mockClientRepo) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*partner.Client], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*partner.Client]), args.Error(1)
}

func (m *mockClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func newClient(t *testing.T, name string) *partner.Client {
	t.Helper()
	c, err := partner.NewClient(name, "", "", "")
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestService_CreateClient(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and publishes", func(t *testing.T) {
		repo := &mockClientRepo{}
		publisher := &capturingPublisher{}
		svc := NewService(repo, publisher, zap.NewNop())

		repo.On("FindByName", ctx, "Harbour Marine Ltd").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Client")).Return(nil)

		c, err := svc.CreateClient(ctx, CreateClientCommand{Name: "Harbour Marine Ltd"})
		require.NoError(t, err)
		assert.Equal(t, "Harbour Marine Ltd", c.Name)
		require.Len(t, publisher.events, 1)
		assert.Equal(t, partner.EventClientCreated, publisher.events[0].EventType())
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		repo := &mockClientRepo{}
		svc := NewService(repo, &capturingPublisher{}, zap.NewNop())

		existing := newClient(t, "Harbour Marine Ltd")
		repo.On("FindByName", ctx, "Harbour Marine Ltd").Return(existing, nil)

		_, err := svc.CreateClient(ctx, CreateClientCommand{Name: "Harbour Marine Ltd"})
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save")
	})
}

func TestService_MergeClients(t *testing.T) {
	ctx := context.Background()

	t.Run("archives duplicate and publishes merge", func(t *testing.T) {
		repo := &mockClientRepo{}
		publisher := &capturingPublisher{}
		svc := NewService(repo, publisher, zap.NewNop())

		survivor := newClient(t, "Harbour Marine Ltd")
		duplicate := newClient(t, "Harbour Marine Limited")
		repo.On("FindByID", ctx, survivor.GetID()).Return(survivor, nil)
		repo.On("FindByID", ctx, duplicate.GetID()).Return(duplicate, nil)
		repo.On("Save", ctx, duplicate).Return(nil)

		require.NoError(t, svc.MergeClients(ctx, duplicate.GetID(), survivor.GetID()))
		assert.True(t, duplicate.Archived)
		require.NotNil(t, duplicate.MergedInto)
		assert.Equal(t, survivor.GetID(), *duplicate.MergedInto)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, partner.EventClientMerged, publisher.events[0].EventType())
	})

	t.Run("refuses self merge", func(t *testing.T) {
		svc := NewService(&mockClientRepo{}, &capturingPublisher{}, zap.NewNop())
		id := uuid.New()
		require.Error(t, svc.MergeClients(ctx, id, id))
	})

	t.Run("refuses archived survivor", func(t *testing.T) {
		repo := &mockClientRepo{}
		svc := NewService(repo, &capturingPublisher{}, zap.NewNop())

		survivor := newClient(t, "Old Client")
		require.NoError(t, survivor.Archive())
		duplicate := newClient(t, "Dup")
		repo.On("FindByID", ctx, survivor.GetID()).Return(survivor, nil)

		err := svc.MergeClients(ctx, duplicate.GetID(), survivor.GetID())
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save")
	})
}
