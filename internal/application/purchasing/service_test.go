package purchasing

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/purchasing"
	"github.com/fabworks/backend/internal/domain/shared"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Save(ctx context.Context, po *purchasing.PurchaseOrder) error {
	return m.Called(ctx, po).Error(0)
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.PurchaseOrder), args.Error(1)
}

func (m *mockOrderRepo) FindByNumber(ctx context.Context, number string) (*purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.PurchaseOrder), args.Error(1)
}

func (m *mockOrderRepo) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*purchasing.PurchaseOrder], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*purchasing.PurchaseOrder]), args.Error(1)
}

func (m *mockOrderRepo) FindByJob(ctx context.Context, jobID uuid.UUID) ([]*purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*purchasing.PurchaseOrder), args.Error(1)
}

func (m *mockOrderRepo) CountByYear(ctx context.Context, year int) (int64, error) {
	args := m.Called(ctx, year)
	return args.Get(0).(int64), args.Error(1)
}

type stubNumberSource struct {
	count int
}

func (s *stubNumberSource) Next(ctx context.Context, table, prefix string) (string, error) {
	s.count++
	return fmt.Sprintf("%s-2026-%05d", prefix, s.count), nil
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func newFixture(t *testing.T) (*mockOrderRepo, *capturingPublisher, *Service) {
	t.Helper()
	repo := &mockOrderRepo{}
	publisher := &capturingPublisher{}
	svc := NewService(repo, &stubNumberSource{}, publisher, nil, zap.NewNop())
	return repo, publisher, svc
}

func TestService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newFixture(t)
	jobID := uuid.New()

	repo.On("Save", ctx, mock.AnythingOfType("*purchasing.PurchaseOrder")).Return(nil)

	po, err := svc.CreateOrder(ctx, CreateOrderCommand{
		SupplierName: "Steel & Tube",
		SupplierRef:  "ST-100",
		Lines: []LineCommand{
			{Description: "304 sheet 1.5mm", MetalType: "stainless", JobID: &jobID,
				OrderedQty: decimal.NewFromInt(4), UnitCost: decimal.NewFromFloat(85.50)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "PO-2026-00001", po.Number)
	assert.Equal(t, purchasing.PODraft, po.Status)
	require.Len(t, po.Lines, 1)
	assert.True(t, po.TotalCost.Equal(decimal.NewFromFloat(342)), "total = %s", po.TotalCost)
}

func TestService_ReceiveGoods(t *testing.T) {
	ctx := context.Background()

	buildSubmittedOrder := func(t *testing.T, jobID *uuid.UUID) (*purchasing.PurchaseOrder, uuid.UUID) {
		po, err := purchasing.NewPurchaseOrder("PO-2026-00002", "Steel & Tube", "")
		require.NoError(t, err)
		line, err := po.AddLine("304 sheet", "", "stainless", jobID,
			decimal.NewFromInt(10), decimal.NewFromInt(50))
		require.NoError(t, err)
		require.NoError(t, po.Submit())
		return po, line.ID
	}

	t.Run("partial receipt publishes event", func(t *testing.T) {
		repo, publisher, svc := newFixture(t)
		jobID := uuid.New()
		po, lineID := buildSubmittedOrder(t, &jobID)
		repo.On("FindByID", ctx, po.GetID()).Return(po, nil)
		repo.On("Save", ctx, po).Return(nil)

		updated, err := svc.ReceiveGoods(ctx, po.GetID(), []purchasing.Receipt{
			{LineID: lineID, Quantity: decimal.NewFromInt(4)},
		})
		require.NoError(t, err)
		assert.Equal(t, purchasing.POPartiallyReceived, updated.Status)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, purchasing.EventGoodsReceived, publisher.events[0].EventType())
	})

	t.Run("over receipt saves nothing", func(t *testing.T) {
		repo, publisher, svc := newFixture(t)
		po, lineID := buildSubmittedOrder(t, nil)
		repo.On("FindByID", ctx, po.GetID()).Return(po, nil)

		_, err := svc.ReceiveGoods(ctx, po.GetID(), []purchasing.Receipt{
			{LineID: lineID, Quantity: decimal.NewFromInt(11)},
		})
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save")
		assert.Empty(t, publisher.events)
	})
}

func TestService_VoidOrder(t *testing.T) {
	ctx := context.Background()
	repo, _, svc := newFixture(t)

	po, err := purchasing.NewPurchaseOrder("PO-2026-00003", "Steel & Tube", "")
	require.NoError(t, err)
	repo.On("FindByID", ctx, po.GetID()).Return(po, nil)
	repo.On("Save", ctx, po).Return(nil)

	voided, err := svc.VoidOrder(ctx, po.GetID())
	require.NoError(t, err)
	assert.Equal(t, purchasing.POVoid, voided.Status)
}
