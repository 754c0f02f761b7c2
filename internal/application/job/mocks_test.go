package job

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fabworks/backend/internal/domain/job"
	"github.com/fabworks/backend/internal/domain/partner"
	"github.com/fabworks/backend/internal/domain/shared"
)

type mockJobRepo struct {
	mock.Mock
}

func (m *mockJobRepo) Save(ctx context.Context, j *job.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *mockJobRepo) SaveWithLock(ctx context.Context, j *job.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *mockJobRepo) FindByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *mockJobRepo) FindByNumber(ctx context.Context, number string) (*job.Job, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *mockJobRepo) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*job.Job], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*job.Job]), args.Error(1)
}

func (m *mockJobRepo) FindByStatus(ctx context.Context, status job.JobStatus) ([]*job.Job, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*job.Job), args.Error(1)
}

func (m *mockJobRepo) FindRecentlyCompletedBefore(ctx context.Context, cutoff time.Time) ([]*job.Job, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*job.Job), args.Error(1)
}

func (m *mockJobRepo) CountByYear(ctx context.Context, year int) (int64, error) {
	args := m.Called(ctx, year)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockJobRepo) ReassignClient(ctx context.Context, fromClientID, toClientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, fromClientID, toClientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockJobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockRejectionRepo struct {
	mock.Mock
}

func (m *mockRejectionRepo) Save(ctx context.Context, r *job.DeltaRejection) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRejectionRepo) FindByJob(ctx context.Context, jobID uuid.UUID, filter shared.Filter) (shared.Paginated[*job.DeltaRejection], error) {
	args := m.Called(ctx, jobID, filter)
	return args.Get(0).(shared.Paginated[*job.DeltaRejection]), args.Error(1)
}

func (m *mockRejectionRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockCostSetRepo struct {
	mock.Mock
}

func (m *mockCostSetRepo) Save(ctx context.Context, cs *job.CostSet) error {
	return m.Called(ctx, cs).Error(0)
}

func (m *mockCostSetRepo) FindByID(ctx context.Context, id uuid.UUID) (*job.CostSet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.CostSet), args.Error(1)
}

func (m *mockCostSetRepo) FindByJobKindRev(ctx context.Context, jobID uuid.UUID, kind job.CostSetKind, rev int) (*job.CostSet, error) {
	args := m.Called(ctx, jobID, kind, rev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.CostSet), args.Error(1)
}

func (m *mockCostSetRepo) FindLatest(ctx context.Context, jobID uuid.UUID, kind job.CostSetKind) (*job.CostSet, error) {
	args := m.Called(ctx, jobID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.CostSet), args.Error(1)
}

func (m *mockCostSetRepo) FindByJob(ctx context.Context, jobID uuid.UUID) ([]*job.CostSet, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*job.CostSet), args.Error(1)
}

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

type stubNumberSource struct {
	number string
	err    error
}

func (s *stubNumberSource) Next(ctx context.Context, table, prefix string) (string, error) {
	return s.number, s.err
}

// capturingPublisher records published events for assertions
type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) typesPublished() []string {
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}
