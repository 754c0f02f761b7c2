package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fabworks/backend/internal/domain/billing"
	"github.com/fabworks/backend/internal/domain/job"
	"github.com/fabworks/backend/internal/domain/shared"
)

type mockQuoteRepo struct {
	mock.Mock
}

func (m *mockQuoteRepo) Save(ctx context.Context, q *billing.Quote) error {
	return m.Called(ctx, q).Error(0)
}

func (m *mockQuoteRepo) FindByID(ctx context.Context, id uuid.UUID) (*billing.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Quote), args.Error(1)
}

func (m *mockQuoteRepo) FindByNumber(ctx context.Context, number string) (*billing.Quote, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Quote), args.Error(1)
}

func (m *mockQuoteRepo) FindByJob(ctx context.Context, jobID uuid.UUID) ([]*billing.Quote, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Quote), args.Error(1)
}

func (m *mockQuoteRepo) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*billing.Quote], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*billing.Quote]), args.Error(1)
}

func (m *mockQuoteRepo) CountByYear(ctx context.Context, year int) (int64, error) {
	args := m.Called(ctx, year)
	return args.Get(0).(int64), args.Error(1)
}

type mockInvoiceRepo struct {
	mock.Mock
}

func (m *mockInvoiceRepo) Save(ctx context.Context, i *billing.Invoice) error {
	return m.Called(ctx, i).Error(0)
}

func (m *mockInvoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindByJob(ctx context.Context, jobID uuid.UUID) ([]*billing.Invoice, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*billing.Invoice], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[*billing.Invoice]), args.Error(1)
}

func (m *mockInvoiceRepo) FindAuthorisedUnpaid(ctx context.Context) ([]*billing.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) CountByYear(ctx context.Context, year int) (int64, error) {
	args := m.Called(ctx, year)
	return args.Get(0).(int64), args.Error(1)
}

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

// stubNumberSource issues sequential numbers per prefix
type stubNumberSource struct {
	prefixCounts map[string]int
}

func (s *stubNumberSource) Next(ctx context.Context, table, prefix string) (string, error) {
	s.prefixCounts[prefix]++
	return fmt.Sprintf("%s-2026-%05d", prefix, s.prefixCounts[prefix]), nil
}

type stubPaymentSource struct {
	paid map[string]time.Time
	err  error
}

func (s *stubPaymentSource) IsPaid(ctx context.Context, externalID string) (bool, time.Time, error) {
	if s.err != nil {
		return false, time.Time{}, s.err
	}
	at, ok := s.paid[externalID]
	return ok, at, nil
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}
