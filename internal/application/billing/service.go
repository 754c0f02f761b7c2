package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/billing"
	"github.com/fabworks/backend/internal/domain/job"
	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/infrastructure/telemetry"
)

// NumberSource issues sequential document numbers
type NumberSource interface {
	Next(ctx context.Context, table, prefix string) (string, error)
}

// PaymentStatusSource reports whether an externally synced invoice has been
// paid. The real implementation talks to the accounting provider; a no-op
// source makes reconciliation do nothing.
type PaymentStatusSource interface {
	IsPaid(ctx context.Context, externalID string) (bool, time.Time, error)
}

// Service manages quotes and invoices
type Service struct {
	quotes   billing.QuoteRepository
	invoices billing.InvoiceRepository
	jobs     job.Repository
	costSets job.CostSetRepository
	numbers  NumberSource
	payments PaymentStatusSource
	bus      shared.EventPublisher
	metrics  *telemetry.BusinessMetrics
	taxRate  decimal.Decimal
	logger   *zap.Logger
}

// NewService creates a new billing service
func NewService(
	quotes billing.QuoteRepository,
	invoices billing.InvoiceRepository,
	jobs job.Repository,
	costSets job.CostSetRepository,
	numbers NumberSource,
	payments PaymentStatusSource,
	bus shared.EventPublisher,
	metrics *telemetry.BusinessMetrics,
	taxRate decimal.Decimal,
	logger *zap.Logger,
) *Service {
	return &Service{
		quotes:   quotes,
		invoices: invoices,
		jobs:     jobs,
		costSets: costSets,
		numbers:  numbers,
		payments: payments,
		bus:      bus,
		metrics:  metrics,
		taxRate:  taxRate,
		logger:   logger,
	}
}

// CreateQuote raises a quote for a job. When no subtotal is given it is
// derived from the revenue of the job's latest QUOTE cost set.
func (s *Service) CreateQuote(ctx context.Context, jobID uuid.UUID, subtotal decimal.Decimal) (*billing.Quote, error) {
	j, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if subtotal.IsZero() {
		if subtotal, err = s.costSetRevenue(ctx, jobID, job.CostSetQuote); err != nil {
			return nil, err
		}
	}

	number, err := s.numbers.Next(ctx, "quotes", "Q")
	if err != nil {
		return nil, err
	}
	q, err := billing.NewQuote(number, jobID, subtotal, s.taxRate)
	if err != nil {
		return nil, err
	}
	if err := s.quotes.Save(ctx, q); err != nil {
		return nil, err
	}
	s.logger.Info("quote created",
		zap.String("number", q.Number), zap.String("job", j.Number))
	return q, nil
}

func (s *Service) costSetRevenue(ctx context.Context, jobID uuid.UUID, kind job.CostSetKind) (decimal.Decimal, error) {
	cs, err := s.costSets.FindLatest(ctx, jobID, kind)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, shared.NewDomainError("NO_COST_SET",
				"Job has no "+string(kind)+" cost set to derive an amount from")
		}
		return decimal.Zero, err
	}
	return cs.TotalRevenue, nil
}

// GetQuote loads a quote by ID
func (s *Service) GetQuote(ctx context.Context, id uuid.UUID) (*billing.Quote, error) {
	return s.quotes.FindByID(ctx, id)
}

// ListQuotes returns quotes matching the filter
func (s *Service) ListQuotes(ctx context.Context, filter shared.Filter) (shared.Paginated[*billing.Quote], error) {
	return s.quotes.FindAll(ctx, filter)
}

// SendQuote marks a draft quote as sent
func (s *Service) SendQuote(ctx context.Context, id uuid.UUID) (*billing.Quote, error) {
	q, err := s.quotes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := q.Send(); err != nil {
		return nil, err
	}
	if err := s.quotes.Save(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// AcceptQuote accepts a sent quote. The job context reacts to the event.
func (s *Service) AcceptQuote(ctx context.Context, id uuid.UUID) (*billing.Quote, error) {
	q, err := s.quotes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := q.Accept(time.Now()); err != nil {
		return nil, err
	}
	if err := s.quotes.Save(ctx, q); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, q)
	return q, nil
}

// DeclineQuote declines a sent quote
func (s *Service) DeclineQuote(ctx context.Context, id uuid.UUID) (*billing.Quote, error) {
	q, err := s.quotes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := q.Decline(); err != nil {
		return nil, err
	}
	if err := s.quotes.Save(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// CreateInvoice raises an invoice for a job. When no subtotal is given it is
// derived from the revenue of the job's latest ACTUAL cost set.
func (s *Service) CreateInvoice(ctx context.Context, jobID uuid.UUID, subtotal decimal.Decimal) (*billing.Invoice, error) {
	j, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if subtotal.IsZero() {
		if subtotal, err = s.costSetRevenue(ctx, jobID, job.CostSetActual); err != nil {
			return nil, err
		}
	}

	number, err := s.numbers.Next(ctx, "invoices", "INV")
	if err != nil {
		return nil, err
	}
	inv, err := billing.NewInvoice(number, jobID, subtotal, s.taxRate)
	if err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("invoice created",
		zap.String("number", inv.Number), zap.String("job", j.Number))
	return inv, nil
}

// GetInvoice loads an invoice by ID
func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.invoices.FindByID(ctx, id)
}

// ListInvoices returns invoices matching the filter
func (s *Service) ListInvoices(ctx context.Context, filter shared.Filter) (shared.Paginated[*billing.Invoice], error) {
	return s.invoices.FindAll(ctx, filter)
}

// SubmitInvoice submits a draft invoice
func (s *Service) SubmitInvoice(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.invoiceOp(ctx, id, (*billing.Invoice).Submit)
}

// AuthoriseInvoice authorises a submitted invoice
func (s *Service) AuthoriseInvoice(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.invoiceOp(ctx, id, (*billing.Invoice).Authorise)
}

// VoidInvoice voids an unpaid invoice
func (s *Service) VoidInvoice(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return s.invoiceOp(ctx, id, (*billing.Invoice).Void)
}

func (s *Service) invoiceOp(ctx context.Context, id uuid.UUID, op func(*billing.Invoice) error) (*billing.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(inv); err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// MarkInvoicePaid marks an invoice fully paid
func (s *Service) MarkInvoicePaid(ctx context.Context, id uuid.UUID, paidOn time.Time) (*billing.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.MarkPaid(paidOn); err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, inv)
	s.metrics.RecordInvoicePaid(ctx)
	s.logger.Info("invoice paid", zap.String("number", inv.Number))
	return inv, nil
}

// ReconcilePaidFlags checks authorised unpaid invoices against the external
// payment source and flips paid flags. Returns how many invoices were
// marked paid.
func (s *Service) ReconcilePaidFlags(ctx context.Context) (int, error) {
	if s.payments == nil {
		return 0, nil
	}
	candidates, err := s.invoices.FindAuthorisedUnpaid(ctx)
	if err != nil {
		return 0, err
	}

	reconciled := 0
	for _, inv := range candidates {
		if inv.ExternalID == "" {
			continue
		}
		paid, paidOn, err := s.payments.IsPaid(ctx, inv.ExternalID)
		if err != nil {
			s.logger.Warn("payment status check failed",
				zap.String("number", inv.Number), zap.Error(err))
			continue
		}
		if !paid {
			continue
		}
		if _, err := s.MarkInvoicePaid(ctx, inv.GetID(), paidOn); err != nil {
			s.logger.Error("failed to reconcile invoice",
				zap.String("number", inv.Number), zap.Error(err))
			continue
		}
		reconciled++
	}
	return reconciled, nil
}

func (s *Service) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.bus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
	aggregate.ClearDomainEvents()
}
