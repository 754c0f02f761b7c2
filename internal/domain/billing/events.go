package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabworks/backend/internal/domain/shared"
)

// Event types for the billing context
const (
	EventQuoteAccepted = "billing.quote.accepted"
	EventInvoicePaid   = "billing.invoice.paid"
)

// QuoteAcceptedEvent is raised when a client accepts a quote
type QuoteAcceptedEvent struct {
	shared.BaseDomainEvent
	JobID      uuid.UUID       `json:"job_id"`
	Number     string          `json:"number"`
	Total      decimal.Decimal `json:"total"`
	AcceptedAt time.Time       `json:"accepted_at"`
}

// NewQuoteAcceptedEvent creates a new quote accepted event
func NewQuoteAcceptedEvent(q *Quote, at time.Time) *QuoteAcceptedEvent {
	return &QuoteAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventQuoteAccepted, "Quote", q.GetID()),
		JobID:           q.JobID,
		Number:          q.Number,
		Total:           q.Total(),
		AcceptedAt:      at,
	}
}

// InvoicePaidEvent is raised when an invoice is fully paid
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	JobID       uuid.UUID       `json:"job_id"`
	Number      string          `json:"number"`
	Total       decimal.Decimal `json:"total"`
	FullyPaidOn time.Time       `json:"fully_paid_on"`
}

// NewInvoicePaidEvent creates a new invoice paid event
func NewInvoicePaidEvent(i *Invoice, at time.Time) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventInvoicePaid, "Invoice", i.GetID()),
		JobID:           i.JobID,
		Number:          i.Number,
		Total:           i.Total,
		FullyPaidOn:     at,
	}
}
