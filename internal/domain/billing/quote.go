package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabworks/backend/internal/domain/shared"
)

// QuoteStatus represents the lifecycle state of a quote
type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "DRAFT"
	QuoteSent     QuoteStatus = "SENT"
	QuoteAccepted QuoteStatus = "ACCEPTED"
	QuoteDeclined QuoteStatus = "DECLINED"
)

// Quote is a priced offer for a job, sent to the client for acceptance
type Quote struct {
	shared.BaseAggregateRoot
	SyncState
	Number     string          `gorm:"uniqueIndex;not null;size:20" json:"number"`
	JobID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"job_id"`
	Status     QuoteStatus     `gorm:"not null;size:10;index" json:"status"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxRate    decimal.Decimal `gorm:"type:decimal(5,4);not null" json:"tax_rate"`
	AcceptedAt *time.Time      `json:"accepted_at,omitempty"`
}

// TableName returns the table name for GORM
func (Quote) TableName() string {
	return "quotes"
}

// NewQuote creates a draft quote for a job
func NewQuote(number string, jobID uuid.UUID, subtotal, taxRate decimal.Decimal) (*Quote, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_QUOTE_NUMBER", "Quote number cannot be empty")
	}
	if jobID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_JOB", "Quote must belong to a job")
	}
	if subtotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Quote subtotal cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1")
	}
	return &Quote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SyncState:         SyncState{SyncStatus: SyncPending},
		Number:            number,
		JobID:             jobID,
		Status:            QuoteDraft,
		Subtotal:          subtotal,
		TaxRate:           taxRate,
	}, nil
}

// Total returns the quoted amount including tax
func (q *Quote) Total() decimal.Decimal {
	return q.Subtotal.Add(q.Subtotal.Mul(q.TaxRate)).Round(2)
}

// UpdateAmounts changes the quoted amount while still a draft
func (q *Quote) UpdateAmounts(subtotal, taxRate decimal.Decimal) error {
	if q.Status != QuoteDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft quotes can be edited")
	}
	if subtotal.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Quote subtotal cannot be negative")
	}
	q.Subtotal = subtotal
	q.TaxRate = taxRate
	q.Touch()
	return nil
}

// Send marks a draft quote as sent to the client
func (q *Quote) Send() error {
	if q.Status != QuoteDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft quotes can be sent")
	}
	q.Status = QuoteSent
	q.Touch()
	return nil
}

// Accept records the client's acceptance and raises an event for the job
// context to pick up
func (q *Quote) Accept(at time.Time) error {
	if q.Status != QuoteSent {
		return shared.NewDomainError("INVALID_STATE", "Only sent quotes can be accepted")
	}
	q.Status = QuoteAccepted
	q.AcceptedAt = &at
	q.Touch()
	q.AddDomainEvent(NewQuoteAcceptedEvent(q, at))
	return nil
}

// Decline records the client's refusal
func (q *Quote) Decline() error {
	if q.Status != QuoteSent {
		return shared.NewDomainError("INVALID_STATE", "Only sent quotes can be declined")
	}
	q.Status = QuoteDeclined
	q.Touch()
	return nil
}
