package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/domain/shared/valueobject"
)

// InvoiceStatus mirrors the document lifecycle in the accounting system
type InvoiceStatus string

const (
	InvoiceDraft      InvoiceStatus = "DRAFT"
	InvoiceSubmitted  InvoiceStatus = "SUBMITTED"
	InvoiceAuthorised InvoiceStatus = "AUTHORISED"
	InvoicePaid       InvoiceStatus = "PAID"
	InvoiceVoided     InvoiceStatus = "VOIDED"
)

// Invoice bills a client for a job
type Invoice struct {
	shared.BaseAggregateRoot
	SyncState
	Number      string          `gorm:"uniqueIndex;not null;size:20" json:"number"`
	JobID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"job_id"`
	Status      InvoiceStatus   `gorm:"not null;size:10;index" json:"status"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Paid        bool            `gorm:"not null;default:false;index" json:"paid"`
	FullyPaidOn *time.Time      `json:"fully_paid_on,omitempty"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a draft invoice for a job
func NewInvoice(number string, jobID uuid.UUID, subtotal, taxRate decimal.Decimal) (*Invoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if jobID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_JOB", "Invoice must belong to a job")
	}
	if subtotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice subtotal cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1")
	}
	tax := subtotal.Mul(taxRate).Round(2)
	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SyncState:         SyncState{SyncStatus: SyncPending},
		Number:            number,
		JobID:             jobID,
		Status:            InvoiceDraft,
		Subtotal:          subtotal,
		Tax:               tax,
		Total:             subtotal.Add(tax),
	}, nil
}

// Submit sends a draft invoice for approval
func (i *Invoice) Submit() error {
	if i.Status != InvoiceDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be submitted")
	}
	i.Status = InvoiceSubmitted
	i.Touch()
	return nil
}

// Authorise approves a submitted invoice for payment
func (i *Invoice) Authorise() error {
	if i.Status != InvoiceSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Only submitted invoices can be authorised")
	}
	i.Status = InvoiceAuthorised
	i.Touch()
	return nil
}

// MarkPaid flags the invoice as fully paid and raises an event consumed by
// the paid-flag reconciliation and job completion logic
func (i *Invoice) MarkPaid(at time.Time) error {
	if i.Status != InvoiceAuthorised {
		return shared.NewDomainError("INVALID_STATE", "Only authorised invoices can be marked paid")
	}
	i.Status = InvoicePaid
	i.Paid = true
	i.FullyPaidOn = &at
	i.Touch()
	i.AddDomainEvent(NewInvoicePaidEvent(i, at))
	return nil
}

// AmountDue returns the outstanding balance. Paid and voided invoices owe
// nothing.
func (i *Invoice) AmountDue() valueobject.Money {
	if i.Paid || i.Status == InvoiceVoided {
		return valueobject.ZeroMoney()
	}
	return valueobject.NewMoneyNZD(i.Total)
}

// Void cancels an unpaid invoice
func (i *Invoice) Void() error {
	if i.Status == InvoicePaid || i.Status == InvoiceVoided {
		return shared.NewDomainError("INVALID_STATE", "Paid or voided invoices cannot be voided")
	}
	i.Status = InvoiceVoided
	i.Touch()
	return nil
}
