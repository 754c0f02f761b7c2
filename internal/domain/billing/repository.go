package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/shared"
)

// QuoteRepository defines the persistence interface for quotes
type QuoteRepository interface {
	Save(ctx context.Context, q *Quote) error
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	FindByNumber(ctx context.Context, number string) (*Quote, error)
	FindByJob(ctx context.Context, jobID uuid.UUID) ([]*Quote, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*Quote], error)
	CountByYear(ctx context.Context, year int) (int64, error)
}

// InvoiceRepository defines the persistence interface for invoices
type InvoiceRepository interface {
	Save(ctx context.Context, i *Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, number string) (*Invoice, error)
	FindByJob(ctx context.Context, jobID uuid.UUID) ([]*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*Invoice], error)
	FindAuthorisedUnpaid(ctx context.Context) ([]*Invoice, error)
	CountByYear(ctx context.Context, year int) (int64, error)
}
