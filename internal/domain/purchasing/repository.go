package purchasing

import (
	"context"

	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/shared"
)

// Repository defines the persistence interface for purchase orders
type Repository interface {
	Save(ctx context.Context, po *PurchaseOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByNumber(ctx context.Context, number string) (*PurchaseOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*PurchaseOrder], error)
	FindByJob(ctx context.Context, jobID uuid.UUID) ([]*PurchaseOrder, error)
	CountByYear(ctx context.Context, year int) (int64, error)
}
