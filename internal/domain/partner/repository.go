package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/shared"
)

// Repository defines the persistence interface for clients
type Repository interface {
	Save(ctx context.Context, c *Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindByName(ctx context.Context, name string) (*Client, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*Client], error)
	Delete(ctx context.Context, id uuid.UUID) error
}
