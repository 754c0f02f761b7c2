package job

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/shared"
)

// Repository defines the persistence interface for jobs
type Repository interface {
	Save(ctx context.Context, j *Job) error
	SaveWithLock(ctx context.Context, j *Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*Job, error)
	FindByNumber(ctx context.Context, number string) (*Job, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*Job], error)
	FindByStatus(ctx context.Context, status JobStatus) ([]*Job, error)
	FindRecentlyCompletedBefore(ctx context.Context, cutoff time.Time) ([]*Job, error)
	CountByYear(ctx context.Context, year int) (int64, error)
	ReassignClient(ctx context.Context, fromClientID, toClientID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CostSetRepository defines the persistence interface for cost sets
type CostSetRepository interface {
	Save(ctx context.Context, cs *CostSet) error
	FindByID(ctx context.Context, id uuid.UUID) (*CostSet, error)
	FindByJobKindRev(ctx context.Context, jobID uuid.UUID, kind CostSetKind, rev int) (*CostSet, error)
	FindLatest(ctx context.Context, jobID uuid.UUID, kind CostSetKind) (*CostSet, error)
	FindByJob(ctx context.Context, jobID uuid.UUID) ([]*CostSet, error)
}

// DeltaRejectionRepository defines the persistence interface for rejected deltas
type DeltaRejectionRepository interface {
	Save(ctx context.Context, r *DeltaRejection) error
	FindByJob(ctx context.Context, jobID uuid.UUID, filter shared.Filter) (shared.Paginated[*DeltaRejection], error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
