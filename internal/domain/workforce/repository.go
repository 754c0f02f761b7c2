package workforce

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fabworks/backend/internal/domain/shared"
)

// StaffRepository defines the persistence interface for staff
type StaffRepository interface {
	Save(ctx context.Context, s *Staff) error
	FindByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	FindByEmail(ctx context.Context, email string) (*Staff, error)
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[*Staff], error)
}

// TimeEntryRepository defines the persistence interface for time entries
type TimeEntryRepository interface {
	Save(ctx context.Context, e *TimeEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*TimeEntry, error)
	FindByStaffAndDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]*TimeEntry, error)
	FindByStaffAndRange(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*TimeEntry, error)
	FindByJob(ctx context.Context, jobID uuid.UUID) ([]*TimeEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
