package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/job"
	"github.com/fabworks/backend/internal/domain/partner"
	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/infrastructure/telemetry"
)

// NumberSource issues sequential document numbers
type NumberSource interface {
	Next(ctx context.Context, table, prefix string) (string, error)
}

// Service coordinates job lifecycle and delta application
type Service struct {
	jobs       job.Repository
	rejections job.DeltaRejectionRepository
	clients    partner.Repository
	numbers    NumberSource
	bus        shared.EventPublisher
	metrics    *telemetry.BusinessMetrics
	logger     *zap.Logger
}

// NewService creates a new job service
func NewService(
	jobs job.Repository,
	rejections job.DeltaRejectionRepository,
	clients partner.Repository,
	numbers NumberSource,
	bus shared.EventPublisher,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		jobs:       jobs,
		rejections: rejections,
		clients:    clients,
		numbers:    numbers,
		bus:        bus,
		metrics:    metrics,
		logger:     logger,
	}
}

// CreateJobCommand carries the input for creating a job
type CreateJobCommand struct {
	Name          string                 `json:"name" binding:"required"`
	ClientID      uuid.UUID              `json:"client_id" binding:"required"`
	ClientContact string                 `json:"client_contact"`
	Description   string                 `json:"description"`
	OrderNumber   string                 `json:"order_number"`
	Notes         string                 `json:"notes"`
	Pricing       job.PricingMethodology `json:"pricing"`
	DeliveryDate  *time.Time             `json:"delivery_date"`
	Complexity    int                    `json:"complexity"`
}

// CreateJob creates a new job for an existing client and assigns it a number
func (s *Service) CreateJob(ctx context.Context, cmd CreateJobCommand) (*job.Job, error) {
	client, err := s.clients.FindByID(ctx, cmd.ClientID)
	if err != nil {
		return nil, err
	}
	if client.Archived {
		return nil, shared.NewDomainError("CLIENT_ARCHIVED", "Cannot create a job for an archived client")
	}

	number, err := s.numbers.Next(ctx, "jobs", "J")
	if err != nil {
		return nil, err
	}

	j, err := job.NewJob(number, cmd.Name, cmd.ClientID, cmd.Pricing)
	if err != nil {
		return nil, err
	}
	j.ClientContact = cmd.ClientContact
	j.Description = cmd.Description
	j.OrderNumber = cmd.OrderNumber
	j.Notes = cmd.Notes
	j.DeliveryDate = cmd.DeliveryDate
	j.Complexity = cmd.Complexity

	if err := s.jobs.Save(ctx, j); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, j)
	s.metrics.RecordJobCreated(ctx)
	s.logger.Info("job created",
		zap.String("number", j.Number),
		zap.String("client_id", j.ClientID.String()))
	return j, nil
}

// GetJob loads a job by ID
func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	return s.jobs.FindByID(ctx, id)
}

// GetJobByNumber loads a job by its job number
func (s *Service) GetJobByNumber(ctx context.Context, number string) (*job.Job, error) {
	return s.jobs.FindByNumber(ctx, number)
}

// ListJobs returns jobs matching the filter
func (s *Service) ListJobs(ctx context.Context, filter shared.Filter) (shared.Paginated[*job.Job], error) {
	return s.jobs.FindAll(ctx, filter)
}

// JobChecksum returns the current delta checksum for a job
func (s *Service) JobChecksum(ctx context.Context, id uuid.UUID) (string, error) {
	j, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return job.Checksum(j), nil
}

// ApplyDelta applies a partial edit to a job, guarded by the checksum the
// caller loaded. A mismatch means the job changed underneath them: the
// attempt is recorded for audit and rejected.
func (s *Service) ApplyDelta(ctx context.Context, jobID, staffID uuid.UUID, baseChecksum string, delta job.Delta) (*job.Job, error) {
	j, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if delta.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_DELTA", "Delta contains no changes")
	}

	current := job.Checksum(j)
	if baseChecksum != current {
		if err := s.recordRejection(ctx, j, staffID, baseChecksum, current, delta); err != nil {
			s.logger.Error("failed to record delta rejection",
				zap.String("job", j.Number), zap.Error(err))
		}
		return nil, shared.ErrChecksumMismatch
	}

	delta.Apply(j)
	if err := s.jobs.SaveWithLock(ctx, j); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, j)
	return j, nil
}

func (s *Service) recordRejection(ctx context.Context, j *job.Job, staffID uuid.UUID, submitted, current string, delta job.Delta) error {
	payload, err := json.Marshal(delta)
	if err != nil {
		return err
	}
	rejection := job.NewDeltaRejection(j.GetID(), staffID, submitted, current,
		string(payload), "stale checksum")
	if err := s.rejections.Save(ctx, rejection); err != nil {
		return err
	}

	event := job.NewJobDeltaRejectedEvent(j.GetID(), staffID, submitted, current)
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish delta rejection event", zap.Error(err))
	}
	s.metrics.RecordDeltaRejected(ctx)
	s.logger.Info("job delta rejected",
		zap.String("number", j.Number),
		zap.String("staff_id", staffID.String()))
	return nil
}

// ListRejections returns the delta rejection history for a job
func (s *Service) ListRejections(ctx context.Context, jobID uuid.UUID, filter shared.Filter) (shared.Paginated[*job.DeltaRejection], error) {
	if _, err := s.jobs.FindByID(ctx, jobID); err != nil {
		return shared.Paginated[*job.DeltaRejection]{}, err
	}
	return s.rejections.FindByJob(ctx, jobID, filter)
}

// AcceptQuote marks the job's quote as accepted
func (s *Service) AcceptQuote(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	return s.transition(ctx, id, func(j *job.Job) error {
		return j.AcceptQuote(time.Now())
	})
}

// Start moves a job into progress
func (s *Service) Start(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	return s.transition(ctx, id, (*job.Job).Start)
}

// Pause flags a job as paused
func (s *Service) Pause(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	return s.transition(ctx, id, (*job.Job).Pause)
}

// Resume clears a job's paused flag
func (s *Service) Resume(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	return s.transition(ctx, id, (*job.Job).Resume)
}

// Complete marks a job recently completed
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	return s.transition(ctx, id, (*job.Job).Complete)
}

// Reject rejects a job that has not started
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string) (*job.Job, error) {
	return s.transition(ctx, id, func(j *job.Job) error {
		return j.Reject(reason)
	})
}

// AssignPerson adds a staff member to a job
func (s *Service) AssignPerson(ctx context.Context, id, staffID uuid.UUID) (*job.Job, error) {
	return s.transition(ctx, id, func(j *job.Job) error {
		return j.AssignPerson(staffID)
	})
}

// UnassignPerson removes a staff member from a job
func (s *Service) UnassignPerson(ctx context.Context, id, staffID uuid.UUID) (*job.Job, error) {
	return s.transition(ctx, id, func(j *job.Job) error {
		return j.UnassignPerson(staffID)
	})
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, op func(*job.Job) error) (*job.Job, error) {
	j, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(j); err != nil {
		return nil, err
	}
	if err := s.jobs.SaveWithLock(ctx, j); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, j)
	return j, nil
}

// ArchiveCompletedBefore archives recently completed jobs older than the
// cutoff. Returns the number archived.
func (s *Service) ArchiveCompletedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := s.jobs.FindRecentlyCompletedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	archived := 0
	for _, j := range stale {
		if err := j.Archive(); err != nil {
			s.logger.Warn("skipping job that cannot be archived",
				zap.String("number", j.Number), zap.Error(err))
			continue
		}
		if err := s.jobs.SaveWithLock(ctx, j); err != nil {
			s.logger.Error("failed to archive job",
				zap.String("number", j.Number), zap.Error(err))
			continue
		}
		s.publishEvents(ctx, j)
		archived++
	}
	return archived, nil
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
