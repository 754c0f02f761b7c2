package job

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/job"
	"github.com/fabworks/backend/internal/domain/shared"
)

// CostingService manages the versioned cost sets of a job
type CostingService struct {
	jobs     job.Repository
	costSets job.CostSetRepository
	logger   *zap.Logger
}

// NewCostingService creates a new costing service
func NewCostingService(jobs job.Repository, costSets job.CostSetRepository, logger *zap.Logger) *CostingService {
	return &CostingService{
		jobs:     jobs,
		costSets: costSets,
		logger:   logger,
	}
}

// CreateRevision creates the next revision of a cost set kind for a job.
// When copyLatest is set the previous revision's lines are carried over,
// except sourced lines which always stay with the revision they were
// generated into.
func (s *CostingService) CreateRevision(ctx context.Context, jobID uuid.UUID, kind job.CostSetKind, copyLatest bool) (*job.CostSet, error) {
	j, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	rev := j.LatestRev(kind) + 1
	cs, err := job.NewCostSet(jobID, kind, rev)
	if err != nil {
		return nil, err
	}

	if copyLatest && rev > 1 {
		prev, err := s.costSets.FindByJobKindRev(ctx, jobID, kind, rev-1)
		if err != nil {
			return nil, err
		}
		for _, line := range prev.Lines {
			if line.SourceID != nil {
				continue
			}
			if _, err := cs.AddLine(line.Kind, line.Description,
				line.Quantity, line.UnitCost, line.UnitRevenue); err != nil {
				return nil, err
			}
		}
	}

	// The job's revision bump must land before the cost set itself: a lost
	// version race then leaves nothing behind, and a clean retry recomputes
	// the revision number against the winner's state instead of colliding
	// with an orphaned cost set on the (job, kind, rev) unique index.
	if err := j.SetLatestRev(kind, rev); err != nil {
		return nil, err
	}
	if err := s.jobs.SaveWithLock(ctx, j); err != nil {
		return nil, err
	}
	if err := s.costSets.Save(ctx, cs); err != nil {
		return nil, err
	}
	s.logger.Info("cost set revision created",
		zap.String("job", j.Number),
		zap.String("kind", string(kind)),
		zap.Int("rev", rev))
	return cs, nil
}

// GetRevision returns a specific revision of a cost set
func (s *CostingService) GetRevision(ctx context.Context, jobID uuid.UUID, kind job.CostSetKind, rev int) (*job.CostSet, error) {
	return s.costSets.FindByJobKindRev(ctx, jobID, kind, rev)
}

// GetLatest returns the latest revision of a cost set kind
func (s *CostingService) GetLatest(ctx context.Context, jobID uuid.UUID, kind job.CostSetKind) (*job.CostSet, error) {
	return s.costSets.FindLatest(ctx, jobID, kind)
}

// ListByJob returns all cost sets of a job
func (s *CostingService) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*job.CostSet, error) {
	return s.costSets.FindByJob(ctx, jobID)
}

// AddLineCommand carries the input for adding a cost line
type AddLineCommand struct {
	Kind        job.CostLineKind `json:"kind" binding:"required"`
	Description string           `json:"description" binding:"required"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    decimal.Decimal  `json:"unit_cost"`
	UnitRevenue decimal.Decimal  `json:"unit_revenue"`
}

// AddLine adds a manual line to a cost set
func (s *CostingService) AddLine(ctx context.Context, costSetID uuid.UUID, cmd AddLineCommand) (*job.CostSet, error) {
	cs, err := s.costSets.FindByID(ctx, costSetID)
	if err != nil {
		return nil, err
	}
	if _, err := cs.AddLine(cmd.Kind, cmd.Description, cmd.Quantity, cmd.UnitCost, cmd.UnitRevenue); err != nil {
		return nil, err
	}
	if err := s.costSets.Save(ctx, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// UpdateLine updates a manual line on a cost set
func (s *CostingService) UpdateLine(ctx context.Context, costSetID, lineID uuid.UUID, cmd AddLineCommand) (*job.CostSet, error) {
	cs, err := s.costSets.FindByID(ctx, costSetID)
	if err != nil {
		return nil, err
	}
	if err := cs.UpdateLine(lineID, cmd.Description, cmd.Quantity, cmd.UnitCost, cmd.UnitRevenue); err != nil {
		return nil, err
	}
	if err := s.costSets.Save(ctx, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// RemoveLine removes a manual line from a cost set
func (s *CostingService) RemoveLine(ctx context.Context, costSetID, lineID uuid.UUID) (*job.CostSet, error) {
	cs, err := s.costSets.FindByID(ctx, costSetID)
	if err != nil {
		return nil, err
	}
	if err := cs.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.costSets.Save(ctx, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// appendActualLine appends a sourced line to the job's latest ACTUAL cost
// set, creating revision 1 if the job has none yet
func (s *CostingService) appendActualLine(ctx context.Context, jobID uuid.UUID, kind job.CostLineKind, description string, quantity, unitCost, unitRevenue decimal.Decimal, sourceID uuid.UUID, sourceType string) error {
	cs, err := s.costSets.FindLatest(ctx, jobID, job.CostSetActual)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if cs, err = s.CreateRevision(ctx, jobID, job.CostSetActual, false); err != nil {
			return err
		}
	}

	if _, err := cs.AddSourcedLine(kind, description, quantity, unitCost, unitRevenue, sourceID, sourceType); err != nil {
		return err
	}
	return s.costSets.Save(ctx, cs)
}
