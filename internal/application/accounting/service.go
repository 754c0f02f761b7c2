package accounting

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/accounting"
	"github.com/fabworks/backend/internal/domain/shared"
)

// ErrorLogService persists operational errors so background failures stay
// visible, and lets admins review and resolve them
type ErrorLogService struct {
	records accounting.Repository
	logger  *zap.Logger
}

// NewErrorLogService creates a new error log service
func NewErrorLogService(records accounting.Repository, logger *zap.Logger) *ErrorLogService {
	return &ErrorLogService{records: records, logger: logger}
}

// Capture persists err as an error record and returns it wrapped so callers
// further up the stack do not persist it a second time. A nil or
// already-captured error passes through unchanged.
func (s *ErrorLogService) Capture(ctx context.Context, kind accounting.ErrorKind, severity accounting.Severity, err error, context string) error {
	if err == nil || accounting.IsAlreadyLogged(err) {
		return err
	}

	record, buildErr := accounting.NewAppError(kind, severity, err.Error(), context)
	if buildErr != nil {
		s.logger.Error("failed to build error record", zap.Error(buildErr), zap.Error(err))
		return err
	}
	if saveErr := s.records.Save(ctx, record); saveErr != nil {
		// The original failure matters more than the bookkeeping one
		s.logger.Error("failed to persist error record", zap.Error(saveErr), zap.Error(err))
		return err
	}

	s.logger.Error("captured error",
		zap.String("error_id", record.ID.String()),
		zap.String("kind", string(kind)),
		zap.String("severity", string(severity)),
		zap.Error(err))
	return accounting.MarkLogged(err)
}

// List returns error records matching the filter
func (s *ErrorLogService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[*accounting.AppError], error) {
	return s.records.FindAll(ctx, filter)
}

// Get loads a single error record
func (s *ErrorLogService) Get(ctx context.Context, id uuid.UUID) (*accounting.AppError, error) {
	return s.records.FindByID(ctx, id)
}

// Resolve marks an error record as dealt with
func (s *ErrorLogService) Resolve(ctx context.Context, id uuid.UUID) (*accounting.AppError, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := record.Resolve(); err != nil {
		return nil, err
	}
	if err := s.records.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// CountUnresolved returns the number of open error records
func (s *ErrorLogService) CountUnresolved(ctx context.Context) (int64, error) {
	return s.records.CountUnresolved(ctx)
}
