package accounting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/accounting"
	"github.com/fabworks/backend/internal/infrastructure/config"
	"github.com/fabworks/backend/internal/infrastructure/scheduler"
)

// PaidFlagReconciler pulls payment state for synced invoices
type PaidFlagReconciler interface {
	ReconcilePaidFlags(ctx context.Context) (int, error)
}

// JobArchiver moves stale recently-completed jobs to the archive
type JobArchiver interface {
	ArchiveCompletedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// RejectionPruner deletes old rejected-delta audit records
type RejectionPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ErrorPruner deletes old resolved error records
type ErrorPruner interface {
	DeleteResolvedOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NightlyExecutor runs the nightly maintenance sweep. Failures are captured
// to the error log so they survive the scheduler's retries.
type NightlyExecutor struct {
	reconciler PaidFlagReconciler
	archiver   JobArchiver
	rejections RejectionPruner
	errors     ErrorPruner
	errorLog   *ErrorLogService
	retention  config.RetentionConfig
	logger     *zap.Logger
}

// NewNightlyExecutor creates the executor behind the nightly scheduler
func NewNightlyExecutor(
	reconciler PaidFlagReconciler,
	archiver JobArchiver,
	rejections RejectionPruner,
	errors ErrorPruner,
	errorLog *ErrorLogService,
	retention config.RetentionConfig,
	logger *zap.Logger,
) *NightlyExecutor {
	return &NightlyExecutor{
		reconciler: reconciler,
		archiver:   archiver,
		rejections: rejections,
		errors:     errors,
		errorLog:   errorLog,
		retention:  retention,
		logger:     logger.Named("nightly"),
	}
}

// Execute dispatches a single maintenance task
func (e *NightlyExecutor) Execute(ctx context.Context, task *scheduler.Task) error {
	var err error
	switch task.Type {
	case scheduler.TaskInvoiceReconciliation:
		err = e.reconcileInvoices(ctx)
	case scheduler.TaskJobArchival:
		err = e.archiveJobs(ctx)
	case scheduler.TaskDeltaRejectionPrune:
		err = e.pruneRejections(ctx)
	case scheduler.TaskAppErrorPrune:
		err = e.pruneErrors(ctx)
	default:
		return fmt.Errorf("%w: %s", scheduler.ErrUnknownTaskType, task.Type)
	}

	if err != nil && e.errorLog != nil {
		err = e.errorLog.Capture(ctx, accounting.KindApp, accounting.SeverityError, err,
			fmt.Sprintf("nightly task %s", task.Type))
	}
	return err
}

func (e *NightlyExecutor) reconcileInvoices(ctx context.Context) error {
	reconciled, err := e.reconciler.ReconcilePaidFlags(ctx)
	if err != nil {
		return fmt.Errorf("invoice reconciliation: %w", err)
	}
	e.logger.Info("invoice reconciliation finished", zap.Int("reconciled", reconciled))
	return nil
}

func (e *NightlyExecutor) archiveJobs(ctx context.Context) error {
	cutoff := time.Now().Add(-e.retention.CompletedJobAge)
	archived, err := e.archiver.ArchiveCompletedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("job archival: %w", err)
	}
	e.logger.Info("job archival finished", zap.Int("archived", archived))
	return nil
}

func (e *NightlyExecutor) pruneRejections(ctx context.Context) error {
	cutoff := time.Now().Add(-e.retention.DeltaRejectionAge)
	pruned, err := e.rejections.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delta rejection prune: %w", err)
	}
	e.logger.Info("delta rejection prune finished", zap.Int64("pruned", pruned))
	return nil
}

func (e *NightlyExecutor) pruneErrors(ctx context.Context) error {
	cutoff := time.Now().Add(-e.retention.ResolvedAppErrorAge)
	pruned, err := e.errors.DeleteResolvedOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("app error prune: %w", err)
	}
	e.logger.Info("app error prune finished", zap.Int64("pruned", pruned))
	return nil
}
