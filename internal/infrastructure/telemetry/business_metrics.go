package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a nil meter is supplied
var ErrMeterNil = errors.New("meter cannot be nil")

// BusinessMetrics tracks workshop activity: job flow, stale-edit rejections,
// billing and time logging
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	jobsCreatedTotal       *Counter
	deltasRejectedTotal    *Counter
	invoicesPaidTotal      *Counter
	timeEntriesLoggedTotal *Counter
	goodsReceiptsTotal     *Counter
	hoursLogged            *Histogram
}

// NewBusinessMetrics creates a new BusinessMetrics instance
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{meter: meter, logger: logger}

	var err error
	if bm.jobsCreatedTotal, err = NewCounter(meter,
		"fabworks_jobs_created_total", "Total number of jobs created", "{jobs}"); err != nil {
		return nil, err
	}
	if bm.deltasRejectedTotal, err = NewCounter(meter,
		"fabworks_job_deltas_rejected_total", "Total number of job edits rejected for stale checksums", "{rejections}"); err != nil {
		return nil, err
	}
	if bm.invoicesPaidTotal, err = NewCounter(meter,
		"fabworks_invoices_paid_total", "Total number of invoices marked paid", "{invoices}"); err != nil {
		return nil, err
	}
	if bm.timeEntriesLoggedTotal, err = NewCounter(meter,
		"fabworks_time_entries_logged_total", "Total number of time entries logged", "{entries}"); err != nil {
		return nil, err
	}
	if bm.goodsReceiptsTotal, err = NewCounter(meter,
		"fabworks_goods_receipts_total", "Total number of purchase order receipts", "{receipts}"); err != nil {
		return nil, err
	}
	if bm.hoursLogged, err = NewHistogram(meter,
		"fabworks_time_entry_hours", "Distribution of hours per time entry", "h",
		[]float64{0.5, 1, 2, 4, 8, 12, 24}); err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordJobCreated increments the created-jobs counter
func (bm *BusinessMetrics) RecordJobCreated(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.jobsCreatedTotal.Inc(ctx)
}

// RecordDeltaRejected increments the rejected-deltas counter
func (bm *BusinessMetrics) RecordDeltaRejected(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.deltasRejectedTotal.Inc(ctx)
}

// RecordInvoicePaid increments the paid-invoices counter
func (bm *BusinessMetrics) RecordInvoicePaid(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.invoicesPaidTotal.Inc(ctx)
}

// RecordTimeEntryLogged records a logged time entry and its hours
func (bm *BusinessMetrics) RecordTimeEntryLogged(ctx context.Context, hours float64) {
	if bm == nil {
		return
	}
	bm.timeEntriesLoggedTotal.Inc(ctx)
	bm.hoursLogged.Record(ctx, hours)
}

// RecordGoodsReceipt increments the goods-receipts counter
func (bm *BusinessMetrics) RecordGoodsReceipt(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.goodsReceiptsTotal.Inc(ctx)
}
