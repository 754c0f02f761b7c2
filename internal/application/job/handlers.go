package job

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/billing"
	"github.com/fabworks/backend/internal/domain/job"
	"github.com/fabworks/backend/internal/domain/partner"
	"github.com/fabworks/backend/internal/domain/purchasing"
	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/domain/workforce"
)

// QuoteAcceptedHandler moves a job to ACCEPTED_QUOTE when its quote is
// accepted in the billing context
type QuoteAcceptedHandler struct {
	jobs   job.Repository
	bus    shared.EventPublisher
	logger *zap.Logger
}

// NewQuoteAcceptedHandler creates a new quote accepted handler
func NewQuoteAcceptedHandler(jobs job.Repository, bus shared.EventPublisher, logger *zap.Logger) *QuoteAcceptedHandler {
	return &QuoteAcceptedHandler{jobs: jobs, bus: bus, logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *QuoteAcceptedHandler) EventTypes() []string {
	return []string{billing.EventQuoteAccepted}
}

// Handle processes a quote accepted event
func (h *QuoteAcceptedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	accepted, ok := event.(*billing.QuoteAcceptedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	j, err := h.jobs.FindByID(ctx, accepted.JobID)
	if err != nil {
		return err
	}
	if j.Status != job.StatusQuoting {
		h.logger.Debug("ignoring quote acceptance for job past quoting",
			zap.String("job", j.Number), zap.String("status", string(j.Status)))
		return nil
	}
	if err := j.AcceptQuote(accepted.AcceptedAt); err != nil {
		return err
	}
	if err := h.jobs.SaveWithLock(ctx, j); err != nil {
		return err
	}
	if err := h.bus.Publish(ctx, j.GetDomainEvents()...); err != nil {
		h.logger.Warn("failed to publish job events", zap.Error(err))
	}
	j.ClearDomainEvents()
	h.logger.Info("job quote accepted",
		zap.String("job", j.Number), zap.String("quote", accepted.Number))
	return nil
}

// TimeLoggedHandler turns logged time into TIME lines on the job's latest
// actual cost set
type TimeLoggedHandler struct {
	costing *CostingService
	logger  *zap.Logger
}

// NewTimeLoggedHandler creates a new time logged handler
func NewTimeLoggedHandler(costing *CostingService, logger *zap.Logger) *TimeLoggedHandler {
	return &TimeLoggedHandler{costing: costing, logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *TimeLoggedHandler) EventTypes() []string {
	return []string{workforce.EventTimeLogged}
}

// Handle processes a time logged event
func (h *TimeLoggedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	logged, ok := event.(*workforce.TimeLoggedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	revenue := logged.ChargeOutRate
	if !logged.Billable {
		revenue = decimal.Zero
	}
	description := logged.StaffName + " - " + logged.EntryDate.Format("2006-01-02")
	return h.costing.appendActualLine(ctx, logged.JobID, job.CostLineTime,
		description, logged.Hours, logged.WageRate, revenue,
		event.AggregateID(), "time_entry")
}

// GoodsReceivedHandler turns job-allocated purchase receipts into MATERIAL
// lines on the job's latest actual cost set
type GoodsReceivedHandler struct {
	costing *CostingService
	logger  *zap.Logger
}

// NewGoodsReceivedHandler creates a new goods received handler
func NewGoodsReceivedHandler(costing *CostingService, logger *zap.Logger) *GoodsReceivedHandler {
	return &GoodsReceivedHandler{costing: costing, logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *GoodsReceivedHandler) EventTypes() []string {
	return []string{purchasing.EventGoodsReceived}
}

// Handle processes a goods received event
func (h *GoodsReceivedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	received, ok := event.(*purchasing.GoodsReceivedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	for _, line := range received.Lines {
		if line.JobID == nil {
			continue
		}
		description := line.Description + " (" + received.Number + ")"
		// Materials are billed at cost; markup is applied on quote lines
		if err := h.costing.appendActualLine(ctx, *line.JobID, job.CostLineMaterial,
			description, line.Quantity, line.UnitCost, line.UnitCost,
			line.LineID, "po_receipt"); err != nil {
			return err
		}
	}
	return nil
}

// ClientMergedHandler repoints jobs from a merged client to the survivor
type ClientMergedHandler struct {
	jobs   job.Repository
	logger *zap.Logger
}

// NewClientMergedHandler creates a new client merged handler
func NewClientMergedHandler(jobs job.Repository, logger *zap.Logger) *ClientMergedHandler {
	return &ClientMergedHandler{jobs: jobs, logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *ClientMergedHandler) EventTypes() []string {
	return []string{partner.EventClientMerged}
}

// Handle processes a client merged event
func (h *ClientMergedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	merged, ok := event.(*partner.ClientMergedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	moved, err := h.jobs.ReassignClient(ctx, event.AggregateID(), merged.SurvivorID)
	if err != nil {
		return err
	}
	h.logger.Info("jobs repointed after client merge",
		zap.String("from", event.AggregateID().String()),
		zap.String("to", merged.SurvivorID.String()),
		zap.Int64("jobs", moved))
	return nil
}
