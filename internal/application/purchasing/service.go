package purchasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/purchasing"
	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/infrastructure/telemetry"
)

// NumberSource issues sequential document numbers
type NumberSource interface {
	Next(ctx context.Context, table, prefix string) (string, error)
}

// Service manages purchase orders and goods receipts
type Service struct {
	orders  purchasing.Repository
	numbers NumberSource
	bus     shared.EventPublisher
	metrics *telemetry.BusinessMetrics
	logger  *zap.Logger
}

// NewService creates a new purchasing service
func NewService(
	orders purchasing.Repository,
	numbers NumberSource,
	bus shared.EventPublisher,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		orders:  orders,
		numbers: numbers,
		bus:     bus,
		metrics: metrics,
		logger:  logger,
	}
}

// LineCommand carries the input for one purchase order line
type LineCommand struct {
	Description string          `json:"description" binding:"required"`
	ItemCode    string          `json:"item_code"`
	MetalType   string          `json:"metal_type"`
	JobID       *uuid.UUID      `json:"job_id"`
	OrderedQty  decimal.Decimal `json:"ordered_qty"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// CreateOrderCommand carries the input for creating a purchase order
type CreateOrderCommand struct {
	SupplierName string        `json:"supplier_name" binding:"required"`
	SupplierRef  string        `json:"supplier_ref"`
	Reference    string        `json:"reference"`
	Lines        []LineCommand `json:"lines"`
}

// CreateOrder creates a draft purchase order with its initial lines
func (s *Service) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*purchasing.PurchaseOrder, error) {
	number, err := s.numbers.Next(ctx, "purchase_orders", "PO")
	if err != nil {
		return nil, err
	}
	po, err := purchasing.NewPurchaseOrder(number, cmd.SupplierName, cmd.SupplierRef)
	if err != nil {
		return nil, err
	}
	po.Reference = cmd.Reference
	for _, line := range cmd.Lines {
		if _, err := po.AddLine(line.Description, line.ItemCode, line.MetalType,
			line.JobID, line.OrderedQty, line.UnitCost); err != nil {
			return nil, err
		}
	}

	if err := s.orders.Save(ctx, po); err != nil {
		return nil, err
	}
	s.logger.Info("purchase order created",
		zap.String("number", po.Number), zap.String("supplier", po.SupplierName))
	return po, nil
}

// GetOrder loads a purchase order by ID
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	return s.orders.FindByID(ctx, id)
}

// ListOrders returns purchase orders matching the filter
func (s *Service) ListOrders(ctx context.Context, filter shared.Filter) (shared.Paginated[*purchasing.PurchaseOrder], error) {
	return s.orders.FindAll(ctx, filter)
}

// AddLine adds a line to a draft order
func (s *Service) AddLine(ctx context.Context, orderID uuid.UUID, cmd LineCommand) (*purchasing.PurchaseOrder, error) {
	po, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := po.AddLine(cmd.Description, cmd.ItemCode, cmd.MetalType,
		cmd.JobID, cmd.OrderedQty, cmd.UnitCost); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// RemoveLine removes a line from a draft order
func (s *Service) RemoveLine(ctx context.Context, orderID, lineID uuid.UUID) (*purchasing.PurchaseOrder, error) {
	po, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := po.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// SubmitOrder submits a draft order to the supplier
func (s *Service) SubmitOrder(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := po.Submit(); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, po); err != nil {
		return nil, err
	}
	s.logger.Info("purchase order submitted", zap.String("number", po.Number))
	return po, nil
}

// ReceiveGoods records delivered quantities against an order. Job-linked
// receipt lines flow into the job's actual costs via the published event.
func (s *Service) ReceiveGoods(ctx context.Context, id uuid.UUID, receipts []purchasing.Receipt) (*purchasing.PurchaseOrder, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := po.Receive(receipts); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, po); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, po)
	s.metrics.RecordGoodsReceipt(ctx)
	s.logger.Info("goods received",
		zap.String("number", po.Number),
		zap.String("status", string(po.Status)),
		zap.Int("lines", len(receipts)))
	return po, nil
}

// VoidOrder voids a draft or submitted order
func (s *Service) VoidOrder(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	po, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := po.Void(); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
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
