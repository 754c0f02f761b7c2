package purchasing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabworks/backend/internal/domain/shared"
)

// Event types for the purchasing context
const (
	EventGoodsReceived = "purchasing.po.received"
)

// ReceivedLine describes one line of a goods receipt
type ReceivedLine struct {
	LineID      uuid.UUID       `json:"line_id"`
	JobID       *uuid.UUID      `json:"job_id,omitempty"`
	Description string          `json:"description"`
	MetalType   string          `json:"metal_type,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// GoodsReceivedEvent is raised when goods arrive against a purchase order.
// Job-linked lines are turned into material cost lines by the job context.
type GoodsReceivedEvent struct {
	shared.BaseDomainEvent
	Number       string         `json:"number"`
	SupplierName string         `json:"supplier_name"`
	Lines        []ReceivedLine `json:"lines"`
}

// NewGoodsReceivedEvent creates a new goods received event
func NewGoodsReceivedEvent(po *PurchaseOrder, lines []ReceivedLine) *GoodsReceivedEvent {
	return &GoodsReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventGoodsReceived, "PurchaseOrder", po.GetID()),
		Number:          po.Number,
		SupplierName:    po.SupplierName,
		Lines:           lines,
	}
}
