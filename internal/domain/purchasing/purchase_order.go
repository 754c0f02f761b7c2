package purchasing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabworks/backend/internal/domain/shared"
)

// POStatus represents the lifecycle state of a purchase order
type POStatus string

const (
	PODraft             POStatus = "DRAFT"
	POSubmitted         POStatus = "SUBMITTED"
	POPartiallyReceived POStatus = "PARTIALLY_RECEIVED"
	POFullyReceived     POStatus = "FULLY_RECEIVED"
	POVoid              POStatus = "VOID"
)

// PurchaseOrder orders materials from a supplier, optionally against jobs
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	Number       string              `gorm:"uniqueIndex;not null;size:20" json:"number"`
	SupplierName string              `gorm:"not null;size:255" json:"supplier_name"`
	SupplierRef  string              `gorm:"size:100" json:"supplier_ref,omitempty"`
	Status       POStatus            `gorm:"not null;size:20;index" json:"status"`
	Reference    string              `gorm:"size:100" json:"reference,omitempty"`
	Lines        []PurchaseOrderLine `gorm:"foreignKey:PurchaseOrderID" json:"lines"`
	TotalCost    decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"total_cost"`
}

// PurchaseOrderLine is one ordered item, optionally costed against a job
type PurchaseOrderLine struct {
	shared.BaseEntity
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	Description     string          `gorm:"not null;size:500" json:"description"`
	ItemCode        string          `gorm:"size:50" json:"item_code,omitempty"`
	MetalType       string          `gorm:"size:50" json:"metal_type,omitempty"`
	JobID           *uuid.UUID      `gorm:"type:uuid;index" json:"job_id,omitempty"`
	OrderedQty      decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"ordered_qty"`
	ReceivedQty     decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"received_qty"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"unit_cost"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// TableName returns the table name for GORM
func (PurchaseOrderLine) TableName() string {
	return "purchase_order_lines"
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(number, supplierName, supplierRef string) (*PurchaseOrder, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_PO_NUMBER", "Purchase order number cannot be empty")
	}
	if strings.TrimSpace(supplierName) == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}
	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		SupplierName:      supplierName,
		SupplierRef:       supplierRef,
		Status:            PODraft,
		TotalCost:         decimal.Zero,
	}, nil
}

// AddLine adds an item to a draft order
func (po *PurchaseOrder) AddLine(description, itemCode, metalType string, jobID *uuid.UUID, orderedQty, unitCost decimal.Decimal) (*PurchaseOrderLine, error) {
	if po.Status != PODraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Lines can only be added to draft orders")
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Line description cannot be empty")
	}
	if !orderedQty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	line := PurchaseOrderLine{
		BaseEntity:      shared.NewBaseEntity(),
		PurchaseOrderID: po.GetID(),
		Description:     description,
		ItemCode:        itemCode,
		MetalType:       metalType,
		JobID:           jobID,
		OrderedQty:      orderedQty,
		ReceivedQty:     decimal.Zero,
		UnitCost:        unitCost,
	}
	po.Lines = append(po.Lines, line)
	po.recalculateTotals()
	return &po.Lines[len(po.Lines)-1], nil
}

// RemoveLine removes an item from a draft order
func (po *PurchaseOrder) RemoveLine(lineID uuid.UUID) error {
	if po.Status != PODraft {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be removed from draft orders")
	}
	for i := range po.Lines {
		if po.Lines[i].ID == lineID {
			po.Lines = append(po.Lines[:i], po.Lines[i+1:]...)
			po.recalculateTotals()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Line not found on this purchase order")
}

// Submit sends the order to the supplier
func (po *PurchaseOrder) Submit() error {
	if po.Status != PODraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be submitted")
	}
	if len(po.Lines) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot submit an order with no lines")
	}
	po.Status = POSubmitted
	po.Touch()
	return nil
}

// Receipt records goods received against one line
type Receipt struct {
	LineID   uuid.UUID       `json:"line_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Receive records delivered quantities against the order's lines. Receipts
// against job-linked lines raise an event so actual job costs pick them up.
func (po *PurchaseOrder) Receive(receipts []Receipt) error {
	if po.Status != POSubmitted && po.Status != POPartiallyReceived {
		return shared.NewDomainError("INVALID_STATE", "Only submitted orders can receive goods")
	}
	if len(receipts) == 0 {
		return shared.NewDomainError("EMPTY_RECEIPT", "Receipt must cover at least one line")
	}

	received := make([]ReceivedLine, 0, len(receipts))
	for _, r := range receipts {
		if !r.Quantity.IsPositive() {
			return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
		}
		line := po.lineByID(r.LineID)
		if line == nil {
			return shared.NewDomainError("LINE_NOT_FOUND", "Line not found on this purchase order")
		}
		if line.ReceivedQty.Add(r.Quantity).GreaterThan(line.OrderedQty) {
			return shared.NewDomainError("OVER_RECEIPT", "Cannot receive more than was ordered")
		}
	}
	for _, r := range receipts {
		line := po.lineByID(r.LineID)
		line.ReceivedQty = line.ReceivedQty.Add(r.Quantity)
		line.Touch()
		received = append(received, ReceivedLine{
			LineID:      line.ID,
			JobID:       line.JobID,
			Description: line.Description,
			MetalType:   line.MetalType,
			Quantity:    r.Quantity,
			UnitCost:    line.UnitCost,
		})
	}

	if po.fullyReceived() {
		po.Status = POFullyReceived
	} else {
		po.Status = POPartiallyReceived
	}
	po.Touch()
	po.AddDomainEvent(NewGoodsReceivedEvent(po, received))
	return nil
}

// Void cancels an order before any goods arrive
func (po *PurchaseOrder) Void() error {
	if po.Status != PODraft && po.Status != POSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Only draft or submitted orders can be voided")
	}
	po.Status = POVoid
	po.Touch()
	return nil
}

func (po *PurchaseOrder) lineByID(id uuid.UUID) *PurchaseOrderLine {
	for i := range po.Lines {
		if po.Lines[i].ID == id {
			return &po.Lines[i]
		}
	}
	return nil
}

func (po *PurchaseOrder) fullyReceived() bool {
	for i := range po.Lines {
		if po.Lines[i].ReceivedQty.LessThan(po.Lines[i].OrderedQty) {
			return false
		}
	}
	return true
}

func (po *PurchaseOrder) recalculateTotals() {
	total := decimal.Zero
	for i := range po.Lines {
		total = total.Add(po.Lines[i].OrderedQty.Mul(po.Lines[i].UnitCost))
	}
	po.TotalCost = total.Round(2)
	po.Touch()
}
