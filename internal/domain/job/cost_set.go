package job

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabworks/backend/internal/domain/shared"
)

// CostSetKind identifies which costing view a cost set belongs to
type CostSetKind string

const (
	CostSetEstimate CostSetKind = "ESTIMATE"
	CostSetQuote    CostSetKind = "QUOTE"
	CostSetActual   CostSetKind = "ACTUAL"
)

// CostLineKind identifies what a cost line represents
type CostLineKind string

const (
	CostLineTime       CostLineKind = "TIME"
	CostLineMaterial   CostLineKind = "MATERIAL"
	CostLineAdjustment CostLineKind = "ADJUSTMENT"
)

// CostSet is an immutable-by-revision snapshot of a job's costing.
// A new revision is created rather than editing a superseded one.
type CostSet struct {
	shared.BaseAggregateRoot
	JobID uuid.UUID   `gorm:"type:uuid;not null;index:idx_cost_sets_job_kind_rev,unique" json:"job_id"`
	Kind  CostSetKind `gorm:"not null;size:10;index:idx_cost_sets_job_kind_rev,unique" json:"kind"`
	Rev   int         `gorm:"not null;index:idx_cost_sets_job_kind_rev,unique" json:"rev"`
	Lines []CostLine  `gorm:"foreignKey:CostSetID" json:"lines"`

	// Summary totals, always recomputed from lines on change
	TotalCost    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_cost"`
	TotalRevenue decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_revenue"`
	TotalHours   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_hours"`
}

// CostLine is a single costed item within a cost set
type CostLine struct {
	shared.BaseEntity
	CostSetID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"cost_set_id"`
	Kind        CostLineKind    `gorm:"not null;size:12" json:"kind"`
	Description string          `gorm:"not null;size:500" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"quantity"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"unit_cost"`
	UnitRevenue decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"unit_revenue"`

	// Source aggregate for lines generated from time entries or PO receipts
	SourceID   *uuid.UUID `gorm:"type:uuid" json:"source_id,omitempty"`
	SourceType string     `gorm:"size:50" json:"source_type,omitempty"`
	Meta       string     `gorm:"type:text" json:"meta,omitempty"`
}

// TableName returns the table name for GORM
func (CostSet) TableName() string {
	return "cost_sets"
}

// TableName returns the table name for GORM
func (CostLine) TableName() string {
	return "cost_lines"
}

// NewCostSet creates a new cost set revision for a job
func NewCostSet(jobID uuid.UUID, kind CostSetKind, rev int) (*CostSet, error) {
	if jobID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_JOB", "Cost set must belong to a job")
	}
	if kind != CostSetEstimate && kind != CostSetQuote && kind != CostSetActual {
		return nil, shared.NewDomainError("INVALID_COST_SET_KIND", "Unknown cost set kind")
	}
	if rev < 1 {
		return nil, shared.NewDomainError("INVALID_REV", "Cost set revision must be at least 1")
	}
	return &CostSet{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		JobID:             jobID,
		Kind:              kind,
		Rev:               rev,
		TotalCost:         decimal.Zero,
		TotalRevenue:      decimal.Zero,
		TotalHours:        decimal.Zero,
	}, nil
}

func validateLine(kind CostLineKind, description string, quantity decimal.Decimal) error {
	if kind != CostLineTime && kind != CostLineMaterial && kind != CostLineAdjustment {
		return shared.NewDomainError("INVALID_COST_LINE_KIND", "Unknown cost line kind")
	}
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Cost line description cannot be empty")
	}
	// Adjustments carry sign in the unit cost, so quantity stays positive for
	// every kind
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Cost line quantity must be positive")
	}
	return nil
}

// AddLine appends a manually entered cost line and recomputes the summary
func (cs *CostSet) AddLine(kind CostLineKind, description string, quantity, unitCost, unitRevenue decimal.Decimal) (*CostLine, error) {
	if err := validateLine(kind, description, quantity); err != nil {
		return nil, err
	}
	line := CostLine{
		BaseEntity:  shared.NewBaseEntity(),
		CostSetID:   cs.GetID(),
		Kind:        kind,
		Description: description,
		Quantity:    quantity,
		UnitCost:    unitCost,
		UnitRevenue: unitRevenue,
	}
	cs.Lines = append(cs.Lines, line)
	cs.recalculateTotals()
	return &cs.Lines[len(cs.Lines)-1], nil
}

// AddSourcedLine appends a cost line generated from another aggregate, such
// as a time entry or a purchase order receipt. Only ACTUAL sets accept them.
func (cs *CostSet) AddSourcedLine(kind CostLineKind, description string, quantity, unitCost, unitRevenue decimal.Decimal, sourceID uuid.UUID, sourceType string) (*CostLine, error) {
	if cs.Kind != CostSetActual {
		return nil, shared.NewDomainError("INVALID_STATE", "Only actual cost sets accept sourced lines")
	}
	if sourceID == uuid.Nil || sourceType == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Sourced cost line requires a source reference")
	}
	if err := validateLine(kind, description, quantity); err != nil {
		return nil, err
	}
	src := sourceID
	line := CostLine{
		BaseEntity:  shared.NewBaseEntity(),
		CostSetID:   cs.GetID(),
		Kind:        kind,
		Description: description,
		Quantity:    quantity,
		UnitCost:    unitCost,
		UnitRevenue: unitRevenue,
		SourceID:    &src,
		SourceType:  sourceType,
	}
	cs.Lines = append(cs.Lines, line)
	cs.recalculateTotals()
	return &cs.Lines[len(cs.Lines)-1], nil
}

// UpdateLine modifies an existing cost line and recomputes the summary.
// Sourced lines are owned by their source aggregate and cannot be edited.
func (cs *CostSet) UpdateLine(lineID uuid.UUID, description string, quantity, unitCost, unitRevenue decimal.Decimal) error {
	for i := range cs.Lines {
		if cs.Lines[i].ID != lineID {
			continue
		}
		if cs.Lines[i].SourceID != nil {
			return shared.NewDomainError("INVALID_STATE", "Sourced cost lines cannot be edited directly")
		}
		if err := validateLine(cs.Lines[i].Kind, description, quantity); err != nil {
			return err
		}
		cs.Lines[i].Description = description
		cs.Lines[i].Quantity = quantity
		cs.Lines[i].UnitCost = unitCost
		cs.Lines[i].UnitRevenue = unitRevenue
		cs.Lines[i].Touch()
		cs.recalculateTotals()
		return nil
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Cost line not found in this cost set")
}

// RemoveLine deletes a cost line and recomputes the summary
func (cs *CostSet) RemoveLine(lineID uuid.UUID) error {
	for i := range cs.Lines {
		if cs.Lines[i].ID != lineID {
			continue
		}
		if cs.Lines[i].SourceID != nil {
			return shared.NewDomainError("INVALID_STATE", "Sourced cost lines cannot be removed directly")
		}
		cs.Lines = append(cs.Lines[:i], cs.Lines[i+1:]...)
		cs.recalculateTotals()
		return nil
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Cost line not found in this cost set")
}

// LineByID returns the cost line with the given ID
func (cs *CostSet) LineByID(lineID uuid.UUID) (*CostLine, error) {
	for i := range cs.Lines {
		if cs.Lines[i].ID == lineID {
			return &cs.Lines[i], nil
		}
	}
	return nil, shared.NewDomainError("LINE_NOT_FOUND", "Cost line not found in this cost set")
}

func (cs *CostSet) recalculateTotals() {
	cost := decimal.Zero
	revenue := decimal.Zero
	hours := decimal.Zero
	for i := range cs.Lines {
		l := &cs.Lines[i]
		cost = cost.Add(l.Quantity.Mul(l.UnitCost))
		revenue = revenue.Add(l.Quantity.Mul(l.UnitRevenue))
		if l.Kind == CostLineTime {
			hours = hours.Add(l.Quantity)
		}
	}
	cs.TotalCost = cost.Round(2)
	cs.TotalRevenue = revenue.Round(2)
	cs.TotalHours = hours.Round(2)
	cs.Touch()
}

// Cost returns the total cost of the line
func (l *CostLine) Cost() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost).Round(2)
}

// Revenue returns the total revenue of the line
func (l *CostLine) Revenue() decimal.Decimal {
	return l.Quantity.Mul(l.UnitRevenue).Round(2)
}
