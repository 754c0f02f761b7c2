package workforce

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fabworks/backend/internal/domain/shared"
	"github.com/fabworks/backend/internal/domain/workforce"
	"github.com/fabworks/backend/internal/infrastructure/telemetry"
)

// Service manages staff and timesheets
type Service struct {
	staff   workforce.StaffRepository
	entries workforce.TimeEntryRepository
	bus     shared.EventPublisher
	metrics *telemetry.BusinessMetrics
	logger  *zap.Logger
}

// NewService creates a new workforce service
func NewService(
	staff workforce.StaffRepository,
	entries workforce.TimeEntryRepository,
	bus shared.EventPublisher,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		staff:   staff,
		entries: entries,
		bus:     bus,
		metrics: metrics,
		logger:  logger,
	}
}

// CreateStaffCommand carries the input for registering a staff member
type CreateStaffCommand struct {
	Email         string          `json:"email" binding:"required,email"`
	Name          string          `json:"name" binding:"required"`
	Password      string          `json:"password" binding:"required"`
	WageRate      decimal.Decimal `json:"wage_rate"`
	ChargeOutRate decimal.Decimal `json:"charge_out_rate"`
	Admin         bool            `json:"admin"`
}

// CreateStaff registers a new staff member
func (s *Service) CreateStaff(ctx context.Context, cmd CreateStaffCommand) (*workforce.Staff, error) {
	if existing, err := s.staff.FindByEmail(ctx, cmd.Email); err == nil && existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_EMAIL", "A staff member with this email already exists")
	}

	member, err := workforce.NewStaff(cmd.Email, cmd.Name, cmd.Password, cmd.WageRate, cmd.ChargeOutRate)
	if err != nil {
		return nil, err
	}
	member.Admin = cmd.Admin
	if err := s.staff.Save(ctx, member); err != nil {
		return nil, err
	}
	s.logger.Info("staff member created", zap.String("email", member.Email))
	return member, nil
}

// GetStaff loads a staff member by ID
func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*workforce.Staff, error) {
	return s.staff.FindByID(ctx, id)
}

// ListStaff returns staff matching the filter
func (s *Service) ListStaff(ctx context.Context, filter shared.Filter) (shared.Paginated[*workforce.Staff], error) {
	return s.staff.FindAll(ctx, filter)
}

// UpdateRates updates a staff member's wage and charge-out rates
func (s *Service) UpdateRates(ctx context.Context, id uuid.UUID, wageRate, chargeOutRate decimal.Decimal) (*workforce.Staff, error) {
	member, err := s.staff.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := member.UpdateRates(wageRate, chargeOutRate); err != nil {
		return nil, err
	}
	if err := s.staff.Save(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// DeactivateStaff deactivates a staff member
func (s *Service) DeactivateStaff(ctx context.Context, id uuid.UUID) error {
	member, err := s.staff.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := member.Deactivate(); err != nil {
		return err
	}
	return s.staff.Save(ctx, member)
}

// LogTimeCommand carries the input for logging time against a job
type LogTimeCommand struct {
	JobID       uuid.UUID       `json:"job_id" binding:"required"`
	EntryDate   time.Time       `json:"entry_date" binding:"required"`
	Hours       decimal.Decimal `json:"hours" binding:"required"`
	Billable    bool            `json:"billable"`
	Description string          `json:"description"`
}

// LogTime records hours a staff member worked on a job. Rates are frozen at
// entry so later rate changes do not rewrite history.
func (s *Service) LogTime(ctx context.Context, staffID uuid.UUID, cmd LogTimeCommand) (*workforce.TimeEntry, error) {
	member, err := s.staff.FindByID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	total, err := s.dailyTotal(ctx, staffID, cmd.EntryDate)
	if err != nil {
		return nil, err
	}
	if total.Add(cmd.Hours).GreaterThan(decimal.NewFromInt(24)) {
		return nil, shared.NewDomainError("DAILY_LIMIT_EXCEEDED",
			"Logging these hours would exceed 24 hours for the day")
	}

	entry, err := workforce.NewTimeEntry(member, cmd.JobID, cmd.EntryDate,
		cmd.Hours, cmd.Billable, cmd.Description)
	if err != nil {
		return nil, err
	}
	if err := s.entries.Save(ctx, entry); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, entry)
	hours, _ := cmd.Hours.Float64()
	s.metrics.RecordTimeEntryLogged(ctx, hours)
	s.logger.Info("time logged",
		zap.String("staff", member.Name),
		zap.String("job_id", cmd.JobID.String()),
		zap.String("hours", cmd.Hours.String()))
	return entry, nil
}

func (s *Service) dailyTotal(ctx context.Context, staffID uuid.UUID, date time.Time) (decimal.Decimal, error) {
	existing, err := s.entries.FindByStaffAndDate(ctx, staffID, date)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range existing {
		total = total.Add(e.Hours)
	}
	return total, nil
}

// DeleteTimeEntry removes a time entry. Staff may only delete their own
// entries unless they are admins.
func (s *Service) DeleteTimeEntry(ctx context.Context, entryID, requesterID uuid.UUID) error {
	entry, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.StaffID != requesterID {
		requester, err := s.staff.FindByID(ctx, requesterID)
		if err != nil {
			return err
		}
		if !requester.Admin {
			return shared.ErrForbidden
		}
	}
	return s.entries.Delete(ctx, entryID)
}

// DaySummary aggregates one staff member's day
type DaySummary struct {
	Date          time.Time              `json:"date"`
	Entries       []*workforce.TimeEntry `json:"entries"`
	TotalHours    decimal.Decimal        `json:"total_hours"`
	BillableHours decimal.Decimal        `json:"billable_hours"`
	WageCost      decimal.Decimal        `json:"wage_cost"`
	ChargeValue   decimal.Decimal        `json:"charge_value"`
}

// WeekSummary aggregates one staff member's week
type WeekSummary struct {
	WeekStart     time.Time       `json:"week_start"`
	Days          []DaySummary    `json:"days"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	BillableHours decimal.Decimal `json:"billable_hours"`
	WageCost      decimal.Decimal `json:"wage_cost"`
	ChargeValue   decimal.Decimal `json:"charge_value"`
}

// DailySummary returns one staff member's entries and totals for a day
func (s *Service) DailySummary(ctx context.Context, staffID uuid.UUID, date time.Time) (DaySummary, error) {
	entries, err := s.entries.FindByStaffAndDate(ctx, staffID, date)
	if err != nil {
		return DaySummary{}, err
	}
	return summarizeDay(date, entries), nil
}

// WeeklySummary returns one staff member's per-day summaries for the week
// starting at weekStart
func (s *Service) WeeklySummary(ctx context.Context, staffID uuid.UUID, weekStart time.Time) (WeekSummary, error) {
	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, time.UTC)
	entries, err := s.entries.FindByStaffAndRange(ctx, staffID, start, start.AddDate(0, 0, 7))
	if err != nil {
		return WeekSummary{}, err
	}

	byDay := make(map[time.Time][]*workforce.TimeEntry)
	for _, e := range entries {
		byDay[e.EntryDate] = append(byDay[e.EntryDate], e)
	}

	week := WeekSummary{
		WeekStart:     start,
		TotalHours:    decimal.Zero,
		BillableHours: decimal.Zero,
		WageCost:      decimal.Zero,
		ChargeValue:   decimal.Zero,
	}
	for day := 0; day < 7; day++ {
		date := start.AddDate(0, 0, day)
		summary := summarizeDay(date, byDay[date])
		week.Days = append(week.Days, summary)
		week.TotalHours = week.TotalHours.Add(summary.TotalHours)
		week.BillableHours = week.BillableHours.Add(summary.BillableHours)
		week.WageCost = week.WageCost.Add(summary.WageCost)
		week.ChargeValue = week.ChargeValue.Add(summary.ChargeValue)
	}
	return week, nil
}

func summarizeDay(date time.Time, entries []*workforce.TimeEntry) DaySummary {
	summary := DaySummary{
		Date:          date,
		Entries:       entries,
		TotalHours:    decimal.Zero,
		BillableHours: decimal.Zero,
		WageCost:      decimal.Zero,
		ChargeValue:   decimal.Zero,
	}
	for _, e := range entries {
		summary.TotalHours = summary.TotalHours.Add(e.Hours)
		if e.Billable {
			summary.BillableHours = summary.BillableHours.Add(e.Hours)
		}
		summary.WageCost = summary.WageCost.Add(e.WageCost())
		summary.ChargeValue = summary.ChargeValue.Add(e.ChargeValue())
	}
	return summary
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
