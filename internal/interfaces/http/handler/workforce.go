package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	workforceapp "github.com/fabworks/backend/internal/application/workforce"
	"github.com/fabworks/backend/internal/interfaces/http/middleware"
)

// WorkforceHandler handles staff and timesheet endpoints
type WorkforceHandler struct {
	BaseHandler
	workforce *workforceapp.Service
}

// NewWorkforceHandler creates a new workforce handler
func NewWorkforceHandler(workforceSvc *workforceapp.Service) *WorkforceHandler {
	return &WorkforceHandler{workforce: workforceSvc}
}

// RegisterRoutes registers staff and timesheet routes
func (h *WorkforceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	staff := rg.Group("/staff")
	{
		staff.POST("", middleware.RequireAdmin(), h.CreateStaff)
		staff.GET("", h.ListStaff)
		staff.GET("/:id", h.GetStaff)
		staff.PUT("/:id/rates", middleware.RequireAdmin(), h.UpdateRates)
		staff.POST("/:id/deactivate", middleware.RequireAdmin(), h.DeactivateStaff)
	}

	sheets := rg.Group("/timesheets")
	{
		sheets.POST("/entries", h.LogTime)
		sheets.DELETE("/entries/:id", h.DeleteEntry)
		sheets.GET("/daily", h.DailySummary)
		sheets.GET("/weekly", h.WeeklySummary)
	}
}

// CreateStaff registers a new staff member
func (h *WorkforceHandler) CreateStaff(c *gin.Context) {
	var cmd workforceapp.CreateStaffCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BindError(c, err)
		return
	}

	member, err := h.workforce.CreateStaff(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, member)
}

// GetStaff returns a staff member by ID
func (h *WorkforceHandler) GetStaff(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	member, err := h.workforce.GetStaff(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// ListStaff returns staff matching the query
func (h *WorkforceHandler) ListStaff(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}
	if active := c.Query("active"); active != "" {
		filter.Filters["active"] = active == "true"
	}

	result, err := h.workforce.ListStaff(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

type updateRatesRequest struct {
	WageRate      decimal.Decimal `json:"wage_rate" binding:"required"`
	ChargeOutRate decimal.Decimal `json:"charge_out_rate" binding:"required"`
}

// UpdateRates updates a staff member's rates. Existing time entries keep
// the rates they were logged with.
func (h *WorkforceHandler) UpdateRates(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	member, err := h.workforce.UpdateRates(c.Request.Context(), id, req.WageRate, req.ChargeOutRate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// DeactivateStaff deactivates a staff member
func (h *WorkforceHandler) DeactivateStaff(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.workforce.DeactivateStaff(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// LogTime logs hours for the authenticated staff member
func (h *WorkforceHandler) LogTime(c *gin.Context) {
	var cmd workforceapp.LogTimeCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BindError(c, err)
		return
	}

	entry, err := h.workforce.LogTime(c.Request.Context(), middleware.GetStaffID(c), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// DeleteEntry removes a time entry. Staff may only delete their own
// entries unless they are admins.
func (h *WorkforceHandler) DeleteEntry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.workforce.DeleteTimeEntry(c.Request.Context(), id, middleware.GetStaffID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DailySummary returns the authenticated staff member's day
func (h *WorkforceHandler) DailySummary(c *gin.Context) {
	date, ok := h.parseDate(c, "date")
	if !ok {
		return
	}
	summary, err := h.workforce.DailySummary(c.Request.Context(), middleware.GetStaffID(c), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// WeeklySummary returns the authenticated staff member's week starting at
// week_start
func (h *WorkforceHandler) WeeklySummary(c *gin.Context) {
	weekStart, ok := h.parseDate(c, "week_start")
	if !ok {
		return
	}
	summary, err := h.workforce.WeeklySummary(c.Request.Context(), middleware.GetStaffID(c), weekStart)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

func (h *WorkforceHandler) parseDate(c *gin.Context, param string) (time.Time, bool) {
	value := c.Query(param)
	if value == "" {
		h.BadRequest(c, param+" query parameter is required (YYYY-MM-DD)")
		return time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		h.BadRequest(c, param+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}
