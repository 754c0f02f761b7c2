package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	accountingapp "github.com/fabworks/backend/internal/application/accounting"
	"github.com/fabworks/backend/internal/interfaces/http/middleware"
)

// SystemHandler handles health and error log endpoints
type SystemHandler struct {
	BaseHandler
	db       *gorm.DB
	errorLog *accountingapp.ErrorLogService
	started  time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db *gorm.DB, errorLog *accountingapp.ErrorLogService) *SystemHandler {
	return &SystemHandler{db: db, errorLog: errorLog, started: time.Now()}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)

	errs := rg.Group("/errors", middleware.RequireAdmin())
	{
		errs.GET("", h.ListErrors)
		errs.GET("/unresolved-count", h.CountUnresolved)
		errs.POST("/:id/resolve", h.ResolveError)
	}
}

// Health reports process and database health
func (h *SystemHandler) Health(c *gin.Context) {
	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "error"
	} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		dbStatus = "error"
	}

	h.Success(c, gin.H{
		"status":   "ok",
		"database": dbStatus,
		"uptime":   time.Since(h.started).String(),
	})
}

// ListErrors returns persisted error records matching the query
func (h *SystemHandler) ListErrors(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}
	if kind := c.Query("kind"); kind != "" {
		filter.Filters["kind"] = kind
	}
	if severity := c.Query("severity"); severity != "" {
		filter.Filters["severity"] = severity
	}
	if resolved := c.Query("resolved"); resolved != "" {
		filter.Filters["resolved"] = resolved == "true"
	}

	result, err := h.errorLog.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// CountUnresolved returns the number of open error records
func (h *SystemHandler) CountUnresolved(c *gin.Context) {
	count, err := h.errorLog.CountUnresolved(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"count": count})
}

// ResolveError marks an error record as dealt with
func (h *SystemHandler) ResolveError(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	record, err := h.errorLog.Resolve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}
