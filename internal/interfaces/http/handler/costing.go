package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	jobapp "github.com/fabworks/backend/internal/application/job"
	"github.com/fabworks/backend/internal/domain/job"
)

// CostingHandler handles cost set revision and line endpoints
type CostingHandler struct {
	BaseHandler
	costing *jobapp.CostingService
}

// NewCostingHandler creates a new costing handler
func NewCostingHandler(costing *jobapp.CostingService) *CostingHandler {
	return &CostingHandler{costing: costing}
}

// RegisterRoutes registers costing routes
func (h *CostingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs/:id/costsets")
	{
		jobs.POST("", h.CreateRevision)
		jobs.GET("", h.ListByJob)
		jobs.GET("/:kind/latest", h.GetLatest)
		jobs.GET("/:kind/:rev", h.GetRevision)
	}

	sets := rg.Group("/costsets/:costSetId/lines")
	{
		sets.POST("", h.AddLine)
		sets.PUT("/:lineId", h.UpdateLine)
		sets.DELETE("/:lineId", h.RemoveLine)
	}
}

type createRevisionRequest struct {
	Kind       job.CostSetKind `json:"kind" binding:"required"`
	CopyLatest bool            `json:"copy_latest"`
}

// CreateRevision opens a new cost set revision for a job
func (h *CostingHandler) CreateRevision(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req createRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cs, err := h.costing.CreateRevision(c.Request.Context(), jobID, req.Kind, req.CopyLatest)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cs)
}

// ListByJob returns every cost set revision for a job
func (h *CostingHandler) ListByJob(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sets, err := h.costing.ListByJob(c.Request.Context(), jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sets)
}

// GetLatest returns the latest revision of a kind for a job
func (h *CostingHandler) GetLatest(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	cs, err := h.costing.GetLatest(c.Request.Context(), jobID, job.CostSetKind(c.Param("kind")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cs)
}

// GetRevision returns a specific revision of a kind for a job
func (h *CostingHandler) GetRevision(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rev, err := strconv.Atoi(c.Param("rev"))
	if err != nil {
		h.BadRequest(c, "Invalid rev parameter")
		return
	}

	cs, err := h.costing.GetRevision(c.Request.Context(), jobID, job.CostSetKind(c.Param("kind")), rev)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cs)
}

// AddLine adds a manual line to a cost set
func (h *CostingHandler) AddLine(c *gin.Context) {
	costSetID, ok := parseIDParam(c, "costSetId")
	if !ok {
		return
	}
	var cmd jobapp.AddLineCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BindError(c, err)
		return
	}

	cs, err := h.costing.AddLine(c.Request.Context(), costSetID, cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cs)
}

// UpdateLine updates a line on a cost set
func (h *CostingHandler) UpdateLine(c *gin.Context) {
	costSetID, ok := parseIDParam(c, "costSetId")
	if !ok {
		return
	}
	lineID, ok := parseIDParam(c, "lineId")
	if !ok {
		return
	}
	var cmd jobapp.AddLineCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BindError(c, err)
		return
	}

	cs, err := h.costing.UpdateLine(c.Request.Context(), costSetID, lineID, cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cs)
}

// RemoveLine removes a manual line from a cost set
func (h *CostingHandler) RemoveLine(c *gin.Context) {
	costSetID, ok := parseIDParam(c, "costSetId")
	if !ok {
		return
	}
	lineID, ok := parseIDParam(c, "lineId")
	if !ok {
		return
	}

	cs, err := h.costing.RemoveLine(c.Request.Context(), costSetID, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cs)
}
