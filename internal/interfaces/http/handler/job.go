package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jobapp "github.com/fabworks/backend/internal/application/job"
	"github.com/fabworks/backend/internal/domain/job"
	"github.com/fabworks/backend/internal/interfaces/http/middleware"
)

// JobHandler handles job lifecycle and delta endpoints
type JobHandler struct {
	BaseHandler
	jobs *jobapp.Service
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobs *jobapp.Service) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// RegisterRoutes registers job routes
func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	{
		jobs.POST("", h.Create)
		jobs.GET("", h.List)
		jobs.GET("/:id", h.Get)
		jobs.GET("/by-number/:number", h.GetByNumber)
		jobs.PATCH("/:id/delta", h.ApplyDelta)
		jobs.GET("/:id/rejections", h.ListRejections)

		jobs.POST("/:id/accept-quote", h.AcceptQuote)
		jobs.POST("/:id/start", h.Start)
		jobs.POST("/:id/pause", h.Pause)
		jobs.POST("/:id/resume", h.Resume)
		jobs.POST("/:id/complete", h.Complete)
		jobs.POST("/:id/reject", h.Reject)

		jobs.POST("/:id/people/:staffId", h.AssignPerson)
		jobs.DELETE("/:id/people/:staffId", h.UnassignPerson)
	}
}

// jobResponse wraps a job with its current delta checksum so clients can
// submit edits against the state they loaded
type jobResponse struct {
	*job.Job
	Checksum string `json:"checksum"`
}

func newJobResponse(j *job.Job) jobResponse {
	return jobResponse{Job: j, Checksum: job.Checksum(j)}
}

// Create creates a new job
func (h *JobHandler) Create(c *gin.Context) {
	var cmd jobapp.CreateJobCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BindError(c, err)
		return
	}

	j, err := h.jobs.CreateJob(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newJobResponse(j))
}

// Get returns a job by ID with its delta checksum
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	j, err := h.jobs.GetJob(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newJobResponse(j))
}

// GetByNumber returns a job by its job number
func (h *JobHandler) GetByNumber(c *gin.Context) {
	j, err := h.jobs.GetJobByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newJobResponse(j))
}

// List returns jobs matching the query
func (h *JobHandler) List(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if clientID := c.Query("client_id"); clientID != "" {
		filter.Filters["client_id"] = clientID
	}
	if paused := c.Query("paused"); paused != "" {
		filter.Filters["paused"] = paused == "true"
	}

	result, err := h.jobs.ListJobs(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

type deltaRequest struct {
	BaseChecksum string    `json:"base_checksum" binding:"required"`
	Delta        job.Delta `json:"delta" binding:"required"`
}

// ApplyDelta applies a partial edit guarded by the client's base checksum.
// A stale checksum comes back as 409 with the current checksum so the
// client can reload and retry.
func (h *JobHandler) ApplyDelta(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req deltaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	j, err := h.jobs.ApplyDelta(c.Request.Context(), id, middleware.GetStaffID(c),
		req.BaseChecksum, req.Delta)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newJobResponse(j))
}

// ListRejections returns the rejected-edit audit trail for a job
func (h *JobHandler) ListRejections(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}

	result, err := h.jobs.ListRejections(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// AcceptQuote marks the job's quote as accepted
func (h *JobHandler) AcceptQuote(c *gin.Context) {
	h.transition(c, h.jobs.AcceptQuote)
}

// Start moves a job into progress
func (h *JobHandler) Start(c *gin.Context) {
	h.transition(c, h.jobs.Start)
}

// Pause flags a job as paused
func (h *JobHandler) Pause(c *gin.Context) {
	h.transition(c, h.jobs.Pause)
}

// Resume clears a job's paused flag
func (h *JobHandler) Resume(c *gin.Context) {
	h.transition(c, h.jobs.Resume)
}

// Complete marks a job recently completed
func (h *JobHandler) Complete(c *gin.Context) {
	h.transition(c, h.jobs.Complete)
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Reject rejects a job that has not started
func (h *JobHandler) Reject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	j, err := h.jobs.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newJobResponse(j))
}

// AssignPerson adds a staff member to a job
func (h *JobHandler) AssignPerson(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	staffID, ok := parseIDParam(c, "staffId")
	if !ok {
		return
	}

	j, err := h.jobs.AssignPerson(c.Request.Context(), id, staffID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newJobResponse(j))
}

// UnassignPerson removes a staff member from a job
func (h *JobHandler) UnassignPerson(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	staffID, ok := parseIDParam(c, "staffId")
	if !ok {
		return
	}

	j, err := h.jobs.UnassignPerson(c.Request.Context(), id, staffID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newJobResponse(j))
}

func (h *JobHandler) transition(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*job.Job, error)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	j, err := op(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newJobResponse(j))
}
