package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/fabworks/backend/internal/application/partner"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	BaseHandler
	clients *partnerapp.Service
}

// NewClientHandler creates a new client handler
func NewClientHandler(clients *partnerapp.Service) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// RegisterRoutes registers client routes
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	{
		clients.POST("", h.Create)
		clients.GET("", h.List)
		clients.GET("/:id", h.Get)
		clients.PUT("/:id", h.Update)
		clients.POST("/:id/contacts", h.AddContact)
		clients.POST("/:id/archive", h.Archive)
		clients.POST("/:id/merge", h.Merge)
	}
}

// Create registers a new client
func (h *ClientHandler) Create(c *gin.Context) {
	var cmd partnerapp.CreateClientCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BindError(c, err)
		return
	}

	client, err := h.clients.CreateClient(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// Get returns a client by ID
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	client, err := h.clients.GetClient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// List returns clients matching the query. Archived clients are hidden
// unless requested explicitly.
func (h *ClientHandler) List(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}
	if archived := c.Query("archived"); archived != "" {
		filter.Filters["archived"] = archived == "true"
	}

	result, err := h.clients.ListClients(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Update updates a client's details
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var cmd partnerapp.CreateClientCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BindError(c, err)
		return
	}

	client, err := h.clients.UpdateClient(c.Request.Context(), id, cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

type addContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// AddContact adds a contact person to a client
func (h *ClientHandler) AddContact(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req addContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	client, err := h.clients.AddContact(c.Request.Context(), id, req.Name, req.Email, req.Phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Archive archives a client
func (h *ClientHandler) Archive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.clients.ArchiveClient(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type mergeRequest struct {
	SurvivorID uuid.UUID `json:"survivor_id" binding:"required"`
}

// Merge folds this client into a survivor. The duplicate is archived and
// its jobs are repointed at the survivor.
func (h *ClientHandler) Merge(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req mergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.clients.MergeClients(c.Request.Context(), id, req.SurvivorID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
