package handler

import (
	"github.com/gin-gonic/gin"

	purchasingapp "github.com/fabworks/backend/internal/application/purchasing"
	"github.com/fabworks/backend/internal/domain/purchasing"
)

// PurchasingHandler handles purchase order endpoints
type PurchasingHandler struct {
	BaseHandler
	purchasing *purchasingapp.Service
}

// NewPurchasingHandler creates a new purchasing handler
func NewPurchasingHandler(purchasingSvc *purchasingapp.Service) *PurchasingHandler {
	return &PurchasingHandler{purchasing: purchasingSvc}
}

// RegisterRoutes registers purchase order routes
func (h *PurchasingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/lines", h.AddLine)
		orders.DELETE("/:id/lines/:lineId", h.RemoveLine)
		orders.POST("/:id/submit", h.Submit)
		orders.POST("/:id/receive", h.Receive)
		orders.POST("/:id/void", h.Void)
	}
}

// Create creates a draft purchase order
func (h *PurchasingHandler) Create(c *gin.Context) {
	var cmd purchasingapp.CreateOrderCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BindError(c, err)
		return
	}

	po, err := h.purchasing.CreateOrder(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, po)
}

// Get returns a purchase order by ID
func (h *PurchasingHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	po, err := h.purchasing.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// List returns purchase orders matching the query
func (h *PurchasingHandler) List(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if supplier := c.Query("supplier_name"); supplier != "" {
		filter.Filters["supplier_name"] = supplier
	}

	result, err := h.purchasing.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// AddLine adds a line to a draft purchase order
func (h *PurchasingHandler) AddLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var cmd purchasingapp.LineCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.BindError(c, err)
		return
	}

	po, err := h.purchasing.AddLine(c.Request.Context(), id, cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// RemoveLine removes a line from a draft purchase order
func (h *PurchasingHandler) RemoveLine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	lineID, ok := parseIDParam(c, "lineId")
	if !ok {
		return
	}

	po, err := h.purchasing.RemoveLine(c.Request.Context(), id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// Submit submits a draft purchase order to the supplier
func (h *PurchasingHandler) Submit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	po, err := h.purchasing.SubmitOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

type receiveRequest struct {
	Receipts []purchasing.Receipt `json:"receipts" binding:"required,min=1"`
}

// Receive records goods received against order lines. Lines allocated to a
// job feed its actual cost set through the goods-received event.
func (h *PurchasingHandler) Receive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req receiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	po, err := h.purchasing.ReceiveGoods(c.Request.Context(), id, req.Receipts)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// Void voids a purchase order
func (h *PurchasingHandler) Void(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	po, err := h.purchasing.VoidOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}
