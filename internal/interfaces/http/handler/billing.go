package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/fabworks/backend/internal/application/billing"
	"github.com/fabworks/backend/internal/domain/billing"
)

// BillingHandler handles quote and invoice endpoints
type BillingHandler struct {
	BaseHandler
	billing *billingapp.Service
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billing *billingapp.Service) *BillingHandler {
	return &BillingHandler{billing: billing}
}

// RegisterRoutes registers billing routes
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	{
		quotes.POST("", h.CreateQuote)
		quotes.GET("", h.ListQuotes)
		quotes.GET("/:id", h.GetQuote)
		quotes.POST("/:id/send", h.SendQuote)
		quotes.POST("/:id/accept", h.AcceptQuote)
		quotes.POST("/:id/decline", h.DeclineQuote)
	}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.CreateInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.POST("/:id/submit", h.SubmitInvoice)
		invoices.POST("/:id/authorise", h.AuthoriseInvoice)
		invoices.POST("/:id/mark-paid", h.MarkInvoicePaid)
		invoices.POST("/:id/void", h.VoidInvoice)
	}
}

type invoiceResponse struct {
	*billing.Invoice
	AmountDue string `json:"amount_due"`
}

func newInvoiceResponse(inv *billing.Invoice) invoiceResponse {
	return invoiceResponse{Invoice: inv, AmountDue: inv.AmountDue().String()}
}

type createDocumentRequest struct {
	JobID uuid.UUID `json:"job_id" binding:"required"`
	// Subtotal is optional; zero means derive from the job's cost sets
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CreateQuote raises a quote for a job
func (h *BillingHandler) CreateQuote(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	q, err := h.billing.CreateQuote(c.Request.Context(), req.JobID, req.Subtotal)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, q)
}

// GetQuote returns a quote by ID
func (h *BillingHandler) GetQuote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	q, err := h.billing.GetQuote(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// ListQuotes returns quotes matching the query
func (h *BillingHandler) ListQuotes(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if jobID := c.Query("job_id"); jobID != "" {
		filter.Filters["job_id"] = jobID
	}

	result, err := h.billing.ListQuotes(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// SendQuote marks a draft quote as sent
func (h *BillingHandler) SendQuote(c *gin.Context) {
	h.quoteOp(c, h.billing.SendQuote)
}

// AcceptQuote accepts a sent quote
func (h *BillingHandler) AcceptQuote(c *gin.Context) {
	h.quoteOp(c, h.billing.AcceptQuote)
}

// DeclineQuote declines a sent quote
func (h *BillingHandler) DeclineQuote(c *gin.Context) {
	h.quoteOp(c, h.billing.DeclineQuote)
}

// CreateInvoice raises an invoice for a job
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	inv, err := h.billing.CreateInvoice(c.Request.Context(), req.JobID, req.Subtotal)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newInvoiceResponse(inv))
}

// GetInvoice returns an invoice by ID
func (h *BillingHandler) GetInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	inv, err := h.billing.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newInvoiceResponse(inv))
}

// ListInvoices returns invoices matching the query
func (h *BillingHandler) ListInvoices(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if jobID := c.Query("job_id"); jobID != "" {
		filter.Filters["job_id"] = jobID
	}
	if paid := c.Query("paid"); paid != "" {
		filter.Filters["paid"] = paid == "true"
	}

	result, err := h.billing.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// SubmitInvoice submits a draft invoice
func (h *BillingHandler) SubmitInvoice(c *gin.Context) {
	h.invoiceOp(c, h.billing.SubmitInvoice)
}

// AuthoriseInvoice authorises a submitted invoice
func (h *BillingHandler) AuthoriseInvoice(c *gin.Context) {
	h.invoiceOp(c, h.billing.AuthoriseInvoice)
}

// VoidInvoice voids an unpaid invoice
func (h *BillingHandler) VoidInvoice(c *gin.Context) {
	h.invoiceOp(c, h.billing.VoidInvoice)
}

type markPaidRequest struct {
	// PaidOn defaults to now when omitted
	PaidOn *time.Time `json:"paid_on"`
}

// MarkInvoicePaid marks an invoice fully paid
func (h *BillingHandler) MarkInvoicePaid(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req markPaidRequest
	_ = c.ShouldBindJSON(&req)
	paidOn := time.Now()
	if req.PaidOn != nil {
		paidOn = *req.PaidOn
	}

	inv, err := h.billing.MarkInvoicePaid(c.Request.Context(), id, paidOn)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newInvoiceResponse(inv))
}

func (h *BillingHandler) quoteOp(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*billing.Quote, error)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	q, err := op(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

func (h *BillingHandler) invoiceOp(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*billing.Invoice, error)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	inv, err := op(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newInvoiceResponse(inv))
}
