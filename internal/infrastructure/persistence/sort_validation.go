package persistence

import "strings"

// Sort field whitelists per entity. Keys are the values clients may pass in
// order_by; values are the actual column names. Anything else falls back to
// the caller's default, preventing SQL injection through ordering.
var (
	JobSortFields = map[string]string{
		"number":        "number",
		"name":          "name",
		"status":        "status",
		"delivery_date": "delivery_date",
		"created_at":    "created_at",
		"updated_at":    "updated_at",
	}

	ClientSortFields = map[string]string{
		"name":       "name",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}

	QuoteSortFields = map[string]string{
		"number":     "number",
		"status":     "status",
		"subtotal":   "subtotal",
		"created_at": "created_at",
	}

	InvoiceSortFields = map[string]string{
		"number":        "number",
		"status":        "status",
		"total":         "total",
		"fully_paid_on": "fully_paid_on",
		"created_at":    "created_at",
	}

	PurchaseOrderSortFields = map[string]string{
		"number":        "number",
		"supplier_name": "supplier_name",
		"status":        "status",
		"total_cost":    "total_cost",
		"created_at":    "created_at",
	}

	StaffSortFields = map[string]string{
		"name":       "name",
		"email":      "email",
		"created_at": "created_at",
	}

	AppErrorSortFields = map[string]string{
		"kind":       "kind",
		"severity":   "severity",
		"resolved":   "resolved",
		"created_at": "created_at",
	}
)

// ValidateSortField maps a requested sort field onto a whitelisted column.
// Unknown fields return the fallback.
func ValidateSortField(field string, allowed map[string]string, fallback string) string {
	if col, ok := allowed[strings.ToLower(strings.TrimSpace(field))]; ok {
		return col
	}
	return fallback
}

// ValidateSortOrder normalizes a sort direction to ASC or DESC
func ValidateSortOrder(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}
