package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"order_number":   true,
	"supplier_id":    true,
	"supplier_name":  true,
	"open_date":      true,
	"status":         true,
	"items_total":    true,
	"payable_amount": true,
	"confirmed_at":   true,
	"received_at":    true,
}

// PaymentGroupSortFields contains allowed sort fields for payment groups
var PaymentGroupSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"description":  true,
	"client_id":    true,
	"order_id":     true,
	"total_value":  true,
	"status":       true,
	"confirmed_at": true,
	"paid_at":      true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"document":   true,
	"active":     true,
}

// ClientSortFields contains allowed sort fields for clients
var ClientSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"document":     true,
	"credit_limit": true,
	"credit_used":  true,
	"active":       true,
}

// TransporterSortFields contains allowed sort fields for transporters
var TransporterSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"active":     true,
}

// CardProviderSortFields contains allowed sort fields for card providers
var CardProviderSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"name":        true,
	"closing_day": true,
	"payment_day": true,
	"active":      true,
}
