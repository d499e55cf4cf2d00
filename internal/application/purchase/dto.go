package purchase

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/purchase"
	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID                      `json:"supplier_id" binding:"required"`
	SupplierName string                         `json:"supplier_name" binding:"required,min=1,max=200"`
	BranchID     uuid.UUID                      `json:"branch_id" binding:"required"`
	OpenDate     *time.Time                     `json:"open_date"`
	FreightType  string                         `json:"freight_type" binding:"omitempty,oneof=CIF FOB"`
	FreightCost  *decimal.Decimal               `json:"freight_cost"`
	Salesperson  string                         `json:"salesperson"`
	Items        []CreatePurchaseOrderItemInput `json:"items"`
	Notes        string                         `json:"notes"`
	CreatedBy    *uuid.UUID                     `json:"-"`
}

// CreatePurchaseOrderItemInput represents an item in the create order request
type CreatePurchaseOrderItemInput struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode string          `json:"product_code" binding:"required,min=1,max=50"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost" binding:"required"`
}

// AddItemRequest represents a request to add an item to a purchase order
type AddItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	ProductCode string          `json:"product_code" binding:"required,min=1,max=50"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost" binding:"required"`
}

// UpdateItemRequest represents a request to update an order item quantity
type UpdateItemRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// SetPaymentTermsRequest represents the payment step of the order
type SetPaymentTermsRequest struct {
	Method       string           `json:"method" binding:"required"`
	Installments int              `json:"installments" binding:"required,min=1"`
	FirstDueDate *time.Time       `json:"first_due_date"`
	Interval     int              `json:"interval"`
	IntervalType string           `json:"interval_type" binding:"omitempty,oneof=DAY WEEK MONTH YEAR"`
	Discount     *decimal.Decimal `json:"discount"`
	Surcharge    *decimal.Decimal `json:"surcharge"`
}

// FinishPurchaseOrderRequest represents the final step before confirmation
type FinishPurchaseOrderRequest struct {
	ExpectedReceivalDate *time.Time `json:"expected_receival_date"`
	TransporterID        *uuid.UUID `json:"transporter_id"`
	TransporterName      string     `json:"transporter_name"`
	Notes                *string    `json:"notes"`
}

// ReceiveItemInput represents a single item receipt
type ReceiveItemInput struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ReceivePurchaseOrderRequest represents a goods receipt against an order
type ReceivePurchaseOrderRequest struct {
	Items []ReceiveItemInput `json:"items" binding:"required,min=1"`
}

// CancelPurchaseOrderRequest represents a request to cancel a purchase order
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PurchaseOrderListFilter represents filter options for purchase order list
type PurchaseOrderListFilter struct {
	Search     string           `form:"search"`
	SupplierID *uuid.UUID       `form:"supplier_id"`
	Status     *purchase.Status `form:"status"`
	StartDate  *time.Time       `form:"start_date"`
	EndDate    *time.Time       `form:"end_date"`
	Page       int              `form:"page" binding:"min=0"`
	PageSize   int              `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string           `form:"order_by"`
	OrderDir   string           `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseOrderItemResponse represents an order item in API responses
type PurchaseOrderItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ProductCode      string          `json:"product_code"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Amount           decimal.Decimal `json:"amount"`
}

// PaymentTermsResponse represents the settlement terms in API responses
type PaymentTermsResponse struct {
	Method       string     `json:"method"`
	Installments int        `json:"installments"`
	FirstDueDate *time.Time `json:"first_due_date,omitempty"`
	Interval     int        `json:"interval"`
	IntervalType string     `json:"interval_type"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID                   uuid.UUID                   `json:"id"`
	TenantID             uuid.UUID                   `json:"tenant_id"`
	OrderNumber          string                      `json:"order_number"`
	SupplierID           uuid.UUID                   `json:"supplier_id"`
	SupplierName         string                      `json:"supplier_name"`
	BranchID             uuid.UUID                   `json:"branch_id"`
	OpenDate             time.Time                   `json:"open_date"`
	ExpectedReceivalDate *time.Time                  `json:"expected_receival_date,omitempty"`
	TransporterID        *uuid.UUID                  `json:"transporter_id,omitempty"`
	TransporterName      string                      `json:"transporter_name,omitempty"`
	SalespersonName      string                      `json:"salesperson_name,omitempty"`
	FreightType          string                      `json:"freight_type"`
	FreightCost          decimal.Decimal             `json:"freight_cost"`
	DiscountPercentage   decimal.Decimal             `json:"discount_percentage"`
	SurchargePercentage  decimal.Decimal             `json:"surcharge_percentage"`
	Terms                PaymentTermsResponse        `json:"payment_terms"`
	Items                []PurchaseOrderItemResponse `json:"items"`
	ItemCount            int                         `json:"item_count"`
	ItemsTotal           decimal.Decimal             `json:"items_total"`
	PayableAmount        decimal.Decimal             `json:"payable_amount"`
	Status               string                      `json:"status"`
	Notes                string                      `json:"notes"`
	ConfirmedAt          *time.Time                  `json:"confirmed_at,omitempty"`
	ReceivedAt           *time.Time                  `json:"received_at,omitempty"`
	CancelledAt          *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason         string                      `json:"cancel_reason,omitempty"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
	Version              int                         `json:"version"`
}

// PurchaseOrderListItemResponse is the condensed list representation
type PurchaseOrderListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	OpenDate      time.Time       `json:"open_date"`
	ItemCount     int             `json:"item_count"`
	PayableAmount decimal.Decimal `json:"payable_amount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// StatusSummaryResponse aggregates order counts per status
type StatusSummaryResponse struct {
	Pending         int64 `json:"pending"`
	Confirmed       int64 `json:"confirmed"`
	PartialReceived int64 `json:"partial_received"`
	Received        int64 `json:"received"`
	Cancelled       int64 `json:"cancelled"`
}

// ToPurchaseOrderItemResponse converts a domain item to a response DTO
func ToPurchaseOrderItemResponse(item *purchase.PurchaseOrderItem) PurchaseOrderItemResponse {
	return PurchaseOrderItemResponse{
		ID:               item.ID,
		ProductID:        item.ProductID,
		ProductName:      item.ProductName,
		ProductCode:      item.ProductCode,
		Quantity:         item.Quantity,
		ReceivedQuantity: item.ReceivedQuantity,
		UnitCost:         item.UnitCost.Amount(),
		Amount:           item.Amount.Amount(),
	}
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to a response DTO
func ToPurchaseOrderResponse(order *purchase.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = ToPurchaseOrderItemResponse(&order.Items[i])
	}

	return PurchaseOrderResponse{
		ID:                   order.ID,
		TenantID:             order.TenantID,
		OrderNumber:          order.OrderNumber,
		SupplierID:           order.SupplierID,
		SupplierName:         order.SupplierName,
		BranchID:             order.BranchID,
		OpenDate:             order.OpenDate,
		ExpectedReceivalDate: order.ExpectedReceivalDate,
		TransporterID:        order.TransporterID,
		TransporterName:      order.TransporterName,
		SalespersonName:      order.SalespersonName,
		FreightType:          string(order.FreightType),
		FreightCost:          order.FreightCost.Amount(),
		DiscountPercentage:   order.DiscountPercentage,
		SurchargePercentage:  order.SurchargePercentage,
		Terms: PaymentTermsResponse{
			Method:       string(order.Terms.Method),
			Installments: order.Terms.Installments,
			FirstDueDate: order.Terms.FirstDueDate,
			Interval:     order.Terms.Interval,
			IntervalType: string(order.Terms.IntervalType),
		},
		Items:         items,
		ItemCount:     len(order.Items),
		ItemsTotal:    order.ItemsTotal.Amount(),
		PayableAmount: order.PayableAmount.Amount(),
		Status:        string(order.Status),
		Notes:         order.Notes,
		ConfirmedAt:   order.ConfirmedAt,
		ReceivedAt:    order.ReceivedAt,
		CancelledAt:   order.CancelledAt,
		CancelReason:  order.CancelReason,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		Version:       order.Version,
	}
}

// ToPurchaseOrderListItemResponse converts a domain PurchaseOrder to a list DTO
func ToPurchaseOrderListItemResponse(order *purchase.PurchaseOrder) PurchaseOrderListItemResponse {
	return PurchaseOrderListItemResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		SupplierID:    order.SupplierID,
		SupplierName:  order.SupplierName,
		OpenDate:      order.OpenDate,
		ItemCount:     len(order.Items),
		PayableAmount: order.PayableAmount.Amount(),
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt,
	}
}
