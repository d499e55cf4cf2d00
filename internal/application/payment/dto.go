package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// PlanInput describes one installment plan to add to a group
type PlanInput struct {
	Method         string           `json:"method" binding:"required"`
	Value          decimal.Decimal  `json:"value" binding:"required"`
	Installments   int              `json:"installments" binding:"required,min=1"`
	FirstDueDate   *time.Time       `json:"first_due_date"`
	Interval       int              `json:"interval"`
	IntervalType   string           `json:"interval_type" binding:"omitempty,oneof=DAY WEEK MONTH YEAR"`
	CardProviderID *uuid.UUID       `json:"card_provider_id"`
}

// PreviewPlanRequest asks for a plan without persisting anything
type PreviewPlanRequest struct {
	Plan PlanInput `json:"plan" binding:"required"`
}

// CreateGroupRequest creates a payment group with its initial plans
type CreateGroupRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=200"`
	OrderID     *uuid.UUID      `json:"order_id"`
	ClientID    *uuid.UUID      `json:"client_id"`
	TotalValue  decimal.Decimal `json:"total_value" binding:"required"`
	Plans       []PlanInput     `json:"plans" binding:"required,min=1"`
	CreatedBy   *uuid.UUID      `json:"-"`
}

// AddPlanRequest appends a plan to an open group (split tender)
type AddPlanRequest struct {
	Plan PlanInput `json:"plan" binding:"required"`
}

// CancelGroupRequest cancels a payment group
type CancelGroupRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// GroupListFilter represents filter options for the group list
type GroupListFilter struct {
	Search   string               `form:"search"`
	ClientID *uuid.UUID           `form:"client_id"`
	OrderID  *uuid.UUID           `form:"order_id"`
	Status   *payment.GroupStatus `form:"status"`
	Page     int                  `form:"page" binding:"min=0"`
	PageSize int                  `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string               `form:"order_by"`
	OrderDir string               `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InstallmentResponse represents one plan slice in API responses
type InstallmentResponse struct {
	Number      int             `json:"number"`
	Description string          `json:"description"`
	DueDate     time.Time       `json:"due_date"`
	Value       decimal.Decimal `json:"value"`
}

// PlanPreviewResponse is the result of a plan preview
type PlanPreviewResponse struct {
	Method       string                `json:"method"`
	Total        decimal.Decimal       `json:"total"`
	Installments []InstallmentResponse `json:"installments"`
}

// PaymentResponse represents an individual payment in API responses
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	Method      string          `json:"method"`
	Description string          `json:"description"`
	Number      int             `json:"number"`
	DueDate     time.Time       `json:"due_date"`
	Value       decimal.Decimal `json:"value"`
	Status      string          `json:"status"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
}

// GroupResponse represents a payment group in API responses
type GroupResponse struct {
	ID          uuid.UUID         `json:"id"`
	TenantID    uuid.UUID         `json:"tenant_id"`
	Description string            `json:"description"`
	ClientID    *uuid.UUID        `json:"client_id,omitempty"`
	OrderID     *uuid.UUID        `json:"order_id,omitempty"`
	TotalValue  decimal.Decimal   `json:"total_value"`
	Received    decimal.Decimal   `json:"received"`
	Outstanding decimal.Decimal   `json:"outstanding"`
	ChangeDue   decimal.Decimal   `json:"change_due"`
	Status      string            `json:"status"`
	Payments    []PaymentResponse `json:"payments"`
	ConfirmedAt *time.Time        `json:"confirmed_at,omitempty"`
	PaidAt      *time.Time        `json:"paid_at,omitempty"`
	CancelledAt *time.Time        `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Version     int               `json:"version"`
}

// ToPaymentResponse converts a domain payment to a response DTO
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		Method:      string(p.Method),
		Description: p.Description,
		Number:      p.Number,
		DueDate:     p.DueDate,
		Value:       p.Value.Amount(),
		Status:      string(p.Status),
		PaidAt:      p.PaidAt,
	}
}

// ToGroupResponse converts a domain PaymentGroup to a response DTO
func ToGroupResponse(group *payment.PaymentGroup) GroupResponse {
	payments := make([]PaymentResponse, len(group.Payments))
	for i := range group.Payments {
		payments[i] = ToPaymentResponse(&group.Payments[i])
	}

	return GroupResponse{
		ID:          group.ID,
		TenantID:    group.TenantID,
		Description: group.Description,
		ClientID:    group.ClientID,
		OrderID:     group.OrderID,
		TotalValue:  group.TotalValue.Amount(),
		Received:    group.Received().Amount(),
		Outstanding: group.Outstanding().Amount(),
		ChangeDue:   group.ChangeDue().Amount(),
		Status:      string(group.Status),
		Payments:    payments,
		ConfirmedAt: group.ConfirmedAt,
		PaidAt:      group.PaidAt,
		CancelledAt: group.CancelledAt,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
		Version:     group.Version,
	}
}

// ToInstallmentResponses converts built installments to response DTOs
func ToInstallmentResponses(installments []payment.Installment) []InstallmentResponse {
	responses := make([]InstallmentResponse, len(installments))
	for i, inst := range installments {
		responses[i] = InstallmentResponse{
			Number:      inst.Number,
			Description: inst.Description,
			DueDate:     inst.DueDate,
			Value:       inst.Value.Amount(),
		}
	}
	return responses
}
