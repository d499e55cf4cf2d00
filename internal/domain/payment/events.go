package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePaymentGroup = "PaymentGroup"

// Event type constants
const (
	EventTypePaymentGroupCreated   = "PaymentGroupCreated"
	EventTypePaymentGroupConfirmed = "PaymentGroupConfirmed"
	EventTypePaymentPaid           = "PaymentPaid"
	EventTypePaymentGroupPaid      = "PaymentGroupPaid"
	EventTypePaymentGroupCancelled = "PaymentGroupCancelled"
)

// PaymentGroupCreatedEvent is raised when a new payment group is created
type PaymentGroupCreatedEvent struct {
	shared.BaseDomainEvent
	GroupID     uuid.UUID  `json:"group_id"`
	Description string     `json:"description"`
	ClientID    *uuid.UUID `json:"client_id,omitempty"`
	TotalValue  string     `json:"total_value"`
}

// NewPaymentGroupCreatedEvent creates a new PaymentGroupCreatedEvent
func NewPaymentGroupCreatedEvent(group *PaymentGroup) *PaymentGroupCreatedEvent {
	return &PaymentGroupCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentGroupCreated, AggregateTypePaymentGroup, group.ID, group.TenantID),
		GroupID:         group.ID,
		Description:     group.Description,
		ClientID:        group.ClientID,
		TotalValue:      group.TotalValue.Amount().String(),
	}
}

// EventType returns the event type name
func (e *PaymentGroupCreatedEvent) EventType() string {
	return EventTypePaymentGroupCreated
}

// PaymentInfo represents payment information for events
type PaymentInfo struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	Method      Method    `json:"method"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Value       string    `json:"value"`
}

// PaymentGroupConfirmedEvent is raised when a payment group is confirmed
type PaymentGroupConfirmedEvent struct {
	shared.BaseDomainEvent
	GroupID    uuid.UUID     `json:"group_id"`
	TotalValue string        `json:"total_value"`
	ChangeDue  string        `json:"change_due"`
	Payments   []PaymentInfo `json:"payments"`
}

// NewPaymentGroupConfirmedEvent creates a new PaymentGroupConfirmedEvent
func NewPaymentGroupConfirmedEvent(group *PaymentGroup) *PaymentGroupConfirmedEvent {
	payments := make([]PaymentInfo, len(group.Payments))
	for i, p := range group.Payments {
		payments[i] = PaymentInfo{
			PaymentID:   p.ID,
			Method:      p.Method,
			Description: p.Description,
			DueDate:     p.DueDate,
			Value:       p.Value.Amount().String(),
		}
	}
	return &PaymentGroupConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentGroupConfirmed, AggregateTypePaymentGroup, group.ID, group.TenantID),
		GroupID:         group.ID,
		TotalValue:      group.TotalValue.Amount().String(),
		ChangeDue:       group.ChangeDue().Amount().String(),
		Payments:        payments,
	}
}

// EventType returns the event type name
func (e *PaymentGroupConfirmedEvent) EventType() string {
	return EventTypePaymentGroupConfirmed
}

// PaymentPaidEvent is raised when an individual payment is settled
type PaymentPaidEvent struct {
	shared.BaseDomainEvent
	GroupID   uuid.UUID `json:"group_id"`
	PaymentID uuid.UUID `json:"payment_id"`
	Method    Method    `json:"method"`
	Value     string    `json:"value"`
	PaidAt    time.Time `json:"paid_at"`
}

// NewPaymentPaidEvent creates a new PaymentPaidEvent
func NewPaymentPaidEvent(group *PaymentGroup, p *Payment) *PaymentPaidEvent {
	paidAt := time.Now()
	if p.PaidAt != nil {
		paidAt = *p.PaidAt
	}
	return &PaymentPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentPaid, AggregateTypePaymentGroup, group.ID, group.TenantID),
		GroupID:         group.ID,
		PaymentID:       p.ID,
		Method:          p.Method,
		Value:           p.Value.Amount().String(),
		PaidAt:          paidAt,
	}
}

// EventType returns the event type name
func (e *PaymentPaidEvent) EventType() string {
	return EventTypePaymentPaid
}

// PaymentGroupPaidEvent is raised when every payment in a group is settled
type PaymentGroupPaidEvent struct {
	shared.BaseDomainEvent
	GroupID    uuid.UUID `json:"group_id"`
	TotalValue string    `json:"total_value"`
}

// NewPaymentGroupPaidEvent creates a new PaymentGroupPaidEvent
func NewPaymentGroupPaidEvent(group *PaymentGroup) *PaymentGroupPaidEvent {
	return &PaymentGroupPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentGroupPaid, AggregateTypePaymentGroup, group.ID, group.TenantID),
		GroupID:         group.ID,
		TotalValue:      group.TotalValue.Amount().String(),
	}
}

// EventType returns the event type name
func (e *PaymentGroupPaidEvent) EventType() string {
	return EventTypePaymentGroupPaid
}

// PaymentGroupCancelledEvent is raised when a payment group is cancelled
type PaymentGroupCancelledEvent struct {
	shared.BaseDomainEvent
	GroupID  uuid.UUID  `json:"group_id"`
	ClientID *uuid.UUID `json:"client_id,omitempty"`
	Reason   string     `json:"reason"`
}

// NewPaymentGroupCancelledEvent creates a new PaymentGroupCancelledEvent
func NewPaymentGroupCancelledEvent(group *PaymentGroup, reason string) *PaymentGroupCancelledEvent {
	return &PaymentGroupCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentGroupCancelled, AggregateTypePaymentGroup, group.ID, group.TenantID),
		GroupID:         group.ID,
		ClientID:        group.ClientID,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *PaymentGroupCancelledEvent) EventType() string {
	return EventTypePaymentGroupCancelled
}
