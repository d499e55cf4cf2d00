package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// GroupStatus represents the status of a payment group
type GroupStatus string

const (
	GroupStatusOpen      GroupStatus = "OPEN"
	GroupStatusConfirmed GroupStatus = "CONFIRMED"
	GroupStatusPaid      GroupStatus = "PAID"
	GroupStatusCancelled GroupStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s GroupStatus) IsValid() bool {
	switch s {
	case GroupStatusOpen, GroupStatusConfirmed, GroupStatusPaid, GroupStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s GroupStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition to the target status is allowed
func (s GroupStatus) CanTransitionTo(target GroupStatus) bool {
	switch s {
	case GroupStatusOpen:
		return target == GroupStatusConfirmed || target == GroupStatusCancelled
	case GroupStatusConfirmed:
		return target == GroupStatusPaid || target == GroupStatusCancelled
	case GroupStatusPaid, GroupStatusCancelled:
		return false
	}
	return false
}

// Status represents the status of an individual payment
type Status string

const (
	StatusPreview   Status = "PREVIEW"
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the payment status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPreview, StatusPending, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Payment is one scheduled installment inside a payment group
type Payment struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key"`
	GroupID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Method      Method            `gorm:"type:varchar(20);not null"`
	Description string            `gorm:"type:varchar(100);not null"`
	Number      int               `gorm:"not null"`
	DueDate     time.Time         `gorm:"not null"`
	Value       valueobject.Money `gorm:"type:decimal(18,4);not null"`
	Status      Status            `gorm:"type:varchar(20);not null;default:'PREVIEW'"`
	PaidAt      *time.Time
	CreatedAt   time.Time         `gorm:"not null"`
	UpdatedAt   time.Time         `gorm:"not null"`
}

// PaymentGroup aggregates the payments that settle a single order.
// A group built through the multiple method can mix payments of
// different methods; only cash may exceed the outstanding value, the
// excess being change due back to the customer.
type PaymentGroup struct {
	shared.TenantAggregateRoot
	Description  string            `gorm:"type:varchar(200);not null"`
	ClientID     *uuid.UUID        `gorm:"type:uuid;index"`
	OrderID      *uuid.UUID        `gorm:"type:uuid;index"`
	TotalValue   valueobject.Money `gorm:"type:decimal(18,4);not null"`
	Status       GroupStatus       `gorm:"type:varchar(20);not null;default:'OPEN'"`
	Payments     []Payment         `gorm:"foreignKey:GroupID"`
	ConfirmedAt  *time.Time
	PaidAt       *time.Time
	CancelledAt  *time.Time
	CancelReason string            `gorm:"type:varchar(500)"`
}

// NewPaymentGroup creates a new open payment group for the given total
func NewPaymentGroup(tenantID uuid.UUID, description string, total valueobject.Money) (*PaymentGroup, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Payment group description cannot be empty")
	}
	if !total.IsPositive() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Payment group total must be positive")
	}

	group := &PaymentGroup{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Description:         description,
		TotalValue:          total,
		Status:              GroupStatusOpen,
		Payments:            make([]Payment, 0),
	}

	group.AddDomainEvent(NewPaymentGroupCreatedEvent(group))
	return group, nil
}

// Received returns the sum of all non-cancelled payment values
func (g *PaymentGroup) Received() valueobject.Money {
	sum := valueobject.Zero(g.TotalValue.Currency())
	for _, p := range g.Payments {
		if p.Status == StatusCancelled {
			continue
		}
		sum = sum.MustAdd(p.Value)
	}
	return sum
}

// Outstanding returns how much of the total is not yet covered by
// scheduled payments. Zero or negative means the group is fully covered.
func (g *PaymentGroup) Outstanding() valueobject.Money {
	return g.TotalValue.MustSubtract(g.Received())
}

// ChangeDue returns the cash change owed back when the received value
// exceeds the total, zero otherwise.
func (g *PaymentGroup) ChangeDue() valueobject.Money {
	diff := g.Received().MustSubtract(g.TotalValue)
	if diff.IsPositive() {
		return diff
	}
	return valueobject.Zero(g.TotalValue.Currency())
}

// AddInstallments appends a built installment plan to the group.
// Non-cash methods may not push the received value past the total.
func (g *PaymentGroup) AddInstallments(method Method, installments []Installment) error {
	if g.Status != GroupStatusOpen {
		return shared.NewDomainError("GROUP_NOT_OPEN", "Payments can only be added to an open group")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}
	if len(installments) == 0 {
		return shared.NewDomainError("EMPTY_PLAN", "At least one installment is required")
	}

	added := valueobject.Zero(g.TotalValue.Currency())
	for _, inst := range installments {
		if !inst.Value.IsPositive() {
			return shared.NewDomainError("INVALID_VALUE", "Installment values must be positive")
		}
		added = added.MustAdd(inst.Value)
	}

	if method != MethodMoney {
		exceeds, err := added.GreaterThan(g.Outstanding())
		if err != nil {
			return shared.NewDomainError("CURRENCY_MISMATCH", err.Error())
		}
		if exceeds {
			return shared.NewDomainError("OVERPAYMENT", "Only cash payments may exceed the outstanding value")
		}
	}

	now := time.Now()
	base := len(g.Payments)
	for i, inst := range installments {
		g.Payments = append(g.Payments, Payment{
			ID:          uuid.New(),
			GroupID:     g.ID,
			Method:      method,
			Description: inst.Description,
			Number:      base + i + 1,
			DueDate:     inst.DueDate,
			Value:       inst.Value,
			Status:      StatusPreview,
		})
	}
	g.UpdatedAt = now
	return nil
}

// Confirm locks the group once the scheduled payments cover the total.
// Preview payments become pending.
func (g *PaymentGroup) Confirm() error {
	if !g.Status.CanTransitionTo(GroupStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Only an open group can be confirmed")
	}
	if len(g.Payments) == 0 {
		return shared.NewDomainError("EMPTY_GROUP", "Cannot confirm a group without payments")
	}
	if g.Outstanding().IsPositive() {
		return shared.NewDomainError("UNDERPAYMENT", "Scheduled payments do not cover the group total")
	}

	now := time.Now()
	for i := range g.Payments {
		if g.Payments[i].Status == StatusPreview {
			g.Payments[i].Status = StatusPending
			g.Payments[i].UpdatedAt = now
		}
	}
	g.Status = GroupStatusConfirmed
	g.ConfirmedAt = &now
	g.UpdatedAt = now

	g.AddDomainEvent(NewPaymentGroupConfirmedEvent(g))
	return nil
}

// Pay marks a pending payment as paid. When the last pending payment is
// settled the whole group becomes paid.
func (g *PaymentGroup) Pay(paymentID uuid.UUID) error {
	if g.Status != GroupStatusConfirmed {
		return shared.NewDomainError("GROUP_NOT_CONFIRMED", "Only a confirmed group can receive payments")
	}

	var target *Payment
	for i := range g.Payments {
		if g.Payments[i].ID == paymentID {
			target = &g.Payments[i]
			break
		}
	}
	if target == nil {
		return shared.ErrNotFound
	}
	if target.Status != StatusPending {
		return shared.NewDomainError("PAYMENT_NOT_PENDING", "Payment is not pending")
	}

	now := time.Now()
	target.Status = StatusPaid
	target.PaidAt = &now
	target.UpdatedAt = now
	g.UpdatedAt = now

	g.AddDomainEvent(NewPaymentPaidEvent(g, target))

	if g.allSettled() {
		g.Status = GroupStatusPaid
		g.PaidAt = &now
		g.AddDomainEvent(NewPaymentGroupPaidEvent(g))
	}
	return nil
}

// Cancel cancels the group and every payment that has not been paid.
// A group with paid payments can no longer be cancelled.
func (g *PaymentGroup) Cancel(reason string) error {
	if !g.Status.CanTransitionTo(GroupStatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"A paid or cancelled group cannot be cancelled")
	}
	for _, p := range g.Payments {
		if p.Status == StatusPaid {
			return shared.NewDomainError("GROUP_HAS_PAID_PAYMENTS",
				"Cannot cancel a group with paid payments")
		}
	}

	now := time.Now()
	for i := range g.Payments {
		g.Payments[i].Status = StatusCancelled
		g.Payments[i].UpdatedAt = now
	}
	g.Status = GroupStatusCancelled
	g.CancelledAt = &now
	g.CancelReason = reason
	g.UpdatedAt = now

	g.AddDomainEvent(NewPaymentGroupCancelledEvent(g, reason))
	return nil
}

func (g *PaymentGroup) allSettled() bool {
	for _, p := range g.Payments {
		if p.Status == StatusPending || p.Status == StatusPreview {
			return false
		}
	}
	return true
}

// GroupRepository defines persistence operations for payment groups
type GroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentGroup, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PaymentGroup, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PaymentGroup, error)
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]PaymentGroup, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, group *PaymentGroup) error
	SaveWithLock(ctx context.Context, group *PaymentGroup) error
	SaveWithLockAndEvents(ctx context.Context, group *PaymentGroup, events []shared.DomainEvent) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
