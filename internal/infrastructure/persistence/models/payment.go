package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/payment"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentGroupModel is the persistence model for the PaymentGroup aggregate root.
type PaymentGroupModel struct {
	TenantAggregateModel
	Description  string              `gorm:"type:varchar(200);not null"`
	ClientID     *uuid.UUID          `gorm:"type:uuid;index"`
	OrderID      *uuid.UUID          `gorm:"type:uuid;index"`
	TotalValue   decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Status       payment.GroupStatus `gorm:"type:varchar(20);not null;default:'OPEN'"`
	Payments     []PaymentModel      `gorm:"foreignKey:GroupID;references:ID"`
	ConfirmedAt  *time.Time          `gorm:"index"`
	PaidAt       *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PaymentGroupModel) TableName() string {
	return "payment_groups"
}

// ToDomain converts the persistence model to a domain PaymentGroup entity.
func (m *PaymentGroupModel) ToDomain() *payment.PaymentGroup {
	group := &payment.PaymentGroup{
		TenantAggregateRoot: m.toDomainTenantAggregateRoot(),
		Description:         m.Description,
		ClientID:            m.ClientID,
		OrderID:             m.OrderID,
		TotalValue:          valueobject.NewMoneyBRL(m.TotalValue),
		Status:              m.Status,
		ConfirmedAt:         m.ConfirmedAt,
		PaidAt:              m.PaidAt,
		CancelledAt:         m.CancelledAt,
		CancelReason:        m.CancelReason,
		Payments:            make([]payment.Payment, len(m.Payments)),
	}
	for i, p := range m.Payments {
		group.Payments[i] = *p.ToDomain()
	}
	return group
}

// FromDomain populates the persistence model from a domain PaymentGroup entity.
func (m *PaymentGroupModel) FromDomain(g *payment.PaymentGroup) {
	m.FromDomainTenantAggregateRoot(g.TenantAggregateRoot)
	m.Description = g.Description
	m.ClientID = g.ClientID
	m.OrderID = g.OrderID
	m.TotalValue = g.TotalValue.Amount()
	m.Status = g.Status
	m.ConfirmedAt = g.ConfirmedAt
	m.PaidAt = g.PaidAt
	m.CancelledAt = g.CancelledAt
	m.CancelReason = g.CancelReason
	m.Payments = make([]PaymentModel, len(g.Payments))
	for i, p := range g.Payments {
		m.Payments[i] = *PaymentModelFromDomain(&p)
	}
}

// PaymentGroupModelFromDomain creates a new persistence model from a domain PaymentGroup entity.
func PaymentGroupModelFromDomain(g *payment.PaymentGroup) *PaymentGroupModel {
	m := &PaymentGroupModel{}
	m.FromDomain(g)
	return m
}

// PaymentModel is the persistence model for the Payment entity.
type PaymentModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	GroupID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Method      payment.Method  `gorm:"type:varchar(20);not null"`
	Description string          `gorm:"type:varchar(100);not null"`
	Number      int             `gorm:"not null"`
	DueDate     time.Time       `gorm:"not null;index"`
	Value       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status      payment.Status  `gorm:"type:varchar(20);not null;default:'PREVIEW'"`
	PaidAt      *time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *payment.Payment {
	return &payment.Payment{
		ID:          m.ID,
		GroupID:     m.GroupID,
		Method:      m.Method,
		Description: m.Description,
		Number:      m.Number,
		DueDate:     m.DueDate,
		Value:       valueobject.NewMoneyBRL(m.Value),
		Status:      m.Status,
		PaidAt:      m.PaidAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *payment.Payment) {
	m.ID = p.ID
	m.GroupID = p.GroupID
	m.Method = p.Method
	m.Description = p.Description
	m.Number = p.Number
	m.DueDate = p.DueDate
	m.Value = p.Value.Amount()
	m.Status = p.Status
	m.PaidAt = p.PaidAt
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment entity.
func PaymentModelFromDomain(p *payment.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
