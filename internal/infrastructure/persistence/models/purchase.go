package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/payment"
	"github.com/retailpos/backend/internal/domain/purchase"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	TenantAggregateModel
	OrderNumber          string                   `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_order_tenant_number,priority:2"`
	SupplierID           uuid.UUID                `gorm:"type:uuid;not null;index"`
	SupplierName         string                   `gorm:"type:varchar(200);not null"`
	BranchID             uuid.UUID                `gorm:"type:uuid;not null;index"`
	OpenDate             time.Time                `gorm:"not null"`
	ExpectedReceivalDate *time.Time
	TransporterID        *uuid.UUID               `gorm:"type:uuid;index"`
	TransporterName      string                   `gorm:"type:varchar(200)"`
	SalespersonName      string                   `gorm:"type:varchar(200)"`
	FreightType          purchase.FreightType     `gorm:"type:varchar(3);not null;default:'CIF'"`
	FreightCost          decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountPercentage   decimal.Decimal          `gorm:"type:decimal(10,4);not null;default:0"`
	SurchargePercentage  decimal.Decimal          `gorm:"type:decimal(10,4);not null;default:0"`
	PaymentMethod        payment.Method           `gorm:"type:varchar(20);not null;default:'BILL'"`
	PaymentInstallments  int                      `gorm:"not null;default:1"`
	PaymentFirstDueDate  *time.Time
	PaymentInterval      int                      `gorm:"not null;default:1"`
	PaymentIntervalType  payment.IntervalType     `gorm:"type:varchar(10);not null;default:'MONTH'"`
	Items                []PurchaseOrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
	ItemsTotal           decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	PayableAmount        decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Status               purchase.Status          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Notes                string                   `gorm:"type:text"`
	ConfirmedAt          *time.Time               `gorm:"index"`
	ReceivedAt           *time.Time
	CancelledAt          *time.Time
	CancelReason         string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) ToDomain() *purchase.PurchaseOrder {
	order := &purchase.PurchaseOrder{
		TenantAggregateRoot:  m.toDomainTenantAggregateRoot(),
		OrderNumber:          m.OrderNumber,
		SupplierID:           m.SupplierID,
		SupplierName:         m.SupplierName,
		BranchID:             m.BranchID,
		OpenDate:             m.OpenDate,
		ExpectedReceivalDate: m.ExpectedReceivalDate,
		TransporterID:        m.TransporterID,
		TransporterName:      m.TransporterName,
		SalespersonName:      m.SalespersonName,
		FreightType:          m.FreightType,
		FreightCost:          valueobject.NewMoneyBRL(m.FreightCost),
		DiscountPercentage:   m.DiscountPercentage,
		SurchargePercentage:  m.SurchargePercentage,
		Terms: purchase.PaymentTerms{
			Method:       m.PaymentMethod,
			Installments: m.PaymentInstallments,
			FirstDueDate: m.PaymentFirstDueDate,
			Interval:     m.PaymentInterval,
			IntervalType: m.PaymentIntervalType,
		},
		ItemsTotal:    valueobject.NewMoneyBRL(m.ItemsTotal),
		PayableAmount: valueobject.NewMoneyBRL(m.PayableAmount),
		Status:        m.Status,
		Notes:         m.Notes,
		ConfirmedAt:   m.ConfirmedAt,
		ReceivedAt:    m.ReceivedAt,
		CancelledAt:   m.CancelledAt,
		CancelReason:  m.CancelReason,
		Items:         make([]purchase.PurchaseOrderItem, len(m.Items)),
	}
	for i, item := range m.Items {
		order.Items[i] = *item.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) FromDomain(o *purchase.PurchaseOrder) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.SupplierID = o.SupplierID
	m.SupplierName = o.SupplierName
	m.BranchID = o.BranchID
	m.OpenDate = o.OpenDate
	m.ExpectedReceivalDate = o.ExpectedReceivalDate
	m.TransporterID = o.TransporterID
	m.TransporterName = o.TransporterName
	m.SalespersonName = o.SalespersonName
	m.FreightType = o.FreightType
	m.FreightCost = o.FreightCost.Amount()
	m.DiscountPercentage = o.DiscountPercentage
	m.SurchargePercentage = o.SurchargePercentage
	m.PaymentMethod = o.Terms.Method
	m.PaymentInstallments = o.Terms.Installments
	m.PaymentFirstDueDate = o.Terms.FirstDueDate
	m.PaymentInterval = o.Terms.Interval
	m.PaymentIntervalType = o.Terms.IntervalType
	m.ItemsTotal = o.ItemsTotal.Amount()
	m.PayableAmount = o.PayableAmount.Amount()
	m.Status = o.Status
	m.Notes = o.Notes
	m.ConfirmedAt = o.ConfirmedAt
	m.ReceivedAt = o.ReceivedAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Items = make([]PurchaseOrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = *PurchaseOrderItemModelFromDomain(&item)
	}
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder entity.
func PurchaseOrderModelFromDomain(o *purchase.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(o)
	return m
}

// PurchaseOrderItemModel is the persistence model for the PurchaseOrderItem entity.
type PurchaseOrderItemModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	ProductCode      string          `gorm:"type:varchar(50);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// ToDomain converts the persistence model to a domain PurchaseOrderItem entity.
func (m *PurchaseOrderItemModel) ToDomain() *purchase.PurchaseOrderItem {
	return &purchase.PurchaseOrderItem{
		ID:               m.ID,
		OrderID:          m.OrderID,
		ProductID:        m.ProductID,
		ProductName:      m.ProductName,
		ProductCode:      m.ProductCode,
		Quantity:         m.Quantity,
		ReceivedQuantity: m.ReceivedQuantity,
		UnitCost:         valueobject.NewMoneyBRL(m.UnitCost),
		Amount:           valueobject.NewMoneyBRL(m.Amount),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain PurchaseOrderItem entity.
func (m *PurchaseOrderItemModel) FromDomain(i *purchase.PurchaseOrderItem) {
	m.ID = i.ID
	m.OrderID = i.OrderID
	m.ProductID = i.ProductID
	m.ProductName = i.ProductName
	m.ProductCode = i.ProductCode
	m.Quantity = i.Quantity
	m.ReceivedQuantity = i.ReceivedQuantity
	m.UnitCost = i.UnitCost.Amount()
	m.Amount = i.Amount.Amount()
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// PurchaseOrderItemModelFromDomain creates a new persistence model from a domain PurchaseOrderItem entity.
func PurchaseOrderItemModelFromDomain(i *purchase.PurchaseOrderItem) *PurchaseOrderItemModel {
	m := &PurchaseOrderItemModel{}
	m.FromDomain(i)
	return m
}
