package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/payment"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the status of a purchase order
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusConfirmed       Status = "CONFIRMED"
	StatusPartialReceived Status = "PARTIAL_RECEIVED"
	StatusReceived        Status = "RECEIVED"
	StatusCancelled       Status = "CANCELLED"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPartialReceived, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition to the target status is allowed
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusPartialReceived || target == StatusReceived || target == StatusCancelled
	case StatusPartialReceived:
		return target == StatusPartialReceived || target == StatusReceived
	case StatusReceived, StatusCancelled:
		return false
	}
	return false
}

// CanEdit reports whether order contents may still change
func (s Status) CanEdit() bool {
	return s == StatusPending
}

// CanReceive reports whether goods can be received against the order
func (s Status) CanReceive() bool {
	return s == StatusConfirmed || s == StatusPartialReceived
}

// FreightType indicates who pays the freight
type FreightType string

const (
	FreightCIF FreightType = "CIF" // supplier pays, cost included in goods
	FreightFOB FreightType = "FOB" // buyer pays the carrier
)

// IsValid checks if the freight type is valid
func (f FreightType) IsValid() bool {
	return f == FreightCIF || f == FreightFOB
}

// PaymentTerms holds the settlement terms collected on the payment step
type PaymentTerms struct {
	Method       payment.Method       `gorm:"column:payment_method;type:varchar(20)"`
	Installments int                  `gorm:"column:payment_installments;default:1"`
	FirstDueDate *time.Time           `gorm:"column:payment_first_due_date"`
	Interval     int                  `gorm:"column:payment_interval;default:1"`
	IntervalType payment.IntervalType `gorm:"column:payment_interval_type;type:varchar(10)"`
}

// PurchaseOrderItem represents a line in a purchase order
type PurchaseOrderItem struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID         `gorm:"type:uuid;not null"`
	ProductName      string            `gorm:"type:varchar(200);not null"`
	ProductCode      string            `gorm:"type:varchar(50);not null"`
	Quantity         decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCost         valueobject.Money `gorm:"type:decimal(18,4);not null"`
	Amount           valueobject.Money `gorm:"type:decimal(18,4);not null"`
	CreatedAt        time.Time         `gorm:"not null"`
	UpdatedAt        time.Time         `gorm:"not null"`
}

// PendingQuantity returns how much of the line is still to be received
func (i *PurchaseOrderItem) PendingQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.ReceivedQuantity)
}

// FullyReceived reports whether the whole ordered quantity arrived
func (i *PurchaseOrderItem) FullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.Quantity)
}

// PurchaseOrder is the purchase order aggregate root
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	OrderNumber          string              `gorm:"type:varchar(50);not null"`
	SupplierID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierName         string              `gorm:"type:varchar(200);not null"`
	BranchID             uuid.UUID           `gorm:"type:uuid;not null;index"`
	OpenDate             time.Time           `gorm:"not null"`
	ExpectedReceivalDate *time.Time
	TransporterID        *uuid.UUID          `gorm:"type:uuid;index"`
	TransporterName      string              `gorm:"type:varchar(200)"`
	SalespersonName      string              `gorm:"type:varchar(200)"`
	FreightType          FreightType         `gorm:"type:varchar(3);not null;default:'CIF'"`
	FreightCost          valueobject.Money   `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountPercentage   decimal.Decimal     `gorm:"type:decimal(10,4);not null;default:0"`
	SurchargePercentage  decimal.Decimal     `gorm:"type:decimal(10,4);not null;default:0"`
	Terms                PaymentTerms        `gorm:"embedded"`
	Items                []PurchaseOrderItem `gorm:"foreignKey:OrderID"`
	ItemsTotal           valueobject.Money   `gorm:"type:decimal(18,4);not null;default:0"`
	PayableAmount        valueobject.Money   `gorm:"type:decimal(18,4);not null;default:0"`
	Status               Status              `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Notes                string              `gorm:"type:text"`
	ConfirmedAt          *time.Time
	ReceivedAt           *time.Time
	CancelledAt          *time.Time
	CancelReason         string              `gorm:"type:varchar(500)"`
}

// NewPurchaseOrder creates a new pending purchase order.
// The open date may not precede today.
func NewPurchaseOrder(tenantID uuid.UUID, orderNumber string, supplierID uuid.UUID, supplierName string, branchID uuid.UUID, openDate time.Time) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier is required")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch is required")
	}
	if openDate.Before(startOfToday()) {
		return nil, shared.NewDomainError("PAST_OPEN_DATE", "The open date cannot be in the past")
	}

	order := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		BranchID:            branchID,
		OpenDate:            openDate,
		FreightType:         FreightCIF,
		FreightCost:         valueobject.ZeroBRL(),
		DiscountPercentage:  decimal.Zero,
		SurchargePercentage: decimal.Zero,
		Terms: PaymentTerms{
			Method:       payment.MethodBill,
			Installments: 1,
			Interval:     1,
			IntervalType: payment.IntervalMonth,
		},
		Items:         make([]PurchaseOrderItem, 0),
		ItemsTotal:    valueobject.ZeroBRL(),
		PayableAmount: valueobject.ZeroBRL(),
		Status:        StatusPending,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))
	return order, nil
}

// AddItem adds a product line to the order
func (o *PurchaseOrder) AddItem(productID uuid.UUID, productName, productCode string, quantity decimal.Decimal, unitCost valueobject.Money) (*PurchaseOrderItem, error) {
	if !o.Status.CanEdit() {
		return nil, shared.NewDomainError("ORDER_NOT_EDITABLE", "Items can only be changed while the order is pending")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	item := PurchaseOrderItem{
		ID:               uuid.New(),
		OrderID:          o.ID,
		ProductID:        productID,
		ProductName:      productName,
		ProductCode:      productCode,
		Quantity:         quantity,
		ReceivedQuantity: decimal.Zero,
		UnitCost:         unitCost,
		Amount:           unitCost.Multiply(quantity),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	o.Items = append(o.Items, item)
	o.recalculateTotals()
	o.UpdatedAt = now

	return &o.Items[len(o.Items)-1], nil
}

// UpdateItemQuantity changes the ordered quantity of a line
func (o *PurchaseOrder) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if !o.Status.CanEdit() {
		return shared.NewDomainError("ORDER_NOT_EDITABLE", "Items can only be changed while the order is pending")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			now := time.Now()
			o.Items[i].Quantity = quantity
			o.Items[i].Amount = o.Items[i].UnitCost.Multiply(quantity)
			o.Items[i].UpdatedAt = now
			o.recalculateTotals()
			o.UpdatedAt = now
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveItem removes a line from the order
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if !o.Status.CanEdit() {
		return shared.NewDomainError("ORDER_NOT_EDITABLE", "Items can only be changed while the order is pending")
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// SetFreight sets the freight modality and its cost
func (o *PurchaseOrder) SetFreight(freightType FreightType, cost valueobject.Money) error {
	if !o.Status.CanEdit() {
		return shared.NewDomainError("ORDER_NOT_EDITABLE", "Freight can only be changed while the order is pending")
	}
	if !freightType.IsValid() {
		return shared.NewDomainError("INVALID_FREIGHT_TYPE", "Freight type must be CIF or FOB")
	}
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_FREIGHT_COST", "Freight cost cannot be negative")
	}
	o.FreightType = freightType
	o.FreightCost = cost
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	return nil
}

// SetPaymentTerms sets the settlement terms for the order
func (o *PurchaseOrder) SetPaymentTerms(terms PaymentTerms) error {
	if !o.Status.CanEdit() {
		return shared.NewDomainError("ORDER_NOT_EDITABLE", "Payment terms can only be changed while the order is pending")
	}
	if !terms.Method.IsValid() || terms.Method == payment.MethodMultiple {
		return shared.NewDomainError("INVALID_METHOD", "Payment method is not accepted on purchase orders")
	}
	if terms.Installments < 1 {
		return shared.NewDomainError("INVALID_INSTALLMENTS", "Installment count must be at least 1")
	}
	if terms.Installments > terms.Method.MaxInstallments() {
		return shared.NewDomainError("TOO_MANY_INSTALLMENTS", "Installment count exceeds the method limit")
	}
	if terms.Installments > 1 {
		if terms.Interval < 1 {
			return shared.NewDomainError("INVALID_INTERVAL", "Installment interval must be at least 1")
		}
		if !terms.IntervalType.IsValid() {
			return shared.NewDomainError("INVALID_INTERVAL_TYPE", "Unknown interval type")
		}
	}
	if terms.FirstDueDate != nil && terms.FirstDueDate.Before(startOfToday()) {
		return shared.NewDomainError("PAST_DUE_DATE", "The first due date cannot be in the past")
	}
	o.Terms = terms
	o.UpdatedAt = time.Now()
	return nil
}

// SetDiscountSurcharge applies percentage adjustments to the payable amount
func (o *PurchaseOrder) SetDiscountSurcharge(discount, surcharge decimal.Decimal) error {
	if !o.Status.CanEdit() {
		return shared.NewDomainError("ORDER_NOT_EDITABLE", "Adjustments can only be changed while the order is pending")
	}
	hundred := decimal.NewFromInt(100)
	if discount.IsNegative() || discount.GreaterThanOrEqual(hundred) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100 percent")
	}
	if surcharge.IsNegative() || surcharge.GreaterThanOrEqual(hundred) {
		return shared.NewDomainError("INVALID_SURCHARGE", "Surcharge must be between 0 and 100 percent")
	}
	o.DiscountPercentage = discount
	o.SurchargePercentage = surcharge
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	return nil
}

// SetExpectedReceival records when the goods are expected to arrive
func (o *PurchaseOrder) SetExpectedReceival(date time.Time) error {
	if o.Status == StatusReceived || o.Status == StatusCancelled {
		return shared.NewDomainError("ORDER_CLOSED", "Order is already closed")
	}
	if date.Before(startOfToday()) {
		return shared.NewDomainError("PAST_RECEIVAL_DATE", "Expected receival dates must be set to a future date")
	}
	o.ExpectedReceivalDate = &date
	o.UpdatedAt = time.Now()
	return nil
}

// SetTransporter assigns the freight carrier
func (o *PurchaseOrder) SetTransporter(transporterID uuid.UUID, name string) error {
	if o.Status == StatusReceived || o.Status == StatusCancelled {
		return shared.NewDomainError("ORDER_CLOSED", "Order is already closed")
	}
	if transporterID == uuid.Nil {
		o.TransporterID = nil
		o.TransporterName = ""
	} else {
		o.TransporterID = &transporterID
		o.TransporterName = name
	}
	o.UpdatedAt = time.Now()
	return nil
}

// SetNotes updates the free-form order notes
func (o *PurchaseOrder) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// SetSalesperson records the supplier's salesperson
func (o *PurchaseOrder) SetSalesperson(name string) {
	o.SalespersonName = name
	o.UpdatedAt = time.Now()
}

// Confirm confirms a pending order with at least one item
func (o *PurchaseOrder) Confirm() error {
	if !o.Status.CanTransitionTo(StatusConfirmed) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Only pending orders can be confirmed")
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot confirm an order without items")
	}

	now := time.Now()
	o.Status = StatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderConfirmedEvent(o))
	return nil
}

// ReceiveItem records arrival of goods against a line. When every line is
// fully received the order closes as RECEIVED, otherwise it stays
// PARTIAL_RECEIVED.
func (o *PurchaseOrder) ReceiveItem(itemID uuid.UUID, quantity decimal.Decimal) error {
	if !o.Status.CanReceive() {
		return shared.NewDomainError("ORDER_NOT_RECEIVABLE", "Only confirmed orders can receive goods")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}

	var item *PurchaseOrderItem
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			item = &o.Items[i]
			break
		}
	}
	if item == nil {
		return shared.ErrNotFound
	}
	if quantity.GreaterThan(item.PendingQuantity()) {
		return shared.NewDomainError("OVER_RECEIPT", "Received quantity exceeds the pending quantity")
	}

	now := time.Now()
	item.ReceivedQuantity = item.ReceivedQuantity.Add(quantity)
	item.UpdatedAt = now

	allReceived := true
	for i := range o.Items {
		if !o.Items[i].FullyReceived() {
			allReceived = false
			break
		}
	}
	if allReceived {
		o.Status = StatusReceived
		o.ReceivedAt = &now
	} else {
		o.Status = StatusPartialReceived
	}
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o, itemID, quantity, allReceived))
	return nil
}

// Cancel cancels the order. Orders with received goods cannot be cancelled.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", "Order cannot be cancelled in its current status")
	}

	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o, reason))
	return nil
}

// recalculateTotals recomputes the items total and the payable amount:
// items minus discount plus surcharge, plus FOB freight.
func (o *PurchaseOrder) recalculateTotals() {
	total := valueobject.ZeroBRL()
	for _, item := range o.Items {
		total = total.MustAdd(item.Amount)
	}
	o.ItemsTotal = total

	payable := total.ApplyDiscount(o.DiscountPercentage).ApplySurcharge(o.SurchargePercentage)
	if o.FreightType == FreightFOB {
		payable = payable.MustAdd(o.FreightCost)
	}
	o.PayableAmount = payable.Round(2)
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Repository defines persistence operations for purchase orders
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*PurchaseOrder, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status Status, filter shared.Filter) ([]PurchaseOrder, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status Status) (int64, error)
	Save(ctx context.Context, order *PurchaseOrder) error
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error
	SaveWithLockAndEvents(ctx context.Context, order *PurchaseOrder, events []shared.DomainEvent) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
