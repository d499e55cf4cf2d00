package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/payment"
	"github.com/retailpos/backend/internal/domain/purchase"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Service handles purchase order business operations
type Service struct {
	orderRepo      purchase.Repository
	eventPublisher shared.EventPublisher
}

// NewService creates a new purchase order Service
func NewService(orderRepo purchase.Repository) *Service {
	return &Service{
		orderRepo: orderRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new pending purchase order
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	openDate := time.Now()
	if req.OpenDate != nil {
		openDate = *req.OpenDate
	}

	order, err := purchase.NewPurchaseOrder(tenantID, orderNumber, req.SupplierID, req.SupplierName, req.BranchID, openDate)
	if err != nil {
		return nil, err
	}

	if req.FreightType != "" {
		cost := valueobject.ZeroBRL()
		if req.FreightCost != nil {
			cost = valueobject.NewMoneyBRL(*req.FreightCost)
		}
		if err := order.SetFreight(purchase.FreightType(req.FreightType), cost); err != nil {
			return nil, err
		}
	}

	if req.Salesperson != "" {
		order.SetSalesperson(req.Salesperson)
	}

	for _, item := range req.Items {
		unitCost := valueobject.NewMoneyBRL(item.UnitCost)
		if _, err := order.AddItem(item.ProductID, item.ProductName, item.ProductCode, item.Quantity, unitCost); err != nil {
			return nil, err
		}
	}

	if req.Notes != "" {
		order.SetNotes(req.Notes)
	}
	if req.CreatedBy != nil {
		order.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *Service) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves a purchase order by order number
func (s *Service) GetByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, tenantID, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PurchaseOrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderListItemResponse(&orders[i])
	}
	return responses, total, nil
}

// AddItem adds an item to a pending purchase order
func (s *Service) AddItem(ctx context.Context, tenantID, orderID uuid.UUID, req AddItemRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	unitCost := valueobject.NewMoneyBRL(req.UnitCost)
	if _, err := order.AddItem(req.ProductID, req.ProductName, req.ProductCode, req.Quantity, unitCost); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// UpdateItem changes the quantity of an order item
func (s *Service) UpdateItem(ctx context.Context, tenantID, orderID, itemID uuid.UUID, req UpdateItemRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateItemQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// RemoveItem removes an item from a pending purchase order
func (s *Service) RemoveItem(ctx context.Context, tenantID, orderID, itemID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// SetPaymentTerms records the settlement terms and adjustments
func (s *Service) SetPaymentTerms(ctx context.Context, tenantID, orderID uuid.UUID, req SetPaymentTermsRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	terms := purchase.PaymentTerms{
		Method:       payment.Method(req.Method),
		Installments: req.Installments,
		FirstDueDate: req.FirstDueDate,
		Interval:     req.Interval,
		IntervalType: payment.IntervalType(req.IntervalType),
	}
	if terms.Interval == 0 {
		terms.Interval = 1
	}
	if terms.IntervalType == "" {
		terms.IntervalType = payment.IntervalMonth
	}
	if err := order.SetPaymentTerms(terms); err != nil {
		return nil, err
	}

	discount := decimal.Zero
	surcharge := decimal.Zero
	if req.Discount != nil {
		discount = *req.Discount
	}
	if req.Surcharge != nil {
		surcharge = *req.Surcharge
	}
	if err := order.SetDiscountSurcharge(discount, surcharge); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Finish records the receival expectations collected on the final step
func (s *Service) Finish(ctx context.Context, tenantID, orderID uuid.UUID, req FinishPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if req.ExpectedReceivalDate != nil {
		if err := order.SetExpectedReceival(*req.ExpectedReceivalDate); err != nil {
			return nil, err
		}
	}
	if req.TransporterID != nil {
		if err := order.SetTransporter(*req.TransporterID, req.TransporterName); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		order.SetNotes(*req.Notes)
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Confirm confirms a pending purchase order and publishes its events
// through the transactional outbox.
func (s *Service) Confirm(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Confirm(); err != nil {
		return nil, err
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Receive records goods receipts against a confirmed order
func (s *Service) Receive(ctx context.Context, tenantID, orderID uuid.UUID, req ReceivePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if err := order.ReceiveItem(item.ItemID, item.Quantity); err != nil {
			return nil, err
		}
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Cancel cancels a purchase order
func (s *Service) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, req CancelPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()

	if err := s.orderRepo.SaveWithLockAndEvents(ctx, order, events); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Delete deletes a pending purchase order
func (s *Service) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if order.Status != purchase.StatusPending {
		return shared.NewDomainError("ORDER_NOT_PENDING", "Only pending orders can be deleted")
	}
	return s.orderRepo.DeleteForTenant(ctx, tenantID, orderID)
}

// GetStatusSummary returns order counts grouped by status
func (s *Service) GetStatusSummary(ctx context.Context, tenantID uuid.UUID) (*StatusSummaryResponse, error) {
	summary := &StatusSummaryResponse{}
	counts := []struct {
		status purchase.Status
		dest   *int64
	}{
		{purchase.StatusPending, &summary.Pending},
		{purchase.StatusConfirmed, &summary.Confirmed},
		{purchase.StatusPartialReceived, &summary.PartialReceived},
		{purchase.StatusReceived, &summary.Received},
		{purchase.StatusCancelled, &summary.Cancelled},
	}
	for _, c := range counts {
		count, err := s.orderRepo.CountByStatus(ctx, tenantID, c.status)
		if err != nil {
			return nil, err
		}
		*c.dest = count
	}
	return summary, nil
}
