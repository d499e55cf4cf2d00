package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/retailpos/backend/internal/domain/payment"
	"github.com/retailpos/backend/internal/domain/purchase"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderConfirmedHandler opens a payable payment group when a purchase
// order is confirmed, so the supplier payable can be settled through
// the same installment machinery as any other payment.
type OrderConfirmedHandler struct {
	groupRepo payment.GroupRepository
	logger    *zap.Logger
}

// NewOrderConfirmedHandler creates a new handler for purchase order confirmed events
func NewOrderConfirmedHandler(groupRepo payment.GroupRepository, logger *zap.Logger) *OrderConfirmedHandler {
	return &OrderConfirmedHandler{
		groupRepo: groupRepo,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderConfirmedHandler) EventTypes() []string {
	return []string{purchase.EventTypePurchaseOrderConfirmed}
}

// Handle creates the payable group for a confirmed purchase order.
// Redelivery is expected from outbox retries, so an order that already
// has a payment group is skipped.
func (h *OrderConfirmedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	confirmed, ok := event.(*purchase.PurchaseOrderConfirmedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", purchase.EventTypePurchaseOrderConfirmed),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			purchase.EventTypePurchaseOrderConfirmed, event.EventType())
	}

	payable, err := decimal.NewFromString(confirmed.PayableAmount)
	if err != nil {
		return fmt.Errorf("failed to parse payable amount %q: %w", confirmed.PayableAmount, err)
	}
	if !payable.IsPositive() {
		h.logger.Info("skipping payable group creation, order payable is zero",
			zap.String("order_id", confirmed.OrderID.String()),
			zap.String("order_number", confirmed.OrderNumber),
		)
		return nil
	}

	existing, err := h.groupRepo.FindByOrder(ctx, confirmed.TenantID(), confirmed.OrderID)
	if err != nil {
		return fmt.Errorf("failed to check existing payment groups: %w", err)
	}
	if len(existing) > 0 {
		h.logger.Warn("payment group already exists for order, skipping",
			zap.String("order_id", confirmed.OrderID.String()),
			zap.String("order_number", confirmed.OrderNumber),
			zap.String("existing_group_id", existing[0].ID.String()),
		)
		return nil
	}

	description := fmt.Sprintf("Payable for %s (%s)", confirmed.OrderNumber, confirmed.SupplierName)
	total := valueobject.NewMoneyBRL(payable)
	group, err := payment.NewPaymentGroup(confirmed.TenantID(), description, total)
	if err != nil {
		return fmt.Errorf("failed to create payable group: %w", err)
	}
	orderID := confirmed.OrderID
	group.OrderID = &orderID

	installments, err := h.buildInstallments(confirmed.Terms, total)
	if err != nil {
		return fmt.Errorf("failed to build payable plan for order %s: %w", confirmed.OrderNumber, err)
	}
	if err := group.AddInstallments(termsMethod(confirmed.Terms), installments); err != nil {
		return fmt.Errorf("failed to attach payable installments: %w", err)
	}
	if err := group.Confirm(); err != nil {
		return fmt.Errorf("failed to confirm payable group: %w", err)
	}

	if err := h.groupRepo.Save(ctx, group); err != nil {
		return fmt.Errorf("failed to save payable group: %w", err)
	}

	h.logger.Info("payable payment group created",
		zap.String("group_id", group.ID.String()),
		zap.String("order_id", confirmed.OrderID.String()),
		zap.String("order_number", confirmed.OrderNumber),
		zap.String("supplier_name", confirmed.SupplierName),
		zap.String("amount", payable.String()),
		zap.Int("installments", len(installments)),
	)

	return nil
}

// buildInstallments schedules the payable according to the terms chosen on
// the order's payment step. An order confirmed after its recorded first due
// date, or delivered from an outbox row predating terms capture, falls due
// as of handling time.
func (h *OrderConfirmedHandler) buildInstallments(terms purchase.PurchaseOrderTermsInfo, total valueobject.Money) ([]payment.Installment, error) {
	now := time.Now()
	spec := payment.PlanSpec{
		Method:       termsMethod(terms),
		Total:        total,
		Installments: terms.Installments,
		FirstDueDate: now,
		Interval:     terms.Interval,
		IntervalType: terms.IntervalType,
	}
	if spec.Installments < 1 {
		spec.Installments = 1
	}
	if spec.Installments > 1 {
		if spec.Interval < 1 {
			spec.Interval = 1
		}
		if !spec.IntervalType.IsValid() {
			spec.IntervalType = payment.IntervalMonth
		}
	}
	if terms.FirstDueDate != nil && terms.FirstDueDate.After(now) {
		spec.FirstDueDate = *terms.FirstDueDate
	}
	return spec.Build(now)
}

func termsMethod(terms purchase.PurchaseOrderTermsInfo) payment.Method {
	if terms.Method.IsValid() {
		return terms.Method
	}
	return payment.MethodBill
}

// Ensure OrderConfirmedHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderConfirmedHandler)(nil)
