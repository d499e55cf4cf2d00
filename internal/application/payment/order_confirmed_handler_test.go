package payment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/payment"
	"github.com/retailpos/backend/internal/domain/purchase"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

func confirmedOrderEvent(t *testing.T) *purchase.PurchaseOrderConfirmedEvent {
	t.Helper()
	order, err := purchase.NewPurchaseOrder(testPayTenantID, "PO-202506-0001", uuid.New(), "Acme Distribuidora", uuid.New(), time.Now())
	require.NoError(t, err)
	_, err = order.AddItem(uuid.New(), "Widget", "WK-001", decimal.NewFromInt(10), valueobject.NewMoneyBRLFromFloat(25))
	require.NoError(t, err)
	return purchase.NewPurchaseOrderConfirmedEvent(order)
}

func TestOrderConfirmedHandler_EventTypes(t *testing.T) {
	handler := NewOrderConfirmedHandler(new(MockGroupRepository), zap.NewNop())
	assert.Equal(t, []string{purchase.EventTypePurchaseOrderConfirmed}, handler.EventTypes())
}

func TestOrderConfirmedHandler_Handle(t *testing.T) {
	t.Run("creates a payable group for the order", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		handler := NewOrderConfirmedHandler(groupRepo, zap.NewNop())
		event := confirmedOrderEvent(t)

		groupRepo.On("FindByOrder", mock.Anything, testPayTenantID, event.OrderID).Return([]payment.PaymentGroup{}, nil)
		groupRepo.On("Save", mock.Anything, mock.MatchedBy(func(group *payment.PaymentGroup) bool {
			return group.OrderID != nil && *group.OrderID == event.OrderID &&
				group.TotalValue.Equals(valueobject.NewMoneyBRLFromFloat(250)) &&
				group.Description == "Payable for PO-202506-0001 (Acme Distribuidora)" &&
				group.Status == payment.GroupStatusConfirmed &&
				len(group.Payments) == 1 &&
				group.Payments[0].Method == payment.MethodBill &&
				group.Payments[0].Description == "1/1 Bill"
		})).Return(nil)

		err := handler.Handle(context.Background(), event)

		require.NoError(t, err)
		groupRepo.AssertExpectations(t)
	})

	t.Run("schedules the payable per the order's terms", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		handler := NewOrderConfirmedHandler(groupRepo, zap.NewNop())

		order, err := purchase.NewPurchaseOrder(testPayTenantID, "PO-202506-0003", uuid.New(), "Acme Distribuidora", uuid.New(), time.Now())
		require.NoError(t, err)
		_, err = order.AddItem(uuid.New(), "Widget", "WK-001", decimal.NewFromInt(10), valueobject.NewMoneyBRLFromFloat(25))
		require.NoError(t, err)
		firstDue := time.Now().AddDate(0, 1, 0)
		require.NoError(t, order.SetPaymentTerms(purchase.PaymentTerms{
			Method:       payment.MethodCheck,
			Installments: 3,
			FirstDueDate: &firstDue,
			Interval:     1,
			IntervalType: payment.IntervalMonth,
		}))
		event := purchase.NewPurchaseOrderConfirmedEvent(order)

		groupRepo.On("FindByOrder", mock.Anything, testPayTenantID, event.OrderID).Return([]payment.PaymentGroup{}, nil)
		groupRepo.On("Save", mock.Anything, mock.MatchedBy(func(group *payment.PaymentGroup) bool {
			if len(group.Payments) != 3 || group.Status != payment.GroupStatusConfirmed {
				return false
			}
			sum := valueobject.ZeroBRL()
			for _, p := range group.Payments {
				sum = sum.MustAdd(p.Value)
			}
			return group.Payments[0].Description == "1/3 Check" &&
				group.Payments[0].DueDate.Equal(firstDue) &&
				group.Payments[2].DueDate.Equal(firstDue.AddDate(0, 2, 0)) &&
				sum.Equals(valueobject.NewMoneyBRLFromFloat(250))
		})).Return(nil)

		require.NoError(t, handler.Handle(context.Background(), event))
		groupRepo.AssertExpectations(t)
	})

	t.Run("falls back to a single bill when terms are absent", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		handler := NewOrderConfirmedHandler(groupRepo, zap.NewNop())

		event := confirmedOrderEvent(t)
		event.Terms = purchase.PurchaseOrderTermsInfo{}

		groupRepo.On("FindByOrder", mock.Anything, testPayTenantID, event.OrderID).Return([]payment.PaymentGroup{}, nil)
		groupRepo.On("Save", mock.Anything, mock.MatchedBy(func(group *payment.PaymentGroup) bool {
			return len(group.Payments) == 1 && group.Payments[0].Method == payment.MethodBill
		})).Return(nil)

		require.NoError(t, handler.Handle(context.Background(), event))
		groupRepo.AssertExpectations(t)
	})

	t.Run("skips orders that already have a group", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		handler := NewOrderConfirmedHandler(groupRepo, zap.NewNop())
		event := confirmedOrderEvent(t)

		existing, err := payment.NewPaymentGroup(testPayTenantID, "Payable for PO-202506-0001 (Acme Distribuidora)", valueobject.NewMoneyBRLFromFloat(250))
		require.NoError(t, err)
		groupRepo.On("FindByOrder", mock.Anything, testPayTenantID, event.OrderID).Return([]payment.PaymentGroup{*existing}, nil)

		require.NoError(t, handler.Handle(context.Background(), event))
		groupRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("skips orders with a zero payable", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		handler := NewOrderConfirmedHandler(groupRepo, zap.NewNop())

		event := confirmedOrderEvent(t)
		event.PayableAmount = "0"

		require.NoError(t, handler.Handle(context.Background(), event))
		groupRepo.AssertNotCalled(t, "FindByOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects foreign event types", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		handler := NewOrderConfirmedHandler(groupRepo, zap.NewNop())

		order, err := purchase.NewPurchaseOrder(testPayTenantID, "PO-202506-0002", uuid.New(), "Acme", uuid.New(), time.Now())
		require.NoError(t, err)
		foreign := purchase.NewPurchaseOrderCancelledEvent(order, "changed plans")

		assert.Error(t, handler.Handle(context.Background(), foreign))
	})

	t.Run("rejects an unparsable payable amount", func(t *testing.T) {
		groupRepo := new(MockGroupRepository)
		handler := NewOrderConfirmedHandler(groupRepo, zap.NewNop())

		event := confirmedOrderEvent(t)
		event.PayableAmount = "abc"

		assert.Error(t, handler.Handle(context.Background(), event))
	})
}
