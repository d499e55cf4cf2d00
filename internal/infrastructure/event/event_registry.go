package event

import (
	"github.com/retailpos/backend/internal/domain/payment"
	"github.com/retailpos/backend/internal/domain/purchase"
)

// RegisterDomainEvents registers all domain event types with the serializer
// so outbox entries can be deserialized back into typed events.
func RegisterDomainEvents(serializer *EventSerializer) {
	// Payment events
	serializer.Register(payment.EventTypePaymentGroupCreated, &payment.PaymentGroupCreatedEvent{})
	serializer.Register(payment.EventTypePaymentGroupConfirmed, &payment.PaymentGroupConfirmedEvent{})
	serializer.Register(payment.EventTypePaymentPaid, &payment.PaymentPaidEvent{})
	serializer.Register(payment.EventTypePaymentGroupPaid, &payment.PaymentGroupPaidEvent{})
	serializer.Register(payment.EventTypePaymentGroupCancelled, &payment.PaymentGroupCancelledEvent{})

	// Purchase events
	serializer.Register(purchase.EventTypePurchaseOrderCreated, &purchase.PurchaseOrderCreatedEvent{})
	serializer.Register(purchase.EventTypePurchaseOrderConfirmed, &purchase.PurchaseOrderConfirmedEvent{})
	serializer.Register(purchase.EventTypePurchaseOrderReceived, &purchase.PurchaseOrderReceivedEvent{})
	serializer.Register(purchase.EventTypePurchaseOrderCancelled, &purchase.PurchaseOrderCancelledEvent{})
}
