package payment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

var testGroupTenantID = uuid.New()

func createTestGroup(t *testing.T, total float64) *PaymentGroup {
	t.Helper()
	group, err := NewPaymentGroup(testGroupTenantID, "Sale 00042", valueobject.NewMoneyBRLFromFloat(total))
	require.NoError(t, err)
	return group
}

func installmentsOf(values ...float64) []Installment {
	installments := make([]Installment, len(values))
	for i, v := range values {
		installments[i] = Installment{
			Number:      i + 1,
			Description: "test installment",
			DueDate:     time.Now().AddDate(0, 0, 7*(i+1)),
			Value:       valueobject.NewMoneyBRLFromFloat(v),
		}
	}
	return installments
}

func TestNewPaymentGroup(t *testing.T) {
	t.Run("creates an open group", func(t *testing.T) {
		group := createTestGroup(t, 150)

		assert.Equal(t, testGroupTenantID, group.TenantID)
		assert.Equal(t, GroupStatusOpen, group.Status)
		assert.Empty(t, group.Payments)
		assert.Len(t, group.GetDomainEvents(), 1)
	})

	t.Run("rejects an empty description", func(t *testing.T) {
		_, err := NewPaymentGroup(testGroupTenantID, "", valueobject.NewMoneyBRLFromFloat(100))
		assert.Error(t, err)
	})

	t.Run("rejects a non positive total", func(t *testing.T) {
		_, err := NewPaymentGroup(testGroupTenantID, "Sale", valueobject.ZeroBRL())
		assert.Error(t, err)
	})
}

func TestGroupStatusTransitions(t *testing.T) {
	assert.True(t, GroupStatusOpen.CanTransitionTo(GroupStatusConfirmed))
	assert.True(t, GroupStatusOpen.CanTransitionTo(GroupStatusCancelled))
	assert.False(t, GroupStatusOpen.CanTransitionTo(GroupStatusPaid))

	assert.True(t, GroupStatusConfirmed.CanTransitionTo(GroupStatusPaid))
	assert.True(t, GroupStatusConfirmed.CanTransitionTo(GroupStatusCancelled))
	assert.False(t, GroupStatusConfirmed.CanTransitionTo(GroupStatusOpen))

	assert.False(t, GroupStatusPaid.CanTransitionTo(GroupStatusCancelled))
	assert.False(t, GroupStatusCancelled.CanTransitionTo(GroupStatusOpen))
}

func TestPaymentGroupAddInstallments(t *testing.T) {
	t.Run("adds a plan and tracks the outstanding value", func(t *testing.T) {
		group := createTestGroup(t, 300)

		err := group.AddInstallments(MethodBill, installmentsOf(100, 100))
		require.NoError(t, err)

		assert.Len(t, group.Payments, 2)
		assert.Equal(t, StatusPreview, group.Payments[0].Status)
		assert.True(t, group.Received().Equals(valueobject.NewMoneyBRLFromFloat(200)))
		assert.True(t, group.Outstanding().Equals(valueobject.NewMoneyBRLFromFloat(100)))
	})

	t.Run("numbers payments across plans", func(t *testing.T) {
		group := createTestGroup(t, 300)

		require.NoError(t, group.AddInstallments(MethodBill, installmentsOf(100)))
		require.NoError(t, group.AddInstallments(MethodCheck, installmentsOf(100, 100)))

		assert.Equal(t, 1, group.Payments[0].Number)
		assert.Equal(t, 2, group.Payments[1].Number)
		assert.Equal(t, 3, group.Payments[2].Number)
	})

	t.Run("rejects non cash overpayment", func(t *testing.T) {
		group := createTestGroup(t, 100)

		err := group.AddInstallments(MethodBill, installmentsOf(150))
		assert.Error(t, err)
	})

	t.Run("allows cash to exceed the total", func(t *testing.T) {
		group := createTestGroup(t, 100)

		require.NoError(t, group.AddInstallments(MethodMoney, installmentsOf(150)))
		assert.True(t, group.ChangeDue().Equals(valueobject.NewMoneyBRLFromFloat(50)))
	})

	t.Run("rejects empty and non positive plans", func(t *testing.T) {
		group := createTestGroup(t, 100)

		assert.Error(t, group.AddInstallments(MethodBill, nil))
		assert.Error(t, group.AddInstallments(MethodBill, installmentsOf(0)))
	})

	t.Run("rejects plans on a non open group", func(t *testing.T) {
		group := createTestGroup(t, 100)
		require.NoError(t, group.AddInstallments(MethodMoney, installmentsOf(100)))
		require.NoError(t, group.Confirm())

		err := group.AddInstallments(MethodBill, installmentsOf(50))
		assert.Error(t, err)
	})
}

func TestPaymentGroupConfirm(t *testing.T) {
	t.Run("confirms a covered group and promotes previews", func(t *testing.T) {
		group := createTestGroup(t, 200)
		require.NoError(t, group.AddInstallments(MethodBill, installmentsOf(100, 100)))

		require.NoError(t, group.Confirm())

		assert.Equal(t, GroupStatusConfirmed, group.Status)
		assert.NotNil(t, group.ConfirmedAt)
		for _, p := range group.Payments {
			assert.Equal(t, StatusPending, p.Status)
		}
	})

	t.Run("rejects an empty group", func(t *testing.T) {
		group := createTestGroup(t, 200)
		assert.Error(t, group.Confirm())
	})

	t.Run("rejects an uncovered group", func(t *testing.T) {
		group := createTestGroup(t, 200)
		require.NoError(t, group.AddInstallments(MethodBill, installmentsOf(150)))

		err := group.Confirm()
		assert.Error(t, err)
	})

	t.Run("rejects a second confirmation", func(t *testing.T) {
		group := createTestGroup(t, 100)
		require.NoError(t, group.AddInstallments(MethodMoney, installmentsOf(100)))
		require.NoError(t, group.Confirm())

		assert.Error(t, group.Confirm())
	})
}

func TestPaymentGroupPay(t *testing.T) {
	confirmedGroup := func(t *testing.T) *PaymentGroup {
		t.Helper()
		group := createTestGroup(t, 200)
		require.NoError(t, group.AddInstallments(MethodBill, installmentsOf(100, 100)))
		require.NoError(t, group.Confirm())
		return group
	}

	t.Run("marks a pending payment paid", func(t *testing.T) {
		group := confirmedGroup(t)

		require.NoError(t, group.Pay(group.Payments[0].ID))

		assert.Equal(t, StatusPaid, group.Payments[0].Status)
		assert.NotNil(t, group.Payments[0].PaidAt)
		assert.Equal(t, GroupStatusConfirmed, group.Status)
	})

	t.Run("settling the last payment pays the group", func(t *testing.T) {
		group := confirmedGroup(t)

		require.NoError(t, group.Pay(group.Payments[0].ID))
		require.NoError(t, group.Pay(group.Payments[1].ID))

		assert.Equal(t, GroupStatusPaid, group.Status)
		assert.NotNil(t, group.PaidAt)
	})

	t.Run("rejects paying the same payment twice", func(t *testing.T) {
		group := confirmedGroup(t)
		require.NoError(t, group.Pay(group.Payments[0].ID))

		assert.Error(t, group.Pay(group.Payments[0].ID))
	})

	t.Run("rejects unknown payments", func(t *testing.T) {
		group := confirmedGroup(t)
		assert.Error(t, group.Pay(uuid.New()))
	})

	t.Run("rejects payments on an open group", func(t *testing.T) {
		group := createTestGroup(t, 100)
		require.NoError(t, group.AddInstallments(MethodBill, installmentsOf(100)))

		assert.Error(t, group.Pay(group.Payments[0].ID))
	})
}

func TestPaymentGroupCancel(t *testing.T) {
	t.Run("cancels an open group and its payments", func(t *testing.T) {
		group := createTestGroup(t, 100)
		require.NoError(t, group.AddInstallments(MethodBill, installmentsOf(100)))

		require.NoError(t, group.Cancel("client gave up"))

		assert.Equal(t, GroupStatusCancelled, group.Status)
		assert.Equal(t, "client gave up", group.CancelReason)
		assert.Equal(t, StatusCancelled, group.Payments[0].Status)
		assert.True(t, group.Received().IsZero())
	})

	t.Run("cancels a confirmed group without paid payments", func(t *testing.T) {
		group := createTestGroup(t, 100)
		require.NoError(t, group.AddInstallments(MethodBill, installmentsOf(100)))
		require.NoError(t, group.Confirm())

		assert.NoError(t, group.Cancel("supplier out of stock"))
	})

	t.Run("rejects cancelling once a payment was paid", func(t *testing.T) {
		group := createTestGroup(t, 200)
		require.NoError(t, group.AddInstallments(MethodBill, installmentsOf(100, 100)))
		require.NoError(t, group.Confirm())
		require.NoError(t, group.Pay(group.Payments[0].ID))

		assert.Error(t, group.Cancel("too late"))
	})

	t.Run("rejects cancelling a cancelled group", func(t *testing.T) {
		group := createTestGroup(t, 100)
		require.NoError(t, group.Cancel("duplicate"))

		assert.Error(t, group.Cancel("again"))
	})
}
