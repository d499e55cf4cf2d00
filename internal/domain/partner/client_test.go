package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

var testPartnerTenantID = uuid.New()

func createTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(testPartnerTenantID, "Maria Souza", "123.456.789-00")
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("creates an active client with zero credit", func(t *testing.T) {
		client := createTestClient(t)

		assert.Equal(t, "Maria Souza", client.Name)
		assert.Equal(t, "123.456.789-00", client.Document)
		assert.True(t, client.Active)
		assert.True(t, client.CreditLimit.IsZero())
		assert.True(t, client.CreditUsed.IsZero())
	})

	t.Run("trims whitespace", func(t *testing.T) {
		client, err := NewClient(testPartnerTenantID, "  Maria  ", " 123 ")
		require.NoError(t, err)
		assert.Equal(t, "Maria", client.Name)
		assert.Equal(t, "123", client.Document)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := NewClient(testPartnerTenantID, "   ", "")
		assert.Error(t, err)
	})
}

func TestClientCredit(t *testing.T) {
	t.Run("set limit and consume", func(t *testing.T) {
		client := createTestClient(t)
		require.NoError(t, client.SetCreditLimit(valueobject.NewMoneyBRLFromFloat(500)))

		require.NoError(t, client.ConsumeCredit(valueobject.NewMoneyBRLFromFloat(200)))

		assert.True(t, client.CreditUsed.Equals(valueobject.NewMoneyBRLFromFloat(200)))
		assert.True(t, client.RemainingCredit().Equals(valueobject.NewMoneyBRLFromFloat(300)))
	})

	t.Run("rejects a negative limit", func(t *testing.T) {
		client := createTestClient(t)
		assert.Error(t, client.SetCreditLimit(valueobject.NewMoneyBRLFromFloat(-1)))
	})

	t.Run("consuming past the limit fails", func(t *testing.T) {
		client := createTestClient(t)
		require.NoError(t, client.SetCreditLimit(valueobject.NewMoneyBRLFromFloat(100)))
		require.NoError(t, client.ConsumeCredit(valueobject.NewMoneyBRLFromFloat(80)))

		err := client.ConsumeCredit(valueobject.NewMoneyBRLFromFloat(30))
		assert.ErrorIs(t, err, shared.ErrInsufficientCredit)
		assert.True(t, client.CreditUsed.Equals(valueobject.NewMoneyBRLFromFloat(80)))
	})

	t.Run("consuming exactly the remaining credit succeeds", func(t *testing.T) {
		client := createTestClient(t)
		require.NoError(t, client.SetCreditLimit(valueobject.NewMoneyBRLFromFloat(100)))

		require.NoError(t, client.ConsumeCredit(valueobject.NewMoneyBRLFromFloat(100)))
		assert.True(t, client.RemainingCredit().IsZero())
	})

	t.Run("release restores credit and clamps at zero", func(t *testing.T) {
		client := createTestClient(t)
		require.NoError(t, client.SetCreditLimit(valueobject.NewMoneyBRLFromFloat(100)))
		require.NoError(t, client.ConsumeCredit(valueobject.NewMoneyBRLFromFloat(60)))

		require.NoError(t, client.ReleaseCredit(valueobject.NewMoneyBRLFromFloat(40)))
		assert.True(t, client.CreditUsed.Equals(valueobject.NewMoneyBRLFromFloat(20)))

		require.NoError(t, client.ReleaseCredit(valueobject.NewMoneyBRLFromFloat(50)))
		assert.True(t, client.CreditUsed.IsZero())
	})

	t.Run("rejects non positive amounts", func(t *testing.T) {
		client := createTestClient(t)
		require.NoError(t, client.SetCreditLimit(valueobject.NewMoneyBRLFromFloat(100)))

		assert.Error(t, client.ConsumeCredit(valueobject.ZeroBRL()))
		assert.Error(t, client.ReleaseCredit(valueobject.ZeroBRL()))
	})
}

func TestNewSupplier(t *testing.T) {
	t.Run("creates an active supplier", func(t *testing.T) {
		supplier, err := NewSupplier(testPartnerTenantID, "Acme Distribuidora", "12.345.678/0001-00")
		require.NoError(t, err)
		assert.True(t, supplier.Active)
		assert.Equal(t, "Acme Distribuidora", supplier.Name)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := NewSupplier(testPartnerTenantID, "  ", "")
		assert.Error(t, err)
	})

	t.Run("deactivate and activate", func(t *testing.T) {
		supplier, err := NewSupplier(testPartnerTenantID, "Acme", "")
		require.NoError(t, err)

		supplier.Deactivate()
		assert.False(t, supplier.Active)
		supplier.Activate()
		assert.True(t, supplier.Active)
	})
}

func TestNewTransporter(t *testing.T) {
	t.Run("creates an active transporter", func(t *testing.T) {
		transporter, err := NewTransporter(testPartnerTenantID, "Rodo Cargas")
		require.NoError(t, err)
		assert.True(t, transporter.Active)
		assert.True(t, transporter.FreightPercentage.IsZero())
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := NewTransporter(testPartnerTenantID, "")
		assert.Error(t, err)
	})
}
