package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), BRL)
		require.NoError(t, err)
		assert.Equal(t, BRL, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", BRL)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", BRL)
		assert.Error(t, err)
	})
}

func TestNewMoneyBRL(t *testing.T) {
	m := NewMoneyBRL(decimal.NewFromFloat(50.00))
	assert.Equal(t, BRL, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(50.00)))
}

func TestNewMoneyBRLFromFloat(t *testing.T) {
	m := NewMoneyBRLFromFloat(75.50)
	assert.Equal(t, BRL, m.Currency())
	assert.Equal(t, 75.5, m.Float64())
}

func TestZero(t *testing.T) {
	m := Zero(USD)
	assert.True(t, m.IsZero())
	assert.Equal(t, USD, m.Currency())
}

func TestZeroBRL(t *testing.T) {
	m := ZeroBRL()
	assert.True(t, m.IsZero())
	assert.Equal(t, BRL, m.Currency())
}

func TestMoneyIsPositiveNegativeZero(t *testing.T) {
	positive := NewMoneyBRLFromFloat(100)
	negative := NewMoneyBRLFromFloat(-100)
	zero := ZeroBRL()

	assert.True(t, positive.IsPositive())
	assert.False(t, positive.IsNegative())
	assert.False(t, positive.IsZero())

	assert.False(t, negative.IsPositive())
	assert.True(t, negative.IsNegative())
	assert.False(t, negative.IsZero())

	assert.False(t, zero.IsPositive())
	assert.False(t, zero.IsNegative())
	assert.True(t, zero.IsZero())
}

func TestMoneyAdd(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		m1 := NewMoneyBRLFromFloat(100.50)
		m2 := NewMoneyBRLFromFloat(50.25)
		result, err := m1.Add(m2)
		require.NoError(t, err)
		assert.True(t, result.Amount().Equal(decimal.NewFromFloat(150.75)))
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		m1 := NewMoneyBRLFromFloat(100)
		m2, _ := NewMoney(decimal.NewFromInt(50), USD)
		_, err := m1.Add(m2)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "different currencies")
	})
}

func TestMoneySubtract(t *testing.T) {
	t.Run("subtracts same currency", func(t *testing.T) {
		m1 := NewMoneyBRLFromFloat(100)
		m2 := NewMoneyBRLFromFloat(30.50)
		result, err := m1.Subtract(m2)
		require.NoError(t, err)
		assert.True(t, result.Amount().Equal(decimal.NewFromFloat(69.50)))
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		m1 := NewMoneyBRLFromFloat(100)
		m2, _ := NewMoney(decimal.NewFromInt(50), EUR)
		_, err := m1.Subtract(m2)
		assert.Error(t, err)
	})
}

func TestMoneyMustAddPanicsOnCurrencyMismatch(t *testing.T) {
	m1 := NewMoneyBRLFromFloat(100)
	m2, _ := NewMoney(decimal.NewFromInt(50), USD)
	assert.Panics(t, func() { m1.MustAdd(m2) })
}

func TestMoneyComparisons(t *testing.T) {
	m1 := NewMoneyBRLFromFloat(100)
	m2 := NewMoneyBRLFromFloat(200)

	less, err := m1.LessThan(m2)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := m2.GreaterThan(m1)
	require.NoError(t, err)
	assert.True(t, greater)

	gte, err := m1.GreaterThanOrEqual(NewMoneyBRLFromFloat(100))
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, m1.Equals(NewMoneyBRLFromFloat(100)))
	assert.False(t, m1.Equals(m2))

	other, _ := NewMoney(decimal.NewFromInt(100), USD)
	_, err = m1.LessThan(other)
	assert.Error(t, err)
}

func TestMoneyAllocate(t *testing.T) {
	t.Run("splits evenly when divisible", func(t *testing.T) {
		parts, err := NewMoneyBRLFromFloat(90).Allocate(3)
		require.NoError(t, err)
		require.Len(t, parts, 3)
		for _, p := range parts {
			assert.True(t, p.Amount().Equal(decimal.NewFromInt(30)))
		}
	})

	t.Run("pushes the cent remainder onto the leading parts", func(t *testing.T) {
		parts, err := NewMoneyBRLFromFloat(100).Allocate(3)
		require.NoError(t, err)
		require.Len(t, parts, 3)
		assert.True(t, parts[0].Amount().Equal(decimal.NewFromFloat(33.34)))
		assert.True(t, parts[1].Amount().Equal(decimal.NewFromFloat(33.33)))
		assert.True(t, parts[2].Amount().Equal(decimal.NewFromFloat(33.33)))

		sum := ZeroBRL()
		for _, p := range parts {
			sum = sum.MustAdd(p)
		}
		assert.True(t, sum.Equals(NewMoneyBRLFromFloat(100)))
	})

	t.Run("single part returns the original", func(t *testing.T) {
		parts, err := NewMoneyBRLFromFloat(42.42).Allocate(1)
		require.NoError(t, err)
		require.Len(t, parts, 1)
		assert.True(t, parts[0].Equals(NewMoneyBRLFromFloat(42.42)))
	})

	t.Run("rejects non positive part counts", func(t *testing.T) {
		_, err := NewMoneyBRLFromFloat(10).Allocate(0)
		assert.Error(t, err)
	})
}

func TestMoneyPercentages(t *testing.T) {
	m := NewMoneyBRLFromFloat(200)

	pct := m.CalculatePercentage(decimal.NewFromInt(10))
	assert.True(t, pct.Amount().Equal(decimal.NewFromInt(20)))

	discounted := m.ApplyDiscount(decimal.NewFromInt(25))
	assert.True(t, discounted.Amount().Equal(decimal.NewFromInt(150)))

	surcharged := m.ApplySurcharge(decimal.NewFromInt(5))
	assert.True(t, surcharged.Amount().Equal(decimal.NewFromInt(210)))
}

func TestMoneyJSON(t *testing.T) {
	m := NewMoneyBRLFromFloat(123.45)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"123.45","currency":"BRL"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans a string value", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("12.34"))
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(12.34)))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scans nil as zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported types", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(12.34))
	})
}
