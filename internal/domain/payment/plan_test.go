package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

var testNow = time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)

func validSpec() PlanSpec {
	return PlanSpec{
		Method:       MethodBill,
		Total:        valueobject.NewMoneyBRLFromFloat(300),
		Installments: 3,
		FirstDueDate: testNow.AddDate(0, 0, 7),
		Interval:     1,
		IntervalType: IntervalMonth,
	}
}

func TestMethod(t *testing.T) {
	t.Run("validity", func(t *testing.T) {
		for _, m := range []Method{MethodMoney, MethodBill, MethodCheck, MethodCard, MethodStoreCredit, MethodMultiple} {
			assert.True(t, m.IsValid(), m.String())
		}
		assert.False(t, Method("BARTER").IsValid())
	})

	t.Run("installment limits", func(t *testing.T) {
		assert.Equal(t, 1, MethodMoney.MaxInstallments())
		assert.Equal(t, 12, MethodBill.MaxInstallments())
		assert.Equal(t, 12, MethodCard.MaxInstallments())
		assert.Equal(t, 30, MethodMultiple.MaxInstallments())
	})

	t.Run("installable", func(t *testing.T) {
		assert.False(t, MethodMoney.Installable())
		assert.True(t, MethodCheck.Installable())
	})
}

func TestIntervalTypeAddTo(t *testing.T) {
	base := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		interval IntervalType
		count    int
		expected time.Time
	}{
		{"days", IntervalDay, 10, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)},
		{"weeks", IntervalWeek, 2, time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)},
		{"months", IntervalMonth, 1, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"years", IntervalYear, 1, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.interval.AddTo(base, tt.count))
		})
	}
}

func TestPlanSpecValidate(t *testing.T) {
	t.Run("accepts a valid spec", func(t *testing.T) {
		assert.NoError(t, validSpec().Validate(testNow))
	})

	t.Run("accepts a first due date of today", func(t *testing.T) {
		spec := validSpec()
		spec.FirstDueDate = time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 0, 0, 0, 0, time.UTC)
		assert.NoError(t, spec.Validate(testNow))
	})

	tests := []struct {
		name   string
		mutate func(*PlanSpec)
	}{
		{"unknown method", func(s *PlanSpec) { s.Method = "BARTER" }},
		{"zero total", func(s *PlanSpec) { s.Total = valueobject.ZeroBRL() }},
		{"negative total", func(s *PlanSpec) { s.Total = valueobject.NewMoneyBRLFromFloat(-10) }},
		{"zero installments", func(s *PlanSpec) { s.Installments = 0 }},
		{"too many installments", func(s *PlanSpec) { s.Installments = 13 }},
		{"cash with installments", func(s *PlanSpec) { s.Method = MethodMoney; s.Installments = 2 }},
		{"zero interval", func(s *PlanSpec) { s.Interval = 0 }},
		{"unknown interval type", func(s *PlanSpec) { s.IntervalType = "FORTNIGHT" }},
		{"past due date", func(s *PlanSpec) { s.FirstDueDate = testNow.AddDate(0, 0, -1) }},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)
			assert.Error(t, spec.Validate(testNow))
		})
	}

	t.Run("single installment needs no interval", func(t *testing.T) {
		spec := validSpec()
		spec.Installments = 1
		spec.Interval = 0
		spec.IntervalType = ""
		assert.NoError(t, spec.Validate(testNow))
	})
}

func TestPlanSpecDueDates(t *testing.T) {
	spec := validSpec()
	spec.Interval = 2
	spec.IntervalType = IntervalWeek

	dates := spec.DueDates()
	require.Len(t, dates, 3)
	assert.Equal(t, spec.FirstDueDate, dates[0])
	assert.Equal(t, spec.FirstDueDate.AddDate(0, 0, 14), dates[1])
	assert.Equal(t, spec.FirstDueDate.AddDate(0, 0, 28), dates[2])
}

func TestPlanSpecBuild(t *testing.T) {
	t.Run("splits the total exactly across installments", func(t *testing.T) {
		spec := validSpec()
		spec.Total = valueobject.NewMoneyBRLFromFloat(100)

		installments, err := spec.Build(testNow)
		require.NoError(t, err)
		require.Len(t, installments, 3)

		assert.Equal(t, 1, installments[0].Number)
		assert.Equal(t, "1/3 Bill", installments[0].Description)
		assert.Equal(t, "3/3 Bill", installments[2].Description)
		assert.True(t, installments[0].Value.Amount().Equal(decimal.NewFromFloat(33.34)))
		assert.True(t, installments[1].Value.Amount().Equal(decimal.NewFromFloat(33.33)))

		sum := valueobject.ZeroBRL()
		for _, inst := range installments {
			sum = sum.MustAdd(inst.Value)
		}
		assert.True(t, sum.Equals(spec.Total))
	})

	t.Run("propagates validation failures", func(t *testing.T) {
		spec := validSpec()
		spec.Installments = 0
		_, err := spec.Build(testNow)
		assert.Error(t, err)
	})
}

func TestPlanSpecBuildWithDueDates(t *testing.T) {
	t.Run("uses the supplied dates verbatim", func(t *testing.T) {
		spec := PlanSpec{Method: MethodCard, Total: valueobject.NewMoneyBRLFromFloat(90)}
		dates := []time.Time{
			testNow.AddDate(0, 0, 30),
			testNow.AddDate(0, 0, 60),
		}

		installments, err := spec.BuildWithDueDates(dates)
		require.NoError(t, err)
		require.Len(t, installments, 2)
		assert.Equal(t, dates[0], installments[0].DueDate)
		assert.Equal(t, dates[1], installments[1].DueDate)
		assert.Equal(t, "1/2 Card", installments[0].Description)
	})

	t.Run("rejects empty date lists", func(t *testing.T) {
		spec := PlanSpec{Method: MethodCard, Total: valueobject.NewMoneyBRLFromFloat(90)}
		_, err := spec.BuildWithDueDates(nil)
		assert.Error(t, err)
	})

	t.Run("honours the method installment limit", func(t *testing.T) {
		spec := PlanSpec{Method: MethodMoney, Total: valueobject.NewMoneyBRLFromFloat(90)}
		dates := []time.Time{testNow, testNow.AddDate(0, 1, 0)}
		_, err := spec.BuildWithDueDates(dates)
		assert.Error(t, err)
	})
}
