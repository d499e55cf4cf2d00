package payment

import (
	"fmt"
	"time"

	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// IntervalType is the unit used to space installment due dates
type IntervalType string

const (
	IntervalDay   IntervalType = "DAY"
	IntervalWeek  IntervalType = "WEEK"
	IntervalMonth IntervalType = "MONTH"
	IntervalYear  IntervalType = "YEAR"
)

// IsValid checks if the interval type is valid
func (t IntervalType) IsValid() bool {
	switch t {
	case IntervalDay, IntervalWeek, IntervalMonth, IntervalYear:
		return true
	}
	return false
}

// AddTo returns the date advanced by count units of the interval type
func (t IntervalType) AddTo(date time.Time, count int) time.Time {
	switch t {
	case IntervalDay:
		return date.AddDate(0, 0, count)
	case IntervalWeek:
		return date.AddDate(0, 0, 7*count)
	case IntervalMonth:
		return date.AddDate(0, count, 0)
	case IntervalYear:
		return date.AddDate(count, 0, 0)
	}
	return date
}

// Installment is one scheduled slice of a payment plan
type Installment struct {
	Number      int
	Description string
	DueDate     time.Time
	Value       valueobject.Money
}

// PlanSpec describes how a total should be split into installments
type PlanSpec struct {
	Method       Method
	Total        valueobject.Money
	Installments int
	FirstDueDate time.Time
	Interval     int
	IntervalType IntervalType
}

// Validate checks the spec against the method's constraints.
// The reference time is the clock "today"; the first due date may not
// precede it.
func (s PlanSpec) Validate(now time.Time) error {
	if !s.Method.IsValid() {
		return shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unknown payment method: %s", s.Method))
	}
	if !s.Total.IsPositive() {
		return shared.NewDomainError("INVALID_TOTAL", "Plan total must be positive")
	}
	if s.Installments < 1 {
		return shared.NewDomainError("INVALID_INSTALLMENTS", "Installment count must be at least 1")
	}
	if max := s.Method.MaxInstallments(); s.Installments > max {
		return shared.NewDomainError("TOO_MANY_INSTALLMENTS",
			fmt.Sprintf("%s accepts at most %d installments", s.Method.DisplayName(), max))
	}
	if s.Installments > 1 {
		if s.Interval < 1 {
			return shared.NewDomainError("INVALID_INTERVAL", "Installment interval must be at least 1")
		}
		if !s.IntervalType.IsValid() {
			return shared.NewDomainError("INVALID_INTERVAL_TYPE", fmt.Sprintf("Unknown interval type: %s", s.IntervalType))
		}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if s.FirstDueDate.Before(today) {
		return shared.NewDomainError("PAST_DUE_DATE", "The first due date cannot be in the past")
	}
	return nil
}

// DueDates returns the scheduled due dates, the i-th being the first
// due date advanced by i intervals.
func (s PlanSpec) DueDates() []time.Time {
	dates := make([]time.Time, s.Installments)
	for i := range dates {
		dates[i] = s.IntervalType.AddTo(s.FirstDueDate, i*s.Interval)
	}
	return dates
}

// Build validates the spec and produces the installments, allocating the
// total so the slices sum exactly to it.
func (s PlanSpec) Build(now time.Time) ([]Installment, error) {
	if err := s.Validate(now); err != nil {
		return nil, err
	}
	return buildInstallments(s.Method, s.Total, s.DueDates())
}

// BuildWithDueDates produces installments over caller-supplied due dates.
// Card plans use this with the provider's settlement dates.
func (s PlanSpec) BuildWithDueDates(dueDates []time.Time) ([]Installment, error) {
	if len(dueDates) == 0 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "At least one due date is required")
	}
	if !s.Total.IsPositive() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Plan total must be positive")
	}
	if max := s.Method.MaxInstallments(); len(dueDates) > max {
		return nil, shared.NewDomainError("TOO_MANY_INSTALLMENTS",
			fmt.Sprintf("%s accepts at most %d installments", s.Method.DisplayName(), max))
	}
	return buildInstallments(s.Method, s.Total, dueDates)
}

func buildInstallments(method Method, total valueobject.Money, dueDates []time.Time) ([]Installment, error) {
	values, err := total.Allocate(len(dueDates))
	if err != nil {
		return nil, err
	}
	installments := make([]Installment, len(dueDates))
	for i := range installments {
		installments[i] = Installment{
			Number:      i + 1,
			Description: fmt.Sprintf("%d/%d %s", i+1, len(dueDates), method.DisplayName()),
			DueDate:     dueDates[i],
			Value:       values[i],
		}
	}
	return installments, nil
}
