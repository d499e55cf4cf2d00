package partner

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CardProvider represents a credit card operator with its settlement cycle.
// ClosingDay is the last day of the billing cycle; charges made after it
// roll into the next cycle. PaymentDay is the day of the month the operator
// settles the cycle. Both are restricted to 1..28 so every month has them.
type CardProvider struct {
	shared.TenantAggregateRoot
	Name          string          `gorm:"type:varchar(100);not null"`
	ShortName     string          `gorm:"type:varchar(20)"`
	ClosingDay    int             `gorm:"not null;default:10"`
	PaymentDay    int             `gorm:"not null;default:10"`
	FeePercentage decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
	Active        bool            `gorm:"not null;default:true"`
}

// NewCardProvider creates a new card provider
func NewCardProvider(tenantID uuid.UUID, name string, closingDay, paymentDay int) (*CardProvider, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER_NAME", "Card provider name cannot be empty")
	}
	if closingDay < 1 || closingDay > 28 {
		return nil, shared.NewDomainError("INVALID_CLOSING_DAY", "Closing day must be between 1 and 28")
	}
	if paymentDay < 1 || paymentDay > 28 {
		return nil, shared.NewDomainError("INVALID_PAYMENT_DAY", "Payment day must be between 1 and 28")
	}
	return &CardProvider{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		ClosingDay:          closingDay,
		PaymentDay:          paymentDay,
		FeePercentage:       decimal.Zero,
		Active:              true,
	}, nil
}

// FirstDueDate returns the settlement date of the cycle a charge made at
// the given time falls into. A charge after the closing day belongs to the
// next cycle; the settlement date never precedes the charge date.
func (p *CardProvider) FirstDueDate(chargeDate time.Time) time.Time {
	year, month, day := chargeDate.Date()
	charged := time.Date(year, month, day, 0, 0, 0, 0, chargeDate.Location())
	due := time.Date(year, month, p.PaymentDay, 0, 0, 0, 0, chargeDate.Location())
	if day > p.ClosingDay {
		due = due.AddDate(0, 1, 0)
	}
	if !due.After(charged) {
		due = due.AddDate(0, 1, 0)
	}
	return due
}

// DueDates returns the settlement dates for an installment charge,
// one per month starting at the cycle resolved by FirstDueDate.
func (p *CardProvider) DueDates(chargeDate time.Time, installments int) []time.Time {
	if installments < 1 {
		return nil
	}
	first := p.FirstDueDate(chargeDate)
	dates := make([]time.Time, installments)
	for i := range dates {
		dates[i] = first.AddDate(0, i, 0)
	}
	return dates
}

// CardProviderRepository defines persistence operations for card providers
type CardProviderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CardProvider, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CardProvider, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CardProvider, error)
	Save(ctx context.Context, provider *CardProvider) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
