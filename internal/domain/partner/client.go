package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// Client represents a customer who can buy on store credit
type Client struct {
	shared.TenantAggregateRoot
	Name        string            `gorm:"type:varchar(200);not null"`
	Document    string            `gorm:"type:varchar(20)"` // CPF or CNPJ
	CreditLimit valueobject.Money `gorm:"type:decimal(18,4);not null;default:0"`
	CreditUsed  valueobject.Money `gorm:"type:decimal(18,4);not null;default:0"`
	Active      bool              `gorm:"not null;default:true"`
}

// NewClient creates a new client
func NewClient(tenantID uuid.UUID, name, document string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	return &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Document:            strings.TrimSpace(document),
		CreditLimit:         valueobject.ZeroBRL(),
		CreditUsed:          valueobject.ZeroBRL(),
		Active:              true,
	}, nil
}

// RemainingCredit returns how much store credit the client can still consume
func (c *Client) RemainingCredit() valueobject.Money {
	return c.CreditLimit.MustSubtract(c.CreditUsed)
}

// SetCreditLimit updates the client's store credit limit
func (c *Client) SetCreditLimit(limit valueobject.Money) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}
	c.CreditLimit = limit
	return nil
}

// ConsumeCredit reserves store credit for a payment plan.
// Fails when the amount exceeds the remaining credit.
func (c *Client) ConsumeCredit(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	exceeds, err := amount.GreaterThan(c.RemainingCredit())
	if err != nil {
		return shared.NewDomainError("CURRENCY_MISMATCH", err.Error())
	}
	if exceeds {
		return shared.ErrInsufficientCredit
	}
	c.CreditUsed = c.CreditUsed.MustAdd(amount)
	return nil
}

// ReleaseCredit returns previously consumed store credit,
// for example when a payment plan is cancelled.
func (c *Client) ReleaseCredit(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	released := c.CreditUsed.MustSubtract(amount)
	if released.IsNegative() {
		released = valueobject.Zero(c.CreditUsed.Currency())
	}
	c.CreditUsed = released
	return nil
}

// ClientRepository defines persistence operations for clients
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Client, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, client *Client) error
	SaveWithLock(ctx context.Context, client *Client) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
