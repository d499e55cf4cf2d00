package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Transporter represents a freight carrier used on purchase orders
type Transporter struct {
	shared.TenantAggregateRoot
	Name              string          `gorm:"type:varchar(200);not null"`
	Document          string          `gorm:"type:varchar(20)"`
	FreightPercentage decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
	Active            bool            `gorm:"not null;default:true"`
}

// NewTransporter creates a new transporter
func NewTransporter(tenantID uuid.UUID, name string) (*Transporter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TRANSPORTER_NAME", "Transporter name cannot be empty")
	}
	return &Transporter{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		FreightPercentage:   decimal.Zero,
		Active:              true,
	}, nil
}

// TransporterRepository defines persistence operations for transporters
type TransporterRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transporter, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Transporter, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Transporter, error)
	Save(ctx context.Context, transporter *Transporter) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
