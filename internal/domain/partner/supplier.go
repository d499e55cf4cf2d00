package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Supplier represents a goods supplier
type Supplier struct {
	shared.TenantAggregateRoot
	Name     string `gorm:"type:varchar(200);not null"`
	Document string `gorm:"type:varchar(20)"` // CNPJ
	Phone    string `gorm:"type:varchar(30)"`
	Email    string `gorm:"type:varchar(200)"`
	Active   bool   `gorm:"not null;default:true"`
}

// NewSupplier creates a new supplier
func NewSupplier(tenantID uuid.UUID, name, document string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	return &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Document:            strings.TrimSpace(document),
		Active:              true,
	}, nil
}

// Deactivate marks the supplier as inactive
func (s *Supplier) Deactivate() {
	s.Active = false
}

// Activate marks the supplier as active
func (s *Supplier) Activate() {
	s.Active = true
}

// SupplierRepository defines persistence operations for suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Supplier, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, supplier *Supplier) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
