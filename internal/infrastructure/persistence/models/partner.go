package models

import (
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SupplierModel is the persistence model for the Supplier aggregate root.
type SupplierModel struct {
	TenantAggregateModel
	Name     string `gorm:"type:varchar(200);not null"`
	Document string `gorm:"type:varchar(20)"`
	Phone    string `gorm:"type:varchar(30)"`
	Email    string `gorm:"type:varchar(200)"`
	Active   bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier entity.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		TenantAggregateRoot: m.toDomainTenantAggregateRoot(),
		Name:                m.Name,
		Document:            m.Document,
		Phone:               m.Phone,
		Email:               m.Email,
		Active:              m.Active,
	}
}

// FromDomain populates the persistence model from a domain Supplier entity.
func (m *SupplierModel) FromDomain(s *partner.Supplier) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.Name = s.Name
	m.Document = s.Document
	m.Phone = s.Phone
	m.Email = s.Email
	m.Active = s.Active
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier entity.
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}

// ClientModel is the persistence model for the Client aggregate root.
type ClientModel struct {
	TenantAggregateModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Document    string          `gorm:"type:varchar(20)"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreditUsed  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		TenantAggregateRoot: m.toDomainTenantAggregateRoot(),
		Name:                m.Name,
		Document:            m.Document,
		CreditLimit:         valueobject.NewMoneyBRL(m.CreditLimit),
		CreditUsed:          valueobject.NewMoneyBRL(m.CreditUsed),
		Active:              m.Active,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Document = c.Document
	m.CreditLimit = c.CreditLimit.Amount()
	m.CreditUsed = c.CreditUsed.Amount()
	m.Active = c.Active
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// TransporterModel is the persistence model for the Transporter aggregate root.
type TransporterModel struct {
	TenantAggregateModel
	Name              string          `gorm:"type:varchar(200);not null"`
	Document          string          `gorm:"type:varchar(20)"`
	FreightPercentage decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
	Active            bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (TransporterModel) TableName() string {
	return "transporters"
}

// ToDomain converts the persistence model to a domain Transporter entity.
func (m *TransporterModel) ToDomain() *partner.Transporter {
	return &partner.Transporter{
		TenantAggregateRoot: m.toDomainTenantAggregateRoot(),
		Name:                m.Name,
		Document:            m.Document,
		FreightPercentage:   m.FreightPercentage,
		Active:              m.Active,
	}
}

// FromDomain populates the persistence model from a domain Transporter entity.
func (m *TransporterModel) FromDomain(t *partner.Transporter) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.Name = t.Name
	m.Document = t.Document
	m.FreightPercentage = t.FreightPercentage
	m.Active = t.Active
}

// TransporterModelFromDomain creates a new persistence model from a domain Transporter entity.
func TransporterModelFromDomain(t *partner.Transporter) *TransporterModel {
	m := &TransporterModel{}
	m.FromDomain(t)
	return m
}

// CardProviderModel is the persistence model for the CardProvider aggregate root.
type CardProviderModel struct {
	TenantAggregateModel
	Name          string          `gorm:"type:varchar(100);not null"`
	ShortName     string          `gorm:"type:varchar(20)"`
	ClosingDay    int             `gorm:"not null;default:10"`
	PaymentDay    int             `gorm:"not null;default:10"`
	FeePercentage decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
	Active        bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CardProviderModel) TableName() string {
	return "card_providers"
}

// ToDomain converts the persistence model to a domain CardProvider entity.
func (m *CardProviderModel) ToDomain() *partner.CardProvider {
	return &partner.CardProvider{
		TenantAggregateRoot: m.toDomainTenantAggregateRoot(),
		Name:                m.Name,
		ShortName:           m.ShortName,
		ClosingDay:          m.ClosingDay,
		PaymentDay:          m.PaymentDay,
		FeePercentage:       m.FeePercentage,
		Active:              m.Active,
	}
}

// FromDomain populates the persistence model from a domain CardProvider entity.
func (m *CardProviderModel) FromDomain(p *partner.CardProvider) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.ShortName = p.ShortName
	m.ClosingDay = p.ClosingDay
	m.PaymentDay = p.PaymentDay
	m.FeePercentage = p.FeePercentage
	m.Active = p.Active
}

// CardProviderModelFromDomain creates a new persistence model from a domain CardProvider entity.
func CardProviderModelFromDomain(p *partner.CardProvider) *CardProviderModel {
	m := &CardProviderModel{}
	m.FromDomain(p)
	return m
}
