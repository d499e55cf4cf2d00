package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Document string `json:"document" binding:"omitempty,max=20"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
}

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Document    string           `json:"document" binding:"omitempty,max=20"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

// UpdateClientCreditRequest updates a client's store credit limit
type UpdateClientCreditRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit" binding:"required"`
}

// CreateTransporterRequest represents a request to create a transporter
type CreateTransporterRequest struct {
	Name              string           `json:"name" binding:"required,min=1,max=200"`
	Document          string           `json:"document" binding:"omitempty,max=20"`
	FreightPercentage *decimal.Decimal `json:"freight_percentage"`
}

// CreateCardProviderRequest represents a request to create a card provider
type CreateCardProviderRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=100"`
	ShortName     string           `json:"short_name" binding:"omitempty,max=20"`
	ClosingDay    int              `json:"closing_day" binding:"required,min=1,max=28"`
	PaymentDay    int              `json:"payment_day" binding:"required,min=1,max=28"`
	FeePercentage *decimal.Decimal `json:"fee_percentage"`
}

// ListFilter represents pagination and search options for partner lists
type ListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Document        string          `json:"document,omitempty"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	CreditUsed      decimal.Decimal `json:"credit_used"`
	RemainingCredit decimal.Decimal `json:"remaining_credit"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TransporterResponse represents a transporter in API responses
type TransporterResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Document          string          `json:"document,omitempty"`
	FreightPercentage decimal.Decimal `json:"freight_percentage"`
	Active            bool            `json:"active"`
	CreatedAt         time.Time       `json:"created_at"`
}

// CardProviderResponse represents a card provider in API responses
type CardProviderResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	ShortName     string          `json:"short_name,omitempty"`
	ClosingDay    int             `json:"closing_day"`
	PaymentDay    int             `json:"payment_day"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToSupplierResponse converts a domain supplier to a response DTO
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Document:  s.Document,
		Phone:     s.Phone,
		Email:     s.Email,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}

// ToClientResponse converts a domain client to a response DTO
func ToClientResponse(c *partner.Client) ClientResponse {
	return ClientResponse{
		ID:              c.ID,
		Name:            c.Name,
		Document:        c.Document,
		CreditLimit:     c.CreditLimit.Amount(),
		CreditUsed:      c.CreditUsed.Amount(),
		RemainingCredit: c.RemainingCredit().Amount(),
		Active:          c.Active,
		CreatedAt:       c.CreatedAt,
	}
}

// ToTransporterResponse converts a domain transporter to a response DTO
func ToTransporterResponse(t *partner.Transporter) TransporterResponse {
	return TransporterResponse{
		ID:                t.ID,
		Name:              t.Name,
		Document:          t.Document,
		FreightPercentage: t.FreightPercentage,
		Active:            t.Active,
		CreatedAt:         t.CreatedAt,
	}
}

// ToCardProviderResponse converts a domain card provider to a response DTO
func ToCardProviderResponse(p *partner.CardProvider) CardProviderResponse {
	return CardProviderResponse{
		ID:            p.ID,
		Name:          p.Name,
		ShortName:     p.ShortName,
		ClosingDay:    p.ClosingDay,
		PaymentDay:    p.PaymentDay,
		FeePercentage: p.FeePercentage,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
	}
}
