package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// Service handles supplier, client, transporter and card provider operations
type Service struct {
	supplierRepo    partner.SupplierRepository
	clientRepo      partner.ClientRepository
	transporterRepo partner.TransporterRepository
	providerRepo    partner.CardProviderRepository
}

// NewService creates a new partner Service
func NewService(
	supplierRepo partner.SupplierRepository,
	clientRepo partner.ClientRepository,
	transporterRepo partner.TransporterRepository,
	providerRepo partner.CardProviderRepository,
) *Service {
	return &Service{
		supplierRepo:    supplierRepo,
		clientRepo:      clientRepo,
		transporterRepo: transporterRepo,
		providerRepo:    providerRepo,
	}
}

// CreateSupplier creates a new supplier
func (s *Service) CreateSupplier(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(tenantID, req.Name, req.Document)
	if err != nil {
		return nil, err
	}
	supplier.Phone = req.Phone
	supplier.Email = req.Email

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetSupplier retrieves a supplier by ID
func (s *Service) GetSupplier(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// ListSuppliers retrieves suppliers with pagination
func (s *Service) ListSuppliers(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]SupplierResponse, int64, error) {
	domainFilter := toDomainFilter(filter)
	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses, total, nil
}

// CreateClient creates a new client
func (s *Service) CreateClient(ctx context.Context, tenantID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(tenantID, req.Name, req.Document)
	if err != nil {
		return nil, err
	}
	if req.CreditLimit != nil {
		if err := client.SetCreditLimit(valueobject.NewMoneyBRL(*req.CreditLimit)); err != nil {
			return nil, err
		}
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// GetClient retrieves a client by ID
func (s *Service) GetClient(ctx context.Context, tenantID, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// UpdateClientCredit updates a client's store credit limit
func (s *Service) UpdateClientCredit(ctx context.Context, tenantID, id uuid.UUID, req UpdateClientCreditRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := client.SetCreditLimit(valueobject.NewMoneyBRL(req.CreditLimit)); err != nil {
		return nil, err
	}
	if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
		return nil, err
	}
	response := ToClientResponse(client)
	return &response, nil
}

// ListClients retrieves clients with pagination
func (s *Service) ListClients(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]ClientResponse, int64, error) {
	domainFilter := toDomainFilter(filter)
	clients, err := s.clientRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clientRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses, total, nil
}

// CreateTransporter creates a new transporter
func (s *Service) CreateTransporter(ctx context.Context, tenantID uuid.UUID, req CreateTransporterRequest) (*TransporterResponse, error) {
	transporter, err := partner.NewTransporter(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	transporter.Document = req.Document
	if req.FreightPercentage != nil {
		transporter.FreightPercentage = *req.FreightPercentage
	}

	if err := s.transporterRepo.Save(ctx, transporter); err != nil {
		return nil, err
	}
	response := ToTransporterResponse(transporter)
	return &response, nil
}

// ListTransporters retrieves transporters with pagination
func (s *Service) ListTransporters(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]TransporterResponse, error) {
	transporters, err := s.transporterRepo.FindAllForTenant(ctx, tenantID, toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	responses := make([]TransporterResponse, len(transporters))
	for i := range transporters {
		responses[i] = ToTransporterResponse(&transporters[i])
	}
	return responses, nil
}

// CreateCardProvider creates a new card provider
func (s *Service) CreateCardProvider(ctx context.Context, tenantID uuid.UUID, req CreateCardProviderRequest) (*CardProviderResponse, error) {
	provider, err := partner.NewCardProvider(tenantID, req.Name, req.ClosingDay, req.PaymentDay)
	if err != nil {
		return nil, err
	}
	provider.ShortName = req.ShortName
	if req.FeePercentage != nil {
		provider.FeePercentage = *req.FeePercentage
	}

	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}
	response := ToCardProviderResponse(provider)
	return &response, nil
}

// ListCardProviders retrieves card providers with pagination
func (s *Service) ListCardProviders(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]CardProviderResponse, error) {
	providers, err := s.providerRepo.FindAllForTenant(ctx, tenantID, toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	responses := make([]CardProviderResponse, len(providers))
	for i := range providers {
		responses[i] = ToCardProviderResponse(&providers[i])
	}
	return responses, nil
}

func toDomainFilter(filter ListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	return domainFilter
}
