package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/payment"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// Service handles payment group business operations
type Service struct {
	groupRepo      payment.GroupRepository
	clientRepo     partner.ClientRepository
	providerRepo   partner.CardProviderRepository
	eventPublisher shared.EventPublisher
}

// NewService creates a new payment Service
func NewService(groupRepo payment.GroupRepository, clientRepo partner.ClientRepository, providerRepo partner.CardProviderRepository) *Service {
	return &Service{
		groupRepo:    groupRepo,
		clientRepo:   clientRepo,
		providerRepo: providerRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// PreviewPlan builds an installment plan without persisting anything
func (s *Service) PreviewPlan(ctx context.Context, tenantID uuid.UUID, req PreviewPlanRequest) (*PlanPreviewResponse, error) {
	installments, err := s.buildPlan(ctx, tenantID, req.Plan)
	if err != nil {
		return nil, err
	}
	return &PlanPreviewResponse{
		Method:       req.Plan.Method,
		Total:        req.Plan.Value,
		Installments: ToInstallmentResponses(installments),
	}, nil
}

// CreateGroup creates a payment group and attaches its initial plans.
// A group fully covered by its plans is confirmed immediately; a group
// still missing value stays open for further split-tender plans.
func (s *Service) CreateGroup(ctx context.Context, tenantID uuid.UUID, req CreateGroupRequest) (*GroupResponse, error) {
	total := valueobject.NewMoneyBRL(req.TotalValue)
	group, err := payment.NewPaymentGroup(tenantID, req.Description, total)
	if err != nil {
		return nil, err
	}
	group.ClientID = req.ClientID
	group.OrderID = req.OrderID
	if req.CreatedBy != nil {
		group.SetCreatedBy(*req.CreatedBy)
	}

	reserved := valueobject.ZeroBRL()
	for _, plan := range req.Plans {
		amount, err := s.attachPlan(ctx, tenantID, group, plan)
		if err != nil {
			s.releaseReservation(ctx, tenantID, group.ClientID, reserved)
			return nil, err
		}
		reserved = reserved.MustAdd(amount)
	}

	if !group.Outstanding().IsPositive() {
		if err := group.Confirm(); err != nil {
			s.releaseReservation(ctx, tenantID, group.ClientID, reserved)
			return nil, err
		}
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		s.releaseReservation(ctx, tenantID, group.ClientID, reserved)
		return nil, err
	}

	if s.eventPublisher != nil {
		events := group.GetDomainEvents()
		group.ClearDomainEvents()
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			return nil, err
		}
	}

	response := ToGroupResponse(group)
	return &response, nil
}

// AddPlan appends a plan to an open group (multiple-method tender)
func (s *Service) AddPlan(ctx context.Context, tenantID, groupID uuid.UUID, req AddPlanRequest) (*GroupResponse, error) {
	group, err := s.groupRepo.FindByIDForTenant(ctx, tenantID, groupID)
	if err != nil {
		return nil, err
	}

	reserved, err := s.attachPlan(ctx, tenantID, group, req.Plan)
	if err != nil {
		return nil, err
	}

	if err := s.groupRepo.SaveWithLock(ctx, group); err != nil {
		s.releaseReservation(ctx, tenantID, group.ClientID, reserved)
		return nil, err
	}

	response := ToGroupResponse(group)
	return &response, nil
}

// Confirm confirms a group whose plans cover the total
func (s *Service) Confirm(ctx context.Context, tenantID, groupID uuid.UUID) (*GroupResponse, error) {
	group, err := s.groupRepo.FindByIDForTenant(ctx, tenantID, groupID)
	if err != nil {
		return nil, err
	}

	if err := group.Confirm(); err != nil {
		return nil, err
	}

	events := group.GetDomainEvents()
	group.ClearDomainEvents()

	if err := s.groupRepo.SaveWithLockAndEvents(ctx, group, events); err != nil {
		return nil, err
	}

	response := ToGroupResponse(group)
	return &response, nil
}

// Pay settles one pending payment of a confirmed group
func (s *Service) Pay(ctx context.Context, tenantID, groupID, paymentID uuid.UUID) (*GroupResponse, error) {
	group, err := s.groupRepo.FindByIDForTenant(ctx, tenantID, groupID)
	if err != nil {
		return nil, err
	}

	if err := group.Pay(paymentID); err != nil {
		return nil, err
	}

	events := group.GetDomainEvents()
	group.ClearDomainEvents()

	if err := s.groupRepo.SaveWithLockAndEvents(ctx, group, events); err != nil {
		return nil, err
	}

	response := ToGroupResponse(group)
	return &response, nil
}

// Cancel cancels a group and releases any store credit it had reserved
func (s *Service) Cancel(ctx context.Context, tenantID, groupID uuid.UUID, req CancelGroupRequest) (*GroupResponse, error) {
	group, err := s.groupRepo.FindByIDForTenant(ctx, tenantID, groupID)
	if err != nil {
		return nil, err
	}

	reserved := valueobject.ZeroBRL()
	for _, p := range group.Payments {
		if p.Method == payment.MethodStoreCredit && p.Status != payment.StatusCancelled {
			reserved = reserved.MustAdd(p.Value)
		}
	}

	if err := group.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if reserved.IsPositive() && group.ClientID != nil {
		client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, *group.ClientID)
		if err != nil {
			return nil, err
		}
		if err := client.ReleaseCredit(reserved); err != nil {
			return nil, err
		}
		if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
			return nil, err
		}
	}

	events := group.GetDomainEvents()
	group.ClearDomainEvents()

	if err := s.groupRepo.SaveWithLockAndEvents(ctx, group, events); err != nil {
		return nil, err
	}

	response := ToGroupResponse(group)
	return &response, nil
}

// GetByID retrieves a payment group by ID
func (s *Service) GetByID(ctx context.Context, tenantID, groupID uuid.UUID) (*GroupResponse, error) {
	group, err := s.groupRepo.FindByIDForTenant(ctx, tenantID, groupID)
	if err != nil {
		return nil, err
	}
	response := ToGroupResponse(group)
	return &response, nil
}

// List retrieves payment groups with filtering and pagination
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter GroupListFilter) ([]GroupResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.ClientID != nil {
		domainFilter.Filters["client_id"] = *filter.ClientID
	}
	if filter.OrderID != nil {
		domainFilter.Filters["order_id"] = *filter.OrderID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}

	groups, err := s.groupRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.groupRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]GroupResponse, len(groups))
	for i := range groups {
		responses[i] = ToGroupResponse(&groups[i])
	}
	return responses, total, nil
}

// attachPlan builds the installments for one plan input and adds them to
// the group, reserving store credit when the method requires it. The
// reserved amount is returned so the caller can release it if the group
// itself cannot be persisted afterwards.
func (s *Service) attachPlan(ctx context.Context, tenantID uuid.UUID, group *payment.PaymentGroup, plan PlanInput) (valueobject.Money, error) {
	reserved := valueobject.ZeroBRL()

	installments, err := s.buildPlan(ctx, tenantID, plan)
	if err != nil {
		return reserved, err
	}

	method := payment.Method(plan.Method)
	if err := group.AddInstallments(method, installments); err != nil {
		return reserved, err
	}

	if method == payment.MethodStoreCredit {
		if group.ClientID == nil {
			return reserved, shared.NewDomainError("CLIENT_REQUIRED", "Store credit requires a client on the group")
		}
		client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, *group.ClientID)
		if err != nil {
			return reserved, err
		}
		value := valueobject.NewMoneyBRL(plan.Value)
		if err := client.ConsumeCredit(value); err != nil {
			return reserved, err
		}
		if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
			return reserved, err
		}
		reserved = value
	}

	return reserved, nil
}

// releaseReservation undoes a store-credit reservation whose payment group
// never got persisted. Best effort.
func (s *Service) releaseReservation(ctx context.Context, tenantID uuid.UUID, clientID *uuid.UUID, reserved valueobject.Money) {
	if !reserved.IsPositive() || clientID == nil {
		return
	}
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, *clientID)
	if err != nil {
		return
	}
	if err := client.ReleaseCredit(reserved); err != nil {
		return
	}
	_ = s.clientRepo.SaveWithLock(ctx, client)
}

// buildPlan resolves the due dates for a plan input and allocates its
// value. Card plans take their dates from the provider's settlement
// cycle; the other methods space them by the configured interval.
func (s *Service) buildPlan(ctx context.Context, tenantID uuid.UUID, plan PlanInput) ([]payment.Installment, error) {
	method := payment.Method(plan.Method)
	now := time.Now()

	spec := payment.PlanSpec{
		Method:       method,
		Total:        valueobject.NewMoneyBRL(plan.Value),
		Installments: plan.Installments,
		Interval:     plan.Interval,
		IntervalType: payment.IntervalType(plan.IntervalType),
	}
	if spec.Interval == 0 {
		spec.Interval = 1
	}
	if spec.IntervalType == "" {
		spec.IntervalType = payment.IntervalMonth
	}
	if plan.FirstDueDate != nil {
		spec.FirstDueDate = *plan.FirstDueDate
	} else {
		spec.FirstDueDate = now
	}

	if method == payment.MethodCard {
		if plan.CardProviderID == nil {
			return nil, shared.NewDomainError("PROVIDER_REQUIRED", "Card payments require a card provider")
		}
		provider, err := s.providerRepo.FindByIDForTenant(ctx, tenantID, *plan.CardProviderID)
		if err != nil {
			return nil, err
		}
		return spec.BuildWithDueDates(provider.DueDates(now, plan.Installments))
	}

	return spec.Build(now)
}
