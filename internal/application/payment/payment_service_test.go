package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backend/internal/domain/partner"
	"github.com/retailpos/backend/internal/domain/payment"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// MockGroupRepository is a mock implementation of payment.GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.PaymentGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentGroup), args.Error(1)
}

func (m *MockGroupRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payment.PaymentGroup, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentGroup), args.Error(1)
}

func (m *MockGroupRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]payment.PaymentGroup, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.PaymentGroup), args.Error(1)
}

func (m *MockGroupRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]payment.PaymentGroup, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.PaymentGroup), args.Error(1)
}

func (m *MockGroupRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGroupRepository) Save(ctx context.Context, group *payment.PaymentGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) SaveWithLock(ctx context.Context, group *payment.PaymentGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) SaveWithLockAndEvents(ctx context.Context, group *payment.PaymentGroup, events []shared.DomainEvent) error {
	args := m.Called(ctx, group, events)
	return args.Error(0)
}

func (m *MockGroupRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockClientRepository is a mock implementation of partner.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Client, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Client), args.Error(1)
}

func (m *MockClientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *partner.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) SaveWithLock(ctx context.Context, client *partner.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockCardProviderRepository is a mock implementation of partner.CardProviderRepository
type MockCardProviderRepository struct {
	mock.Mock
}

func (m *MockCardProviderRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.CardProvider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CardProvider), args.Error(1)
}

func (m *MockCardProviderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.CardProvider, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.CardProvider), args.Error(1)
}

func (m *MockCardProviderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.CardProvider, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.CardProvider), args.Error(1)
}

func (m *MockCardProviderRepository) Save(ctx context.Context, provider *partner.CardProvider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockCardProviderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// Test helpers
var (
	testPayTenantID   = uuid.New()
	testPayClientID   = uuid.New()
	testPayProviderID = uuid.New()
)

func newTestService() (*Service, *MockGroupRepository, *MockClientRepository, *MockCardProviderRepository) {
	groupRepo := new(MockGroupRepository)
	clientRepo := new(MockClientRepository)
	providerRepo := new(MockCardProviderRepository)
	return NewService(groupRepo, clientRepo, providerRepo), groupRepo, clientRepo, providerRepo
}

func billPlan(value float64, installments int) PlanInput {
	due := time.Now().AddDate(0, 0, 7)
	return PlanInput{
		Method:       string(payment.MethodBill),
		Value:        decimal.NewFromFloat(value),
		Installments: installments,
		FirstDueDate: &due,
		Interval:     1,
		IntervalType: string(payment.IntervalMonth),
	}
}

func cashPlan(value float64) PlanInput {
	return PlanInput{
		Method:       string(payment.MethodMoney),
		Value:        decimal.NewFromFloat(value),
		Installments: 1,
	}
}

func createOpenGroup(t *testing.T, total float64) *payment.PaymentGroup {
	t.Helper()
	group, err := payment.NewPaymentGroup(testPayTenantID, "Sale 00042", valueobject.NewMoneyBRLFromFloat(total))
	require.NoError(t, err)
	group.ClearDomainEvents()
	return group
}

func TestPaymentService_PreviewPlan(t *testing.T) {
	t.Run("previews a bill plan without persisting", func(t *testing.T) {
		service, groupRepo, _, _ := newTestService()
		ctx := context.Background()

		resp, err := service.PreviewPlan(ctx, testPayTenantID, PreviewPlanRequest{Plan: billPlan(300, 3)})

		require.NoError(t, err)
		assert.Len(t, resp.Installments, 3)
		assert.Equal(t, "1/3 Bill", resp.Installments[0].Description)
		groupRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("card plans follow the provider settlement cycle", func(t *testing.T) {
		service, _, _, providerRepo := newTestService()
		ctx := context.Background()

		provider, err := partner.NewCardProvider(testPayTenantID, "VISA", 10, 20)
		require.NoError(t, err)
		providerRepo.On("FindByIDForTenant", mock.Anything, testPayTenantID, testPayProviderID).Return(provider, nil)

		providerID := testPayProviderID
		resp, err := service.PreviewPlan(ctx, testPayTenantID, PreviewPlanRequest{Plan: PlanInput{
			Method:         string(payment.MethodCard),
			Value:          decimal.NewFromInt(300),
			Installments:   3,
			CardProviderID: &providerID,
		}})

		require.NoError(t, err)
		require.Len(t, resp.Installments, 3)
		expected := provider.DueDates(time.Now(), 3)
		assert.Equal(t, expected[0], resp.Installments[0].DueDate)
		assert.Equal(t, expected[2], resp.Installments[2].DueDate)
		providerRepo.AssertExpectations(t)
	})

	t.Run("card plans require a provider", func(t *testing.T) {
		service, _, _, _ := newTestService()
		ctx := context.Background()

		_, err := service.PreviewPlan(ctx, testPayTenantID, PreviewPlanRequest{Plan: PlanInput{
			Method:       string(payment.MethodCard),
			Value:        decimal.NewFromInt(300),
			Installments: 3,
		}})
		assert.Error(t, err)
	})

	t.Run("rejects invalid plans", func(t *testing.T) {
		service, _, _, _ := newTestService()
		ctx := context.Background()

		plan := billPlan(300, 0)
		_, err := service.PreviewPlan(ctx, testPayTenantID, PreviewPlanRequest{Plan: plan})
		assert.Error(t, err)
	})
}

func TestPaymentService_CreateGroup(t *testing.T) {
	t.Run("a fully covered group confirms immediately", func(t *testing.T) {
		service, groupRepo, _, _ := newTestService()
		ctx := context.Background()

		groupRepo.On("Save", mock.Anything, mock.AnythingOfType("*payment.PaymentGroup")).Return(nil)

		resp, err := service.CreateGroup(ctx, testPayTenantID, CreateGroupRequest{
			Description: "Sale 00042",
			TotalValue:  decimal.NewFromInt(100),
			Plans:       []PlanInput{cashPlan(100)},
		})

		require.NoError(t, err)
		assert.Equal(t, string(payment.GroupStatusConfirmed), resp.Status)
		assert.True(t, resp.Outstanding.IsZero())
		groupRepo.AssertExpectations(t)
	})

	t.Run("a partially covered group stays open", func(t *testing.T) {
		service, groupRepo, _, _ := newTestService()
		ctx := context.Background()

		groupRepo.On("Save", mock.Anything, mock.AnythingOfType("*payment.PaymentGroup")).Return(nil)

		resp, err := service.CreateGroup(ctx, testPayTenantID, CreateGroupRequest{
			Description: "Sale 00043",
			TotalValue:  decimal.NewFromInt(100),
			Plans:       []PlanInput{cashPlan(60)},
		})

		require.NoError(t, err)
		assert.Equal(t, string(payment.GroupStatusOpen), resp.Status)
		assert.True(t, resp.Outstanding.Equal(decimal.NewFromInt(40)))
	})

	t.Run("cash overpayment reports the change due", func(t *testing.T) {
		service, groupRepo, _, _ := newTestService()
		ctx := context.Background()

		groupRepo.On("Save", mock.Anything, mock.AnythingOfType("*payment.PaymentGroup")).Return(nil)

		resp, err := service.CreateGroup(ctx, testPayTenantID, CreateGroupRequest{
			Description: "Sale 00044",
			TotalValue:  decimal.NewFromInt(100),
			Plans:       []PlanInput{cashPlan(150)},
		})

		require.NoError(t, err)
		assert.Equal(t, string(payment.GroupStatusConfirmed), resp.Status)
		assert.True(t, resp.ChangeDue.Equal(decimal.NewFromInt(50)))
	})

	t.Run("store credit plans reserve client credit", func(t *testing.T) {
		service, groupRepo, clientRepo, _ := newTestService()
		ctx := context.Background()

		client, err := partner.NewClient(testPayTenantID, "Maria Souza", "")
		require.NoError(t, err)
		require.NoError(t, client.SetCreditLimit(valueobject.NewMoneyBRLFromFloat(500)))

		clientRepo.On("FindByIDForTenant", mock.Anything, testPayTenantID, testPayClientID).Return(client, nil)
		clientRepo.On("SaveWithLock", mock.Anything, client).Return(nil)
		groupRepo.On("Save", mock.Anything, mock.AnythingOfType("*payment.PaymentGroup")).Return(nil)

		clientID := testPayClientID
		due := time.Now().AddDate(0, 1, 0)
		resp, err := service.CreateGroup(ctx, testPayTenantID, CreateGroupRequest{
			Description: "Sale 00045",
			ClientID:    &clientID,
			TotalValue:  decimal.NewFromInt(100),
			Plans: []PlanInput{{
				Method:       string(payment.MethodStoreCredit),
				Value:        decimal.NewFromInt(100),
				Installments: 1,
				FirstDueDate: &due,
			}},
		})

		require.NoError(t, err)
		assert.Equal(t, string(payment.GroupStatusConfirmed), resp.Status)
		assert.True(t, client.CreditUsed.Equals(valueobject.NewMoneyBRLFromFloat(100)))
		clientRepo.AssertExpectations(t)
	})

	t.Run("a failed group save releases reserved credit", func(t *testing.T) {
		service, groupRepo, clientRepo, _ := newTestService()
		ctx := context.Background()

		client, err := partner.NewClient(testPayTenantID, "Maria Souza", "")
		require.NoError(t, err)
		require.NoError(t, client.SetCreditLimit(valueobject.NewMoneyBRLFromFloat(500)))

		clientRepo.On("FindByIDForTenant", mock.Anything, testPayTenantID, testPayClientID).Return(client, nil)
		clientRepo.On("SaveWithLock", mock.Anything, client).Return(nil)
		groupRepo.On("Save", mock.Anything, mock.AnythingOfType("*payment.PaymentGroup")).
			Return(errors.New("connection reset"))

		clientID := testPayClientID
		due := time.Now().AddDate(0, 1, 0)
		_, err = service.CreateGroup(ctx, testPayTenantID, CreateGroupRequest{
			Description: "Sale 00048",
			ClientID:    &clientID,
			TotalValue:  decimal.NewFromInt(100),
			Plans: []PlanInput{{
				Method:       string(payment.MethodStoreCredit),
				Value:        decimal.NewFromInt(100),
				Installments: 1,
				FirstDueDate: &due,
			}},
		})

		require.Error(t, err)
		assert.True(t, client.CreditUsed.IsZero(), "reservation must be rolled back when the group is not persisted")
		clientRepo.AssertNumberOfCalls(t, "SaveWithLock", 2)
	})

	t.Run("store credit without a client fails", func(t *testing.T) {
		service, _, _, _ := newTestService()
		ctx := context.Background()

		due := time.Now().AddDate(0, 1, 0)
		_, err := service.CreateGroup(ctx, testPayTenantID, CreateGroupRequest{
			Description: "Sale 00046",
			TotalValue:  decimal.NewFromInt(100),
			Plans: []PlanInput{{
				Method:       string(payment.MethodStoreCredit),
				Value:        decimal.NewFromInt(100),
				Installments: 1,
				FirstDueDate: &due,
			}},
		})
		assert.Error(t, err)
	})

	t.Run("insufficient store credit fails", func(t *testing.T) {
		service, _, clientRepo, _ := newTestService()
		ctx := context.Background()

		client, err := partner.NewClient(testPayTenantID, "Maria Souza", "")
		require.NoError(t, err)
		require.NoError(t, client.SetCreditLimit(valueobject.NewMoneyBRLFromFloat(50)))
		clientRepo.On("FindByIDForTenant", mock.Anything, testPayTenantID, testPayClientID).Return(client, nil)

		clientID := testPayClientID
		due := time.Now().AddDate(0, 1, 0)
		_, err = service.CreateGroup(ctx, testPayTenantID, CreateGroupRequest{
			Description: "Sale 00047",
			ClientID:    &clientID,
			TotalValue:  decimal.NewFromInt(100),
			Plans: []PlanInput{{
				Method:       string(payment.MethodStoreCredit),
				Value:        decimal.NewFromInt(100),
				Installments: 1,
				FirstDueDate: &due,
			}},
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientCredit)
	})
}

func TestPaymentService_AddPlan(t *testing.T) {
	t.Run("appends a plan to an open group", func(t *testing.T) {
		service, groupRepo, _, _ := newTestService()
		ctx := context.Background()

		group := createOpenGroup(t, 100)
		groupRepo.On("FindByIDForTenant", mock.Anything, testPayTenantID, group.ID).Return(group, nil)
		groupRepo.On("SaveWithLock", mock.Anything, group).Return(nil)

		resp, err := service.AddPlan(ctx, testPayTenantID, group.ID, AddPlanRequest{Plan: cashPlan(40)})

		require.NoError(t, err)
		assert.Len(t, resp.Payments, 1)
		assert.True(t, resp.Outstanding.Equal(decimal.NewFromInt(60)))
		groupRepo.AssertExpectations(t)
	})

	t.Run("fails when the group does not exist", func(t *testing.T) {
		service, groupRepo, _, _ := newTestService()
		ctx := context.Background()

		groupID := uuid.New()
		groupRepo.On("FindByIDForTenant", mock.Anything, testPayTenantID, groupID).Return(nil, shared.ErrNotFound)

		_, err := service.AddPlan(ctx, testPayTenantID, groupID, AddPlanRequest{Plan: cashPlan(40)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPaymentService_Confirm(t *testing.T) {
	t.Run("confirms a covered group and hands its events to the save", func(t *testing.T) {
		service, groupRepo, _, _ := newTestService()
		ctx := context.Background()

		group := createOpenGroup(t, 100)
		due := time.Now().AddDate(0, 0, 7)
		require.NoError(t, group.AddInstallments(payment.MethodBill, []payment.Installment{
			{Number: 1, Description: "1/1 Bill", DueDate: due, Value: valueobject.NewMoneyBRLFromFloat(100)},
		}))

		groupRepo.On("FindByIDForTenant", mock.Anything, testPayTenantID, group.ID).Return(group, nil)
		groupRepo.On("SaveWithLockAndEvents", mock.Anything, group, mock.AnythingOfType("[]shared.DomainEvent")).Return(nil)

		resp, err := service.Confirm(ctx, testPayTenantID, group.ID)

		require.NoError(t, err)
		assert.Equal(t, string(payment.GroupStatusConfirmed), resp.Status)
		assert.Empty(t, group.GetDomainEvents())
		groupRepo.AssertExpectations(t)
	})

	t.Run("fails on an uncovered group", func(t *testing.T) {
		service, groupRepo, _, _ := newTestService()
		ctx := context.Background()

		group := createOpenGroup(t, 100)
		groupRepo.On("FindByIDForTenant", mock.Anything, testPayTenantID, group.ID).Return(group, nil)

		_, err := service.Confirm(ctx, testPayTenantID, group.ID)
		assert.Error(t, err)
	})
}

func TestPaymentService_Pay(t *testing.T) {
	t.Run("settles a pending payment", func(t *testing.T) {
		service, groupRepo, _, _ := newTestService()
		ctx := context.Background()

		group := createOpenGroup(t, 100)
		due := time.Now().AddDate(0, 0, 7)
		require.NoError(t, group.AddInstallments(payment.MethodBill, []payment.Installment{
			{Number: 1, Description: "1/1 Bill", DueDate: due, Value: valueobject.NewMoneyBRLFromFloat(100)},
		}))
		require.NoError(t, group.Confirm())
		group.ClearDomainEvents()

		groupRepo.On("FindByIDForTenant", mock.Anything, testPayTenantID, group.ID).Return(group, nil)
		groupRepo.On("SaveWithLockAndEvents", mock.Anything, group, mock.AnythingOfType("[]shared.DomainEvent")).Return(nil)

		resp, err := service.Pay(ctx, testPayTenantID, group.ID, group.Payments[0].ID)

		require.NoError(t, err)
		assert.Equal(t, string(payment.GroupStatusPaid), resp.Status)
		assert.Equal(t, string(payment.StatusPaid), resp.Payments[0].Status)
		groupRepo.AssertExpectations(t)
	})
}

func TestPaymentService_Cancel(t *testing.T) {
	t.Run("cancelling releases reserved store credit", func(t *testing.T) {
		service, groupRepo, clientRepo, _ := newTestService()
		ctx := context.Background()

		client, err := partner.NewClient(testPayTenantID, "Maria Souza", "")
		require.NoError(t, err)
		require.NoError(t, client.SetCreditLimit(valueobject.NewMoneyBRLFromFloat(500)))
		require.NoError(t, client.ConsumeCredit(valueobject.NewMoneyBRLFromFloat(100)))

		group := createOpenGroup(t, 100)
		clientID := testPayClientID
		group.ClientID = &clientID
		due := time.Now().AddDate(0, 1, 0)
		require.NoError(t, group.AddInstallments(payment.MethodStoreCredit, []payment.Installment{
			{Number: 1, Description: "1/1 Store Credit", DueDate: due, Value: valueobject.NewMoneyBRLFromFloat(100)},
		}))

		groupRepo.On("FindByIDForTenant", mock.Anything, testPayTenantID, group.ID).Return(group, nil)
		groupRepo.On("SaveWithLockAndEvents", mock.Anything, group, mock.AnythingOfType("[]shared.DomainEvent")).Return(nil)
		clientRepo.On("FindByIDForTenant", mock.Anything, testPayTenantID, testPayClientID).Return(client, nil)
		clientRepo.On("SaveWithLock", mock.Anything, client).Return(nil)

		resp, err := service.Cancel(ctx, testPayTenantID, group.ID, CancelGroupRequest{Reason: "client gave up"})

		require.NoError(t, err)
		assert.Equal(t, string(payment.GroupStatusCancelled), resp.Status)
		assert.True(t, client.CreditUsed.IsZero())
		clientRepo.AssertExpectations(t)
	})

	t.Run("groups without store credit touch no client", func(t *testing.T) {
		service, groupRepo, clientRepo, _ := newTestService()
		ctx := context.Background()

		group := createOpenGroup(t, 100)
		groupRepo.On("FindByIDForTenant", mock.Anything, testPayTenantID, group.ID).Return(group, nil)
		groupRepo.On("SaveWithLockAndEvents", mock.Anything, group, mock.AnythingOfType("[]shared.DomainEvent")).Return(nil)

		_, err := service.Cancel(ctx, testPayTenantID, group.ID, CancelGroupRequest{Reason: "duplicate"})

		require.NoError(t, err)
		clientRepo.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPaymentService_List(t *testing.T) {
	t.Run("applies pagination defaults", func(t *testing.T) {
		service, groupRepo, _, _ := newTestService()
		ctx := context.Background()

		expected := shared.Filter{
			Page:     1,
			PageSize: 20,
			OrderBy:  "created_at",
			OrderDir: "desc",
			Filters:  map[string]interface{}{},
		}
		groupRepo.On("FindAllForTenant", mock.Anything, testPayTenantID, expected).Return([]payment.PaymentGroup{}, nil)
		groupRepo.On("CountForTenant", mock.Anything, testPayTenantID, expected).Return(int64(0), nil)

		responses, total, err := service.List(ctx, testPayTenantID, GroupListFilter{})

		require.NoError(t, err)
		assert.Empty(t, responses)
		assert.Equal(t, int64(0), total)
		groupRepo.AssertExpectations(t)
	})
}
