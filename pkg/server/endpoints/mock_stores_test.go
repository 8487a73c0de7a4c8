package endpoints

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yachtexcel/yachtexcel/pkg/model"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server/store"
)

// MockYachtsStore implements store.YachtsStore for testing using testify/mock
type MockYachtsStore struct {
	mock.Mock
}

func (m *MockYachtsStore) ListYachts(ctx context.Context, filter store.YachtFilter, page store.Page) (store.List[model.Yacht], error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).(store.List[model.Yacht]), args.Error(1)
}

func (m *MockYachtsStore) GetYacht(ctx context.Context, id string) (*model.Yacht, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Yacht), args.Error(1)
}

func (m *MockYachtsStore) CreateYacht(ctx context.Context, y *model.Yacht) error {
	return m.Called(ctx, y).Error(0)
}

func (m *MockYachtsStore) UpdateYacht(ctx context.Context, y *model.Yacht) error {
	return m.Called(ctx, y).Error(0)
}

func (m *MockYachtsStore) DeleteYacht(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockCrewStore implements store.CrewStore for testing using testify/mock
type MockCrewStore struct {
	mock.Mock
}

func (m *MockCrewStore) ListCrew(ctx context.Context, yachtID string, page store.Page) (store.List[model.CrewMember], error) {
	args := m.Called(ctx, yachtID, page)
	return args.Get(0).(store.List[model.CrewMember]), args.Error(1)
}

func (m *MockCrewStore) GetCrewMember(ctx context.Context, id string) (*model.CrewMember, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CrewMember), args.Error(1)
}

func (m *MockCrewStore) CreateCrewMember(ctx context.Context, c *model.CrewMember) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCrewStore) UpdateCrewMember(ctx context.Context, c *model.CrewMember) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCrewStore) DeleteCrewMember(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockEquipmentStore implements store.EquipmentStore for testing using testify/mock
type MockEquipmentStore struct {
	mock.Mock
}

func (m *MockEquipmentStore) ListEquipment(ctx context.Context, yachtID string, page store.Page) (store.List[model.Equipment], error) {
	args := m.Called(ctx, yachtID, page)
	return args.Get(0).(store.List[model.Equipment]), args.Error(1)
}

func (m *MockEquipmentStore) ListServiceDue(ctx context.Context, before time.Time, page store.Page) (store.List[model.Equipment], error) {
	args := m.Called(ctx, before, page)
	return args.Get(0).(store.List[model.Equipment]), args.Error(1)
}

func (m *MockEquipmentStore) GetEquipment(ctx context.Context, id string) (*model.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Equipment), args.Error(1)
}

func (m *MockEquipmentStore) CreateEquipment(ctx context.Context, e *model.Equipment) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEquipmentStore) UpdateEquipment(ctx context.Context, e *model.Equipment) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockEquipmentStore) DeleteEquipment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockInventoryStore implements store.InventoryStore for testing using testify/mock
type MockInventoryStore struct {
	mock.Mock
}

func (m *MockInventoryStore) ListInventory(ctx context.Context, yachtID string, page store.Page) (store.List[model.InventoryItem], error) {
	args := m.Called(ctx, yachtID, page)
	return args.Get(0).(store.List[model.InventoryItem]), args.Error(1)
}

func (m *MockInventoryStore) ListLowStock(ctx context.Context, yachtID string, page store.Page) (store.List[model.InventoryItem], error) {
	args := m.Called(ctx, yachtID, page)
	return args.Get(0).(store.List[model.InventoryItem]), args.Error(1)
}

func (m *MockInventoryStore) GetInventoryItem(ctx context.Context, id string) (*model.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryItem), args.Error(1)
}

func (m *MockInventoryStore) CreateInventoryItem(ctx context.Context, i *model.InventoryItem) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockInventoryStore) UpdateInventoryItem(ctx context.Context, i *model.InventoryItem) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockInventoryStore) DeleteInventoryItem(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockAIProvidersStore implements store.AIProvidersStore for testing using testify/mock
type MockAIProvidersStore struct {
	mock.Mock
}

func (m *MockAIProvidersStore) ListProviders(ctx context.Context, enabledOnly bool) ([]model.AIProvider, error) {
	args := m.Called(ctx, enabledOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AIProvider), args.Error(1)
}

func (m *MockAIProvidersStore) GetProvider(ctx context.Context, id string) (*model.AIProvider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AIProvider), args.Error(1)
}

func (m *MockAIProvidersStore) CreateProvider(ctx context.Context, p *model.AIProvider) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockAIProvidersStore) UpdateProvider(ctx context.Context, p *model.AIProvider) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockAIProvidersStore) DeleteProvider(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAIProvidersStore) AddModel(ctx context.Context, providerID string, am *model.AIModel) error {
	return m.Called(ctx, providerID, am).Error(0)
}

// MockUsageStore implements store.UsageStore for testing using testify/mock
type MockUsageStore struct {
	mock.Mock
}

func (m *MockUsageStore) RecordUsage(ctx context.Context, u *model.AIUsageLog) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUsageStore) SummarizeUsage(ctx context.Context, since time.Time) ([]store.UsageSummary, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.UsageSummary), args.Error(1)
}

// MockRolesStore implements store.RolesStore for testing using testify/mock
type MockRolesStore struct {
	mock.Mock
}

func (m *MockRolesStore) RolesForUser(ctx context.Context, userID string) ([]role.Role, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]role.Role), args.Error(1)
}

func (m *MockRolesStore) GetAssignment(ctx context.Context, userID string) (*model.RoleAssignment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RoleAssignment), args.Error(1)
}

func (m *MockRolesStore) AssignRole(ctx context.Context, a *model.RoleAssignment) (*model.RoleAssignment, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RoleAssignment), args.Error(1)
}

func (m *MockRolesStore) RevokeRole(ctx context.Context, userID string) (*model.RoleAssignment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RoleAssignment), args.Error(1)
}

// MockExtractionsStore implements store.ExtractionsStore for testing using testify/mock
type MockExtractionsStore struct {
	mock.Mock
}

func (m *MockExtractionsStore) CreateExtraction(ctx context.Context, d *model.DocumentExtraction) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockExtractionsStore) GetExtraction(ctx context.Context, id string) (*model.DocumentExtraction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentExtraction), args.Error(1)
}

func (m *MockExtractionsStore) ListExtractions(ctx context.Context, filter store.ExtractionFilter, page store.Page) (store.List[model.DocumentExtraction], error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).(store.List[model.DocumentExtraction]), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
