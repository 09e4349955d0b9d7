package service

import (
	"context"
	"time"

	"aura/events"
	"aura/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Get(ctx context.Context, userID int64) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetForUpdate(ctx context.Context, userID int64) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, userID int64, initialBalance int64) (*models.Account, error) {
	args := m.Called(ctx, userID, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Reset(ctx context.Context, userID int64, initialBalance int64) (*models.Account, error) {
	args := m.Called(ctx, userID, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) TopByBalance(ctx context.Context, limit int) ([]*models.Account, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

// MockCooldownRepository is a mock implementation of CooldownRepository
type MockCooldownRepository struct {
	mock.Mock
}

func (m *MockCooldownRepository) CheckAndSet(ctx context.Context, userID int64, action string, window time.Duration) (bool, time.Duration, error) {
	args := m.Called(ctx, userID, action, window)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

func (m *MockCooldownRepository) ClearForUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Record(ctx context.Context, record *models.TransactionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.TransactionRecord, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TransactionRecord), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// recordingPublisher collects published events for assertion without
// requiring expectations on every publish
type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(event events.Event) {
	p.published = append(p.published, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// injected with SetRepositories rather than mocked per-call.
type MockUnitOfWork struct {
	mock.Mock
	accountRepo  AccountRepository
	cooldownRepo CooldownRepository
	ledgerRepo   LedgerRepository
	eventBus     EventPublisher
}

// SetRepositories wires the repositories and event publisher this unit of
// work hands out
func (m *MockUnitOfWork) SetRepositories(accountRepo AccountRepository, cooldownRepo CooldownRepository, ledgerRepo LedgerRepository, eventBus EventPublisher) {
	m.accountRepo = accountRepo
	m.cooldownRepo = cooldownRepo
	m.ledgerRepo = ledgerRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) CooldownRepository() CooldownRepository {
	return m.cooldownRepo
}

func (m *MockUnitOfWork) LedgerRepository() LedgerRepository {
	return m.ledgerRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) CreateForGuild(guildID int64) UnitOfWork {
	args := m.Called(guildID)
	return args.Get(0).(UnitOfWork)
}
