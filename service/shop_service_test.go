package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"aura/events"
	"aura/models"
)

func setupShopMocks() (ShopService, *MockUnitOfWorkFactory, *MockUnitOfWork, *MockAccountRepository, *MockLedgerRepository, *recordingPublisher) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockLedgerRepo := new(MockLedgerRepository)
	publisher := &recordingPublisher{}

	mockUoW.SetRepositories(mockAccountRepo, new(MockCooldownRepository), mockLedgerRepo, publisher)

	svc := NewShopService(mockFactory)
	return svc, mockFactory, mockUoW, mockAccountRepo, mockLedgerRepo, publisher
}

func TestShopService_BuyShield(t *testing.T) {
	ctx := context.Background()
	svc, mockFactory, mockUoW, mockAccountRepo, mockLedgerRepo, publisher := setupShopMocks()

	account := &models.Account{UserID: testUserID, GuildID: testGuildID, Balance: 5000}

	mockFactory.On("CreateForGuild", testGuildID).Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetForUpdate", mock.Anything, testUserID).Return(account, nil)
	mockAccountRepo.On("Save", mock.Anything, mock.MatchedBy(func(a *models.Account) bool {
		return a.Balance == 4000 && a.ShieldExpiresAt != nil
	})).Return(nil)
	mockLedgerRepo.On("Record", mock.Anything, mock.MatchedBy(func(r *models.TransactionRecord) bool {
		return r.ChangeAmount == -1000 && r.TransactionType == models.TransactionTypeShopPurchase
	})).Return(nil)

	receipt, err := svc.BuyItem(ctx, testGuildID, testUserID, "shield")

	assert.NoError(t, err)
	assert.Equal(t, "shield", receipt.Item.ID)
	assert.Equal(t, int64(4000), receipt.NewBalance)
	assert.NotNil(t, receipt.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(ShieldDuration), *receipt.ExpiresAt, 5*time.Second)

	// Effect application is published alongside the purchase
	var sawEffect bool
	for _, ev := range publisher.published {
		if applied, ok := ev.(events.EffectAppliedEvent); ok {
			sawEffect = true
			assert.Equal(t, models.EffectShield, applied.Kind)
		}
	}
	assert.True(t, sawEffect)
}

func TestShopService_BuyMultiplierOverwritesExisting(t *testing.T) {
	ctx := context.Background()
	svc, mockFactory, mockUoW, mockAccountRepo, mockLedgerRepo, _ := setupShopMocks()

	// An almost-expired multiplier gets replaced with a fresh one
	oldExpiry := time.Now().Add(10 * time.Minute)
	account := &models.Account{UserID: testUserID, GuildID: testGuildID, Balance: 3000, MultiplierExpiresAt: &oldExpiry}

	mockFactory.On("CreateForGuild", testGuildID).Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetForUpdate", mock.Anything, testUserID).Return(account, nil)
	mockAccountRepo.On("Save", mock.Anything, mock.MatchedBy(func(a *models.Account) bool {
		return a.Balance == 500 && a.MultiplierExpiresAt.After(oldExpiry)
	})).Return(nil)
	mockLedgerRepo.On("Record", mock.Anything, mock.Anything).Return(nil)

	receipt, err := svc.BuyItem(ctx, testGuildID, testUserID, "multiplier")

	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(MultiplierDuration), *receipt.ExpiresAt, 5*time.Second)
}

func TestShopService_BuyBombAddsToInventory(t *testing.T) {
	ctx := context.Background()
	svc, mockFactory, mockUoW, mockAccountRepo, mockLedgerRepo, publisher := setupShopMocks()

	account := &models.Account{UserID: testUserID, GuildID: testGuildID, Balance: 12000, Items: []string{"bomb"}}

	mockFactory.On("CreateForGuild", testGuildID).Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetForUpdate", mock.Anything, testUserID).Return(account, nil)
	mockAccountRepo.On("Save", mock.Anything, mock.MatchedBy(func(a *models.Account) bool {
		return a.Balance == 7000 && a.CountItem("bomb") == 2
	})).Return(nil)
	mockLedgerRepo.On("Record", mock.Anything, mock.Anything).Return(nil)

	receipt, err := svc.BuyItem(ctx, testGuildID, testUserID, "bomb")

	assert.NoError(t, err)
	assert.Nil(t, receipt.ExpiresAt)

	// Consumables do not publish an effect event
	for _, ev := range publisher.published {
		_, isEffect := ev.(events.EffectAppliedEvent)
		assert.False(t, isEffect)
	}
}

func TestShopService_BuyItem_Unknown(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _, _ := setupShopMocks()

	receipt, err := svc.BuyItem(ctx, testGuildID, testUserID, "nuke")

	assert.Nil(t, receipt)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestShopService_BuyItem_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	svc, mockFactory, mockUoW, mockAccountRepo, _, _ := setupShopMocks()

	account := &models.Account{UserID: testUserID, GuildID: testGuildID, Balance: 4999}

	mockFactory.On("CreateForGuild", testGuildID).Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetForUpdate", mock.Anything, testUserID).Return(account, nil)

	receipt, err := svc.BuyItem(ctx, testGuildID, testUserID, "bomb")

	assert.Nil(t, receipt)
	var fundsErr *InsufficientFundsError
	assert.ErrorAs(t, err, &fundsErr)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestShopService_UseBomb(t *testing.T) {
	ctx := context.Background()
	svc, mockFactory, mockUoW, mockAccountRepo, mockLedgerRepo, _ := setupShopMocks()

	// Even an active shield does not stop a bomb
	expires := time.Now().Add(time.Hour)
	user := &models.Account{UserID: 100, GuildID: testGuildID, Balance: 1000, Items: []string{"bomb", "bomb"}}
	target := &models.Account{UserID: 200, GuildID: testGuildID, Balance: 3000, ShieldExpiresAt: &expires}

	mockFactory.On("CreateForGuild", testGuildID).Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetForUpdate", mock.Anything, int64(100)).Return(user, nil)
	mockAccountRepo.On("GetForUpdate", mock.Anything, int64(200)).Return(target, nil)

	mockAccountRepo.On("Save", mock.Anything, mock.MatchedBy(func(a *models.Account) bool {
		return a.UserID == 100 && a.CountItem("bomb") == 1
	})).Return(nil)
	mockAccountRepo.On("Save", mock.Anything, mock.MatchedBy(func(a *models.Account) bool {
		return a.UserID == 200 && a.Balance == 1000
	})).Return(nil)

	mockLedgerRepo.On("Record", mock.Anything, mock.MatchedBy(func(r *models.TransactionRecord) bool {
		return r.UserID == 200 &&
			r.ChangeAmount == -BombDamage &&
			r.TransactionType == models.TransactionTypeBombHit &&
			r.ActorID != nil && *r.ActorID == 100
	})).Return(nil)

	result, err := svc.UseBomb(ctx, testGuildID, 100, 200)

	assert.NoError(t, err)
	assert.Equal(t, BombDamage, result.Damage)
	assert.Equal(t, int64(1000), result.TargetNewBalance)
	assert.Equal(t, 1, result.BombsRemaining)

	mockLedgerRepo.AssertExpectations(t)
}

func TestShopService_UseBomb_NoInventory(t *testing.T) {
	ctx := context.Background()
	svc, mockFactory, mockUoW, mockAccountRepo, _, _ := setupShopMocks()

	user := &models.Account{UserID: 100, GuildID: testGuildID, Balance: 1000}
	target := &models.Account{UserID: 200, GuildID: testGuildID, Balance: 3000}

	mockFactory.On("CreateForGuild", testGuildID).Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockAccountRepo.On("GetForUpdate", mock.Anything, int64(100)).Return(user, nil)
	mockAccountRepo.On("GetForUpdate", mock.Anything, int64(200)).Return(target, nil)

	result, err := svc.UseBomb(ctx, testGuildID, 100, 200)

	assert.Nil(t, result)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestShopService_UseBomb_SelfTarget(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _, _ := setupShopMocks()

	result, err := svc.UseBomb(ctx, testGuildID, 100, 100)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrSelfTarget)
}
