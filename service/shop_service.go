package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"aura/events"
	"aura/models"
)

type shopService struct {
	uowFactory UnitOfWorkFactory
}

// NewShopService creates a new shop service
func NewShopService(uowFactory UnitOfWorkFactory) ShopService {
	return &shopService{
		uowFactory: uowFactory,
	}
}

func (s *shopService) BuyItem(ctx context.Context, guildID, userID int64, itemID string) (*models.PurchaseReceipt, error) {
	item, ok := models.ShopItems[itemID]
	if !ok {
		return nil, NewValidationError("unknown item %q", itemID)
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, guildID, userID)
	if err != nil {
		return nil, persistenceErr(err)
	}
	if account.Balance < item.Cost {
		return nil, &InsufficientFundsError{Balance: account.Balance, Required: item.Cost}
	}

	now := time.Now()
	balanceBefore := account.Balance
	applyDelta(account, -item.Cost)

	var expiresAt *time.Time
	switch item.ID {
	case "shield":
		applyEffect(account, models.EffectShield, ShieldDuration, now)
		expiresAt = account.ShieldExpiresAt
	case "multiplier":
		applyEffect(account, models.EffectMultiplier, MultiplierDuration, now)
		expiresAt = account.MultiplierExpiresAt
	default:
		account.Items = append(account.Items, item.ID)
	}

	if err := uow.AccountRepository().Save(ctx, account); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to save account: %w", err))
	}

	record := &models.TransactionRecord{
		GuildID:         guildID,
		UserID:          userID,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    account.Balance,
		ChangeAmount:    -item.Cost,
		TransactionType: models.TransactionTypeShopPurchase,
		Metadata:        map[string]any{"item": item.ID},
	}
	if err := recordBalanceChange(ctx, uow, record); err != nil {
		return nil, persistenceErr(err)
	}

	if item.Duration > 0 {
		uow.EventBus().Publish(events.EffectAppliedEvent{
			UserID:  userID,
			GuildID: guildID,
			Kind:    models.EffectKind(item.ID),
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	logrus.WithFields(logrus.Fields{
		"guildID": guildID,
		"userID":  userID,
		"item":    item.ID,
		"cost":    item.Cost,
	}).Info("Shop purchase completed")

	return &models.PurchaseReceipt{
		Item:       item,
		NewBalance: account.Balance,
		ExpiresAt:  expiresAt,
	}, nil
}

func (s *shopService) UseBomb(ctx context.Context, guildID, userID, targetID int64) (*models.BombResult, error) {
	if userID == targetID {
		return nil, ErrSelfTarget
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	user, target, err := getOrCreateAccountPair(ctx, uow, guildID, userID, targetID)
	if err != nil {
		return nil, persistenceErr(err)
	}

	if !user.RemoveItem("bomb") {
		return nil, NewValidationError("no bombs in inventory")
	}

	// Bomb damage bypasses shields entirely
	targetBefore := target.Balance
	applyDelta(target, -BombDamage)

	if err := uow.AccountRepository().Save(ctx, user); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to save account: %w", err))
	}
	if err := uow.AccountRepository().Save(ctx, target); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to save target: %w", err))
	}

	record := &models.TransactionRecord{
		GuildID:         guildID,
		UserID:          targetID,
		BalanceBefore:   targetBefore,
		BalanceAfter:    target.Balance,
		ChangeAmount:    -BombDamage,
		TransactionType: models.TransactionTypeBombHit,
		ActorID:         &userID,
	}
	if err := recordBalanceChange(ctx, uow, record); err != nil {
		return nil, persistenceErr(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	logrus.WithFields(logrus.Fields{
		"guildID":  guildID,
		"userID":   userID,
		"targetID": targetID,
		"damage":   BombDamage,
	}).Info("Bomb used")

	return &models.BombResult{
		Damage:           BombDamage,
		TargetNewBalance: target.Balance,
		BombsRemaining:   user.CountItem("bomb"),
	}, nil
}
