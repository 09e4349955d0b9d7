package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"aura/events"
	"aura/models"
)

type transferService struct {
	uowFactory UnitOfWorkFactory
	rng        Rand
}

// NewTransferService creates a new transfer service
func NewTransferService(uowFactory UnitOfWorkFactory, rng Rand) TransferService {
	return &transferService{
		uowFactory: uowFactory,
		rng:        rng,
	}
}

func (s *transferService) Donate(ctx context.Context, guildID, fromUserID, toUserID int64, amount int64) (*models.DonationReceipt, error) {
	if fromUserID == toUserID {
		return nil, ErrSelfTarget
	}
	if amount < MinDonation {
		return nil, NewValidationError("minimum donation is %d aura", MinDonation)
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	sender, recipient, err := getOrCreateAccountPair(ctx, uow, guildID, fromUserID, toUserID)
	if err != nil {
		return nil, persistenceErr(err)
	}
	if sender.Balance < amount {
		return nil, &InsufficientFundsError{Balance: sender.Balance, Required: amount}
	}

	// Donations move aura verbatim, untouched by any gain multiplier
	senderBefore := sender.Balance
	recipientBefore := recipient.Balance
	applyDelta(sender, -amount)
	applyDelta(recipient, amount)

	if err := uow.AccountRepository().Save(ctx, sender); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to save sender: %w", err))
	}
	if err := uow.AccountRepository().Save(ctx, recipient); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to save recipient: %w", err))
	}

	sentRecord := &models.TransactionRecord{
		GuildID:         guildID,
		UserID:          fromUserID,
		BalanceBefore:   senderBefore,
		BalanceAfter:    sender.Balance,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeDonationSent,
		Metadata:        map[string]any{"to_user_id": toUserID},
	}
	if err := recordBalanceChange(ctx, uow, sentRecord); err != nil {
		return nil, persistenceErr(err)
	}

	receivedRecord := &models.TransactionRecord{
		GuildID:         guildID,
		UserID:          toUserID,
		BalanceBefore:   recipientBefore,
		BalanceAfter:    recipient.Balance,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeDonationReceived,
		Metadata:        map[string]any{"from_user_id": fromUserID},
	}
	if err := recordBalanceChange(ctx, uow, receivedRecord); err != nil {
		return nil, persistenceErr(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	logrus.WithFields(logrus.Fields{
		"guildID":    guildID,
		"fromUserID": fromUserID,
		"toUserID":   toUserID,
		"amount":     amount,
	}).Info("Donation completed")

	return &models.DonationReceipt{
		FromUserID:       fromUserID,
		ToUserID:         toUserID,
		Amount:           amount,
		SenderNewBalance: sender.Balance,
	}, nil
}

func (s *transferService) Drain(ctx context.Context, guildID, attackerID, targetID int64) (*models.DrainResult, error) {
	if attackerID == targetID {
		return nil, ErrSelfTarget
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	attacker, target, err := getOrCreateAccountPair(ctx, uow, guildID, attackerID, targetID)
	if err != nil {
		return nil, persistenceErr(err)
	}

	if err := checkCooldown(ctx, uow, attackerID, ActionDrain, DrainCooldown); err != nil {
		return nil, err
	}

	now := time.Now()
	successFactor, damageFactor := drainModifiers(target, now)
	shielded := successFactor != 1.0

	rate := drainSuccessRate(attacker.Balance, target.Balance) * successFactor
	success := s.rng.Float64() < rate

	var result *models.DrainResult
	if success {
		amount := drainAmount(s.rng, target.Balance)
		amount = int64(float64(amount) * damageFactor)
		gain := amount * effectiveMultiplier(attacker, now)
		result, err = s.applyDrainHit(ctx, uow, guildID, attacker, target, amount, gain, shielded)
	} else {
		result, err = s.applyBackfire(ctx, uow, guildID, attacker, target, shielded)
	}
	if err != nil {
		return nil, persistenceErr(err)
	}

	uow.EventBus().Publish(events.DrainAttemptedEvent{
		GuildID:    guildID,
		AttackerID: attackerID,
		TargetID:   targetID,
		Success:    success,
		Amount:     result.Amount,
		Shielded:   shielded,
	})

	if err := uow.Commit(); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	logrus.WithFields(logrus.Fields{
		"guildID":    guildID,
		"attackerID": attackerID,
		"targetID":   targetID,
		"success":    success,
		"amount":     result.Amount,
		"shielded":   shielded,
	}).Info("Drain attempt resolved")

	return result, nil
}

// applyDrainHit debits the target by the drained amount and credits the
// attacker with the gain, which exceeds it under an active multiplier. A
// zero amount still counts as a success and still burns the cooldown.
func (s *transferService) applyDrainHit(ctx context.Context, uow UnitOfWork, guildID int64, attacker, target *models.Account, amount, gain int64, shielded bool) (*models.DrainResult, error) {
	attackerBefore := attacker.Balance
	targetBefore := target.Balance
	applyDelta(attacker, gain)
	applyDelta(target, -amount)

	if err := uow.AccountRepository().Save(ctx, attacker); err != nil {
		return nil, fmt.Errorf("failed to save attacker: %w", err)
	}
	if err := uow.AccountRepository().Save(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to save target: %w", err)
	}

	gainRecord := &models.TransactionRecord{
		GuildID:         guildID,
		UserID:          attacker.UserID,
		BalanceBefore:   attackerBefore,
		BalanceAfter:    attacker.Balance,
		ChangeAmount:    gain,
		TransactionType: models.TransactionTypeDrainSuccess,
		Metadata:        map[string]any{"target_id": target.UserID, "shielded": shielded},
	}
	if err := recordBalanceChange(ctx, uow, gainRecord); err != nil {
		return nil, err
	}

	lossRecord := &models.TransactionRecord{
		GuildID:         guildID,
		UserID:          target.UserID,
		BalanceBefore:   targetBefore,
		BalanceAfter:    target.Balance,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeDrained,
		Metadata:        map[string]any{"attacker_id": attacker.UserID, "shielded": shielded},
	}
	if err := recordBalanceChange(ctx, uow, lossRecord); err != nil {
		return nil, err
	}

	return &models.DrainResult{
		Success:            true,
		Amount:             amount,
		TargetShielded:     shielded,
		AttackerNewBalance: attacker.Balance,
		TargetNewBalance:   target.Balance,
	}, nil
}

// applyBackfire charges the attacker for the failed attempt. The loss
// leaves the economy entirely rather than compensating the target.
func (s *transferService) applyBackfire(ctx context.Context, uow UnitOfWork, guildID int64, attacker, target *models.Account, shielded bool) (*models.DrainResult, error) {
	loss := backfireAmount(s.rng)

	attackerBefore := attacker.Balance
	applyDelta(attacker, -loss)

	if err := uow.AccountRepository().Save(ctx, attacker); err != nil {
		return nil, fmt.Errorf("failed to save attacker: %w", err)
	}

	record := &models.TransactionRecord{
		GuildID:         guildID,
		UserID:          attacker.UserID,
		BalanceBefore:   attackerBefore,
		BalanceAfter:    attacker.Balance,
		ChangeAmount:    -loss,
		TransactionType: models.TransactionTypeDrainBackfire,
		Metadata:        map[string]any{"target_id": target.UserID, "shielded": shielded},
	}
	if err := recordBalanceChange(ctx, uow, record); err != nil {
		return nil, err
	}

	return &models.DrainResult{
		Success:            false,
		Amount:             loss,
		TargetShielded:     shielded,
		AttackerNewBalance: attacker.Balance,
		TargetNewBalance:   target.Balance,
	}, nil
}
