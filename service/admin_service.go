package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"aura/models"
)

type adminService struct {
	uowFactory UnitOfWorkFactory
}

// NewAdminService creates a new admin service. Callers are trusted to have
// verified the actor's privileges; every operation is logged and appears in
// the ledger with the actor's identity.
func NewAdminService(uowFactory UnitOfWorkFactory) AdminService {
	return &adminService{
		uowFactory: uowFactory,
	}
}

func (s *adminService) Adjust(ctx context.Context, guildID, actorID, targetID int64, op models.AdminOp, amount int64) (*models.AdminReceipt, error) {
	switch op {
	case models.AdminOpAdd, models.AdminOpRemove:
		if amount < 1 || amount > AdminAdjustCap {
			return nil, &RangeError{Amount: amount, Min: 1, Max: AdminAdjustCap}
		}
	case models.AdminOpSet:
		// Set targets are clamped rather than rejected
		if amount < AdminSetMin {
			amount = AdminSetMin
		}
		if amount > AdminSetMax {
			amount = AdminSetMax
		}
	default:
		return nil, NewValidationError("unknown admin operation %q", op)
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	account, err := getOrCreateAccount(ctx, uow, guildID, targetID)
	if err != nil {
		return nil, persistenceErr(err)
	}

	previous := account.Balance
	var delta int64
	var transactionType models.TransactionType
	switch op {
	case models.AdminOpAdd:
		delta = amount
		transactionType = models.TransactionTypeAdminAdd
	case models.AdminOpRemove:
		delta = -amount
		transactionType = models.TransactionTypeAdminRemove
	case models.AdminOpSet:
		delta = amount - previous
		transactionType = models.TransactionTypeAdminSet
	}

	// Admin overrides bypass the gain/loss stats entirely
	account.Balance += delta

	if err := uow.AccountRepository().Save(ctx, account); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to save account: %w", err))
	}

	record := &models.TransactionRecord{
		GuildID:         guildID,
		UserID:          targetID,
		BalanceBefore:   previous,
		BalanceAfter:    account.Balance,
		ChangeAmount:    delta,
		TransactionType: transactionType,
		ActorID:         &actorID,
	}
	if err := recordBalanceChange(ctx, uow, record); err != nil {
		return nil, persistenceErr(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	logrus.WithFields(logrus.Fields{
		"guildID":  guildID,
		"actorID":  actorID,
		"targetID": targetID,
		"op":       op,
		"delta":    delta,
	}).Warn("Admin balance adjustment")

	return &models.AdminReceipt{
		ActorID:         actorID,
		TargetID:        targetID,
		Op:              op,
		PreviousBalance: previous,
		NewBalance:      account.Balance,
		Delta:           delta,
	}, nil
}

func (s *adminService) Reset(ctx context.Context, guildID, actorID, targetID int64) error {
	ctx, cancel := opContext(ctx)
	defer cancel()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return persistenceErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	// Lock the row first so a concurrent game cannot interleave with the reset
	account, err := getOrCreateAccount(ctx, uow, guildID, targetID)
	if err != nil {
		return persistenceErr(err)
	}
	previous := account.Balance

	account, err = uow.AccountRepository().Reset(ctx, targetID, InitialBalance)
	if err != nil {
		return persistenceErr(fmt.Errorf("failed to reset account: %w", err))
	}

	if err := uow.CooldownRepository().ClearForUser(ctx, targetID); err != nil {
		return persistenceErr(fmt.Errorf("failed to clear cooldowns: %w", err))
	}

	record := &models.TransactionRecord{
		GuildID:         guildID,
		UserID:          targetID,
		BalanceBefore:   previous,
		BalanceAfter:    account.Balance,
		ChangeAmount:    account.Balance - previous,
		TransactionType: models.TransactionTypeReset,
		ActorID:         &actorID,
	}
	if err := recordBalanceChange(ctx, uow, record); err != nil {
		return persistenceErr(err)
	}

	if err := uow.Commit(); err != nil {
		return persistenceErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	logrus.WithFields(logrus.Fields{
		"guildID":  guildID,
		"actorID":  actorID,
		"targetID": targetID,
	}).Warn("Account reset")

	return nil
}
