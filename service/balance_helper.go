package service

import (
	"context"
	"fmt"
	"time"

	"aura/config"
	"aura/events"
	"aura/models"
)

// opContext bounds an engine operation with the configured persistence
// timeout. On expiry the enclosing transaction rolls back, so the caller
// sees a retryable error with no partial mutation.
func opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, config.Get().PersistenceTimeout)
}

// recordBalanceChange appends a ledger record and stages the matching
// event. This is the single entry point for all balance changes.
func recordBalanceChange(ctx context.Context, uow UnitOfWork, record *models.TransactionRecord) error {
	if err := uow.LedgerRepository().Record(ctx, record); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          record.UserID,
		GuildID:         record.GuildID,
		OldBalance:      record.BalanceBefore,
		NewBalance:      record.BalanceAfter,
		TransactionType: record.TransactionType,
		ChangeAmount:    record.ChangeAmount,
	})

	if record.TransactionType == models.TransactionTypeInitial {
		uow.EventBus().Publish(events.AccountCreatedEvent{
			UserID:         record.UserID,
			GuildID:        record.GuildID,
			InitialBalance: record.BalanceAfter,
		})
	}

	return nil
}

// getOrCreateAccount retrieves an account with its row locked, creating it
// with the initial balance on first access. Creation writes the initial
// ledger record inside the same transaction.
func getOrCreateAccount(ctx context.Context, uow UnitOfWork, guildID, userID int64) (*models.Account, error) {
	account, err := uow.AccountRepository().GetForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account != nil {
		return account, nil
	}

	account, err = uow.AccountRepository().Create(ctx, userID, InitialBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	if account == nil {
		// Lost a concurrent first-access race; the row exists now, lock it
		account, err = uow.AccountRepository().GetForUpdate(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return nil, fmt.Errorf("account for user %d vanished after create conflict", userID)
		}
		return account, nil
	}

	record := &models.TransactionRecord{
		GuildID:         guildID,
		UserID:          userID,
		BalanceBefore:   0,
		BalanceAfter:    InitialBalance,
		ChangeAmount:    InitialBalance,
		TransactionType: models.TransactionTypeInitial,
	}
	if err := recordBalanceChange(ctx, uow, record); err != nil {
		return nil, fmt.Errorf("failed to record initial balance: %w", err)
	}

	return account, nil
}

// getOrCreateAccountPair locks two accounts in ascending user-id order so
// that concurrent two-account operations cannot deadlock.
func getOrCreateAccountPair(ctx context.Context, uow UnitOfWork, guildID, firstID, secondID int64) (first, second *models.Account, err error) {
	lo, hi := firstID, secondID
	if lo > hi {
		lo, hi = hi, lo
	}

	loAccount, err := getOrCreateAccount(ctx, uow, guildID, lo)
	if err != nil {
		return nil, nil, err
	}
	hiAccount, err := getOrCreateAccount(ctx, uow, guildID, hi)
	if err != nil {
		return nil, nil, err
	}

	if lo == firstID {
		return loAccount, hiAccount, nil
	}
	return hiAccount, loAccount, nil
}

// applyDelta mutates an account's balance and running gain/loss extremes.
// Win/loss counters are game outcomes only and are bumped by the caller.
func applyDelta(a *models.Account, delta int64) {
	a.Balance += delta
	if delta > 0 {
		a.TotalGained += delta
		if delta > a.BiggestWin {
			a.BiggestWin = delta
		}
	} else if delta < 0 {
		loss := -delta
		a.TotalLost += loss
		if loss > a.BiggestLoss {
			a.BiggestLoss = loss
		}
	}
}

// checkCooldown runs the atomic cooldown check-and-set and converts a
// blocked result into a CooldownError
func checkCooldown(ctx context.Context, uow UnitOfWork, userID int64, action string, window time.Duration) error {
	ready, remaining, err := uow.CooldownRepository().CheckAndSet(ctx, userID, action, window)
	if err != nil {
		return persistenceErr(fmt.Errorf("failed to check %s cooldown: %w", action, err))
	}
	if !ready {
		return &CooldownError{Action: action, Remaining: remaining}
	}
	return nil
}
