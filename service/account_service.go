package service

import (
	"context"
	"fmt"
	"time"

	"aura/models"
)

type accountService struct {
	uowFactory UnitOfWorkFactory
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory UnitOfWorkFactory) AccountService {
	return &accountService{
		uowFactory: uowFactory,
	}
}

func (s *accountService) GetProfile(ctx context.Context, guildID, userID int64) (*models.Profile, error) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	// Profile views create the account too, so the first thing a new user
	// does always lands on the initial balance
	account, err := getOrCreateAccount(ctx, uow, guildID, userID)
	if err != nil {
		return nil, persistenceErr(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	now := time.Now()
	return &models.Profile{
		UserID:        userID,
		GuildID:       guildID,
		Balance:       account.Balance,
		Title:         models.TitleForBalance(account.Balance),
		Stats:         account.Stats(),
		ActiveEffects: activeEffects(account, now),
	}, nil
}

func (s *accountService) GetHistory(ctx context.Context, guildID, userID int64, limit int) ([]*models.TransactionRecord, error) {
	if limit < 1 {
		return nil, NewValidationError("limit must be positive")
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	records, err := uow.LedgerRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to get history: %w", err))
	}

	if err := uow.Commit(); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	return records, nil
}
