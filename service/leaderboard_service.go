package service

import (
	"context"
	"fmt"

	"aura/models"
)

// Leaderboard size bounds
const (
	LeaderboardDefaultSize = 10
	LeaderboardMaxSize     = 25
)

type leaderboardService struct {
	uowFactory UnitOfWorkFactory
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(uowFactory UnitOfWorkFactory) LeaderboardService {
	return &leaderboardService{
		uowFactory: uowFactory,
	}
}

func (s *leaderboardService) Top(ctx context.Context, guildID int64, n int) ([]*models.LeaderboardEntry, error) {
	if n < 1 {
		n = LeaderboardDefaultSize
	}
	if n > LeaderboardMaxSize {
		n = LeaderboardMaxSize
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback()

	accounts, err := uow.AccountRepository().TopByBalance(ctx, n)
	if err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to query leaderboard: %w", err))
	}

	if err := uow.Commit(); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	entries := make([]*models.LeaderboardEntry, 0, len(accounts))
	for i, account := range accounts {
		entries = append(entries, &models.LeaderboardEntry{
			Rank:    i + 1,
			UserID:  account.UserID,
			Balance: account.Balance,
			Title:   models.TitleForBalance(account.Balance),
		})
	}
	return entries, nil
}
