package service

import (
	"context"
	"fmt"
	"time"

	"aura/models"
)

type gameService struct {
	uowFactory UnitOfWorkFactory
	rng        Rand
}

// NewGameService creates a new game service
func NewGameService(uowFactory UnitOfWorkFactory, rng Rand) GameService {
	return &gameService{
		uowFactory: uowFactory,
		rng:        rng,
	}
}

func (s *gameService) PlaySlots(ctx context.Context, guildID, userID int64, bet int64) (*models.SlotsResult, error) {
	if bet < MinSlotsBet {
		return nil, NewValidationError("minimum bet is %d aura", MinSlotsBet)
	}

	ctx, cancel := opContext(ctx)
	defer cancel()

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer uow.Rollback() // No-op if already committed

	account, err := getOrCreateAccount(ctx, uow, guildID, userID)
	if err != nil {
		return nil, persistenceErr(err)
	}
	if account.Balance < bet {
		return nil, &InsufficientFundsError{Balance: account.Balance, Required: bet}
	}

	if err := checkCooldown(ctx, uow, userID, ActionSlots, SlotsCooldown); err != nil {
		return nil, err
	}

	now := time.Now()
	symbols := spinSlots(s.rng)
	multiplier := slotsMultiplier(symbols)
	payout := multiplier * bet

	// Bet is escrowed; gain multiplier applies only to net positive results
	net := payout - bet
	if net > 0 {
		net *= effectiveMultiplier(account, now)
	}

	balanceBefore := account.Balance
	applyDelta(account, net)

	transactionType := models.TransactionTypeSlotsLoss
	if net > 0 {
		account.Wins++
		transactionType = models.TransactionTypeSlotsWin
	} else {
		account.Losses++
	}

	if err := uow.AccountRepository().Save(ctx, account); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to save account: %w", err))
	}

	record := &models.TransactionRecord{
		GuildID:         guildID,
		UserID:          userID,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    account.Balance,
		ChangeAmount:    net,
		TransactionType: transactionType,
		Metadata: map[string]any{
			"symbols":    symbols[:],
			"bet":        bet,
			"multiplier": multiplier,
			"payout":     payout,
		},
	}
	if err := recordBalanceChange(ctx, uow, record); err != nil {
		return nil, persistenceErr(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	return &models.SlotsResult{
		Symbols:    symbols,
		Bet:        bet,
		Multiplier: multiplier,
		Payout:     payout,
		Net:        net,
		NewBalance: account.Balance,
	}, nil
}

func (s *gameService) PlayFlip(ctx context.Context, guildID, userID int64, bet int64, choice string) (*models.FlipResult, error) {
	if bet < MinFlipBet {
		return nil, NewValidationError("minimum bet is %d aura", MinFlipBet)
	}

	choice, err := normalizeCoinSide(choice)
	if err != nil {
		return nil, err
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
	if account.Balance < bet {
		return nil, &InsufficientFundsError{Balance: account.Balance, Required: bet}
	}

	if err := checkCooldown(ctx, uow, userID, ActionFlip, FlipCooldown); err != nil {
		return nil, err
	}

	now := time.Now()
	side := flipCoin(s.rng)
	won := side == choice

	// A match pays 2x the escrowed bet, so the net gain is the bet itself
	var net int64
	transactionType := models.TransactionTypeFlipLoss
	if won {
		net = bet * effectiveMultiplier(account, now)
		account.Wins++
		transactionType = models.TransactionTypeFlipWin
	} else {
		net = -bet
		account.Losses++
	}

	balanceBefore := account.Balance
	applyDelta(account, net)

	if err := uow.AccountRepository().Save(ctx, account); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to save account: %w", err))
	}

	record := &models.TransactionRecord{
		GuildID:         guildID,
		UserID:          userID,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    account.Balance,
		ChangeAmount:    net,
		TransactionType: transactionType,
		Metadata: map[string]any{
			"choice": choice,
			"side":   side,
			"bet":    bet,
		},
	}
	if err := recordBalanceChange(ctx, uow, record); err != nil {
		return nil, persistenceErr(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	return &models.FlipResult{
		Choice:     choice,
		Side:       side,
		Won:        won,
		Bet:        bet,
		Net:        net,
		NewBalance: account.Balance,
	}, nil
}

func (s *gameService) PlayRoll(ctx context.Context, guildID, userID int64, bet int64, target int) (*models.RollResult, error) {
	if bet < MinRollBet {
		return nil, NewValidationError("minimum bet is %d aura", MinRollBet)
	}
	if target < 1 || target > DieSides {
		return nil, NewValidationError("target must be between 1 and %d", DieSides)
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
	if account.Balance < bet {
		return nil, &InsufficientFundsError{Balance: account.Balance, Required: bet}
	}

	if err := checkCooldown(ctx, uow, userID, ActionRoll, RollCooldown); err != nil {
		return nil, err
	}

	now := time.Now()
	roll := rollDie(s.rng)
	payout, exact, close := rollPayout(roll, target, bet)

	net := payout - bet
	if net > 0 {
		net *= effectiveMultiplier(account, now)
	}

	balanceBefore := account.Balance
	applyDelta(account, net)

	// A near miss counts as neither a win nor a loss
	var transactionType models.TransactionType
	switch {
	case exact:
		account.Wins++
		transactionType = models.TransactionTypeRollWin
	case close:
		transactionType = models.TransactionTypeRollClose
	default:
		account.Losses++
		transactionType = models.TransactionTypeRollLoss
	}

	if err := uow.AccountRepository().Save(ctx, account); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to save account: %w", err))
	}

	record := &models.TransactionRecord{
		GuildID:         guildID,
		UserID:          userID,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    account.Balance,
		ChangeAmount:    net,
		TransactionType: transactionType,
		Metadata: map[string]any{
			"roll":   roll,
			"target": target,
			"bet":    bet,
		},
	}
	if err := recordBalanceChange(ctx, uow, record); err != nil {
		return nil, persistenceErr(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	return &models.RollResult{
		Target:     target,
		Roll:       roll,
		Exact:      exact,
		Close:      close,
		Bet:        bet,
		Net:        net,
		NewBalance: account.Balance,
	}, nil
}

func (s *gameService) ClaimDaily(ctx context.Context, guildID, userID int64) (*models.DailyReward, error) {
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

	now := time.Now()
	if account.LastDailyClaim != nil {
		elapsed := now.Sub(*account.LastDailyClaim)
		if elapsed < DailyWindow {
			return nil, &CooldownError{Action: "daily", Remaining: DailyWindow - elapsed}
		}
	}

	amount, bonusApplied, bonus := dailyReward(s.rng)
	amount *= effectiveMultiplier(account, now)

	balanceBefore := account.Balance
	applyDelta(account, amount)
	account.LastDailyClaim = &now

	if err := uow.AccountRepository().Save(ctx, account); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to save account: %w", err))
	}

	record := &models.TransactionRecord{
		GuildID:         guildID,
		UserID:          userID,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    account.Balance,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeDaily,
		Metadata: map[string]any{
			"cosmic_bonus_applied": bonusApplied,
			"cosmic_bonus":         bonus,
		},
	}
	if err := recordBalanceChange(ctx, uow, record); err != nil {
		return nil, persistenceErr(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, persistenceErr(fmt.Errorf("failed to commit transaction: %w", err))
	}

	return &models.DailyReward{
		Amount:             amount,
		CosmicBonusApplied: bonusApplied,
		CosmicBonus:        bonus,
		NewBalance:         account.Balance,
		NextClaimAt:        now.Add(DailyWindow),
	}, nil
}

// normalizeCoinSide accepts heads/tails and their single-letter shorthands
func normalizeCoinSide(choice string) (string, error) {
	switch choice {
	case SideHeads, "h":
		return SideHeads, nil
	case SideTails, "t":
		return SideTails, nil
	default:
		return "", NewValidationError("choose %q or %q", SideHeads, SideTails)
	}
}
