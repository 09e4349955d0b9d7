package models

import (
	"time"
)

// Profile is the dispatcher-facing view of an account
type Profile struct {
	UserID        int64
	GuildID       int64
	Balance       int64
	Title         string
	Stats         AccountStats
	ActiveEffects []Effect
}

// SlotsResult is the outcome of a slot machine spin
type SlotsResult struct {
	Symbols    [3]string
	Bet        int64
	Multiplier int64
	Payout     int64 // multiplier * bet, before the escrowed bet is netted out
	Net        int64 // payout - bet, after any active gain multiplier
	NewBalance int64
}

// FlipResult is the outcome of a coin flip
type FlipResult struct {
	Choice     string
	Side       string
	Won        bool
	Bet        int64
	Net        int64
	NewBalance int64
}

// RollResult is the outcome of a dice roll
type RollResult struct {
	Target     int
	Roll       int
	Exact      bool
	Close      bool
	Bet        int64
	Net        int64
	NewBalance int64
}

// DailyReward is the outcome of a daily claim
type DailyReward struct {
	Amount             int64
	CosmicBonusApplied bool
	CosmicBonus        int64
	NewBalance         int64
	NextClaimAt        time.Time
}

// DonationReceipt records a completed donation
type DonationReceipt struct {
	FromUserID       int64
	ToUserID         int64
	Amount           int64
	SenderNewBalance int64
}

// DrainResult is the outcome of a drain attempt
type DrainResult struct {
	Success            bool
	Amount             int64 // drained on success, backfire loss on failure
	TargetShielded     bool
	AttackerNewBalance int64
	TargetNewBalance   int64
}

// PurchaseReceipt records a shop purchase
type PurchaseReceipt struct {
	Item       ShopItem
	NewBalance int64
	// ExpiresAt is set for timed effects, nil for consumables
	ExpiresAt *time.Time
}

// BombResult is the outcome of using a bomb on a target
type BombResult struct {
	Damage           int64
	TargetNewBalance int64
	BombsRemaining   int
}

// AdminOp is an administrative balance operation
type AdminOp string

const (
	AdminOpAdd    AdminOp = "add"
	AdminOpRemove AdminOp = "remove"
	AdminOpSet    AdminOp = "set"
)

// AdminReceipt records an administrative balance adjustment
type AdminReceipt struct {
	ActorID         int64
	TargetID        int64
	Op              AdminOp
	PreviousBalance int64
	NewBalance      int64
	Delta           int64
}

// LeaderboardEntry is one row of the guild leaderboard
type LeaderboardEntry struct {
	Rank    int
	UserID  int64
	Balance int64
	Title   string
}
