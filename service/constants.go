package service

import "time"

// InitialBalance is the aura every account starts with
const InitialBalance int64 = 100

// Cooldown-gated action names
const (
	ActionSlots = "slots"
	ActionFlip  = "flip"
	ActionRoll  = "roll"
	ActionDrain = "drain"
)

// Cooldown windows per action. The daily claim has its own window tracked
// on the account rather than the cooldown ledger.
const (
	SlotsCooldown = 30 * time.Second
	FlipCooldown  = 15 * time.Second
	RollCooldown  = 20 * time.Second
	DrainCooldown = 5 * time.Minute
	DailyWindow   = 20 * time.Hour
)

// Minimum bets and transfer amounts
const (
	MinSlotsBet = 10
	MinFlipBet  = 5
	MinRollBet  = 10
	MinDonation = 10
)

// Administrative bounds. Add/remove are capped per call; set clamps the
// absolute balance into [AdminSetMin, AdminSetMax].
const (
	AdminAdjustCap int64 = 1_000_000
	AdminSetMin    int64 = -1_000_000
	AdminSetMax    int64 = 10_000_000
)

// Daily reward parameters
const (
	DailyBaseMin   = 50
	DailyBaseMax   = 150
	DailyStreakMax = 50
)

// Bomb damage, applied regardless of shields
const BombDamage int64 = 2000
