package service

// Pure game logic: every function here is deterministic given the Rand
// draws, with no account state involved.

// SlotSymbols is the slot machine alphabet. Three specific triples pay
// fixed jackpot tiers; any other triple and any double pay flat tiers.
var SlotSymbols = []string{"🔥", "⚡", "💎", "🌟", "👑", "🎯", "🚀", "💀", "🌙", "☄️"}

// Jackpot triples, by symbol
const (
	slotsJackpotSymbol = "💎" // 50x
	slotsMegaSymbol    = "👑" // 25x
	slotsBigSymbol     = "🔥" // 10x
)

// spinSlots draws three symbols independently and uniformly
func spinSlots(r Rand) [3]string {
	var symbols [3]string
	for i := range symbols {
		symbols[i] = SlotSymbols[r.Intn(len(SlotSymbols))]
	}
	return symbols
}

// slotsMultiplier returns the payout multiplier for a combination.
// The multiplier applies to the bet; the net result is payout minus the
// escrowed bet, so a zero multiplier loses the bet.
func slotsMultiplier(symbols [3]string) int64 {
	if symbols[0] == symbols[1] && symbols[1] == symbols[2] {
		switch symbols[0] {
		case slotsJackpotSymbol:
			return 50
		case slotsMegaSymbol:
			return 25
		case slotsBigSymbol:
			return 10
		default:
			return 5
		}
	}
	if symbols[0] == symbols[1] || symbols[1] == symbols[2] || symbols[0] == symbols[2] {
		return 2
	}
	return 0
}

// Coin sides
const (
	SideHeads = "heads"
	SideTails = "tails"
)

// flipCoin draws a uniform coin side
func flipCoin(r Rand) string {
	if r.Intn(2) == 0 {
		return SideHeads
	}
	return SideTails
}

// Die range and the distance counted as a near miss
const (
	DieSides      = 6
	rollTolerance = 1
)

// rollDie draws a uniform die face in [1, DieSides]
func rollDie(r Rand) int {
	return r.Intn(DieSides) + 1
}

// rollPayout returns the payout multiplier numerator/denominator for a
// roll against a target: exact match pays 5x the bet, a near miss refunds
// half the bet, anything else pays nothing.
func rollPayout(roll, target int, bet int64) (payout int64, exact, close bool) {
	distance := roll - target
	if distance < 0 {
		distance = -distance
	}
	switch {
	case distance == 0:
		return bet * 5, true, false
	case distance <= rollTolerance:
		return bet / 2, false, true
	default:
		return 0, false, false
	}
}

// Drain success-rate curve: a 30% base adjusted by the balance gap between
// attacker and target, 2 percentage points per 1000 aura of difference,
// clamped to [10%, 70%]. Monotonic in (attacker - target).
const (
	drainBaseRate  = 0.30
	drainRateSlope = 0.2 / 10000
	drainRateMin   = 0.10
	drainRateMax   = 0.70
)

// drainSuccessRate returns the unshielded success probability for a drain
func drainSuccessRate(attackerBalance, targetBalance int64) float64 {
	rate := drainBaseRate + float64(attackerBalance-targetBalance)*drainRateSlope
	if rate < drainRateMin {
		return drainRateMin
	}
	if rate > drainRateMax {
		return drainRateMax
	}
	return rate
}

// Drain amount bounds: at most a quarter of the target's balance, capped
// at 500 per attempt
const drainAmountCap int64 = 500

// drainAmount draws the amount taken on a successful drain, before any
// shield damage reduction
func drainAmount(r Rand, targetBalance int64) int64 {
	limit := targetBalance / 4
	if limit > drainAmountCap {
		limit = drainAmountCap
	}
	if limit < 1 {
		return 0
	}
	return randBetween(r, limit/3, limit)
}

// Backfire bounds on a failed drain
const (
	backfireMin int64 = 100
	backfireMax int64 = 300
)

// backfireAmount draws the attacker's loss on a failed drain
func backfireAmount(r Rand) int64 {
	return randBetween(r, backfireMin, backfireMax)
}

// Daily bonus events, evaluated in order; the first hit applies.
var dailyBonusEvents = []struct {
	Chance float64
	Bonus  int64
}{
	{0.05, 500},
	{0.10, 200},
	{0.15, 100},
}

// dailyReward draws the daily claim amount: a base roll plus a streak roll,
// plus at most one bonus event.
func dailyReward(r Rand) (total int64, bonusApplied bool, bonus int64) {
	total = randBetween(r, DailyBaseMin, DailyBaseMax)
	total += randBetween(r, 0, DailyStreakMax)

	for _, event := range dailyBonusEvents {
		if r.Float64() < event.Chance {
			total += event.Bonus
			return total, true, event.Bonus
		}
	}
	return total, false, 0
}
