// Standalone probability analysis tool for the drain mechanic.
// This simulates the exact success-rate and amount logic used in
// transfer_service.go so curve changes can be sanity-checked offline.
package main

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	baseRate  = 0.30
	rateSlope = 0.2 / 10000
	rateMin   = 0.10
	rateMax   = 0.70

	amountCap   = 500
	backfireMin = 100
	backfireMax = 300
)

func successRate(attackerBalance, targetBalance int64) float64 {
	rate := baseRate + float64(attackerBalance-targetBalance)*rateSlope
	if rate < rateMin {
		return rateMin
	}
	if rate > rateMax {
		return rateMax
	}
	return rate
}

func drainAmount(r *rand.Rand, targetBalance int64) int64 {
	limit := targetBalance / 4
	if limit > amountCap {
		limit = amountCap
	}
	if limit < 1 {
		return 0
	}
	lo := limit / 3
	return lo + r.Int63n(limit-lo+1)
}

func main() {
	fmt.Println("=== Drain Probability Analysis ===")
	fmt.Println()

	// Success rate across the balance gap
	fmt.Println("Success rate by balance gap (attacker - target):")
	gaps := []int64{-50000, -20000, -10000, -5000, 0, 5000, 10000, 20000, 50000}
	for _, gap := range gaps {
		fmt.Printf("  gap %+7d: %.1f%%\n", gap, successRate(gap, 0)*100)
	}

	// Expected value per attempt at representative matchups
	fmt.Println()
	fmt.Println("Expected value per attempt (no shield):")
	r := rand.New(rand.NewSource(42))
	matchups := []struct {
		attacker, target int64
	}{
		{100, 100},
		{100, 10000},
		{10000, 100},
		{5000, 5000},
		{50000, 2000},
	}
	for _, m := range matchups {
		analyzeMatchup(r, m.attacker, m.target, 100000)
	}
}

// analyzeMatchup simulates many attempts and reports the empirical win
// rate and expected value against the analytic rate
func analyzeMatchup(r *rand.Rand, attacker, target int64, trials int) {
	rate := successRate(attacker, target)

	wins := 0
	var net int64
	for i := 0; i < trials; i++ {
		if r.Float64() < rate {
			wins++
			net += drainAmount(r, target)
		} else {
			net -= backfireMin + r.Int63n(backfireMax-backfireMin+1)
		}
	}

	actual := float64(wins) / float64(trials)
	deviation := math.Abs(actual - rate)
	ev := float64(net) / float64(trials)

	fmt.Printf("  attacker %6d vs target %6d | rate %.1f%% | observed %.1f%% (dev %.2f%%) | EV %+.1f aura/attempt\n",
		attacker, target, rate*100, actual*100, deviation*100, ev)
}
