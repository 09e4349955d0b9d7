package models

import (
	"time"
)

// Account represents a user's aura balance within a guild
type Account struct {
	UserID  int64 `db:"user_id"`
	GuildID int64 `db:"guild_id"`
	Balance int64 `db:"balance"`

	// Stats
	Wins        int64 `db:"wins"`
	Losses      int64 `db:"losses"`
	TotalGained int64 `db:"total_gained"`
	TotalLost   int64 `db:"total_lost"`
	BiggestWin  int64 `db:"biggest_win"`
	BiggestLoss int64 `db:"biggest_loss"`

	// Effect slots - at most one active instance per kind
	ShieldExpiresAt     *time.Time `db:"shield_expires_at"`
	MultiplierExpiresAt *time.Time `db:"multiplier_expires_at"`

	// Consumable inventory (bombs)
	Items []string `db:"items"`

	LastDailyClaim *time.Time `db:"last_daily_claim"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// AccountStats is the stats view exposed on a profile
type AccountStats struct {
	Wins        int64
	Losses      int64
	TotalGained int64
	TotalLost   int64
	BiggestWin  int64
	BiggestLoss int64
}

// Stats returns the account's stats as a standalone value
func (a *Account) Stats() AccountStats {
	return AccountStats{
		Wins:        a.Wins,
		Losses:      a.Losses,
		TotalGained: a.TotalGained,
		TotalLost:   a.TotalLost,
		BiggestWin:  a.BiggestWin,
		BiggestLoss: a.BiggestLoss,
	}
}

// CountItem returns how many copies of the given item the account holds
func (a *Account) CountItem(item string) int {
	count := 0
	for _, it := range a.Items {
		if it == item {
			count++
		}
	}
	return count
}

// RemoveItem removes one copy of the given item from the inventory.
// Returns false if the account holds none.
func (a *Account) RemoveItem(item string) bool {
	for i, it := range a.Items {
		if it == item {
			a.Items = append(a.Items[:i], a.Items[i+1:]...)
			return true
		}
	}
	return false
}
