package models

import (
	"time"
)

// EffectKind identifies a time-limited account modifier
type EffectKind string

const (
	EffectShield     EffectKind = "shield"
	EffectMultiplier EffectKind = "multiplier"
)

// Effect is an active modifier on an account
type Effect struct {
	Kind      EffectKind
	ExpiresAt time.Time
}

// Remaining returns how long the effect has left at the given instant
func (e Effect) Remaining(now time.Time) time.Duration {
	return e.ExpiresAt.Sub(now)
}

// Active reports whether the effect is still live at the given instant.
// An effect expiring exactly at now is inactive.
func (e Effect) Active(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// ShopItem describes a purchasable item
type ShopItem struct {
	ID          string
	Name        string
	Cost        int64
	Description string
	Duration    time.Duration // zero for consumables
}

// Shop catalog. Prices and durations match the live economy.
var ShopItems = map[string]ShopItem{
	"shield": {
		ID:          "shield",
		Name:        "Aura Shield",
		Cost:        1000,
		Description: "Protects against 50% drain damage for 24 hours",
		Duration:    24 * time.Hour,
	},
	"multiplier": {
		ID:          "multiplier",
		Name:        "Aura Multiplier",
		Cost:        2500,
		Description: "2x aura gains for 12 hours",
		Duration:    12 * time.Hour,
	},
	"bomb": {
		ID:          "bomb",
		Name:        "Aura Bomb",
		Cost:        5000,
		Description: "Instantly deal 2000 damage to target (ignores shields)",
	},
}
