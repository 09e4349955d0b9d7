package service

import (
	"time"

	"aura/models"
)

// Shield and multiplier durations granted on purchase
const (
	ShieldDuration     = 24 * time.Hour
	MultiplierDuration = 12 * time.Hour
)

// Drain modifiers while the target holds an active shield: the attacker's
// success rate is multiplied by 0.3 and the drained amount by 0.5.
const (
	shieldSuccessFactor = 0.3
	shieldDamageFactor  = 0.5
)

// effectActive reports whether an expiry slot is live at the given instant.
// A slot expiring exactly at now is treated as absent, purged or not.
func effectActive(expiresAt *time.Time, now time.Time) bool {
	return expiresAt != nil && now.Before(*expiresAt)
}

// shieldActive reports whether the account's shield is live
func shieldActive(a *models.Account, now time.Time) bool {
	return effectActive(a.ShieldExpiresAt, now)
}

// multiplierActive reports whether the account's gain multiplier is live
func multiplierActive(a *models.Account, now time.Time) bool {
	return effectActive(a.MultiplierExpiresAt, now)
}

// applyEffect sets an effect's expiry slot. Re-applying an already-active
// kind overwrites the expiry rather than stacking.
func applyEffect(a *models.Account, kind models.EffectKind, duration time.Duration, now time.Time) {
	expires := now.Add(duration)
	switch kind {
	case models.EffectShield:
		a.ShieldExpiresAt = &expires
	case models.EffectMultiplier:
		a.MultiplierExpiresAt = &expires
	}
}

// effectiveMultiplier returns the factor applied to net positive gains:
// 2 while a multiplier effect is active, otherwise 1.
func effectiveMultiplier(a *models.Account, now time.Time) int64 {
	if multiplierActive(a, now) {
		return 2
	}
	return 1
}

// drainModifiers returns the success-rate and damage factors a drain
// attempt against this account is subject to.
func drainModifiers(a *models.Account, now time.Time) (successFactor, damageFactor float64) {
	if shieldActive(a, now) {
		return shieldSuccessFactor, shieldDamageFactor
	}
	return 1.0, 1.0
}

// activeEffects lists the account's unexpired effects for display
func activeEffects(a *models.Account, now time.Time) []models.Effect {
	var effects []models.Effect
	if shieldActive(a, now) {
		effects = append(effects, models.Effect{Kind: models.EffectShield, ExpiresAt: *a.ShieldExpiresAt})
	}
	if multiplierActive(a, now) {
		effects = append(effects, models.Effect{Kind: models.EffectMultiplier, ExpiresAt: *a.MultiplierExpiresAt})
	}
	return effects
}
