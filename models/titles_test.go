package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleForBalance(t *testing.T) {
	tests := []struct {
		balance int64
		title   string
	}{
		{2000000, "Aura God"},
		{1000000, "Aura God"},
		{999999, "Aura Overlord"},
		{100000, "Aura Master"},
		{99999, "Aura Legend"},
		{100, "Aura Initiate"},
		{99, "Aura Seeker"},
		{0, "Aura Seeker"},
		{-1, "Aura Deficit"},
		{-500, "Aura Deficit"},
		{-501, "Aura Debtor"},
		{-2000, "Aura Thief"},
		{-25000, "Aura Banished"},
		{-1000000, "Aura Banished"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.title, TitleForBalance(tt.balance), "balance %d", tt.balance)
	}
}

func TestTitleBoundariesAreInclusive(t *testing.T) {
	// Every threshold maps to its own title, one below maps to the next tier
	tiers := TitleTiers()
	for i, tier := range tiers {
		assert.Equal(t, tier.Title, TitleForBalance(tier.Threshold))
		if i < len(tiers)-1 {
			assert.Equal(t, tiers[i+1].Title, TitleForBalance(tier.Threshold-1))
		}
	}
}

func TestTitleTiersDescending(t *testing.T) {
	tiers := TitleTiers()
	for i := 1; i < len(tiers); i++ {
		assert.Greater(t, tiers[i-1].Threshold, tiers[i].Threshold)
	}
}
