package models

// TitleTier is one rung of the title ladder
type TitleTier struct {
	Threshold int64
	Title     string
}

// titleLadder maps balance thresholds to titles, descending. A title applies
// to any balance at or above its threshold, so resolution walks top-down and
// returns the first tier not exceeding the balance.
var titleLadder = []TitleTier{
	{1000000, "Aura God"},
	{500000, "Aura Overlord"},
	{100000, "Aura Master"},
	{50000, "Aura Legend"},
	{25000, "Aura Virtuoso"},
	{10000, "Aura Expert"},
	{5000, "Aura Adept"},
	{2500, "Aura Scholar"},
	{1000, "Aura Apprentice"},
	{500, "Aura Novice"},
	{100, "Aura Initiate"},
	{0, "Aura Seeker"},
	{-500, "Aura Deficit"},
	{-1000, "Aura Debtor"},
	{-5000, "Aura Thief"},
	{-10000, "Aura Void"},
	{-25000, "Aura Banished"},
}

// TitleForBalance resolves the rank title for a balance. Thresholds are
// inclusive lower bounds; anything below the lowest tier stays Aura Banished.
func TitleForBalance(balance int64) string {
	for _, tier := range titleLadder {
		if balance >= tier.Threshold {
			return tier.Title
		}
	}
	return titleLadder[len(titleLadder)-1].Title
}

// TitleTiers returns a copy of the ladder in descending threshold order
func TitleTiers() []TitleTier {
	tiers := make([]TitleTier, len(titleLadder))
	copy(tiers, titleLadder)
	return tiers
}
