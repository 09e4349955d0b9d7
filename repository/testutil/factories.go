package testutil

import (
	"time"

	"aura/models"
)

// CreateTestRecord builds a ledger record for repository tests
func CreateTestRecord(guildID, userID int64, before, after int64, txType models.TransactionType) *models.TransactionRecord {
	return &models.TransactionRecord{
		GuildID:         guildID,
		UserID:          userID,
		BalanceBefore:   before,
		BalanceAfter:    after,
		ChangeAmount:    after - before,
		TransactionType: txType,
	}
}

// FutureTime returns a pointer to a timestamp the given duration from now
func FutureTime(d time.Duration) *time.Time {
	t := time.Now().Add(d).UTC()
	return &t
}
