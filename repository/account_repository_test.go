package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/repository/testutil"
)

const testGuildID int64 = 5000

func TestAccountRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := newAccountRepositoryWithTx(testDB.DB.Pool, testGuildID)

	t.Run("absent account is nil", func(t *testing.T) {
		account, err := repo.Get(ctx, 111)
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("create and read back", func(t *testing.T) {
		created, err := repo.Create(ctx, 111, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(111), created.UserID)
		assert.Equal(t, testGuildID, created.GuildID)
		assert.Equal(t, int64(100), created.Balance)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Nil(t, created.ShieldExpiresAt)
		assert.Nil(t, created.LastDailyClaim)
		assert.Empty(t, created.Items)

		account, err := repo.Get(ctx, 111)
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, int64(100), account.Balance)
	})

	t.Run("conflicting create returns nil and keeps the row", func(t *testing.T) {
		account, err := repo.Create(ctx, 111, 9999)
		require.NoError(t, err)
		assert.Nil(t, account)

		loaded, err := repo.Get(ctx, 111)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, int64(100), loaded.Balance)
	})

	t.Run("guild isolation", func(t *testing.T) {
		otherGuild := newAccountRepositoryWithTx(testDB.DB.Pool, testGuildID+1)
		account, err := otherGuild.Get(ctx, 111)
		require.NoError(t, err)
		assert.Nil(t, account)
	})
}

func TestAccountRepository_GetForUpdate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	setup := newAccountRepositoryWithTx(testDB.DB.Pool, testGuildID)
	_, err := setup.Create(ctx, 555, 100)
	require.NoError(t, err)

	t.Run("locked update persists on commit", func(t *testing.T) {
		err := testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
			repo := newAccountRepositoryWithTx(tx, testGuildID)
			account, err := repo.GetForUpdate(ctx, 555)
			if err != nil {
				return err
			}
			account.Balance += 900
			return repo.Save(ctx, account)
		})
		require.NoError(t, err)

		loaded, err := setup.Get(ctx, 555)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), loaded.Balance)
	})

	t.Run("failed transaction rolls the update back", func(t *testing.T) {
		err := testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
			repo := newAccountRepositoryWithTx(tx, testGuildID)
			account, err := repo.GetForUpdate(ctx, 555)
			if err != nil {
				return err
			}
			account.Balance = 0
			if err := repo.Save(ctx, account); err != nil {
				return err
			}
			return assert.AnError
		})
		require.Error(t, err)

		loaded, err := setup.Get(ctx, 555)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), loaded.Balance)
	})

	t.Run("absent account is nil", func(t *testing.T) {
		err := testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
			repo := newAccountRepositoryWithTx(tx, testGuildID)
			account, err := repo.GetForUpdate(ctx, 556)
			if err != nil {
				return err
			}
			assert.Nil(t, account)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestAccountRepository_Save(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := newAccountRepositoryWithTx(testDB.DB.Pool, testGuildID)

	account, err := repo.Create(ctx, 222, 100)
	require.NoError(t, err)

	shieldExpiry := testutil.FutureTime(24 * time.Hour)
	claimedAt := time.Now().UTC()

	account.Balance = 4200
	account.Wins = 3
	account.Losses = 1
	account.TotalGained = 5000
	account.TotalLost = 900
	account.BiggestWin = 2500
	account.BiggestLoss = 600
	account.ShieldExpiresAt = shieldExpiry
	account.Items = []string{"bomb", "bomb"}
	account.LastDailyClaim = &claimedAt

	require.NoError(t, repo.Save(ctx, account))

	loaded, err := repo.Get(ctx, 222)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, int64(4200), loaded.Balance)
	assert.Equal(t, int64(3), loaded.Wins)
	assert.Equal(t, int64(2500), loaded.BiggestWin)
	assert.Equal(t, []string{"bomb", "bomb"}, loaded.Items)
	require.NotNil(t, loaded.ShieldExpiresAt)
	assert.WithinDuration(t, *shieldExpiry, *loaded.ShieldExpiresAt, time.Second)
	require.NotNil(t, loaded.LastDailyClaim)
	assert.WithinDuration(t, claimedAt, *loaded.LastDailyClaim, time.Second)
}

func TestAccountRepository_SaveMissingAccount(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := newAccountRepositoryWithTx(testDB.DB.Pool, testGuildID)

	account, err := repo.Create(ctx, 333, 100)
	require.NoError(t, err)

	account.UserID = 999 // never created
	err = repo.Save(ctx, account)
	assert.Error(t, err)
}

func TestAccountRepository_Reset(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := newAccountRepositoryWithTx(testDB.DB.Pool, testGuildID)

	account, err := repo.Create(ctx, 444, 100)
	require.NoError(t, err)

	account.Balance = 99999
	account.Wins = 12
	account.Items = []string{"bomb"}
	account.ShieldExpiresAt = testutil.FutureTime(time.Hour)
	require.NoError(t, repo.Save(ctx, account))

	fresh, err := repo.Reset(ctx, 444, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), fresh.Balance)
	assert.Zero(t, fresh.Wins)
	assert.Empty(t, fresh.Items)
	assert.Nil(t, fresh.ShieldExpiresAt)
	assert.Nil(t, fresh.LastDailyClaim)
}

func TestAccountRepository_TopByBalance(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := newAccountRepositoryWithTx(testDB.DB.Pool, testGuildID)

	balances := map[int64]int64{
		1: 500,
		2: 9000,
		3: 500,
		4: -200,
	}
	for userID, balance := range balances {
		account, err := repo.Create(ctx, userID, 100)
		require.NoError(t, err)
		account.Balance = balance
		require.NoError(t, repo.Save(ctx, account))
	}

	// Different guild, must not appear
	other := newAccountRepositoryWithTx(testDB.DB.Pool, testGuildID+1)
	_, err := other.Create(ctx, 5, 1000000)
	require.NoError(t, err)

	top, err := repo.TopByBalance(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)

	assert.Equal(t, int64(2), top[0].UserID)
	// Ties broken by ascending user id
	assert.Equal(t, int64(1), top[1].UserID)
	assert.Equal(t, int64(3), top[2].UserID)
}

func TestAccountRepository_PurgeExpiredEffects(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := newAccountRepositoryWithTx(testDB.DB.Pool, testGuildID)

	expired, err := repo.Create(ctx, 10, 100)
	require.NoError(t, err)
	expired.ShieldExpiresAt = testutil.FutureTime(-time.Hour)
	expired.MultiplierExpiresAt = testutil.FutureTime(time.Hour)
	require.NoError(t, repo.Save(ctx, expired))

	live, err := repo.Create(ctx, 11, 100)
	require.NoError(t, err)
	live.ShieldExpiresAt = testutil.FutureTime(time.Hour)
	require.NoError(t, repo.Save(ctx, live))

	sweeper := NewAccountRepository(testDB.DB)
	purged, err := sweeper.PurgeExpiredEffects(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	// Expired slot cleared, live slots untouched
	loaded, err := repo.Get(ctx, 10)
	require.NoError(t, err)
	assert.Nil(t, loaded.ShieldExpiresAt)
	assert.NotNil(t, loaded.MultiplierExpiresAt)

	loaded, err = repo.Get(ctx, 11)
	require.NoError(t, err)
	assert.NotNil(t, loaded.ShieldExpiresAt)
}
