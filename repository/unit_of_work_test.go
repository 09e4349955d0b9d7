package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/events"
	"aura/repository/testutil"
)

func TestUnitOfWork_CommitPersists(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	uow := factory.CreateForGuild(testGuildID)
	require.NoError(t, uow.Begin(ctx))

	account, err := uow.AccountRepository().Create(ctx, 100, 100)
	require.NoError(t, err)
	account.Balance = 5000
	require.NoError(t, uow.AccountRepository().Save(ctx, account))
	require.NoError(t, uow.Commit())

	// Visible outside the transaction
	check := newAccountRepositoryWithTx(testDB.DB.Pool, testGuildID)
	loaded, err := check.Get(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, int64(5000), loaded.Balance)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	uow := factory.CreateForGuild(testGuildID)
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.AccountRepository().Create(ctx, 200, 100)
	require.NoError(t, err)
	require.NoError(t, uow.Rollback())

	check := newAccountRepositoryWithTx(testDB.DB.Pool, testGuildID)
	loaded, err := check.Get(ctx, 200)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestUnitOfWork_RollbackAfterCommitIsNoop(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	uow := factory.CreateForGuild(testGuildID)
	require.NoError(t, uow.Begin(ctx))
	_, err := uow.AccountRepository().Create(ctx, 300, 100)
	require.NoError(t, err)
	require.NoError(t, uow.Commit())

	// The deferred rollback pattern must not undo a committed transaction
	require.NoError(t, uow.Rollback())

	check := newAccountRepositoryWithTx(testDB.DB.Pool, testGuildID)
	loaded, err := check.Get(ctx, 300)
	require.NoError(t, err)
	assert.NotNil(t, loaded)
}

func TestUnitOfWork_EventsFlushOnCommitOnly(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		received <- event
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	// Rolled back: the staged event never reaches the bus
	uow := factory.CreateForGuild(testGuildID)
	require.NoError(t, uow.Begin(ctx))
	uow.EventBus().Publish(events.BalanceChangeEvent{UserID: 1, GuildID: testGuildID, ChangeAmount: -100})
	require.NoError(t, uow.Rollback())

	select {
	case <-received:
		t.Fatal("event leaked from a rolled back unit of work")
	case <-time.After(200 * time.Millisecond):
	}

	// Committed: the event is delivered
	uow = factory.CreateForGuild(testGuildID)
	require.NoError(t, uow.Begin(ctx))
	uow.EventBus().Publish(events.BalanceChangeEvent{UserID: 1, GuildID: testGuildID, ChangeAmount: 100})
	require.NoError(t, uow.Commit())

	select {
	case event := <-received:
		change := event.(events.BalanceChangeEvent)
		assert.Equal(t, int64(100), change.ChangeAmount)
	case <-time.After(2 * time.Second):
		t.Fatal("expected event after commit")
	}
}

func TestUnitOfWork_GetterPanicsBeforeBegin(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	uow := factory.CreateForGuild(testGuildID)

	assert.Panics(t, func() { uow.AccountRepository() })
}
