package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"

	"aura/config"
	"aura/database"
	"aura/events"
	"aura/repository"
	"aura/service"
)

// Services bundles every engine service. A command dispatcher embeds this
// to route chat commands onto the engine.
type Services struct {
	Account     service.AccountService
	Game        service.GameService
	Transfer    service.TransferService
	Shop        service.ShopService
	Admin       service.AdminService
	Leaderboard service.LeaderboardService
}

// engine holds the service stack built by Run so a dispatcher started
// alongside the engine can attach to it.
var engine *Services

// Engine returns the running service stack, or nil before Run builds it
func Engine() *Services {
	return engine
}

// BuildServices wires the full service stack on top of a database connection
func BuildServices(db *database.DB, eventBus *events.Bus) *Services {
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
	rng := service.NewRand(time.Now().UnixNano())

	return &Services{
		Account:     service.NewAccountService(uowFactory),
		Game:        service.NewGameService(uowFactory, rng),
		Transfer:    service.NewTransferService(uowFactory, rng),
		Shop:        service.NewShopService(uowFactory),
		Admin:       service.NewAdminService(uowFactory),
		Leaderboard: service.NewLeaderboardService(uowFactory),
	}
}

// Run initializes and starts the engine
func Run(ctx context.Context) error {
	log.Println("Starting aura engine...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	log.Println("Initializing event bus...")
	eventBus := events.NewBus()

	// Audit log for every committed balance change
	eventBus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		change := event.(events.BalanceChangeEvent)
		logrus.WithFields(logrus.Fields{
			"guildID":         change.GuildID,
			"userID":          change.UserID,
			"transactionType": change.TransactionType,
			"changeAmount":    change.ChangeAmount,
			"newBalance":      change.NewBalance,
		}).Debug("Balance changed")
	})

	// Initialize services
	log.Println("Initializing services...")
	engine = BuildServices(db, eventBus)
	log.Println("Services initialized successfully")

	// Start the background effect sweeper
	sweeper := service.NewEffectSweeper(repository.NewAccountRepository(db), cfg.EffectSweepInterval)
	go sweeper.Run(ctx)

	// Wait for context cancellation
	log.Printf("Engine is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down engine...")

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
