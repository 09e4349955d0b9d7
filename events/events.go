package events

import (
	"context"
	"sync"

	"aura/models"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeAccountCreated EventType = "account_created"
	EventTypeEffectApplied  EventType = "effect_applied"
	EventTypeDrainAttempted EventType = "drain_attempted"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64
	GuildID         int64
	OldBalance      int64
	NewBalance      int64
	TransactionType models.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a new account creation
type AccountCreatedEvent struct {
	UserID         int64
	GuildID        int64
	InitialBalance int64
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// EffectAppliedEvent represents a shield or multiplier being applied
type EffectAppliedEvent struct {
	UserID  int64
	GuildID int64
	Kind    models.EffectKind
}

func (e EffectAppliedEvent) Type() EventType {
	return EventTypeEffectApplied
}

// DrainAttemptedEvent represents a drain attempt against a target
type DrainAttemptedEvent struct {
	AttackerID int64
	TargetID   int64
	GuildID    int64
	Success    bool
	Amount     int64
	Shielded   bool
}

func (e DrainAttemptedEvent) Type() EventType {
	return EventTypeDrainAttempted
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus stashes events raised inside a unit of work and flushes
// them to the real bus only after the enclosing DB transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events to main event bus")

	// Events are processed independently of the transaction lifecycle, so
	// use a background context to avoid expired transaction contexts.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events. Called after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
