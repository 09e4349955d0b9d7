package service

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrSelfTarget is returned when a user targets themselves with a
// transfer, drain, or bomb.
var ErrSelfTarget = errors.New("cannot target yourself")

// ValidationError rejects an operation before any mutation happens
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a ValidationError with a formatted reason
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// CooldownError rejects an operation still inside its cooldown window
type CooldownError struct {
	Action    string
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s is on cooldown for another %s", e.Action, e.Remaining.Round(time.Second))
}

// InsufficientFundsError rejects a bet or purchase exceeding the balance
type InsufficientFundsError struct {
	Balance  int64
	Required int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient aura: have %d, need %d", e.Balance, e.Required)
}

// RangeError rejects an admin amount outside the allowed bounds
type RangeError struct {
	Amount int64
	Min    int64
	Max    int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("amount %d outside allowed range [%d, %d]", e.Amount, e.Min, e.Max)
}

// RetryableError wraps a persistence failure that left no partial state.
// The caller may safely retry the whole operation.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("temporarily unavailable, retry: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the operation failed without partial effect
// and may be attempted again
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// persistenceErr classifies a store-level failure. Timeouts and
// cancellations become retryable since the enclosing transaction rolled
// back without partial mutation.
func persistenceErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &RetryableError{Err: err}
	}
	return err
}
