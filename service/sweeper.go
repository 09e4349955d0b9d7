package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// EffectSweeper periodically clears expired shield and multiplier slots.
// Reads already treat expired slots as absent; the sweep just keeps the
// stored rows tidy so profile queries stay cheap.
type EffectSweeper struct {
	repo     EffectSweepRepository
	interval time.Duration
}

// NewEffectSweeper creates a sweeper running at the given interval
func NewEffectSweeper(repo EffectSweepRepository, interval time.Duration) *EffectSweeper {
	return &EffectSweeper{
		repo:     repo,
		interval: interval,
	}
}

// Run sweeps on a ticker until the context is cancelled
func (s *EffectSweeper) Run(ctx context.Context) {
	logrus.WithField("interval", s.interval).Info("Effect sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Effect sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *EffectSweeper) sweep(ctx context.Context) {
	purged, err := s.repo.PurgeExpiredEffects(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to purge expired effects")
		return
	}
	if purged > 0 {
		logrus.WithField("purged", purged).Info("Purged expired effects")
	}
}
