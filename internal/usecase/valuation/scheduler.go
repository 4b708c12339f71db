package valuation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Refresher runs one valuation cycle
type Refresher interface {
	Refresh(ctx context.Context) (*Snapshot, error)
}

// Scheduler triggers a refresh immediately and then at a fixed interval
type Scheduler struct {
	refresher Refresher
	interval  time.Duration
	log       zerolog.Logger
}

func NewScheduler(refresher Refresher, interval time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		refresher: refresher,
		interval:  interval,
		log:       log.With().Str("service", "scheduler").Logger(),
	}
}

// Run blocks until ctx is done
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Debug().Msg("Scheduler stopped")
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Scheduler) refresh(ctx context.Context) {
	if _, err := s.refresher.Refresh(ctx); err != nil && ctx.Err() == nil {
		s.log.Error().Msgf("Refresh failed: %v", err)
	}
}
