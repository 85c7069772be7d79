package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ridloal/e-commerce-go-storefront/internal/platform/logger"
)

const syncTimeout = time.Minute

// Syncer re-runs the start-up fetch on a cron schedule.
type Syncer struct {
	state    *AppState
	schedule string
	cron     *cron.Cron
}

// NewSyncer validates schedule. An empty schedule yields a Syncer whose
// Start and Stop do nothing.
func NewSyncer(state *AppState, schedule string) (*Syncer, error) {
	s := &Syncer{state: state, schedule: schedule}
	if schedule == "" {
		return s, nil
	}
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Syncer) Start() {
	if s.cron == nil {
		logger.Info("Syncer: background resync disabled")
		return
	}
	s.cron.Start()
	logger.Info("Syncer: background resync scheduled '%s'", s.schedule)
}

// Stop waits for a running resync to finish or ctx to expire.
func (s *Syncer) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warn("Syncer: stop timed out while a resync was running")
	}
}

func (s *Syncer) run() {
	logger.Info("Syncer: running background resync...")
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()
	s.state.Resync(ctx)
}
