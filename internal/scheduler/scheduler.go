package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

type sweeper interface {
	ExpireSubscriptions(ctx context.Context) (int, error)
}

// Scheduler drives the daily subscription-expiry sweep. The sweep also runs
// once at startup and eagerly before list/stats reads, so a missed cron tick
// only delays, never loses, a transition.
type Scheduler struct {
	cron    *cron.Cron
	sweeper sweeper
}

func New(schedule string, sweeper sweeper) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
	}

	if _, err := s.cron.AddFunc(schedule, s.runSweep); err != nil {
		return nil, fmt.Errorf("register expiry sweep %q: %w", schedule, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.runSweep()
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// runSweep is fire and forget: failures are logged, never surfaced, and the
// next tick retries anything left behind.
func (s *Scheduler) runSweep() {
	expired, err := s.sweeper.ExpireSubscriptions(context.Background())
	if err != nil {
		log.Printf("scheduled expiry sweep: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("scheduled expiry sweep: %d subscriptions stopped", expired)
	}
}
