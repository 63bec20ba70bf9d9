package client

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Poller fires a refresh callback at a fixed period while started.
// Singleton mode keeps a slow query from overlapping the next tick.
type Poller struct {
	mu        sync.Mutex
	scheduler gocron.Scheduler
	interval  time.Duration
	poll      func()
	job       gocron.Job
}

// NewPoller creates a stopped poller.
func NewPoller(interval time.Duration, poll func(), options ...gocron.SchedulerOption) (*Poller, error) {
	if interval <= 0 {
		interval = time.Second
	}
	scheduler, err := gocron.NewScheduler(options...)
	if err != nil {
		return nil, fmt.Errorf("create poll scheduler: %w", err)
	}
	scheduler.Start()

	return &Poller{
		scheduler: scheduler,
		interval:  interval,
		poll:      poll,
	}, nil
}

// Start begins polling. Calling it while running does nothing.
func (poller *Poller) Start() error {
	poller.mu.Lock()
	defer poller.mu.Unlock()
	if poller.job != nil {
		return nil
	}

	job, err := poller.scheduler.NewJob(
		gocron.DurationJob(poller.interval),
		gocron.NewTask(poller.poll),
		gocron.WithName("poll-state"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule state poll: %w", err)
	}
	poller.job = job
	log.Debug().Dur("interval", poller.interval).Msg("polling started")
	return nil
}

// Stop cancels the repeating job. A query already in flight still completes.
func (poller *Poller) Stop() error {
	poller.mu.Lock()
	defer poller.mu.Unlock()
	if poller.job == nil {
		return nil
	}

	id := poller.job.ID()
	poller.job = nil
	if err := poller.scheduler.RemoveJob(id); err != nil {
		return fmt.Errorf("remove state poll: %w", err)
	}
	log.Debug().Msg("polling stopped")
	return nil
}

// Running reports whether the poller is active.
func (poller *Poller) Running() bool {
	poller.mu.Lock()
	defer poller.mu.Unlock()
	return poller.job != nil
}

// Close shuts the scheduler down.
func (poller *Poller) Close() error {
	if err := poller.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("shutdown poll scheduler: %w", err)
	}
	return nil
}
