package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher fetches and stores a fresh forecast for a free-text location query.
type Refresher interface {
	Refresh(ctx context.Context, query string) error
}

// Scheduler periodically prefetches forecasts for configured locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	locations []string
	interval  time.Duration
}

// New creates a new Scheduler.
func New(locations []string, interval time.Duration, refresher Refresher) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		locations: locations,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Println("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every configured location concurrently and waits for all of them.
func (s *Scheduler) RunOnce() {
	log.Println("scheduler: running forecast refresh job")

	var wg sync.WaitGroup
	for _, query := range s.locations {
		query := query
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := s.refresher.Refresh(ctx, query); err != nil {
				log.Printf("scheduler: refresh failed for %q: %v", query, err)
			}
		}()
	}
	wg.Wait()
	log.Println("scheduler: completed forecast refresh job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
