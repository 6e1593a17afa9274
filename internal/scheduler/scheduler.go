package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/harborline/voyage-weather/internal/store"
	"github.com/harborline/voyage-weather/internal/weather"
)

// Target is a resolved waypoint the scheduler keeps fresh weather for.
type Target struct {
	Name string
	Lat  float64
	Lon  float64
}

// Scheduler periodically fetches weather for the configured waypoints
// through the fallback chain and stores the snapshots. Waypoints are fetched
// in parallel; the provider fallback within each fetch stays sequential.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	snapshots *store.MemoryStore
	targets   []Target
	interval  time.Duration
	log       *logrus.Logger
}

// New creates a Scheduler.
func New(targets []Target, interval time.Duration, service *weather.Service, snapshots *store.MemoryStore, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		snapshots: snapshots,
		targets:   targets,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.targets) == 0 {
		s.log.Info("scheduler: no waypoints configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		s.log.Info("scheduler: running waypoint weather job")

		var wg sync.WaitGroup
		for _, target := range s.targets {
			target := target
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.refresh(target)
			}()
		}
		wg.Wait()
		s.log.Info("scheduler: completed waypoint weather job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) refresh(target Target) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	when := time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
	snapshot, err := s.service.Fetch(ctx, target.Lat, target.Lon, when)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"waypoint": target.Name,
			"error":    err,
		}).Warn("scheduler: waypoint fetch failed")
		return
	}
	s.snapshots.Save(target.Lat, target.Lon, snapshot)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
