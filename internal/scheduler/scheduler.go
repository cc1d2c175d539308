package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/Jake-Garneau/weather-backend/internal/weather"
)

// Scheduler runs the fetch cycle for the configured locations on a fixed
// interval, starting with an immediate run.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	locations []weather.Location
	interval  time.Duration
	log       *logrus.Logger
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, service *weather.Service, log *logrus.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		locations: locations,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first cycle fires immediately rather than one interval from now.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.log.Warn("no locations configured, nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).StartImmediately().Do(func() {
		s.log.Info("running fetch cycle")

		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()

		for _, o := range s.service.Run(ctx, s.locations) {
			if o.Err != nil {
				s.log.WithField("location", o.Location.Key()).WithError(o.Err).Error("fetch cycle failed")
			}
		}
		s.log.Info("fetch cycle complete")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs. A cycle already in
// flight is allowed to finish.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
