package weather

import (
	"context"
	"errors"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/Jake-Garneau/weather-backend/internal/observability"
)

// Service orchestrates fetch cycles: one provider call, one normalization
// pass, and one transactional write per configured location.
type Service struct {
	provider Provider
	store    Store
	metrics  *observability.Metrics
	log      *logrus.Logger
	clock    clockwork.Clock
}

// Outcome is the result of one location's fetch cycle within a run.
type Outcome struct {
	Location Location
	Err      error
}

// NewService creates a new Service.
func NewService(provider Provider, store Store, metrics *observability.Metrics, log *logrus.Logger, clock clockwork.Clock) *Service {
	return &Service{
		provider: provider,
		store:    store,
		metrics:  metrics,
		log:      log,
		clock:    clock,
	}
}

// Ingest runs one full cycle for a single location: fetch, normalize, save.
// A failure at any step aborts only this location's cycle.
func (s *Service) Ingest(ctx context.Context, loc Location) error {
	start := s.clock.Now()

	raw, err := s.provider.Fetch(ctx, loc)
	if err != nil {
		s.observeFailure(loc, err)
		return err
	}

	bundle := Normalize(raw)
	if bundle.Empty() {
		s.log.WithField("location", loc.Key()).Warn("provider returned empty payload, nothing to store")
		s.metrics.ObserveCycle(loc.Key(), "empty", s.clock.Since(start))
		return nil
	}

	if err := s.store.SaveBundle(ctx, loc.Name, bundle); err != nil {
		s.observeFailure(loc, err)
		return err
	}

	s.metrics.ObserveCycle(loc.Key(), "ok", s.clock.Since(start))
	s.metrics.AddRows("current", 1)
	s.metrics.AddRows("hourly", len(bundle.Hourly))
	s.metrics.AddRows("daily", len(bundle.Daily))

	s.log.WithFields(logrus.Fields{
		"location": loc.Key(),
		"provider": s.provider.Name(),
		"hourly":   len(bundle.Hourly),
		"daily":    len(bundle.Daily),
	}).Info("stored weather bundle")
	return nil
}

// Run executes one cycle for every location in parallel. Each location is
// isolated: a failure is captured in its Outcome and never interrupts the
// others. Outcomes are returned in the same order as locs.
func (s *Service) Run(ctx context.Context, locs []Location) []Outcome {
	outcomes := make([]Outcome, len(locs))

	var wg sync.WaitGroup
	for i, loc := range locs {
		i, loc := i, loc
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = Outcome{Location: loc, Err: s.Ingest(ctx, loc)}
		}()
	}
	wg.Wait()

	return outcomes
}

// RunBatch runs a full cycle across locs and joins any per-location failures
// into a single error for callers that need one.
func (s *Service) RunBatch(ctx context.Context, locs []Location) error {
	var errs []error
	for _, o := range s.Run(ctx, locs) {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errors.Join(errs...)
}

// LatestCurrent delegates to the underlying store.
func (s *Service) LatestCurrent(ctx context.Context, name string) (CurrentReport, error) {
	return s.store.LatestCurrent(ctx, name)
}

func (s *Service) observeFailure(loc Location, err error) {
	kind := KindOf(err)
	s.metrics.CountFailure(string(kind))
	s.log.WithFields(logrus.Fields{
		"location": loc.Key(),
		"provider": s.provider.Name(),
		"kind":     string(kind),
	}).WithError(err).Error("fetch cycle failed")
}
