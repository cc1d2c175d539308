package weather

import (
	"context"
)

// Provider abstracts the upstream weather data source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (*RawPayload, error)
}

// Store is the contract the persistent store must satisfy.
type Store interface {
	// SaveBundle writes all rows of one fetch cycle atomically, resolving
	// the owning location by coordinates first.
	SaveBundle(ctx context.Context, name string, b Bundle) error
	// LatestCurrent returns the most recent current-weather report for the
	// named location.
	LatestCurrent(ctx context.Context, name string) (CurrentReport, error)
}
