package weather

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a fetch cycle failed for one location.
type FailureKind string

const (
	KindTransport         FailureKind = "transport_error"
	KindProvider          FailureKind = "provider_error"
	KindDuplicateLocation FailureKind = "duplicate_location"
	KindStorage           FailureKind = "storage_error"
)

// Failure is a per-location cycle error. It records the class of fault so
// callers and metrics can distinguish network trouble from provider rejects
// and storage problems.
type Failure struct {
	Kind   FailureKind
	Detail string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Detail, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure builds a Failure wrapping err.
func NewFailure(kind FailureKind, detail string, err error) *Failure {
	return &Failure{Kind: kind, Detail: detail, Err: err}
}

// KindOf extracts the failure kind from err, or KindStorage when err carries
// no classification.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindStorage
}
