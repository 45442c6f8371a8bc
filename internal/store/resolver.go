package store

import (
	"context"

	dcerr "github.com/msto63/deepclock/foundation/core/error"
	"github.com/msto63/deepclock/internal/clock"
)

// Resolver picks the interval to display. An explicit interval wins, then
// the most recent saved one, then the fallback from configuration.
type Resolver struct {
	Override clock.Interval
	Store    IntervalStore
	Fallback clock.Interval
}

// Resolve returns the interval and where it came from: "flags", "store" or
// "config".
func (r Resolver) Resolve(ctx context.Context) (clock.Interval, string, error) {
	if r.Override.IsSet() {
		return r.Override, "flags", r.Override.Validate()
	}

	if r.Store != nil {
		rec, err := r.Store.Load(ctx)
		switch {
		case err == nil:
			return rec.Interval, "store", nil
		case !dcerr.HasCode(err, dcerr.CodeNotFound):
			return clock.Interval{}, "", err
		}
	}

	if r.Fallback.IsSet() {
		return r.Fallback, "config", r.Fallback.Validate()
	}

	return clock.Interval{}, "", dcerr.New("no interval configured; use 'deepclock interval set'").
		WithCode(dcerr.CodeNotFound).
		WithOperation("store.Resolve")
}
