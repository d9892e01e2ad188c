package client

import "time"

// LookupObserver receives the outcome of every remote lookup call. The
// metrics service implements it; a nil observer disables instrumentation.
type LookupObserver interface {
	ObserveLookup(service, outcome string, duration time.Duration)
}

// Lookup outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid_id"
	OutcomeFault    = "fault"
)

func observe(obs LookupObserver, service, outcome string, start time.Time) {
	if obs == nil {
		return
	}
	obs.ObserveLookup(service, outcome, time.Since(start))
}
