package app

import (
	"time"

	"cruisewatch/internal/domain"
)

// LifecycleDecision is the outcome of the once-per-run evaluation of a
// tracked cruise. All removals are terminal.
type LifecycleDecision struct {
	Remove bool
	Reason domain.RemovalReason
}

// EvaluateLifecycle decides whether a parsed cruise stays tracked.
// Departure wins over availability: a departed cruise never produces fare
// rows even when stale price data is still served.
func EvaluateLifecycle(snap CruiseSnapshot, runDate time.Time) LifecycleDecision {
	if !snap.SailDate.IsZero() && !dateOnly(snap.SailDate).After(dateOnly(runDate)) {
		return LifecycleDecision{Remove: true, Reason: domain.RemovedDeparted}
	}
	if !snap.Available {
		return LifecycleDecision{Remove: true, Reason: domain.RemovedSoldOut}
	}
	return LifecycleDecision{}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
