package app

import (
	"time"

	"cruisewatch/internal/domain"
)

// TrackingSet owns the mutable list of tracked cruise codes for one provider
// run, plus the append-only removal records produced by lifecycle decisions.
// Not safe for concurrent use; a run is strictly sequential.
type TrackingSet struct {
	provider domain.Provider
	codes    []string
	member   map[string]struct{}
	removed  []domain.RemovalRecord
}

func NewTrackingSet(p domain.Provider, codes []string) *TrackingSet {
	ts := &TrackingSet{
		provider: p,
		codes:    append([]string(nil), codes...),
		member:   make(map[string]struct{}, len(codes)),
	}
	for _, c := range codes {
		ts.member[c] = struct{}{}
	}
	return ts
}

// Remove retires a cruise code and records why. Removing a code that is
// already gone is a no-op, so double-processing cannot duplicate log entries.
func (ts *TrackingSet) Remove(code, name string, reason domain.RemovalReason, at time.Time) bool {
	if _, ok := ts.member[code]; !ok {
		return false
	}
	delete(ts.member, code)
	for i, c := range ts.codes {
		if c == code {
			ts.codes = append(ts.codes[:i], ts.codes[i+1:]...)
			break
		}
	}
	ts.removed = append(ts.removed, domain.RemovalRecord{
		Timestamp:  at,
		Provider:   ts.provider,
		CruiseCode: code,
		CruiseName: name,
		Reason:     reason,
	})
	return true
}

// Codes returns a copy of the active code list in listed order.
func (ts *TrackingSet) Codes() []string {
	return append([]string(nil), ts.codes...)
}

func (ts *TrackingSet) Removals() []domain.RemovalRecord {
	return append([]domain.RemovalRecord(nil), ts.removed...)
}
