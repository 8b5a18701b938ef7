package app

import (
	"reflect"
	"testing"
	"time"

	"cruisewatch/internal/domain"
)

func TestTrackingSet_RemoveIsIdempotent(t *testing.T) {
	ts := NewTrackingSet(domain.ProviderPO, []string{"A1", "B2", "C3"})
	at := time.Now()

	if !ts.Remove("B2", "Fjords", domain.RemovedSoldOut, at) {
		t.Fatalf("first removal should report true")
	}
	if ts.Remove("B2", "Fjords", domain.RemovedSoldOut, at) {
		t.Fatalf("second removal must be a no-op")
	}
	if ts.Remove("ZZ", "Unknown", domain.RemovedDeparted, at) {
		t.Fatalf("removing an untracked code must be a no-op")
	}

	if got := ts.Codes(); !reflect.DeepEqual(got, []string{"A1", "C3"}) {
		t.Fatalf("codes = %v", got)
	}
	rs := ts.Removals()
	if len(rs) != 1 {
		t.Fatalf("expected a single removal record, got %d", len(rs))
	}
	r := rs[0]
	if r.Provider != domain.ProviderPO || r.CruiseCode != "B2" || r.CruiseName != "Fjords" || r.Reason != domain.RemovedSoldOut {
		t.Fatalf("unexpected record: %+v", r)
	}
	if !r.Timestamp.Equal(at) {
		t.Fatalf("timestamp not recorded")
	}
}

func TestTrackingSet_CodesReturnsCopy(t *testing.T) {
	ts := NewTrackingSet(domain.ProviderPrincess, []string{"A1", "B2"})
	codes := ts.Codes()
	codes[0] = "mutated"
	if got := ts.Codes(); got[0] != "A1" {
		t.Fatalf("internal state aliased by Codes(): %v", got)
	}
}
