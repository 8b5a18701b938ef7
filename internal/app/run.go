package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"cruisewatch/internal/adapters/observability"
	"cruisewatch/internal/domain"
	"cruisewatch/internal/storage/configfile"
)

// CruiseSnapshot is everything one provider run learned about one cruise:
// metadata, the parsed sail date, availability evidence, and the derived
// fare quotes (without their run-date stamp).
type CruiseSnapshot struct {
	Code      string
	Name      string
	SailDate  time.Time // zero when the payload carried no parseable date
	Available bool      // at least one tracked cabin showed price evidence
	Quotes    []domain.FareQuote
}

// Adapter is one provider's fetch-and-parse capability, selected by tag.
type Adapter interface {
	Tag() domain.Provider
	// Prepare runs once before the per-cruise loop.
	Prepare(ctx context.Context) error
	// Snapshot fetches and parses a single tracked cruise.
	Snapshot(ctx context.Context, code string, cfg configfile.ProviderConfig) (CruiseSnapshot, error)
}

// RunResult is the value a provider run hands back to the caller: the
// surviving tracked set, the removal records, and what was persisted. The
// caller writes the documents; the run never touches them.
type RunResult struct {
	Provider domain.Provider
	Tracked  []string
	Removals []domain.RemovalRecord
	Rows     int
}

type RunService struct {
	repo  domain.SnapshotRepository
	cache domain.Cache
}

func NewRunService(repo domain.SnapshotRepository, cache domain.Cache) *RunService {
	return &RunService{repo: repo, cache: cache}
}

// RunProvider polls every tracked cruise for one provider, sequentially and
// in listed order. Per-cruise transport and parse failures are logged and
// skipped; correlation failures and lifecycle transitions retire the cruise;
// a snapshot write failure aborts the whole run so the caller never rewrites
// configuration over unsaved data.
func (s *RunService) RunProvider(ctx context.Context, ad Adapter, cfg configfile.ProviderConfig, runDate time.Time) (RunResult, error) {
	provider := ad.Tag()
	ts := NewTrackingSet(provider, cfg.CruiseCodes)
	dateChecked := runDate.Format("2006-01-02")
	rows := 0

	if err := ad.Prepare(ctx); err != nil {
		// Without run-wide context every cruise would look unmatched and be
		// retired wholesale, so give up on this provider instead.
		return RunResult{}, fmt.Errorf("prepare %s run: %w", provider, err)
	}

	for _, code := range ts.Codes() {
		if ctx.Err() != nil {
			return RunResult{}, ctx.Err()
		}

		snap, err := ad.Snapshot(ctx, code, cfg)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				s.retire(ts, code, removalName(snap), domain.RemovedNotFound, runDate)
			case errors.Is(err, domain.ErrCorrelation):
				s.retire(ts, code, removalName(snap), domain.RemovedUnmatched, runDate)
			default:
				// transport or parse failure: skip this cruise, keep tracking it
				log.Warn().Err(err).
					Str("provider", string(provider)).
					Str("cruise", code).
					Msg("cruise skipped this run")
			}
			continue
		}

		if d := EvaluateLifecycle(snap, runDate); d.Remove {
			s.retire(ts, code, snap.Name, d.Reason, runDate)
			continue
		}

		for i := range snap.Quotes {
			snap.Quotes[i].DateChecked = dateChecked
		}
		if err := s.repo.InsertQuotes(ctx, provider, snap.Quotes); err != nil {
			return RunResult{}, fmt.Errorf("%w: cruise %s: %v", domain.ErrPersistence, code, err)
		}
		for _, q := range snap.Quotes {
			observability.ObserveFareRow(string(provider), q.FareType)
		}
		rows += len(snap.Quotes)
		log.Info().
			Str("provider", string(provider)).
			Str("cruise", code).
			Int("rows", len(snap.Quotes)).
			Msg("fares recorded")
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, faresCacheKey(provider))
	}

	return RunResult{
		Provider: provider,
		Tracked:  ts.Codes(),
		Removals: ts.Removals(),
		Rows:     rows,
	}, nil
}

func (s *RunService) retire(ts *TrackingSet, code, name string, reason domain.RemovalReason, at time.Time) {
	if !ts.Remove(code, name, reason, at) {
		return
	}
	observability.ObserveRemoval(string(ts.provider), string(reason))
	log.Info().
		Str("provider", string(ts.provider)).
		Str("cruise", code).
		Str("name", name).
		Str("reason", string(reason)).
		Msg("cruise retired from tracking")
}

// removalName picks the display name for an error-path removal. Adapters that
// could not resolve a name fall back to echoing the code; the log records
// "Unknown" in that case rather than a code masquerading as a name.
func removalName(snap CruiseSnapshot) string {
	if snap.Name != "" && snap.Name != snap.Code {
		return snap.Name
	}
	return "Unknown"
}
