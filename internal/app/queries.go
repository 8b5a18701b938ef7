package app

import (
	"context"
	"time"

	"cruisewatch/internal/domain"
)

// FareView is the read-API shape of a snapshot row. Field names match the
// snapshot store columns.
type FareView struct {
	DateChecked   string   `json:"date_checked"`
	CruiseCode    string   `json:"cruise_code"`
	CruiseName    string   `json:"cruise_name"`
	ShipName      string   `json:"ship_name"`
	DeparturePort string   `json:"departure_port"`
	DepartureDate string   `json:"departure_date"`
	Duration      *int     `json:"duration"`
	CabinType     string   `json:"cabin_type"`
	FareType      string   `json:"fare_type"`
	CabinPrice    float64  `json:"cabin_price"`
	FixedOBC      float64  `json:"fixed_obc"`
	BonusOBC      float64  `json:"bonus_obc"`
	TotalPrice    float64  `json:"total_price"`
	DrinksPrice   *float64 `json:"drinks_price"`
}

type QueryService struct {
	repo     domain.SnapshotRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.SnapshotRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// ListFares returns every stored snapshot row for a provider, with
// date_checked normalized for display.
func (s *QueryService) ListFares(ctx context.Context, p domain.Provider) ([]FareView, error) {
	key := faresCacheKey(p)
	var out []FareView
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	qs, err := s.repo.ListQuotes(ctx, p)
	if err != nil {
		return nil, err
	}
	out = make([]FareView, 0, len(qs))
	for _, q := range qs {
		out = append(out, FareView{
			DateChecked:   displayDate(q.DateChecked),
			CruiseCode:    q.CruiseCode,
			CruiseName:    q.CruiseName,
			ShipName:      q.ShipName,
			DeparturePort: q.DeparturePort,
			DepartureDate: q.DepartureDate,
			Duration:      q.Duration,
			CabinType:     q.CabinType,
			FareType:      q.FareType,
			CabinPrice:    q.CabinPrice,
			FixedOBC:      q.FixedOBC,
			BonusOBC:      q.BonusOBC,
			TotalPrice:    q.TotalPrice,
			DrinksPrice:   q.DrinksPrice,
		})
	}

	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func faresCacheKey(p domain.Provider) string { return "fares:" + string(p) }

// displayDate normalizes a stored check date to DD/MM/YYYY. Two input
// formats exist in historical rows; anything else passes through untouched.
func displayDate(s string) string {
	for _, layout := range []string{"2006-01-02", displayDateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(displayDateLayout)
		}
	}
	return s
}
