package domain

import "time"

// Provider tags the two cruise lines we poll.
type Provider string

const (
	ProviderPO       Provider = "po"
	ProviderPrincess Provider = "princess"
)

func (p Provider) Valid() bool {
	return p == ProviderPO || p == ProviderPrincess
}

// FareQuote is one immutable snapshot row: the state of a (cabin, fare tier)
// price at the moment of a run. Never updated or deleted once written.
type FareQuote struct {
	DateChecked   string   // run date, ISO YYYY-MM-DD as stored
	CruiseCode    string
	CruiseName    string
	ShipName      string
	DeparturePort string
	DepartureDate string // DD/MM/YYYY, or the raw value when unparseable
	Duration      *int   // nights; nil when the API omits it
	CabinType     string // Inside | Outside | Balcony (or provider equivalent)
	FareType      string // Saver | Select (po), BESTFARE | BESTVALUE (princess)
	CabinPrice    float64
	FixedOBC      float64
	BonusOBC      float64
	TotalPrice    float64
	DrinksPrice   *float64 // drinks-package surcharge; nil when not derivable
}

type RemovalReason string

const (
	RemovedDeparted  RemovalReason = "departed"
	RemovedSoldOut   RemovalReason = "sold_out"
	RemovedNotFound  RemovalReason = "not_found"
	RemovedUnmatched RemovalReason = "unmatched"
)

// RemovalRecord is one append-only entry in the removal log. JSON tags match
// the on-disk log document.
type RemovalRecord struct {
	Timestamp  time.Time     `json:"timestamp"`
	Provider   Provider      `json:"brand"`
	CruiseCode string        `json:"cruise_code"`
	CruiseName string        `json:"cruise_name"`
	Reason     RemovalReason `json:"reason"`
}
