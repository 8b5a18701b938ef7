package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cruisewatch/internal/domain"
	"cruisewatch/internal/storage/configfile"
)

const princessDateLayout = "20060102"

// PrincessFareAPI is the slice of the Princess client the adapter needs.
type PrincessFareAPI interface {
	Products(ctx context.Context) ([]map[string]any, error)
	CruiseFares(ctx context.Context, code string) (map[string]any, error)
}

// PrincessAdapter correlates the per-cruise pricing response against the
// run-wide product metadata dump before parsing fares.
type PrincessAdapter struct {
	api      PrincessFareAPI
	usdToGBP float64
	products []map[string]any
}

func NewPrincessAdapter(api PrincessFareAPI, usdToGBP float64) *PrincessAdapter {
	return &PrincessAdapter{api: api, usdToGBP: usdToGBP}
}

func (a *PrincessAdapter) Tag() domain.Provider { return domain.ProviderPrincess }

// Prepare loads the metadata dump once; the pricing responses carry no
// names, ships or sail dates of their own.
func (a *PrincessAdapter) Prepare(ctx context.Context) error {
	products, err := a.api.Products(ctx)
	if err != nil {
		return fmt.Errorf("princess metadata dump: %w", err)
	}
	a.products = products
	return nil
}

func (a *PrincessAdapter) Snapshot(ctx context.Context, code string, cfg configfile.ProviderConfig) (CruiseSnapshot, error) {
	doc, err := a.api.CruiseFares(ctx, code)
	if err != nil {
		return CruiseSnapshot{Code: code, Name: cfg.Name(code)}, err
	}
	return ParsePrincessCruise(code, doc, a.products, cfg, a.usdToGBP)
}

// ParsePrincessCruise correlates and parses one Princess pricing document.
// Correlation failures (empty product list, no metadata product, no metadata
// cruise) return ErrCorrelation: the cruise can no longer be tracked.
func ParsePrincessCruise(code string, doc map[string]any, products []map[string]any, cfg configfile.ProviderConfig, usdToGBP float64) (CruiseSnapshot, error) {
	snap := CruiseSnapshot{Code: code}

	fareProducts := lookupSlice(doc, "products")
	if len(fareProducts) == 0 {
		return snap, fmt.Errorf("%w: cruise %s: no products in fare response", domain.ErrCorrelation, code)
	}
	fareProduct := fareProducts[0]
	productID := idString(fareProduct["id"])

	meta := findByID(products, productID)
	if meta == nil {
		return snap, fmt.Errorf("%w: cruise %s: product %s not in metadata", domain.ErrCorrelation, code, productID)
	}
	snap.Name = lookupStr(meta, "name")

	metaCruise := findByID(lookupSlice(meta, "cruises"), code)
	if metaCruise == nil {
		return snap, fmt.Errorf("%w: cruise %s not under product %s", domain.ErrCorrelation, code, productID)
	}

	ship := mapName(cfg.Ships, lookupStr(metaCruise, "voyage.ship.id"))
	port := mapName(cfg.Ports, lookupStr(metaCruise, "voyage.startPortId"))
	duration := lookupInt(metaCruise, "voyage.duration")

	departDisplay := lookupStr(metaCruise, "voyage.sailDate")
	if t, err := time.Parse(princessDateLayout, departDisplay); err == nil {
		snap.SailDate = t
		departDisplay = t.Format(displayDateLayout)
	}

	fareCruises := lookupSlice(fareProduct, "cruises")
	if len(fareCruises) == 0 {
		return snap, fmt.Errorf("%w: cruise %s: fare product %s has no cruises", domain.ErrParse, code, productID)
	}

	// Categories come keyed by cabin id; flip the config map to recover names.
	idToName := make(map[string]string, len(cfg.Cabins))
	for name, id := range cfg.Cabins {
		idToName[id] = name
	}

	for _, fare := range lookupSlice(fareCruises[0], "pricing.fares") {
		fareType := lookupStr(fare, "fareType")
		for _, cat := range lookupSlice(fare, "categories") {
			cabin, tracked := idToName[lookupStr(cat, "id")]
			if !tracked {
				continue // skip other cabin types
			}

			guests := lookupSlice(cat, "guests")
			g1 := findGuest(guests, 1)
			g2 := findGuest(guests, 2)
			if g1 == nil || g2 == nil {
				continue // need both lead guests to quote a cabin
			}

			f1, _ := asFloat(g1["fare"])
			f2, _ := asFloat(g2["fare"])
			price := f1 + f2
			if price == 0 {
				continue // not available
			}
			snap.Available = true

			o1, _ := asFloat(g1["obc"])
			o2, _ := asFloat(g2["obc"])
			obc := convertUSD(o1+o2, usdToGBP)

			snap.Quotes = append(snap.Quotes, domain.FareQuote{
				CruiseCode:    code,
				CruiseName:    snap.Name,
				ShipName:      ship,
				DeparturePort: port,
				DepartureDate: departDisplay,
				Duration:      duration,
				CabinType:     cabin,
				FareType:      fareType,
				CabinPrice:    price,
				BonusOBC:      obc,
				TotalPrice:    flexibleTotal(code, cabin, price, obc, 0),
			})
		}
	}

	return snap, nil
}

func findByID(items []map[string]any, id string) map[string]any {
	for _, it := range items {
		if idString(it["id"]) == id {
			return it
		}
	}
	return nil
}

// idString stringifies an identifier that the APIs serve as either a string
// or a bare number.
func idString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func findGuest(guests []map[string]any, id int) map[string]any {
	for _, g := range guests {
		if n := lookupInt(g, "id"); n != nil && *n == id {
			return g
		}
	}
	return nil
}
