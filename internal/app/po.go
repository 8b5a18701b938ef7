package app

import (
	"context"
	"fmt"
	"time"

	"cruisewatch/internal/domain"
	"cruisewatch/internal/storage/configfile"
)

/********** fare code registries (single source of truth) **********/

// P&O prices every category under rate codes. The tracked tiers:
// saver codes map to the entry-level "Saver" fare, KD1 is the flexible
// "Select" fare carrying on-board credit, and the package codes are the
// drinks-inclusive reference fares used only for surcharge derivation.
var (
	poSaverCodes   = map[string]struct{}{"KU2": {}, "FU2": {}}
	poPackageCodes = map[string]struct{}{"K8W": {}, "K2S": {}, "KT1": {}}
)

const (
	poSelectCode = "KD1"

	poFareSaver  = "Saver"
	poFareSelect = "Select"

	poDateLayout      = "2006-01-02"
	displayDateLayout = "02/01/2006"
)

// POFareAPI is the slice of the P&O client the adapter needs.
type POFareAPI interface {
	CruisePrices(ctx context.Context, code string) (map[string]any, error)
}

type POAdapter struct{ api POFareAPI }

func NewPOAdapter(api POFareAPI) *POAdapter { return &POAdapter{api: api} }

func (a *POAdapter) Tag() domain.Provider { return domain.ProviderPO }

func (a *POAdapter) Prepare(ctx context.Context) error { return nil }

func (a *POAdapter) Snapshot(ctx context.Context, code string, cfg configfile.ProviderConfig) (CruiseSnapshot, error) {
	doc, err := a.api.CruisePrices(ctx, code)
	if err != nil {
		return CruiseSnapshot{Code: code, Name: cfg.Name(code)}, err
	}
	return ParsePOCruise(code, doc, cfg)
}

// ParsePOCruise walks one P&O pricing document and extracts the fare lines
// for tracked cabins. Pure: same document in, same snapshot out.
func ParsePOCruise(code string, doc map[string]any, cfg configfile.ProviderConfig) (CruiseSnapshot, error) {
	data, ok := doc["data"].(map[string]any)
	if !ok || len(data) == 0 {
		return CruiseSnapshot{Code: code, Name: cfg.Name(code)},
			fmt.Errorf("%w: po cruise %s: missing data envelope", domain.ErrParse, code)
	}

	snap := CruiseSnapshot{Code: code, Name: cfg.Name(code)}

	departDisplay := "N/A"
	if ds := lookupStr(data, "sailingDate"); ds != "" {
		if t, err := time.Parse(poDateLayout, ds); err == nil {
			snap.SailDate = t
			departDisplay = t.Format(displayDateLayout)
		} else {
			departDisplay = ds // keep the raw value when the API changes format
		}
	}

	duration := lookupInt(data, "duration")
	ship := mapName(cfg.Ships, lookupStr(data, "shipCode"))
	port := mapName(cfg.Ports, lookupStr(data, "departPortId"))

	for _, room := range lookupSlice(data, "roomTypes") {
		cabin := lookupStr(room, "name")
		catID, tracked := cfg.Cabins[cabin]
		if !tracked {
			continue // skip non-tracked cabin types
		}

		var saverPrice, selectPrice, bonusOBC, fixedOBC, packagePrice float64
		roomHasPrice := false

		for _, cat := range lookupSlice(room, "categories") {
			if lookupStr(cat, "id") != catID {
				continue
			}
			for _, entry := range lookupSlice(cat, "price") {
				fare := lookupStr(entry, "fare")
				val, ok := amountValue(entry["price"])
				if !ok || val == 0 {
					continue // no price means not available, never a zero fare
				}
				roomHasPrice = true

				if _, isSaver := poSaverCodes[fare]; isSaver {
					saverPrice = val
				} else if fare == poSelectCode {
					selectPrice = val
					bonusOBC = poBonusOBC(entry)
					fixedOBC = poPerkOBC(entry)
				} else if _, isPackage := poPackageCodes[fare]; isPackage {
					packagePrice = val
				}
			}
		}

		if !roomHasPrice {
			continue // cabin sold out; contributes no availability evidence
		}
		snap.Available = true

		// The drinks premium applies to the room, so both tiers carry it.
		var drinks *float64
		if selectPrice != 0 {
			drinks = drinksSurcharge(packagePrice, selectPrice)
		}

		base := domain.FareQuote{
			CruiseCode:    code,
			CruiseName:    snap.Name,
			ShipName:      ship,
			DeparturePort: port,
			DepartureDate: departDisplay,
			Duration:      duration,
			CabinType:     cabin,
		}

		if saverPrice != 0 {
			q := base
			q.FareType = poFareSaver
			q.CabinPrice = saverPrice
			q.TotalPrice = saverPrice // entry tier carries no credit
			q.DrinksPrice = drinks
			snap.Quotes = append(snap.Quotes, q)
		}
		if selectPrice != 0 {
			q := base
			q.FareType = poFareSelect
			q.CabinPrice = selectPrice
			q.BonusOBC = bonusOBC
			q.FixedOBC = fixedOBC
			q.TotalPrice = flexibleTotal(code, cabin, selectPrice, bonusOBC, fixedOBC)
			q.DrinksPrice = drinks
			snap.Quotes = append(snap.Quotes, q)
		}
	}

	return snap, nil
}

// poBonusOBC reads the promotional credit, which arrives either as a single
// object or a non-empty list (first element wins).
func poBonusOBC(entry map[string]any) float64 {
	obc := entry["onBoardCredits"]
	if isEmptyOBC(obc) {
		obc = entry["onBoardCredit"]
	}
	switch t := obc.(type) {
	case map[string]any:
		f, _ := asFloat(t["amount"])
		return f
	case []any:
		if len(t) > 0 {
			if first, ok := t[0].(map[string]any); ok {
				f, _ := asFloat(first["amount"])
				return f
			}
		}
	}
	return 0
}

// poPerkOBC reads the fixed credit from the perk matching the Select rate
// code; the amount is a bare number or a parsed-value envelope.
func poPerkOBC(entry map[string]any) float64 {
	for _, perk := range lookupSlice(entry, "perks") {
		if lookupStr(perk, "rateCode") != poSelectCode {
			continue
		}
		if f, ok := amountValue(perk["onBoardCredit"]); ok {
			return f
		}
	}
	return 0
}

func isEmptyOBC(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// mapName resolves a provider code through a display-name map, falling back
// to the code itself.
func mapName(names map[string]string, code string) string {
	if n, ok := names[code]; ok && n != "" {
		return n
	}
	if code == "" {
		return "N/A"
	}
	return code
}
