package app

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"cruisewatch/internal/domain"
	"cruisewatch/internal/storage/configfile"
)

func poConfig() configfile.ProviderConfig {
	return configfile.ProviderConfig{
		CruiseCodes: []string{"X1"},
		Cabins: map[string]string{
			"Inside":  "I_I",
			"Outside": "O_O",
			"Balcony": "B_B",
		},
		Routes: map[string]string{"X1": "Norwegian Fjords"},
		Ships:  map[string]string{"IA": "Iona"},
		Ports:  map[string]string{"SOU": "Southampton"},
	}
}

// priceEntry builds one raw fare line for fixtures.
func priceEntry(fare string, price any, extra map[string]any) map[string]any {
	e := map[string]any{"fare": fare, "price": price}
	for k, v := range extra {
		e[k] = v
	}
	return e
}

func poPayload(rooms ...map[string]any) map[string]any {
	return map[string]any{"data": map[string]any{
		"sailingDate":  "2027-06-15",
		"duration":     7.0,
		"shipCode":     "IA",
		"departPortId": "SOU",
		"roomTypes":    anySlice(rooms),
	}}
}

func room(name, catID string, entries ...map[string]any) map[string]any {
	return map[string]any{
		"name": name,
		"categories": []any{
			map[string]any{"id": catID, "price": anySlice(entries)},
		},
	}
}

func anySlice[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func quoteFor(t *testing.T, qs []domain.FareQuote, cabin, fareType string) domain.FareQuote {
	t.Helper()
	for _, q := range qs {
		if q.CabinType == cabin && q.FareType == fareType {
			return q
		}
	}
	t.Fatalf("no quote for %s/%s in %+v", cabin, fareType, qs)
	return domain.FareQuote{}
}

func TestParsePOCruise_DerivedFields(t *testing.T) {
	payload := poPayload(room("Balcony", "B_B",
		priceEntry("KU2", 999.0, nil),
		priceEntry("KD1", map[string]any{"parsedValue": 1200.0}, map[string]any{
			"onBoardCredits": map[string]any{"amount": 50.0},
			"perks": []any{
				map[string]any{"rateCode": "KD1", "onBoardCredit": map[string]any{"parsedValue": 30.0}},
			},
		}),
		priceEntry("K8W", 1400.0, nil),
	))

	snap, err := ParsePOCruise("X1", payload, poConfig())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !snap.Available {
		t.Fatalf("expected availability evidence")
	}
	if len(snap.Quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(snap.Quotes))
	}

	sel := quoteFor(t, snap.Quotes, "Balcony", "Select")
	if sel.CabinPrice != 1200 || sel.BonusOBC != 50 || sel.FixedOBC != 30 {
		t.Fatalf("unexpected select quote: %+v", sel)
	}
	if math.Abs(sel.TotalPrice-1120) > 1e-9 {
		t.Fatalf("select total = %v, want 1120", sel.TotalPrice)
	}
	if sel.DrinksPrice == nil || math.Abs(*sel.DrinksPrice-200) > 1e-9 {
		t.Fatalf("drinks = %v, want 200", sel.DrinksPrice)
	}

	sav := quoteFor(t, snap.Quotes, "Balcony", "Saver")
	if sav.TotalPrice != sav.CabinPrice || sav.CabinPrice != 999 {
		t.Fatalf("saver total must equal cabin price: %+v", sav)
	}
	if sav.CruiseName != "Norwegian Fjords" || sav.ShipName != "Iona" || sav.DeparturePort != "Southampton" {
		t.Fatalf("name maps not applied: %+v", sav)
	}
	if sav.DepartureDate != "15/06/2027" {
		t.Fatalf("departure date = %q", sav.DepartureDate)
	}
	if sav.Duration == nil || *sav.Duration != 7 {
		t.Fatalf("duration = %v", sav.Duration)
	}
}

func TestParsePOCruise_MissingOrZeroPriceEmitsNothing(t *testing.T) {
	payload := poPayload(
		room("Inside", "I_I",
			priceEntry("KU2", 0.0, nil),
			priceEntry("KD1", nil, nil),
		),
	)
	snap, err := ParsePOCruise("X1", payload, poConfig())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if snap.Available {
		t.Fatalf("zero/missing prices are not availability evidence")
	}
	if len(snap.Quotes) != 0 {
		t.Fatalf("expected no quotes, got %+v", snap.Quotes)
	}
}

func TestParsePOCruise_PackageOnlyCountsAsEvidence(t *testing.T) {
	// A drinks-package fare proves the cabin is bookable even when neither
	// tracked tier has a price; it just produces no rows.
	payload := poPayload(room("Outside", "O_O", priceEntry("K2S", 1500.0, nil)))
	snap, err := ParsePOCruise("X1", payload, poConfig())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !snap.Available {
		t.Fatalf("package price should count as availability evidence")
	}
	if len(snap.Quotes) != 0 {
		t.Fatalf("expected no quotes, got %+v", snap.Quotes)
	}
}

func TestParsePOCruise_OBCListAndScalarPerk(t *testing.T) {
	payload := poPayload(room("Inside", "I_I",
		priceEntry("KD1", 800.0, map[string]any{
			"onBoardCredits": []any{
				map[string]any{"amount": 40.0},
				map[string]any{"amount": 99.0}, // only the first element counts
			},
			"perks": []any{
				map[string]any{"rateCode": "ZZZ", "onBoardCredit": 123.0},
				map[string]any{"rateCode": "KD1", "onBoardCredit": 25.0},
			},
		}),
	))
	snap, err := ParsePOCruise("X1", payload, poConfig())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	sel := quoteFor(t, snap.Quotes, "Inside", "Select")
	if sel.BonusOBC != 40 || sel.FixedOBC != 25 {
		t.Fatalf("obc = %v/%v, want 40/25", sel.BonusOBC, sel.FixedOBC)
	}
	if math.Abs(sel.TotalPrice-735) > 1e-9 {
		t.Fatalf("total = %v, want 735", sel.TotalPrice)
	}
	if sel.DrinksPrice != nil {
		t.Fatalf("no package price, drinks must be absent")
	}
}

func TestParsePOCruise_SkipsUntrackedCabinsAndCategories(t *testing.T) {
	payload := poPayload(
		room("Suite", "S_S", priceEntry("KD1", 5000.0, nil)),   // cabin not tracked
		room("Balcony", "B_X", priceEntry("KD1", 1200.0, nil)), // category id mismatch
	)
	snap, err := ParsePOCruise("X1", payload, poConfig())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if snap.Available || len(snap.Quotes) != 0 {
		t.Fatalf("expected nothing tracked, got %+v", snap)
	}
}

func TestParsePOCruise_MalformedPayload(t *testing.T) {
	_, err := ParsePOCruise("X1", map[string]any{"data": "nope"}, poConfig())
	if !errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestParsePOCruise_Idempotent(t *testing.T) {
	payload := poPayload(room("Balcony", "B_B",
		priceEntry("KU2", 999.0, nil),
		priceEntry("KD1", 1200.0, map[string]any{"onBoardCredits": map[string]any{"amount": 50.0}}),
	))
	first, err := ParsePOCruise("X1", payload, poConfig())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	second, err := ParsePOCruise("X1", payload, poConfig())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("parser is not idempotent:\n%+v\n%+v", first, second)
	}
}
