package app

import (
	"math"

	"github.com/rs/zerolog/log"
)

// flexibleTotal is the net price of a flexible-tier fare: gross minus both
// on-board-credit components. Deliberately unclamped; a quoted credit larger
// than the cabin price surfaces as a negative total and is logged so it can
// be investigated rather than silently corrected.
func flexibleTotal(code, cabin string, price, bonusOBC, fixedOBC float64) float64 {
	total := price - bonusOBC - fixedOBC
	if total < 0 {
		log.Warn().
			Str("cruise", code).
			Str("cabin", cabin).
			Float64("price", price).
			Float64("bonus_obc", bonusOBC).
			Float64("fixed_obc", fixedOBC).
			Msg("credits exceed cabin price, negative total")
	}
	return total
}

// drinksSurcharge derives the drinks-package premium from the package
// reference fare. Nil unless both inputs are present and non-zero; a zero is
// "fare absent", not "free drinks".
func drinksSurcharge(packagePrice, flexPrice float64) *float64 {
	if packagePrice == 0 || flexPrice == 0 {
		return nil
	}
	d := packagePrice - flexPrice
	return &d
}

// convertUSD converts a USD credit amount to GBP at the configured rate,
// rounded to pence. Conversion happens exactly once, at ingestion.
func convertUSD(amount, rate float64) float64 {
	if amount == 0 {
		return 0
	}
	return math.Round(amount*rate*100) / 100
}
