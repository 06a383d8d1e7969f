// Package pricing implements the quote pricing engine: campaign discounts,
// rush-fee timeline resolution and quote totals. All functions are pure and
// operate on whole MXN units (no fractional currency is modeled).
package pricing

// percentOf returns percent% of amount, rounded half-up to the nearest whole
// currency unit. Both inputs are expected to be non-negative.
func percentOf(amount int64, percent int) int64 {
	if amount <= 0 || percent <= 0 {
		return 0
	}
	return (amount*int64(percent) + 50) / 100
}

// clampPercent bounds a percentage to [0, 100]. Out-of-range values are a
// caller bug but must never corrupt money math.
func clampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// DiscountResult is the outcome of applying a percentage discount.
type DiscountResult struct {
	Original   int64 `json:"original"`
	Discounted int64 `json:"discounted"`
	Savings    int64 `json:"savings"`
	Percent    int   `json:"percent"`
}

// ApplyDiscount computes the discounted price for a base price and a
// percentage. Percent is clamped to [0, 100]; a non-positive percent leaves
// the price untouched. Invariant: Discounted + Savings == Original.
func ApplyDiscount(basePrice int64, percent int) DiscountResult {
	percent = clampPercent(percent)
	if percent == 0 || basePrice <= 0 {
		original := basePrice
		if original < 0 {
			original = 0
		}
		return DiscountResult{Original: original, Discounted: original, Savings: 0, Percent: percent}
	}

	savings := percentOf(basePrice, percent)
	return DiscountResult{
		Original:   basePrice,
		Discounted: basePrice - savings,
		Savings:    savings,
		Percent:    percent,
	}
}
