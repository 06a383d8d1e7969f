package pricing

// Billing cadence values for add-ons. A missing billing type means one-time.
const (
	BillingOneTime = "one-time"
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
)

// Addon is the pricing view of a catalog add-on.
type Addon struct {
	ID      string
	Name    string
	Price   int64
	Billing string
}

// Totals is the full quote breakdown: a one-time initial bucket (plan +
// one-time add-ons + rush fee) and independent recurring buckets. The
// campaign discount applies to each bucket separately, and to the
// rush-inflated initial subtotal including the rush fee itself.
type Totals struct {
	InitialSubtotal int64 `json:"initialSubtotal"`
	InitialDiscount int64 `json:"initialDiscount"`
	InitialTotal    int64 `json:"initialTotal"`
	MonthlySubtotal int64 `json:"monthlySubtotal"`
	MonthlyDiscount int64 `json:"monthlyDiscount"`
	MonthlyTotal    int64 `json:"monthlyTotal"`
	YearlySubtotal  int64 `json:"yearlySubtotal"`
	YearlyDiscount  int64 `json:"yearlyDiscount"`
	YearlyTotal     int64 `json:"yearlyTotal"`
	RushFeeAmount   int64 `json:"rushFeeAmount"`
	DiscountPercent int   `json:"discountPercent"`
	HasMonthly      bool  `json:"hasMonthly"`
	HasYearly       bool  `json:"hasYearly"`
	HasRushFee      bool  `json:"hasRushFee"`
}

func isOneTime(billing string) bool {
	switch billing {
	case "", BillingOneTime, "one_time":
		return true
	default:
		return false
	}
}

// ComputeTotals combines plan price, selected add-ons, the optional rush fee
// and the campaign discount percentage. A nil plan yields all-zero totals.
// Yearly add-ons get their own recurring bucket: folding them into the
// monthly total would overstate the recurring charge, dropping them would
// understate the quote.
func ComputeTotals(plan *Plan, addons []Addon, discountPercent int, rush *RushFee) Totals {
	if plan == nil {
		return Totals{DiscountPercent: clampPercent(discountPercent)}
	}

	discountPercent = clampPercent(discountPercent)

	priceBeforeRush := plan.Price
	var monthlySubtotal, yearlySubtotal int64
	for _, addon := range addons {
		switch {
		case addon.Billing == BillingMonthly:
			monthlySubtotal += addon.Price
		case addon.Billing == BillingYearly:
			yearlySubtotal += addon.Price
		case isOneTime(addon.Billing):
			priceBeforeRush += addon.Price
		}
	}

	var rushAmount int64
	hasRush := false
	if rush != nil {
		rushAmount = RushAmount(plan.Price, *rush)
		hasRush = rush.MarkupPercent > 0
	}

	initial := ApplyDiscount(priceBeforeRush+rushAmount, discountPercent)
	monthly := ApplyDiscount(monthlySubtotal, discountPercent)
	yearly := ApplyDiscount(yearlySubtotal, discountPercent)

	return Totals{
		InitialSubtotal: initial.Original,
		InitialDiscount: initial.Savings,
		InitialTotal:    initial.Discounted,
		MonthlySubtotal: monthly.Original,
		MonthlyDiscount: monthly.Savings,
		MonthlyTotal:    monthly.Discounted,
		YearlySubtotal:  yearly.Original,
		YearlyDiscount:  yearly.Savings,
		YearlyTotal:     yearly.Discounted,
		RushFeeAmount:   rushAmount,
		DiscountPercent: discountPercent,
		HasMonthly:      monthly.Discounted > 0,
		HasYearly:       yearly.Discounted > 0,
		HasRushFee:      hasRush,
	}
}
