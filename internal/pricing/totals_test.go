package pricing

import "testing"

func TestComputeTotals_RushAndDiscountScenario(t *testing.T) {
	// plan 5000, one-time addon 800, 20% campaign, 15% rush markup
	plan := &Plan{Slug: "starter", Name: "Starter", Price: 5000}
	addons := []Addon{{ID: "seo", Name: "SEO", Price: 800, Billing: BillingOneTime}}
	rush := &RushFee{TimelineID: TimelineUrgent, MarkupPercent: 15}

	totals := ComputeTotals(plan, addons, 20, rush)

	if totals.RushFeeAmount != 750 {
		t.Fatalf("expected rush fee 750, got %d", totals.RushFeeAmount)
	}
	if totals.InitialSubtotal != 6550 {
		t.Fatalf("expected initial subtotal 6550, got %d", totals.InitialSubtotal)
	}
	if totals.InitialDiscount != 1310 {
		t.Fatalf("expected initial discount 1310, got %d", totals.InitialDiscount)
	}
	if totals.InitialTotal != 5240 {
		t.Fatalf("expected initial total 5240, got %d", totals.InitialTotal)
	}
	if !totals.HasRushFee {
		t.Fatal("expected hasRushFee true")
	}
}

func TestComputeTotals_MonthlyAddonScenario(t *testing.T) {
	// plan 10000, monthly addon 300, no discount, no rush
	plan := &Plan{Slug: "business", Name: "Business", Price: 10000}
	addons := []Addon{{ID: "hosting", Name: "Hosting", Price: 300, Billing: BillingMonthly}}

	totals := ComputeTotals(plan, addons, 0, nil)

	if totals.InitialTotal != 10000 {
		t.Fatalf("expected initial total 10000, got %d", totals.InitialTotal)
	}
	if totals.MonthlyTotal != 300 {
		t.Fatalf("expected monthly total 300, got %d", totals.MonthlyTotal)
	}
	if !totals.HasMonthly {
		t.Fatal("expected hasMonthly true")
	}
	if totals.HasRushFee || totals.RushFeeAmount != 0 {
		t.Fatalf("expected no rush fee, got %+v", totals)
	}
}

func TestComputeTotals_NilPlanYieldsZeroes(t *testing.T) {
	totals := ComputeTotals(nil, []Addon{{ID: "seo", Price: 800}}, 20, &RushFee{MarkupPercent: 15})

	if totals.InitialTotal != 0 || totals.MonthlyTotal != 0 || totals.YearlyTotal != 0 || totals.RushFeeAmount != 0 {
		t.Fatalf("expected all-zero totals, got %+v", totals)
	}
}

func TestComputeTotals_ZeroMarkupRushIsNotARushFee(t *testing.T) {
	plan := &Plan{Slug: "starter", Price: 5000}
	rush := &RushFee{TimelineID: TimelineFlexible, MarkupPercent: 0}

	totals := ComputeTotals(plan, nil, 0, rush)

	if totals.RushFeeAmount != 0 {
		t.Fatalf("expected rush amount 0, got %d", totals.RushFeeAmount)
	}
	if totals.HasRushFee {
		t.Fatal("expected hasRushFee false")
	}
}

func TestComputeTotals_InvariantUnderAddonReordering(t *testing.T) {
	plan := &Plan{Slug: "business", Price: 12000}
	addons := []Addon{
		{ID: "a", Price: 500, Billing: BillingOneTime},
		{ID: "b", Price: 300, Billing: BillingMonthly},
		{ID: "c", Price: 1200, Billing: BillingYearly},
		{ID: "d", Price: 750},
	}
	reversed := []Addon{addons[3], addons[2], addons[1], addons[0]}

	first := ComputeTotals(plan, addons, 10, nil)
	second := ComputeTotals(plan, reversed, 10, nil)

	if first != second {
		t.Fatalf("totals changed under reordering: %+v vs %+v", first, second)
	}
}

func TestComputeTotals_YearlyAddonsGetOwnBucket(t *testing.T) {
	plan := &Plan{Slug: "starter", Price: 5000}
	addons := []Addon{{ID: "domain", Price: 450, Billing: BillingYearly}}

	totals := ComputeTotals(plan, addons, 0, nil)

	if totals.InitialTotal != 5000 {
		t.Fatalf("yearly addon must not enter the initial bucket, got %d", totals.InitialTotal)
	}
	if totals.MonthlyTotal != 0 {
		t.Fatalf("yearly addon must not enter the monthly bucket, got %d", totals.MonthlyTotal)
	}
	if totals.YearlyTotal != 450 || !totals.HasYearly {
		t.Fatalf("expected yearly bucket 450, got %+v", totals)
	}
}

func TestComputeTotals_DiscountAppliesToRushInflatedSubtotal(t *testing.T) {
	plan := &Plan{Slug: "starter", Price: 1000}
	rush := &RushFee{TimelineID: TimelineUrgent, MarkupPercent: 50}

	totals := ComputeTotals(plan, nil, 10, rush)

	// subtotal 1500 including the 500 rush fee, 10% off the whole thing
	if totals.InitialDiscount != 150 {
		t.Fatalf("expected discount 150 over rush-inflated subtotal, got %d", totals.InitialDiscount)
	}
	if totals.InitialTotal != 1350 {
		t.Fatalf("expected total 1350, got %d", totals.InitialTotal)
	}
}
