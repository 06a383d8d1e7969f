package pricing

import "testing"

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestResolveTimelines_NilPlanYieldsDefaultFlexible(t *testing.T) {
	options := ResolveTimelines(nil, nil)

	if len(options) != 1 {
		t.Fatalf("expected 1 option, got %d", len(options))
	}
	if options[0].TimelineID != TimelineFlexible {
		t.Fatalf("expected flexible, got %s", options[0].TimelineID)
	}
	if options[0].DeliveryDaysMin != 3 || options[0].DeliveryDaysMax != 10 {
		t.Fatalf("expected default 3-10 window, got %d-%d",
			options[0].DeliveryDaysMin, options[0].DeliveryDaysMax)
	}
}

func TestResolveTimelines_NoFeesStillReturnsFlexible(t *testing.T) {
	plan := &Plan{Slug: "starter", Name: "Starter", Price: 5000}
	options := ResolveTimelines(plan, nil)

	if len(options) != 1 {
		t.Fatalf("expected 1 option, got %d", len(options))
	}
	opt := options[0]
	if opt.IsExpress || opt.RushAmount != 0 {
		t.Fatalf("flexible option must carry no markup, got %+v", opt)
	}
	if opt.DeliveryDaysMin != 2 || opt.DeliveryDaysMax != 7 {
		t.Fatalf("expected starter 2-7 window, got %d-%d", opt.DeliveryDaysMin, opt.DeliveryDaysMax)
	}
}

func TestResolveTimelines_ExpressBeforeFlexibleWithComputedAmount(t *testing.T) {
	plan := &Plan{Slug: "business", Name: "Business", Price: 10000}
	fees := []RushFee{
		{TimelineID: TimelineWeek, DisplayName: "Una semana", MarkupPercent: 10, DisplayOrder: 2},
		{TimelineID: TimelineUrgent, DisplayName: "Urgente", MarkupPercent: 25, MarkupFixed: int64Ptr(500), DisplayOrder: 1},
	}

	options := ResolveTimelines(plan, fees)

	if len(options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(options))
	}
	if options[0].TimelineID != TimelineUrgent {
		t.Fatalf("expected urgent first by display order, got %s", options[0].TimelineID)
	}
	// 25% of 10000 + 500 fixed
	if options[0].RushAmount != 3000 {
		t.Fatalf("expected urgent rush amount 3000, got %d", options[0].RushAmount)
	}
	if options[1].RushAmount != 1000 {
		t.Fatalf("expected week rush amount 1000, got %d", options[1].RushAmount)
	}
	last := options[len(options)-1]
	if last.TimelineID != TimelineFlexible || last.IsExpress {
		t.Fatalf("expected synthesized flexible last, got %+v", last)
	}
}

func TestResolveTimelines_FallbackWindowsDerivedFromStandard(t *testing.T) {
	// pro-plus standard window is 5-30; urgent halves it, week takes 3/4.
	plan := &Plan{Slug: "pro-plus", Name: "Pro Plus", Price: 20000}
	fees := []RushFee{
		{TimelineID: TimelineUrgent, MarkupPercent: 30, DisplayOrder: 1},
		{TimelineID: TimelineWeek, MarkupPercent: 15, DisplayOrder: 2},
	}

	options := ResolveTimelines(plan, fees)

	if options[0].DeliveryDaysMin != 2 || options[0].DeliveryDaysMax != 15 {
		t.Fatalf("expected urgent 2-15, got %d-%d", options[0].DeliveryDaysMin, options[0].DeliveryDaysMax)
	}
	if options[1].DeliveryDaysMin != 3 || options[1].DeliveryDaysMax != 22 {
		t.Fatalf("expected week 3-22, got %d-%d", options[1].DeliveryDaysMin, options[1].DeliveryDaysMax)
	}
}

func TestResolveTimelines_ExpressClampedBelowStandardMax(t *testing.T) {
	plan := &Plan{Slug: "starter", Name: "Starter", Price: 5000}
	fees := []RushFee{
		{TimelineID: TimelineWeek, MarkupPercent: 10, DeliveryDaysMin: intPtr(5), DeliveryDaysMax: intPtr(12), DisplayOrder: 1},
	}

	options := ResolveTimelines(plan, fees)

	express := options[0]
	if express.DeliveryDaysMax >= 7 {
		t.Fatalf("express max %d must be clamped below starter standard max 7", express.DeliveryDaysMax)
	}
	if express.DeliveryDaysMin > express.DeliveryDaysMax {
		t.Fatalf("inverted day range %d-%d", express.DeliveryDaysMin, express.DeliveryDaysMax)
	}
}

func TestResolveTimelines_ExplicitFlexibleRowIsUsed(t *testing.T) {
	plan := &Plan{Slug: "business", Name: "Business", Price: 10000}
	fees := []RushFee{
		{TimelineID: TimelineFlexible, DisplayName: "Sin prisa", DeliveryDaysMin: intPtr(7), DeliveryDaysMax: intPtr(14), DisplayOrder: 9},
		{TimelineID: TimelineUrgent, MarkupPercent: 20, DisplayOrder: 1},
	}

	options := ResolveTimelines(plan, fees)

	last := options[len(options)-1]
	if last.DisplayName != "Sin prisa" {
		t.Fatalf("expected configured flexible row, got %+v", last)
	}
	if last.DeliveryDaysMin != 7 || last.DeliveryDaysMax != 14 {
		t.Fatalf("expected explicit 7-14 window, got %d-%d", last.DeliveryDaysMin, last.DeliveryDaysMax)
	}
}

func TestRushAmount_ZeroMarkupIsZero(t *testing.T) {
	fee := RushFee{TimelineID: TimelineFlexible}
	if amount := RushAmount(99999, fee); amount != 0 {
		t.Fatalf("expected 0 rush amount, got %d", amount)
	}
}
