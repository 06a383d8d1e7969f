package pricing

import "sort"

// Timeline identifiers understood by the resolver.
const (
	TimelineUrgent   = "urgent"
	TimelineWeek     = "week"
	TimelineMonth    = "month"
	TimelineFlexible = "flexible"
)

// Plan is the pricing view of a catalog plan.
type Plan struct {
	Slug  string
	Name  string
	Price int64
}

// RushFee is a configured markup row for a (plan, timeline) pair.
type RushFee struct {
	TimelineID      string
	DisplayName     string
	MarkupPercent   int
	MarkupFixed     *int64
	DeliveryDaysMin *int
	DeliveryDaysMax *int
	DisplayOrder    int
}

// TimelineOption is a delivery choice offered at step 2 of the wizard.
type TimelineOption struct {
	TimelineID      string `json:"timelineId"`
	DisplayName     string `json:"displayName"`
	RushAmount      int64  `json:"rushAmount"`
	MarkupPercent   int    `json:"markupPercent"`
	MarkupFixed     int64  `json:"markupFixed"`
	DeliveryDaysMin int    `json:"deliveryDaysMin"`
	DeliveryDaysMax int    `json:"deliveryDaysMax"`
	IsExpress       bool   `json:"isExpress"`
}

// Standard delivery windows per plan type, used when a rush-fee row has no
// explicit day bounds.
var standardWindows = map[string][2]int{
	"starter":  {2, 7},
	"business": {3, 10},
	"pro-plus": {5, 30},
}

const (
	defaultWindowMin = 3
	defaultWindowMax = 10
	minDeliveryDays  = 2
)

func standardWindow(planSlug string) (int, int) {
	if w, ok := standardWindows[planSlug]; ok {
		return w[0], w[1]
	}
	return defaultWindowMin, defaultWindowMax
}

// RushAmount computes the markup amount for a plan price: percentage of the
// plan price (rounded half-up) plus the optional fixed component. The markup
// never applies to add-ons.
func RushAmount(planPrice int64, fee RushFee) int64 {
	amount := percentOf(planPrice, clampPercent(fee.MarkupPercent))
	if fee.MarkupFixed != nil && *fee.MarkupFixed > 0 {
		amount += *fee.MarkupFixed
	}
	return amount
}

// fallbackWindow derives delivery-day bounds for an express timeline from the
// plan's standard window: urgent is roughly half the standard window, week
// roughly three quarters, with a floor of 2 days.
func fallbackWindow(timelineID string, stdMin, stdMax int) (int, int) {
	switch timelineID {
	case TimelineUrgent:
		return atLeast(stdMin/2, minDeliveryDays), atLeast(stdMax/2, minDeliveryDays)
	case TimelineWeek:
		return atLeast(stdMin*3/4, minDeliveryDays), atLeast(stdMax*3/4, minDeliveryDays)
	default:
		return stdMin, stdMax
	}
}

func atLeast(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

// ResolveTimelines builds the ordered list of timeline options for a plan from
// its active rush-fee rows. Express options (markup percent > 0 or a fixed
// markup) come first, sorted by display order then ascending delivery days.
// Exactly one non-markup standard option is always present: an explicit
// flexible row if configured, otherwise a synthesized one covering the
// remainder of the plan's standard window. A nil plan yields a single
// default-range flexible option.
func ResolveTimelines(plan *Plan, fees []RushFee) []TimelineOption {
	if plan == nil {
		return []TimelineOption{{
			TimelineID:      TimelineFlexible,
			DisplayName:     "Entrega flexible",
			DeliveryDaysMin: defaultWindowMin,
			DeliveryDaysMax: defaultWindowMax,
		}}
	}

	stdMin, stdMax := standardWindow(plan.Slug)

	var express []TimelineOption
	var flexible *TimelineOption

	for _, fee := range fees {
		hasMarkup := fee.MarkupPercent > 0 || (fee.MarkupFixed != nil && *fee.MarkupFixed > 0)
		if !hasMarkup {
			if flexible == nil && fee.TimelineID == TimelineFlexible {
				opt := timelineOption(plan, fee, stdMin, stdMax)
				flexible = &opt
			}
			continue
		}
		express = append(express, timelineOption(plan, fee, stdMin, stdMax))
	}

	orderIndex := make(map[string]int, len(fees))
	for _, fee := range fees {
		orderIndex[fee.TimelineID] = fee.DisplayOrder
	}
	sort.SliceStable(express, func(i, j int) bool {
		oi, oj := orderIndex[express[i].TimelineID], orderIndex[express[j].TimelineID]
		if oi != oj {
			return oi < oj
		}
		return express[i].DeliveryDaysMax < express[j].DeliveryDaysMax
	})

	// Express must never read slower than standard delivery.
	for i := range express {
		if express[i].DeliveryDaysMax >= stdMax {
			express[i].DeliveryDaysMax = atLeast(stdMax-1, minDeliveryDays)
		}
		if express[i].DeliveryDaysMin > express[i].DeliveryDaysMax {
			express[i].DeliveryDaysMin = express[i].DeliveryDaysMax
		}
	}

	if flexible == nil {
		flexMin := stdMin
		for _, opt := range express {
			if opt.DeliveryDaysMax+1 > flexMin {
				flexMin = opt.DeliveryDaysMax + 1
			}
		}
		if flexMin > stdMax {
			flexMin = stdMax
		}
		flexible = &TimelineOption{
			TimelineID:      TimelineFlexible,
			DisplayName:     "Entrega flexible",
			DeliveryDaysMin: flexMin,
			DeliveryDaysMax: stdMax,
		}
	}

	return append(express, *flexible)
}

func timelineOption(plan *Plan, fee RushFee, stdMin, stdMax int) TimelineOption {
	dayMin, dayMax := fallbackWindow(fee.TimelineID, stdMin, stdMax)
	if fee.DeliveryDaysMin != nil && *fee.DeliveryDaysMin > 0 {
		dayMin = *fee.DeliveryDaysMin
	}
	if fee.DeliveryDaysMax != nil && *fee.DeliveryDaysMax > 0 {
		dayMax = *fee.DeliveryDaysMax
	}

	var fixed int64
	if fee.MarkupFixed != nil {
		fixed = *fee.MarkupFixed
	}

	name := fee.DisplayName
	if name == "" {
		name = fee.TimelineID
	}

	hasMarkup := fee.MarkupPercent > 0 || fixed > 0
	return TimelineOption{
		TimelineID:      fee.TimelineID,
		DisplayName:     name,
		RushAmount:      RushAmount(plan.Price, fee),
		MarkupPercent:   clampPercent(fee.MarkupPercent),
		MarkupFixed:     fixed,
		DeliveryDaysMin: dayMin,
		DeliveryDaysMax: dayMax,
		IsExpress:       hasMarkup,
	}
}
