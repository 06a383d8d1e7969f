package pricing

import "testing"

func TestApplyDiscount_ZeroPercentLeavesPriceUntouched(t *testing.T) {
	result := ApplyDiscount(5000, 0)

	if result.Discounted != 5000 {
		t.Fatalf("expected discounted 5000, got %d", result.Discounted)
	}
	if result.Savings != 0 {
		t.Fatalf("expected savings 0, got %d", result.Savings)
	}
}

func TestApplyDiscount_RoundsHalfUp(t *testing.T) {
	// 15% of 4990 = 748.5, rounds up to 749
	result := ApplyDiscount(4990, 15)

	if result.Savings != 749 {
		t.Fatalf("expected savings 749, got %d", result.Savings)
	}
	if result.Discounted != 4241 {
		t.Fatalf("expected discounted 4241, got %d", result.Discounted)
	}
}

func TestApplyDiscount_ClampsOutOfRangePercent(t *testing.T) {
	if got := ApplyDiscount(1000, -10); got.Discounted != 1000 || got.Savings != 0 {
		t.Fatalf("negative percent should be a no-op, got %+v", got)
	}
	if got := ApplyDiscount(1000, 150); got.Discounted != 0 || got.Savings != 1000 {
		t.Fatalf("percent above 100 should clamp to 100, got %+v", got)
	}
}

func TestApplyDiscount_SavingsPlusDiscountedEqualsOriginal(t *testing.T) {
	prices := []int64{0, 1, 99, 100, 101, 4990, 5000, 123456}
	for _, price := range prices {
		for percent := 0; percent <= 100; percent += 7 {
			result := ApplyDiscount(price, percent)
			if result.Discounted+result.Savings != result.Original {
				t.Fatalf("price %d percent %d: %d + %d != %d",
					price, percent, result.Discounted, result.Savings, result.Original)
			}
			if result.Discounted > result.Original {
				t.Fatalf("price %d percent %d: discounted %d exceeds original %d",
					price, percent, result.Discounted, result.Original)
			}
		}
	}
}
