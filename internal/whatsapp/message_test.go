package whatsapp

import (
	"strings"
	"testing"

	"webexpress_backend/internal/pricing"
)

func sampleSummary() QuoteSummary {
	return QuoteSummary{
		ContactName: "Ana",
		PlanName:    "Business",
		PlanPrice:   8990,
		Addons: []pricing.Addon{
			{Name: "SEO mensual", Price: 1200, Billing: pricing.BillingMonthly},
			{Name: "Diseno de logotipo", Price: 1500, Billing: pricing.BillingOneTime},
		},
		Timeline: &pricing.TimelineOption{
			DisplayName:     "En una semana",
			DeliveryDaysMin: 3,
			DeliveryDaysMax: 7,
		},
		Totals: pricing.Totals{
			InitialSubtotal: 11839,
			InitialDiscount: 1184,
			InitialTotal:    10655,
			MonthlyTotal:    1080,
			RushFeeAmount:   1349,
			DiscountPercent: 10,
			HasMonthly:      true,
			HasRushFee:      true,
		},
	}
}

func TestBuildQuoteMessage_LineItems(t *testing.T) {
	msg := BuildQuoteMessage(sampleSummary())

	for _, want := range []string{
		"Hola, soy Ana",
		"*Business*",
		"- Plan Business: $8,990 MXN",
		"- SEO mensual: $1,200 MXN/mes",
		"- Diseno de logotipo: $1,500 MXN",
		"- Entrega express: $1,349 MXN",
		"- Descuento (10%): -$1,184 MXN",
		"*Total inicial: $10,655 MXN*",
		"*Mensualidad: $1,080 MXN/mes*",
		"Entrega estimada: En una semana (3 a 7 días)",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildQuoteMessage_AnonymousGreeting(t *testing.T) {
	summary := sampleSummary()
	summary.ContactName = "  "

	msg := BuildQuoteMessage(summary)
	if !strings.HasPrefix(msg, "Hola.") {
		t.Fatalf("expected neutral greeting, got %q", msg)
	}
}

func TestBuildQuoteMessage_OmitsEmptySections(t *testing.T) {
	summary := QuoteSummary{
		PlanName:  "Starter",
		PlanPrice: 4990,
		Totals:    pricing.Totals{InitialSubtotal: 4990, InitialTotal: 4990},
	}

	msg := BuildQuoteMessage(summary)
	for _, absent := range []string{"Descuento", "Entrega express", "Mensualidad", "Anualidad", "Entrega estimada"} {
		if strings.Contains(msg, absent) {
			t.Fatalf("message should omit %q:\n%s", absent, msg)
		}
	}
}

func TestDeepLink(t *testing.T) {
	link := DeepLink("+52 55 1234 5678", "Hola, quiero cotizar")

	if !strings.HasPrefix(link, "https://wa.me/525512345678?text=") {
		t.Fatalf("unexpected deep link: %s", link)
	}
	if strings.Contains(link, " ") {
		t.Fatalf("deep link must be url-encoded: %s", link)
	}
}

func TestQRCodePNG(t *testing.T) {
	png, err := QRCodePNG("https://wa.me/525512345678?text=hola", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(png) == 0 {
		t.Fatal("expected png bytes")
	}
	// PNG magic header
	if png[0] != 0x89 || string(png[1:4]) != "PNG" {
		t.Fatal("output is not a png")
	}
}

func TestFormatMXN(t *testing.T) {
	cases := map[int64]string{
		0:       "$0 MXN",
		999:     "$999 MXN",
		4990:    "$4,990 MXN",
		1234567: "$1,234,567 MXN",
	}
	for amount, want := range cases {
		if got := formatMXN(amount); got != want {
			t.Fatalf("formatMXN(%d) = %q, want %q", amount, got, want)
		}
	}
}
