// Package whatsapp builds the WhatsApp hand-off for completed quotes: the
// pre-filled message, the wa.me deep link and its QR code.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"webexpress_backend/internal/pricing"
	"webexpress_backend/platform/phone"
)

// QuoteSummary carries everything the hand-off message needs.
type QuoteSummary struct {
	ContactName string
	PlanName    string
	PlanPrice   int64
	Addons      []pricing.Addon
	Timeline    *pricing.TimelineOption
	Totals      pricing.Totals
}

// BuildQuoteMessage renders the pre-filled message sent to the sales number.
// Line-itemized so the conversation starts with full context.
func BuildQuoteMessage(summary QuoteSummary) string {
	var b strings.Builder

	name := strings.TrimSpace(summary.ContactName)
	if name != "" {
		fmt.Fprintf(&b, "Hola, soy %s.", name)
	} else {
		b.WriteString("Hola.")
	}
	fmt.Fprintf(&b, " Quiero cotizar el plan *%s*.\n\n", summary.PlanName)

	b.WriteString("Resumen de mi cotización:\n")
	fmt.Fprintf(&b, "- Plan %s: %s\n", summary.PlanName, formatMXN(summary.PlanPrice))

	for _, addon := range summary.Addons {
		suffix := ""
		switch addon.Billing {
		case pricing.BillingMonthly:
			suffix = "/mes"
		case pricing.BillingYearly:
			suffix = "/año"
		}
		fmt.Fprintf(&b, "- %s: %s%s\n", addon.Name, formatMXN(addon.Price), suffix)
	}

	if summary.Totals.HasRushFee {
		fmt.Fprintf(&b, "- Entrega express: %s\n", formatMXN(summary.Totals.RushFeeAmount))
	}

	if summary.Totals.DiscountPercent > 0 {
		fmt.Fprintf(&b, "- Descuento (%d%%): -%s\n", summary.Totals.DiscountPercent, formatMXN(summary.Totals.InitialDiscount))
	}

	fmt.Fprintf(&b, "\n*Total inicial: %s*\n", formatMXN(summary.Totals.InitialTotal))
	if summary.Totals.HasMonthly {
		fmt.Fprintf(&b, "*Mensualidad: %s/mes*\n", formatMXN(summary.Totals.MonthlyTotal))
	}
	if summary.Totals.HasYearly {
		fmt.Fprintf(&b, "*Anualidad: %s/año*\n", formatMXN(summary.Totals.YearlyTotal))
	}

	if summary.Timeline != nil {
		fmt.Fprintf(&b, "\nEntrega estimada: %s (%d a %d días)\n",
			summary.Timeline.DisplayName, summary.Timeline.DeliveryDaysMin, summary.Timeline.DeliveryDaysMax)
	}

	return strings.TrimRight(b.String(), "\n")
}

// DeepLink builds the wa.me URL that opens a chat with the sales number and
// the quote message pre-filled.
func DeepLink(salesNumber, message string) string {
	normalized := strings.TrimPrefix(phone.NormalizeE164(salesNumber), "+")
	return fmt.Sprintf("https://wa.me/%s?text=%s", normalized, url.QueryEscape(message))
}

// QRCodePNG renders the deep link as a PNG for desktop visitors who finish
// the wizard on a screen without WhatsApp.
func QRCodePNG(link string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode whatsapp qr: %w", err)
	}
	return png, nil
}

func formatMXN(amount int64) string {
	// Thousands separated with commas, MXN has no fractional web prices here.
	digits := fmt.Sprintf("%d", amount)
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)

	out := "$" + strings.Join(parts, ",") + " MXN"
	if negative {
		return "-" + out
	}
	return out
}
