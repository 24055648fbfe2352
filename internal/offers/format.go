package offers

import "fmt"

const (
	DeepLinkBase = "https://www.aviasales.com"
	NotAvailable = "N/A"
)

// DeepLinkURL returns the booking URL, or "" when the offer has no link.
func (o FlightOffer) DeepLinkURL() string {
	if o.DeepLink == "" {
		return ""
	}
	return DeepLinkBase + o.DeepLink
}

func FormatDuration(minutes *int) string {
	if minutes == nil || *minutes <= 0 {
		return NotAvailable
	}
	return fmt.Sprintf("%dh %dm", *minutes/60, *minutes%60)
}

func StopsLabel(stops int) string {
	switch {
	case stops <= 0:
		return "Direct"
	case stops == 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", stops)
	}
}

func FormatPrice(price float64, currency string) string {
	if currency == "" {
		currency = "usd"
	}
	return fmt.Sprintf("%.0f %s", price, currency)
}
