package offers

import (
	"cmp"
	"slices"
	"strings"
)

// Offer is a FlightOffer with the display fields the results view needs.
type Offer struct {
	FlightOffer
	AirlineName string
	Stops       int
}

func Derive(o FlightOffer) Offer {
	stops := 0
	if o.Transfers != nil {
		stops = *o.Transfers
	}
	return Offer{FlightOffer: o, AirlineName: AirlineName(o.AirlineCode), Stops: stops}
}

func (f FilterCriteria) Match(o Offer) bool {
	if f.AirlineSubstring != "" && !strings.Contains(strings.ToLower(o.AirlineName), strings.ToLower(f.AirlineSubstring)) {
		return false
	}
	if f.MinPrice != nil && o.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && o.Price > *f.MaxPrice {
		return false
	}
	return f.Stops.Match(o.Stops)
}

// Apply derives, filters and sorts. The input slice is not modified and equal keys
// keep their relative input order.
func Apply(in []FlightOffer, filters FilterCriteria, spec SortSpec) []Offer {
	out := make([]Offer, 0, len(in))
	for _, o := range in {
		d := Derive(o)
		if filters.Match(d) {
			out = append(out, d)
		}
	}
	Sort(out, spec)
	return out
}

// Sort orders offers in place by a single key.
func Sort(list []Offer, spec SortSpec) {
	compare := comparator(spec.Key)
	if spec.Order == Desc {
		slices.SortStableFunc(list, func(a, b Offer) int { return compare(b, a) })
		return
	}
	slices.SortStableFunc(list, compare)
}

func comparator(key SortKey) func(a, b Offer) int {
	switch key {
	case SortByDeparture:
		return func(a, b Offer) int {
			ta, _ := a.DepartureTime()
			tb, _ := b.DepartureTime()
			return ta.Compare(tb)
		}
	case SortByDuration:
		return func(a, b Offer) int {
			return cmp.Compare(durationOrZero(a.FlightOffer), durationOrZero(b.FlightOffer))
		}
	default:
		return func(a, b Offer) int {
			return cmp.Compare(a.Price, b.Price)
		}
	}
}

func durationOrZero(o FlightOffer) int {
	if o.DurationMinutes == nil {
		return 0
	}
	return *o.DurationMinutes
}
