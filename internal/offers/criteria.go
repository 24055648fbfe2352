package offers

import (
	"fmt"
	"strings"
)

type StopsFilter int

const (
	StopsAny StopsFilter = iota
	StopsDirect
	StopsOne
	StopsTwoPlus
)

func (s StopsFilter) String() string {
	switch s {
	case StopsDirect:
		return "direct"
	case StopsOne:
		return "1"
	case StopsTwoPlus:
		return "2+"
	default:
		return "any"
	}
}

// ParseStopsFilter accepts the select values of the results page and their spelled-out forms.
func ParseStopsFilter(s string) (StopsFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return StopsAny, nil
	case "direct", "0":
		return StopsDirect, nil
	case "1", "one":
		return StopsOne, nil
	case "2+", "twoplus", "two_plus":
		return StopsTwoPlus, nil
	}
	return StopsAny, fmt.Errorf("invalid stops filter %q", s)
}

func (s StopsFilter) Match(stops int) bool {
	switch s {
	case StopsDirect:
		return stops == 0
	case StopsOne:
		return stops == 1
	case StopsTwoPlus:
		return stops >= 2
	default:
		return true
	}
}

// FilterCriteria is a conjunction; zero value matches everything.
type FilterCriteria struct {
	AirlineSubstring string
	MinPrice         *float64
	MaxPrice         *float64
	Stops            StopsFilter
}

type SortKey string

const (
	SortByPrice     SortKey = "price"
	SortByDeparture SortKey = "departure"
	SortByDuration  SortKey = "duration"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

type SortSpec struct {
	Key   SortKey
	Order SortOrder
}

func DefaultSort() SortSpec {
	return SortSpec{Key: SortByPrice, Order: Asc}
}

func ParseSortSpec(key, order string) (SortSpec, error) {
	spec := DefaultSort()
	switch SortKey(strings.ToLower(strings.TrimSpace(key))) {
	case "":
	case SortByPrice:
	case SortByDeparture:
		spec.Key = SortByDeparture
	case SortByDuration:
		spec.Key = SortByDuration
	default:
		return spec, fmt.Errorf("invalid sort key %q", key)
	}
	switch SortOrder(strings.ToLower(strings.TrimSpace(order))) {
	case "", Asc:
	case Desc:
		spec.Order = Desc
	default:
		return spec, fmt.Errorf("invalid sort order %q", order)
	}
	return spec, nil
}

// Toggle flips the order when key is already selected, otherwise selects key ascending.
func (s SortSpec) Toggle(key SortKey) SortSpec {
	if s.Key == key {
		if s.Order == Asc {
			return SortSpec{Key: key, Order: Desc}
		}
		return SortSpec{Key: key, Order: Asc}
	}
	return SortSpec{Key: key, Order: Asc}
}

// Indicator is the arrow shown next to the active sort key.
func (s SortSpec) Indicator(key SortKey) string {
	if s.Key != key {
		return ""
	}
	if s.Order == Desc {
		return "↓"
	}
	return "↑"
}
