package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/skyfare/internal/models"
	"github.com/example/skyfare/internal/offers"
	"github.com/example/skyfare/internal/searchform"
)

const departureLayout = "2006-01-02 15:04"

func printPlaces(w io.Writer, places []models.Place) {
	if len(places) == 0 {
		fmt.Fprintln(w, "No places found")
		return
	}
	for i, p := range places {
		fmt.Fprintf(w, "%2d  %-4s %s\n", i, p.Code, p.Label())
	}
}

// printView writes the results table with the count line and sort indicators.
func printView(w io.Writer, v searchform.View) {
	if v.Message != "" {
		fmt.Fprintln(w, v.Message)
	}
	if v.Total == 0 {
		return
	}
	fmt.Fprintln(w, v.Summary())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "AIRLINE\tROUTE\tDEPARTURE%s\tDURATION%s\tSTOPS\tPRICE%s\tLINK\n",
		v.Sort.Indicator(offers.SortByDeparture),
		v.Sort.Indicator(offers.SortByDuration),
		v.Sort.Indicator(offers.SortByPrice),
	)
	for _, o := range v.Offers {
		fmt.Fprintf(tw, "%s\t%s → %s\t%s\t%s\t%s\t%s\t%s\n",
			o.AirlineName,
			o.Origin, o.Destination,
			departure(o),
			offers.FormatDuration(o.DurationMinutes),
			offers.StopsLabel(o.Stops),
			offers.FormatPrice(o.Price, v.Currency),
			or(o.DeepLinkURL(), offers.NotAvailable),
		)
	}
	tw.Flush()
}

func departure(o offers.Offer) string {
	if t, ok := o.DepartureTime(); ok {
		return t.Format(departureLayout)
	}
	return offers.NotAvailable
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
