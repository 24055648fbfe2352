package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/skyfare/internal/models"
	"github.com/example/skyfare/internal/offers"
	"github.com/example/skyfare/internal/searchform"
	"github.com/example/skyfare/internal/validator"
)

// SearchOptions are the flags of the search command
type SearchOptions struct {
	From     string
	To       string
	Depart   string
	Return   string
	Airline  string
	MinPrice string
	MaxPrice string
	Stops    string
	Sort     string
	Order    string
}

// SearchCommand handles the search command
type SearchCommand struct {
	app *App
}

func NewSearchCommand(app *App) *SearchCommand {
	return &SearchCommand{app: app}
}

// Execute submits the form once and prints the results.
func (c *SearchCommand) Execute(ctx context.Context, opts SearchOptions) error {
	filters, err := parseFilters(opts.Airline, opts.MinPrice, opts.MaxPrice, opts.Stops)
	if err != nil {
		return err
	}
	sortSpec, err := offers.ParseSortSpec(opts.Sort, opts.Order)
	if err != nil {
		return err
	}

	form := c.app.newForm(ctx, searchform.Render(c.app.backend))
	defer form.Close()

	for _, p := range []struct {
		value  string
		field  string
		choose func(models.Place)
	}{
		{opts.From, "--from", form.SelectOrigin},
		{opts.To, "--to", form.SelectDestination},
	} {
		if p.value == "" {
			continue
		}
		code, err := validator.ValidateCode(p.value)
		if err != nil {
			return fmt.Errorf("%s: %q is not an airport or city code", p.field, p.value)
		}
		p.choose(models.Place{Name: code, Code: code})
	}
	form.SetDepartDate(opts.Depart)
	if opts.Return != "" {
		form.SetOneWay(false)
		form.SetReturnDate(opts.Return)
	}
	form.SetFilters(filters)
	form.SetSort(sortSpec)

	if err := form.Submit(ctx); err != nil {
		if errors.Is(err, searchform.ErrIncomplete) {
			return errors.New(form.Message())
		}
		return fmt.Errorf("%s (%w)", form.Message(), err)
	}

	printView(c.app.out, form.View())
	return nil
}

func parseFilters(airline, minPrice, maxPrice, stops string) (offers.FilterCriteria, error) {
	c := offers.FilterCriteria{AirlineSubstring: strings.TrimSpace(airline)}

	var err error
	if c.MinPrice, err = parsePrice("min price", minPrice); err != nil {
		return c, err
	}
	if c.MaxPrice, err = parsePrice("max price", maxPrice); err != nil {
		return c, err
	}
	if c.Stops, err = offers.ParseStopsFilter(stops); err != nil {
		return c, err
	}
	return c, nil
}

func parsePrice(name, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("invalid %s %q", name, s)
	}
	return &v, nil
}
