package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/skyfare/internal/models"
	"github.com/example/skyfare/internal/offers"
	"github.com/example/skyfare/internal/searchform"
)

const interactiveHelp = `commands:
  from <text>            type into Origin (suggestions appear after a short pause)
  to <text>              type into Destination
  pick from|to <n>       choose suggestion n
  depart <YYYY-MM-DD>    departure date
  return <YYYY-MM-DD>    return date
  oneway on|off          trip type
  search                 submit the form
  filter [airline=<s>] [min=<n>] [max=<n>] [stops=any|direct|1|2+]
  filter clear           remove all filters
  sort price|departure|duration [asc|desc]
  show                   print the form and results
  quit`

// InteractiveCommand drives the search form from text lines on stdin.
type InteractiveCommand struct {
	app  *App
	form *searchform.Form
}

func NewInteractiveCommand(app *App) *InteractiveCommand {
	return &InteractiveCommand{app: app}
}

func (c *InteractiveCommand) Execute(ctx context.Context, args []string) error {
	c.form = c.app.newForm(ctx, searchform.Render(c.app.backend),
		searchform.WithSuggestionHook(c.printSuggestions),
	)
	defer c.form.Close()

	c.app.printf("%s\n", interactiveHelp)
	scanner := bufio.NewScanner(c.app.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		quit, err := c.handle(ctx, line)
		if err != nil {
			c.app.printf("error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

func (c *InteractiveCommand) handle(ctx context.Context, line string) (bool, error) {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "quit", "exit":
		return true, nil
	case "help":
		c.app.printf("%s\n", interactiveHelp)
	case "from":
		c.form.SetOriginInput(rest)
	case "to":
		c.form.SetDestinationInput(rest)
	case "pick":
		return false, c.pick(rest)
	case "depart":
		c.form.SetDepartDate(rest)
	case "return":
		c.form.SetReturnDate(rest)
	case "oneway":
		switch strings.ToLower(rest) {
		case "on":
			c.form.SetOneWay(true)
		case "off":
			c.form.SetOneWay(false)
		default:
			return false, errors.New("usage: oneway on|off")
		}
	case "search":
		if err := c.form.Submit(ctx); err != nil && !errors.Is(err, searchform.ErrIncomplete) {
			c.app.logger.Debug("search failed", "error", err)
		}
		printView(c.app.out, c.form.View())
	case "filter":
		return false, c.filter(rest)
	case "sort":
		return false, c.sort(rest)
	case "show":
		c.show()
	default:
		return false, fmt.Errorf("unknown command %q (try help)", verb)
	}
	return false, nil
}

func (c *InteractiveCommand) pick(rest string) error {
	field, n, _ := strings.Cut(rest, " ")
	i, err := strconv.Atoi(strings.TrimSpace(n))
	if err != nil {
		return errors.New("usage: pick from|to <n>")
	}
	switch field {
	case "from":
		return c.form.PickOrigin(i)
	case "to":
		return c.form.PickDestination(i)
	}
	return errors.New("usage: pick from|to <n>")
}

func (c *InteractiveCommand) filter(rest string) error {
	if rest == "clear" {
		c.form.SetFilters(offers.FilterCriteria{})
		printView(c.app.out, c.form.View())
		return nil
	}

	cur := c.form.Filters()
	airline, minPrice, maxPrice, stops := cur.AirlineSubstring, formatPrice(cur.MinPrice), formatPrice(cur.MaxPrice), cur.Stops.String()
	for _, kv := range strings.Fields(rest) {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("filter expects key=value, got %q", kv)
		}
		switch k {
		case "airline":
			airline = v
		case "min":
			minPrice = v
		case "max":
			maxPrice = v
		case "stops":
			stops = v
		default:
			return fmt.Errorf("unknown filter %q", k)
		}
	}

	filters, err := parseFilters(airline, minPrice, maxPrice, stops)
	if err != nil {
		return err
	}
	c.form.SetFilters(filters)
	printView(c.app.out, c.form.View())
	return nil
}

func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func (c *InteractiveCommand) sort(rest string) error {
	key, order, _ := strings.Cut(rest, " ")
	if strings.TrimSpace(order) == "" {
		spec, err := offers.ParseSortSpec(key, "")
		if err != nil {
			return err
		}
		c.form.ToggleSort(spec.Key)
	} else {
		spec, err := offers.ParseSortSpec(key, order)
		if err != nil {
			return err
		}
		c.form.SetSort(spec)
	}
	printView(c.app.out, c.form.View())
	return nil
}

func (c *InteractiveCommand) show() {
	f := c.form.Fields()
	trip := "one-way"
	if !f.OneWay {
		trip = "round trip, return " + or(f.ReturnDate, "-")
	}
	c.app.printf("origin: %s [%s]\ndestination: %s [%s]\ndepart: %s (%s)\nstate: %s\n",
		or(f.OriginLabel, "-"), or(f.OriginCode, "-"),
		or(f.DestinationLabel, "-"), or(f.DestinationCode, "-"),
		or(f.DepartDate, "-"), trip,
		c.form.State(),
	)
	printView(c.app.out, c.form.View())
}

func (c *InteractiveCommand) printSuggestions(field searchform.Field, places []models.Place) {
	c.app.printf("%s suggestions:\n", field)
	printPlaces(c.app.out, places)
}
