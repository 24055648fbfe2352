package cli

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/example/skyfare/internal/autocomplete"
)

// PlacesCommand handles the places command
type PlacesCommand struct {
	app *App
}

func NewPlacesCommand(app *App) *PlacesCommand {
	return &PlacesCommand{app: app}
}

// Execute looks up city and airport suggestions for the joined args.
func (c *PlacesCommand) Execute(ctx context.Context, args []string) error {
	term := strings.TrimSpace(strings.Join(args, " "))
	if utf8.RuneCountInString(term) < autocomplete.DefaultMinLength {
		return fmt.Errorf("search term must be at least %d characters", autocomplete.DefaultMinLength)
	}

	places, err := c.app.backend.Lookup(ctx, term)
	if err != nil {
		return fmt.Errorf("failed to look up places: %w", err)
	}
	printPlaces(c.app.out, places)
	return nil
}
