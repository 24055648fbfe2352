package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/example/skyfare/internal/autocomplete"
	"github.com/example/skyfare/internal/client"
	"github.com/spf13/cobra"
)

// Options configures the root command. Backend is built from --proxy when nil.
type Options struct {
	Backend       Backend
	In            io.Reader
	Out           io.Writer
	Logger        *slog.Logger
	LookupOptions []autocomplete.Option
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	opts    Options
	app     *App
	proxy   string
	timeout time.Duration
	search  SearchOptions
}

func NewRootCommand(opts Options) *RootCommand {
	root := &RootCommand{opts: opts}

	root.cmd = &cobra.Command{
		Use:   "flightsearch",
		Short: "Search cheap flights through the skyfare proxy",
		Long: `flightsearch looks up airports and searches flight prices through the skyfare proxy.

EXAMPLES:
  flightsearch places lond
  flightsearch search --from NYC --to LON --depart 2025-06-01
  flightsearch search --from NYC --to LON --depart 2025-06-01 --return 2025-06-10 --stops direct --sort departure
  flightsearch interactive

CONFIGURATION:
  SKYFARE_PROXY_URL                      Proxy base URL (default: http://localhost:8080)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			root.initApp()
			return nil
		},
	}

	flags := root.cmd.PersistentFlags()
	flags.StringVar(&root.proxy, "proxy", envOr("SKYFARE_PROXY_URL", client.DefaultBaseURL), "proxy base URL (overrides SKYFARE_PROXY_URL)")
	flags.DurationVar(&root.timeout, "timeout", 30*time.Second, "timeout for places and search commands")

	root.addSubcommands()
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (r *RootCommand) initApp() {
	backend := r.opts.Backend
	if backend == nil {
		backend = client.NewClient(r.proxy)
	}
	in, out := r.opts.In, r.opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	r.app = NewApp(backend, in, out, r.opts.Logger, r.opts.LookupOptions...)
}

func (r *RootCommand) addSubcommands() {
	placesCmd := &cobra.Command{
		Use:   "places <term>",
		Short: "Look up airports and cities",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), r.timeout)
			defer cancel()

			return NewPlacesCommand(r.app).Execute(ctx, args)
		},
	}

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search flight prices",
		Long: `Search flight prices between two airport or city codes.
Passing --return makes it a round trip.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), r.timeout)
			defer cancel()

			return NewSearchCommand(r.app).Execute(ctx, r.search)
		},
	}
	sf := searchCmd.Flags()
	sf.StringVar(&r.search.From, "from", "", "origin code, e.g. NYC")
	sf.StringVar(&r.search.To, "to", "", "destination code, e.g. LON")
	sf.StringVar(&r.search.Depart, "depart", "", "departure date YYYY-MM-DD")
	sf.StringVar(&r.search.Return, "return", "", "return date YYYY-MM-DD (round trip)")
	sf.StringVar(&r.search.Airline, "airline", "", "airline name or code contains")
	sf.StringVar(&r.search.MinPrice, "min-price", "", "minimum price")
	sf.StringVar(&r.search.MaxPrice, "max-price", "", "maximum price")
	sf.StringVar(&r.search.Stops, "stops", "any", "any, direct, 1 or 2+")
	sf.StringVar(&r.search.Sort, "sort", "price", "price, departure or duration")
	sf.StringVar(&r.search.Order, "order", "asc", "asc or desc")

	interactiveCmd := &cobra.Command{
		Use:   "interactive",
		Short: "Fill in the search form line by line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewInteractiveCommand(r.app).Execute(cmd.Context(), args)
		},
	}

	r.cmd.AddCommand(placesCmd, searchCmd, interactiveCmd)
}

// SetArgs overrides os.Args, mainly for tests.
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}
