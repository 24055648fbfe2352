package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/example/skyfare/internal/autocomplete"
	"github.com/example/skyfare/internal/models"
	"github.com/example/skyfare/internal/offers"
	"github.com/example/skyfare/internal/searchform"
)

// Backend is the flight search proxy as seen by the CLI.
type Backend interface {
	Search(ctx context.Context, q models.SearchQuery) (offers.Response, error)
	Lookup(ctx context.Context, term string) ([]models.Place, error)
}

// App holds the dependencies shared by all commands
type App struct {
	backend    Backend
	in         io.Reader
	out        *syncWriter
	logger     *slog.Logger
	lookupOpts []autocomplete.Option
}

func NewApp(backend Backend, in io.Reader, out io.Writer, logger *slog.Logger, lookupOpts ...autocomplete.Option) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{
		backend:    backend,
		in:         in,
		out:        &syncWriter{w: out},
		logger:     logger,
		lookupOpts: lookupOpts,
	}
}

func (a *App) newForm(ctx context.Context, complete searchform.Completion, extra ...searchform.Option) *searchform.Form {
	opts := append([]searchform.Option{
		searchform.WithLogger(a.logger),
		searchform.WithLookupOptions(a.lookupOpts...),
	}, extra...)
	return searchform.New(ctx, a.backend, complete, opts...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// syncWriter serializes writes from the command loop and autocomplete callbacks.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
