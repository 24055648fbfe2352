package autocomplete

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/example/skyfare/internal/models"
)

const (
	DefaultMinLength = 2
	DefaultWait      = 500 * time.Millisecond
)

// PlaceFinder resolves a search term to city/airport suggestions.
type PlaceFinder interface {
	Lookup(ctx context.Context, term string) ([]models.Place, error)
}

// Lookup drives the suggestions of one input field.
type Lookup struct {
	ctx       context.Context
	finder    PlaceFinder
	debouncer *Debouncer
	logger    *slog.Logger
	minLength int
	onChange  func([]models.Place)

	mu          sync.Mutex
	seq         uint64
	suggestions []models.Place
}

type Option func(*lookupOptions)

type lookupOptions struct {
	wait      time.Duration
	minLength int
	after     AfterFunc
	logger    *slog.Logger
	onChange  func([]models.Place)
}

func WithWait(d time.Duration) Option {
	return func(o *lookupOptions) { o.wait = d }
}

func WithMinLength(n int) Option {
	return func(o *lookupOptions) { o.minLength = n }
}

func WithAfterFunc(f AfterFunc) Option {
	return func(o *lookupOptions) { o.after = f }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *lookupOptions) { o.logger = l }
}

// WithOnChange registers fn to receive every applied suggestion set.
func WithOnChange(fn func([]models.Place)) Option {
	return func(o *lookupOptions) { o.onChange = fn }
}

// NewLookup creates a Lookup whose network calls run under ctx.
func NewLookup(ctx context.Context, finder PlaceFinder, opts ...Option) *Lookup {
	o := lookupOptions{wait: DefaultWait, minLength: DefaultMinLength, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Lookup{
		ctx:       ctx,
		finder:    finder,
		debouncer: NewDebouncer(o.wait, o.after),
		logger:    o.logger,
		minLength: o.minLength,
		onChange:  o.onChange,
	}
}

// SetInput reacts to the field text changing.
func (l *Lookup) SetInput(text string) {
	if utf8.RuneCountInString(text) < l.minLength {
		l.Clear()
		return
	}
	l.debouncer.Trigger(func() { l.fetch(text) })
}

// Clear drops suggestions and discards any pending or in-flight lookup.
func (l *Lookup) Clear() {
	l.debouncer.Stop()
	l.mu.Lock()
	l.seq++
	changed := len(l.suggestions) > 0
	l.suggestions = nil
	l.mu.Unlock()
	if changed {
		l.notify(nil)
	}
}

// Suggestions returns a copy of the current suggestions.
func (l *Lookup) Suggestions() []models.Place {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.suggestions)
}

// Close stops any pending lookup.
func (l *Lookup) Close() {
	l.debouncer.Stop()
}

func (l *Lookup) fetch(term string) {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.mu.Unlock()

	places, err := l.finder.Lookup(l.ctx, term)

	l.mu.Lock()
	if seq != l.seq {
		l.mu.Unlock()
		return
	}
	if err != nil {
		l.mu.Unlock()
		l.logger.Warn("place lookup failed", "term", term, "error", err)
		return
	}
	l.suggestions = places
	l.mu.Unlock()
	l.notify(places)
}

func (l *Lookup) notify(places []models.Place) {
	if l.onChange != nil {
		l.onChange(slices.Clone(places))
	}
}
