// Package searchform holds the flight search form shared by the landing and
// results views. What happens on a valid submit is decided by a Completion.
package searchform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/example/skyfare/internal/autocomplete"
	"github.com/example/skyfare/internal/models"
	"github.com/example/skyfare/internal/offers"
)

type State int

const (
	Editing State = iota
	Submitting
	Loading
	Results
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Loading:
		return "loading"
	case Results:
		return "results"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

const (
	MsgMissingRequired = "Please fill in Origin, Destination, and Departure Date."
	MsgMissingReturn   = "Please choose a return date for a round trip."
	MsgInvalidFields   = "Please check the search details and try again."
	MsgNoFlights       = "No flights found for the selected route and dates."
	MsgFetchFailed     = "An error occurred while fetching flight data. Please try again."
)

var (
	// ErrIncomplete is returned by Submit when the form fails local validation.
	ErrIncomplete = errors.New("searchform: incomplete")
	// ErrBusy is returned by Submit while a previous submission is running.
	ErrBusy = errors.New("searchform: submission in progress")
)

// Submission is a validated search plus the labels shown for its places.
type Submission struct {
	Query            models.SearchQuery
	OriginLabel      string
	DestinationLabel string
}

// Completion runs after a successful local validation.
type Completion func(ctx context.Context, f *Form, sub Submission) error

type Form struct {
	complete    Completion
	origin      *autocomplete.Lookup
	destination *autocomplete.Lookup
	logger      *slog.Logger

	mu             sync.Mutex
	state          State
	originLabel    string
	originCode     string
	destLabel      string
	destCode       string
	departDate     string
	returnDate     string
	oneWay         bool
	message        string
	results        []offers.FlightOffer
	currency       string
	filters        offers.FilterCriteria
	sort           offers.SortSpec
	lastSubmission *Submission
}

type Option func(*formOptions)

type formOptions struct {
	lookupOpts  []autocomplete.Option
	logger      *slog.Logger
	suggestHook func(Field, []models.Place)
}

// Field names an autocomplete input.
type Field string

const (
	FieldOrigin      Field = "origin"
	FieldDestination Field = "destination"
)

// WithLookupOptions configures both place lookups.
func WithLookupOptions(opts ...autocomplete.Option) Option {
	return func(o *formOptions) { o.lookupOpts = append(o.lookupOpts, opts...) }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *formOptions) { o.logger = l }
}

// WithSuggestionHook is called with every suggestion set applied to a field.
func WithSuggestionHook(fn func(Field, []models.Place)) Option {
	return func(o *formOptions) { o.suggestHook = fn }
}

// New returns an empty one-way form. ctx bounds the autocomplete lookups.
func New(ctx context.Context, finder autocomplete.PlaceFinder, complete Completion, opts ...Option) *Form {
	o := formOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	lookupFor := func(field Field) *autocomplete.Lookup {
		opts := append([]autocomplete.Option{autocomplete.WithLogger(o.logger)}, o.lookupOpts...)
		if hook := o.suggestHook; hook != nil {
			opts = append(opts, autocomplete.WithOnChange(func(p []models.Place) { hook(field, p) }))
		}
		return autocomplete.NewLookup(ctx, finder, opts...)
	}

	return &Form{
		complete:    complete,
		origin:      lookupFor(FieldOrigin),
		destination: lookupFor(FieldDestination),
		logger:      o.logger,
		oneWay:      true,
		sort:        offers.DefaultSort(),
	}
}

// NewFromSubmission prefills a form from a handed-off submission and searches
// right away when the required fields are present.
func NewFromSubmission(ctx context.Context, finder autocomplete.PlaceFinder, complete Completion, sub Submission, opts ...Option) (*Form, error) {
	f := New(ctx, finder, complete, opts...)

	q := sub.Query
	f.mu.Lock()
	f.originCode, f.originLabel = q.Origin, labelOr(sub.OriginLabel, q.Origin)
	f.destCode, f.destLabel = q.Destination, labelOr(sub.DestinationLabel, q.Destination)
	f.departDate = q.DepartDate
	f.returnDate = q.ReturnDate
	f.oneWay = q.OneWay
	f.mu.Unlock()

	if q.Origin == "" || q.Destination == "" || q.DepartDate == "" {
		return f, nil
	}
	return f, f.Submit(ctx)
}

func labelOr(label, code string) string {
	if label != "" {
		return label
	}
	return code
}

// SetOriginInput records typed text. The previously selected code is dropped.
func (f *Form) SetOriginInput(text string) {
	f.mu.Lock()
	f.originLabel, f.originCode = text, ""
	f.mu.Unlock()
	f.origin.SetInput(text)
}

func (f *Form) SetDestinationInput(text string) {
	f.mu.Lock()
	f.destLabel, f.destCode = text, ""
	f.mu.Unlock()
	f.destination.SetInput(text)
}

func (f *Form) SelectOrigin(p models.Place) {
	f.mu.Lock()
	f.originLabel, f.originCode = p.Label(), p.Code
	f.mu.Unlock()
	f.origin.Clear()
}

func (f *Form) SelectDestination(p models.Place) {
	f.mu.Lock()
	f.destLabel, f.destCode = p.Label(), p.Code
	f.mu.Unlock()
	f.destination.Clear()
}

// PickOrigin selects the i-th current origin suggestion.
func (f *Form) PickOrigin(i int) error {
	p, err := pick(f.origin.Suggestions(), i)
	if err != nil {
		return err
	}
	f.SelectOrigin(p)
	return nil
}

func (f *Form) PickDestination(i int) error {
	p, err := pick(f.destination.Suggestions(), i)
	if err != nil {
		return err
	}
	f.SelectDestination(p)
	return nil
}

func pick(list []models.Place, i int) (models.Place, error) {
	if i < 0 || i >= len(list) {
		return models.Place{}, fmt.Errorf("searchform: no suggestion %d (have %d)", i, len(list))
	}
	return list[i], nil
}

func (f *Form) OriginSuggestions() []models.Place      { return f.origin.Suggestions() }
func (f *Form) DestinationSuggestions() []models.Place { return f.destination.Suggestions() }

func (f *Form) SetDepartDate(d string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.departDate = strings.TrimSpace(d)
}

func (f *Form) SetReturnDate(d string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.returnDate = strings.TrimSpace(d)
}

// SetOneWay switches trip type. The return date is kept but not sent while one-way.
func (f *Form) SetOneWay(oneWay bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.oneWay = oneWay
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Message is the inline message shown under the form, empty when none.
func (f *Form) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Fields is a read-only snapshot of the inputs.
type Fields struct {
	OriginLabel      string
	OriginCode       string
	DestinationLabel string
	DestinationCode  string
	DepartDate       string
	ReturnDate       string
	OneWay           bool
}

func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Fields{
		OriginLabel:      f.originLabel,
		OriginCode:       f.originCode,
		DestinationLabel: f.destLabel,
		DestinationCode:  f.destCode,
		DepartDate:       f.departDate,
		ReturnDate:       f.returnDate,
		OneWay:           f.oneWay,
	}
}

// Submit validates locally and hands the submission to the completion.
// Validation failures never reach the network.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state == Submitting || f.state == Loading {
		f.mu.Unlock()
		return ErrBusy
	}

	sub, msg := f.buildLocked()
	if msg != "" {
		f.state = Editing
		f.message = msg
		f.mu.Unlock()
		return ErrIncomplete
	}
	f.state = Submitting
	f.message = ""
	f.lastSubmission = &sub
	f.mu.Unlock()

	err := f.complete(ctx, f, sub)

	f.mu.Lock()
	if f.state == Submitting {
		f.state = Editing
	}
	f.mu.Unlock()
	return err
}

func (f *Form) buildLocked() (Submission, string) {
	if f.originCode == "" || f.destCode == "" || f.departDate == "" {
		return Submission{}, MsgMissingRequired
	}
	if !f.oneWay && f.returnDate == "" {
		return Submission{}, MsgMissingReturn
	}

	q := models.SearchQuery{
		Origin:      f.originCode,
		Destination: f.destCode,
		DepartDate:  f.departDate,
		OneWay:      f.oneWay,
	}
	if !f.oneWay {
		q.ReturnDate = f.returnDate
	}
	if err := q.Validate(); err != nil {
		f.logger.Debug("search form rejected", "error", err)
		return Submission{}, MsgInvalidFields
	}
	return Submission{Query: q, OriginLabel: f.originLabel, DestinationLabel: f.destLabel}, ""
}

// LastSubmission is the most recent submission that passed validation.
func (f *Form) LastSubmission() (Submission, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lastSubmission == nil {
		return Submission{}, false
	}
	return *f.lastSubmission, true
}

// Close stops pending autocomplete lookups.
func (f *Form) Close() {
	f.origin.Close()
	f.destination.Close()
}
