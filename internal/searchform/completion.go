package searchform

import (
	"context"

	"github.com/example/skyfare/internal/models"
	"github.com/example/skyfare/internal/offers"
)

// Searcher runs a flight search through the proxy.
type Searcher interface {
	Search(ctx context.Context, q models.SearchQuery) (offers.Response, error)
}

// Render searches in place and keeps the results on the form.
func Render(s Searcher) Completion {
	return func(ctx context.Context, f *Form, sub Submission) error {
		f.mu.Lock()
		f.state = Loading
		f.mu.Unlock()

		resp, err := s.Search(ctx, sub.Query)

		f.mu.Lock()
		defer f.mu.Unlock()
		if err != nil {
			f.logger.Error("flight search failed", "origin", sub.Query.Origin, "destination", sub.Query.Destination, "error", err)
			f.state = Editing
			f.message = MsgFetchFailed
			f.results, f.currency = nil, ""
			return err
		}

		f.state = Results
		f.results, f.currency = resp.Data, resp.Currency
		if len(resp.Data) == 0 {
			f.message = MsgNoFlights
		}
		return nil
	}
}

// Handoff passes the submission on, typically to a results view, and leaves
// the form editable.
func Handoff(receive func(Submission)) Completion {
	return func(ctx context.Context, f *Form, sub Submission) error {
		receive(sub)
		return nil
	}
}
