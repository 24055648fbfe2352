package searchform

import (
	"fmt"

	"github.com/example/skyfare/internal/offers"
)

type View struct {
	Offers   []offers.Offer
	Shown    int
	Total    int
	Currency string
	Sort     offers.SortSpec
	Message  string
}

// Summary is the count line above the results list.
func (v View) Summary() string {
	return fmt.Sprintf("Showing %d of %d flights", v.Shown, v.Total)
}

// View applies the current filters and sort to the held results.
func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := offers.Apply(f.results, f.filters, f.sort)
	return View{
		Offers:   list,
		Shown:    len(list),
		Total:    len(f.results),
		Currency: f.currency,
		Sort:     f.sort,
		Message:  f.message,
	}
}

func (f *Form) SetFilters(c offers.FilterCriteria) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = c
}

func (f *Form) Filters() offers.FilterCriteria {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filters
}

func (f *Form) SetSort(s offers.SortSpec) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sort = s
}

// ToggleSort selects key, flipping the order when it is already selected.
func (f *Form) ToggleSort(key offers.SortKey) offers.SortSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sort = f.sort.Toggle(key)
	return f.sort
}
