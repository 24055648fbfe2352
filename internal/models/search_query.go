package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/skyfare/internal/validator"
)

// SearchQuery is what the search form submits and the proxy forwards upstream.
// ReturnDate is empty when absent.
type SearchQuery struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	DepartDate  string `json:"depart_date"`
	ReturnDate  string `json:"return_date,omitempty"`
	OneWay      bool   `json:"one_way"`
}

// ErrMissingRequired is matched by ValidationErrors when any required field is absent.
var ErrMissingRequired = errors.New("missing required params")

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, ", ")
}

func (v ValidationErrors) Is(target error) bool {
	if target != ErrMissingRequired {
		return false
	}
	for _, e := range v {
		if e.Message == "is required" {
			return true
		}
	}
	return false
}

// NewSearchQuery builds a query from raw request values. Both departure_at/depart_date
// and return_at/return_date spellings are accepted by the caller.
func NewSearchQuery(origin, destination, departDate, returnDate, oneWay string) (*SearchQuery, error) {
	ow, err := validator.ParseBool(oneWay, true)
	if err != nil {
		return nil, ValidationErrors{{Field: "one_way", Message: "must be true or false"}}
	}
	return &SearchQuery{
		Origin:      strings.TrimSpace(origin),
		Destination: strings.TrimSpace(destination),
		DepartDate:  strings.TrimSpace(departDate),
		ReturnDate:  strings.TrimSpace(returnDate),
		OneWay:      ow,
	}, nil
}

// Validate normalizes codes in place and reports every failing field.
func (q *SearchQuery) Validate() error {
	var errs ValidationErrors

	if q.Origin == "" {
		errs = append(errs, ValidationError{Field: "origin", Message: "is required"})
	} else if code, err := validator.ValidateCode(q.Origin); err != nil {
		errs = append(errs, ValidationError{Field: "origin", Message: err.Error()})
	} else {
		q.Origin = code
	}

	if q.Destination == "" {
		errs = append(errs, ValidationError{Field: "destination", Message: "is required"})
	} else if code, err := validator.ValidateCode(q.Destination); err != nil {
		errs = append(errs, ValidationError{Field: "destination", Message: err.Error()})
	} else {
		q.Destination = code
	}

	if q.DepartDate == "" {
		errs = append(errs, ValidationError{Field: "departure_at", Message: "is required"})
	} else if _, err := validator.ValidateDate(q.DepartDate); err != nil {
		errs = append(errs, ValidationError{Field: "departure_at", Message: err.Error()})
	}

	switch {
	case !q.OneWay && q.ReturnDate == "":
		errs = append(errs, ValidationError{Field: "return_at", Message: "is required"})
	case q.ReturnDate != "":
		if _, err := validator.ValidateDate(q.ReturnDate); err != nil {
			errs = append(errs, ValidationError{Field: "return_at", Message: err.Error()})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CacheKey identifies queries that produce the same upstream request.
func (q SearchQuery) CacheKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%t", q.Origin, q.Destination, q.DepartDate, q.ReturnDate, q.OneWay)
}
