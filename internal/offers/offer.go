package offers

import (
	"bytes"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FlightOffer is one priced itinerary from prices_for_dates. Optional upstream
// fields are pointers or empty strings.
type FlightOffer struct {
	AirlineCode     string       `json:"airline"`
	FlightNumber    FlightNumber `json:"flight_number,omitempty"`
	Origin          string       `json:"origin"`
	Destination     string       `json:"destination"`
	DepartureAt     string       `json:"departure_at"`
	DurationMinutes *int         `json:"duration,omitempty"`
	Transfers       *int         `json:"transfers,omitempty"`
	Price           float64      `json:"price"`
	ReturnAt        string       `json:"return_at,omitempty"`
	DeepLink        string       `json:"link,omitempty"`
}

// FlightNumber is sent by the upstream API either as a string or as a number.
type FlightNumber string

func (f *FlightNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		*f = FlightNumber(s)
		return nil
	}
	*f = FlightNumber(b)
	return nil
}

// DepartureTime parses DepartureAt; ok is false when it is absent or malformed.
func (o FlightOffer) DepartureTime() (time.Time, bool) {
	return parseTimestamp(o.DepartureAt)
}

func (o FlightOffer) ReturnTime() (time.Time, bool) {
	return parseTimestamp(o.ReturnAt)
}

// ArrivalTime is departure plus duration, as the results card shows it.
func (o FlightOffer) ArrivalTime() (time.Time, bool) {
	dep, ok := o.DepartureTime()
	if !ok || o.DurationMinutes == nil {
		return time.Time{}, false
	}
	return dep.Add(time.Duration(*o.DurationMinutes) * time.Minute), true
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Response is the prices_for_dates envelope. Fields other than data are ignored.
type Response struct {
	Success  bool          `json:"success"`
	Data     []FlightOffer `json:"data"`
	Currency string        `json:"currency,omitempty"`
}

func DecodeResponse(body []byte) (Response, error) {
	var r Response
	if err := json.Unmarshal(body, &r); err != nil {
		return Response{}, err
	}
	return r, nil
}
