// Package providers holds stand-ins for the Travelpayouts API used for local
// development and demos.
package providers

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/example/skyfare/internal/models"
	"github.com/example/skyfare/internal/offers"
	"github.com/example/skyfare/internal/travelpayouts"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var sandboxPlaces = []models.Place{
	{Name: "New York", CountryName: "United States", Code: "NYC"},
	{Name: "John F. Kennedy International Airport", CountryName: "United States", Code: "JFK"},
	{Name: "London", CountryName: "United Kingdom", Code: "LON"},
	{Name: "London Heathrow Airport", CountryName: "United Kingdom", Code: "LHR"},
	{Name: "Paris", CountryName: "France", Code: "PAR"},
	{Name: "Berlin", CountryName: "Germany", Code: "BER"},
	{Name: "Dubai", CountryName: "United Arab Emirates", Code: "DXB"},
	{Name: "Tokyo", CountryName: "Japan", Code: "TYO"},
	{Name: "Delhi", CountryName: "India", Code: "DEL"},
	{Name: "Mumbai", CountryName: "India", Code: "BOM"},
}

var sandboxAirlines = []string{"BA", "AF", "LH", "EK", "AI", "DL", "TK", "QR"}

// Sandbox answers like the upstream API with generated offers, random latency
// and an optional simulated failure rate.
type Sandbox struct {
	mu         sync.Mutex
	avgLatency float64
	failRate   float64
	rng        *rand.Rand
}

func NewSandbox(avgLatency, failRate float64, seedOffset int64) *Sandbox {
	seed := time.Now().UnixNano() + seedOffset
	return &Sandbox{avgLatency: avgLatency, failRate: failRate, rng: rand.New(rand.NewSource(seed))}
}

func (s *Sandbox) PricesForDates(ctx context.Context, q models.SearchQuery) ([]byte, error) {
	if err := s.wait(ctx, travelpayouts.EndpointPrices); err != nil {
		return nil, err
	}

	s.mu.Lock()
	n := 3 + s.rng.Intn(6)
	data := make([]offers.FlightOffer, 0, n)
	for i := 0; i < n; i++ {
		duration := 90 + s.rng.Intn(900)
		transfers := s.rng.Intn(3)
		offer := offers.FlightOffer{
			AirlineCode:     sandboxAirlines[s.rng.Intn(len(sandboxAirlines))],
			FlightNumber:    offers.FlightNumber(fmt.Sprintf("%d", 100+s.rng.Intn(900))),
			Origin:          q.Origin,
			Destination:     q.Destination,
			DepartureAt:     departure(q.DepartDate, s.rng.Intn(24), s.rng.Intn(4)*15),
			DurationMinutes: &duration,
			Transfers:       &transfers,
			Price:           float64(80 + s.rng.Intn(900)),
			DeepLink:        fmt.Sprintf("/search/%s%s%s", q.Origin, strings.ReplaceAll(q.DepartDate, "-", ""), q.Destination),
		}
		if !q.OneWay {
			offer.ReturnAt = departure(q.ReturnDate, s.rng.Intn(24), 0)
		}
		data = append(data, offer)
	}
	s.mu.Unlock()

	return json.Marshal(offers.Response{Success: true, Data: data, Currency: "usd"})
}

func (s *Sandbox) Places(ctx context.Context, term, locale string) ([]byte, error) {
	if err := s.wait(ctx, travelpayouts.EndpointPlaces); err != nil {
		return nil, err
	}

	term = strings.ToLower(strings.TrimSpace(term))
	matches := []models.Place{}
	for _, p := range sandboxPlaces {
		if strings.HasPrefix(strings.ToLower(p.Name), term) || strings.HasPrefix(strings.ToLower(p.Code), term) {
			matches = append(matches, p)
		}
	}
	return json.Marshal(matches)
}

func (s *Sandbox) wait(ctx context.Context, endpoint string) error {
	s.mu.Lock()
	latency := SampleLatencyFromRng(s.rng, s.avgLatency)
	fail := ShouldFailFromRng(s.rng, s.failRate)
	s.mu.Unlock()

	// variable latency and context cancelable
	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return ctx.Err()
	}
	if fail {
		return &travelpayouts.UpstreamError{Endpoint: endpoint, StatusCode: 503, Body: "sandbox error (simulated)"}
	}
	return nil
}

func departure(date string, hour, minute int) string {
	if len(date) == len("2006-01") {
		date += "-15"
	}
	return fmt.Sprintf("%sT%02d:%02d:00+00:00", date, hour, minute)
}

func SampleLatencyFromRng(rng *rand.Rand, avg float64) time.Duration {
	ms := float64(50) + rng.ExpFloat64()*avg*200.0
	return time.Duration(ms) * time.Millisecond
}

func ShouldFailFromRng(rng *rand.Rand, rate float64) bool {
	return rng.Float64() < rate
}
