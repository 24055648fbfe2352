package providers_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/example/skyfare/internal/models"
	"github.com/example/skyfare/internal/offers"
	"github.com/example/skyfare/internal/providers"
	"github.com/example/skyfare/internal/travelpayouts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to create a quick sandbox that never fails
func newTestSandbox() *providers.Sandbox {
	return providers.NewSandbox(0.0, 0.0, 0)
}

func TestSandbox_PricesForDates(t *testing.T) {
	s := newTestSandbox()
	q := models.SearchQuery{Origin: "NYC", Destination: "LON", DepartDate: "2025-06-01", ReturnDate: "2025-06-10", OneWay: false}

	body, err := s.PricesForDates(context.Background(), q)
	require.NoError(t, err)

	resp, err := offers.DecodeResponse(body)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.Data)
	for _, o := range resp.Data {
		assert.Equal(t, "NYC", o.Origin)
		assert.Equal(t, "LON", o.Destination)
		assert.Greater(t, o.Price, 0.0)
		_, ok := o.DepartureTime()
		assert.True(t, ok)
		assert.NotEmpty(t, o.ReturnAt)
		assert.NotEqual(t, offers.UnknownAirline, offers.AirlineName(o.AirlineCode))
	}
}

func TestSandbox_Places(t *testing.T) {
	s := newTestSandbox()

	body, err := s.Places(context.Background(), "lon", "en")
	require.NoError(t, err)

	places, err := travelpayouts.DecodePlaces(body)
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "LON", places[0].Code)

	body, err = s.Places(context.Background(), "zz", "en")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
}

func TestSandbox_Failure(t *testing.T) {
	s := providers.NewSandbox(0.0, 1.0, 0) // failRate 100%

	_, err := s.PricesForDates(context.Background(), models.SearchQuery{Origin: "NYC", Destination: "LON", DepartDate: "2025-06-01", OneWay: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, travelpayouts.ErrTemporary))
}

func TestSandbox_ContextCancelled(t *testing.T) {
	s := providers.NewSandbox(5.0, 0.0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := s.PricesForDates(ctx, models.SearchQuery{Origin: "NYC", Destination: "LON", DepartDate: "2025-06-01", OneWay: true})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSampleLatencyFromRng(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	d := providers.SampleLatencyFromRng(rng, 0.1)
	assert.Greater(t, d, time.Duration(0))
}

func TestShouldFailFromRng(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	count := 0
	for i := 0; i < 1000; i++ {
		if providers.ShouldFailFromRng(rng, 0.5) {
			count++
		}
	}
	if count == 0 || count == 1000 {
		t.Errorf("expected some failures with 50%% rate, got %d/1000", count)
	}
}
