package models_test

import (
	"errors"
	"testing"

	"github.com/example/skyfare/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSearchQuery_DefaultsOneWay(t *testing.T) {
	q, err := models.NewSearchQuery("jfk", "lhr", "2025-06-01", "", "")
	require.NoError(t, err)
	assert.True(t, q.OneWay)
	require.NoError(t, q.Validate())
	assert.Equal(t, "JFK", q.Origin)
	assert.Equal(t, "LHR", q.Destination)
}

func TestNewSearchQuery_InvalidOneWay(t *testing.T) {
	_, err := models.NewSearchQuery("JFK", "LHR", "2025-06-01", "", "sometimes")
	var verrs models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "one_way", verrs[0].Field)
}

func TestSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name        string
		query       models.SearchQuery
		wantFields  []string
		wantMissing bool
	}{
		{
			name:  "Valid one way",
			query: models.SearchQuery{Origin: "JFK", Destination: "LHR", DepartDate: "2025-06-01", OneWay: true},
		},
		{
			name:  "Valid round trip",
			query: models.SearchQuery{Origin: "JFK", Destination: "LHR", DepartDate: "2025-06-01", ReturnDate: "2025-06-10"},
		},
		{
			name:        "Missing destination",
			query:       models.SearchQuery{Origin: "JFK", DepartDate: "2025-06-01", OneWay: true},
			wantFields:  []string{"destination"},
			wantMissing: true,
		},
		{
			name:        "Missing everything",
			query:       models.SearchQuery{OneWay: true},
			wantFields:  []string{"origin", "destination", "departure_at"},
			wantMissing: true,
		},
		{
			name:        "Round trip without return",
			query:       models.SearchQuery{Origin: "JFK", Destination: "LHR", DepartDate: "2025-06-01"},
			wantFields:  []string{"return_at"},
			wantMissing: true,
		},
		{
			name:       "Bad date",
			query:      models.SearchQuery{Origin: "JFK", Destination: "LHR", DepartDate: "06/01/2025", OneWay: true},
			wantFields: []string{"departure_at"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query
			err := q.Validate()
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}
			var verrs models.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			fields := make([]string, 0, len(verrs))
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
			assert.Equal(t, tt.wantMissing, errors.Is(err, models.ErrMissingRequired))
		})
	}
}

func TestPlace_Label(t *testing.T) {
	assert.Equal(t, "London, United Kingdom", models.Place{Name: "London", CountryName: "United Kingdom", Code: "LON"}.Label())
	assert.Equal(t, "Paris", models.Place{Name: "Paris", Code: "PAR"}.Label())
}
