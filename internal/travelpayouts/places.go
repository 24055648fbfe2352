package travelpayouts

import (
	"context"
	"fmt"

	"github.com/example/skyfare/internal/models"
	jsoniter "github.com/json-iterator/go"
)

// Lookup decodes places2 results into suggestions. Entries without a code are dropped.
func (c *Client) Lookup(ctx context.Context, term string) ([]models.Place, error) {
	body, err := c.Places(ctx, term, "en")
	if err != nil {
		return nil, err
	}
	return DecodePlaces(body)
}

func DecodePlaces(body []byte) ([]models.Place, error) {
	var raw []models.Place
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", EndpointPlaces, err)
	}
	places := make([]models.Place, 0, len(raw))
	for _, p := range raw {
		if p.Code == "" {
			continue
		}
		places = append(places, p)
	}
	return places, nil
}
