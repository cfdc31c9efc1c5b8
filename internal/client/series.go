package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// SeriesClient implements srcom.SeriesClient.
type SeriesClient struct {
	client *Client
}

// NewSeriesClient creates a new series client.
func NewSeriesClient(client *Client) *SeriesClient {
	return &SeriesClient{
		client: client,
	}
}

// Get implements srcom.SeriesClient.Get.
func (c *SeriesClient) Get(ctx context.Context, id string, embeds *srcom.SeriesEmbeds) (*srcom.Series, error) {
	series, err := getElement(ctx, c.client, elementPath("series", id), srcom.EmbedValues(embeds), srcom.ParseSeries)
	if err != nil {
		return nil, fmt.Errorf("getting series: %w", err)
	}

	return series, nil
}

// List implements srcom.SeriesClient.List.
func (c *SeriesClient) List(query *srcom.SeriesQuery) *srcom.Sequence[*srcom.Series] {
	return sequence(c.client, "series", query.ToValues(), srcom.ParseSeries)
}

// Games implements srcom.SeriesClient.Games.
func (c *SeriesClient) Games(id string, query *srcom.GamesQuery) *srcom.Sequence[*srcom.Game] {
	return sequence(c.client, elementPath("series", id, "games"), query.ToValues(), srcom.ParseGame)
}
