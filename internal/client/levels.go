package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// LevelsClient implements srcom.LevelsClient.
type LevelsClient struct {
	client *Client
}

// NewLevelsClient creates a new levels client.
func NewLevelsClient(client *Client) *LevelsClient {
	return &LevelsClient{
		client: client,
	}
}

// Get implements srcom.LevelsClient.Get.
func (c *LevelsClient) Get(ctx context.Context, id string, embeds *srcom.LevelEmbeds) (*srcom.Level, error) {
	level, err := getElement(ctx, c.client, elementPath("levels", id), srcom.EmbedValues(embeds), srcom.ParseLevel)
	if err != nil {
		return nil, fmt.Errorf("getting level: %w", err)
	}

	return level, nil
}

// Categories implements srcom.LevelsClient.Categories.
func (c *LevelsClient) Categories(ctx context.Context, id string, query *srcom.CategoriesQuery) ([]*srcom.Category, error) {
	categories, err := getList(ctx, c.client, elementPath("levels", id, "categories"), query.ToValues(), srcom.ParseCategory)
	if err != nil {
		return nil, fmt.Errorf("listing level categories: %w", err)
	}

	return categories, nil
}

// Variables implements srcom.LevelsClient.Variables.
func (c *LevelsClient) Variables(ctx context.Context, id string, query *srcom.VariablesQuery) ([]*srcom.Variable, error) {
	variables, err := getList(ctx, c.client, elementPath("levels", id, "variables"), query.ToValues(), srcom.ParseVariable)
	if err != nil {
		return nil, fmt.Errorf("listing level variables: %w", err)
	}

	return variables, nil
}

// Records implements srcom.LevelsClient.Records.
func (c *LevelsClient) Records(id string, query *srcom.RecordsQuery) *srcom.Sequence[*srcom.Leaderboard] {
	return sequence(c.client, elementPath("levels", id, "records"), query.ToValues(), srcom.ParseLeaderboard)
}
