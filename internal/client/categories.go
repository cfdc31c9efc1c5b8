package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// CategoriesClient implements srcom.CategoriesClient.
type CategoriesClient struct {
	client *Client
}

// NewCategoriesClient creates a new categories client.
func NewCategoriesClient(client *Client) *CategoriesClient {
	return &CategoriesClient{
		client: client,
	}
}

// Get implements srcom.CategoriesClient.Get.
func (c *CategoriesClient) Get(ctx context.Context, id string, embeds *srcom.CategoryEmbeds) (*srcom.Category, error) {
	category, err := getElement(ctx, c.client, elementPath("categories", id), srcom.EmbedValues(embeds), srcom.ParseCategory)
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}

	return category, nil
}

// Variables implements srcom.CategoriesClient.Variables.
func (c *CategoriesClient) Variables(ctx context.Context, id string, query *srcom.VariablesQuery) ([]*srcom.Variable, error) {
	variables, err := getList(ctx, c.client, elementPath("categories", id, "variables"), query.ToValues(), srcom.ParseVariable)
	if err != nil {
		return nil, fmt.Errorf("listing category variables: %w", err)
	}

	return variables, nil
}

// Records implements srcom.CategoriesClient.Records.
func (c *CategoriesClient) Records(id string, query *srcom.RecordsQuery) *srcom.Sequence[*srcom.Leaderboard] {
	return sequence(c.client, elementPath("categories", id, "records"), query.ToValues(), srcom.ParseLeaderboard)
}
