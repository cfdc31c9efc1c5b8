package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// GamesClient implements srcom.GamesClient.
type GamesClient struct {
	client *Client
}

// NewGamesClient creates a new games client.
func NewGamesClient(client *Client) *GamesClient {
	return &GamesClient{
		client: client,
	}
}

// Get implements srcom.GamesClient.Get.
func (c *GamesClient) Get(ctx context.Context, id string, embeds *srcom.GameEmbeds) (*srcom.Game, error) {
	game, err := getElement(ctx, c.client, elementPath("games", id), srcom.EmbedValues(embeds), srcom.ParseGame)
	if err != nil {
		return nil, fmt.Errorf("getting game: %w", err)
	}

	return game, nil
}

// List implements srcom.GamesClient.List.
func (c *GamesClient) List(query *srcom.GamesQuery) *srcom.Sequence[*srcom.Game] {
	return sequence(c.client, "games", query.ToValues(), srcom.ParseGame)
}

// ListHeaders implements srcom.GamesClient.ListHeaders.
func (c *GamesClient) ListHeaders(query *srcom.GameHeadersQuery) *srcom.Sequence[*srcom.GameHeader] {
	return sequence(c.client, "games", query.ToValues(), func(_ srcom.Client, n srcom.Node) (*srcom.GameHeader, error) {
		return srcom.ParseGameHeader(n)
	})
}

// Search implements srcom.GamesClient.Search.
func (c *GamesClient) Search(ctx context.Context, name string, embeds *srcom.GameEmbeds) (*srcom.Game, error) {
	game, ok, err := c.List(&srcom.GamesQuery{Name: name, Embeds: embeds}).First(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching games: %w", err)
	}

	if !ok {
		return nil, fmt.Errorf("%w: %q", srcom.ErrGameNotFound, name)
	}

	return game, nil
}

// SearchExact implements srcom.GamesClient.SearchExact.
func (c *GamesClient) SearchExact(ctx context.Context, name string, embeds *srcom.GameEmbeds) (*srcom.Game, error) {
	for game, err := range c.List(&srcom.GamesQuery{Name: name, Embeds: embeds}).Items(ctx) {
		if err != nil {
			return nil, fmt.Errorf("searching games: %w", err)
		}

		if game.Name == name {
			return game, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", srcom.ErrGameNotFound, name)
}

// Categories implements srcom.GamesClient.Categories.
func (c *GamesClient) Categories(ctx context.Context, id string, query *srcom.CategoriesQuery) ([]*srcom.Category, error) {
	categories, err := getList(ctx, c.client, elementPath("games", id, "categories"), query.ToValues(), srcom.ParseCategory)
	if err != nil {
		return nil, fmt.Errorf("listing game categories: %w", err)
	}

	return categories, nil
}

// Levels implements srcom.GamesClient.Levels.
func (c *GamesClient) Levels(ctx context.Context, id string, query *srcom.LevelsQuery) ([]*srcom.Level, error) {
	levels, err := getList(ctx, c.client, elementPath("games", id, "levels"), query.ToValues(), srcom.ParseLevel)
	if err != nil {
		return nil, fmt.Errorf("listing game levels: %w", err)
	}

	return levels, nil
}

// Variables implements srcom.GamesClient.Variables.
func (c *GamesClient) Variables(ctx context.Context, id string, query *srcom.VariablesQuery) ([]*srcom.Variable, error) {
	variables, err := getList(ctx, c.client, elementPath("games", id, "variables"), query.ToValues(), srcom.ParseVariable)
	if err != nil {
		return nil, fmt.Errorf("listing game variables: %w", err)
	}

	return variables, nil
}

// RomHacks implements srcom.GamesClient.RomHacks.
func (c *GamesClient) RomHacks(ctx context.Context, id string) ([]*srcom.Game, error) {
	games, err := getList(ctx, c.client, elementPath("games", id, "romhacks"), nil, srcom.ParseGame)
	if err != nil {
		return nil, fmt.Errorf("listing rom hacks: %w", err)
	}

	return games, nil
}

// Records implements srcom.GamesClient.Records.
func (c *GamesClient) Records(id string, query *srcom.RecordsQuery) *srcom.Sequence[*srcom.Leaderboard] {
	return sequence(c.client, elementPath("games", id, "records"), query.ToValues(), srcom.ParseLeaderboard)
}
