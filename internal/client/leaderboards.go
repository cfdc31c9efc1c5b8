package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// LeaderboardsClient implements srcom.LeaderboardsClient.
type LeaderboardsClient struct {
	client *Client
}

// NewLeaderboardsClient creates a new leaderboards client.
func NewLeaderboardsClient(client *Client) *LeaderboardsClient {
	return &LeaderboardsClient{
		client: client,
	}
}

// FullGameCategory implements srcom.LeaderboardsClient.FullGameCategory.
func (c *LeaderboardsClient) FullGameCategory(ctx context.Context, gameID, categoryID string, query *srcom.LeaderboardQuery) (*srcom.Leaderboard, error) {
	path := srcom.FullGameLeaderboardPath(gameID, categoryID)

	leaderboard, err := getElement(ctx, c.client, path, query.ToValues(), srcom.ParseLeaderboard)
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard: %w", err)
	}

	return leaderboard, nil
}

// Level implements srcom.LeaderboardsClient.Level.
func (c *LeaderboardsClient) Level(ctx context.Context, gameID, levelID, categoryID string, query *srcom.LeaderboardQuery) (*srcom.Leaderboard, error) {
	path := srcom.LevelLeaderboardPath(gameID, levelID, categoryID)

	leaderboard, err := getElement(ctx, c.client, path, query.ToValues(), srcom.ParseLeaderboard)
	if err != nil {
		return nil, fmt.Errorf("getting level leaderboard: %w", err)
	}

	return leaderboard, nil
}
