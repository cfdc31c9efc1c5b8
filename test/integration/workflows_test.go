//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/srcom-client/pkg/srclient"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

func newLiveClient(t *testing.T, config *TestConfig) srcom.Client {
	t.Helper()

	client, err := srclient.New(&srcom.Config{
		BaseURL: config.BaseURL,
		APIKey:  config.APIKey,
		Timeout: 30 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = srclient.Close(client) })

	return client
}

// TestBrowseWorkflow walks game, categories, leaderboard and runs through
// the library.
func TestBrowseWorkflow(t *testing.T) {
	config := LoadTestConfig()
	config.SkipUnlessEnabled(t)

	client := newLiveClient(t, config)
	ctx := context.Background()

	// 1. Find the game with its categories embedded
	game, err := client.Games().Search(ctx, config.GameSearch, &srcom.GameEmbeds{Categories: true})
	require.NoError(t, err)
	require.NotEmpty(t, game.ID)

	// 2. Embedded categories need no further request
	before := client.Cache().Stats().Misses

	categories, err := game.FullGameCategories(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, categories)
	assert.Equal(t, before, client.Cache().Stats().Misses)

	// 3. The leaderboard is memoized on the category
	board, err := categories[0].Leaderboard(ctx)
	require.NoError(t, err)

	again, err := categories[0].Leaderboard(ctx)
	require.NoError(t, err)
	assert.Same(t, board, again)

	// 4. Records point back at the same game
	for _, record := range board.Records {
		assert.Equal(t, game.ID, record.GameID)
	}

	// 5. Paginated runs: a second traversal replays the buffer
	runs := game.Runs()

	first, err := runs.Take(ctx, 30)
	require.NoError(t, err)

	misses := client.Cache().Stats().Misses

	replay, err := runs.Take(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, len(first), len(replay))
	assert.Equal(t, misses, client.Cache().Stats().Misses)
}

// TestNotFound checks that a missing element maps onto a 404 APIError.
func TestNotFound(t *testing.T) {
	config := LoadTestConfig()
	config.SkipUnlessEnabled(t)

	client := newLiveClient(t, config)

	_, err := client.Games().Get(context.Background(), "this-game-does-not-exist-0", nil)
	require.Error(t, err)
	assert.True(t, srcom.IsNotFound(err))
}

// TestProfile needs SRCOM_API_KEY.
func TestProfile(t *testing.T) {
	config := LoadTestConfig()
	config.SkipUnlessEnabled(t)
	config.SkipIfMissingAPIKey(t)

	client := newLiveClient(t, config)
	ctx := context.Background()

	valid, err := client.IsAccessTokenValid(ctx)
	require.NoError(t, err)
	require.True(t, valid)

	user, err := client.Profile(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

// TestCLIWorkflow drives the built srcom binary.
func TestCLIWorkflow(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingBinary(t)

	runner := NewCommandRunner(config, t)

	// 1. Version works without network access
	stdout, stderr, err := runner.Run("version", "-o", "json")
	require.NoError(t, err, "version failed: %s", stderr)
	AssertJSONOutput(t, stdout)

	// 2. Search a game as JSON
	var game struct {
		ID           string `json:"id"`
		Abbreviation string `json:"abbreviation"`
	}

	require.NoError(t, runner.RunJSON(&game, "games", "search", config.GameSearch))
	require.NotEmpty(t, game.ID)

	// 3. Categories as YAML
	stdout, stderr, err = runner.Run("games", "categories", game.ID, "-o", "yaml")
	require.NoError(t, err, "categories failed: %s", stderr)
	AssertYAMLOutput(t, stdout)

	// 4. Filtered runs as a table
	stdout, stderr, err = runner.Run("runs", "list", "--game", game.ID, "--status", "verified",
		"--filter", "Time > 0", "--limit", "5")
	require.NoError(t, err, "runs list failed: %s", stderr)
	assert.NotEmpty(t, stdout)

	// 5. Config round trip in the isolated HOME
	_, stderr, err = runner.Run("config", "set", "cache_size", "10")
	require.NoError(t, err, "config set failed: %s", stderr)

	stdout, _, err = runner.Run("config", "show", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"cache_size": 10`)
}
