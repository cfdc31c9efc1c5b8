package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

func TestGamesClient_Get(t *testing.T) {
	t.Parallel()

	tests := []TestGetOperation[*srcom.Game]{
		{
			Name:         "get game",
			ID:           "xkdk4g1m",
			ExpectedPath: "/api/v1/games/xkdk4g1m",
			StatusCode:   http.StatusOK,
			Response:     `{"data":{"id":"xkdk4g1m","names":{"international":"Super Mario 64","japanese":"スーパーマリオ64"},"abbreviation":"sm64","ruleset":{"run-times":["realtime"],"default-time":"realtime"}}}`,
			Check: func(t *testing.T, game *srcom.Game) {
				t.Helper()
				assert.Equal(t, "Super Mario 64", game.Name)
				assert.Equal(t, "sm64", game.Abbreviation)
			},
		},
		{
			Name:         "game not found",
			ID:           "missing",
			ExpectedPath: "/api/v1/games/missing",
			StatusCode:   http.StatusNotFound,
			Response:     `{"status":404,"message":"The game could not be found."}`,
			WantErr:      true,
			ErrMessage:   "The game could not be found.",
		},
		{
			Name:         "unknown timing method",
			ID:           "broken",
			ExpectedPath: "/api/v1/games/broken",
			StatusCode:   http.StatusOK,
			Response:     `{"data":{"id":"broken","names":{"international":"Broken"},"ruleset":{"run-times":["sundial"]}}}`,
			WantErr:      true,
			ErrMessage:   "unknown timing method",
		},
	}

	RunGetTests(t, tests, func(c *Client) func(context.Context, string) (*srcom.Game, error) {
		return func(ctx context.Context, id string) (*srcom.Game, error) {
			return c.Games().Get(ctx, id, nil)
		}
	})
}

func TestUsersClient_Get(t *testing.T) {
	t.Parallel()

	tests := []TestGetOperation[*srcom.User]{
		{
			Name:         "get user",
			ID:           "u1",
			ExpectedPath: "/api/v1/users/u1",
			StatusCode:   http.StatusOK,
			Response: `{"data":{"id":"u1","names":{"international":"alice"},"pronouns":"she, her",
				"name-style":{"style":"gradient","color-from":{"light":"#fff","dark":"#000"},"color-to":{"light":"#111","dark":"#222"}},
				"location":{"country":{"code":"ca","names":{"international":"Canada"}}}}}`,
			Check: func(t *testing.T, user *srcom.User) {
				t.Helper()
				assert.Equal(t, []string{"she", "her"}, user.Pronouns)
				assert.True(t, user.NameStyle.IsGradient())
				assert.Equal(t, "Canada", user.Location.String())
			},
		},
		{
			Name:         "missing names",
			ID:           "u2",
			ExpectedPath: "/api/v1/users/u2",
			StatusCode:   http.StatusOK,
			Response:     `{"data":{"id":"u2"}}`,
			WantErr:      true,
		},
	}

	RunGetTests(t, tests, func(c *Client) func(context.Context, string) (*srcom.User, error) {
		return c.Users().Get
	})
}

func TestGuestsClient_Get(t *testing.T) {
	t.Parallel()

	tests := []TestGetOperation[*srcom.Guest]{
		{
			Name:         "name is path escaped",
			ID:           "some guest",
			ExpectedPath: "/api/v1/guests/some guest",
			StatusCode:   http.StatusOK,
			Response:     `{"data":{"name":"some guest","links":[]}}`,
			Check: func(t *testing.T, guest *srcom.Guest) {
				t.Helper()
				assert.Equal(t, "some guest", guest.Name)
			},
		},
	}

	RunGetTests(t, tests, func(c *Client) func(context.Context, string) (*srcom.Guest, error) {
		return c.Guests().Get
	})
}

func TestGamesClient_Search(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.Handle("games?name=mario", `{"data":[
		{"id":"g2","names":{"international":"Mario Kart"}},
		{"id":"g3","names":{"international":"mario"}}
	],"pagination":{"size":2,"links":[]}}`)
	server.Handle("games?name=zelda", `{"data":[],"pagination":{"size":0,"links":[]}}`)

	client := NewTestClient(t, server.BaseURL(), "")
	ctx := context.Background()

	first, err := client.Games().Search(ctx, "mario", nil)
	require.NoError(t, err)
	assert.Equal(t, "g2", first.ID)

	exact, err := client.Games().SearchExact(ctx, "mario", nil)
	require.NoError(t, err)
	assert.Equal(t, "g3", exact.ID)

	_, err = client.Games().Search(ctx, "zelda", nil)
	require.ErrorIs(t, err, srcom.ErrGameNotFound)
	assert.Equal(t, 1, server.Hits("games?name=zelda"))
}

func TestGamesClient_ListHeaders(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.Handle("games?_bulk=yes&max=1000", `{"data":[
		{"id":"g1","names":{"international":"One"},"abbreviation":"one"}
	],"pagination":{"size":1,"links":[]}}`)

	client := NewTestClient(t, server.BaseURL(), "")

	headers, err := client.Games().ListHeaders(nil).All(context.Background())
	require.NoError(t, err)
	require.Len(t, headers, 1)
	assert.Equal(t, "one", headers[0].Abbreviation)
}

func TestUsersClient_Lookup(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.Handle("users?lookup=alice", `{"data":[{"id":"u1","names":{"international":"alice"}}],"pagination":{"size":1,"links":[]}}`)

	client := NewTestClient(t, server.BaseURL(), "")

	user, ok, err := client.Users().Lookup("alice", nil).First(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "u1", user.ID)
}

func TestElementPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "games/g1", elementPath("games", "g1"))
	assert.Equal(t, "games/g1/categories", elementPath("games", "g1", "categories"))
	assert.Equal(t, "guests/a%2Fb", elementPath("guests", "a/b"))
}
