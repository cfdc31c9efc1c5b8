package client_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	. "github.com/fivetwenty-io/srcom-client/internal/client"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	categoryFixture = `{"data":{
		"id":"abc123","name":"Any%","type":"per-game","miscellaneous":false,
		"players":{"type":"exactly","value":1},
		"game":"g1",
		"links":[{"rel":"self","uri":"https://www.speedrun.com/api/v1/categories/abc123"}]
	}}`

	gameFixture = `{"data":{
		"id":"g1","names":{"international":"Game One"},"abbreviation":"g1",
		"weblink":"https://www.speedrun.com/g1",
		"ruleset":{"run-times":["realtime"],"default-time":"realtime"},
		"moderators":{"u9":"super-moderator"},
		"platforms":["p1"],"regions":[]
	}}`

	variablesFixture = `{"data":[{
		"id":"v1","name":"Version","category":"abc123",
		"scope":{"type":"full-game"},"mandatory":true,"user-defined":false,
		"values":{"choices":{"a":"1.0","b":"1.1"},"default":"a"}
	}]}`
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		client, err := New(&srcom.Config{})
		require.NoError(t, err)
		assert.Equal(t, "https://www.speedrun.com/api/v1/games/g1", client.Endpoint("games/g1", nil))
		assert.Equal(t, 0, client.Cache().Len())
	})

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		client, err := New(nil)
		require.NoError(t, err)
		assert.NotNil(t, client.Games())
	})

	t.Run("invalid base URL", func(t *testing.T) {
		t.Parallel()

		_, err := New(&srcom.Config{BaseURL: "not a url"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid API base URL")
	})

	t.Run("negative cache size", func(t *testing.T) {
		t.Parallel()

		_, err := New(&srcom.Config{MaxCacheElements: -1})
		require.Error(t, err)
	})

	t.Run("provides all resource clients", func(t *testing.T) {
		t.Parallel()

		client, err := New(&srcom.Config{BaseURL: "https://example.test/api/v1/"})
		require.NoError(t, err)

		assert.NotNil(t, client.Games())
		assert.NotNil(t, client.Categories())
		assert.NotNil(t, client.Levels())
		assert.NotNil(t, client.Runs())
		assert.NotNil(t, client.Leaderboards())
		assert.NotNil(t, client.Users())
		assert.NotNil(t, client.Variables())
		assert.NotNil(t, client.Platforms())
		assert.NotNil(t, client.Regions())
		assert.NotNil(t, client.Series())
		assert.NotNil(t, client.Guests())
		assert.NotNil(t, client.Notifications())
		assert.NoError(t, client.Close())
	})
}

func TestClient_CategoryScenario(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.Handle("categories/abc123", categoryFixture)
	server.Handle("games/g1", gameFixture)
	server.Handle("categories/abc123/variables", variablesFixture)

	client := NewTestClient(t, server.BaseURL(), "")
	ctx := context.Background()

	category, err := client.Categories().Get(ctx, "abc123", nil)
	require.NoError(t, err)
	assert.Equal(t, "g1", category.GameID)
	assert.Equal(t, 1, server.Total())

	game, err := category.Game(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Game One", game.Name)
	assert.Equal(t, 2, server.Total())

	_, err = category.Game(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, server.Total())

	variables, err := category.Variables(ctx)
	require.NoError(t, err)
	require.Len(t, variables, 1)
	assert.Equal(t, "Version", variables[0].Name)
	assert.Equal(t, 3, server.Total())
	assert.Equal(t, 1, server.Hits("categories/abc123/variables"))

	again, err := client.Categories().Get(ctx, "abc123", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, server.Total())
	assert.Equal(t, 1, server.Hits("categories/abc123"))
	assert.True(t, category.Equal(again))
	assert.NotSame(t, category, again)
}

func TestClient_RequestCache(t *testing.T) {
	t.Parallel()

	t.Run("hit avoids transport", func(t *testing.T) {
		t.Parallel()

		server := NewFixtureServer(t)
		server.Handle("games/g1", gameFixture)

		client := NewTestClient(t, server.BaseURL(), "")

		for range 3 {
			_, err := client.Games().Get(context.Background(), "g1", nil)
			require.NoError(t, err)
		}

		assert.Equal(t, 1, server.Hits("games/g1"))

		stats := client.Cache().Stats()
		assert.Equal(t, int64(2), stats.Hits)
		assert.Equal(t, int64(1), stats.Misses)
	})

	t.Run("failures are not cached", func(t *testing.T) {
		t.Parallel()

		server := NewFixtureServer(t)
		client := NewTestClient(t, server.BaseURL(), "")

		_, err := client.Games().Get(context.Background(), "missing", nil)
		require.Error(t, err)
		assert.True(t, srcom.IsNotFound(err))

		_, err = client.Games().Get(context.Background(), "missing", nil)
		require.Error(t, err)
		assert.Equal(t, 2, server.Hits("games/missing"))
		assert.Equal(t, 0, client.Cache().Len())
	})

	t.Run("bounded by max cache elements", func(t *testing.T) {
		t.Parallel()

		server := NewFixtureServer(t)
		for _, id := range []string{"p1", "p2", "p3", "p4"} {
			server.Handle("platforms/"+id, `{"data":{"id":"`+id+`","name":"`+id+`","released":2000}}`)
		}

		client, err := New(&srcom.Config{BaseURL: server.BaseURL(), MaxCacheElements: 2})
		require.NoError(t, err)

		for _, id := range []string{"p1", "p2", "p3", "p4"} {
			_, err := client.Platforms().Get(context.Background(), id)
			require.NoError(t, err)
		}

		assert.Equal(t, []string{server.URL("platforms/p3"), server.URL("platforms/p4")}, client.Cache().Keys())
		assert.Equal(t, int64(2), client.Cache().Stats().Evictions)
	})

	t.Run("concurrent callers fetch once", func(t *testing.T) {
		t.Parallel()

		server := NewFixtureServer(t)
		server.Handle("regions/r1", `{"data":{"id":"r1","name":"USA / NTSC"}}`)

		client := NewTestClient(t, server.BaseURL(), "")

		var wg sync.WaitGroup

		for range 8 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				region, err := client.Regions().Get(context.Background(), "r1")
				assert.NoError(t, err)
				assert.Equal(t, "NTSC-U", region.Abbreviation())
			}()
		}

		wg.Wait()
		assert.Equal(t, 1, server.Hits("regions/r1"))
	})
}

func TestClient_Pagination(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.Handle("platforms?max=3", `{
		"data":[{"id":"a","name":"A"},{"id":"b","name":"B"},{"id":"c","name":"C"}],
		"pagination":{"offset":0,"max":3,"size":3,"links":[{"rel":"next","uri":"`+server.URL("platforms?max=3&offset=3")+`"}]}
	}`)
	server.Handle("platforms?max=3&offset=3", `{
		"data":[{"id":"d","name":"D"},{"id":"e","name":"E"}],
		"pagination":{"offset":3,"max":3,"size":2,"links":[{"rel":"prev","uri":"`+server.URL("platforms?max=3")+`"}]}
	}`)

	client := NewTestClient(t, server.BaseURL(), "")
	platforms := client.Platforms().List(&srcom.PlatformsQuery{Max: 3})

	all, err := platforms.All(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(all))
	for _, platform := range all {
		ids = append(ids, platform.ID)
	}

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
	assert.Equal(t, 2, server.Total())

	replay, err := platforms.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, all, replay)
	assert.Equal(t, 2, server.Total())
}

func TestClient_RelationSequences(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.Handle("categories/abc123", categoryFixture)
	server.Handle("runs?category=abc123", `{"data":[`+fixtureRun("r1")+`],
		"pagination":{"size":1,"links":[{"rel":"next","uri":"`+server.URL("runs?category=abc123&offset=1")+`"}]}}`)
	server.Handle("runs?category=abc123&offset=1", `{"data":[`+fixtureRun("r2")+`],
		"pagination":{"size":1,"links":[]}}`)

	// A single cache slot evicts every page before the second traversal.
	client, err := New(&srcom.Config{BaseURL: server.BaseURL(), MaxCacheElements: 1})
	require.NoError(t, err)

	ctx := context.Background()

	category, err := client.Categories().Get(ctx, "abc123", nil)
	require.NoError(t, err)
	assert.Same(t, category.Runs(), category.Runs())
	assert.Equal(t, 1, server.Total())

	runs, err := category.Runs().All(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 3, server.Total())

	replay, err := category.Runs().All(ctx)
	require.NoError(t, err)
	assert.Equal(t, runs, replay)
	assert.Equal(t, 3, server.Total())
}

func TestClient_RelationPathsEscapeIDs(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.Handle("games/old%20game", `{"data":{"id":"old game","names":{"international":"Old Game"}}}`)
	server.Handle("games/old%20game/levels", `{"data":[]}`)
	server.Handle("games/old%20game/categories", `{"data":[]}`)
	server.Handle("games/old%20game/romhacks", `{"data":[]}`)

	client := NewTestClient(t, server.BaseURL(), "")
	ctx := context.Background()

	game, err := client.Games().Get(ctx, "old game", nil)
	require.NoError(t, err)

	_, err = game.Levels(ctx)
	require.NoError(t, err)

	_, err = game.Categories(ctx)
	require.NoError(t, err)

	_, err = game.RomHacks(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, server.Hits("games/old%20game/levels"))
	assert.Equal(t, 1, server.Hits("games/old%20game/categories"))
	assert.Equal(t, 1, server.Hits("games/old%20game/romhacks"))
}

func TestGamesClient_Moderators(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.Handle("games/g1", gameFixture)
	server.Handle("games/g1?embed=moderators", `{"data":{
		"id":"g1","names":{"international":"Game One"},
		"moderators":{"data":[{"id":"u9","names":{"international":"mod"}}]}
	}}`)

	client := NewTestClient(t, server.BaseURL(), "")
	ctx := context.Background()

	plain, err := client.Games().Get(ctx, "g1", nil)
	require.NoError(t, err)
	require.Len(t, plain.Moderators, 1)
	assert.Equal(t, srcom.ModeratorTypeSuperModerator, plain.Moderators[0].Type)

	embedded, err := client.Games().Get(ctx, "g1", &srcom.GameEmbeds{Moderators: true})
	require.NoError(t, err)
	require.Len(t, embedded.Moderators, 1)
	assert.Equal(t, "u9", embedded.Moderators[0].UserID)
	assert.Empty(t, embedded.Moderators[0].Type, "embedded moderators carry no power level")

	user, err := embedded.Moderators[0].User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "mod", user.Name)
	assert.Equal(t, 2, server.Total())
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_LeaderboardSharesRelations(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.Handle("leaderboards/g1/category/abc123?embed=category%2Cplayers", `{"data":{
		"weblink":"https://www.speedrun.com/g1#Any",
		"game":"g1",
		"category":{"data":{"id":"abc123","name":"Any%","type":"per-game","game":"g1"}},
		"level":null,
		"timing":"realtime",
		"values":{},
		"players":{"data":[
			{"rel":"user","id":"u1","names":{"international":"alice"}},
			{"rel":"guest","name":"bob"}
		]},
		"runs":[
			{"place":1,"run":{"id":"r1","game":"g1","category":"abc123","status":{"status":"verified","examiner":"u9"},
				"players":[{"rel":"user","id":"u1","uri":"https://www.speedrun.com/api/v1/users/u1"}],
				"times":{"primary_t":61.5,"realtime_t":61.5},"system":{"platform":"p1","emulated":false,"region":null},"values":{}}},
			{"place":2,"run":{"id":"r2","game":"g1","category":"abc123","status":{"status":"verified","examiner":"u9"},
				"players":[{"rel":"guest","name":"bob","uri":"https://www.speedrun.com/api/v1/guests/bob"}],
				"times":{"primary_t":70,"realtime_t":70},"system":{"platform":"p1","emulated":true,"region":null},"values":{}}}
		]
	}}`)
	server.Handle("games/g1", gameFixture)

	client := NewTestClient(t, server.BaseURL(), "")
	ctx := context.Background()

	leaderboard, err := client.Leaderboards().FullGameCategory(ctx, "g1", "abc123", &srcom.LeaderboardQuery{
		Embeds: &srcom.LeaderboardEmbeds{Category: true, Players: true},
	})
	require.NoError(t, err)
	require.Len(t, leaderboard.Records, 2)
	assert.Equal(t, 1, server.Total())

	first, err := leaderboard.Records[0].Category(ctx)
	require.NoError(t, err)

	second, err := leaderboard.Records[1].Category(ctx)
	require.NoError(t, err)

	own, err := leaderboard.Category(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, own, first)
	assert.Equal(t, 1, server.Total(), "embedded category must not be fetched")

	gameA, err := leaderboard.Records[0].Game(ctx)
	require.NoError(t, err)

	gameB, err := leaderboard.Records[1].Game(ctx)
	require.NoError(t, err)

	assert.Same(t, gameA, gameB)
	assert.Equal(t, 1, server.Hits("games/g1"))

	alice, err := leaderboard.Records[0].Player().User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", alice.Name)
	assert.Equal(t, 2, server.Total(), "embedded players must not be fetched")

	guest, err := leaderboard.Records[1].Player().Guest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", guest.Name)

	assert.Same(t, leaderboard.WorldRecord(), leaderboard.Records[0])
}

func TestClient_Profile(t *testing.T) {
	t.Parallel()

	t.Run("requires an API key", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, "https://example.test/api/v1/", "")

		_, err := client.Profile(context.Background())
		require.ErrorIs(t, err, srcom.ErrAPIKeyRequired)

		valid, err := client.IsAccessTokenValid(context.Background())
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("sends the API key", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/v1/profile", request.URL.Path)

			if request.Header.Get("X-API-Key") != "good" {
				writer.WriteHeader(http.StatusForbidden)
				_, _ = writer.Write([]byte(`{"status":403,"message":"The API key is invalid."}`))

				return
			}

			_, _ = writer.Write([]byte(`{"data":{"id":"u1","names":{"international":"alice"},"role":"user"}}`))
		}))
		defer server.Close()

		good := NewTestClient(t, server.URL+"/api/v1/", "good")

		user, err := good.Profile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Name)

		valid, err := good.IsAccessTokenValid(context.Background())
		require.NoError(t, err)
		assert.True(t, valid)

		bad := NewTestClient(t, server.URL+"/api/v1/", "bad")

		valid, err = bad.IsAccessTokenValid(context.Background())
		require.NoError(t, err)
		assert.False(t, valid)
	})
}

func TestClient_Notifications(t *testing.T) {
	t.Parallel()

	t.Run("requires an API key", func(t *testing.T) {
		t.Parallel()

		server := NewFixtureServer(t)
		client := NewTestClient(t, server.BaseURL(), "")

		_, err := client.Notifications().List(nil).All(context.Background())
		require.ErrorIs(t, err, srcom.ErrAPIKeyRequired)
		assert.Equal(t, 0, server.Total())
	})

	t.Run("lists notifications", func(t *testing.T) {
		t.Parallel()

		server := NewFixtureServer(t)
		server.Handle("notifications?direction=desc&orderby=created", `{"data":[{
			"id":"n1","created":"2024-01-02T03:04:05Z","status":"unread","text":"Your run was verified",
			"item":{"rel":"run","uri":"https://www.speedrun.com/run/r1"},
			"links":[{"rel":"run","uri":"https://www.speedrun.com/api/v1/runs/r1"},{"rel":"game","uri":"https://www.speedrun.com/api/v1/games/g1"}]
		}],"pagination":{"size":1,"links":[]}}`)

		client := NewTestClient(t, server.BaseURL(), "key")

		notifications, err := client.Notifications().List(&srcom.NotificationsQuery{
			OrderBy:    srcom.NotificationsOrderByCreated,
			Descending: true,
		}).All(context.Background())
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.Equal(t, "r1", notifications[0].RunID)
		assert.False(t, notifications[0].IsRead())
	})
}

func TestClient_ResolveSiteURL(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.HandleHeaders("site/g1", map[string]string{
		"Link": `<https://www.speedrun.com/api/v1/games/g1>; rel="alternate https://www.speedrun.com/api"; type="application/json"`,
	})
	server.Handle("site/plain", `{}`)

	client := NewTestClient(t, server.BaseURL(), "")

	element, err := client.ResolveSiteURL(context.Background(), server.URL("site/g1"))
	require.NoError(t, err)
	assert.Equal(t, srcom.ElementGame, element.Type)
	assert.Equal(t, "g1", element.ID)

	_, err = client.ResolveSiteURL(context.Background(), server.URL("site/plain"))
	require.ErrorIs(t, err, srcom.ErrNoLinkHeader)
}

func TestClient_SubmitRun(t *testing.T) {
	t.Parallel()

	t.Run("requires an API key", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, "https://example.test/api/v1/", "")

		_, err := client.Runs().Submit(context.Background(), &srcom.RunSubmission{})
		require.ErrorIs(t, err, srcom.ErrAPIKeyRequired)
	})

	t.Run("posts a simulated run", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, "/api/v1/runs", request.URL.Path)
			assert.Equal(t, "yes", request.URL.Query().Get("dry"))
			assert.Equal(t, "key", request.Header.Get("X-API-Key"))

			body, err := io.ReadAll(request.Body)
			assert.NoError(t, err)
			assert.JSONEq(t, `{"run":{"category":"abc123","platform":"p1","times":{"realtime":61.5}}}`, string(body))

			writer.WriteHeader(http.StatusCreated)
			_, _ = writer.Write([]byte(`{"data":{"id":"new1","status":{"status":"new"},"players":[],"times":{"realtime_t":61.5}}}`))
		}))
		defer server.Close()

		client := NewTestClient(t, server.URL+"/api/v1/", "key")

		run, err := client.Runs().Submit(context.Background(), &srcom.RunSubmission{
			CategoryID: "abc123",
			PlatformID: "p1",
			RealTime:   61500 * 1e6,
			Simulate:   true,
		})
		require.NoError(t, err)
		assert.Equal(t, "new1", run.ID)
		assert.Equal(t, srcom.RunStatusNew, run.Status.Type)
	})

	t.Run("surfaces field errors", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadRequest)
			_, _ = writer.Write([]byte(`{"status":400,"message":"Invalid run","errors":["platform: unknown"]}`))
		}))
		defer server.Close()

		client := NewTestClient(t, server.URL+"/api/v1/", "key")

		_, err := client.Runs().Submit(context.Background(), &srcom.RunSubmission{
			CategoryID: "abc123",
			PlatformID: "nope",
			GameTime:   1e9,
		})
		require.Error(t, err)

		apiErr := &srcom.APIError{}
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, []string{"platform: unknown"}, apiErr.Errors)
	})
}
