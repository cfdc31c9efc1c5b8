package client_test

import (
	"context"
	"testing"

	. "github.com/fivetwenty-io/srcom-client/internal/client"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariablesClient_Get(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.Handle("variables/v1", `{"data":{
		"id":"v1","name":"Version","category":null,
		"scope":{"type":"single-level","level":"l1"},"mandatory":false,"user-defined":true,
		"values":{"choices":{"a":"1.0","b":"1.1"},"default":"b"}
	}}`)

	client := NewTestClient(t, server.BaseURL(), "")
	ctx := context.Background()

	variable, err := client.Variables().Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, srcom.ScopeTypeSingleLevel, variable.Scope.Type)
	assert.Equal(t, "l1", variable.Scope.LevelID)
	require.Len(t, variable.Values, 2)
	assert.Equal(t, "a", variable.Values[0].ID)
	require.NotNil(t, variable.Default)
	assert.Equal(t, "b", variable.Default.ID)

	label, err := variable.Value("a").Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.0", label)

	owner, err := variable.Value("a").Variable(ctx)
	require.NoError(t, err)
	assert.Same(t, variable, owner)

	custom, err := variable.CreateCustomValue("2.0-beta")
	require.NoError(t, err)

	label, err = custom.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2.0-beta", label)
	assert.Equal(t, 1, server.Total())
}

func TestPlatformsClient_List(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.Handle("platforms?max=2&orderby=released", `{"data":[
		{"id":"p1","name":"NES","released":1983},
		{"id":"p2","name":"SNES","released":1990}
	],"pagination":{"size":2,"links":[{"rel":"next","uri":"`+server.URL("platforms?max=2&offset=2&orderby=released")+`"}]}}`)

	client := NewTestClient(t, server.BaseURL(), "")

	platforms, err := client.Platforms().List(&srcom.PlatformsQuery{
		OrderBy: srcom.PlatformsOrderByReleased,
		Max:     2,
	}).Take(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, platforms, 2)
	assert.Equal(t, 1990, platforms[1].YearOfRelease)
	assert.Equal(t, 1, server.Total(), "no page beyond the requested elements is fetched")
}

func TestRegionsClient_Get(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.Handle("regions/r1", `{"data":{"id":"r1","name":"EUR / PAL"}}`)

	client := NewTestClient(t, server.BaseURL(), "")

	region, err := client.Regions().Get(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "PAL", region.Abbreviation())
}

func TestSeriesClient_Games(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.Handle("series/s1/games?name=mario", `{"data":[
		{"id":"g1","names":{"international":"Game One"}},
		{"id":"g2","names":{"international":"Game Two"}}
	],"pagination":{"size":2,"links":[]}}`)

	client := NewTestClient(t, server.BaseURL(), "")

	games, err := client.Series().Games("s1", &srcom.GamesQuery{Name: "mario"}).All(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "Game Two", games[1].Name)
}

func TestUsersClient_PersonalBests(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.Handle("users/u1/personal-bests?embed=game&top=1", `{"data":[
		{"place":1,
		 "run":`+fixtureRun("r1")+`,
		 "game":{"data":{"id":"g1","names":{"international":"Game One"}}}}
	]}`)

	client := NewTestClient(t, server.BaseURL(), "")
	ctx := context.Background()

	records, err := client.Users().PersonalBests(ctx, "u1", &srcom.PersonalBestsQuery{
		Top:    1,
		Embeds: &srcom.RunEmbeds{Game: true},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Rank)
	assert.Equal(t, "r1", records[0].ID)

	game, err := records[0].Game(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Game One", game.Name)
	assert.Equal(t, 1, server.Total(), "record-level embeds must not be fetched")
}

func TestLeaderboardsClient_Level(t *testing.T) {
	t.Parallel()

	server := NewFixtureServer(t)
	server.Handle("leaderboards/g1/level/l1/abc123?top=1", `{"data":{
		"weblink":"https://www.speedrun.com/g1/l1",
		"game":"g1","category":"abc123","level":"l1",
		"timing":"realtime","values":{},
		"runs":[{"place":1,"run":`+fixtureRun("r7")+`}]
	}}`)

	client := NewTestClient(t, server.BaseURL(), "")

	leaderboard, err := client.Leaderboards().Level(context.Background(), "g1", "l1", "abc123", &srcom.LeaderboardQuery{Top: 1})
	require.NoError(t, err)
	assert.Equal(t, "l1", leaderboard.LevelID)
	require.NotNil(t, leaderboard.WorldRecord())
	assert.Equal(t, "r7", leaderboard.WorldRecord().ID)
}

func fixtureRun(id string) string {
	return `{"id":"` + id + `","game":"g1","category":"abc123","status":{"status":"verified","examiner":"u9"},
		"players":[{"rel":"user","id":"u1","uri":"https://www.speedrun.com/api/v1/users/u1"}],
		"times":{"primary":"PT1M1.5S","primary_t":61.5,"realtime":"PT1M1.5S","realtime_t":61.5},
		"system":{"platform":"p1","emulated":false,"region":null},"values":{}}`
}
