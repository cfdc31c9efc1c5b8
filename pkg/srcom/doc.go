// Package srcom provides types, interfaces, and helpers for working with the
// speedrun.com REST API (v1).
//
// # Overview
//
// The srcom package defines the element types (e.g., Game, Category, Run,
// Leaderboard, User) and the interfaces for resource-oriented clients (e.g.,
// GamesClient, RunsClient). A concrete implementation is provided by the
// srclient package, which wires configuration, transport, and the request
// cache. Most consumers should import srclient to construct a client and
// then use the resource client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/srcom-client/pkg/srclient"
//	  "github.com/fivetwenty-io/srcom-client/pkg/srcom"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := srclient.New(&srcom.Config{})
//	  if err != nil { log.Fatal(err) }
//
//	  game, err := cli.Games().Search(ctx, "Super Mario 64", nil)
//	  if err != nil { log.Fatal(err) }
//
//	  categories, err := game.FullGameCategories(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = categories
//	}
//
// # Relations
//
// Relations between elements are resolved on first use. A relation the
// response embedded is available without I/O; one it only referenced by ID
// is fetched once and then remembered. Elements parsed from the same
// response share their back-references, so a category listed under a game
// returns that same *Game.
//
// # Sequences
//
// Listings return a *Sequence, which fetches pages only as items are
// consumed and replays the items it has already seen:
//
//	runs := cli.Runs().List(&srcom.RunsQuery{Game: game.ID})
//	for run, err := range runs.Items(ctx) {
//	  if err != nil { break }
//	  _ = run
//	}
//
// # Caching
//
// Every GET goes through a bounded LRU owned by the client. A second-level
// store (NATS JetStream KV or Redis) can be configured with CacheConfig to
// share responses between processes.
//
// # Errors
//
// Server errors are returned as *APIError. IsNotFound and IsAPIError help
// branch on them; ShapeError reports a response that could not be parsed.
package srcom
