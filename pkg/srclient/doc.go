// Package srclient provides the primary entry point for constructing a
// speedrun.com REST API client that implements the srcom.Client interface.
//
// It layers configuration normalization and the HTTP transport on top of the
// entity types and resource interfaces defined in the srcom package. Most
// applications import srclient to build a client, then use the returned
// srcom.Client to reach the resource clients, for example Games(), Runs()
// or Leaderboards().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/srcom-client/pkg/srcom"
//	  "github.com/fivetwenty-io/srcom-client/pkg/srclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Anonymous access to the public API.
//	  cli, err := srclient.New(nil)
//	  if err != nil { log.Fatal(err) }
//
//	  game, err := cli.Games().Search(ctx, "super mario 64", nil)
//	  if err != nil { log.Fatal(err) }
//
//	  categories, err := game.Categories(ctx)
//	  if err != nil { log.Fatal(err) }
//
//	  // Relations are fetched on first access and memoized.
//	  wr, err := categories[0].WorldRecord(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = wr
//
//	  // Authenticated access for notifications, the profile and run
//	  // submission. SRCOM_API_KEY is used when APIKey is empty.
//	  cli, err = srclient.New(&srcom.Config{APIKey: "..."})
//	}
//
// Caching
//
// Every client keeps a bounded LRU of responses (srcom.Config.MaxCacheElements,
// default 50). Set srcom.Config.Cache to share responses between processes
// through Redis or a NATS JetStream key-value bucket; call Close when done.
package srclient
