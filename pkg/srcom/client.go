package srcom

import (
	"context"
	"net/url"
	"time"
)

// GamesClient accesses games and their per-game collections.
type GamesClient interface {
	Get(ctx context.Context, id string, embeds *GameEmbeds) (*Game, error)
	List(query *GamesQuery) *Sequence[*Game]
	ListHeaders(query *GameHeadersQuery) *Sequence[*GameHeader]
	// Search returns the first game matching name, or ErrGameNotFound.
	Search(ctx context.Context, name string, embeds *GameEmbeds) (*Game, error)
	// SearchExact returns the first game whose name equals name exactly.
	SearchExact(ctx context.Context, name string, embeds *GameEmbeds) (*Game, error)
	Categories(ctx context.Context, id string, query *CategoriesQuery) ([]*Category, error)
	Levels(ctx context.Context, id string, query *LevelsQuery) ([]*Level, error)
	Variables(ctx context.Context, id string, query *VariablesQuery) ([]*Variable, error)
	RomHacks(ctx context.Context, id string) ([]*Game, error)
	Records(id string, query *RecordsQuery) *Sequence[*Leaderboard]
}

// CategoriesClient accesses categories.
type CategoriesClient interface {
	Get(ctx context.Context, id string, embeds *CategoryEmbeds) (*Category, error)
	Variables(ctx context.Context, id string, query *VariablesQuery) ([]*Variable, error)
	Records(id string, query *RecordsQuery) *Sequence[*Leaderboard]
}

// LevelsClient accesses levels.
type LevelsClient interface {
	Get(ctx context.Context, id string, embeds *LevelEmbeds) (*Level, error)
	Categories(ctx context.Context, id string, query *CategoriesQuery) ([]*Category, error)
	Variables(ctx context.Context, id string, query *VariablesQuery) ([]*Variable, error)
	Records(id string, query *RecordsQuery) *Sequence[*Leaderboard]
}

// RunsClient accesses runs.
type RunsClient interface {
	Get(ctx context.Context, id string, embeds *RunEmbeds) (*Run, error)
	List(query *RunsQuery) *Sequence[*Run]
	Submit(ctx context.Context, submission *RunSubmission) (*Run, error)
}

// LeaderboardsClient accesses leaderboards.
type LeaderboardsClient interface {
	FullGameCategory(ctx context.Context, gameID, categoryID string, query *LeaderboardQuery) (*Leaderboard, error)
	Level(ctx context.Context, gameID, levelID, categoryID string, query *LeaderboardQuery) (*Leaderboard, error)
}

// UsersClient accesses users.
type UsersClient interface {
	Get(ctx context.Context, id string) (*User, error)
	List(query *UsersQuery) *Sequence[*User]
	// Lookup performs a fuzzy search over user names and external accounts.
	Lookup(name string, query *UsersQuery) *Sequence[*User]
	PersonalBests(ctx context.Context, id string, query *PersonalBestsQuery) ([]*Record, error)
}

// VariablesClient accesses variables.
type VariablesClient interface {
	Get(ctx context.Context, id string) (*Variable, error)
}

// PlatformsClient accesses platforms.
type PlatformsClient interface {
	Get(ctx context.Context, id string) (*Platform, error)
	List(query *PlatformsQuery) *Sequence[*Platform]
}

// RegionsClient accesses regions.
type RegionsClient interface {
	Get(ctx context.Context, id string) (*Region, error)
	List(query *RegionsQuery) *Sequence[*Region]
}

// SeriesClient accesses game series.
type SeriesClient interface {
	Get(ctx context.Context, id string, embeds *SeriesEmbeds) (*Series, error)
	List(query *SeriesQuery) *Sequence[*Series]
	Games(id string, query *GamesQuery) *Sequence[*Game]
}

// GuestsClient accesses guest players.
type GuestsClient interface {
	Get(ctx context.Context, name string) (*Guest, error)
}

// NotificationsClient accesses the authenticated user's notifications.
type NotificationsClient interface {
	List(query *NotificationsQuery) *Sequence[*Notification]
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	Games() GamesClient
	Categories() CategoriesClient
	Levels() LevelsClient
	Runs() RunsClient
	Leaderboards() LeaderboardsClient
	Users() UsersClient
	Variables() VariablesClient
	Platforms() PlatformsClient
	Regions() RegionsClient
	Series() SeriesClient
	Guests() GuestsClient
	Notifications() NotificationsClient
}

// Requester is the request primitive every accessor and lazy relation goes
// through.
type Requester interface {
	// Endpoint builds an absolute API URI from a path relative to the base
	// URL and its query values.
	Endpoint(path string, values url.Values) string
	// Request performs a cached GET and returns the parsed response.
	Request(ctx context.Context, uri string) (Node, error)
	// Post performs an uncached POST with a JSON body.
	Post(ctx context.Context, uri string, body []byte) (Node, error)
}

// Client is the speedrun.com API client.
type Client interface {
	ResourceClients
	Requester

	// Profile returns the user the API key belongs to.
	Profile(ctx context.Context) (*User, error)
	// IsAccessTokenValid reports whether the configured API key is accepted.
	IsAccessTokenValid(ctx context.Context) (bool, error)
	// ResolveSiteURL maps a speedrun.com page URL to the API element it shows.
	ResolveSiteURL(ctx context.Context, siteURL string) (*ElementDescription, error)
	// Cache exposes the request cache for inspection.
	Cache() *RequestCache
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a srcom.Client.
//
// # Authentication
//
// Most endpoints are public. APIKey is sent as the X-API-Key header and is
// required for notifications, the profile and run submission.
//
// # Caching
//
// Every GET goes through a per-client LRU holding MaxCacheElements parsed
// responses (default 50). Cache optionally adds a second-level store shared
// between processes; it is consulted on a miss before the network.
//
// # Timeouts and retries
//
// Each request carries Timeout (default 30s). Retries are off unless
// RetryMax is set.
type Config struct {
	// BaseURL: API root, default "https://www.speedrun.com/api/v1/".
	BaseURL string
	// APIKey: optional key sent as X-API-Key.
	APIKey string
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Timeout: per-request timeout.
	Timeout time.Duration
	// MaxCacheElements: bound of the request cache.
	MaxCacheElements int
	// Cache: optional second-level response store.
	Cache *CacheConfig
	// RetryMax: retries for connection errors and 5xx/429 responses. Zero
	// disables retries.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries.
	RetryWaitMax time.Duration
	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger.
	Logger Logger
}
