package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/srcom-client/internal/http"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// Client implements the srcom.Client interface.
type Client struct {
	httpClient *internalhttp.Client
	cache      *srcom.RequestCache
	store      srcom.Cache
	logger     srcom.Logger

	// Resource clients
	games         *GamesClient
	categories    *CategoriesClient
	levels        *LevelsClient
	runs          *RunsClient
	leaderboards  *LeaderboardsClient
	users         *UsersClient
	variables     *VariablesClient
	platforms     *PlatformsClient
	regions       *RegionsClient
	series        *SeriesClient
	guests        *GuestsClient
	notifications *NotificationsClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *srcom.Config) []internalhttp.Option {
	var httpOpts []internalhttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, internalhttp.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.Timeout > 0 {
		httpOpts = append(httpOpts, internalhttp.WithTimeout(config.Timeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, internalhttp.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a new speedrun.com API client.
func New(config *srcom.Config, extra ...internalhttp.Option) (*Client, error) {
	if config == nil {
		config = &srcom.Config{}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", constants.ErrInvalidBaseURL, baseURL)
	}

	bound := config.MaxCacheElements
	if bound == 0 {
		bound = constants.DefaultCacheSize
	}

	client := &Client{logger: config.Logger}

	cacheOpts := []srcom.RequestCacheOption{}
	if config.Logger != nil && config.Debug {
		cacheOpts = append(cacheOpts, srcom.WithCacheLogger(config.Logger))
	}

	if config.Cache != nil && config.Cache.Type != srcom.CacheTypeNone && config.Cache.Type != "" {
		store, err := srcom.NewCacheFromConfig(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("creating response store: %w", err)
		}

		client.store = store
		cacheOpts = append(cacheOpts, srcom.WithStore(store, config.Cache.TTL))
	}

	client.cache, err = srcom.NewRequestCache(bound, cacheOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidCacheSize, err)
	}

	httpOpts := append(createHTTPClientOptions(config), extra...)
	client.httpClient = internalhttp.NewClient(baseURL, config.APIKey, httpOpts...)

	client.initializeResourceClients()

	return client, nil
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.games = NewGamesClient(c)
	c.categories = NewCategoriesClient(c)
	c.levels = NewLevelsClient(c)
	c.runs = NewRunsClient(c)
	c.leaderboards = NewLeaderboardsClient(c)
	c.users = NewUsersClient(c)
	c.variables = NewVariablesClient(c)
	c.platforms = NewPlatformsClient(c)
	c.regions = NewRegionsClient(c)
	c.series = NewSeriesClient(c)
	c.guests = NewGuestsClient(c)
	c.notifications = NewNotificationsClient(c)
}

// Endpoint implements srcom.Requester.Endpoint.
func (c *Client) Endpoint(path string, values url.Values) string {
	return c.httpClient.ResolveURL(path, values)
}

// Request implements srcom.Requester.Request. Responses are served from the
// request cache when present.
func (c *Client) Request(ctx context.Context, uri string) (srcom.Node, error) {
	return c.cache.GetOrFetch(ctx, uri, func(ctx context.Context) ([]byte, error) {
		resp, err := c.httpClient.Get(ctx, uri, nil)
		if err != nil {
			return nil, err
		}

		return resp.Body, nil
	})
}

// Post implements srcom.Requester.Post.
func (c *Client) Post(ctx context.Context, uri string, body []byte) (srcom.Node, error) {
	resp, err := c.httpClient.Post(ctx, uri, body)
	if err != nil {
		return srcom.Node{}, err
	}

	node, err := srcom.ParseNode(resp.Body)
	if err != nil {
		return srcom.Node{}, &srcom.TransportError{URI: uri, StatusCode: resp.StatusCode, Err: err}
	}

	return node, nil
}

// Profile implements srcom.Client.Profile.
func (c *Client) Profile(ctx context.Context) (*srcom.User, error) {
	if !c.httpClient.HasAPIKey() {
		return nil, srcom.ErrAPIKeyRequired
	}

	user, err := getElement(ctx, c, "profile", nil, srcom.ParseUser)
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}

	return user, nil
}

// IsAccessTokenValid implements srcom.Client.IsAccessTokenValid.
func (c *Client) IsAccessTokenValid(ctx context.Context) (bool, error) {
	if !c.httpClient.HasAPIKey() {
		return false, nil
	}

	_, err := c.Profile(ctx)
	if err == nil {
		return true, nil
	}

	apiErr := &srcom.APIError{}
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
		return false, nil
	}

	return false, err
}

// ResolveSiteURL implements srcom.Client.ResolveSiteURL.
func (c *Client) ResolveSiteURL(ctx context.Context, siteURL string) (*srcom.ElementDescription, error) {
	resp, err := c.httpClient.Get(ctx, siteURL, nil)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", siteURL, err)
	}

	for _, header := range resp.Headers.Values(constants.HeaderLink) {
		uri, ok := internalhttp.FindLink(internalhttp.ParseLinkHeader(header), constants.APILinkRelation)
		if !ok {
			continue
		}

		return srcom.ParseElementURI(uri)
	}

	return nil, fmt.Errorf("%w: %s", srcom.ErrNoLinkHeader, siteURL)
}

// Cache implements srcom.Client.Cache.
func (c *Client) Cache() *srcom.RequestCache {
	return c.cache
}

// Close releases the second-level store's connection, if any.
func (c *Client) Close() error {
	if closer, ok := c.store.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// Resource client accessors

// Games implements srcom.Client.Games.
func (c *Client) Games() srcom.GamesClient {
	return c.games
}

// Categories implements srcom.Client.Categories.
func (c *Client) Categories() srcom.CategoriesClient {
	return c.categories
}

// Levels implements srcom.Client.Levels.
func (c *Client) Levels() srcom.LevelsClient {
	return c.levels
}

// Runs implements srcom.Client.Runs.
func (c *Client) Runs() srcom.RunsClient {
	return c.runs
}

// Leaderboards implements srcom.Client.Leaderboards.
func (c *Client) Leaderboards() srcom.LeaderboardsClient {
	return c.leaderboards
}

// Users implements srcom.Client.Users.
func (c *Client) Users() srcom.UsersClient {
	return c.users
}

// Variables implements srcom.Client.Variables.
func (c *Client) Variables() srcom.VariablesClient {
	return c.variables
}

// Platforms implements srcom.Client.Platforms.
func (c *Client) Platforms() srcom.PlatformsClient {
	return c.platforms
}

// Regions implements srcom.Client.Regions.
func (c *Client) Regions() srcom.RegionsClient {
	return c.regions
}

// Series implements srcom.Client.Series.
func (c *Client) Series() srcom.SeriesClient {
	return c.series
}

// Guests implements srcom.Client.Guests.
func (c *Client) Guests() srcom.GuestsClient {
	return c.guests
}

// Notifications implements srcom.Client.Notifications.
func (c *Client) Notifications() srcom.NotificationsClient {
	return c.notifications
}

// loggerAdapter adapts srcom.Logger to http.Logger.
type loggerAdapter struct {
	logger srcom.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
