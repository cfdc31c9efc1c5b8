package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
	"github.com/hashicorp/go-retryablehttp"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request is one HTTP call. Path is resolved against the base URL unless it
// is already absolute.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	URI        string
}

// Client is the transport every API call goes through.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *retryablehttp.Client
	logger     Logger
	debug      bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug logs every request and response.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithRetryConfig enables retries of connection errors, 5xx and 429
// responses.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithHTTPClient replaces the underlying *http.Client, e.g. to install a
// custom transport in tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// NewClient creates a transport for baseURL. apiKey may be empty.
func NewClient(baseURL string, apiKey string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		userAgent:  constants.DefaultUserAgent,
		httpClient: retryClient,
	}

	for _, opt := range opts {
		opt(client)
	}

	// Retry attempts are only logged in debug mode.
	if client.logger != nil && client.debug {
		retryClient.Logger = &leveledLogger{logger: client.logger}
	}

	return client
}

// BaseURL returns the URL relative paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HasAPIKey reports whether an API key is configured.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// ResolveURL joins path and query onto the base URL. Absolute paths are
// kept as they are.
func (c *Client) ResolveURL(path string, query url.Values) string {
	uri := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		uri = strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
	}

	if len(query) == 0 {
		return uri
	}

	separator := "?"
	if strings.Contains(uri, "?") {
		separator = "&"
	}

	return uri + separator + query.Encode()
}

// Do performs req. Non-2xx responses are returned together with an
// *srcom.APIError or *srcom.TransportError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	uri := c.ResolveURL(req.Path, req.Query)

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, uri, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", constants.ContentTypeJSON)

	if c.apiKey != "" {
		httpReq.Header.Set(constants.HeaderAPIKey, c.apiKey)
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", constants.ContentTypeJSON)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    uri,
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &srcom.TransportError{URI: uri, Err: err}
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &srcom.TransportError{URI: uri, StatusCode: httpResp.StatusCode, Err: err}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		Headers:    httpResp.Header,
		URI:        uri,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":   httpResp.StatusCode,
			"url":      uri,
			"duration": time.Since(start).String(),
			"bytes":    len(respBody),
		})
	}

	if httpResp.StatusCode < constants.HTTPStatusOK || httpResp.StatusCode >= constants.HTTPStatusMultipleChoices {
		return resp, srcom.ParseResponseError(httpResp.StatusCode, uri, respBody)
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request. body is sent as is when it is a []byte and
// JSON-encoded otherwise.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

func encodeBody(body interface{}) (io.Reader, error) {
	switch value := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(value), nil
	case json.RawMessage:
		return bytes.NewReader(value), nil
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}

		return bytes.NewReader(data), nil
	}
}

// leveledLogger adapts Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, fields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, fields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fields(keysAndValues))
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return out
}
