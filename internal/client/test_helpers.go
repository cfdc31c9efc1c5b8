package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// apiPrefix is where FixtureServer mounts the API.
const apiPrefix = "/api/v1/"

// FixtureServer serves canned JSON bodies keyed by request path and query,
// counting every request it receives.
type FixtureServer struct {
	server *httptest.Server

	mu       sync.Mutex
	fixtures map[string]fixture
	hits     map[string]int
	total    int
}

type fixture struct {
	status  int
	body    string
	headers map[string]string
}

// NewFixtureServer starts a server that is closed with the test.
func NewFixtureServer(t *testing.T) *FixtureServer {
	t.Helper()

	fs := &FixtureServer{
		fixtures: map[string]fixture{},
		hits:     map[string]int{},
	}

	fs.server = httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(fs.server.Close)

	return fs
}

func (fs *FixtureServer) serve(writer http.ResponseWriter, request *http.Request) {
	key := strings.TrimPrefix(request.URL.RequestURI(), apiPrefix)

	fs.mu.Lock()
	fs.hits[key]++
	fs.total++
	item, ok := fs.fixtures[key]
	fs.mu.Unlock()

	if !ok {
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte(`{"status":404,"message":"no fixture for ` + key + `"}`))

		return
	}

	for name, value := range item.headers {
		writer.Header().Set(name, value)
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(item.status)
	_, _ = writer.Write([]byte(item.body))
}

// Handle serves body for pathAndQuery, relative to the API root.
func (fs *FixtureServer) Handle(pathAndQuery, body string) {
	fs.HandleStatus(pathAndQuery, http.StatusOK, body)
}

// HandleStatus serves body with status for pathAndQuery.
func (fs *FixtureServer) HandleStatus(pathAndQuery string, status int, body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.fixtures[pathAndQuery] = fixture{status: status, body: body}
}

// HandleHeaders serves an empty body with extra response headers.
func (fs *FixtureServer) HandleHeaders(pathAndQuery string, headers map[string]string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.fixtures[pathAndQuery] = fixture{status: http.StatusOK, body: "{}", headers: headers}
}

// BaseURL is the API root clients should be configured with.
func (fs *FixtureServer) BaseURL() string {
	return fs.server.URL + apiPrefix
}

// URL returns the absolute URI of pathAndQuery, as used in next links.
func (fs *FixtureServer) URL(pathAndQuery string) string {
	return fs.BaseURL() + pathAndQuery
}

// Hits returns how often pathAndQuery was requested.
func (fs *FixtureServer) Hits(pathAndQuery string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.hits[pathAndQuery]
}

// Total returns the number of requests received.
func (fs *FixtureServer) Total() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.total
}

// NewTestClient creates a client against baseURL.
func NewTestClient(t *testing.T, baseURL string, apiKey string) *Client {
	t.Helper()

	client, err := New(&srcom.Config{BaseURL: baseURL, APIKey: apiKey})
	require.NoError(t, err)

	return client
}

// TestGetOperation represents a generic get operation test case.
type TestGetOperation[TResponse any] struct {
	Name         string
	ID           string
	ExpectedPath string
	StatusCode   int
	Response     string
	WantErr      bool
	ErrMessage   string
	Check        func(t *testing.T, result TResponse)
}

// RunGetTests runs a series of get operation tests.
func RunGetTests[TResponse any](
	t *testing.T,
	tests []TestGetOperation[TResponse],
	getFunc func(*Client) func(context.Context, string) (TResponse, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, "GET", request.Method)
				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(testCase.StatusCode)
				_, _ = writer.Write([]byte(testCase.Response))
			}))
			defer server.Close()

			client := NewTestClient(t, server.URL+apiPrefix, "")

			result, err := getFunc(client)(context.Background(), testCase.ID)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				return
			}

			require.NoError(t, err)

			if testCase.Check != nil {
				testCase.Check(t, result)
			}
		})
	}
}
