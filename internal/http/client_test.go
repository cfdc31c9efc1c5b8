package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	srhttp "github.com/fivetwenty-io/srcom-client/internal/http"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing.
type MockLogger struct {
	mu   sync.Mutex
	logs []map[string]interface{}
}

func (l *MockLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

func (l *MockLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, 0, len(l.logs))
	for _, entry := range l.logs {
		out = append(out, entry["msg"].(string))
	}

	return out
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/api/v1/games/xkdk4g1m", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Equal(t, "srcom-client/1.0", request.Header.Get("User-Agent"))
			assert.Empty(t, request.Header.Get("X-API-Key"))

			_, _ = writer.Write([]byte(`{"data":{"id":"xkdk4g1m"}}`))
		}))
		defer server.Close()

		client := srhttp.NewClient(server.URL+"/api/v1/", "")

		resp, err := client.Do(context.Background(), &srhttp.Request{Method: "GET", Path: "games/xkdk4g1m"})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.JSONEq(t, `{"data":{"id":"xkdk4g1m"}}`, string(resp.Body))
	})

	t.Run("api key and user agent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "secret", request.Header.Get("X-API-Key"))
			assert.Equal(t, "tests/2.0", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := srhttp.NewClient(server.URL, "secret", srhttp.WithUserAgent("tests/2.0"))

		_, err := client.Get(context.Background(), "profile", nil)
		require.NoError(t, err)
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/games", request.URL.Path)
			assert.Equal(t, "max=20", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := srhttp.NewClient(server.URL, "")

		resp, err := client.Get(context.Background(), "games", url.Values{"max": []string{"20"}})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("raw body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			body, _ := io.ReadAll(request.Body)
			assert.JSONEq(t, `{"run":{"category":"c1"}}`, string(body))

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := srhttp.NewClient(server.URL, "")

		resp, err := client.Post(context.Background(), "runs", []byte(`{"run":{"category":"c1"}}`))
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"status":404,"message":"The game could not be found."}`))
		}))
		defer server.Close()

		client := srhttp.NewClient(server.URL, "")

		resp, err := client.Get(context.Background(), "games/missing", nil)
		require.Error(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		apiErr := &srcom.APIError{}
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "The game could not be found.", apiErr.Message)
		assert.True(t, srcom.IsNotFound(err))
	})

	t.Run("error response without body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := srhttp.NewClient(server.URL, "")

		_, err := client.Get(context.Background(), "games", nil)
		require.Error(t, err)

		transportErr := &srcom.TransportError{}
		require.True(t, errors.As(err, &transportErr))
		assert.Equal(t, http.StatusBadGateway, transportErr.StatusCode)
	})

	t.Run("absolute next link is followed verbatim", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/other/runs", request.URL.Path)
			assert.Equal(t, "offset=20&max=20", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := srhttp.NewClient("https://unused.example/api/v1/", "")

		_, err := client.Get(context.Background(), server.URL+"/other/runs?offset=20&max=20", nil)
		require.NoError(t, err)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := srhttp.NewClient(server.URL, "")

		resp, err := client.Do(context.Background(), &srhttp.Request{
			Method:  "GET",
			Path:    "games",
			Headers: map[string]string{"X-Custom-Header": "custom-value"},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_, _ = writer.Write([]byte(`{"data":[]}`))
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := srhttp.NewClient(server.URL, "", srhttp.WithLogger(logger), srhttp.WithDebug(true))

		_, err := client.Get(context.Background(), "games", nil)
		require.NoError(t, err)

		messages := logger.messages()
		assert.Contains(t, messages, "HTTP Request")
		assert.Contains(t, messages, "HTTP Response")
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			time.Sleep(200 * time.Millisecond)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := srhttp.NewClient(server.URL, "", srhttp.WithTimeout(20*time.Millisecond))

		_, err := client.Get(context.Background(), "games", nil)
		require.Error(t, err)

		transportErr := &srcom.TransportError{}
		assert.True(t, errors.As(err, &transportErr))
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		failures     int
		failStatus   int
		retryMax     int
		wantAttempts int32
		wantStatus   int
		wantErr      bool
	}{
		{name: "no retries by default", failures: 1, failStatus: http.StatusInternalServerError, retryMax: 0, wantAttempts: 1, wantStatus: 500, wantErr: true},
		{name: "retries on 5xx errors", failures: 2, failStatus: http.StatusInternalServerError, retryMax: 3, wantAttempts: 3, wantStatus: 200},
		{name: "retries on rate limiting", failures: 1, failStatus: http.StatusTooManyRequests, retryMax: 3, wantAttempts: 2, wantStatus: 200},
		{name: "does not retry on client errors", failures: 5, failStatus: http.StatusBadRequest, retryMax: 3, wantAttempts: 1, wantStatus: 400, wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var attempts atomic.Int32

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				if int(attempts.Add(1)) <= testCase.failures {
					writer.WriteHeader(testCase.failStatus)

					return
				}

				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			opts := []srhttp.Option{}
			if testCase.retryMax > 0 {
				opts = append(opts, srhttp.WithRetryConfig(testCase.retryMax, 5*time.Millisecond, 20*time.Millisecond))
			}

			client := srhttp.NewClient(server.URL, "", opts...)

			resp, err := client.Get(context.Background(), "games", nil)
			if testCase.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			require.NotNil(t, resp)
			assert.Equal(t, testCase.wantStatus, resp.StatusCode)
			assert.Equal(t, testCase.wantAttempts, attempts.Load())
		})
	}
}

func TestClient_ResolveURL(t *testing.T) {
	t.Parallel()

	client := srhttp.NewClient("https://www.speedrun.com/api/v1/", "")

	tests := []struct {
		name  string
		path  string
		query url.Values
		want  string
	}{
		{name: "relative", path: "games", want: "https://www.speedrun.com/api/v1/games"},
		{name: "leading slash", path: "/games", want: "https://www.speedrun.com/api/v1/games"},
		{name: "with query", path: "games", query: url.Values{"max": {"5"}}, want: "https://www.speedrun.com/api/v1/games?max=5"},
		{name: "absolute", path: "https://www.speedrun.com/api/v1/runs?offset=20", want: "https://www.speedrun.com/api/v1/runs?offset=20"},
		{name: "absolute with query", path: "https://x.example/runs?offset=20", query: url.Values{"max": {"5"}}, want: "https://x.example/runs?offset=20&max=5"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, client.ResolveURL(testCase.path, testCase.query))
		})
	}
}
