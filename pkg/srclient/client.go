// Package srclient provides the main entry point for creating speedrun.com API clients
package srclient

import (
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/srcom-client/internal/client"
	"github.com/fivetwenty-io/srcom-client/internal/constants"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

// EnvAPIKey is read when the configuration carries no API key.
const EnvAPIKey = "SRCOM_API_KEY"

// New creates a new speedrun.com API client. A nil config yields an
// anonymous client against the public API.
func New(config *srcom.Config) (srcom.Client, error) {
	if config == nil {
		config = &srcom.Config{}
	}

	normalized := *config
	normalized.BaseURL = normalizeBaseURL(config.BaseURL)

	if normalized.APIKey == "" {
		normalized.APIKey = os.Getenv(EnvAPIKey)
	}

	c, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// normalizeBaseURL adds a scheme and the trailing slash relative paths are
// resolved against.
func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return constants.DefaultBaseURL
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return strings.TrimSuffix(baseURL, "/") + "/"
}

// NewWithAPIKey creates a client authenticated with apiKey.
func NewWithAPIKey(apiKey string) (srcom.Client, error) {
	return New(&srcom.Config{
		APIKey: apiKey,
	})
}

// NewWithEndpoint creates an anonymous client against another API root, such
// as a mirror or a test server.
func NewWithEndpoint(baseURL string) (srcom.Client, error) {
	return New(&srcom.Config{
		BaseURL: baseURL,
	})
}

// Close releases resources held by c, such as a second-level cache
// connection. Clients without any are a no-op.
func Close(c srcom.Client) error {
	closer, ok := c.(interface{ Close() error })
	if !ok {
		return nil
	}

	return closer.Close()
}
