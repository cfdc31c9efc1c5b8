package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API endpoints.
const (
	// DefaultBaseURL is the REST API root every resource path is resolved against.
	DefaultBaseURL = "https://www.speedrun.com/api/v1/"

	// APILinkRelation is the Link header relation a site page uses to point at its API resource.
	APILinkRelation = "alternate https://www.speedrun.com/api"
)

// HTTP headers and client identity.
const (
	// DefaultUserAgent is sent when the caller does not configure one.
	DefaultUserAgent = "srcom-client/1.0"

	// HeaderAPIKey carries the API key for authenticated operations.
	HeaderAPIKey = "X-API-Key"

	// HeaderLink is the response header holding RFC 8288 links.
	HeaderLink = "Link"

	// ContentTypeJSON is used for Accept and Content-Type.
	ContentTypeJSON = "application/json"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout bounds a single second-level store operation.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits. Requests are not retried unless a caller opts in.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 0

	// DefaultRetryWaitMin is the minimum wait between opted-in retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Cache sizing.
const (
	// DefaultCacheSize is the number of responses kept by the request cache.
	DefaultCacheSize = 50

	// DefaultStoreTTL bounds how long a second-level store keeps a response.
	DefaultStoreTTL = 5 * time.Minute

	// DefaultNATSBucket is the JetStream key-value bucket used for stored responses.
	DefaultNATSBucket = "srcom-responses"

	// DefaultRedisPrefix namespaces stored responses in Redis.
	DefaultRedisPrefix = "srcom:response:"
)

// Concurrency and batching limits.
const (
	// DefaultConcurrencyLimit limits concurrent relation forcing in the CLI.
	DefaultConcurrencyLimit = 3
)

// Pagination and display limits.
const (
	// DefaultPageSize is the page size the CLI asks for.
	DefaultPageSize = 20

	// HeaderPageSize is the page size for bulk game header listings.
	HeaderPageSize = 1000

	// DemoDisplayLimit limits items shown in examples.
	DemoDisplayLimit = 3
)

// HTTP status codes commonly used.
const (
	// HTTPStatusOK represents a successful HTTP response.
	HTTPStatusOK = 200

	// HTTPStatusMultipleChoices is the first non-success status.
	HTTPStatusMultipleChoices = 300
)

// Wire formats.
const (
	// DateFormat is the calendar date layout used by run dates and leaderboard filters.
	DateFormat = "2006-01-02"
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)
