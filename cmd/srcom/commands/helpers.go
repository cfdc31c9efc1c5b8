package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
	"github.com/fivetwenty-io/srcom-client/pkg/srclient"
	"github.com/fivetwenty-io/srcom-client/pkg/srcom"
)

const (
	yamlIndent = 2

	// maxPageSize is the largest page the API serves.
	maxPageSize = 200
)

// createClient builds a client from the effective configuration.
func createClient() (srcom.Client, error) {
	return createClientFromConfig(loadConfig())
}

func createClientFromConfig(config *Config) (srcom.Client, error) {
	clientConfig := &srcom.Config{
		BaseURL:          config.BaseURL,
		APIKey:           config.APIKey,
		Timeout:          config.Timeout,
		MaxCacheElements: config.CacheSize,
	}

	if viper.GetBool("verbose") {
		clientConfig.Logger = NewLogger(os.Stderr, true, config.NoColor)
		clientConfig.Debug = true
	}

	store, err := storeConfig(config)
	if err != nil {
		return nil, err
	}

	clientConfig.Cache = store

	client, err := srclient.New(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

func storeConfig(config *Config) (*srcom.CacheConfig, error) {
	cacheType := srcom.CacheType(config.CacheType)

	ttl := config.CacheTTL
	if ttl <= 0 {
		ttl = constants.DefaultStoreTTL
	}

	switch cacheType {
	case "", srcom.CacheTypeNone:
		return nil, nil //nolint:nilnil // no store configured
	case srcom.CacheTypeRedis:
		return &srcom.CacheConfig{
			Type:  cacheType,
			TTL:   ttl,
			Redis: &srcom.RedisConfig{Addr: config.RedisAddr},
		}, nil
	case srcom.CacheTypeNATS:
		return &srcom.CacheConfig{
			Type: cacheType,
			TTL:  ttl,
			NATS: &srcom.NATSKVConfig{URL: config.NATSURL},
		}, nil
	case srcom.CacheTypeChain:
		return &srcom.CacheConfig{
			Type:  cacheType,
			TTL:   ttl,
			Redis: &srcom.RedisConfig{Addr: config.RedisAddr},
			NATS:  &srcom.NATSKVConfig{URL: config.NATSURL},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", srcom.ErrUnsupportedCacheType, config.CacheType)
	}
}

// withClient runs fn with a client and releases its store afterwards.
func withClient(fn func(ctx context.Context, client srcom.Client) error) error {
	client, err := createClient()
	if err != nil {
		return err
	}

	defer func() { _ = srclient.Close(client) }()

	return fn(context.Background(), client)
}

func validateOutput(format string) error {
	switch format {
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q", constants.ErrInvalidOutput, format)
	}
}

// render writes data in the configured output format; table output is
// delegated to table.
func render(out io.Writer, data interface{}, table func(io.Writer) error) error {
	format := viper.GetString("output")
	if format == "" {
		format = constants.FormatTable
	}

	err := validateOutput(format)
	if err != nil {
		return err
	}

	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		err = encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(yamlIndent)

		err = encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		return encoder.Close()
	default:
		return table(out)
	}
}

// renderRows prints a simple table, or a notice when there are no rows.
func renderRows(out io.Writer, empty string, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(out, empty)

		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header(header)

	for _, row := range rows {
		_ = table.Append(row)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func valueOrNA(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

func valueOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

func formatDate(value *time.Time) string {
	if value == nil {
		return constants.NotAvailable
	}

	return value.Format(constants.DateFormat)
}

func formatRunTime(value *srcom.RunTime) string {
	if value == nil {
		return constants.NotAvailable
	}

	return value.String()
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}

func joinNonEmpty(values []string) string {
	kept := values[:0:0]

	for _, value := range values {
		if value != "" {
			kept = append(kept, value)
		}
	}

	if len(kept) == 0 {
		return constants.NotAvailable
	}

	return strings.Join(kept, ", ")
}
