package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/srcom-client/internal/constants"
)

// Configuration keys accepted by 'config set' and 'config unset'.
const (
	keyAPIKey    = "api_key"
	keyBaseURL   = "base_url"
	keyOutput    = "output"
	keyNoColor   = "no_color"
	keyCacheSize = "cache_size"
	keyTimeout   = "timeout"
	keyCacheType = "cache_type"
	keyCacheTTL  = "cache_ttl"
	keyRedisAddr = "redis_addr"
	keyNATSURL   = "nats_url"
)

// Config represents the CLI configuration.
type Config struct {
	APIKey    string        `json:"api_key,omitempty"    yaml:"api_key,omitempty"`
	BaseURL   string        `json:"base_url,omitempty"   yaml:"base_url,omitempty"`
	Output    string        `json:"output,omitempty"     yaml:"output,omitempty"`
	NoColor   bool          `json:"no_color"             yaml:"no_color"`
	CacheSize int           `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
	Timeout   time.Duration `json:"timeout,omitempty"    yaml:"timeout,omitempty"`

	// Optional second-level response store shared between invocations.
	CacheType string        `json:"cache_type,omitempty" yaml:"cache_type,omitempty"`
	CacheTTL  time.Duration `json:"cache_ttl,omitempty"  yaml:"cache_ttl,omitempty"`
	RedisAddr string        `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	NATSURL   string        `json:"nats_url,omitempty"   yaml:"nats_url,omitempty"`
}

// ConfigDir returns ~/.srcom.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".srcom"), nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in ~/.srcom/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			shown := *config
			if shown.APIKey != "" {
				shown.APIKey = constants.MaskedSecret
			}

			return render(cmd.OutOrStdout(), &shown, func(out io.Writer) error {
				return displayConfigTable(out, &shown)
			})
		},
	}
}

func displayConfigTable(out io.Writer, config *Config) error {
	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	_ = table.Append("API Key", valueOrNA(config.APIKey))
	_ = table.Append("Base URL", valueOrDefault(config.BaseURL, constants.DefaultBaseURL))
	_ = table.Append("Output", valueOrDefault(config.Output, constants.FormatTable))
	_ = table.Append("No Color", strconv.FormatBool(config.NoColor))
	_ = table.Append("Cache Size", strconv.Itoa(config.CacheSize))
	_ = table.Append("Timeout", config.Timeout.String())
	_ = table.Append("Cache Type", valueOrDefault(config.CacheType, "none"))

	if config.CacheType != "" && config.CacheType != "none" {
		_ = table.Append("Cache TTL", config.CacheTTL.String())
		_ = table.Append("Redis Address", valueOrNA(config.RedisAddr))
		_ = table.Append("NATS URL", valueOrNA(config.NATSURL))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Keys: api_key, base_url, output, no_color, cache_size, timeout,
cache_type (none, redis, nats, chain), cache_ttl, redis_addr, nats_url.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := unsetConfigValue(config, args[0])
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case keyAPIKey:
		config.APIKey = value
	case keyBaseURL:
		config.BaseURL = value
	case keyOutput:
		err := validateOutput(value)
		if err != nil {
			return err
		}

		config.Output = value
	case keyNoColor:
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}

		config.NoColor = enabled
	case keyCacheSize:
		size, err := strconv.Atoi(value)
		if err != nil || size <= 0 {
			return fmt.Errorf("%w: %q", constants.ErrInvalidCacheSize, value)
		}

		config.CacheSize = size
	case keyTimeout, keyCacheTTL:
		duration, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %q", constants.ErrInvalidDuration, value)
		}

		if key == keyTimeout {
			config.Timeout = duration
		} else {
			config.CacheTTL = duration
		}
	case keyCacheType:
		config.CacheType = value
	case keyRedisAddr:
		config.RedisAddr = value
	case keyNATSURL:
		config.NATSURL = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func unsetConfigValue(config *Config, key string) error {
	switch key {
	case keyAPIKey:
		config.APIKey = ""
	case keyBaseURL:
		config.BaseURL = ""
	case keyOutput:
		config.Output = ""
	case keyNoColor:
		config.NoColor = false
	case keyCacheSize:
		config.CacheSize = 0
	case keyTimeout:
		config.Timeout = 0
	case keyCacheType:
		config.CacheType = ""
	case keyCacheTTL:
		config.CacheTTL = 0
	case keyRedisAddr:
		config.RedisAddr = ""
	case keyNATSURL:
		config.NATSURL = ""
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

// loadConfig reads the effective configuration: flags, SRCOM_* environment
// variables and the config file, in that order of precedence.
func loadConfig() *Config {
	return &Config{
		APIKey:    viper.GetString(keyAPIKey),
		BaseURL:   viper.GetString(keyBaseURL),
		Output:    viper.GetString(keyOutput),
		NoColor:   viper.GetBool(keyNoColor),
		CacheSize: viper.GetInt(keyCacheSize),
		Timeout:   viper.GetDuration(keyTimeout),
		CacheType: viper.GetString(keyCacheType),
		CacheTTL:  viper.GetDuration(keyCacheTTL),
		RedisAddr: viper.GetString(keyRedisAddr),
		NATSURL:   viper.GetString(keyNATSURL),
	}
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.yml"), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Keep the running process consistent with what was written.
	viper.Set(keyAPIKey, config.APIKey)
	viper.Set(keyBaseURL, config.BaseURL)
	viper.Set(keyCacheSize, config.CacheSize)

	return nil
}
