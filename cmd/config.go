package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teemow/workspace-mcp/internal/google"
	"github.com/teemow/workspace-mcp/internal/instrumentation"
	"github.com/teemow/workspace-mcp/internal/logging"
	"github.com/teemow/workspace-mcp/internal/server"
)

// Credential store backends selectable with credential_store.
const (
	storeAuto    = "auto"
	storeKeyring = "keyring"
	storeFile    = "file"
)

// Config is the resolved process configuration.
// Precedence: flags > environment > YAML config file > defaults.
type Config struct {
	ClientID        string `yaml:"client_id"`
	ClientSecret    string `yaml:"client_secret"`
	RefreshEndpoint string `yaml:"refresh_endpoint"`
	CredentialStore string `yaml:"credential_store"`
	CredentialFile  string `yaml:"credential_file"`
	EncryptionKey   string `yaml:"encryption_key"`
	RefreshMargin   string `yaml:"refresh_margin"`
	DownloadDir     string `yaml:"download_dir"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
	ReadOnly        bool   `yaml:"read_only"`
	MetricsEnabled  bool   `yaml:"metrics_enabled"`
	MetricsAddr     string `yaml:"metrics_addr"`
}

func defaultConfig() Config {
	return Config{
		CredentialStore: storeAuto,
		RefreshMargin:   google.DefaultRefreshMargin.String(),
		LogLevel:        "info",
		LogFormat:       "text",
		ReadOnly:        true,
		MetricsEnabled:  true,
		MetricsAddr:     server.DefaultMetricsAddr,
	}
}

// defaultConfigFile is read when it exists and no other path is given.
func defaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "workspace-mcp", "config.yaml")
}

// addConfigFlags registers the flags shared by every subcommand.
func addConfigFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file. Can also use WORKSPACE_MCP_CONFIG env var.")
	flags.String("client-id", "", "Google OAuth client ID. Can also use GOOGLE_CLIENT_ID env var.")
	flags.String("client-secret", "", "Google OAuth client secret. Can also use GOOGLE_CLIENT_SECRET env var.")
	flags.String("refresh-endpoint", "", "Token refresh endpoint used when no client secret is set. Can also use WORKSPACE_MCP_REFRESH_ENDPOINT env var.")
	flags.String("credential-store", storeAuto, "Credential store: auto, keyring or file. Can also use WORKSPACE_MCP_CREDENTIAL_STORE env var.")
	flags.String("credential-file", "", "Credential file for the file store (default: "+google.DefaultCredentialFile()+")")
	flags.String("refresh-margin", google.DefaultRefreshMargin.String(), "Refresh access tokens this long before they expire")
	flags.String("download-dir", "", "Directory for downloaded attachments and files. Can also use WORKSPACE_MCP_DOWNLOAD_DIR env var.")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.Bool("read-only", true, "Only register tools that do not modify Google data")
}

// loadConfig resolves the configuration for cmd.
func loadConfig(cmd *cobra.Command, getenv func(string) string) (Config, error) {
	cfg := defaultConfig()

	path, explicit, err := configFilePath(cmd, getenv)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.applyFlags(cmd); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func configFilePath(cmd *cobra.Command, getenv func(string) string) (string, bool, error) {
	if cmd.Flags().Changed("config") {
		path, err := cmd.Flags().GetString("config")
		return path, true, err
	}
	if path := getenv("WORKSPACE_MCP_CONFIG"); path != "" {
		return path, true, nil
	}
	return defaultConfigFile(), false, nil
}

// loadFile overlays the YAML file at path. A missing file is only an error
// when the path was given explicitly.
func (c *Config) loadFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"GOOGLE_CLIENT_ID":               &c.ClientID,
		"GOOGLE_CLIENT_SECRET":           &c.ClientSecret,
		"WORKSPACE_MCP_REFRESH_ENDPOINT": &c.RefreshEndpoint,
		"WORKSPACE_MCP_CREDENTIAL_STORE": &c.CredentialStore,
		"WORKSPACE_MCP_ENCRYPTION_KEY":   &c.EncryptionKey,
		"WORKSPACE_MCP_DOWNLOAD_DIR":     &c.DownloadDir,
		"METRICS_ADDR":                   &c.MetricsAddr,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	if v := getenv("METRICS_ENABLED"); v != "" {
		switch v {
		case "true", "1":
			c.MetricsEnabled = true
		case "false", "0":
			c.MetricsEnabled = false
		default:
			return fmt.Errorf("invalid METRICS_ENABLED value %q", v)
		}
	}
	return nil
}

func (c *Config) applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	strs := map[string]*string{
		"client-id":        &c.ClientID,
		"client-secret":    &c.ClientSecret,
		"refresh-endpoint": &c.RefreshEndpoint,
		"credential-store": &c.CredentialStore,
		"credential-file":  &c.CredentialFile,
		"refresh-margin":   &c.RefreshMargin,
		"download-dir":     &c.DownloadDir,
		"log-level":        &c.LogLevel,
		"log-format":       &c.LogFormat,
		"metrics-addr":     &c.MetricsAddr,
	}
	for name, dst := range strs {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	bools := map[string]*bool{
		"read-only":       &c.ReadOnly,
		"metrics-enabled": &c.MetricsEnabled,
	}
	for name, dst := range bools {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

// Validate checks values that cannot be checked by their type.
func (c *Config) Validate() error {
	switch c.CredentialStore {
	case storeAuto, storeKeyring, storeFile:
	default:
		return fmt.Errorf("invalid credential store %q, must be one of: auto, keyring, file", c.CredentialStore)
	}
	if _, err := c.Margin(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.EncryptionKey != "" {
		if _, err := google.EncryptionKeyFromBase64(c.EncryptionKey); err != nil {
			return err
		}
	}
	return nil
}

// Margin parses refresh_margin.
func (c *Config) Margin() (time.Duration, error) {
	if c.RefreshMargin == "" {
		return google.DefaultRefreshMargin, nil
	}
	d, err := time.ParseDuration(c.RefreshMargin)
	if err != nil {
		return 0, fmt.Errorf("invalid refresh margin %q: %w", c.RefreshMargin, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("refresh margin must not be negative, got %s", d)
	}
	return d, nil
}

// newCredentialStore builds the configured credential store.
func newCredentialStore(cfg Config, logger *slog.Logger) (google.CredentialStore, error) {
	var enc *google.Encryptor
	if cfg.EncryptionKey != "" {
		key, err := google.EncryptionKeyFromBase64(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
		enc, err = google.NewEncryptor(key)
		if err != nil {
			return nil, err
		}
	}
	file := google.NewFileStore(cfg.CredentialFile, enc)

	switch cfg.CredentialStore {
	case storeFile:
		return file, nil
	case storeKeyring:
		return google.NewKeyringStore("", ""), nil
	default:
		return google.NewFallbackStore(google.NewKeyringStore("", ""), file, logger), nil
	}
}

// newAuthManager builds the Google auth manager for cfg. The requested
// scopes follow the read-only mode.
func newAuthManager(cfg Config, store google.CredentialStore, logger *slog.Logger, metrics *instrumentation.Metrics) (*google.Manager, error) {
	margin, err := cfg.Margin()
	if err != nil {
		return nil, err
	}
	return google.NewManager(google.ManagerConfig{
		OAuth: google.OAuthConfig{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       google.Scopes(cfg.ReadOnly),
		},
		RefreshEndpoint: cfg.RefreshEndpoint,
		Store:           store,
		RefreshMargin:   margin,
		Metrics:         metrics,
		APIMetrics:      metrics,
		Logger:          logger,
	}), nil
}
