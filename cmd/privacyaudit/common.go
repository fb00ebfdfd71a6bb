package main

import (
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/spf13/cobra"

	"github.com/nao1215/privacyaudit/internal/config"
	"github.com/nao1215/privacyaudit/internal/fetcher"
	seclog "github.com/nao1215/privacyaudit/internal/log"
)

// addFetchFlags registers the flags that control page fetching.
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Timeout for each page fetch, redirects included")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with page fetches")
	cmd.Flags().Int64("max-body", config.DefaultMaxBodySize,
		"Maximum number of page bytes read")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy for page fetches (e.g., 127.0.0.1:9050)")
	cmd.Flags().StringArrayP("header", "H", nil,
		`Extra header sent with every page fetch ("Name: value", repeatable)`)
}

// getBoolFlag retrieves a boolean flag from the command or the root's persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// getStringFlag retrieves a string flag from the command or the root's persistent flags.
func getStringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return ""
		}
	}
	return v
}

// buildBaseConfig creates a Config from the global and fetch flags and
// loads the configuration file.
func buildBaseConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.LogJSON = getBoolFlag(cmd, "log-json")
	cfg.ConfigFilePath = getStringFlag(cmd, "config")

	var err error
	if cfg.FetchTimeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddress, err = cmd.Flags().GetString("proxy"); err != nil {
		return nil, err
	}

	rawHeaders, err := cmd.Flags().GetStringArray("header")
	if err != nil {
		return nil, err
	}
	if cfg.ExtraHeaders, err = config.ParseHeaders(rawHeaders); err != nil {
		return nil, err
	}

	if _, err := cfg.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	return cfg, nil
}

// newLogger creates the secure logger selected by the configuration.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg.LogJSON {
		return seclog.NewSecureJSONLogger(w, cfg.Verbose)
	}
	return seclog.NewSecureLogger(w, cfg.Verbose)
}

// newFetcher creates the page fetcher from the configuration.
// Default headers from the config file are sent to every site; flag
// headers override them. Site headers apply to their own domain only.
func newFetcher(cfg *config.Config, logger *slog.Logger) (*fetcher.HTTPFetcher, error) {
	headers := make(map[string]string)
	maps.Copy(headers, cfg.SiteConfigs.Defaults.Headers)
	maps.Copy(headers, cfg.ExtraHeaders)

	opts := []fetcher.Option{
		fetcher.WithTimeout(cfg.FetchTimeout),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithHeaders(headers),
		fetcher.WithHostHeaders(cfg.SiteConfigs.SiteHeaders()),
		fetcher.WithLogger(logger),
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, fetcher.WithSOCKS5Proxy(cfg.ProxyAddress))
	}

	return fetcher.New(opts...)
}
