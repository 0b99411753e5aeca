package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aweris/dstore"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "dstore",
	Short: "Remote object store cache CLI",
	Long: "CLI for materializing objects of a remote object store into a local cache,\n" +
		"streaming them, and working with line-delimited JSON manifests.",
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return initLog() },
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ~/.config/dstore/config.yaml)")
	flags.String("endpoint", "", "remote store endpoint, scheme://host:port (env: "+dstore.EnvEndpoint+")")
	flags.String("cache-dir", "", "cache directory (default: ~/.cache/dstore)")
	flags.String("data-store-cache-dir", "", "cache directory for store objects, overrides --cache-dir")
	flags.String("binary", "", "path of the ais binary (default: located on PATH)")
	flags.Int("retries", dstore.DefaultRetries, "processes spawned per object before giving up")
	flags.String("client", "binary", "how to reach the store: binary or sdk")
	flags.Int("jobs", dstore.DefaultConcurrency, "objects fetched in parallel")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text, json or color")

	viper.BindPFlag("endpoint", flags.Lookup("endpoint"))
	viper.BindPFlag("cache_dir", flags.Lookup("cache-dir"))
	viper.BindPFlag("data_store_cache_dir", flags.Lookup("data-store-cache-dir"))
	viper.BindPFlag("binary", flags.Lookup("binary"))
	viper.BindPFlag("retries", flags.Lookup("retries"))
	viper.BindPFlag("client", flags.Lookup("client"))
	viper.BindPFlag("jobs", flags.Lookup("jobs"))
	viper.BindPFlag("log.level", flags.Lookup("log-level"))
	viper.BindPFlag("log.format", flags.Lookup("log-format"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DSTORE")
	viper.AutomaticEnv()
	viper.BindEnv("endpoint", dstore.EnvEndpoint)

	viper.ReadInConfig()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dstore")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "dstore")
	}
	return ".dstore"
}

func initLog() error {
	switch format := viper.GetString("log.format"); format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text":
		log.SetFormatter(&log.TextFormatter{})
	case "color":
		log.SetFormatter(&log.TextFormatter{ForceColors: true})
	default:
		return fmt.Errorf("unrecognized log format %q", format)
	}

	lvl, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		return fmt.Errorf("unrecognized log level: %w", err)
	}
	log.SetLevel(lvl)
	return nil
}

// newConfig resolves the cache configuration from the environment, the
// config file and flags.
func newConfig() (dstore.Config, error) {
	cfg := dstore.ConfigFromEnv()
	cfg.Endpoint = viper.GetString("endpoint")
	cfg.CacheDir = viper.GetString("cache_dir")
	cfg.DataStoreCacheDir = viper.GetString("data_store_cache_dir")
	cfg.Retries = viper.GetInt("retries")
	if bin := viper.GetString("binary"); bin != "" {
		cfg.Binary = bin
	}

	switch client := viper.GetString("client"); client {
	case "", "binary":
	case "sdk":
		cfg.Client = dstore.NewSDKClient()
	default:
		return cfg, fmt.Errorf("unknown client %q, want binary or sdk", client)
	}
	return cfg, nil
}

func newCache() (*dstore.Cache, error) {
	cfg, err := newConfig()
	if err != nil {
		return nil, err
	}
	return dstore.New(dstore.WithConfig(cfg), dstore.WithConcurrency(viper.GetInt("jobs"))), nil
}
