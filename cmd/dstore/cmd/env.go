package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/aweris/dstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the resolved configuration",
	Args:  cobra.NoArgs,
	RunE:  runEnv,
}

func init() {
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, _ []string) error {
	cfg, err := newConfig()
	if err != nil {
		return err
	}

	root, err := dstore.ResolveCacheRoot(cfg)
	if err != nil {
		root = "error: " + err.Error()
	}
	endpointDir := "-"
	if cfg.Endpoint != "" {
		if endpointDir, err = dstore.EndpointDir(cfg.Endpoint); err != nil {
			endpointDir = "error: " + err.Error()
		}
	}
	client := viper.GetString("client")
	if mux, ok := cfg.Client.(interface{ Schemes() []string }); ok {
		client += " (" + strings.Join(mux.Schemes(), ", ") + ")"
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, kv := range [][2]string{
		{"version", dstore.Version},
		{"endpoint", orDash(cfg.Endpoint)},
		{"endpoint_dir", endpointDir},
		{"cache_root", root},
		{"binary", orDash(cfg.Binary)},
		{"retries", fmt.Sprint(cfg.Retries)},
		{"client", client},
		{"config_file", orDash(viper.ConfigFileUsed())},
	} {
		fmt.Fprintf(w, "%s\t%s\n", kv[0], kv[1])
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
