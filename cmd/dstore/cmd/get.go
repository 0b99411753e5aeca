package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <uri>...",
	Short: "Materialize objects into the local cache",
	Long: "Download objects into the local cache unless already present, and print\n" +
		"their local paths in argument order. Local paths are printed unchanged.",
	Args: cobra.MinimumNArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().BoolP("force", "f", false, "download even if a cached copy exists")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	c, err := newCache()
	if err != nil {
		return err
	}
	paths, err := c.MaterializeAll(cmd.Context(), args, force)
	if err != nil {
		return fmt.Errorf("get failed: %w", err)
	}

	for i, path := range paths {
		size := "-"
		if info, err := os.Stat(path); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", args[i], path, size)
	}
	return nil
}
