package cmd

import (
	"fmt"

	"github.com/aweris/dstore/manifest"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Work with line-delimited JSON manifests",
}

var manifestCheckCmd = &cobra.Command{
	Use:   "check <manifest>",
	Short: "Validate a manifest",
	Long:  "Read a local or remote manifest and report every malformed line.",
	Args:  cobra.ExactArgs(1),
	RunE:  runManifestCheck,
}

var manifestCopyCmd = &cobra.Command{
	Use:   "copy <src> <dst>",
	Short: "Copy a manifest to a local file",
	Long: "Read a local or remote manifest and write it to a local file. With --localize,\n" +
		"the objects named by the given field are materialized and the field is\n" +
		"rewritten to their local paths. Compression follows the file extensions.",
	Args: cobra.ExactArgs(2),
	RunE: runManifestCopy,
}

func init() {
	manifestCopyCmd.Flags().Bool("ensure-ascii", true, "escape non-ASCII characters")
	manifestCopyCmd.Flags().String("localize", "", "field naming objects to materialize, e.g. audio_filepath")

	manifestCmd.AddCommand(manifestCheckCmd, manifestCopyCmd)
	rootCmd.AddCommand(manifestCmd)
}

func runManifestCheck(cmd *cobra.Command, args []string) error {
	c, err := newCache()
	if err != nil {
		return err
	}
	entries, err := manifest.Read(cmd.Context(), c, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries\n", args[0], len(entries))
	return nil
}

func runManifestCopy(cmd *cobra.Command, args []string) error {
	ensureASCII, _ := cmd.Flags().GetBool("ensure-ascii")
	field, _ := cmd.Flags().GetString("localize")

	c, err := newCache()
	if err != nil {
		return err
	}
	entries, err := manifest.Read(cmd.Context(), c, args[0])
	if err != nil {
		return err
	}

	if field != "" {
		var ids []string
		var at []int
		for i, entry := range entries {
			if id, ok := entry[field].(string); ok {
				ids = append(ids, id)
				at = append(at, i)
			}
		}
		log.WithFields(log.Fields{"field": field, "objects": len(ids)}).Info("localizing manifest")

		paths, err := c.MaterializeAll(cmd.Context(), ids, false)
		if err != nil {
			return fmt.Errorf("localize %s: %w", field, err)
		}
		for j, i := range at {
			entries[i][field] = paths[j]
		}
	}

	if err := manifest.Write(args[1], entries, ensureASCII); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries\n", args[1], len(entries))
	return nil
}
