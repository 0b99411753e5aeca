package cmd

import (
	"github.com/spf13/cobra"
)

var putCmd = &cobra.Command{
	Use:   "put <uri>",
	Short: "Publish a cached object back to the store (not supported)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPut,
}

func init() {
	putCmd.Flags().BoolP("force", "f", false, "overwrite the remote object")
	rootCmd.AddCommand(putCmd)
}

func runPut(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	c, err := newCache()
	if err != nil {
		return err
	}
	_, err = c.Object(args[0]).Put(cmd.Context(), force)
	return err
}
