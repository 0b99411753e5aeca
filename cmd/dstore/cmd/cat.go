package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat <uri>",
	Short: "Stream an object to stdout",
	Long:  "Stream an object to stdout without storing it in the cache.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) (err error) {
	c, err := newCache()
	if err != nil {
		return err
	}
	rc, err := c.Open(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(cmd.OutOrStdout(), rc); err != nil {
		return fmt.Errorf("cat failed: %w", err)
	}
	return nil
}
