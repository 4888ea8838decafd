package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := c.openStore(cmd)
			if err != nil {
				return err
			}

			stats, err := store.Stats()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cache file: %s\n", stats.CacheFile)
			fmt.Fprintf(out, "algorithm: %s\n", stats.Algorithm)
			fmt.Fprintf(out, "tracked paths: %d\n", stats.Tracked)
			fmt.Fprintf(out, "cache file size: %d bytes\n", stats.CacheFileSize)
			return nil
		},
	}
}
