package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [paths...]",
		Short: "Recompute stored digests",
		Long: `Refresh recomputes and stores the digest for the given paths, or for
every tracked path when none are given. Entries for vanished files are
dropped. The cache file is rewritten once at the end.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd)
			if err != nil {
				return err
			}

			if err := store.Refresh(args...); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "refreshed, %d paths tracked\n", store.Len())
			return nil
		},
	}
}
