package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <paths...>",
		Short: "Report which files changed since the last check",
		Long: `Check digests the given files and prints "changed" or "unchanged" per
path. A changed file's new digest is recorded immediately, so a second
check of the same unmodified file reports unchanged. Missing files
report unchanged and drop any stale entry.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range args {
				changed, err := store.HasChanged(path)
				if err != nil {
					return err
				}
				state := "unchanged"
				if changed {
					state = "changed"
				}
				fmt.Fprintf(out, "%s\t%s\n", state, path)
			}
			return nil
		},
	}
}
