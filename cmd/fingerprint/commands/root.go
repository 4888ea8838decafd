// Package commands implements the CLI commands for the fingerprint tool.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/gophersatwork/fingerprint"
	"github.com/gophersatwork/fingerprint/internal/build"
	"github.com/spf13/cobra"
)

// CLI represents the command line interface for fingerprint.
type CLI struct {
	rootCmd *cobra.Command

	cacheFile string
	quiet     bool
}

// New creates a new CLI instance.
func New() *CLI {
	rootCmd := &cobra.Command{
		Use:           "fingerprint",
		Short:         "Track file fingerprints and transform only what changed",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		rootCmd: rootCmd,
	}

	rootCmd.PersistentFlags().StringVar(&c.cacheFile, "cache", fingerprint.DefaultCacheFile, "Path to the fingerprint cache file")
	rootCmd.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "Suppress warnings")

	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newRefreshCmd())
	rootCmd.AddCommand(c.newRemoveCmd())
	rootCmd.AddCommand(c.newClearCmd())
	rootCmd.AddCommand(c.newTransformCmd())
	rootCmd.AddCommand(c.newStatsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// openStore opens the store with warnings routed to the command's error
// stream, or discarded under --quiet.
func (c *CLI) openStore(cmd *cobra.Command) (*fingerprint.Store, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if !c.quiet {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
	}
	return fingerprint.Open(c.cacheFile, fingerprint.WithLogger(logger))
}
