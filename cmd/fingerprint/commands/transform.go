package commands

import (
	"fmt"
	"io"

	"github.com/gophersatwork/fingerprint"
	"github.com/spf13/cobra"
)

func (c *CLI) newTransformCmd() *cobra.Command {
	var (
		outDir    string
		ext       string
		aggregate string
		force     bool
		jobs      int
	)

	cmd := &cobra.Command{
		Use:   "transform --out DIR <inputs...>",
		Short: "Copy changed inputs into an output directory",
		Long: `Transform runs the copy pipeline over the inputs: each input whose
fingerprint changed since the last run is copied into the output
directory, unchanged inputs are skipped. With --aggregate the inputs
are instead concatenated into the given file whenever any of them
changed or the file is missing.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd)
			if err != nil {
				return err
			}

			var opts []fingerprint.TransformOption
			if ext != "" {
				opts = append(opts, fingerprint.WithOutputExt(ext))
			}
			if force {
				opts = append(opts, fingerprint.WithForce())
			}

			out := cmd.OutOrStdout()

			if aggregate != "" {
				outcome, err := store.TransformAggregate(args, aggregate, opts...)
				if err != nil {
					return err
				}
				printOutcome(out, outcome)
				return nil
			}

			if outDir == "" {
				return fmt.Errorf("either --out or --aggregate is required")
			}

			var outcomes []fingerprint.Outcome
			if jobs > 1 {
				opts = append(opts, fingerprint.WithConcurrency(jobs))
				outcomes, err = store.TransformContext(cmd.Context(), args, outDir, opts...)
			} else {
				outcomes, err = store.Transform(args, outDir, opts...)
			}
			if err != nil {
				return err
			}

			for _, outcome := range outcomes {
				printOutcome(out, outcome)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory for per-file mode")
	cmd.Flags().StringVar(&ext, "ext", "", "Output extension: \".x\" replaces, \"x\" appends")
	cmd.Flags().StringVar(&aggregate, "aggregate", "", "Concatenate inputs into this file instead of per-file copies")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Process every input regardless of fingerprints")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "Run up to N transforms concurrently")

	return cmd
}

func printOutcome(out io.Writer, outcome fingerprint.Outcome) {
	state := "skipped"
	if outcome.Processed {
		state = "processed"
	}
	fmt.Fprintf(out, "%s\t%s\n", state, outcome.Output)
}
