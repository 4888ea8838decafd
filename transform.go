package fingerprint

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency bounds how many transforms run simultaneously in
// TransformContext when WithConcurrency is not given.
const DefaultConcurrency = 10

// TransformFunc transforms one input file into one output file. The
// pipeline invokes it only for inputs whose fingerprint changed (or under
// force). Errors propagate to the pipeline's caller unmodified.
type TransformFunc func(input, output string) error

// AggregateFunc derives a single output file from all input files
// together.
type AggregateFunc func(inputs []string, output string) error

// Outcome describes what happened to one logical output: its path and
// whether the transform actually ran.
type Outcome struct {
	Output    string
	Processed bool
}

// transformConfig holds the per-call pipeline settings.
type transformConfig struct {
	ext         string
	force       bool
	concurrency int
	transform   TransformFunc
	aggregate   AggregateFunc
}

// TransformOption defines a function that configures a single pipeline
// call.
type TransformOption func(*transformConfig)

// WithOutputExt sets the output naming policy. An extension starting
// with "." replaces the input's extension ("a.txt" -> "a.out"); anything
// else is appended to the full name ("a.txt" -> "a.txtout"). Empty keeps
// the input's base name.
func WithOutputExt(ext string) TransformOption {
	return func(c *transformConfig) {
		c.ext = ext
	}
}

// WithForce processes every input regardless of fingerprint state.
// Stored digests are still refreshed.
func WithForce() TransformOption {
	return func(c *transformConfig) {
		c.force = true
	}
}

// WithTransform sets the per-file transform. The default is a
// byte-for-byte copy.
func WithTransform(fn TransformFunc) TransformOption {
	return func(c *transformConfig) {
		c.transform = fn
	}
}

// WithAggregate sets the aggregate transform used by TransformAggregate.
// The default concatenates all inputs in order.
func WithAggregate(fn AggregateFunc) TransformOption {
	return func(c *transformConfig) {
		c.aggregate = fn
	}
}

// WithConcurrency bounds simultaneous transform invocations in
// TransformContext. It does not bound change detection. Values below 1
// fall back to DefaultConcurrency.
func WithConcurrency(n int) TransformOption {
	return func(c *transformConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

func (s *Store) newTransformConfig(opts []TransformOption) transformConfig {
	cfg := transformConfig{
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.transform == nil {
		cfg.transform = s.copyFile
	}
	if cfg.aggregate == nil {
		cfg.aggregate = s.concatFiles
	}
	return cfg
}

// outputName applies the extension policy to an input path's base name.
func outputName(input, ext string) string {
	base := filepath.Base(input)
	if ext == "" {
		return base
	}
	if strings.HasPrefix(ext, ".") {
		return strings.TrimSuffix(base, filepath.Ext(base)) + ext
	}
	return base + ext
}

// Transform runs the per-file pipeline sequentially: each input whose
// fingerprint changed (or every input under WithForce) is passed to the
// transform along with its derived output path under outputDir. The
// output directory is created up front. Outcomes are returned in input
// order. A transform error aborts the batch and propagates; a missing
// input is reported as unchanged, never as an error.
func (s *Store) Transform(inputs []string, outputDir string, opts ...TransformOption) ([]Outcome, error) {
	cfg := s.newTransformConfig(opts)

	if err := s.fs.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	outcomes := make([]Outcome, 0, len(inputs))
	for _, input := range inputs {
		output := filepath.Join(outputDir, outputName(input, cfg.ext))

		// Checked even under force so stored digests stay current.
		changed, err := s.HasChanged(input)
		if err != nil {
			return nil, err
		}

		run := cfg.force || changed
		if run {
			if err := cfg.transform(input, output); err != nil {
				return nil, err
			}
		}

		outcomes = append(outcomes, Outcome{Output: output, Processed: run})
	}

	return outcomes, nil
}

// TransformAggregate derives one output file from all inputs together.
// The aggregate runs when forced, when any input's fingerprint changed,
// or when the output file is missing on disk: an aggregate output that
// was deleted is re-derived even if every input is unchanged.
func (s *Store) TransformAggregate(inputs []string, output string, opts ...TransformOption) (Outcome, error) {
	cfg := s.newTransformConfig(opts)

	if dir := filepath.Dir(output); dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return Outcome{}, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Checked even under force so stored digests stay current.
	changed, err := s.AnyChanged(inputs...)
	if err != nil {
		return Outcome{}, err
	}

	run := cfg.force || changed
	if !run {
		exists, err := afero.Exists(s.fs, output)
		if err != nil {
			return Outcome{}, fmt.Errorf("failed to check output existence: %w", err)
		}
		run = !exists
	}

	if run {
		if err := cfg.aggregate(inputs, output); err != nil {
			return Outcome{}, err
		}
	}

	return Outcome{Output: output, Processed: run}, nil
}

// TransformContext runs the per-file pipeline with bounded concurrency.
// Change detection fans out across all inputs at once; actual transform
// execution is gated by an admission semaphore of the configured size
// (default DefaultConcurrency), acquired immediately before the
// transform and released when it finishes. Outcomes keep input order
// regardless of completion order. The first failing check or transform
// cancels the group and is returned.
func (s *Store) TransformContext(ctx context.Context, inputs []string, outputDir string, opts ...TransformOption) ([]Outcome, error) {
	cfg := s.newTransformConfig(opts)

	if err := s.fs.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	outcomes := make([]Outcome, len(inputs))
	sem := semaphore.NewWeighted(int64(cfg.concurrency))

	g, gctx := errgroup.WithContext(ctx)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			output := filepath.Join(outputDir, outputName(input, cfg.ext))

			changed, err := s.hasChanged(gctx, input)
			if err != nil {
				return err
			}

			run := cfg.force || changed
			if run {
				if err := sem.Acquire(gctx, 1); err != nil {
					return err
				}
				err := cfg.transform(input, output)
				sem.Release(1)
				if err != nil {
					return err
				}
			}

			outcomes[i] = Outcome{Output: output, Processed: run}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return outcomes, nil
}

// concatFiles is the default aggregate transform: it concatenates all
// input file contents, in order, into the output file.
func (s *Store) concatFiles(inputs []string, output string) error {
	dstFile, err := s.fs.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}
	defer dstFile.Close()

	bufPtr := bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer bufferPool.Put(bufPtr)

	for _, input := range inputs {
		srcFile, err := s.fs.Open(input)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		_, err = io.CopyBuffer(dstFile, srcFile, buffer)
		_ = srcFile.Close()
		if err != nil {
			return fmt.Errorf("failed to append %s: %w", input, err)
		}
	}

	return nil
}
