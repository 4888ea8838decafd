package fingerprint

import (
	"log/slog"

	"github.com/spf13/afero"
)

// Option defines a function that configures a Store.
type Option func(*Store)

// WithFs sets a custom filesystem for the store.
// This is primarily useful for testing with in-memory filesystems.
//
// Example:
//
//	store, err := fingerprint.Open("cache.json", fingerprint.WithFs(afero.NewMemMapFs()))
func WithFs(fs afero.Fs) Option {
	return func(s *Store) {
		s.fs = fs
	}
}

// WithHashFunc sets a custom digest function for the store, recorded
// under the given algorithm name. The default is xxHash64, which
// provides excellent performance. Any hash.Hash works: same bytes give
// the same digest, different bytes give a different one with
// overwhelming probability. The digest is a change detector, not a
// security primitive.
//
// Note: Changing the digest function invalidates existing cache entries.
func WithHashFunc(name string, hashFunc HashFunc) Option {
	return func(s *Store) {
		s.hashFunc = hashFunc
		s.algorithm = name
	}
}

// WithBaseDir records a base directory on the store. It is advisory:
// path keys are never resolved against it. Callers that want relative and
// absolute spellings of one file to share an entry must canonicalize
// paths themselves before handing them to the store.
func WithBaseDir(dir string) Option {
	return func(s *Store) {
		s.baseDir = dir
	}
}

// WithLogger sets the logger used for non-fatal warnings, such as a
// failed cache file write. The default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}
