package fingerprint

import (
	"hash"
	"io"
	"log/slog"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
)

// DefaultCacheFile is the cache file used when Open is given an empty path.
const DefaultCacheFile = "fingerprint_cache.json"

// defaultAlgorithm names the digest used when WithHashFunc is not given.
const defaultAlgorithm = "xxhash64"

// HashFunc defines a function that creates a new hash.Hash instance.
// Each digest computation gets its own instance, so implementations need
// not be safe for concurrent use.
type HashFunc func() hash.Hash

// Store tracks one digest per file path and persists the mapping to a
// cache file, so callers can skip expensive work when a file's bytes have
// not changed since the last check.
//
// Paths are used verbatim as cache keys: the same file referenced through
// a relative and an absolute spelling is tracked as two independent
// entries. This is deliberate; see the package documentation.
type Store struct {
	cacheFile string
	baseDir   string // informational only, not applied to paths
	hashFunc  HashFunc
	algorithm string
	logger    *slog.Logger
	fs        afero.Fs

	mu   sync.Mutex
	sums map[string]string // path -> hex digest
}

// Open creates a Store bound to the given cache file, loading any
// previously persisted digests. An empty cacheFile uses DefaultCacheFile
// in the working directory. A missing, malformed or unreadable cache file
// is treated as an empty map, never an error.
func Open(cacheFile string, options ...Option) (*Store, error) {
	if cacheFile == "" {
		cacheFile = DefaultCacheFile
	}

	s := &Store{
		cacheFile: cacheFile,
		fs:        afero.NewOsFs(),
		hashFunc:  defaultHashFunc,
		algorithm: defaultAlgorithm,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		sums:      make(map[string]string),
	}

	// Apply options
	for _, option := range options {
		option(s)
	}

	s.loadCache()

	return s, nil
}

// CacheFile returns the path of the persisted cache file.
func (s *Store) CacheFile() string {
	return s.cacheFile
}

// BaseDir returns the advisory base directory, if one was configured.
// It is not applied to path keys.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Algorithm returns the name of the configured digest algorithm.
func (s *Store) Algorithm() string {
	return s.algorithm
}

// Len returns the number of tracked paths.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sums)
}

// newHash creates a new hash instance.
func (s *Store) newHash() hash.Hash {
	return s.hashFunc()
}

// defaultHashFunc returns the default hash function (xxHash64).
func defaultHashFunc() hash.Hash {
	return xxhash.New()
}
