package fingerprint

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// loadCache loads persisted digests from the cache file if it exists.
// A malformed or unreadable file is treated as an empty map.
func (s *Store) loadCache() {
	data, err := afero.ReadFile(s.fs, s.cacheFile)
	if err != nil {
		return
	}

	sums := make(map[string]string)
	if err := json.Unmarshal(data, &sums); err != nil {
		// Corrupt cache files are recovered by starting fresh.
		s.logger.Warn("ignoring malformed cache file", "file", s.cacheFile, "error", err)
		return
	}
	s.sums = sums
}

// saveCacheLocked writes the current map to the cache file, pretty-printed
// for diffability. A write failure is a warning, not an error: the
// in-memory map stays authoritative for the rest of the process.
// Callers must hold s.mu.
func (s *Store) saveCacheLocked() {
	if dir := filepath.Dir(s.cacheFile); dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			s.logger.Warn("failed to create cache directory", "dir", dir, "error", err)
			return
		}
	}

	data, err := json.MarshalIndent(s.sums, "", "  ")
	if err != nil {
		s.logger.Warn("failed to marshal cache", "file", s.cacheFile, "error", err)
		return
	}

	if err := afero.WriteFile(s.fs, s.cacheFile, data, 0o644); err != nil {
		s.logger.Warn("failed to write cache file", "file", s.cacheFile, "error", err)
	}
}

// HasChanged reports whether the file at path is new or has different
// bytes since the last check. A detected change updates the stored digest
// and persists the map before returning. A vanished file is reported as
// unchanged and its entry, if any, is dropped. Errors other than a
// missing file (permissions, short reads) are returned to the caller.
func (s *Store) HasChanged(path string) (bool, error) {
	return s.hasChanged(context.Background(), path)
}

// HasChangedContext is HasChanged with cancellation applied to the
// digest read.
func (s *Store) HasChangedContext(ctx context.Context, path string) (bool, error) {
	return s.hasChanged(ctx, path)
}

func (s *Store) hasChanged(ctx context.Context, path string) (bool, error) {
	// Digesting is read-only and runs outside the critical section, so
	// concurrent checks of different files are not serialized.
	sum, err := s.DigestContext(ctx, path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.forget(path)
			return false, nil
		}
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.sums[path]; ok && prev == sum {
		return false, nil
	}

	s.sums[path] = sum
	s.saveCacheLocked()
	return true, nil
}

// forget drops one entry, persisting only if a deletion occurred.
func (s *Store) forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sums[path]; !ok {
		return
	}
	delete(s.sums, path)
	s.saveCacheLocked()
}

// AnyChanged reports whether any of the given files changed. Evaluation
// is sequential and stops at the first change, so digests of later paths
// are not refreshed once a change is found.
func (s *Store) AnyChanged(paths ...string) (bool, error) {
	for _, path := range paths {
		changed, err := s.HasChanged(path)
		if err != nil {
			return false, err
		}
		if changed {
			return true, nil
		}
	}
	return false, nil
}

// AllChanged reports whether every given file changed. Evaluation is
// sequential and stops at the first unchanged path.
func (s *Store) AllChanged(paths ...string) (bool, error) {
	for _, path := range paths {
		changed, err := s.HasChanged(path)
		if err != nil {
			return false, err
		}
		if !changed {
			return false, nil
		}
	}
	return true, nil
}

// AnyChangedContext is AnyChanged with every path checked concurrently.
// Unlike the sequential form it never short-circuits: all digests are
// refreshed before the results are reduced.
func (s *Store) AnyChangedContext(ctx context.Context, paths ...string) (bool, error) {
	results, err := s.checkAll(ctx, paths)
	if err != nil {
		return false, err
	}
	for _, changed := range results {
		if changed {
			return true, nil
		}
	}
	return false, nil
}

// AllChangedContext is AllChanged with every path checked concurrently
// and no short-circuiting.
func (s *Store) AllChangedContext(ctx context.Context, paths ...string) (bool, error) {
	results, err := s.checkAll(ctx, paths)
	if err != nil {
		return false, err
	}
	for _, changed := range results {
		if !changed {
			return false, nil
		}
	}
	return true, nil
}

// checkAll runs HasChanged for all paths concurrently, preserving input
// order in the result slice.
func (s *Store) checkAll(ctx context.Context, paths []string) ([]bool, error) {
	results := make([]bool, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			changed, err := s.hasChanged(gctx, path)
			if err != nil {
				return err
			}
			results[i] = changed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Refresh recomputes and stores the digest for the given paths, or for
// every tracked path if none are given. Entries whose file has vanished
// are dropped. The map is persisted once at the end, not per path.
func (s *Store) Refresh(paths ...string) error {
	if len(paths) == 0 {
		paths = s.Paths()
	}

	type update struct {
		path string
		sum  string
		drop bool
	}

	updates := make([]update, 0, len(paths))
	for _, path := range paths {
		sum, err := s.Digest(path)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				updates = append(updates, update{path: path, drop: true})
				continue
			}
			return err
		}
		updates = append(updates, update{path: path, sum: sum})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range updates {
		if u.drop {
			delete(s.sums, u.path)
			continue
		}
		s.sums[u.path] = u.sum
	}
	s.saveCacheLocked()

	return nil
}

// Clear empties the map and persists.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sums = make(map[string]string)
	s.saveCacheLocked()
}

// Remove deletes the entry for path, persisting only if one existed.
func (s *Store) Remove(path string) {
	s.forget(path)
}

// Paths returns the tracked paths in sorted order.
func (s *Store) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.sums))
	for path := range s.sums {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Sum returns the stored digest for path, if one exists.
func (s *Store) Sum(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum, ok := s.sums[path]
	return sum, ok
}
