package fingerprint

import (
	"os"
)

// Stats represents store statistics.
type Stats struct {
	Tracked       int    // Number of tracked paths
	CacheFile     string // Location of the persisted map
	CacheFileSize int64  // Size of the persisted map in bytes, 0 if absent
	Algorithm     string // Name of the digest algorithm
}

// Stats returns statistics about the store and its cache file.
func (s *Store) Stats() (Stats, error) {
	stats := Stats{
		Tracked:   s.Len(),
		CacheFile: s.cacheFile,
		Algorithm: s.algorithm,
	}

	info, err := s.fs.Stat(s.cacheFile)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return Stats{}, err
	}
	stats.CacheFileSize = info.Size()

	return stats, nil
}
