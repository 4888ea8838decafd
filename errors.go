package fingerprint

import (
	"errors"
)

// Sentinel errors
var (
	// ErrNotFound is returned by Digest when the path does not exist or
	// is not a regular file. HasChanged and the transform pipeline
	// recover from it locally: a vanished file is reported as
	// "unchanged" and its cache entry is dropped, so callers of those
	// operations never see this error for a missing input.
	ErrNotFound = errors.New("file not found")
)
