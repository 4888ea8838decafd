package fingerprint

// ExecuteIfChanged runs fn only if the file at path is new or has
// different bytes since the last check, and reports whether fn ran.
// The check itself follows HasChanged: a detected change is recorded
// and persisted before fn runs, so a failing fn does not rerun on the
// next call unless the file changes again. Errors from fn propagate
// unmodified. Callers wanting fn off the calling goroutine run it in
// one themselves; the store adds no scheduling of its own here.
func (s *Store) ExecuteIfChanged(path string, fn func() error) (bool, error) {
	changed, err := s.HasChanged(path)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}
	return true, fn()
}

// ExecuteIfAnyChanged runs fn once if any of the given files changed,
// and reports whether fn ran. The underlying AnyChanged short-circuits,
// so digests of paths after the first change are not refreshed.
func (s *Store) ExecuteIfAnyChanged(paths []string, fn func() error) (bool, error) {
	changed, err := s.AnyChanged(paths...)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}
	return true, fn()
}
