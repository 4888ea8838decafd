package fingerprint

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"
)

// Default size for the buffer used when digesting files
const defaultBufferSize = 32 * 1024 // 32KB

// bufferPool is a pool of byte slices used for file I/O during digesting
var bufferPool = sync.Pool{
	New: func() interface{} {
		buffer := make([]byte, defaultBufferSize)
		return &buffer
	},
}

// Digest reads the file at path in fixed-size chunks and returns its hex
// digest. It returns an error wrapping ErrNotFound if path does not exist
// or is not a regular file.
func (s *Store) Digest(path string) (string, error) {
	return s.DigestContext(context.Background(), path)
}

// DigestContext is Digest with cancellation. The context is checked
// between chunk reads, so a large file does not pin a cancelled batch.
// The digest value is identical to Digest's.
func (s *Store) DigestContext(ctx context.Context, path string) (string, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: not a regular file: %s", ErrNotFound, path)
	}

	file, err := s.fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	h := s.newHash()

	bufPtr := bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer bufferPool.Put(bufPtr)

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := file.Read(buffer)
		if n > 0 {
			h.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies a file from src to dst using the store's filesystem.
func (s *Store) copyFile(src, dst string) error {
	srcFile, err := s.fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := s.fs.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}
	defer dstFile.Close()

	bufPtr := bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer bufferPool.Put(bufPtr)

	_, err = io.CopyBuffer(dstFile, srcFile, buffer)
	if err != nil {
		return fmt.Errorf("failed to copy: %w", err)
	}

	return nil
}
