// Package lockfile holds an exclusive, non-blocking lock on a file for the
// lifetime of a process.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tempo/internal/logging"
)

// ErrLocked is returned when another process holds the lock
var ErrLocked = errors.New("lock held by another process")

// Lock is a held lock file
type Lock struct {
	file *os.File
	path string
}

// Acquire takes the lock at path, creating the file if needed. The holder's
// pid is written into the file.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := lockFile(file); err != nil {
		holder := readHolder(file)
		file.Close()
		if holder != "" {
			return nil, fmt.Errorf("%w (pid %s): %s", ErrLocked, holder, path)
		}
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	if err := file.Truncate(0); err == nil {
		_, _ = file.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}

	logging.Logger.Debug("Lock acquired", "path", path)
	return &Lock{file: file, path: path}, nil
}

// Release unlocks and closes the lock file
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlockFile(l.file)
	closeErr := l.file.Close()
	l.file = nil

	logging.Logger.Debug("Lock released", "path", l.path)
	return errors.Join(unlockErr, closeErr)
}

func readHolder(file *os.File) string {
	buf := make([]byte, 32)
	n, _ := file.ReadAt(buf, 0)
	return strings.TrimSpace(string(buf[:n]))
}
