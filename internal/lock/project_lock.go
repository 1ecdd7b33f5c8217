// Package lock provides the project-level advisory lock taken by mutating commands.
package lock

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// FileName is the lock file created at the project root.
const FileName = ".vulegen.lock"

// DefaultStaleAfter is how old a lock must be before it may be stolen.
const DefaultStaleAfter = 10 * time.Minute

// LockInfo contains the metadata stored in a lock file.
type LockInfo struct {
	Token     string    `json:"token"`
	PID       int       `json:"pid"`
	CreatedAt time.Time `json:"created_at"`
	Cmd       string    `json:"cmd,omitempty"`
}

// ErrLocked indicates a non-stale lock is held by someone else.
type ErrLocked struct {
	Root string
	Info *LockInfo // nil if lock file is unreadable
	Path string
}

func (e *ErrLocked) Error() string {
	if e.Info != nil {
		cmd := e.Info.Cmd
		if cmd == "" {
			cmd = "unknown"
		}
		return fmt.Sprintf("project %s is locked by pid %d (%s) since %s (lock file: %s)",
			e.Root, e.Info.PID, cmd, e.Info.CreatedAt.Format(time.RFC3339), e.Path)
	}
	return fmt.Sprintf("project %s is locked (lock file: %s)", e.Root, e.Path)
}

// Locker acquires the lock for a project root. The returned function
// releases it.
type Locker interface {
	Lock(root string, cmd string) (unlock func() error, err error)
}

// ProjectLock is a file-based Locker using O_EXCL creation.
type ProjectLock struct {
	StaleAfter time.Duration
	Now        func() time.Time
	IsPIDAlive func(pid int) bool
	NewToken   func() string
}

// NewProjectLock returns a ProjectLock with defaults:
// - StaleAfter: staleAfter, or DefaultStaleAfter when zero
// - Now: time.Now
// - IsPIDAlive: platform impl (best-effort)
func NewProjectLock(staleAfter time.Duration) ProjectLock {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return ProjectLock{
		StaleAfter: staleAfter,
		Now:        time.Now,
		IsPIDAlive: isPIDAlive,
		NewToken:   uuid.NewString,
	}
}

// Path returns the lock file path for a project root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Lock acquires the project lock and returns an unlock function.
// - cmd is stored in the lock file for debugging (may be empty).
// - if already locked and not stale: returns *ErrLocked.
// - the project root must already exist.
func (l ProjectLock) Lock(root string, cmd string) (unlock func() error, err error) {
	lockPath := Path(root)
	maxRetries := 3

	for attempt := 0; attempt < maxRetries; attempt++ {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			info := LockInfo{
				Token:     l.token(),
				PID:       os.Getpid(),
				CreatedAt: l.Now(),
				Cmd:       cmd,
			}
			data, _ := json.Marshal(info)
			if _, writeErr := f.Write(data); writeErr != nil {
				f.Close()
				os.Remove(lockPath)
				return nil, fmt.Errorf("failed to write lock file: %w", writeErr)
			}
			if closeErr := f.Close(); closeErr != nil {
				os.Remove(lockPath)
				return nil, fmt.Errorf("failed to close lock file: %w", closeErr)
			}
			return l.unlockFunc(lockPath, info.Token), nil
		}

		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		info, readErr := readLockInfo(lockPath)
		if readErr != nil {
			// Unreadable lock file: fall back to mtime for staleness.
			stat, statErr := os.Stat(lockPath)
			if statErr != nil {
				if os.IsNotExist(statErr) {
					continue
				}
				return nil, &ErrLocked{Root: root, Path: lockPath}
			}
			if l.Now().Sub(stat.ModTime()) <= l.StaleAfter {
				return nil, &ErrLocked{Root: root, Path: lockPath}
			}
			if removeErr := os.Remove(lockPath); removeErr != nil && !os.IsNotExist(removeErr) {
				return nil, &ErrLocked{Root: root, Path: lockPath}
			}
			continue
		}

		if l.isStale(info) {
			if removeErr := os.Remove(lockPath); removeErr != nil && !os.IsNotExist(removeErr) {
				return nil, &ErrLocked{Root: root, Info: info, Path: lockPath}
			}
			continue
		}

		return nil, &ErrLocked{Root: root, Info: info, Path: lockPath}
	}

	return nil, &ErrLocked{Root: root, Path: lockPath}
}

// unlockFunc removes the lock file only while it still carries token, so a
// holder whose lock was stolen as stale never deletes the new owner's lock.
func (l ProjectLock) unlockFunc(lockPath, token string) func() error {
	return func() error {
		info, err := readLockInfo(lockPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("failed to read lock file: %w", err)
		}
		if info.Token != token {
			return nil
		}
		if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
}

func (l ProjectLock) token() string {
	if l.NewToken == nil {
		return uuid.NewString()
	}
	return l.NewToken()
}

// readLockInfo reads and parses the lock file.
func readLockInfo(path string) (*LockInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// isStale returns true if the lock should be considered stale.
func (l ProjectLock) isStale(info *LockInfo) bool {
	if !l.IsPIDAlive(info.PID) {
		return true
	}
	return l.Now().Sub(info.CreatedAt) > l.StaleAfter
}

// isPIDAlive checks if a process with the given pid is alive.
// Uses the Unix signal 0 trick: sending signal 0 to a process succeeds
// if the process exists and we have permission to signal it.
func isPIDAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM means process exists but we don't have permission - treat as alive
	return errors.Is(err, syscall.EPERM)
}
