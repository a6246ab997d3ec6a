package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/ajitpratap0/openclaw-kg/internal/ident"
)

// Lock holds an exclusive advisory flock for the duration of a mutating
// command. Release is safe to call on a nil or no-op lock.
type Lock struct {
	file *os.File
	path string
}

// Release closes the lock file, dropping the flock.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}
	_ = l.file.Close()
}

// storeLockName is the lock file guarding multi-entity operations
// (merge, seed). Single-entity mutations lock only their own entity.
const storeLockName = "store.lock"

// LockEntity acquires an exclusive advisory lock for one entity. Returns
// a no-op lock when locking is disabled in configuration.
func (s *FileStore) LockEntity(id ident.EntityID) (*Lock, error) {
	if !s.locking {
		return &Lock{}, nil
	}
	return s.acquire(string(id.Type) + "-" + id.Slug + ".lock")
}

// LockEntities acquires locks for several entities in sorted path order
// to avoid deadlock between concurrent invocations.
func (s *FileStore) LockEntities(ids []ident.EntityID) ([]*Lock, error) {
	if !s.locking {
		return nil, nil
	}
	seen := make(map[string]bool, len(ids))
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name := string(id.Type) + "-" + id.Slug + ".lock"
		// A self-relation would otherwise deadlock on its own lock.
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)

	locks := make([]*Lock, 0, len(names))
	for _, name := range names {
		l, err := s.acquire(name)
		if err != nil {
			ReleaseAll(locks)
			return nil, err
		}
		locks = append(locks, l)
	}
	return locks, nil
}

// LockStore acquires the store-wide lock used by merge and seed, which
// may touch every entity directory.
func (s *FileStore) LockStore() (*Lock, error) {
	if !s.locking {
		return &Lock{}, nil
	}
	return s.acquire(storeLockName)
}

// ReleaseAll releases locks in reverse acquisition order.
func ReleaseAll(locks []*Lock) {
	for i := len(locks) - 1; i >= 0; i-- {
		locks[i].Release()
	}
}

func (s *FileStore) acquire(name string) (*Lock, error) {
	dir := filepath.Join(s.root, locksDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file %s: %w", path, err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	return &Lock{file: f, path: path}, nil
}
