// Package store persists knowledge graph entities on the local
// filesystem. Each entity owns one directory under the store root,
// keyed by type and slug, holding entity.json, facts.json, and
// summary.md. All writes go through a temp-file + rename so a crash
// mid-write leaves the previous version intact.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ajitpratap0/openclaw-kg/internal/ident"
	"github.com/ajitpratap0/openclaw-kg/internal/models"
)

// ErrNotFound is returned when the requested entity does not exist.
var ErrNotFound = errors.New("entity not found")

// ErrPathTraversal is returned when a resolved entity path escapes the
// store root. ident.Parse makes this structurally unreachable; the check
// stays as a defense in depth on every path resolution.
var ErrPathTraversal = errors.New("path traversal detected")

const (
	entityFile  = "entity.json"
	factsFile   = "facts.json"
	summaryFile = "summary.md"
	locksDir    = ".locks"
)

// FileStore is a knowledge graph store rooted at a single directory.
type FileStore struct {
	root    string
	audit   *AuditLog
	locking bool
	logger  *slog.Logger
}

// New creates a FileStore rooted at root. Audit entries are appended to
// auditPath; pass an empty auditPath to disable the audit trail.
func New(root, auditPath string, locking bool, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving store root: %w", err)
	}
	return &FileStore{
		root:    abs,
		audit:   NewAuditLog(auditPath, logger),
		locking: locking,
		logger:  logger,
	}, nil
}

// Root returns the absolute store root directory.
func (s *FileStore) Root() string {
	return s.root
}

// Audit appends a one-line audit entry for a mutating command.
func (s *FileStore) Audit(action, details string) {
	s.audit.Append(action, details)
}

// EntityDir resolves the directory for an entity and verifies it stays
// inside the store root.
func (s *FileStore) EntityDir(id ident.EntityID) (string, error) {
	dir := filepath.Clean(filepath.Join(s.root, string(id.Type), id.Slug))
	if dir != s.root && !strings.HasPrefix(dir, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, id.String())
	}
	return dir, nil
}

// Exists reports whether an entity record is present for id.
func (s *FileStore) Exists(id ident.EntityID) bool {
	dir, err := s.EntityDir(id)
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(dir, entityFile))
	return err == nil
}

// LoadEntity reads entity.json for id. Returns ErrNotFound if absent.
func (s *FileStore) LoadEntity(id ident.EntityID) (*models.Entity, error) {
	dir, err := s.EntityDir(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, entityFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id.String())
		}
		return nil, fmt.Errorf("reading entity %q: %w", id.String(), err)
	}
	var entity models.Entity
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, fmt.Errorf("parsing entity %q: %w", id.String(), err)
	}
	return &entity, nil
}

// SaveEntity writes entity.json for id atomically.
func (s *FileStore) SaveEntity(id ident.EntityID, entity *models.Entity) error {
	dir, err := s.EntityDir(id)
	if err != nil {
		return err
	}
	return atomicWriteJSON(filepath.Join(dir, entityFile), entity)
}

// LoadFacts reads facts.json for id. A missing facts file is an empty
// list: an entity may exist before any fact is recorded.
func (s *FileStore) LoadFacts(id ident.EntityID) ([]models.Fact, error) {
	dir, err := s.EntityDir(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, factsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Fact{}, nil
		}
		return nil, fmt.Errorf("reading facts for %q: %w", id.String(), err)
	}
	var facts []models.Fact
	if err := json.Unmarshal(data, &facts); err != nil {
		return nil, fmt.Errorf("parsing facts for %q: %w", id.String(), err)
	}
	return facts, nil
}

// SaveFacts writes facts.json for id atomically.
func (s *FileStore) SaveFacts(id ident.EntityID, facts []models.Fact) error {
	dir, err := s.EntityDir(id)
	if err != nil {
		return err
	}
	return atomicWriteJSON(filepath.Join(dir, factsFile), facts)
}

// LoadSummary reads summary.md for id. A missing summary returns "".
func (s *FileStore) LoadSummary(id ident.EntityID) (string, error) {
	dir, err := s.EntityDir(id)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(dir, summaryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading summary for %q: %w", id.String(), err)
	}
	return string(data), nil
}

// SaveSummary writes summary.md for id atomically.
func (s *FileStore) SaveSummary(id ident.EntityID, text string) error {
	dir, err := s.EntityDir(id)
	if err != nil {
		return err
	}
	return atomicWriteText(filepath.Join(dir, summaryFile), text)
}

// SummaryStale reports whether the entity's summary is missing or older
// than updated. Used by summarize --dirty.
func (s *FileStore) SummaryStale(id ident.EntityID, updated time.Time) bool {
	dir, err := s.EntityDir(id)
	if err != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, summaryFile))
	if err != nil {
		return true
	}
	return updated.After(info.ModTime())
}

// DeleteEntity removes an entity's storage directory entirely. This is
// the irreversible final step of a merge.
func (s *FileStore) DeleteEntity(id ident.EntityID) error {
	dir, err := s.EntityDir(id)
	if err != nil {
		return err
	}
	if !s.Exists(id) {
		return fmt.Errorf("%w: %q", ErrNotFound, id.String())
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("deleting entity %q: %w", id.String(), err)
	}
	return nil
}

// ListIDs walks the store root and returns every entity ID with an
// entity.json, sorted by type then slug. Directories that are not valid
// entity types or slugs are skipped.
func (s *FileStore) ListIDs() ([]ident.EntityID, error) {
	var ids []ident.EntityID
	typeDirs, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return ids, nil
		}
		return nil, fmt.Errorf("reading store root: %w", err)
	}
	for _, td := range typeDirs {
		if !td.IsDir() {
			continue
		}
		et := models.EntityType(td.Name())
		if !et.IsValid() {
			continue
		}
		slugDirs, err := os.ReadDir(filepath.Join(s.root, td.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s directory: %w", td.Name(), err)
		}
		for _, sd := range slugDirs {
			if !sd.IsDir() || !ident.ValidSlug(sd.Name()) {
				continue
			}
			id := ident.EntityID{Type: et, Slug: sd.Name()}
			if s.Exists(id) {
				ids = append(ids, id)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Type != ids[j].Type {
			return ids[i].Type < ids[j].Type
		}
		return ids[i].Slug < ids[j].Slug
	})
	return ids, nil
}
