package store

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/openclaw-kg/internal/ident"
	"github.com/ajitpratap0/openclaw-kg/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestStore returns a FileStore rooted in a temp directory with
// auditing into the same directory.
func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "kg"), filepath.Join(dir, "audit.log"), true, testLogger())
	require.NoError(t, err)
	return s
}

func testEntity(id ident.EntityID, name string) *models.Entity {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Entity{
		ID:      id.String(),
		Type:    id.Type,
		Name:    name,
		Slug:    id.Slug,
		Aliases: []string{},
		Domains: []string{},
		Status:  models.EntityStatusActive,
		Created: now,
		Updated: now,
	}
}

func TestSaveLoadEntity_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	id := ident.EntityID{Type: models.EntityTypePerson, Slug: "rick-arnold"}

	want := testEntity(id, "Rick Arnold")
	want.Domains = []string{"faith", "family"}
	require.NoError(t, s.SaveEntity(id, want))

	got, err := s.LoadEntity(id)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, s.Exists(id))
}

func TestLoadEntity_NotFound(t *testing.T) {
	s := newTestStore(t)
	id := ident.EntityID{Type: models.EntityTypePerson, Slug: "nobody"}

	_, err := s.LoadEntity(id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, s.Exists(id))
}

func TestLoadFacts_MissingFileIsEmptyList(t *testing.T) {
	s := newTestStore(t)
	id := ident.EntityID{Type: models.EntityTypeConcept, Slug: "molinism"}
	require.NoError(t, s.SaveEntity(id, testEntity(id, "Molinism")))

	facts, err := s.LoadFacts(id)
	require.NoError(t, err)
	assert.Empty(t, facts)
	assert.NotNil(t, facts)
}

func TestSaveLoadFacts_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	id := ident.EntityID{Type: models.EntityTypePerson, Slug: "rick-arnold"}

	now := time.Now().UTC().Truncate(time.Second)
	want := []models.Fact{
		{
			ID:       "rick-arnold-001",
			Text:     "Pastor at St. Peter's Stone Church",
			Category: models.CategoryRole,
			Status:   models.FactStatusActive,
			Created:  now,
			Source:   "seed",
		},
		{
			ID:       "rick-arnold-002",
			Text:     "Rick Arnold member of St. Peter's Stone Church",
			Category: models.CategoryRelationship,
			Status:   models.FactStatusActive,
			Created:  now,
			Source:   "seed",
			Relation: &models.Relation{Type: models.RelationMemberOf, Target: "organization/st-peter-s-stone-church"},
		},
	}
	require.NoError(t, s.SaveFacts(id, want))

	got, err := s.LoadFacts(id)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadSummary_MissingIsEmpty(t *testing.T) {
	s := newTestStore(t)
	id := ident.EntityID{Type: models.EntityTypePerson, Slug: "rick-arnold"}

	summary, err := s.LoadSummary(id)
	require.NoError(t, err)
	assert.Equal(t, "", summary)

	require.NoError(t, s.SaveSummary(id, "# Rick Arnold\n"))
	summary, err = s.LoadSummary(id)
	require.NoError(t, err)
	assert.Equal(t, "# Rick Arnold\n", summary)
}

func TestSummaryStale(t *testing.T) {
	s := newTestStore(t)
	id := ident.EntityID{Type: models.EntityTypePerson, Slug: "rick-arnold"}

	updated := time.Now().UTC()
	assert.True(t, s.SummaryStale(id, updated), "missing summary is stale")

	require.NoError(t, s.SaveSummary(id, "# Rick Arnold\n"))
	assert.False(t, s.SummaryStale(id, updated.Add(-time.Hour)))
	assert.True(t, s.SummaryStale(id, time.Now().Add(time.Hour)))
}

func TestDeleteEntity(t *testing.T) {
	s := newTestStore(t)
	id := ident.EntityID{Type: models.EntityTypePerson, Slug: "rick-arnold"}
	require.NoError(t, s.SaveEntity(id, testEntity(id, "Rick Arnold")))

	require.NoError(t, s.DeleteEntity(id))
	assert.False(t, s.Exists(id))

	err := s.DeleteEntity(id)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListIDs_SortedAndFiltered(t *testing.T) {
	s := newTestStore(t)

	ids := []ident.EntityID{
		{Type: models.EntityTypeProject, Slug: "clawdbot"},
		{Type: models.EntityTypePerson, Slug: "rick-arnold"},
		{Type: models.EntityTypePerson, Slug: "maria-arnold"},
	}
	for _, id := range ids {
		require.NoError(t, s.SaveEntity(id, testEntity(id, id.Slug)))
	}

	// Junk the walker must skip: unknown type dir, invalid slug dir,
	// valid-looking dir with no entity.json, and the locks dir.
	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "robot", "c3po"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "person", "Bad_Slug"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "person", "empty-dir"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), ".locks"), 0o755))

	got, err := s.ListIDs()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "person/maria-arnold", got[0].String())
	assert.Equal(t, "person/rick-arnold", got[1].String())
	assert.Equal(t, "project/clawdbot", got[2].String())
}

func TestListIDs_EmptyRoot(t *testing.T) {
	s := newTestStore(t)
	got, err := s.ListIDs()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAtomicWrite_NoTempLeftovers(t *testing.T) {
	s := newTestStore(t)
	id := ident.EntityID{Type: models.EntityTypePerson, Slug: "rick-arnold"}
	require.NoError(t, s.SaveEntity(id, testEntity(id, "Rick Arnold")))
	require.NoError(t, s.SaveEntity(id, testEntity(id, "Rick Arnold")))

	dir, err := s.EntityDir(id)
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestAuditLog_AppendFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.log")
	a := NewAuditLog(path, testLogger())

	a.Append("add-entity", "person/rick-arnold")
	a.Append("add-fact", "person/rick-arnold rick-arnold-001")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] add-entity: person/rick-arnold$`, lines[0])
	assert.Regexp(t, `add-fact: person/rick-arnold rick-arnold-001$`, lines[1])
}

func TestAuditLog_DisabledWithEmptyPath(t *testing.T) {
	a := NewAuditLog("", testLogger())
	a.Append("add-entity", "person/rick-arnold")
}

func TestLockEntity_AcquireAndRelease(t *testing.T) {
	s := newTestStore(t)
	id := ident.EntityID{Type: models.EntityTypePerson, Slug: "rick-arnold"}

	lock, err := s.LockEntity(id)
	require.NoError(t, err)
	require.NotNil(t, lock)
	lock.Release()
	lock.Release() // double release is safe

	var nilLock *Lock
	nilLock.Release()
}

func TestLockEntities_DeduplicatesSelfPair(t *testing.T) {
	s := newTestStore(t)
	id := ident.EntityID{Type: models.EntityTypePerson, Slug: "rick-arnold"}

	// Locking the same entity twice must not deadlock.
	done := make(chan struct{})
	go func() {
		defer close(done)
		locks, err := s.LockEntities([]ident.EntityID{id, id})
		assert.NoError(t, err)
		assert.Len(t, locks, 1)
		ReleaseAll(locks)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("LockEntities deadlocked on duplicate IDs")
	}
}

func TestLocking_DisabledIsNoOp(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, "", false, testLogger())
	require.NoError(t, err)

	id := ident.EntityID{Type: models.EntityTypePerson, Slug: "rick-arnold"}
	lock, err := s.LockEntity(id)
	require.NoError(t, err)
	lock.Release()

	storeLock, err := s.LockStore()
	require.NoError(t, err)
	storeLock.Release()

	// No lock files should exist when locking is off.
	_, statErr := os.Stat(filepath.Join(dir, ".locks"))
	assert.True(t, os.IsNotExist(statErr))
}
