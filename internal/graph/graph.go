// Package graph implements the knowledge graph engine: entity
// lifecycle, the append-only fact engine with supersede chains, typed
// relations, summaries, and the query surface. Every operation is a
// complete transaction against the file store; there is no long-running
// state.
package graph

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ajitpratap0/openclaw-kg/internal/ident"
	"github.com/ajitpratap0/openclaw-kg/internal/models"
	"github.com/ajitpratap0/openclaw-kg/internal/store"
)

// Sentinel errors for the engine. Match with errors.Is; the command
// layer maps them to the error taxonomy in the emitted JSON result.
var (
	ErrArchived          = errors.New("entity is archived")
	ErrAlreadyArchived   = errors.New("entity is already archived")
	ErrNotArchived       = errors.New("entity is not archived")
	ErrFactNotFound      = errors.New("fact not found")
	ErrAlreadySuperseded = errors.New("fact is already superseded")
	ErrDuplicate         = errors.New("entity already exists")
	ErrNameCollision     = errors.New("name or alias collision")
	ErrSelfMerge         = errors.New("cannot merge an entity into itself")
	ErrTextTooLong       = errors.New("fact text too long")
	ErrInvalidCategory   = errors.New("invalid fact category")
	ErrInvalidRelation   = errors.New("invalid relation type")
	ErrEmptyQuery        = errors.New("search query cannot be empty")
)

// DefaultSource is recorded on facts when no provenance tag is given.
const DefaultSource = "conversation"

// Service executes knowledge graph operations against a FileStore.
type Service struct {
	store  *store.FileStore
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Service. The now function is replaceable for tests.
func New(st *store.FileStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  st,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// SetClock overrides the service clock. Intended for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Store exposes the underlying file store.
func (s *Service) Store() *store.FileStore {
	return s.store
}

// NextFactID allocates the next fact ID for slug given the current fact
// list: max existing sequence number + 1, zero-padded to three digits.
// Recomputed on every allocation — never cached — so it stays correct
// after merges re-number facts. IDs are never reused even when every
// fact has been superseded.
func NextFactID(facts []models.Fact, slug string) string {
	maxNum := 0
	for i := range facts {
		idx := strings.LastIndex(facts[i].ID, "-")
		if idx < 0 {
			continue
		}
		n, err := strconv.Atoi(facts[i].ID[idx+1:])
		if err != nil {
			continue
		}
		if n > maxNum {
			maxNum = n
		}
	}
	return fmt.Sprintf("%s-%03d", slug, maxNum+1)
}

// validateFactText enforces the fact length bound.
func validateFactText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if n := len([]rune(text)); n > models.MaxFactLength {
		return "", fmt.Errorf("%w: %d chars, max %d", ErrTextTooLong, n, models.MaxFactLength)
	}
	return text, nil
}

// loadActive loads an entity and rejects archived ones. Used by every
// fact mutation: archived entities must be unarchived first.
func (s *Service) loadActive(id ident.EntityID) (*models.Entity, error) {
	entity, err := s.store.LoadEntity(id)
	if err != nil {
		return nil, err
	}
	if entity.Archived() {
		return nil, fmt.Errorf("%w: %q (unarchive first)", ErrArchived, id.String())
	}
	return entity, nil
}

// touch updates the entity's last-updated timestamp and persists it.
func (s *Service) touch(id ident.EntityID, entity *models.Entity) error {
	entity.Updated = s.now()
	return s.store.SaveEntity(id, entity)
}

func activeCount(facts []models.Fact) int {
	n := 0
	for i := range facts {
		if facts[i].Active() {
			n++
		}
	}
	return n
}
