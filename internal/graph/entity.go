package graph

import (
	"fmt"
	"strings"

	"github.com/ajitpratap0/openclaw-kg/internal/ident"
	"github.com/ajitpratap0/openclaw-kg/internal/models"
)

// findCollisions scans every entity (any type) for an exact
// case-insensitive name match, the same derived slug, or an alias
// match. Guards against accidental near-duplicates across types.
func (s *Service) findCollisions(name string, exclude ident.EntityID) ([]string, error) {
	var matches []string
	slug := ident.Slugify(name)

	ids, err := s.store.ListIDs()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if id == exclude {
			continue
		}
		entity, err := s.store.LoadEntity(id)
		if err != nil {
			return nil, err
		}
		switch {
		case strings.EqualFold(strings.TrimSpace(entity.Name), strings.TrimSpace(name)):
			matches = append(matches, id.String())
		case slug == id.Slug:
			matches = append(matches, id.String())
		case entity.HasAlias(name):
			matches = append(matches, id.String())
		}
	}
	return matches, nil
}

// CreateEntity creates a new entity with an empty fact list and a
// placeholder summary, all written as a unit. Unless force is set, it
// rejects both an existing record for the derived (type, slug) and any
// name/slug/alias collision with an existing entity of any type.
func (s *Service) CreateEntity(et models.EntityType, name string, domains, aliases []string, force bool) (*models.Entity, error) {
	name = strings.TrimSpace(name)
	id, err := ident.New(et, name)
	if err != nil {
		return nil, err
	}

	lock, err := s.store.LockEntity(id)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	if !force {
		collisions, err := s.findCollisions(name, ident.EntityID{})
		if err != nil {
			return nil, err
		}
		if len(collisions) > 0 {
			return nil, fmt.Errorf("%w: %s (use --force to override)", ErrNameCollision, strings.Join(collisions, ", "))
		}
		if s.store.Exists(id) {
			return nil, fmt.Errorf("%w: %q (use --force to overwrite)", ErrDuplicate, id.String())
		}
	}

	now := s.now()
	entity := &models.Entity{
		ID:      id.String(),
		Type:    et,
		Name:    name,
		Slug:    id.Slug,
		Aliases: cleanList(aliases),
		Domains: cleanList(domains),
		Status:  models.EntityStatusActive,
		Created: now,
		Updated: now,
	}

	if err := s.store.SaveEntity(id, entity); err != nil {
		return nil, err
	}
	if err := s.store.SaveFacts(id, []models.Fact{}); err != nil {
		return nil, err
	}
	placeholder := fmt.Sprintf("# %s\n\nNo facts recorded yet.\n", name)
	if err := s.store.SaveSummary(id, placeholder); err != nil {
		return nil, err
	}

	s.store.Audit("add-entity", id.String())
	s.logger.Info("created entity", "id", id.String(), "name", name)
	return entity, nil
}

// Archive marks an entity archived. Archived entities reject fact and
// relation mutation, and are hidden from queries by default.
func (s *Service) Archive(id ident.EntityID) (*models.Entity, error) {
	lock, err := s.store.LockEntity(id)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	entity, err := s.store.LoadEntity(id)
	if err != nil {
		return nil, err
	}
	if entity.Archived() {
		return nil, fmt.Errorf("%w: %q", ErrAlreadyArchived, id.String())
	}
	entity.Status = models.EntityStatusArchived
	if err := s.touch(id, entity); err != nil {
		return nil, err
	}
	s.store.Audit("archive", id.String())
	s.logger.Info("archived entity", "id", id.String())
	return entity, nil
}

// Unarchive returns an archived entity to active.
func (s *Service) Unarchive(id ident.EntityID) (*models.Entity, error) {
	lock, err := s.store.LockEntity(id)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	entity, err := s.store.LoadEntity(id)
	if err != nil {
		return nil, err
	}
	if !entity.Archived() {
		return nil, fmt.Errorf("%w: %q", ErrNotArchived, id.String())
	}
	entity.Status = models.EntityStatusActive
	if err := s.touch(id, entity); err != nil {
		return nil, err
	}
	s.store.Audit("unarchive", id.String())
	s.logger.Info("unarchived entity", "id", id.String())
	return entity, nil
}

func cleanList(items []string) []string {
	out := []string{}
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it != "" {
			out = append(out, it)
		}
	}
	return out
}
