package graph

import (
	"fmt"

	"github.com/ajitpratap0/openclaw-kg/internal/ident"
	"github.com/ajitpratap0/openclaw-kg/internal/models"
	"github.com/ajitpratap0/openclaw-kg/internal/store"
)

// AddFact appends a new active fact to an entity and bumps its updated
// timestamp. Fails if the entity is archived, the text exceeds the
// length bound, or the category is not in the closed set.
func (s *Service) AddFact(id ident.EntityID, text string, category models.FactCategory, source string) (*models.Fact, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	text, err := validateFactText(text)
	if err != nil {
		return nil, err
	}
	if source == "" {
		source = DefaultSource
	}

	lock, err := s.store.LockEntity(id)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	entity, err := s.loadActive(id)
	if err != nil {
		return nil, err
	}
	facts, err := s.store.LoadFacts(id)
	if err != nil {
		return nil, err
	}

	fact := models.Fact{
		ID:       NextFactID(facts, id.Slug),
		Text:     text,
		Category: category,
		Status:   models.FactStatusActive,
		Created:  s.now(),
		Source:   source,
	}
	facts = append(facts, fact)

	if err := s.store.SaveFacts(id, facts); err != nil {
		return nil, err
	}
	if err := s.touch(id, entity); err != nil {
		return nil, err
	}

	s.store.Audit("add-fact", id.String()+" "+fact.ID)
	s.logger.Info("added fact", "entity", id.String(), "fact", fact.ID, "category", category)
	return &fact, nil
}

// SupersedeResult pairs the superseded fact ID with its replacement.
type SupersedeResult struct {
	EntityID  string      `json:"entity_id"`
	OldFactID string      `json:"old_fact_id"`
	NewFact   models.Fact `json:"new_fact"`
}

// Supersede marks an existing fact superseded and creates its
// replacement in the same operation. The new fact inherits the old
// fact's category and relation payload and records the back-reference
// in supersedes. Both the status flip and the append are persisted in
// one facts.json write, so a crash leaves either the old state or the
// complete new state.
func (s *Service) Supersede(id ident.EntityID, oldFactID, text, source string) (*SupersedeResult, error) {
	text, err := validateFactText(text)
	if err != nil {
		return nil, err
	}
	if source == "" {
		source = DefaultSource
	}

	lock, err := s.store.LockEntity(id)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	entity, err := s.loadActive(id)
	if err != nil {
		return nil, err
	}
	facts, err := s.store.LoadFacts(id)
	if err != nil {
		return nil, err
	}

	oldIdx := -1
	for i := range facts {
		if facts[i].ID == oldFactID {
			oldIdx = i
		}
		// A fact may be superseded at most once, even if a caller
		// constructs a second supersede against the same target.
		if facts[i].Supersedes == oldFactID {
			return nil, fmt.Errorf("%w: %q (by %q)", ErrAlreadySuperseded, oldFactID, facts[i].ID)
		}
	}
	if oldIdx < 0 {
		return nil, fmt.Errorf("%w: %q in %q", ErrFactNotFound, oldFactID, id.String())
	}
	if !facts[oldIdx].Active() {
		return nil, fmt.Errorf("%w: %q", ErrAlreadySuperseded, oldFactID)
	}

	now := s.now()
	facts[oldIdx].Status = models.FactStatusSuperseded
	facts[oldIdx].SupersededAt = &now

	newFact := models.Fact{
		ID:         NextFactID(facts, id.Slug),
		Text:       text,
		Category:   facts[oldIdx].Category,
		Status:     models.FactStatusActive,
		Created:    now,
		Source:     source,
		Supersedes: oldFactID,
		Relation:   facts[oldIdx].Relation,
	}
	facts = append(facts, newFact)

	if err := s.store.SaveFacts(id, facts); err != nil {
		return nil, err
	}
	if err := s.touch(id, entity); err != nil {
		return nil, err
	}

	s.store.Audit("supersede", fmt.Sprintf("%s %s -> %s", id.String(), oldFactID, newFact.ID))
	s.logger.Info("superseded fact", "entity", id.String(), "old", oldFactID, "new", newFact.ID)
	return &SupersedeResult{EntityID: id.String(), OldFactID: oldFactID, NewFact: newFact}, nil
}

// AddRelation records a typed directed edge from source to target as a
// relationship fact on the source entity. The target must exist at
// creation time; it is referenced symbolically by ID, never by live
// reference. When text is empty a canonical sentence is synthesized
// from the two display names and the relation type.
func (s *Service) AddRelation(src, tgt ident.EntityID, rt models.RelationType, text, source string) (*models.Fact, error) {
	if !rt.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRelation, rt)
	}
	if source == "" {
		source = DefaultSource
	}

	locks, err := s.store.LockEntities([]ident.EntityID{src, tgt})
	if err != nil {
		return nil, err
	}
	defer store.ReleaseAll(locks)

	entity, err := s.loadActive(src)
	if err != nil {
		return nil, err
	}
	target, err := s.store.LoadEntity(tgt)
	if err != nil {
		return nil, err
	}

	if text == "" {
		text = fmt.Sprintf("%s %s %s", entity.Name, rt.Sentence(), target.Name)
	}
	text, err = validateFactText(text)
	if err != nil {
		return nil, err
	}

	facts, err := s.store.LoadFacts(src)
	if err != nil {
		return nil, err
	}

	fact := models.Fact{
		ID:       NextFactID(facts, src.Slug),
		Text:     text,
		Category: models.CategoryRelationship,
		Status:   models.FactStatusActive,
		Created:  s.now(),
		Source:   source,
		Relation: &models.Relation{Type: rt, Target: tgt.String()},
	}
	facts = append(facts, fact)

	if err := s.store.SaveFacts(src, facts); err != nil {
		return nil, err
	}
	if err := s.touch(src, entity); err != nil {
		return nil, err
	}

	s.store.Audit("add-relation", fmt.Sprintf("%s --%s--> %s", src.String(), rt, tgt.String()))
	s.logger.Info("added relation", "source", src.String(), "type", rt, "target", tgt.String())
	return &fact, nil
}
