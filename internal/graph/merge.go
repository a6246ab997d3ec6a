package graph

import (
	"fmt"
	"strings"

	"github.com/ajitpratap0/openclaw-kg/internal/ident"
	"github.com/ajitpratap0/openclaw-kg/internal/models"
)

// MergeResult reports what a merge moved and rewrote.
type MergeResult struct {
	Merged             string `json:"merged"`
	Into               string `json:"into"`
	FactsMoved         int    `json:"facts_moved"`
	RelationsRewritten int    `json:"relations_rewritten"`
}

// Merge consolidates source into target and deletes source. The plan is
// computed fully in memory, then applied: rewritten bystander fact
// lists first, then the target record and fact list, and only after
// every write has succeeded is the source directory removed — deletion
// is the single irreversible step and runs last.
func (s *Service) Merge(src, tgt ident.EntityID) (*MergeResult, error) {
	if src == tgt {
		return nil, fmt.Errorf("%w: %q", ErrSelfMerge, src.String())
	}

	// Merge touches an unbounded set of entities; take the store lock.
	lock, err := s.store.LockStore()
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	source, err := s.store.LoadEntity(src)
	if err != nil {
		return nil, err
	}
	target, err := s.store.LoadEntity(tgt)
	if err != nil {
		return nil, err
	}

	sourceFacts, err := s.store.LoadFacts(src)
	if err != nil {
		return nil, err
	}
	targetFacts, err := s.store.LoadFacts(tgt)
	if err != nil {
		return nil, err
	}

	rewritten := 0

	// The target's own facts may reference the source.
	rewritten += retargetRelations(targetFacts, src.String(), tgt.String())

	// Stage 1: re-number every source fact onto the target's slug,
	// keeping provenance and fixing supersede back-references between
	// moved facts.
	idMap := make(map[string]string, len(sourceFacts))
	for i := range sourceFacts {
		f := sourceFacts[i]
		newID := NextFactID(targetFacts, tgt.Slug)
		idMap[f.ID] = newID
		f.MergedFrom = src.String() + ":" + f.ID
		f.ID = newID
		if f.Relation != nil && f.Relation.Target == src.String() {
			rel := *f.Relation
			rel.Target = tgt.String()
			f.Relation = &rel
			rewritten++
		}
		targetFacts = append(targetFacts, f)
	}
	moved := len(sourceFacts)
	for i := len(targetFacts) - moved; i < len(targetFacts); i++ {
		if targetFacts[i].Supersedes == "" {
			continue
		}
		if newID, ok := idMap[targetFacts[i].Supersedes]; ok {
			targetFacts[i].Supersedes = newID
		}
	}

	// Stage 2: union aliases and domains. The source's display name
	// becomes an alias of the target so searches for it keep resolving.
	aliases := source.Aliases
	if !strings.EqualFold(source.Name, target.Name) {
		aliases = append(aliases, source.Name)
	}
	for _, a := range aliases {
		if strings.EqualFold(a, target.Name) || target.HasAlias(a) {
			continue
		}
		target.Aliases = append(target.Aliases, a)
	}
	for _, d := range source.Domains {
		if !target.HasDomain(d) {
			target.Domains = append(target.Domains, d)
		}
	}

	// Stage 3: find every other entity whose relation facts point at
	// the source. Nothing is written until the whole plan is computed.
	ids, err := s.store.ListIDs()
	if err != nil {
		return nil, err
	}
	type pendingFacts struct {
		id    ident.EntityID
		facts []models.Fact
	}
	var pending []pendingFacts
	for _, id := range ids {
		if id == src || id == tgt {
			continue
		}
		facts, err := s.store.LoadFacts(id)
		if err != nil {
			return nil, err
		}
		if n := retargetRelations(facts, src.String(), tgt.String()); n > 0 {
			rewritten += n
			pending = append(pending, pendingFacts{id: id, facts: facts})
		}
	}

	// Commit phase. Any failure here aborts before the deletion, so the
	// source is never destroyed on partial failure.
	for _, p := range pending {
		if err := s.store.SaveFacts(p.id, p.facts); err != nil {
			return nil, err
		}
	}
	if err := s.store.SaveFacts(tgt, targetFacts); err != nil {
		return nil, err
	}
	if err := s.touch(tgt, target); err != nil {
		return nil, err
	}
	if err := s.store.DeleteEntity(src); err != nil {
		return nil, err
	}

	s.store.Audit("merge", src.String()+" -> "+tgt.String())
	s.logger.Info("merged entity", "source", src.String(), "target", tgt.String(),
		"facts_moved", moved, "relations_rewritten", rewritten)
	return &MergeResult{
		Merged:             src.String(),
		Into:               tgt.String(),
		FactsMoved:         moved,
		RelationsRewritten: rewritten,
	}, nil
}

// retargetRelations rewrites relation facts pointing at from so they
// point at to, returning how many were changed.
func retargetRelations(facts []models.Fact, from, to string) int {
	n := 0
	for i := range facts {
		if facts[i].Relation != nil && facts[i].Relation.Target == from {
			rel := *facts[i].Relation
			rel.Target = to
			facts[i].Relation = &rel
			n++
		}
	}
	return n
}
