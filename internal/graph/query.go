package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ajitpratap0/openclaw-kg/internal/ident"
	"github.com/ajitpratap0/openclaw-kg/internal/models"
)

// QueryResult is an entity together with its facts.
type QueryResult struct {
	Entity      *models.Entity `json:"entity"`
	Facts       []models.Fact  `json:"facts"`
	TotalFacts  int            `json:"total_facts"`
	ActiveFacts int            `json:"active_facts"`
}

// Query returns an entity and its active facts. Archived entities are
// hidden unless includeArchived is set, which also widens the fact list
// to superseded facts.
func (s *Service) Query(id ident.EntityID, includeArchived bool) (*QueryResult, error) {
	entity, err := s.store.LoadEntity(id)
	if err != nil {
		return nil, err
	}
	if entity.Archived() && !includeArchived {
		return nil, fmt.Errorf("%w: %q (use --include-archived to view)", ErrArchived, id.String())
	}

	facts, err := s.store.LoadFacts(id)
	if err != nil {
		return nil, err
	}

	shown := facts
	if !includeArchived {
		shown = make([]models.Fact, 0, len(facts))
		for i := range facts {
			if facts[i].Active() {
				shown = append(shown, facts[i])
			}
		}
	}

	return &QueryResult{
		Entity:      entity,
		Facts:       shown,
		TotalFacts:  len(facts),
		ActiveFacts: activeCount(facts),
	}, nil
}

// Edge is one direction of a relation as seen from a queried entity.
type Edge struct {
	FactID       string              `json:"fact_id"`
	SourceEntity string              `json:"source_entity,omitempty"` // set on inbound edges
	RelationType models.RelationType `json:"relation_type"`
	Target       string              `json:"target,omitempty"` // set on outbound edges
	Text         string              `json:"text"`
}

// ConnectionsResult holds an entity's outbound and, when requested,
// inbound edges.
type ConnectionsResult struct {
	EntityID string `json:"entity_id"`
	Outbound []Edge `json:"outbound"`
	Inbound  []Edge `json:"inbound,omitempty"`
}

// Connections lists the active relation facts of an entity. Outbound is
// a direct scan of the entity's own facts. Inbound, when requested,
// scans every other entity's facts for relations targeting this one —
// O(N) over the whole store; there is no persisted inbound index.
func (s *Service) Connections(id ident.EntityID, reverse bool) (*ConnectionsResult, error) {
	if _, err := s.store.LoadEntity(id); err != nil {
		return nil, err
	}

	facts, err := s.store.LoadFacts(id)
	if err != nil {
		return nil, err
	}
	result := &ConnectionsResult{EntityID: id.String(), Outbound: []Edge{}}
	for i := range facts {
		f := &facts[i]
		if f.Active() && f.Relation != nil {
			result.Outbound = append(result.Outbound, Edge{
				FactID:       f.ID,
				RelationType: f.Relation.Type,
				Target:       f.Relation.Target,
				Text:         f.Text,
			})
		}
	}

	if reverse {
		result.Inbound = []Edge{}
		ids, err := s.store.ListIDs()
		if err != nil {
			return nil, err
		}
		for _, other := range ids {
			if other == id {
				continue
			}
			otherFacts, err := s.store.LoadFacts(other)
			if err != nil {
				return nil, err
			}
			for i := range otherFacts {
				f := &otherFacts[i]
				if f.Active() && f.Relation != nil && f.Relation.Target == id.String() {
					result.Inbound = append(result.Inbound, Edge{
						FactID:       f.ID,
						SourceEntity: other.String(),
						RelationType: f.Relation.Type,
						Text:         f.Text,
					})
				}
			}
		}
	}

	return result, nil
}

// maxMatchingFacts caps per-entity fact payloads in search results.
const maxMatchingFacts = 5

// SearchMatch is one entity matched by a search, with the reasons it
// matched for caller transparency.
type SearchMatch struct {
	EntityID      string            `json:"entity_id"`
	Name          string            `json:"name"`
	Type          models.EntityType `json:"type"`
	MatchReasons  []string          `json:"match_reasons"`
	MatchingFacts []models.Fact     `json:"matching_facts"`
}

// SearchResult is the full result of a search command.
type SearchResult struct {
	Query   string        `json:"query"`
	Results []SearchMatch `json:"results"`
	Count   int           `json:"count"`
}

// Search performs a case-insensitive substring match over display
// names, aliases, domain tags, active fact text, and summary text.
func (s *Service) Search(query string, includeArchived bool) (*SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, ErrEmptyQuery
	}

	ids, err := s.store.ListIDs()
	if err != nil {
		return nil, err
	}

	results := []SearchMatch{}
	for _, id := range ids {
		entity, err := s.store.LoadEntity(id)
		if err != nil {
			return nil, err
		}
		if entity.Archived() && !includeArchived {
			continue
		}

		var reasons []string
		if strings.Contains(strings.ToLower(entity.Name), query) {
			reasons = append(reasons, "name")
		}
		for _, alias := range entity.Aliases {
			if strings.Contains(strings.ToLower(alias), query) {
				reasons = append(reasons, "alias")
				break
			}
		}
		for _, domain := range entity.Domains {
			if strings.Contains(strings.ToLower(domain), query) {
				reasons = append(reasons, "domain")
				break
			}
		}

		facts, err := s.store.LoadFacts(id)
		if err != nil {
			return nil, err
		}
		matchingFacts := []models.Fact{}
		for i := range facts {
			if !facts[i].Active() {
				continue
			}
			if strings.Contains(strings.ToLower(facts[i].Text), query) {
				matchingFacts = append(matchingFacts, facts[i])
			}
		}
		if len(matchingFacts) > 0 && !contains(reasons, "fact") {
			reasons = append(reasons, "fact")
		}

		if len(reasons) == 0 {
			summary, err := s.store.LoadSummary(id)
			if err != nil {
				return nil, err
			}
			if strings.Contains(strings.ToLower(summary), query) {
				reasons = append(reasons, "summary")
			}
		}

		if len(reasons) > 0 {
			if len(matchingFacts) > maxMatchingFacts {
				matchingFacts = matchingFacts[:maxMatchingFacts]
			}
			results = append(results, SearchMatch{
				EntityID:      id.String(),
				Name:          entity.Name,
				Type:          entity.Type,
				MatchReasons:  reasons,
				MatchingFacts: matchingFacts,
			})
		}
	}

	return &SearchResult{Query: query, Results: results, Count: len(results)}, nil
}

// DomainEntry is one entity carrying a queried domain tag.
type DomainEntry struct {
	EntityID string            `json:"entity_id"`
	Name     string            `json:"name"`
	Type     models.EntityType `json:"type"`
	Domains  []string          `json:"domains"`
}

// DomainResult is the result of a domain filter command.
type DomainResult struct {
	Domain   string        `json:"domain"`
	Entities []DomainEntry `json:"entities"`
	Count    int           `json:"count"`
}

// Domain lists entities whose domain tag set contains domain, matched
// exactly but case-insensitively.
func (s *Service) Domain(domain string, includeArchived bool) (*DomainResult, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))

	ids, err := s.store.ListIDs()
	if err != nil {
		return nil, err
	}

	entries := []DomainEntry{}
	for _, id := range ids {
		entity, err := s.store.LoadEntity(id)
		if err != nil {
			return nil, err
		}
		if entity.Archived() && !includeArchived {
			continue
		}
		if entity.HasDomain(domain) {
			entries = append(entries, DomainEntry{
				EntityID: id.String(),
				Name:     entity.Name,
				Type:     entity.Type,
				Domains:  entity.Domains,
			})
		}
	}

	return &DomainResult{Domain: domain, Entities: entries, Count: len(entries)}, nil
}

// ListEntry is one row of the list command.
type ListEntry struct {
	EntityID    string              `json:"entity_id"`
	Name        string              `json:"name"`
	Type        models.EntityType   `json:"type"`
	Domains     []string            `json:"domains"`
	Status      models.EntityStatus `json:"status"`
	ActiveFacts int                 `json:"active_facts"`
}

// ListResult is the result of a list command.
type ListResult struct {
	Entities []ListEntry `json:"entities"`
	Count    int         `json:"count"`
}

// List returns all entities, optionally filtered by type, sorted
// alphabetically by display name. Pass typeFilter "" for no filter.
func (s *Service) List(typeFilter models.EntityType, includeArchived bool) (*ListResult, error) {
	ids, err := s.store.ListIDs()
	if err != nil {
		return nil, err
	}

	entries := []ListEntry{}
	for _, id := range ids {
		entity, err := s.store.LoadEntity(id)
		if err != nil {
			return nil, err
		}
		if entity.Archived() && !includeArchived {
			continue
		}
		if typeFilter != "" && entity.Type != typeFilter {
			continue
		}
		facts, err := s.store.LoadFacts(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ListEntry{
			EntityID:    id.String(),
			Name:        entity.Name,
			Type:        entity.Type,
			Domains:     entity.Domains,
			Status:      entity.Status,
			ActiveFacts: activeCount(facts),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return &ListResult{Entities: entries, Count: len(entries)}, nil
}

// Stats aggregates counts over the whole store. Always recomputed by a
// full scan, never cached.
type Stats struct {
	TotalEntities    int            `json:"total_entities"`
	ByType           map[string]int `json:"by_type"`
	ByDomain         map[string]int `json:"by_domain"`
	TotalFacts       int            `json:"total_facts"`
	ActiveFacts      int            `json:"active_facts"`
	ArchivedEntities int            `json:"archived_entities"`
}

// Stats computes aggregate counts by type and domain plus fact totals.
func (s *Service) Stats() (*Stats, error) {
	stats := &Stats{
		ByType:   map[string]int{},
		ByDomain: map[string]int{},
	}

	ids, err := s.store.ListIDs()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		entity, err := s.store.LoadEntity(id)
		if err != nil {
			return nil, err
		}
		stats.TotalEntities++
		stats.ByType[string(entity.Type)]++
		if entity.Archived() {
			stats.ArchivedEntities++
		}
		for _, d := range entity.Domains {
			stats.ByDomain[d]++
		}

		facts, err := s.store.LoadFacts(id)
		if err != nil {
			return nil, err
		}
		stats.TotalFacts += len(facts)
		stats.ActiveFacts += activeCount(facts)
	}

	return stats, nil
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
