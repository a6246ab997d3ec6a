package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ajitpratap0/openclaw-kg/internal/ident"
	"github.com/ajitpratap0/openclaw-kg/internal/models"
)

// summaryFactCap bounds the non-relationship facts shown in a summary.
// Role and status facts are identity-defining and always shown.
const summaryFactCap = 10

// timeLayout is the timestamp format used in rendered summaries.
const timeLayout = "2006-01-02T15:04:05"

// RenderSummary produces the summary.md content for an entity: a pure
// function of the entity record and its active facts. Rendering twice
// with no intervening mutation yields byte-identical output; summaries
// are derived artifacts, regenerable at any time, never authoritative.
func RenderSummary(entity *models.Entity, facts []models.Fact) string {
	active := make([]models.Fact, 0, len(facts))
	for i := range facts {
		if facts[i].Active() {
			active = append(active, facts[i])
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", entity.Name)

	meta := []string{fmt.Sprintf("**Type:** %s", entity.Type)}
	if len(entity.Domains) > 0 {
		meta = append(meta, fmt.Sprintf("**Domains:** %s", strings.Join(entity.Domains, ", ")))
	}
	if len(entity.Aliases) > 0 {
		meta = append(meta, fmt.Sprintf("**Aliases:** %s", strings.Join(entity.Aliases, ", ")))
	}
	b.WriteString(strings.Join(meta, " | "))
	b.WriteString("\n\n")

	var relations, plain []models.Fact
	for i := range active {
		if active[i].Relation != nil {
			relations = append(relations, active[i])
		} else {
			plain = append(plain, active[i])
		}
	}

	if len(plain) > 0 {
		b.WriteString("## Active Facts\n\n")
		for _, f := range selectSummaryFacts(plain) {
			fmt.Fprintf(&b, "- [%s] %s\n", f.Category, f.Text)
		}
		b.WriteString("\n")
	}

	if len(relations) > 0 {
		b.WriteString("## Relationships\n\n")
		for i := range relations {
			rel := relations[i].Relation
			fmt.Fprintf(&b, "- %s → %s\n", rel.Type.Sentence(), rel.Target)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n")
	fmt.Fprintf(&b, "*%d active facts | Last updated: %s*\n", len(active), entity.Updated.Format(timeLayout))

	return b.String()
}

// selectSummaryFacts bounds summary length without silently dropping
// identity-defining facts: with more than summaryFactCap facts it keeps
// every role and status fact plus the cap's worth of most recently
// created others, de-duplicated and re-sorted by creation order.
func selectSummaryFacts(plain []models.Fact) []models.Fact {
	if len(plain) <= summaryFactCap {
		return plain
	}

	var priority, rest []models.Fact
	for i := range plain {
		switch plain[i].Category {
		case models.CategoryRole, models.CategoryStatus:
			priority = append(priority, plain[i])
		default:
			rest = append(rest, plain[i])
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Created.After(rest[j].Created)
	})
	if len(rest) > summaryFactCap {
		rest = rest[:summaryFactCap]
	}

	seen := map[string]bool{}
	shown := make([]models.Fact, 0, len(priority)+len(rest))
	for _, f := range append(priority, rest...) {
		if !seen[f.ID] {
			seen[f.ID] = true
			shown = append(shown, f)
		}
	}
	sort.SliceStable(shown, func(i, j int) bool {
		if !shown[i].Created.Equal(shown[j].Created) {
			return shown[i].Created.Before(shown[j].Created)
		}
		return shown[i].ID < shown[j].ID
	})
	return shown
}

// SummarizeResult reports which entities had summaries regenerated.
type SummarizeResult struct {
	Summarized []string `json:"summarized"`
	Count      int      `json:"count"`
}

// SummarizeOne regenerates summary.md for a single entity.
func (s *Service) SummarizeOne(id ident.EntityID) (*SummarizeResult, error) {
	if err := s.summarize(id); err != nil {
		return nil, err
	}
	return &SummarizeResult{Summarized: []string{id.String()}, Count: 1}, nil
}

// SummarizeAll regenerates every entity's summary.
func (s *Service) SummarizeAll() (*SummarizeResult, error) {
	ids, err := s.store.ListIDs()
	if err != nil {
		return nil, err
	}
	return s.summarizeMany(ids)
}

// SummarizeDirty regenerates summaries that are missing or older than
// their entity's updated timestamp. Regeneration is always explicit —
// never implicit on read — so staleness is observable and bounded.
func (s *Service) SummarizeDirty() (*SummarizeResult, error) {
	ids, err := s.store.ListIDs()
	if err != nil {
		return nil, err
	}
	var dirty []ident.EntityID
	for _, id := range ids {
		entity, err := s.store.LoadEntity(id)
		if err != nil {
			return nil, err
		}
		if s.store.SummaryStale(id, entity.Updated) {
			dirty = append(dirty, id)
		}
	}
	return s.summarizeMany(dirty)
}

func (s *Service) summarizeMany(ids []ident.EntityID) (*SummarizeResult, error) {
	result := &SummarizeResult{Summarized: []string{}}
	for _, id := range ids {
		if err := s.summarize(id); err != nil {
			return nil, err
		}
		result.Summarized = append(result.Summarized, id.String())
	}
	result.Count = len(result.Summarized)
	return result, nil
}

func (s *Service) summarize(id ident.EntityID) error {
	entity, err := s.store.LoadEntity(id)
	if err != nil {
		return err
	}
	facts, err := s.store.LoadFacts(id)
	if err != nil {
		return err
	}
	if err := s.store.SaveSummary(id, RenderSummary(entity, facts)); err != nil {
		return err
	}
	s.store.Audit("summarize", id.String())
	return nil
}
