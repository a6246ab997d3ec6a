package graph

import (
	"errors"
	"fmt"

	"github.com/ajitpratap0/openclaw-kg/internal/ident"
	"github.com/ajitpratap0/openclaw-kg/internal/models"
)

// ErrNotEmpty is returned by Seed when the store already has entities.
var ErrNotEmpty = errors.New("knowledge graph is not empty")

// seedSource is the provenance tag on seeded facts.
const seedSource = "seed"

type seedFact struct {
	category models.FactCategory
	text     string
}

type seedEntity struct {
	etype   models.EntityType
	name    string
	domains []string
	aliases []string
	facts   []seedFact
}

type seedRelation struct {
	srcName string
	srcType models.EntityType
	tgtName string
	tgtType models.EntityType
	rtype   models.RelationType
	text    string
}

// SeedResult reports what the seed command created.
type SeedResult struct {
	EntitiesCreated  int      `json:"entities_created"`
	FactsCreated     int      `json:"facts_created"`
	RelationsCreated int      `json:"relations_created"`
	EntityIDs        []string `json:"entity_ids"`
}

// Seed populates an empty store with the built-in dataset and renders
// every summary. Refuses to run against a non-empty store unless force
// is set.
func (s *Service) Seed(force bool) (*SeedResult, error) {
	lock, err := s.store.LockStore()
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	if !force {
		existing, err := s.store.ListIDs()
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, fmt.Errorf("%w: %d entities present (use --force to seed anyway)", ErrNotEmpty, len(existing))
		}
	}

	result := &SeedResult{EntityIDs: []string{}}
	now := s.now()

	for _, se := range seedEntities {
		id, err := ident.New(se.etype, se.name)
		if err != nil {
			return nil, err
		}
		entity := &models.Entity{
			ID:      id.String(),
			Type:    se.etype,
			Name:    se.name,
			Slug:    id.Slug,
			Aliases: append([]string{}, se.aliases...),
			Domains: append([]string{}, se.domains...),
			Status:  models.EntityStatusActive,
			Created: now,
			Updated: now,
		}
		if err := s.store.SaveEntity(id, entity); err != nil {
			return nil, err
		}

		facts := []models.Fact{}
		for _, sf := range se.facts {
			facts = append(facts, models.Fact{
				ID:       NextFactID(facts, id.Slug),
				Text:     sf.text,
				Category: sf.category,
				Status:   models.FactStatusActive,
				Created:  now,
				Source:   seedSource,
			})
			result.FactsCreated++
		}
		if err := s.store.SaveFacts(id, facts); err != nil {
			return nil, err
		}
		result.EntitiesCreated++
		result.EntityIDs = append(result.EntityIDs, id.String())
	}

	for _, sr := range seedRelations {
		src, err := ident.New(sr.srcType, sr.srcName)
		if err != nil {
			return nil, err
		}
		tgt, err := ident.New(sr.tgtType, sr.tgtName)
		if err != nil {
			return nil, err
		}
		text := sr.text
		if text == "" {
			source, err := s.store.LoadEntity(src)
			if err != nil {
				return nil, err
			}
			target, err := s.store.LoadEntity(tgt)
			if err != nil {
				return nil, err
			}
			text = fmt.Sprintf("%s %s %s", source.Name, sr.rtype.Sentence(), target.Name)
		}

		facts, err := s.store.LoadFacts(src)
		if err != nil {
			return nil, err
		}
		facts = append(facts, models.Fact{
			ID:       NextFactID(facts, src.Slug),
			Text:     text,
			Category: models.CategoryRelationship,
			Status:   models.FactStatusActive,
			Created:  now,
			Source:   seedSource,
			Relation: &models.Relation{Type: sr.rtype, Target: tgt.String()},
		})
		if err := s.store.SaveFacts(src, facts); err != nil {
			return nil, err
		}
		result.RelationsCreated++
	}

	for _, rawID := range result.EntityIDs {
		id, err := ident.Parse(rawID)
		if err != nil {
			return nil, err
		}
		if err := s.summarize(id); err != nil {
			return nil, err
		}
	}

	s.store.Audit("seed", fmt.Sprintf("%d entities, %d facts, %d relations",
		result.EntitiesCreated, result.FactsCreated, result.RelationsCreated))
	s.logger.Info("seeded knowledge graph",
		"entities", result.EntitiesCreated, "facts", result.FactsCreated, "relations", result.RelationsCreated)
	return result, nil
}

var seedEntities = []seedEntity{
	{
		etype:   models.EntityTypePerson,
		name:    "Rick Arnold",
		domains: []string{"ministry", "chapel", "trading", "dev", "family", "personal", "content"},
		aliases: []string{"Rick"},
		facts: []seedFact{
			{models.CategoryRole, "Senior chaplain at Centralia Correctional Center (IDOC)"},
			{models.CategoryRole, "Part-time pastor at St. Peter's Stone Church — preaches bimonthly"},
			{models.CategoryActivity, "Leads Walking in the Spirit teaching series (2026)"},
			{models.CategoryActivity, "Developing On Mission with the Master — Romans expository series"},
			{models.CategorySkill, "Expository preaching influenced by Stott, Driscoll, Finney style"},
			{models.CategoryPreference, "Bible-based, Christ-centered, Spirit-filled, Mission-minded"},
			{models.CategoryBelief, "Prevenient grace, unlimited atonement, corporate election"},
			{models.CategoryBelief, "Molinism — middle knowledge framework for sovereignty and freedom"},
			{models.CategoryStatus, "Ordained through Evangelical Church Alliance"},
			{models.CategoryMilestone, "12 years missions: Russia, India, Afghanistan, Egypt, Malaysia, Serbia (1998-2010)"},
			{models.CategoryPreference, "Serious Bitcoin/crypto investor — follows Benjamin Cowen"},
			{models.CategorySkill, "Runs Ubuntu Linux server (System76) for ClawdBot infrastructure"},
		},
	},
	{
		etype:   models.EntityTypePerson,
		name:    "Maria Arnold",
		domains: []string{"family"},
		aliases: []string{"Maria"},
		facts: []seedFact{
			{models.CategoryRole, "Rick's wife of 25+ years"},
			{models.CategoryMilestone, "Met at missionary training school where she was an instructor"},
			{models.CategoryActivity, "Still goes on missions trips — Rick finances them"},
			{models.CategoryNote, "Super diligent, hardworking — they hope to serve together after retirement"},
		},
	},
	{
		etype:   models.EntityTypePerson,
		name:    "Mark Driscoll",
		domains: []string{"ministry"},
		facts: []seedFact{
			{models.CategoryRole, "Preacher and author — theological influence on Rick"},
			{models.CategoryNote, "Rick takes preaching style and directness from Driscoll"},
		},
	},
	{
		etype:   models.EntityTypePerson,
		name:    "Benjamin Cowen",
		domains: []string{"trading"},
		aliases: []string{"Ben Cowen"},
		facts: []seedFact{
			{models.CategoryRole, "Into The Cryptoverse host — crypto analyst"},
			{models.CategoryNote, "Rick's primary crypto analysis source"},
		},
	},
	{
		etype:   models.EntityTypePerson,
		name:    "Charles Finney",
		domains: []string{"ministry"},
		aliases: []string{"Finney"},
		facts: []seedFact{
			{models.CategoryRole, "19th century revivalist preacher"},
			{models.CategoryNote, "Rick loves his preaching style and illustrations but rejects entire sanctification theology"},
			{models.CategoryNote, "Used as rhetorical model, not theological one — gospeltruth.net for material"},
		},
	},
	{
		etype:   models.EntityTypePerson,
		name:    "N.T. Wright",
		domains: []string{"ministry"},
		aliases: []string{"Tom Wright"},
		facts: []seedFact{
			{models.CategoryRole, "New Testament scholar and theologian"},
			{models.CategoryNote, "Rick appreciates Wright's covenant faithfulness, kingdom now/not-yet, resurrection of all things"},
		},
	},
	{
		etype:   models.EntityTypeProject,
		name:    "ClawdBot",
		domains: []string{"dev"},
		aliases: []string{"Clawd"},
		facts: []seedFact{
			{models.CategoryStatus, "Active — Rick's AI assistant running on System76 Ubuntu server"},
			{models.CategoryNote, "Gateway at ai.btctx.us, Claude API backend, custom skills architecture"},
			{models.CategoryNote, "Manages calendar, tasks, Drive, memory, sermon pipeline, morning brief"},
		},
	},
	{
		etype:   models.EntityTypeProject,
		name:    "ArnoldOS",
		domains: []string{"dev"},
		facts: []seedFact{
			{models.CategoryStatus, "Active — Rick's life operating system skill for ClawdBot"},
			{models.CategoryNote, "Google Workspace integration: Calendar, Tasks, Drive across 7 life domains"},
		},
	},
	{
		etype:   models.EntityTypeProject,
		name:    "Sermon Pipeline",
		domains: []string{"ministry", "dev"},
		facts: []seedFact{
			{models.CategoryStatus, "Active — ClawdBot skill for sermon development workflow"},
			{models.CategoryNote, "Stages: lectionary reading -> research -> outline -> draft -> review -> delivery"},
		},
	},
	{
		etype:   models.EntityTypeOrganization,
		name:    "St. Peter's Stone Church",
		domains: []string{"ministry"},
		aliases: []string{"St. Peter's"},
		facts: []seedFact{
			{models.CategoryNote, "Small church where Rick preaches bimonthly as part-time pastor"},
		},
	},
	{
		etype:   models.EntityTypeOrganization,
		name:    "Centralia Correctional Center",
		domains: []string{"chapel"},
		aliases: []string{"Centralia CC"},
		facts: []seedFact{
			{models.CategoryNote, "IDOC medium-security facility — Rick's current chaplain assignment"},
			{models.CategoryNote, "Rick transferred here after 11 years at Pinckneyville — likes it much better"},
		},
	},
	{
		etype:   models.EntityTypeOrganization,
		name:    "Pinckneyville Correctional Center",
		domains: []string{"chapel"},
		aliases: []string{"Pinckneyville CC"},
		facts: []seedFact{
			{models.CategoryNote, "IDOC facility where Rick served 11 years as sole chaplain (2014-2025)"},
		},
	},
	{
		etype:   models.EntityTypeConcept,
		name:    "Prevenient Grace",
		domains: []string{"ministry"},
		facts: []seedFact{
			{models.CategoryBelief, "God's grace precedes and enables the human response to the gospel"},
			{models.CategoryNote, "Rick's soteriology order: prevenient grace -> conviction -> repentance -> faith -> regeneration"},
		},
	},
	{
		etype:   models.EntityTypeConcept,
		name:    "Molinism",
		domains: []string{"ministry"},
		aliases: []string{"Middle Knowledge"},
		facts: []seedFact{
			{models.CategoryBelief, "God knows what any free creature would do in any circumstance"},
			{models.CategoryNote, "William Lane Craig's framework — preserves genuine freedom and sovereign plan"},
			{models.CategoryNote, "Rick's preferred framework for divine sovereignty and human freedom tension"},
		},
	},
	{
		etype:   models.EntityTypeConcept,
		name:    "Theological Triage",
		domains: []string{"ministry"},
		facts: []seedFact{
			{models.CategoryBelief, "Four buckets: Essentials, Convictions, Opinions, Questions"},
			{models.CategoryNote, "ESV Study Bible model — Rick promotes unity, don't major on minors (Romans 14)"},
		},
	},
	{
		etype:   models.EntityTypeResource,
		name:    "Voice Profile",
		domains: []string{"content", "dev"},
		facts: []seedFact{
			{models.CategoryNote, "Rick's voice and communication style reference for ClawdBot content generation"},
			{models.CategoryNote, "Direct, storyteller, providence-oriented, practical theologian"},
		},
	},
	{
		etype:   models.EntityTypeResource,
		name:    "Morning Brief",
		domains: []string{"dev", "personal"},
		facts: []seedFact{
			{models.CategoryNote, "Daily briefing generated by ClawdBot — schedule, tasks, conflicts, preaching prep"},
		},
	},
}

var seedRelations = []seedRelation{
	{"Rick Arnold", models.EntityTypePerson, "St. Peter's Stone Church", models.EntityTypeOrganization, models.RelationLeads, ""},
	{"Rick Arnold", models.EntityTypePerson, "Centralia Correctional Center", models.EntityTypeOrganization, models.RelationMemberOf, "Rick is senior chaplain at Centralia CC"},
	{"Rick Arnold", models.EntityTypePerson, "ClawdBot", models.EntityTypeProject, models.RelationCreatedBy, "Rick built and maintains ClawdBot"},
	{"Rick Arnold", models.EntityTypePerson, "ArnoldOS", models.EntityTypeProject, models.RelationCreatedBy, "Rick designed ArnoldOS life operating system"},
	{"Rick Arnold", models.EntityTypePerson, "Prevenient Grace", models.EntityTypeConcept, models.RelationUses, "Core to Rick's soteriology"},
	{"Rick Arnold", models.EntityTypePerson, "Molinism", models.EntityTypeConcept, models.RelationUses, "Rick's framework for sovereignty and freedom"},
	{"Rick Arnold", models.EntityTypePerson, "Theological Triage", models.EntityTypeConcept, models.RelationUses, "Rick's method for categorizing doctrines"},
	{"ClawdBot", models.EntityTypeProject, "ArnoldOS", models.EntityTypeProject, models.RelationPartOf, "ArnoldOS is a ClawdBot skill"},
}
