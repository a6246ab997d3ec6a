package models

import "time"

// MaxFactLength is the maximum fact text length in characters.
const MaxFactLength = 500

// FactCategory classifies the kind of fact.
type FactCategory string

const (
	CategoryRole         FactCategory = "role"
	CategoryActivity     FactCategory = "activity"
	CategoryRelationship FactCategory = "relationship"
	CategoryStatus       FactCategory = "status"
	CategoryPreference   FactCategory = "preference"
	CategoryBelief       FactCategory = "belief"
	CategorySkill        FactCategory = "skill"
	CategoryMilestone    FactCategory = "milestone"
	CategoryNote         FactCategory = "note"
)

// ValidFactCategories is the set of all valid fact categories.
var ValidFactCategories = []FactCategory{
	CategoryRole,
	CategoryActivity,
	CategoryRelationship,
	CategoryStatus,
	CategoryPreference,
	CategoryBelief,
	CategorySkill,
	CategoryMilestone,
	CategoryNote,
}

// IsValid returns true if the fact category is recognized.
func (fc FactCategory) IsValid() bool {
	for i := range ValidFactCategories {
		if fc == ValidFactCategories[i] {
			return true
		}
	}
	return false
}

// FactStatus is the lifecycle state of a fact. A fact never returns
// to active once superseded.
type FactStatus string

const (
	FactStatusActive     FactStatus = "active"
	FactStatusSuperseded FactStatus = "superseded"
)

// RelationType classifies a directed edge between two entities.
type RelationType string

const (
	RelationMemberOf    RelationType = "member_of"
	RelationWorksWith   RelationType = "works_with"
	RelationLeads       RelationType = "leads"
	RelationPartOf      RelationType = "part_of"
	RelationRelatesTo   RelationType = "relates_to"
	RelationUses        RelationType = "uses"
	RelationCreatedBy   RelationType = "created_by"
	RelationTaughtIn    RelationType = "taught_in"
	RelationIllustrates RelationType = "illustrates"
	RelationOpposes     RelationType = "opposes"
)

// ValidRelationTypes is the set of all valid relation types.
var ValidRelationTypes = []RelationType{
	RelationMemberOf,
	RelationWorksWith,
	RelationLeads,
	RelationPartOf,
	RelationRelatesTo,
	RelationUses,
	RelationCreatedBy,
	RelationTaughtIn,
	RelationIllustrates,
	RelationOpposes,
}

// IsValid returns true if the relation type is recognized.
func (rt RelationType) IsValid() bool {
	for i := range ValidRelationTypes {
		if rt == ValidRelationTypes[i] {
			return true
		}
	}
	return false
}

// Sentence renders the relation type as readable words ("member_of" -> "member of").
func (rt RelationType) Sentence() string {
	out := make([]byte, len(rt))
	for i := 0; i < len(rt); i++ {
		if rt[i] == '_' {
			out[i] = ' '
		} else {
			out[i] = rt[i]
		}
	}
	return string(out)
}

// Relation is the payload embedded in a relationship fact: a typed
// directed edge to another entity, referenced symbolically by ID.
type Relation struct {
	Type   RelationType `json:"type"`
	Target string       `json:"target"` // "type/slug" of the target entity
}

// Fact is one entry in an entity's facts.json. Facts are append-only:
// they are superseded, never edited in place or deleted, and their IDs
// ("slug-NNN") are never reused within the owning entity.
type Fact struct {
	ID           string       `json:"id"`
	Text         string       `json:"text"`
	Category     FactCategory `json:"category"`
	Status       FactStatus   `json:"status"`
	Created      time.Time    `json:"created"`
	Source       string       `json:"source"`
	Supersedes   string       `json:"supersedes,omitempty"`
	SupersededAt *time.Time   `json:"superseded_at,omitempty"`
	MergedFrom   string       `json:"merged_from,omitempty"` // "source-id:original-fact-id" provenance after a merge
	Relation     *Relation    `json:"relation,omitempty"`
}

// Active returns true if the fact has not been superseded.
func (f *Fact) Active() bool {
	return f.Status == FactStatusActive
}

// CapturedFact is a fact proposed by the LLM capture pipeline before
// it is applied through the fact engine.
type CapturedFact struct {
	Text       string       `json:"text"`
	Category   FactCategory `json:"category"`
	Confidence float64      `json:"confidence"`
}
