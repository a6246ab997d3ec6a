package models

import (
	"strings"
	"time"
)

// EntityType classifies the kind of entity.
type EntityType string

const (
	EntityTypePerson       EntityType = "person"
	EntityTypeProject      EntityType = "project"
	EntityTypeConcept      EntityType = "concept"
	EntityTypeOrganization EntityType = "organization"
	EntityTypeResource     EntityType = "resource"
	EntityTypeEvent        EntityType = "event"
	EntityTypePlace        EntityType = "place"
)

// ValidEntityTypes is the set of all valid entity types.
var ValidEntityTypes = []EntityType{
	EntityTypePerson,
	EntityTypeProject,
	EntityTypeConcept,
	EntityTypeOrganization,
	EntityTypeResource,
	EntityTypeEvent,
	EntityTypePlace,
}

// IsValid returns true if the entity type is recognized.
func (et EntityType) IsValid() bool {
	for i := range ValidEntityTypes {
		if et == ValidEntityTypes[i] {
			return true
		}
	}
	return false
}

// EntityStatus is the lifecycle state of an entity.
type EntityStatus string

const (
	EntityStatusActive   EntityStatus = "active"
	EntityStatusArchived EntityStatus = "archived"
)

// Entity is the metadata record stored in entity.json.
// Facts live in a sibling facts.json and are not embedded here.
type Entity struct {
	ID      string       `json:"id"` // "type/slug"
	Type    EntityType   `json:"type"`
	Name    string       `json:"name"`
	Slug    string       `json:"slug"`
	Aliases []string     `json:"aliases"`
	Domains []string     `json:"domains"`
	Status  EntityStatus `json:"status"`
	Created time.Time    `json:"created"`
	Updated time.Time    `json:"updated"`
}

// Archived returns true if the entity has been archived.
func (e *Entity) Archived() bool {
	return e.Status == EntityStatusArchived
}

// HasDomain reports whether the entity carries the domain tag,
// compared case-insensitively.
func (e *Entity) HasDomain(domain string) bool {
	for _, d := range e.Domains {
		if strings.EqualFold(d, domain) {
			return true
		}
	}
	return false
}

// HasAlias reports whether name matches one of the entity's aliases,
// compared case-insensitively.
func (e *Entity) HasAlias(name string) bool {
	for _, a := range e.Aliases {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}
