// Package ident parses and validates entity identifiers of the form
// "type/slug" and derives slugs from display names.
package ident

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ajitpratap0/openclaw-kg/internal/models"
)

// ErrInvalidID is returned for identifiers that fail format, type, or
// slug validation. Match with errors.Is.
var ErrInvalidID = errors.New("invalid entity id")

var (
	slugPattern    = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)
	nonAlnumRuns   = regexp.MustCompile(`[^a-z0-9]+`)
	trailingHyphen = regexp.MustCompile(`^-+|-+$`)
)

// EntityID is a parsed, validated entity identifier.
type EntityID struct {
	Type models.EntityType
	Slug string
}

// String returns the canonical "type/slug" form.
func (id EntityID) String() string {
	return string(id.Type) + "/" + id.Slug
}

// Slugify lowercases the name, collapses runs of non-alphanumeric
// characters to single hyphens, and trims hyphen boundaries. The result
// may be empty for names with no alphanumeric characters.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnumRuns.ReplaceAllString(s, "-")
	s = trailingHyphen.ReplaceAllString(s, "")
	return s
}

// ValidSlug reports whether slug matches [a-z0-9]([a-z0-9-]*[a-z0-9])?.
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// Parse validates a raw "type/slug" identifier.
func Parse(raw string) (EntityID, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return EntityID{}, fmt.Errorf("%w: %q must be type/slug", ErrInvalidID, raw)
	}
	et := models.EntityType(parts[0])
	if !et.IsValid() {
		return EntityID{}, fmt.Errorf("%w: unknown entity type %q", ErrInvalidID, parts[0])
	}
	if !ValidSlug(parts[1]) {
		return EntityID{}, fmt.Errorf("%w: slug %q must match [a-z0-9]([a-z0-9-]*[a-z0-9])?", ErrInvalidID, parts[1])
	}
	return EntityID{Type: et, Slug: parts[1]}, nil
}

// New builds an EntityID from a type and a display name via Slugify.
func New(et models.EntityType, name string) (EntityID, error) {
	if !et.IsValid() {
		return EntityID{}, fmt.Errorf("%w: unknown entity type %q", ErrInvalidID, et)
	}
	slug := Slugify(name)
	if !ValidSlug(slug) {
		return EntityID{}, fmt.Errorf("%w: name %q produces invalid slug %q", ErrInvalidID, name, slug)
	}
	return EntityID{Type: et, Slug: slug}, nil
}
