package graph

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/openclaw-kg/internal/models"
)

func TestAddFact_AppendsAndTouches(t *testing.T) {
	svc := newTestService(t)
	id := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")

	before, err := svc.Store().LoadEntity(id)
	require.NoError(t, err)

	fact, err := svc.AddFact(id, "Pastor at St. Peter's Stone Church", models.CategoryRole, "")
	require.NoError(t, err)
	assert.Equal(t, "rick-arnold-001", fact.ID)
	assert.Equal(t, models.CategoryRole, fact.Category)
	assert.Equal(t, models.FactStatusActive, fact.Status)
	assert.Equal(t, DefaultSource, fact.Source)

	after, err := svc.Store().LoadEntity(id)
	require.NoError(t, err)
	assert.True(t, after.Updated.After(before.Updated))

	fact2, err := svc.AddFact(id, "Rides a Harley", models.CategoryActivity, "manual")
	require.NoError(t, err)
	assert.Equal(t, "rick-arnold-002", fact2.ID)
	assert.Equal(t, "manual", fact2.Source)
}

func TestAddFact_Validation(t *testing.T) {
	svc := newTestService(t)
	id := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")

	_, err := svc.AddFact(id, "some text", models.FactCategory("opinion"), "")
	assert.True(t, errors.Is(err, ErrInvalidCategory))

	_, err = svc.AddFact(id, strings.Repeat("x", models.MaxFactLength+1), models.CategoryNote, "")
	assert.True(t, errors.Is(err, ErrTextTooLong))
}

func TestSupersede_ChainIntegrity(t *testing.T) {
	svc := newTestService(t)
	id := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")

	old, err := svc.AddFact(id, "Works at the prison", models.CategoryStatus, "")
	require.NoError(t, err)

	result, err := svc.Supersede(id, old.ID, "Retired from the prison", "")
	require.NoError(t, err)
	assert.Equal(t, old.ID, result.OldFactID)
	assert.Equal(t, "rick-arnold-002", result.NewFact.ID)
	assert.Equal(t, old.ID, result.NewFact.Supersedes)
	assert.Equal(t, models.CategoryStatus, result.NewFact.Category, "replacement inherits category")

	facts, err := svc.Store().LoadFacts(id)
	require.NoError(t, err)
	require.Len(t, facts, 2, "superseded facts are retained, never deleted")
	assert.Equal(t, models.FactStatusSuperseded, facts[0].Status)
	require.NotNil(t, facts[0].SupersededAt)
	assert.Equal(t, models.FactStatusActive, facts[1].Status)
}

func TestSupersede_AlreadySupersededRejected(t *testing.T) {
	svc := newTestService(t)
	id := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")

	old, err := svc.AddFact(id, "Works at the prison", models.CategoryStatus, "")
	require.NoError(t, err)
	_, err = svc.Supersede(id, old.ID, "Retired", "")
	require.NoError(t, err)

	// A fact can be superseded at most once.
	_, err = svc.Supersede(id, old.ID, "Retired again", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadySuperseded))
}

func TestSupersede_UnknownFact(t *testing.T) {
	svc := newTestService(t)
	id := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")

	_, err := svc.Supersede(id, "rick-arnold-999", "text", "")
	assert.True(t, errors.Is(err, ErrFactNotFound))
}

func TestSupersede_IDsNeverReused(t *testing.T) {
	svc := newTestService(t)
	id := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")

	f1, err := svc.AddFact(id, "fact one", models.CategoryNote, "")
	require.NoError(t, err)
	res, err := svc.Supersede(id, f1.ID, "fact two", "")
	require.NoError(t, err)
	res2, err := svc.Supersede(id, res.NewFact.ID, "fact three", "")
	require.NoError(t, err)

	// Even with every earlier fact superseded, the sequence only grows.
	assert.Equal(t, "rick-arnold-003", res2.NewFact.ID)
	f4, err := svc.AddFact(id, "fact four", models.CategoryNote, "")
	require.NoError(t, err)
	assert.Equal(t, "rick-arnold-004", f4.ID)
}

func TestSupersede_RelationCarriedForward(t *testing.T) {
	svc := newTestService(t)
	src := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")
	tgt := mustCreate(t, svc, models.EntityTypeOrganization, "St. Peter's Stone Church")

	rel, err := svc.AddRelation(src, tgt, models.RelationMemberOf, "", "")
	require.NoError(t, err)

	res, err := svc.Supersede(src, rel.ID, "Rick Arnold leads the church board", "")
	require.NoError(t, err)
	require.NotNil(t, res.NewFact.Relation, "relation payload survives supersede")
	assert.Equal(t, tgt.String(), res.NewFact.Relation.Target)
}

func TestAddRelation_SynthesizedText(t *testing.T) {
	svc := newTestService(t)
	src := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")
	tgt := mustCreate(t, svc, models.EntityTypeOrganization, "St. Peter's Stone Church")

	fact, err := svc.AddRelation(src, tgt, models.RelationMemberOf, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Rick Arnold member of St. Peter's Stone Church", fact.Text)
	assert.Equal(t, models.CategoryRelationship, fact.Category)
	require.NotNil(t, fact.Relation)
	assert.Equal(t, models.RelationMemberOf, fact.Relation.Type)
	assert.Equal(t, "organization/st-peter-s-stone-church", fact.Relation.Target)
}

func TestAddRelation_CustomText(t *testing.T) {
	svc := newTestService(t)
	src := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")
	tgt := mustCreate(t, svc, models.EntityTypeProject, "ClawdBot")

	fact, err := svc.AddRelation(src, tgt, models.RelationUses, "Rick uses ClawdBot daily for sermon prep", "")
	require.NoError(t, err)
	assert.Equal(t, "Rick uses ClawdBot daily for sermon prep", fact.Text)
}

func TestAddRelation_TargetMustExist(t *testing.T) {
	svc := newTestService(t)
	src := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")

	missing := mustParse(t, "project/ghost")
	_, err := svc.AddRelation(src, missing, models.RelationUses, "", "")
	require.Error(t, err)
}

func TestAddRelation_SelfRelation(t *testing.T) {
	svc := newTestService(t)
	id := mustCreate(t, svc, models.EntityTypeConcept, "Molinism")

	// Locking must dedupe the pair or this would deadlock.
	fact, err := svc.AddRelation(id, id, models.RelationRelatesTo, "", "")
	require.NoError(t, err)
	assert.Equal(t, id.String(), fact.Relation.Target)
}

func TestAddRelation_InvalidType(t *testing.T) {
	svc := newTestService(t)
	src := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")
	tgt := mustCreate(t, svc, models.EntityTypeProject, "ClawdBot")

	_, err := svc.AddRelation(src, tgt, models.RelationType("friends_with"), "", "")
	assert.True(t, errors.Is(err, ErrInvalidRelation))
}
