package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/openclaw-kg/internal/models"
	"github.com/ajitpratap0/openclaw-kg/internal/store"
)

func TestMerge_FactsConserved(t *testing.T) {
	svc := newTestService(t)
	src := mustCreate(t, svc, models.EntityTypePerson, "Richard Arnold")
	tgt := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")

	_, err := svc.AddFact(src, "Former corrections officer", models.CategoryRole, "")
	require.NoError(t, err)
	_, err = svc.AddFact(src, "Enjoys woodworking", models.CategoryActivity, "")
	require.NoError(t, err)
	_, err = svc.AddFact(tgt, "Pastor at St. Peter's Stone Church", models.CategoryRole, "")
	require.NoError(t, err)

	result, err := svc.Merge(src, tgt)
	require.NoError(t, err)
	assert.Equal(t, src.String(), result.Merged)
	assert.Equal(t, tgt.String(), result.Into)
	assert.Equal(t, 2, result.FactsMoved)

	// Source is gone; every fact landed on the target with fresh IDs and
	// provenance.
	assert.False(t, svc.Store().Exists(src))
	facts, err := svc.Store().LoadFacts(tgt)
	require.NoError(t, err)
	require.Len(t, facts, 3)
	assert.Equal(t, "rick-arnold-002", facts[1].ID)
	assert.Equal(t, "rick-arnold-003", facts[2].ID)
	assert.Equal(t, "person/richard-arnold:richard-arnold-001", facts[1].MergedFrom)
	assert.Equal(t, "person/richard-arnold:richard-arnold-002", facts[2].MergedFrom)
}

func TestMerge_BystanderRelationsRewritten(t *testing.T) {
	svc := newTestService(t)
	src := mustCreate(t, svc, models.EntityTypePerson, "Richard Arnold")
	tgt := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")
	bystander := mustCreate(t, svc, models.EntityTypePerson, "Maria Arnold")

	_, err := svc.AddRelation(bystander, src, models.RelationWorksWith, "", "")
	require.NoError(t, err)

	result, err := svc.Merge(src, tgt)
	require.NoError(t, err)
	assert.Equal(t, 1, result.RelationsRewritten)

	facts, err := svc.Store().LoadFacts(bystander)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	require.NotNil(t, facts[0].Relation)
	assert.Equal(t, tgt.String(), facts[0].Relation.Target, "bystander edge now points at the survivor")
}

func TestMerge_SelfTargetingRelationRewritten(t *testing.T) {
	svc := newTestService(t)
	src := mustCreate(t, svc, models.EntityTypeProject, "Sermon Bot")
	tgt := mustCreate(t, svc, models.EntityTypeProject, "ClawdBot")
	other := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")

	// A source fact pointing at the source itself must be retargeted when
	// moved, and the target's own facts get the same rewrite.
	_, err := svc.AddRelation(src, src, models.RelationRelatesTo, "", "")
	require.NoError(t, err)
	_, err = svc.AddRelation(tgt, src, models.RelationUses, "", "")
	require.NoError(t, err)
	_, err = svc.AddRelation(other, src, models.RelationUses, "", "")
	require.NoError(t, err)

	result, err := svc.Merge(src, tgt)
	require.NoError(t, err)
	assert.Equal(t, 3, result.RelationsRewritten)

	facts, err := svc.Store().LoadFacts(tgt)
	require.NoError(t, err)
	for i := range facts {
		if facts[i].Relation != nil {
			assert.Equal(t, tgt.String(), facts[i].Relation.Target)
		}
	}
}

func TestMerge_SupersedeChainRemapped(t *testing.T) {
	svc := newTestService(t)
	src := mustCreate(t, svc, models.EntityTypePerson, "Richard Arnold")
	tgt := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")

	old, err := svc.AddFact(src, "Works at the prison", models.CategoryStatus, "")
	require.NoError(t, err)
	_, err = svc.Supersede(src, old.ID, "Retired from the prison", "")
	require.NoError(t, err)

	_, err = svc.Merge(src, tgt)
	require.NoError(t, err)

	facts, err := svc.Store().LoadFacts(tgt)
	require.NoError(t, err)
	require.Len(t, facts, 2)

	// The moved replacement's back-reference follows its chain partner's
	// new ID, not the stale source-slug ID.
	assert.Equal(t, "rick-arnold-001", facts[0].ID)
	assert.Equal(t, "rick-arnold-002", facts[1].ID)
	assert.Equal(t, "rick-arnold-001", facts[1].Supersedes)
	assert.Equal(t, models.FactStatusSuperseded, facts[0].Status)
	assert.Equal(t, models.FactStatusActive, facts[1].Status)
}

func TestMerge_AliasAndDomainUnion(t *testing.T) {
	svc := newTestService(t)
	srcEntity, err := svc.CreateEntity(models.EntityTypePerson, "Richard Arnold",
		[]string{"prison-ministry"}, []string{"Richie"}, false)
	require.NoError(t, err)
	src := mustParse(t, srcEntity.ID)
	tgtEntity, err := svc.CreateEntity(models.EntityTypePerson, "Rick Arnold",
		[]string{"faith"}, []string{"Pastor Rick"}, true)
	require.NoError(t, err)
	tgt := mustParse(t, tgtEntity.ID)

	_, err = svc.Merge(src, tgt)
	require.NoError(t, err)

	merged, err := svc.Store().LoadEntity(tgt)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Pastor Rick", "Richie", "Richard Arnold"}, merged.Aliases,
		"source name and aliases become aliases of the survivor")
	assert.ElementsMatch(t, []string{"faith", "prison-ministry"}, merged.Domains)
}

func TestMerge_SelfMergeRejected(t *testing.T) {
	svc := newTestService(t)
	id := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")

	_, err := svc.Merge(id, id)
	assert.True(t, errors.Is(err, ErrSelfMerge))
}

func TestMerge_MissingEntities(t *testing.T) {
	svc := newTestService(t)
	tgt := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")

	_, err := svc.Merge(mustParse(t, "person/ghost"), tgt)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	_, err = svc.Merge(tgt, mustParse(t, "person/ghost"))
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.True(t, svc.Store().Exists(tgt), "failed merge must not delete the source")
}
