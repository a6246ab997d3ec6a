package graph

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/openclaw-kg/internal/models"
)

func summaryTestEntity() *models.Entity {
	return &models.Entity{
		ID:      "person/rick-arnold",
		Type:    models.EntityTypePerson,
		Name:    "Rick Arnold",
		Slug:    "rick-arnold",
		Aliases: []string{"Rick"},
		Domains: []string{"faith", "family"},
		Status:  models.EntityStatusActive,
		Updated: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderSummary_Sections(t *testing.T) {
	entity := summaryTestEntity()
	created := time.Date(2026, 1, 15, 11, 0, 0, 0, time.UTC)
	facts := []models.Fact{
		{ID: "rick-arnold-001", Text: "Pastor at the church", Category: models.CategoryRole,
			Status: models.FactStatusActive, Created: created},
		{ID: "rick-arnold-002", Text: "Old job", Category: models.CategoryStatus,
			Status: models.FactStatusSuperseded, Created: created},
		{ID: "rick-arnold-003", Text: "Rick Arnold member of St. Peter's", Category: models.CategoryRelationship,
			Status: models.FactStatusActive, Created: created,
			Relation: &models.Relation{Type: models.RelationMemberOf, Target: "organization/st-peter-s-stone-church"}},
	}

	out := RenderSummary(entity, facts)

	assert.Contains(t, out, "# Rick Arnold\n")
	assert.Contains(t, out, "**Type:** person | **Domains:** faith, family | **Aliases:** Rick")
	assert.Contains(t, out, "## Active Facts\n\n- [role] Pastor at the church\n")
	assert.Contains(t, out, "## Relationships\n\n- member of → organization/st-peter-s-stone-church\n")
	assert.Contains(t, out, "*2 active facts | Last updated: 2026-01-15T12:00:00*")
	assert.NotContains(t, out, "Old job", "superseded facts never appear in summaries")
}

func TestRenderSummary_Deterministic(t *testing.T) {
	entity := summaryTestEntity()
	facts := []models.Fact{
		{ID: "rick-arnold-001", Text: "A fact", Category: models.CategoryNote,
			Status: models.FactStatusActive, Created: time.Date(2026, 1, 15, 11, 0, 0, 0, time.UTC)},
	}
	assert.Equal(t, RenderSummary(entity, facts), RenderSummary(entity, facts))
}

func TestRenderSummary_NoFacts(t *testing.T) {
	entity := summaryTestEntity()
	out := RenderSummary(entity, nil)
	assert.NotContains(t, out, "## Active Facts")
	assert.NotContains(t, out, "## Relationships")
	assert.Contains(t, out, "*0 active facts")
}

func TestSelectSummaryFacts_PriorityAndCap(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var facts []models.Fact
	// Two identity-defining facts, created first.
	facts = append(facts, models.Fact{ID: "x-001", Category: models.CategoryRole,
		Status: models.FactStatusActive, Created: base})
	facts = append(facts, models.Fact{ID: "x-002", Category: models.CategoryStatus,
		Status: models.FactStatusActive, Created: base.Add(time.Minute)})
	// Twenty notes after them.
	for i := 0; i < 20; i++ {
		facts = append(facts, models.Fact{
			ID:       fmt.Sprintf("x-%03d", i+3),
			Category: models.CategoryNote,
			Status:   models.FactStatusActive,
			Created:  base.Add(time.Duration(i+2) * time.Minute),
		})
	}

	shown := selectSummaryFacts(facts)
	require.Len(t, shown, 12, "all role/status facts plus the cap of recent others")

	ids := map[string]bool{}
	for _, f := range shown {
		ids[f.ID] = true
	}
	assert.True(t, ids["x-001"], "role fact survives truncation regardless of age")
	assert.True(t, ids["x-002"], "status fact survives truncation regardless of age")
	assert.True(t, ids["x-022"], "most recent note kept")
	assert.False(t, ids["x-003"], "oldest notes dropped")

	// Output is re-sorted by creation order.
	for i := 1; i < len(shown); i++ {
		assert.False(t, shown[i].Created.Before(shown[i-1].Created))
	}
}

func TestSummarizeOne_WritesSummary(t *testing.T) {
	svc := newTestService(t)
	id := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")
	_, err := svc.AddFact(id, "Pastor at the church", models.CategoryRole, "")
	require.NoError(t, err)

	result, err := svc.SummarizeOne(id)
	require.NoError(t, err)
	assert.Equal(t, []string{id.String()}, result.Summarized)
	assert.Equal(t, 1, result.Count)

	summary, err := svc.Store().LoadSummary(id)
	require.NoError(t, err)
	assert.Contains(t, summary, "- [role] Pastor at the church")
}

func TestSummarizeAll(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")
	mustCreate(t, svc, models.EntityTypePerson, "Maria Arnold")

	result, err := svc.SummarizeAll()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
}

func TestSummarizeDirty_OnlyStale(t *testing.T) {
	svc := newTestService(t)
	fresh := mustCreate(t, svc, models.EntityTypePerson, "Rick Arnold")
	stale := mustCreate(t, svc, models.EntityTypePerson, "Maria Arnold")

	// Bring both summaries up to date, then mutate only one entity.
	_, err := svc.SummarizeAll()
	require.NoError(t, err)

	// The fake clock runs ahead of the wall clock at one second per call,
	// so push the stale entity's updated timestamp past the summary mtime
	// with a real future time.
	entity, err := svc.Store().LoadEntity(stale)
	require.NoError(t, err)
	entity.Updated = time.Now().Add(time.Hour)
	require.NoError(t, svc.Store().SaveEntity(stale, entity))

	result, err := svc.SummarizeDirty()
	require.NoError(t, err)
	assert.Equal(t, []string{stale.String()}, result.Summarized)
	assert.NotContains(t, result.Summarized, fresh.String())
}
