package formmodel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Backend-Inspectrack/src/models"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestBuildWithoutIssues(t *testing.T) {
	tpl := sampleTemplate()
	sections := Merge(tpl, models.TemplateCustomization{})
	responses := models.FormResponse{
		"a1": {Value: models.BoolValue(true)},
		"a2": {Value: models.BoolValue(true)},
	}

	sub := Build(tpl, sections, responses, BuildInput{BuildingID: "bld-1", UserID: "u-1", Now: fixedNow, NewID: sequentialIDs()})

	assert.Empty(t, sub.Issues)
	in := sub.Inspection
	assert.Equal(t, models.InspectionCompleted, in.Status)
	assert.Equal(t, 0, in.IssuesCount)
	assert.Equal(t, 5, in.ItemsCount, "counts every visible item, answered or not")
	assert.Equal(t, "weekly", in.FormID)
	assert.Equal(t, "Weekly Check", in.FormName)
	assert.Equal(t, fixedNow, in.CompletedAt)
	assert.Len(t, in.Responses, 2)
}

func TestBuildWithOneFailingItem(t *testing.T) {
	tpl := sampleTemplate()
	sections := Merge(tpl, models.TemplateCustomization{})
	responses := models.FormResponse{
		"a1": {Value: models.BoolValue(false), Note: "Door does not latch"},
		"a2": {Value: models.BoolValue(true)},
	}

	sub := Build(tpl, sections, responses, BuildInput{BuildingID: "bld-1", Now: fixedNow, NewID: sequentialIDs()})

	require.Len(t, sub.Issues, 1)
	assert.Equal(t, models.InspectionIssues, sub.Inspection.Status)
	assert.Equal(t, 1, sub.Inspection.IssuesCount)

	issue := sub.Issues[0]
	assert.Equal(t, models.PriorityMedium, issue.Priority)
	assert.Equal(t, models.IssueOpen, issue.Status)
	assert.Equal(t, "Section A: Doors", issue.Title)
	assert.Equal(t, "Door does not latch", issue.Description)
	assert.Equal(t, PlaceholderLocation, issue.Location)
	assert.Equal(t, "Weekly Check", issue.FormName)
	assert.Equal(t, sub.Inspection.ID, issue.InspectionID)
	assert.Equal(t, "a1", issue.ItemID)
	assert.Nil(t, issue.ClosedAt)
}

func TestBuildFallbackDescriptionAndMaintenance(t *testing.T) {
	tpl := sampleTemplate()
	sections := Merge(tpl, models.TemplateCustomization{})
	responses := models.FormResponse{
		"b2": {Value: models.MaintenanceOf(strPtr("overdue"), true)},
		"a2": {Value: models.BoolValue(false), Note: "   "},
	}

	sub := Build(tpl, sections, responses, BuildInput{Now: fixedNow, NewID: sequentialIDs()})

	require.Len(t, sub.Issues, 2)
	assert.Equal(t, "Issue reported during Weekly Check inspection", sub.Issues[0].Description)
	assert.Equal(t, "b2", sub.Issues[1].ItemID)
}

func TestBuildSkipsRemovedItems(t *testing.T) {
	tpl := sampleTemplate()
	c := models.NewCustomization("bld-1", tpl.ID)
	c.RemovedItemIDs["a"] = []string{"a1"}
	responses := models.FormResponse{"a1": {Value: models.BoolValue(false)}}

	sub := Build(tpl, Merge(tpl, c), responses, BuildInput{Now: fixedNow})

	assert.Empty(t, sub.Issues)
	assert.Equal(t, 4, sub.Inspection.ItemsCount)
	assert.NotContains(t, sub.Inspection.Responses, "a1")
	assert.NotEmpty(t, sub.Inspection.ID)
}

func TestBuildFreezesVisibleLayout(t *testing.T) {
	tpl := sampleTemplate()
	c := models.NewCustomization("bld-1", tpl.ID)
	c.RemovedItemIDs["a"] = []string{"a3"}
	c.CustomItems["b"] = []models.ChecklistItemDefinition{
		{ID: "custom-1", Label: "Expansion tank", InputType: models.InputPassFail},
	}

	sub := Build(tpl, Merge(tpl, c), models.FormResponse{}, BuildInput{Now: fixedNow})

	layout := sub.Inspection.Sections
	require.Len(t, layout, 2)
	assert.Equal(t, "Section A", layout[0].Title)
	require.Len(t, layout[0].Items, 2)
	assert.Equal(t, "a2", layout[0].Items[1].ID)
	require.Len(t, layout[1].Items, 3)
	assert.Equal(t, "custom-1", layout[1].Items[2].ID)
	assert.True(t, layout[1].Items[2].IsCustom)

	sec, it, ok := sub.Inspection.Item("b2")
	require.True(t, ok)
	assert.Equal(t, "b", sec.ID)
	assert.Equal(t, models.InputMechanicalMaintenance, it.InputType)
}
