package reports

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Backend-Inspectrack/src/models"
	"Backend-Inspectrack/src/services/catalog"
	"Backend-Inspectrack/src/services/formmodel"
	"Backend-Inspectrack/src/store"
)

var (
	sess = models.Session{BuildingID: "bld-1", UserID: "user-1"}
	at   = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func sampleInspection() models.Inspection {
	return models.Inspection{
		ID:          "insp-1",
		FormID:      "daily-building",
		FormName:    "Daily Building Walkthrough",
		CompletedAt: at,
		Status:      models.InspectionIssues,
		ItemsCount:  13,
		IssuesCount: 1,
		Responses: models.FormResponse{
			"entrance-doors": {Value: models.BoolValue(false), Note: "closer broken", ActionBy: "Super"},
			"intercom":       {Value: models.BoolValue(true)},
			"lobby-lighting": {Value: models.BoolValue(false)},
			"retired-item":   {Value: models.TextValue("legacy answer")},
		},
	}
}

func findRow(t *testing.T, r Report, itemID string) Row {
	t.Helper()
	for _, s := range r.Sections {
		for _, row := range s.Rows {
			if row.ItemID == itemID {
				return row
			}
		}
	}
	t.Fatalf("row %s not found", itemID)
	return Row{}
}

func TestBuildReport(t *testing.T) {
	tmpl, err := catalog.Default().Get("daily-building")
	require.NoError(t, err)

	r := BuildReport(sampleInspection(), tmpl, models.NewCustomization("bld-1", "daily-building"))

	require.Len(t, r.Sections, 4)
	assert.Equal(t, "Lobby & Entrances", r.Sections[0].Title)
	assert.Equal(t, "Other items", r.Sections[3].Title)

	doors := findRow(t, r, "entrance-doors")
	assert.Equal(t, "Fail", doors.Answer)
	assert.True(t, doors.Flagged)
	assert.Equal(t, "closer broken", doors.Note)
	assert.Equal(t, "Super", doors.ActionBy)

	assert.Equal(t, "OK", findRow(t, r, "intercom").Answer)

	lights := findRow(t, r, "lobby-lighting")
	assert.Equal(t, "Off", lights.Answer)
	assert.False(t, lights.Flagged, "on-off answers are readings, not issues")

	assert.Equal(t, unanswered, findRow(t, r, "sidewalks").Answer)
	assert.Equal(t, "legacy answer", findRow(t, r, "retired-item").Answer)
}

func TestBuildReportHonoursCustomization(t *testing.T) {
	tmpl, err := catalog.Default().Get("daily-building")
	require.NoError(t, err)
	c := models.NewCustomization("bld-1", "daily-building")
	c.RemovedItemIDs["lobby"] = []string{"intercom"}

	r := BuildReport(sampleInspection(), tmpl, c)

	other := r.Sections[len(r.Sections)-1]
	require.Equal(t, "Other items", other.Title)
	var ids []string
	for _, row := range other.Rows {
		ids = append(ids, row.ItemID)
	}
	assert.Equal(t, []string{"intercom", "retired-item"}, ids)
}

func TestBuildReportUsesLayoutFrozenAtSubmission(t *testing.T) {
	tmpl, err := catalog.Default().Get("daily-building")
	require.NoError(t, err)
	c := models.NewCustomization("bld-1", "daily-building")
	responses := models.FormResponse{
		"entrance-doors": {Value: models.BoolValue(false), Note: "closer broken"},
		"intercom":       {Value: models.BoolValue(true)},
	}
	in := formmodel.Build(tmpl, formmodel.Merge(tmpl, c), responses, formmodel.BuildInput{BuildingID: "bld-1", Now: at}).Inspection
	require.Equal(t, 1, in.IssuesCount)

	c.RemovedItemIDs["lobby"] = []string{"entrance-doors"}
	r := BuildReport(in, tmpl, c)

	assert.Equal(t, "Lobby & Entrances", r.Sections[0].Title)
	assert.Equal(t, "entrance-doors", r.Sections[0].Rows[0].ItemID)
	doors := findRow(t, r, "entrance-doors")
	assert.Equal(t, "Fail", doors.Answer)
	assert.True(t, doors.Flagged)
	for _, s := range r.Sections {
		assert.NotEqual(t, "Other items", s.Title)
	}

	_, def, ok := in.Item("entrance-doors")
	require.True(t, ok)
	assert.Equal(t, models.InputPassFail, def.InputType)
}

func TestBuildReportFlagsRemovedItemWithoutLayout(t *testing.T) {
	tmpl, err := catalog.Default().Get("daily-building")
	require.NoError(t, err)
	c := models.NewCustomization("bld-1", "daily-building")
	c.RemovedItemIDs["lobby"] = []string{"entrance-doors"}

	in := sampleInspection()
	require.Empty(t, in.Sections)
	r := BuildReport(in, tmpl, c)

	other := r.Sections[len(r.Sections)-1]
	require.Equal(t, "Other items", other.Title)
	doors := findRow(t, r, "entrance-doors")
	assert.Equal(t, "Fail", doors.Answer)
	assert.True(t, doors.Flagged)
	assert.Equal(t, "Entrance doors close and latch", doors.Label)

	flagged := 0
	for _, s := range r.Sections {
		for _, row := range s.Rows {
			if row.Flagged {
				flagged++
			}
		}
	}
	assert.Equal(t, in.IssuesCount, flagged)

	retired := findRow(t, r, "retired-item")
	assert.Equal(t, "retired-item", retired.Label)
	assert.False(t, retired.Flagged)
}

func TestBuildReportWithoutTemplate(t *testing.T) {
	r := BuildReport(sampleInspection(), models.FormTemplate{}, models.TemplateCustomization{})

	require.Len(t, r.Sections, 1)
	assert.Equal(t, "Responses", r.Sections[0].Title)
	assert.Len(t, r.Sections[0].Rows, 4)
	assert.Equal(t, "entrance-doors", r.Sections[0].Rows[0].ItemID)
}

func TestFormatAnswer(t *testing.T) {
	tests := []struct {
		name string
		item models.ChecklistItemDefinition
		v    models.Value
		want string
	}{
		{"null", models.ChecklistItemDefinition{InputType: models.InputPassFail}, models.Null(), unanswered},
		{"pass", models.ChecklistItemDefinition{InputType: models.InputPassFail}, models.BoolValue(true), "Pass"},
		{"open", models.ChecklistItemDefinition{InputType: models.InputOpenClosed}, models.BoolValue(true), "Open"},
		{"number with unit", models.ChecklistItemDefinition{InputType: models.InputNumber, Unit: "psi"}, models.NumberValue(42.5), "42.5 psi"},
		{"blank text", models.ChecklistItemDefinition{InputType: models.InputText}, models.TextValue("  "), unanswered},
		{"toggle", models.ChecklistItemDefinition{InputType: models.InputCombinedToggle, Unit: "psi"}, models.ToggleOf(boolPtr(true), "80"), "On · 80 psi"},
		{"empty toggle", models.ChecklistItemDefinition{InputType: models.InputCombinedToggle}, models.ToggleOf(nil, ""), unanswered},
		{"maintenance", models.ChecklistItemDefinition{InputType: models.InputMechanicalMaintenance}, models.MaintenanceOf(strPtr("Serviced"), true), "Serviced (needs maintenance)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAnswer(tt.item, tt.v))
		})
	}
}

func TestRenderHTML(t *testing.T) {
	tmpl, err := catalog.Default().Get("daily-building")
	require.NoError(t, err)
	r := BuildReport(sampleInspection(), tmpl, models.TemplateCustomization{})
	r.Link = "https://inspect.example.com/inspections/insp-1"

	out, err := RenderHTML(r, at)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<title>Daily Building Walkthrough</title>")
	assert.Contains(t, html, "Lobby &amp; Entrances")
	assert.Contains(t, html, `class="flagged"`)
	assert.Contains(t, html, "data:image/png;base64,")
	assert.Contains(t, html, "Oct 19, 2026 09:30 UTC")
	assert.Contains(t, html, "Issues found")
}

type fakeRenderer struct {
	got []byte
	err error
}

func (f *fakeRenderer) Render(_ context.Context, html []byte) ([]byte, error) {
	f.got = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

func TestServicePDF(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	_, err := mem.CreateInspection(ctx, sess, sampleInspection())
	require.NoError(t, err)

	fr := &fakeRenderer{}
	svc := NewService(mem, catalog.Default(), fr, "https://inspect.example.com")

	t.Run("Renders", func(t *testing.T) {
		pdf, name, err := svc.PDF(ctx, sess, "insp-1")
		require.NoError(t, err)
		assert.Equal(t, "inspection-insp-1.pdf", name)
		assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
		assert.Contains(t, string(fr.got), "closer broken")
	})

	t.Run("OtherBuilding", func(t *testing.T) {
		_, _, err := svc.PDF(ctx, models.Session{BuildingID: "bld-2", UserID: "u"}, "insp-1")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("RendererFailure", func(t *testing.T) {
		fr.err = errors.New("chrome gone")
		_, _, err := svc.PDF(ctx, sess, "insp-1")
		assert.EqualError(t, err, "chrome gone")
	})
}

func TestServiceBuildLink(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	_, err := mem.CreateInspection(ctx, sess, sampleInspection())
	require.NoError(t, err)

	r, err := NewService(mem, catalog.Default(), &fakeRenderer{}, "https://inspect.example.com").Build(ctx, sess, "insp-1")
	require.NoError(t, err)
	assert.Equal(t, "https://inspect.example.com/inspections/insp-1", r.Link)
}
