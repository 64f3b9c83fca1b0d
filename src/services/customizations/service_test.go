package customizations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Backend-Inspectrack/src/models"
	"Backend-Inspectrack/src/services/catalog"
	"Backend-Inspectrack/src/services/formmodel"
	"Backend-Inspectrack/src/store"
	"Backend-Inspectrack/src/utils"
)

var (
	sess  = models.Session{BuildingID: "bld-1", UserID: "user-1"}
	other = models.Session{BuildingID: "bld-2", UserID: "user-2"}
	now   = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
)

func newService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	repo := store.NewMemory()
	svc := NewService(repo, catalog.Default(), utils.NewMemoryEphemeral()).WithClock(func() time.Time { return now })
	return svc, repo
}

func itemIDs(v View, sectionID string) []string {
	for _, s := range v.Sections {
		if s.ID == sectionID {
			ids := make([]string, 0, len(s.Items))
			for _, it := range s.Items {
				ids = append(ids, it.ID)
			}
			return ids
		}
	}
	return nil
}

func TestViewWithoutCustomizationMatchesTemplate(t *testing.T) {
	svc, _ := newService(t)
	v, err := svc.View(context.Background(), sess, "fire-safety")
	require.NoError(t, err)

	tmpl, err := catalog.Default().Get("fire-safety")
	require.NoError(t, err)
	require.Len(t, v.Sections, len(tmpl.Sections))
	for i, s := range tmpl.Sections {
		assert.Equal(t, s.Items, v.Sections[i].Items)
	}
	assert.Nil(t, v.LastUpdated)

	_, err = svc.View(context.Background(), sess, "unknown")
	assert.ErrorIs(t, err, catalog.ErrTemplateNotFound)
}

func TestUpsertValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	cases := map[string]UpsertRequest{
		"UnknownSection": {CustomItems: map[string][]models.ChecklistItemDefinition{
			"attic": {{ID: "c1", Label: "Insulation", InputType: models.InputOKIssue}},
		}},
		"MissingID": {CustomItems: map[string][]models.ChecklistItemDefinition{
			"egress": {{Label: "Door closers", InputType: models.InputOKIssue}},
		}},
		"BadType": {CustomItems: map[string][]models.ChecklistItemDefinition{
			"egress": {{ID: "c1", Label: "Door closers", InputType: "slider"}},
		}},
		"CollidesWithBase": {CustomItems: map[string][]models.ChecklistItemDefinition{
			"egress": {{ID: "exit-signs", Label: "Exit signs again", InputType: models.InputPassFail}},
		}},
		"RemovedUnknownSection": {RemovedItems: map[string][]string{"attic": {"x"}}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Upsert(ctx, sess, "fire-safety", req)
			assert.ErrorIs(t, err, ErrInvalidCustomization)
		})
	}
}

func TestUpsertAndViewAreBuildingScoped(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, sess, "fire-safety", UpsertRequest{
		CustomItems: map[string][]models.ChecklistItemDefinition{
			"egress": {{ID: "custom-1", Label: "Stair pressurization", InputType: models.InputOnOff}},
		},
		RemovedItems: map[string][]string{"egress": {"fire-doors", "fire-doors"}},
	})
	require.NoError(t, err)

	v, err := svc.View(ctx, sess, "fire-safety")
	require.NoError(t, err)
	assert.Equal(t, []string{"exit-signs", "emergency-lighting", "custom-1"}, itemIDs(v, "egress"))
	require.NotNil(t, v.LastUpdated)

	c, err := svc.Get(ctx, sess, "fire-safety")
	require.NoError(t, err)
	assert.Equal(t, []string{"fire-doors"}, c.RemovedItemIDs["egress"])

	theirs, err := svc.View(ctx, other, "fire-safety")
	require.NoError(t, err)
	assert.Equal(t, []string{"exit-signs", "emergency-lighting", "fire-doors"}, itemIDs(theirs, "egress"))
}

func TestAddItemPersists(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	item, err := svc.AddItem(ctx, sess, "mechanical-room", formmodel.NewItem{SectionID: "heating", Label: "Boiler pressure"})
	require.NoError(t, err)
	assert.Equal(t, models.InputNumber, item.InputType)
	assert.Equal(t, "psi", item.Unit)

	v, err := svc.View(ctx, sess, "mechanical-room")
	require.NoError(t, err)
	ids := itemIDs(v, "heating")
	assert.Equal(t, item.ID, ids[len(ids)-1])

	_, err = svc.AddItem(ctx, sess, "mechanical-room", formmodel.NewItem{SectionID: "heating"})
	assert.ErrorIs(t, err, formmodel.ErrLabelRequired)
}

func TestTwoStepRemoval(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := repo.UpsertDraft(ctx, sess, models.Draft{FormID: "daily-building", Responses: models.FormResponse{
		"intercom":  {Value: models.BoolValue(false), Note: "buzzer dead"},
		"sidewalks": {Value: models.BoolValue(true)},
	}})
	require.NoError(t, err)

	ticket, err := svc.RequestRemoval(ctx, sess, "daily-building", "intercom", RemovalRequest{})
	require.NoError(t, err)
	assert.Equal(t, "lobby", ticket.SectionID)
	assert.Equal(t, now.Add(RemovalTTL), ticket.ExpiresAt)

	// requesting alone changes nothing
	v, err := svc.View(ctx, sess, "daily-building")
	require.NoError(t, err)
	assert.Contains(t, itemIDs(v, "lobby"), "intercom")

	_, err = svc.ConfirmRemoval(ctx, sess, "daily-building", "intercom", "wrong-token")
	assert.ErrorIs(t, err, ErrRemovalNotPending)
	_, err = svc.ConfirmRemoval(ctx, other, "daily-building", "intercom", ticket.Token)
	assert.ErrorIs(t, err, ErrRemovalNotPending)
	_, err = svc.ConfirmRemoval(ctx, sess, "daily-building", "lobby-lighting", ticket.Token)
	assert.ErrorIs(t, err, ErrRemovalNotPending)

	c, err := svc.ConfirmRemoval(ctx, sess, "daily-building", "intercom", ticket.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{"intercom"}, c.RemovedItemIDs["lobby"])

	v, err = svc.View(ctx, sess, "daily-building")
	require.NoError(t, err)
	assert.NotContains(t, itemIDs(v, "lobby"), "intercom")

	d, err := repo.GetDraft(ctx, sess, "daily-building")
	require.NoError(t, err)
	_, kept := d.Responses["intercom"]
	assert.False(t, kept)
	assert.Contains(t, d.Responses, "sidewalks")

	// tokens are single use
	_, err = svc.ConfirmRemoval(ctx, sess, "daily-building", "intercom", ticket.Token)
	assert.ErrorIs(t, err, ErrRemovalNotPending)
}

func TestRemovingCustomItemDeletesIt(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	item, err := svc.AddItem(ctx, sess, "pool-amenities", formmodel.NewItem{SectionID: "gym", Label: "Treadmill belt"})
	require.NoError(t, err)

	ticket, err := svc.RequestRemoval(ctx, sess, "pool-amenities", item.ID, RemovalRequest{SectionID: "gym"})
	require.NoError(t, err)
	c, err := svc.ConfirmRemoval(ctx, sess, "pool-amenities", item.ID, ticket.Token)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCancelRemoval(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	ticket, err := svc.RequestRemoval(ctx, sess, "fire-safety", "exit-signs", RemovalRequest{})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CancelRemoval(ctx, other, "fire-safety", "exit-signs", ticket.Token), ErrRemovalNotPending)
	assert.ErrorIs(t, svc.CancelRemoval(ctx, sess, "daily-building", "exit-signs", ticket.Token), ErrRemovalNotPending)
	assert.ErrorIs(t, svc.CancelRemoval(ctx, sess, "fire-safety", "fire-doors", ticket.Token), ErrRemovalNotPending)

	require.NoError(t, svc.CancelRemoval(ctx, sess, "fire-safety", "exit-signs", ticket.Token))
	_, err = svc.ConfirmRemoval(ctx, sess, "fire-safety", "exit-signs", ticket.Token)
	assert.ErrorIs(t, err, ErrRemovalNotPending)

	// unknown tokens are ignored
	assert.NoError(t, svc.CancelRemoval(ctx, sess, "fire-safety", "exit-signs", "gone"))

	_, err = svc.RequestRemoval(ctx, sess, "fire-safety", "nope", RemovalRequest{})
	assert.ErrorIs(t, err, formmodel.ErrItemNotFound)
}

func TestConfirmRemovalConsumesTokenOnce(t *testing.T) {
	pending := utils.NewMemoryEphemeral()
	svc := NewService(store.NewMemory(), catalog.Default(), pending).WithClock(func() time.Time { return now })
	ctx := context.Background()

	ticket, err := svc.RequestRemoval(ctx, sess, "fire-safety", "exit-signs", RemovalRequest{})
	require.NoError(t, err)
	_, err = svc.ConfirmRemoval(ctx, sess, "fire-safety", "exit-signs", ticket.Token)
	require.NoError(t, err)

	_, ok, err := pending.Get(ctx, removalKey(ticket.Token))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpsertCustomItemMayReuseRemovedBaseID(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := repo.UpsertDraft(ctx, sess, models.Draft{FormID: "fire-safety", Responses: models.FormResponse{
		"exit-signs": {Value: models.BoolValue(false), Note: "sign dark"},
		"fire-doors": {Value: models.BoolValue(true)},
	}})
	require.NoError(t, err)

	req := UpsertRequest{
		CustomItems: map[string][]models.ChecklistItemDefinition{
			"egress": {{ID: "exit-signs", Label: "Exit sign battery (volts)", InputType: models.InputNumber}},
		},
		RemovedItems: map[string][]string{"egress": {"exit-signs"}},
	}
	c, err := svc.Upsert(ctx, sess, "fire-safety", req)
	require.NoError(t, err)
	require.Len(t, c.CustomItems["egress"], 1)

	v, err := svc.View(ctx, sess, "fire-safety")
	require.NoError(t, err)
	assert.Equal(t, []string{"emergency-lighting", "fire-doors", "exit-signs"}, itemIDs(v, "egress"))

	d, err := repo.GetDraft(ctx, sess, "fire-safety")
	require.NoError(t, err)
	assert.NotContains(t, d.Responses, "exit-signs", "the base item's answer does not carry over")
	assert.Contains(t, d.Responses, "fire-doors")

	// once the custom item exists its own answers survive further upserts
	_, err = repo.UpsertDraft(ctx, sess, models.Draft{FormID: "fire-safety", Responses: models.FormResponse{
		"exit-signs": {Value: models.NumberValue(8.9)},
	}})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, sess, "fire-safety", req)
	require.NoError(t, err)
	d, err = repo.GetDraft(ctx, sess, "fire-safety")
	require.NoError(t, err)
	assert.Equal(t, models.NumberValue(8.9), d.Responses["exit-signs"].Value)

	// without the removal the id still collides
	_, err = svc.Upsert(ctx, sess, "fire-safety", UpsertRequest{CustomItems: req.CustomItems})
	assert.ErrorIs(t, err, ErrInvalidCustomization)
}

func TestResetRestoresTemplateAndPrunesDraft(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	pristine, err := svc.View(ctx, sess, "mechanical-room")
	require.NoError(t, err)

	item, err := svc.AddItem(ctx, sess, "mechanical-room", formmodel.NewItem{SectionID: "pumps", Label: "Expansion tank"})
	require.NoError(t, err)
	_, err = repo.UpsertDraft(ctx, sess, models.Draft{FormID: "mechanical-room", Responses: models.FormResponse{
		item.ID:     {Value: models.BoolValue(true)},
		"circ-pump": {Value: models.ToggleOf(nil, "")},
	}})
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx, sess, "mechanical-room"))

	v, err := svc.View(ctx, sess, "mechanical-room")
	require.NoError(t, err)
	assert.Equal(t, pristine.Sections, v.Sections)

	d, err := repo.GetDraft(ctx, sess, "mechanical-room")
	require.NoError(t, err)
	assert.NotContains(t, d.Responses, item.ID)
	assert.Contains(t, d.Responses, "circ-pump")

	// resetting twice is harmless
	assert.NoError(t, svc.Reset(ctx, sess, "mechanical-room"))
}
