package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Backend-Inspectrack/src/models"
)

var (
	bldA = models.Session{BuildingID: "bld-a", UserID: "user-a"}
	bldB = models.Session{BuildingID: "bld-b", UserID: "user-b"}
	day  = time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)
)

func boolPtr(b bool) *bool { return &b }

// runContract exercises the behaviour every backend must share.
func runContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("DraftUpsertReplacesAndIsScoped", func(t *testing.T) {
		_, err := s.GetDraft(ctx, bldA, "fire-safety")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.UpsertDraft(ctx, bldA, models.Draft{
			FormID:    "fire-safety",
			UserID:    "user-a",
			Responses: models.FormResponse{"exit-signs": {Value: models.BoolValue(true)}},
			UpdatedAt: day,
		})
		require.NoError(t, err)

		_, err = s.UpsertDraft(ctx, bldA, models.Draft{
			FormID: "fire-safety",
			UserID: "user-a",
			Responses: models.FormResponse{
				"fire-pump": {Value: models.ToggleOf(boolPtr(false), "40"), Note: "no pressure"},
			},
			UpdatedAt: day.Add(time.Minute),
		})
		require.NoError(t, err)

		got, err := s.GetDraft(ctx, bldA, "fire-safety")
		require.NoError(t, err)
		assert.Len(t, got.Responses, 1)
		pump := got.Responses["fire-pump"]
		assert.Equal(t, models.KindToggle, pump.Value.Kind)
		require.NotNil(t, pump.Value.Toggle.Status)
		assert.False(t, *pump.Value.Toggle.Status)
		assert.Equal(t, "40", pump.Value.Toggle.Reading)
		assert.Equal(t, "no pressure", pump.Note)
		assert.True(t, got.UpdatedAt.Equal(day.Add(time.Minute)))

		_, err = s.GetDraft(ctx, bldB, "fire-safety")
		assert.ErrorIs(t, err, ErrNotFound, "other buildings must not see the draft")

		require.NoError(t, s.DeleteDraft(ctx, bldA, "fire-safety"))
		require.NoError(t, s.DeleteDraft(ctx, bldA, "fire-safety"))
		_, err = s.GetDraft(ctx, bldA, "fire-safety")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("MissingSessionRejected", func(t *testing.T) {
		_, err := s.ListIssues(ctx, models.Session{}, "")
		assert.ErrorIs(t, err, ErrNoSession)
		_, err = s.UpsertDraft(ctx, models.Session{}, models.Draft{FormID: "x"})
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("CustomizationRoundTrip", func(t *testing.T) {
		c, err := CustomizationOrEmpty(ctx, s, bldA, "mechanical-room")
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())

		c.CustomItems["pumps"] = []models.ChecklistItemDefinition{
			{ID: "custom-1", Label: "Expansion tank", InputType: models.InputPassFail, IsCustom: true},
		}
		c.RemovedItemIDs["air"] = []string{"ahu-belts"}
		c.LastUpdated = day
		_, err = s.UpsertCustomization(ctx, bldA, c)
		require.NoError(t, err)

		got, err := s.GetCustomization(ctx, bldA, "mechanical-room")
		require.NoError(t, err)
		assert.Equal(t, "bld-a", got.BuildingID)
		assert.Equal(t, "Expansion tank", got.CustomItems["pumps"][0].Label)
		assert.True(t, got.IsRemoved("air", "ahu-belts"))

		_, err = s.GetCustomization(ctx, bldB, "mechanical-room")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.DeleteCustomization(ctx, bldA, "mechanical-room"))
		c, err = CustomizationOrEmpty(ctx, s, bldA, "mechanical-room")
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())
	})

	t.Run("InspectionsFilterAndOrder", func(t *testing.T) {
		mk := func(id string, at time.Time) models.Inspection {
			return models.Inspection{
				ID: id, FormID: "daily-building", FormName: "Daily Building Walkthrough",
				CompletedAt: at, Status: models.InspectionCompleted, ItemsCount: 3,
				Responses: models.FormResponse{"sidewalks": {Value: models.BoolValue(true)}},
				Sections: []models.InspectionSection{{
					ID: "exterior", Title: "Exterior",
					Items: []models.ChecklistItemDefinition{{ID: "sidewalks", Label: "Sidewalks clear", InputType: models.InputPassFail}},
				}},
			}
		}
		for _, in := range []models.Inspection{
			mk("insp-1", day.Add(-24*time.Hour)),
			mk("insp-2", day),
			mk("insp-3", day.Add(3*time.Hour)),
		} {
			_, err := s.CreateInspection(ctx, bldA, in)
			require.NoError(t, err)
		}
		_, err := s.CreateInspection(ctx, bldB, mk("insp-b", day))
		require.NoError(t, err)

		_, err = s.CreateInspection(ctx, bldA, mk("insp-1", day))
		assert.ErrorIs(t, err, ErrDuplicate)

		all, err := s.ListInspections(ctx, bldA, models.InspectionFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "insp-3", all[0].ID)
		assert.Equal(t, "insp-1", all[2].ID)

		today, err := s.ListInspections(ctx, bldA, models.InspectionFilter{Date: day})
		require.NoError(t, err)
		require.Len(t, today, 2)
		assert.Equal(t, "insp-3", today[0].ID)
		assert.Equal(t, "insp-2", today[1].ID)

		got, err := s.GetInspection(ctx, bldA, "insp-2")
		require.NoError(t, err)
		assert.Equal(t, 3, got.ItemsCount)
		assert.True(t, got.Responses["sidewalks"].Value.Bool)
		require.Len(t, got.Sections, 1)
		assert.Equal(t, "Exterior", got.Sections[0].Title)
		assert.Equal(t, models.InputPassFail, got.Sections[0].Items[0].InputType)

		_, err = s.GetInspection(ctx, bldB, "insp-2")
		assert.ErrorIs(t, err, ErrNotFound)

		n, err := s.DeleteAllInspections(ctx, bldA)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		left, err := s.ListInspections(ctx, bldB, models.InspectionFilter{})
		require.NoError(t, err)
		assert.Len(t, left, 1)
	})

	t.Run("IssueStatusTransitions", func(t *testing.T) {
		is := models.Issue{
			ID: "iss-1", InspectionID: "insp-2", ItemID: "fire-pump",
			Title: "Suppression: Fire pump", Description: "no pressure", Location: "To be determined",
			Priority: models.PriorityMedium, Status: models.IssueOpen,
			FormName: "Fire & Life Safety", OpenedAt: day,
		}
		_, err := s.CreateIssue(ctx, bldA, is)
		require.NoError(t, err)
		is.ID, is.OpenedAt = "iss-2", day.Add(time.Hour)
		_, err = s.CreateIssue(ctx, bldA, is)
		require.NoError(t, err)

		closedAt := day.Add(2 * time.Hour)
		resolved, err := s.UpdateIssueStatus(ctx, bldA, "iss-1", models.IssueResolved, closedAt)
		require.NoError(t, err)
		assert.Equal(t, models.IssueResolved, resolved.Status)
		require.NotNil(t, resolved.ClosedAt)
		assert.True(t, resolved.ClosedAt.Equal(closedAt))
		assert.Equal(t, "Suppression: Fire pump", resolved.Title)

		open, err := s.ListIssues(ctx, bldA, models.IssueOpen)
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, "iss-2", open[0].ID)

		all, err := s.ListIssues(ctx, bldA, "")
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "iss-2", all[0].ID)

		reopened, err := s.UpdateIssueStatus(ctx, bldA, "iss-1", models.IssueOpen, day.Add(3*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, models.IssueOpen, reopened.Status)
		assert.Nil(t, reopened.ClosedAt)

		_, err = s.UpdateIssueStatus(ctx, bldB, "iss-1", models.IssueResolved, day)
		assert.ErrorIs(t, err, ErrNotFound)

		n, err := s.DeleteAllIssues(ctx, bldA)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("UsersByEmail", func(t *testing.T) {
		u := models.User{
			ID: "user-a", BuildingID: "bld-a", Email: " Super@Example.com ",
			Name: "Dana", Role: "superintendent", PasswordHash: "hash", CreatedAt: day,
		}
		_, err := s.CreateUser(ctx, u)
		require.NoError(t, err)

		u.ID = "user-dup"
		_, err = s.CreateUser(ctx, u)
		assert.ErrorIs(t, err, ErrDuplicate)

		got, err := s.FindUserByEmail(ctx, "super@example.com")
		require.NoError(t, err)
		assert.Equal(t, "user-a", got.ID)
		assert.Equal(t, "hash", got.PasswordHash)

		_, err = s.FindUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
