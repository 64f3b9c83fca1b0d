package issues

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Backend-Inspectrack/src/models"
	"Backend-Inspectrack/src/store"
)

var sess = models.Session{BuildingID: "bld-1", UserID: "user-1"}

func newService(now *time.Time) *Service {
	return NewService(store.NewMemory()).WithClock(func() time.Time { return *now })
}

func TestCreateDefaults(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	svc := newService(&now)

	is, err := svc.Create(context.Background(), sess, CreateIssueRequest{Title: "  Leaking faucet  ", FormName: "Daily Building Walkthrough"})
	require.NoError(t, err)
	assert.Equal(t, "Leaking faucet", is.Title)
	assert.Equal(t, models.PriorityMedium, is.Priority)
	assert.Equal(t, models.IssueOpen, is.Status)
	assert.Equal(t, "To be determined", is.Location)
	assert.Equal(t, now, is.OpenedAt)
	assert.Nil(t, is.ClosedAt)
	assert.NotEmpty(t, is.ID)
}

func TestCreateValidation(t *testing.T) {
	now := time.Now()
	svc := newService(&now)

	_, err := svc.Create(context.Background(), sess, CreateIssueRequest{Title: " "})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Create(context.Background(), sess, CreateIssueRequest{Title: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrInvalidPriority)

	is, err := svc.Create(context.Background(), sess, CreateIssueRequest{Title: "x", Priority: "HIGH", Location: "Unit 4B"})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, is.Priority)
	assert.Equal(t, "Unit 4B", is.Location)
}

func TestResolveThenReopen(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	svc := newService(&now)

	is, err := svc.Create(ctx, sess, CreateIssueRequest{Title: "Broken handrail", Description: "stair B", Priority: "high"})
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	resolved, err := svc.UpdateStatus(ctx, sess, is.ID, "resolved")
	require.NoError(t, err)
	assert.Equal(t, models.IssueResolved, resolved.Status)
	require.NotNil(t, resolved.ClosedAt)
	assert.Equal(t, now, *resolved.ClosedAt)

	reopened, err := svc.UpdateStatus(ctx, sess, is.ID, "open")
	require.NoError(t, err)
	assert.Nil(t, reopened.ClosedAt)

	// every other field survives the round trip
	reopened.Status, reopened.ClosedAt = is.Status, is.ClosedAt
	assert.Equal(t, is, reopened)

	_, err = svc.UpdateStatus(ctx, sess, is.ID, "closed")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = svc.UpdateStatus(ctx, sess, is.ID, "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = svc.UpdateStatus(ctx, sess, "missing", "resolved")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListFilterAndClear(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	svc := newService(&now)

	a, _ := svc.Create(ctx, sess, CreateIssueRequest{Title: "a"})
	now = now.Add(time.Minute)
	_, _ = svc.Create(ctx, sess, CreateIssueRequest{Title: "b"})
	_, err := svc.UpdateStatus(ctx, sess, a.ID, "resolved")
	require.NoError(t, err)

	open, err := svc.List(ctx, sess, "open")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "b", open[0].Title)

	all, err := svc.List(ctx, sess, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.List(ctx, sess, "pending")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	n, err := svc.Clear(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
