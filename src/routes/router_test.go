package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Backend-Inspectrack/src/models"
	"Backend-Inspectrack/src/services/auth"
	"Backend-Inspectrack/src/store"
	"Backend-Inspectrack/src/utils"
)

var secret = []byte("test-secret")

type fakePDF struct{}

func (fakePDF) Render(_ context.Context, html []byte) ([]byte, error) {
	return append([]byte("%PDF-1.4\n"), html[:16]...), nil
}

type testServer struct {
	t   *testing.T
	app *fiber.App
}

func newTestServer(t *testing.T) (*testServer, store.Store) {
	t.Helper()
	mem := store.NewMemory()
	eph := utils.NewMemoryEphemeral()

	_, err := auth.NewService(mem, eph, secret, time.Hour).CreateUser(context.Background(), auth.CreateUserInput{
		BuildingID: "bld-1",
		Email:      "super@example.com",
		Name:       "Dana",
		Password:   "correct-horse",
	})
	require.NoError(t, err)

	app := NewApp(Deps{
		Store:          mem,
		Ephemeral:      eph,
		PDF:            fakePDF{},
		JWTSecret:      secret,
		JWTTTL:         time.Hour,
		AllowedOrigins: "*",
		AppBaseURL:     "https://inspect.example.com",
	})
	return &testServer{t: t, app: app}, mem
}

// do sends a request and decodes a JSON body into out when out is non-nil.
func (s *testServer) do(method, path, token string, body any, out any) int {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *testServer) login() string {
	s.t.Helper()
	var res auth.LoginResponse
	code := s.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "Super@Example.com", "password": "correct-horse",
	}, &res)
	require.Equal(s.t, http.StatusOK, code)
	require.NotEmpty(s.t, res.Token)
	return res.Token
}

func TestHealthAndAuthGate(t *testing.T) {
	s, _ := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var e models.ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/issues", "", nil, &e))
	assert.NotEmpty(t, e.Error)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/templates", "not-a-jwt", nil, nil))
}

func TestLogin(t *testing.T) {
	s, _ := newTestServer(t)

	t.Run("WrongPassword", func(t *testing.T) {
		var e models.ErrorResponse
		code := s.do(http.MethodPost, "/auth/login", "", map[string]string{
			"email": "super@example.com", "password": "nope",
		}, &e)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, auth.ErrInvalidCredentials.Error(), e.Error)
	})

	t.Run("MissingEmail", func(t *testing.T) {
		var e models.ErrorResponse
		code := s.do(http.MethodPost, "/auth/login", "", map[string]string{"password": "x"}, &e)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, e.Error, "email is required")
	})

	t.Run("LogoutRevokesToken", func(t *testing.T) {
		token := s.login()
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/templates", token, nil, nil))
		assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/auth/logout", token, nil, nil))
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/templates", token, nil, nil))
	})
}

func TestTemplates(t *testing.T) {
	s, _ := newTestServer(t)
	token := s.login()

	var list []models.FormTemplate
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/templates", token, nil, &list))
	assert.Len(t, list, 4)

	var lib []map[string]any
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/templates/library?label=boiler", token, nil, &lib))
	assert.Len(t, lib, 2)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/templates/library?label=nothing&exact=true", token, nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/templates/unknown-form", token, nil, nil))

	var view map[string]any
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/templates/daily-building/view", token, nil, &view))
	assert.Equal(t, "Daily Building Walkthrough", view["name"])
}

func TestDraftSubmitAndIssues(t *testing.T) {
	s, _ := newTestServer(t)
	token := s.login()

	draft := map[string]any{
		"responses": map[string]any{
			"entrance-doors": map[string]any{"value": false, "note": "closer broken"},
			"intercom":       map[string]any{"value": true},
		},
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/drafts/daily-building", token, draft, nil))

	var patched models.Draft
	require.Equal(t, http.StatusOK, s.do(http.MethodPatch, "/drafts/daily-building/items/sidewalks", token,
		map[string]any{"value": true}, &patched))
	assert.Len(t, patched.Responses, 3)

	var progress map[string]any
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/drafts/daily-building/progress", token, nil, &progress))
	assert.EqualValues(t, 1, progress["issueCount"])

	var sub struct {
		Inspection models.Inspection `json:"inspection"`
		Issues     []models.Issue    `json:"issues"`
	}
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/forms/daily-building/submit", token, nil, &sub))
	assert.Equal(t, models.InspectionIssues, sub.Inspection.Status)
	require.Len(t, sub.Issues, 1)
	assert.Equal(t, "Lobby & Entrances: Entrance doors close and latch", sub.Issues[0].Title)

	var after models.Draft
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/drafts/daily-building", token, nil, &after))
	assert.Empty(t, after.Responses, "draft is cleared after submit")

	var open []models.Issue
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/issues?status=open", token, nil, &open))
	require.Len(t, open, 1)

	var resolved models.Issue
	require.Equal(t, http.StatusOK, s.do(http.MethodPatch, "/issues/"+open[0].ID, token,
		map[string]string{"status": "resolved"}, &resolved))
	assert.Equal(t, models.IssueResolved, resolved.Status)
	assert.NotNil(t, resolved.ClosedAt)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPatch, "/issues/"+open[0].ID, token,
		map[string]string{"status": "closed"}, nil))
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/issues?status=pending", token, nil, nil))

	var list []models.Inspection
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/inspections", token, nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/inspections?date=19-10-2026", token, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/inspections/"+list[0].ID+"/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inspection-"+list[0].ID+".pdf")

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/inspections/missing", token, nil, nil))
}

func TestBuildingsAreIsolated(t *testing.T) {
	s, mem := newTestServer(t)
	token := s.login()

	other, _, err := utils.GenerateJWT(secret, "bld-2", "user-2", time.Hour, time.Now())
	require.NoError(t, err)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/issues", token,
		map[string]string{"title": "Leak in boiler room"}, nil))

	var mine, theirs []models.Issue
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/issues", token, nil, &mine))
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/issues", other, nil, &theirs))
	assert.Len(t, mine, 1)
	assert.Empty(t, theirs)

	n, err := mem.DeleteAllIssues(context.Background(), models.Session{BuildingID: "bld-2", UserID: "user-2"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCustomizationRemovalFlow(t *testing.T) {
	s, _ := newTestServer(t)
	token := s.login()

	var added models.ChecklistItemDefinition
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/template-customizations/pool-amenities/items", token,
		map[string]any{"sectionId": "pool", "label": "Pool chlorine"}, &added))
	assert.True(t, added.IsCustom)
	assert.Equal(t, models.InputNumber, added.InputType)
	assert.Equal(t, "ppm", added.Unit)

	var ticket map[string]any
	require.Equal(t, http.StatusAccepted, s.do(http.MethodPost,
		"/template-customizations/pool-amenities/items/"+added.ID+"/removal", token, nil, &ticket))
	tok, _ := ticket["token"].(string)
	require.NotEmpty(t, tok)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodDelete,
		"/template-customizations/pool-amenities/items/"+added.ID, token, nil, nil), "token is required")
	assert.Equal(t, http.StatusConflict, s.do(http.MethodDelete,
		"/template-customizations/pool-amenities/items/"+added.ID+"?token=bogus", token, nil, nil))

	var c models.TemplateCustomization
	require.Equal(t, http.StatusOK, s.do(http.MethodDelete,
		"/template-customizations/pool-amenities/items/"+added.ID+"?token="+tok, token, nil, &c))
	assert.Empty(t, c.CustomItems["pool"])

	assert.Equal(t, http.StatusConflict, s.do(http.MethodDelete,
		"/template-customizations/pool-amenities/items/"+added.ID+"?token="+tok, token, nil, nil), "tokens are single use")

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/template-customizations/pool-amenities", token, nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/template-customizations/nope/items", token,
		map[string]any{"sectionId": "pool", "label": "x"}, nil))
}

func TestCancelRemovalIsScopedToItsTicket(t *testing.T) {
	s, _ := newTestServer(t)
	token := s.login()
	other, _, err := utils.GenerateJWT(secret, "bld-2", "user-2", time.Hour, time.Now())
	require.NoError(t, err)

	var ticket map[string]any
	require.Equal(t, http.StatusAccepted, s.do(http.MethodPost,
		"/template-customizations/fire-safety/items/exit-signs/removal", token, nil, &ticket))
	tok, _ := ticket["token"].(string)
	require.NotEmpty(t, tok)

	assert.Equal(t, http.StatusConflict, s.do(http.MethodDelete,
		"/template-customizations/fire-safety/items/fire-doors/removal?token="+tok, token, nil, nil))
	assert.Equal(t, http.StatusConflict, s.do(http.MethodDelete,
		"/template-customizations/fire-safety/items/exit-signs/removal?token="+tok, other, nil, nil))

	// the ticket survived both attempts
	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete,
		"/template-customizations/fire-safety/items/exit-signs/removal?token="+tok, token, nil, nil))
	assert.Equal(t, http.StatusConflict, s.do(http.MethodDelete,
		"/template-customizations/fire-safety/items/exit-signs?token="+tok, token, nil, nil))
}
