package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/event-planner/pkg/clients/integration"
	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/core/serialq"
	"github.com/jakechorley/event-planner/pkg/core/services"
	"github.com/jakechorley/event-planner/pkg/core/workflow"
	"github.com/jakechorley/event-planner/pkg/db"
)

// Fakes embed the interface so only the methods a test needs are implemented

type fakeVolunteers struct {
	VolunteerService
	gotOrg   model.Org
	gotInput services.VolunteerInput
	err      error
}

func (f *fakeVolunteers) Create(ctx context.Context, org model.Org, input services.VolunteerInput) (*model.Volunteer, error) {
	f.gotOrg = org
	f.gotInput = input
	if f.err != nil {
		return nil, f.err
	}
	return &model.Volunteer{ID: "vol-1", Name: input.Name, Kind: model.CanonicalKind(input.Kind)}, nil
}

func (f *fakeVolunteers) Get(ctx context.Context, org model.Org, id string) (*model.Volunteer, error) {
	return nil, fmt.Errorf("failed to get volunteer: volunteer %s: %w", id, db.ErrNotFound)
}

type fakeEvents struct {
	EventService
	gotFilter db.EventFilter
}

func (f *fakeEvents) List(ctx context.Context, org model.Org, filter db.EventFilter) ([]model.Event, error) {
	f.gotFilter = filter
	return []model.Event{{ID: "event-1", Name: "Summer Party"}}, nil
}

type assignCall struct {
	eventID, shift, volunteerID string
	post                        model.PostID
}

type fakePlannings struct {
	PlanningService
	assigned   []assignCall
	unassigned []assignCall
}

func (f *fakePlannings) Assign(ctx context.Context, org model.Org, eventID, shiftKey string, postID model.PostID, volunteerID string) (*model.Planning, error) {
	f.assigned = append(f.assigned, assignCall{eventID: eventID, shift: shiftKey, post: postID, volunteerID: volunteerID})
	p := model.NewPlanning(eventID)
	p.Assignments[shiftKey] = map[model.PostID][]string{postID: {volunteerID}}
	return p, nil
}

func (f *fakePlannings) Unassign(ctx context.Context, org model.Org, eventID, shiftKey string, postID model.PostID, volunteerID string) (*model.Planning, error) {
	f.unassigned = append(f.unassigned, assignCall{eventID: eventID, shift: shiftKey, post: postID, volunteerID: volunteerID})
	return model.NewPlanning(eventID), nil
}

func (f *fakePlannings) ExportCSV(ctx context.Context, org model.Org, eventID string, w io.Writer) error {
	_, err := io.WriteString(w, "shift,post,volunteers,count\n20:00,Entry,Sam,1\n")
	return err
}

type fakeWorkflows struct {
	WorkflowService
	gotPatch workflow.Patch
	gotStep  int
}

func (f *fakeWorkflows) Update(ctx context.Context, org model.Org, eventID string, patch workflow.Patch) (*services.WorkflowState, error) {
	f.gotPatch = patch
	w := model.NewWorkflow(eventID)
	patch.Apply(w)
	return &services.WorkflowState{Workflow: w}, nil
}

func (f *fakeWorkflows) AdvancePhase(ctx context.Context, org model.Org, eventID string) (*services.NavigationResult, error) {
	return &services.NavigationResult{WorkflowState: &services.WorkflowState{Workflow: model.NewWorkflow(eventID)}, Moved: false}, nil
}

func (f *fakeWorkflows) SelectStep(ctx context.Context, org model.Org, eventID string, idx int) (*services.NavigationResult, error) {
	f.gotStep = idx
	w := model.NewWorkflow(eventID)
	w.ActiveStep = idx
	return &services.NavigationResult{WorkflowState: &services.WorkflowState{Workflow: w}, Moved: true}, nil
}

type fakeIntegrations struct {
	IntegrationService
	err error
}

func (f *fakeIntegrations) PublishPlanning(ctx context.Context, org model.Org, eventID string) (*services.PublishPlanningResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.PublishPlanningResult{TabTitle: "Sat Jun 08 2024 - Summer Party"}, nil
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error {
	return f.err
}

type testServer struct {
	handler      http.Handler
	volunteers   *fakeVolunteers
	events       *fakeEvents
	plannings    *fakePlannings
	workflows    *fakeWorkflows
	integrations *fakeIntegrations
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		volunteers:   &fakeVolunteers{},
		events:       &fakeEvents{},
		plannings:    &fakePlannings{},
		workflows:    &fakeWorkflows{},
		integrations: &fakeIntegrations{},
	}
	server := NewServer(Dependencies{
		Volunteers:   ts.volunteers,
		Events:       ts.events,
		Plannings:    ts.plannings,
		Workflows:    ts.workflows,
		Integrations: ts.integrations,
		Health:       fakePinger{},
	}, zap.NewNop())
	ts.handler = server.Handler()
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerOrgID, "org-1")
	req.Header.Set(headerOrgSlug, "night-club")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) BaseResponse {
	t.Helper()
	var response BaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	return response
}

func TestOrgScope_RejectsMissingOrg(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Message, headerOrgID)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	down := NewServer(Dependencies{Health: fakePinger{err: errors.New("connection refused")}}, zap.NewNop())
	rec = httptest.NewRecorder()
	down.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &services.ValidationError{Field: "name", Message: "is required"}, http.StatusBadRequest},
		{"not found", fmt.Errorf("failed to get event: %w", db.ErrNotFound), http.StatusNotFound},
		{"not configured", fmt.Errorf("ticketing: %w", integration.ErrNotConfigured), http.StatusFailedDependency},
		{"unauthorized", fmt.Errorf("social: %w", integration.ErrUnauthorized), http.StatusFailedDependency},
		{"transient", &integration.TransientError{Service: "ticketing", StatusCode: 502, Err: errors.New("bad gateway")}, http.StatusServiceUnavailable},
		{"queue closed", serialq.ErrClosed, http.StatusServiceUnavailable},
		{"remote rejected", &integration.StatusError{Service: "social", StatusCode: 400, Body: "bad caption"}, http.StatusBadGateway},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"store failure", errors.New("connection reset by peer"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestCreateVolunteer(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/volunteers", `{"name":"Sam Diallo","kind":"member","email":"sam@example.com"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, model.Org{ID: "org-1", Slug: "night-club"}, ts.volunteers.gotOrg)
	assert.Equal(t, "Sam Diallo", ts.volunteers.gotInput.Name)
	assert.Equal(t, "sam@example.com", ts.volunteers.gotInput.Email)

	data := decode(t, rec).Data.(map[string]any)
	assert.Equal(t, "vol-1", data["id"])
	assert.Equal(t, "member", data["kind"])
}

func TestCreateVolunteer_ValidationError(t *testing.T) {
	ts := newTestServer(t)
	ts.volunteers.err = &services.ValidationError{Field: "name", Message: "is required"}

	rec := ts.do(t, http.MethodPost, "/api/v1/volunteers", `{"name":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name", decode(t, rec).Field)
}

func TestGetVolunteer_NotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/volunteers/ghost", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEvents_DateFilter(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/events?from=2024-06-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, ts.events.gotFilter.From)
	assert.Equal(t, "2024-06-01", ts.events.gotFilter.From.Format("2006-01-02"))
	assert.Nil(t, ts.events.gotFilter.To)

	rec = ts.do(t, http.MethodGet, "/api/v1/events?to=June", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignAndUnassign(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/v1/events/event-1/assignments", `{"shift":"21:00","post":"dj","volunteerId":"sam"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ts.plannings.assigned, 1)
	assert.Equal(t, assignCall{eventID: "event-1", shift: "21:00", post: model.PostDJ, volunteerID: "sam"}, ts.plannings.assigned[0])

	rec = ts.do(t, http.MethodDelete, "/api/v1/events/event-1/assignments?shift=21:00&post=dj&volunteerId=sam", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ts.plannings.unassigned, 1)
	assert.Equal(t, ts.plannings.assigned[0], ts.plannings.unassigned[0])
}

func TestExportCSV(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/events/event-1/planning/csv", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "planning-event-1.csv")
	assert.Contains(t, rec.Body.String(), "20:00,Entry,Sam,1")
}

func TestUpdateWorkflow(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPatch, "/api/v1/events/event-1/workflow", `{"manual":{"linktreeUpdated":true},"overrides":{"postsListed":true}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[model.ManualFlag]bool{model.ManualLinktreeUpdated: true}, ts.workflows.gotPatch.Manual)
	assert.Equal(t, map[model.Override]bool{model.OverridePostsListed: true}, ts.workflows.gotPatch.Overrides)
	assert.Nil(t, ts.workflows.gotPatch.ActivePhase)

	rec = ts.do(t, http.MethodPatch, "/api/v1/events/event-1/workflow", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkflowNavigation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/events/event-1/workflow/advance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec).Data.(map[string]any)
	assert.Equal(t, false, data["moved"])

	rec = ts.do(t, http.MethodPost, "/api/v1/events/event-1/workflow/select-step", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/events/event-1/workflow/select-step", `{"step":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, ts.workflows.gotStep)
	data = decode(t, rec).Data.(map[string]any)
	assert.Equal(t, true, data["moved"])
}

func TestPublishPlanning_IntegrationErrors(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/events/event-1/planning/publish", "")
	require.Equal(t, http.StatusOK, rec.Code)

	ts.integrations.err = fmt.Errorf("planning spreadsheet: %w", integration.ErrNotConfigured)
	rec = ts.do(t, http.MethodPost, "/api/v1/events/event-1/planning/publish", "")
	assert.Equal(t, http.StatusFailedDependency, rec.Code)
	assert.Equal(t, "configuration", decode(t, rec).Class)

	ts.integrations.err = &integration.TransientError{Service: "sheets", StatusCode: 503, Err: errors.New("backend error")}
	rec = ts.do(t, http.MethodPost, "/api/v1/events/event-1/planning/publish", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "transient", decode(t, rec).Class)
}
