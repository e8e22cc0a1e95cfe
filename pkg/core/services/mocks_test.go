package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jakechorley/event-planner/pkg/clients/sheetsclient"
	"github.com/jakechorley/event-planner/pkg/clients/socialclient"
	"github.com/jakechorley/event-planner/pkg/clients/ticketingclient"
	"github.com/jakechorley/event-planner/pkg/core/model"
	"github.com/jakechorley/event-planner/pkg/db"
)

var testOrg = model.Org{ID: "org-1", Slug: "night-club"}

// mockStore is an in-memory db.Database
type mockStore struct {
	mu         sync.Mutex
	volunteers map[string]db.Volunteer
	events     map[string]db.Event
	plannings  map[string]db.Planning
	workflows  map[string]db.Workflow

	savePlanningCalls   int
	updateWorkflowCalls int
	saveErr             error
}

var _ db.Database = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		volunteers: map[string]db.Volunteer{},
		events:     map[string]db.Event{},
		plannings:  map[string]db.Planning{},
		workflows:  map[string]db.Workflow{},
	}
}

func (m *mockStore) addVolunteer(id, name, email string) {
	m.volunteers[id] = db.Volunteer{ID: id, OrgID: testOrg.ID, Name: name, Kind: "volunteer", Email: email}
}

func (m *mockStore) addEvent(id, name string, startsAt time.Time, endTime string) {
	m.events[id] = db.Event{ID: id, OrgID: testOrg.ID, Name: name, StartsAt: startsAt, EndTime: endTime}
}

func (m *mockStore) ListVolunteers(ctx context.Context, org model.Org, filter db.VolunteerFilter) ([]db.Volunteer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []db.Volunteer
	for _, v := range m.volunteers {
		if filter.FavoritesOnly && !v.Favorite {
			continue
		}
		if filter.Kind != "" && v.Kind != filter.Kind {
			continue
		}
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Favorite != result[j].Favorite {
			return result[i].Favorite
		}
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

func (m *mockStore) GetVolunteer(ctx context.Context, org model.Org, id string) (*db.Volunteer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.volunteers[id]
	if !ok {
		return nil, fmt.Errorf("volunteer %s: %w", id, db.ErrNotFound)
	}
	return &v, nil
}

func (m *mockStore) InsertVolunteer(ctx context.Context, org model.Org, volunteer *db.Volunteer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	volunteer.OrgID = org.ID
	volunteer.CreatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.volunteers[volunteer.ID] = *volunteer
	return nil
}

func (m *mockStore) UpdateVolunteer(ctx context.Context, org model.Org, id string, patch db.VolunteerPatch) (*db.Volunteer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.volunteers[id]
	if !ok {
		return nil, fmt.Errorf("volunteer %s: %w", id, db.ErrNotFound)
	}
	if patch.Name != nil {
		v.Name = *patch.Name
	}
	if patch.Kind != nil {
		v.Kind = *patch.Kind
	}
	if patch.Favorite != nil {
		v.Favorite = *patch.Favorite
	}
	if patch.Phone != nil {
		v.Phone = *patch.Phone
	}
	if patch.Email != nil {
		v.Email = *patch.Email
	}
	if patch.Notes != nil {
		v.Notes = *patch.Notes
	}
	m.volunteers[id] = v
	return &v, nil
}

func (m *mockStore) ListEvents(ctx context.Context, org model.Org, filter db.EventFilter) ([]db.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []db.Event
	for _, e := range m.events {
		if filter.From != nil && e.StartsAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.StartsAt.After(*filter.To) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartsAt.Before(result[j].StartsAt) })
	return result, nil
}

func (m *mockStore) GetEvent(ctx context.Context, org model.Org, id string) (*db.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id, db.ErrNotFound)
	}
	return &e, nil
}

func (m *mockStore) InsertEvent(ctx context.Context, org model.Org, event *db.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	event.OrgID = org.ID
	m.events[event.ID] = *event
	return nil
}

func (m *mockStore) UpdateEvent(ctx context.Context, org model.Org, id string, patch db.EventPatch) (*db.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id, db.ErrNotFound)
	}
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.StartsAt != nil {
		e.StartsAt = *patch.StartsAt
	}
	if patch.EndTime != nil {
		e.EndTime = *patch.EndTime
	}
	if patch.Brief != nil {
		e.Brief = *patch.Brief
	}
	if patch.TicketingRef != nil {
		e.TicketingRef = *patch.TicketingRef
	}
	m.events[id] = e
	return &e, nil
}

func (m *mockStore) DeleteEvent(ctx context.Context, org model.Org, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, db.ErrNotFound)
	}
	delete(m.events, id)
	return nil
}

func (m *mockStore) GetPlanning(ctx context.Context, org model.Org, eventID string) (*db.Planning, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.plannings[eventID]
	if !ok {
		return nil, fmt.Errorf("planning %s: %w", eventID, db.ErrNotFound)
	}
	return &p, nil
}

func (m *mockStore) SavePlanning(ctx context.Context, org model.Org, planning *db.Planning) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.savePlanningCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	planning.OrgID = org.ID
	m.plannings[planning.EventID] = *planning
	return nil
}

func (m *mockStore) GetWorkflow(ctx context.Context, org model.Org, eventID string) (*db.Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workflows[eventID]
	if !ok {
		return nil, fmt.Errorf("workflow %s: %w", eventID, db.ErrNotFound)
	}
	return &w, nil
}

func (m *mockStore) UpdateWorkflow(ctx context.Context, org model.Org, eventID string, patch db.WorkflowPatch) (*db.Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateWorkflowCalls++
	if m.saveErr != nil {
		return nil, m.saveErr
	}

	w, ok := m.workflows[eventID]
	if !ok {
		w = db.Workflow{OrgID: org.ID, EventID: eventID, ActivePhase: string(model.PhasePreparation), Posts: []db.WorkflowPost{}}
	} else {
		// copy the maps so callers holding the previous record see no change
		w.Manual = copyFlags(w.Manual)
		w.Overrides = copyFlags(w.Overrides)
	}
	patch.ApplyTo(&w)
	m.workflows[eventID] = w
	return &w, nil
}

func copyFlags(flags map[string]bool) map[string]bool {
	out := make(map[string]bool, len(flags))
	for k, v := range flags {
		out[k] = v
	}
	return out
}

// mockPublisher records the published planning
type mockPublisher struct {
	published     *sheetsclient.PublishedPlanning
	spreadsheetID string
	err           error
}

func (m *mockPublisher) PublishPlanning(ctx context.Context, spreadsheetID string, planning *sheetsclient.PublishedPlanning) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.spreadsheetID = spreadsheetID
	m.published = planning
	return "Sat Jun 08 2024 - " + planning.EventName, nil
}

// mockMailer records sent emails and fails for addresses in failFor
type mockMailer struct {
	sent    map[string]string // to -> body
	failFor map[string]error
}

func (m *mockMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	if err, ok := m.failFor[to]; ok {
		return err
	}
	if m.sent == nil {
		m.sent = map[string]string{}
	}
	m.sent[to] = subject + "\n" + body
	return nil
}

// mockSheetReader returns fixed volunteer rows
type mockSheetReader struct {
	rows []sheetsclient.VolunteerRow
}

func (m *mockSheetReader) ListVolunteers(ctx context.Context, spreadsheetID, tab string) ([]sheetsclient.VolunteerRow, error) {
	return m.rows, nil
}

// mockTicketing returns a fixed summary
type mockTicketing struct {
	summary *ticketingclient.Summary
	err     error
	refs    []string
}

func (m *mockTicketing) Summary(ctx context.Context, ref string) (*ticketingclient.Summary, error) {
	m.refs = append(m.refs, ref)
	return m.summary, m.err
}

// mockSocial records published images
type mockSocial struct {
	published []string
	media     []socialclient.Media
	err       error
	limit     int
}

func (m *mockSocial) Publish(ctx context.Context, imageURL string, caption string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.published = append(m.published, imageURL+"|"+caption)
	return fmt.Sprintf("ig-%d", len(m.published)), nil
}

func (m *mockSocial) RecentMedia(ctx context.Context, limit int) ([]socialclient.Media, error) {
	m.limit = limit
	return m.media, m.err
}
