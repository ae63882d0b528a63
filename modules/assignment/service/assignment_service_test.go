package service

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	coreErrors "secret-santa-api/core/errors"
	"secret-santa-api/core/params"
	"secret-santa-api/core/utils"
	"secret-santa-api/modules/assignment/entity"
	auditEntity "secret-santa-api/modules/audit/entity"
	authService "secret-santa-api/modules/auth/service"
	eventEntity "secret-santa-api/modules/event/entity"
	participantEntity "secret-santa-api/modules/participant/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------- fakes

type fakeTxRunner struct{}

func (fakeTxRunner) RunInTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return fn(nil)
}

type fakeParticipantRepo struct {
	mu           sync.Mutex
	participants map[uuid.UUID]*participantEntity.Participant
	order        []uuid.UUID
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[uuid.UUID]*participantEntity.Participant)}
}

func (r *fakeParticipantRepo) add(eventID uuid.UUID, name string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.participants[id] = &participantEntity.Participant{ID: id, EventID: eventID, Name: name}
	r.order = append(r.order, id)
	return id
}

func (r *fakeParticipantRepo) Create(ctx context.Context, p *participantEntity.Participant) (*participantEntity.Participant, error) {
	id := r.add(p.EventID, p.Name)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.participants[id], nil
}

func (r *fakeParticipantRepo) GetByID(ctx context.Context, id uuid.UUID) (*participantEntity.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeParticipantRepo) GetByEventAndName(ctx context.Context, eventID uuid.UUID, name string) (*participantEntity.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.EventID == eventID && p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeParticipantRepo) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]participantEntity.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []participantEntity.Participant
	for _, id := range r.order {
		if p, ok := r.participants[id]; ok && p.EventID == eventID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeParticipantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.participants, id)
	return nil
}

func (r *fakeParticipantRepo) MarkRevealed(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, revealedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.participants[id]; ok {
		p.IsRevealed = true
		at := revealedAt
		p.RevealedAt = &at
	}
	return nil
}

func (r *fakeParticipantRepo) ClearRevealed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.participants[id]; ok {
		p.IsRevealed = false
		p.RevealedAt = nil
	}
	return nil
}

func (r *fakeParticipantRepo) ResetAllRevealed(ctx context.Context, tx *sqlx.Tx, eventID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.EventID == eventID {
			p.IsRevealed = false
			p.RevealedAt = nil
		}
	}
	return nil
}

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments []*entity.Assignment
}

func (r *fakeAssignmentRepo) GetByGiver(ctx context.Context, eventID, giverID uuid.UUID) (*entity.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assignments {
		if a.EventID == eventID && a.GiverID == giverID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAssignmentRepo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Assignment
	for _, a := range r.assignments {
		if a.EventID == eventID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, tx *sqlx.Tx, a *entity.Assignment) (*entity.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := *a
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	r.assignments = append(r.assignments, &created)
	cp := created
	return &cp, nil
}

func (r *fakeAssignmentRepo) DeleteAllByEvent(ctx context.Context, tx *sqlx.Tx, eventID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*entity.Assignment
	var removed int64
	for _, a := range r.assignments {
		if a.EventID == eventID {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	r.assignments = kept
	return removed, nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*eventEntity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*eventEntity.Event)}
}

func (r *fakeEventRepo) addActive() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.events[id] = &eventEntity.Event{ID: id, Name: "office party", Status: eventEntity.EventStatusActive}
	return id
}

func (r *fakeEventRepo) CreateEvent(ctx context.Context, e *eventEntity.Event) (*eventEntity.Event, error) {
	return e, nil
}

func (r *fakeEventRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*eventEntity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEventRepo) GetActiveEvent(ctx context.Context) (*eventEntity.Event, error) {
	return nil, nil
}

func (r *fakeEventRepo) ListEvents(ctx context.Context) ([]eventEntity.EventWithCount, error) {
	return nil, nil
}

func (r *fakeEventRepo) ListEventsByCreator(ctx context.Context, createdBy uuid.UUID) ([]eventEntity.EventWithCount, error) {
	return nil, nil
}

func (r *fakeEventRepo) CountEventsByCreator(ctx context.Context, createdBy uuid.UUID) (int, error) {
	return 0, nil
}

func (r *fakeEventRepo) UpdateEvent(ctx context.Context, e *eventEntity.Event) error { return nil }

func (r *fakeEventRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status eventEntity.EventStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.events[id]; ok {
		e.Status = status
	}
	return nil
}

func (r *fakeEventRepo) DeleteEvent(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeEventRepo) FinishExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

// fakeAuth grants everything; the embedded interface panics on anything
// else, which would flag an unexpected call.
type fakeAuth struct {
	authService.AuthServiceInterface
}

func (fakeAuth) CanManageEvent(ctx context.Context, userID, eventID, createdBy uuid.UUID) (bool, *coreErrors.AppError) {
	return true, nil
}

type fakeAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *fakeAudit) Record(ctx context.Context, eventID, actorID *uuid.UUID, action string, detail map[string]interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
}

func (a *fakeAudit) ListByEvent(ctx context.Context, eventID uuid.UUID, queryParams params.QueryParams) (*auditEntity.PaginatedAuditLogEntity, error) {
	return nil, nil
}

// ------------------------------------------------------------- helpers

type fixture struct {
	svc          *AssignmentService
	participants *fakeParticipantRepo
	assignments  *fakeAssignmentRepo
	events       *fakeEventRepo
	audit        *fakeAudit
	eventID      uuid.UUID
}

func newFixture(t *testing.T, seed int64, names ...string) *fixture {
	t.Helper()

	participants := newFakeParticipantRepo()
	assignments := &fakeAssignmentRepo{}
	events := newFakeEventRepo()
	audit := &fakeAudit{}

	eventID := events.addActive()
	for _, name := range names {
		participants.add(eventID, name)
	}

	svc := NewAssignmentService(
		assignments,
		participants,
		events,
		fakeAuth{},
		audit,
		NewEngine(rand.New(rand.NewSource(seed))),
		fakeTxRunner{},
		utils.NewKeyedMutex(),
	)

	return &fixture{
		svc:          svc,
		participants: participants,
		assignments:  assignments,
		events:       events,
		audit:        audit,
		eventID:      eventID,
	}
}

func (f *fixture) participantID(t *testing.T, name string) uuid.UUID {
	t.Helper()
	p, err := f.participants.GetByEventAndName(context.Background(), f.eventID, name)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.ID
}

// --------------------------------------------------------------- tests

func TestReveal_AssignsAndMarksRevealed(t *testing.T) {
	f := newFixture(t, 1, "ana", "bruno", "carla")

	result, appErr := f.svc.Reveal(context.Background(), f.eventID, "ana")
	require.Nil(t, appErr)

	assert.Equal(t, "ana", result.Assignment.Giver)
	assert.Contains(t, []string{"bruno", "carla"}, result.Assignment.Receiver)
	assert.False(t, result.Replayed)
	assert.True(t, result.Participant.IsRevealed)

	stored, err := f.participants.GetByEventAndName(context.Background(), f.eventID, "ana")
	require.NoError(t, err)
	assert.True(t, stored.IsRevealed)
	assert.NotNil(t, stored.RevealedAt)

	ledger, err := f.assignments.ListByEvent(context.Background(), f.eventID)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
}

func TestReveal_RepeatIsIdempotent(t *testing.T) {
	f := newFixture(t, 2, "ana", "bruno", "carla")

	first, appErr := f.svc.Reveal(context.Background(), f.eventID, "ana")
	require.Nil(t, appErr)

	second, appErr := f.svc.Reveal(context.Background(), f.eventID, "ana")
	require.Nil(t, appErr)

	assert.Equal(t, first.Assignment.Receiver, second.Assignment.Receiver)
	assert.True(t, second.Replayed)

	ledger, err := f.assignments.ListByEvent(context.Background(), f.eventID)
	require.NoError(t, err)
	assert.Len(t, ledger, 1, "replay must not add a second ledger entry")
}

func TestReveal_ReplayAfterReactivation(t *testing.T) {
	f := newFixture(t, 3, "ana", "bruno", "carla")

	first, appErr := f.svc.Reveal(context.Background(), f.eventID, "bruno")
	require.Nil(t, appErr)

	// organizer reactivates bruno
	id := f.participantID(t, "bruno")
	require.NoError(t, f.participants.ClearRevealed(context.Background(), id))

	second, appErr := f.svc.Reveal(context.Background(), f.eventID, "bruno")
	require.Nil(t, appErr)

	assert.Equal(t, first.Assignment.Receiver, second.Assignment.Receiver)
	assert.True(t, second.Replayed)

	stored, err := f.participants.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, stored.IsRevealed)
}

func TestReveal_ForcedLastPickClosesCycle(t *testing.T) {
	f := newFixture(t, 4, "ana", "bruno", "carla")
	ana := f.participantID(t, "ana")
	bruno := f.participantID(t, "bruno")
	carla := f.participantID(t, "carla")

	// ana -> bruno and bruno -> carla already in the ledger
	_, err := f.assignments.Create(context.Background(), nil, &entity.Assignment{EventID: f.eventID, GiverID: ana, ReceiverID: bruno})
	require.NoError(t, err)
	_, err = f.assignments.Create(context.Background(), nil, &entity.Assignment{EventID: f.eventID, GiverID: bruno, ReceiverID: carla})
	require.NoError(t, err)

	result, appErr := f.svc.Reveal(context.Background(), f.eventID, "carla")
	require.Nil(t, appErr)
	assert.Equal(t, "ana", result.Assignment.Receiver, "only ana is left as receiver")
}

func TestReveal_DeadEndReturnsNoReceiverAvailable(t *testing.T) {
	f := newFixture(t, 5, "ana", "bruno", "carla")
	ana := f.participantID(t, "ana")
	bruno := f.participantID(t, "bruno")

	// ana and bruno drew each other; carla can only draw herself
	_, err := f.assignments.Create(context.Background(), nil, &entity.Assignment{EventID: f.eventID, GiverID: ana, ReceiverID: bruno})
	require.NoError(t, err)
	_, err = f.assignments.Create(context.Background(), nil, &entity.Assignment{EventID: f.eventID, GiverID: bruno, ReceiverID: ana})
	require.NoError(t, err)

	_, appErr := f.svc.Reveal(context.Background(), f.eventID, "carla")
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrNoReceiverAvailable, appErr.Code)

	// nothing was committed for carla
	stored, err := f.participants.GetByEventAndName(context.Background(), f.eventID, "carla")
	require.NoError(t, err)
	assert.False(t, stored.IsRevealed)
	ledger, err := f.assignments.ListByEvent(context.Background(), f.eventID)
	require.NoError(t, err)
	assert.Len(t, ledger, 2)
}

func TestReveal_UnknownParticipant(t *testing.T) {
	f := newFixture(t, 6, "ana", "bruno")

	_, appErr := f.svc.Reveal(context.Background(), f.eventID, "nobody")
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrNotFound, appErr.Code)
}

func TestReveal_InactiveEventHidden(t *testing.T) {
	f := newFixture(t, 7, "ana", "bruno")
	require.NoError(t, f.events.UpdateStatus(context.Background(), f.eventID, eventEntity.EventStatusDraft))

	_, appErr := f.svc.Reveal(context.Background(), f.eventID, "ana")
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrNotFound, appErr.Code)
}

func TestReveal_BlankNameRejected(t *testing.T) {
	f := newFixture(t, 8, "ana", "bruno")

	_, appErr := f.svc.Reveal(context.Background(), f.eventID, "   ")
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrInvalidInput, appErr.Code)
}

func TestReveal_ConcurrentRevealsKeepInvariants(t *testing.T) {
	names := []string{"ana", "bruno", "carla", "diego", "elena", "franco"}
	f := newFixture(t, 9, names...)

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			_, appErr := f.svc.Reveal(context.Background(), f.eventID, n)
			if appErr != nil {
				// the only legal failure is a lazy dead-end
				assert.Equal(t, coreErrors.ErrNoReceiverAvailable, appErr.Code)
			}
		}(name)
	}
	wg.Wait()

	ledger, err := f.assignments.ListByEvent(context.Background(), f.eventID)
	require.NoError(t, err)

	givers := make(map[uuid.UUID]bool)
	receivers := make(map[uuid.UUID]bool)
	for _, a := range ledger {
		assert.NotEqual(t, a.GiverID, a.ReceiverID, "self-assignment")
		assert.False(t, givers[a.GiverID], "duplicate giver")
		assert.False(t, receivers[a.ReceiverID], "duplicate receiver")
		givers[a.GiverID] = true
		receivers[a.ReceiverID] = true
	}
}

func TestClearAssignments_WipesLedgerAndResetsRoster(t *testing.T) {
	names := []string{"ana", "bruno", "carla"}
	f := newFixture(t, 10, names...)

	for _, name := range names {
		_, appErr := f.svc.Reveal(context.Background(), f.eventID, name)
		if appErr != nil {
			require.Equal(t, coreErrors.ErrNoReceiverAvailable, appErr.Code)
		}
	}

	before, err := f.assignments.ListByEvent(context.Background(), f.eventID)
	require.NoError(t, err)
	require.NotEmpty(t, before)

	actor := uuid.New()
	result, appErr := f.svc.ClearAssignments(context.Background(), actor, f.eventID)
	require.Nil(t, appErr)
	assert.Equal(t, int64(len(before)), result.Cleared)

	after, err := f.assignments.ListByEvent(context.Background(), f.eventID)
	require.NoError(t, err)
	assert.Empty(t, after)

	roster, err := f.participants.ListByEventID(context.Background(), f.eventID)
	require.NoError(t, err)
	for _, p := range roster {
		assert.False(t, p.IsRevealed)
		assert.Nil(t, p.RevealedAt)
	}
}

func TestListAssignments_ResolvesNames(t *testing.T) {
	f := newFixture(t, 11, "ana", "bruno", "carla")

	_, appErr := f.svc.Reveal(context.Background(), f.eventID, "ana")
	require.Nil(t, appErr)

	actor := uuid.New()
	result, appErr := f.svc.ListAssignments(context.Background(), actor, f.eventID)
	require.Nil(t, appErr)

	assert.Equal(t, 1, result.TotalAssignments)
	assert.Equal(t, 3, result.TotalParticipants)
	assert.Equal(t, []string{"ana"}, result.RevealedParticipants)
	receiver, ok := result.Assignments["ana"]
	require.True(t, ok)
	assert.Contains(t, []string{"bruno", "carla"}, receiver)
}

func TestPreviewAssignments_FullDerangement(t *testing.T) {
	names := []string{"ana", "bruno", "carla", "diego"}
	f := newFixture(t, 12, names...)

	actor := uuid.New()
	result, appErr := f.svc.PreviewAssignments(context.Background(), actor, f.eventID)
	require.Nil(t, appErr)
	require.Len(t, result.Assignments, len(names))

	seen := make(map[string]bool)
	for giver, receiver := range result.Assignments {
		assert.NotEqual(t, giver, receiver)
		assert.False(t, seen[receiver], "receiver %s drawn twice", receiver)
		seen[receiver] = true
	}

	// nothing persisted
	ledger, err := f.assignments.ListByEvent(context.Background(), f.eventID)
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestPreviewAssignments_SingleParticipant(t *testing.T) {
	f := newFixture(t, 13, "solo")

	actor := uuid.New()
	_, appErr := f.svc.PreviewAssignments(context.Background(), actor, f.eventID)
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrInvalidInput, appErr.Code)
}
