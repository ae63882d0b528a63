package service

import (
	"context"
	"sync"
	"testing"
	"time"

	coreErrors "secret-santa-api/core/errors"
	"secret-santa-api/core/params"
	"secret-santa-api/core/utils"
	auditEntity "secret-santa-api/modules/audit/entity"
	authService "secret-santa-api/modules/auth/service"
	eventEntity "secret-santa-api/modules/event/entity"
	"secret-santa-api/modules/participant/dto"
	"secret-santa-api/modules/participant/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParticipantRepo struct {
	mu           sync.Mutex
	participants map[uuid.UUID]*entity.Participant
	order        []uuid.UUID
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[uuid.UUID]*entity.Participant)}
}

func (r *fakeParticipantRepo) Create(ctx context.Context, p *entity.Participant) (*entity.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := *p
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	r.participants[created.ID] = &created
	r.order = append(r.order, created.ID)
	cp := created
	return &cp, nil
}

func (r *fakeParticipantRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeParticipantRepo) GetByEventAndName(ctx context.Context, eventID uuid.UUID, name string) (*entity.Participant, error) {
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

func (r *fakeParticipantRepo) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Participant
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
	return nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*eventEntity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*eventEntity.Event)}
}

func (r *fakeEventRepo) add(status eventEntity.EventStatus) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.events[id] = &eventEntity.Event{ID: id, Name: "office party", Status: status}
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
	return nil
}

func (r *fakeEventRepo) DeleteEvent(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeEventRepo) FinishExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

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

func newService() (*ParticipantService, *fakeParticipantRepo, *fakeEventRepo, *fakeAudit) {
	participants := newFakeParticipantRepo()
	events := newFakeEventRepo()
	audit := &fakeAudit{}
	svc := NewParticipantService(participants, events, fakeAuth{}, audit, utils.NewKeyedMutex())
	return svc, participants, events, audit
}

func TestAddParticipant_DuplicateNameConflict(t *testing.T) {
	svc, _, events, _ := newService()
	eventID := events.add(eventEntity.EventStatusDraft)
	actor := uuid.New()

	_, appErr := svc.AddParticipant(context.Background(), actor, eventID, &dto.AddParticipantRequest{Name: "ana"})
	require.Nil(t, appErr)

	_, appErr = svc.AddParticipant(context.Background(), actor, eventID, &dto.AddParticipantRequest{Name: "ana"})
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrAlreadyExists, appErr.Code)
}

func TestAddParticipant_TrimsName(t *testing.T) {
	svc, _, events, _ := newService()
	eventID := events.add(eventEntity.EventStatusActive)
	actor := uuid.New()

	created, appErr := svc.AddParticipant(context.Background(), actor, eventID, &dto.AddParticipantRequest{Name: "  ana  "})
	require.Nil(t, appErr)
	assert.Equal(t, "ana", created.Name)
}

func TestAddParticipant_FinishedEventRejected(t *testing.T) {
	svc, _, events, _ := newService()
	eventID := events.add(eventEntity.EventStatusFinished)
	actor := uuid.New()

	_, appErr := svc.AddParticipant(context.Background(), actor, eventID, &dto.AddParticipantRequest{Name: "ana"})
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrInvalidInput, appErr.Code)
}

func TestAddParticipant_UnknownEvent(t *testing.T) {
	svc, _, _, _ := newService()
	actor := uuid.New()

	_, appErr := svc.AddParticipant(context.Background(), actor, uuid.New(), &dto.AddParticipantRequest{Name: "ana"})
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrNotFound, appErr.Code)
}

func TestReactivate_ClearsFlagAndRecordsAudit(t *testing.T) {
	svc, participants, events, audit := newService()
	eventID := events.add(eventEntity.EventStatusActive)
	actor := uuid.New()

	created, appErr := svc.AddParticipant(context.Background(), actor, eventID, &dto.AddParticipantRequest{Name: "ana"})
	require.Nil(t, appErr)

	require.NoError(t, participants.MarkRevealed(context.Background(), nil, created.ID, time.Now()))

	result, appErr := svc.ReactivateParticipant(context.Background(), actor, eventID, created.ID)
	require.Nil(t, appErr)
	assert.False(t, result.IsRevealed)
	assert.Nil(t, result.RevealedAt)
	assert.Contains(t, audit.actions, auditEntity.ActionReactivate)

	stored, err := participants.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsRevealed)
}

func TestReactivate_NotRevealedIsNoOp(t *testing.T) {
	svc, _, events, audit := newService()
	eventID := events.add(eventEntity.EventStatusActive)
	actor := uuid.New()

	created, appErr := svc.AddParticipant(context.Background(), actor, eventID, &dto.AddParticipantRequest{Name: "ana"})
	require.Nil(t, appErr)

	result, appErr := svc.ReactivateParticipant(context.Background(), actor, eventID, created.ID)
	require.Nil(t, appErr)
	assert.False(t, result.IsRevealed)
	assert.Empty(t, audit.actions, "no-op reactivation should not be recorded")
}

func TestDeleteParticipant_WrongEvent(t *testing.T) {
	svc, _, events, _ := newService()
	eventID := events.add(eventEntity.EventStatusActive)
	otherEventID := events.add(eventEntity.EventStatusActive)
	actor := uuid.New()

	created, appErr := svc.AddParticipant(context.Background(), actor, eventID, &dto.AddParticipantRequest{Name: "ana"})
	require.Nil(t, appErr)

	appErr = svc.DeleteParticipant(context.Background(), actor, otherEventID, created.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrNotFound, appErr.Code)
}

func TestListParticipants_OrderPreserved(t *testing.T) {
	svc, _, events, _ := newService()
	eventID := events.add(eventEntity.EventStatusActive)
	actor := uuid.New()

	for _, name := range []string{"ana", "bruno", "carla"} {
		_, appErr := svc.AddParticipant(context.Background(), actor, eventID, &dto.AddParticipantRequest{Name: name})
		require.Nil(t, appErr)
	}

	result, appErr := svc.ListParticipants(context.Background(), actor, eventID)
	require.Nil(t, appErr)
	require.Equal(t, 3, result.Total)
	assert.Equal(t, "ana", result.Participants[0].Name)
	assert.Equal(t, "bruno", result.Participants[1].Name)
	assert.Equal(t, "carla", result.Participants[2].Name)
}
