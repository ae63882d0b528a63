package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"secret-santa-api/core/constants"
	coreErrors "secret-santa-api/core/errors"
	"secret-santa-api/core/params"
	auditEntity "secret-santa-api/modules/audit/entity"
	authEntity "secret-santa-api/modules/auth/entity"
	authService "secret-santa-api/modules/auth/service"
	"secret-santa-api/modules/event/dto"
	"secret-santa-api/modules/event/entity"
	participantEntity "secret-santa-api/modules/participant/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*entity.Event
	count  int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*entity.Event)}
}

func (r *fakeEventRepo) add(status entity.EventStatus, createdBy uuid.UUID) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.events[id] = &entity.Event{ID: id, Name: "office party", Status: status, CreatedBy: createdBy}
	return id
}

func (r *fakeEventRepo) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := *event
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	r.events[created.ID] = &created
	cp := created
	return &cp, nil
}

func (r *fakeEventRepo) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEventRepo) GetActiveEvent(ctx context.Context) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Status == entity.EventStatusActive {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeEventRepo) ListEvents(ctx context.Context) ([]entity.EventWithCount, error) {
	return nil, nil
}

func (r *fakeEventRepo) ListEventsByCreator(ctx context.Context, createdBy uuid.UUID) ([]entity.EventWithCount, error) {
	return nil, nil
}

func (r *fakeEventRepo) CountEventsByCreator(ctx context.Context, createdBy uuid.UUID) (int, error) {
	return r.count, nil
}

func (r *fakeEventRepo) UpdateEvent(ctx context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r *fakeEventRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.EventStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.events[id]; ok {
		e.Status = status
	}
	return nil
}

func (r *fakeEventRepo) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) FinishExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fakeParticipantRepo struct {
	mu           sync.Mutex
	participants []participantEntity.Participant
}

func (r *fakeParticipantRepo) add(eventID uuid.UUID, name string, revealed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := name + "@example.com"
	r.participants = append(r.participants, participantEntity.Participant{
		ID: uuid.New(), EventID: eventID, Name: name, Email: &email, IsRevealed: revealed,
	})
}

func (r *fakeParticipantRepo) Create(ctx context.Context, p *participantEntity.Participant) (*participantEntity.Participant, error) {
	return p, nil
}

func (r *fakeParticipantRepo) GetByID(ctx context.Context, id uuid.UUID) (*participantEntity.Participant, error) {
	return nil, nil
}

func (r *fakeParticipantRepo) GetByEventAndName(ctx context.Context, eventID uuid.UUID, name string) (*participantEntity.Participant, error) {
	return nil, nil
}

func (r *fakeParticipantRepo) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]participantEntity.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []participantEntity.Participant
	for _, p := range r.participants {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeParticipantRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeParticipantRepo) MarkRevealed(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, revealedAt time.Time) error {
	return nil
}

func (r *fakeParticipantRepo) ClearRevealed(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeParticipantRepo) ResetAllRevealed(ctx context.Context, tx *sqlx.Tx, eventID uuid.UUID) error {
	return nil
}

type fakeAuth struct {
	authService.AuthServiceInterface
	user *authEntity.User
}

func (a *fakeAuth) GetUserByID(ctx context.Context, id uuid.UUID) (*authEntity.User, *coreErrors.AppError) {
	return a.user, nil
}

func (a *fakeAuth) CanManageEvent(ctx context.Context, userID, eventID, createdBy uuid.UUID) (bool, *coreErrors.AppError) {
	return a.user.Role == constants.RoleAdmin || userID == createdBy, nil
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

func guest(maxEvents int) *authEntity.User {
	return &authEntity.User{ID: uuid.New(), Role: constants.RoleGuest, MaxEvents: maxEvents}
}

func newService(user *authEntity.User) (*EventService, *fakeEventRepo, *fakeParticipantRepo, *fakeAudit) {
	events := newFakeEventRepo()
	participants := &fakeParticipantRepo{}
	audit := &fakeAudit{}
	svc := NewEventService(events, participants, &fakeAuth{user: user}, audit)
	return svc, events, participants, audit
}

func TestCreateEvent_GuestQuotaEnforced(t *testing.T) {
	user := guest(2)
	svc, events, _, _ := newService(user)
	events.count = 2

	_, appErr := svc.CreateEvent(context.Background(), user.ID, &dto.CreateEventRequest{
		Name: "office party", Date: time.Now().AddDate(0, 1, 0),
	})
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrForbidden, appErr.Code)
}

func TestCreateEvent_AdminBypassesQuota(t *testing.T) {
	user := &authEntity.User{ID: uuid.New(), Role: constants.RoleAdmin, MaxEvents: 0}
	svc, events, _, audit := newService(user)
	events.count = 100

	created, appErr := svc.CreateEvent(context.Background(), user.ID, &dto.CreateEventRequest{
		Name: "Office Party 2026", Date: time.Now().AddDate(0, 1, 0),
	})
	require.Nil(t, appErr)
	assert.Equal(t, string(entity.EventStatusDraft), created.Status)
	assert.True(t, strings.HasPrefix(created.Slug, "office-party-2026-"))
	assert.Contains(t, audit.actions, auditEntity.ActionEventCreated)
}

func TestUpdateEvent_FinishedRejected(t *testing.T) {
	user := guest(5)
	svc, events, _, _ := newService(user)
	eventID := events.add(entity.EventStatusFinished, user.ID)

	_, appErr := svc.UpdateEvent(context.Background(), user.ID, eventID, &dto.UpdateEventRequest{Name: "renamed"})
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrInvalidInput, appErr.Code)
}

func TestGetEvent_ForbiddenForStranger(t *testing.T) {
	user := guest(5)
	svc, events, _, _ := newService(user)
	eventID := events.add(entity.EventStatusActive, uuid.New())

	_, appErr := svc.GetEvent(context.Background(), user.ID, eventID)
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrForbidden, appErr.Code)
}

func TestGetPublicEvent_HidesEmailsAndIDs(t *testing.T) {
	user := guest(5)
	svc, events, participants, _ := newService(user)
	eventID := events.add(entity.EventStatusActive, user.ID)
	participants.add(eventID, "ana", true)
	participants.add(eventID, "bruno", false)

	public, appErr := svc.GetPublicEvent(context.Background(), eventID)
	require.Nil(t, appErr)
	require.Len(t, public.Participants, 2)
	assert.Equal(t, "ana", public.Participants[0].Name)
	assert.True(t, public.Participants[0].IsRevealed)
	assert.False(t, public.Participants[1].IsRevealed)
}

func TestGetPublicEvent_DraftHidden(t *testing.T) {
	user := guest(5)
	svc, events, _, _ := newService(user)
	eventID := events.add(entity.EventStatusDraft, user.ID)

	_, appErr := svc.GetPublicEvent(context.Background(), eventID)
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrNotFound, appErr.Code)
}

func TestGetActiveEvent_NoneActive(t *testing.T) {
	user := guest(5)
	svc, events, _, _ := newService(user)
	events.add(entity.EventStatusDraft, user.ID)

	_, appErr := svc.GetActiveEvent(context.Background())
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrNotFound, appErr.Code)
}

func TestDeleteEvent_RecordsAudit(t *testing.T) {
	user := guest(5)
	svc, events, _, audit := newService(user)
	eventID := events.add(entity.EventStatusDraft, user.ID)

	appErr := svc.DeleteEvent(context.Background(), user.ID, eventID)
	require.Nil(t, appErr)
	assert.Contains(t, audit.actions, auditEntity.ActionEventDeleted)

	stored, err := events.GetEventByID(context.Background(), eventID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
