package service

import (
	"context"
	"strings"
	"time"

	"secret-santa-api/core/errors"
	"secret-santa-api/core/logger"
	"secret-santa-api/core/utils"
	"secret-santa-api/modules/assignment/dto"
	"secret-santa-api/modules/assignment/entity"
	"secret-santa-api/modules/assignment/repository"
	auditEntity "secret-santa-api/modules/audit/entity"
	auditService "secret-santa-api/modules/audit/service"
	authService "secret-santa-api/modules/auth/service"
	eventEntity "secret-santa-api/modules/event/entity"
	eventRepository "secret-santa-api/modules/event/repository"
	participantEntity "secret-santa-api/modules/participant/entity"
	participantRepository "secret-santa-api/modules/participant/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const noReceiverMessage = "Everyone else has already been drawn. An organizer can reactivate a participant or add more names."

// TxRunner runs a function inside a database transaction. Satisfied by
// database.Database; tests inject a pass-through.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(*sqlx.Tx) error) error
}

// AssignmentService coordinates reveals against the assignment ledger.
// All ledger mutations for an event run under the event's lock and inside
// a single transaction, so a reveal either fully lands or not at all.
type AssignmentService struct {
	repo            repository.AssignmentRepositoryInterface
	participantRepo participantRepository.ParticipantRepositoryInterface
	eventRepo       eventRepository.EventRepositoryInterface
	auth            authService.AuthServiceInterface
	audit           auditService.AuditServiceInterface
	engine          *Engine
	db              TxRunner
	locks           *utils.KeyedMutex
}

func NewAssignmentService(
	repo repository.AssignmentRepositoryInterface,
	participantRepo participantRepository.ParticipantRepositoryInterface,
	eventRepo eventRepository.EventRepositoryInterface,
	auth authService.AuthServiceInterface,
	audit auditService.AuditServiceInterface,
	engine *Engine,
	db TxRunner,
	locks *utils.KeyedMutex,
) *AssignmentService {
	return &AssignmentService{
		repo:            repo,
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		auth:            auth,
		audit:           audit,
		engine:          engine,
		db:              db,
		locks:           locks,
	}
}

// AssignmentServiceInterface defines the service contract.
type AssignmentServiceInterface interface {
	Reveal(ctx context.Context, eventID uuid.UUID, participantName string) (*dto.RevealResponse, *errors.AppError)
	ListAssignments(ctx context.Context, actorID, eventID uuid.UUID) (*dto.AssignmentListResponse, *errors.AppError)
	ClearAssignments(ctx context.Context, actorID, eventID uuid.UUID) (*dto.ClearAssignmentsResponse, *errors.AppError)
	PreviewAssignments(ctx context.Context, actorID, eventID uuid.UUID) (*dto.PreviewResponse, *errors.AppError)
}

// requireActiveEvent loads the event for the public reveal path. Inactive
// events are reported as not found, same as missing ones.
func (s *AssignmentService) requireActiveEvent(ctx context.Context, eventID uuid.UUID) (*eventEntity.Event, *errors.AppError) {
	event, err := s.eventRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to get event", err)
	}
	if event == nil || event.Status != eventEntity.EventStatusActive {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return event, nil
}

func (s *AssignmentService) requireManagedEvent(ctx context.Context, actorID, eventID uuid.UUID) (*eventEntity.Event, *errors.AppError) {
	event, err := s.eventRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	can, appErr := s.auth.CanManageEvent(ctx, actorID, eventID, event.CreatedBy)
	if appErr != nil {
		return nil, appErr
	}
	if !can {
		return nil, errors.NewAppError(errors.ErrForbidden, "You do not manage this event", nil)
	}
	return event, nil
}

// Reveal resolves the receiver for a participant. If the ledger already
// holds an entry for the giver it is replayed and the flag re-marked, so
// a reactivated participant always sees their original receiver.
// Otherwise a receiver is picked from the remaining pool and committed
// together with the flag in one transaction.
func (s *AssignmentService) Reveal(ctx context.Context, eventID uuid.UUID, participantName string) (*dto.RevealResponse, *errors.AppError) {
	name := strings.TrimSpace(participantName)
	if name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Participant name is required", nil)
	}

	if _, appErr := s.requireActiveEvent(ctx, eventID); appErr != nil {
		return nil, appErr
	}

	s.locks.Lock(eventID.String())
	defer s.locks.Unlock(eventID.String())

	participant, err := s.participantRepo.GetByEventAndName(ctx, eventID, name)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to get participant", err)
	}
	if participant == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Participant not found", nil)
	}

	existing, err := s.repo.GetByGiver(ctx, eventID, participant.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to read assignments", err)
	}

	if existing != nil {
		return s.replay(ctx, eventID, participant, existing)
	}

	roster, err := s.participantRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to list participants", err)
	}

	assignments, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to read assignments", err)
	}

	taken := make(map[uuid.UUID]bool, len(assignments))
	for _, a := range assignments {
		taken[a.ReceiverID] = true
	}

	receiver, pickErr := s.engine.PickReceiver(participant.ID, roster, taken)
	if pickErr != nil {
		return nil, errors.NewAppError(errors.ErrNoReceiverAvailable, noReceiverMessage, pickErr)
	}

	now := time.Now()
	appErr := s.commit(ctx, func(tx *sqlx.Tx) error {
		_, err := s.repo.Create(ctx, tx, &entity.Assignment{
			EventID:    eventID,
			GiverID:    participant.ID,
			ReceiverID: receiver.ID,
		})
		if err != nil {
			return err
		}
		return s.participantRepo.MarkRevealed(ctx, tx, participant.ID, now)
	})
	if appErr != nil {
		return nil, appErr
	}

	s.audit.Record(ctx, &eventID, nil, auditEntity.ActionReveal, map[string]interface{}{
		"participant": participant.Name,
	})

	return s.revealResponse(participant, receiver.Name, now, false), nil
}

// replay re-marks the flag and returns the recorded receiver.
func (s *AssignmentService) replay(ctx context.Context, eventID uuid.UUID, participant *participantEntity.Participant, existing *entity.Assignment) (*dto.RevealResponse, *errors.AppError) {
	receiver, err := s.participantRepo.GetByID(ctx, existing.ReceiverID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to get receiver", err)
	}
	if receiver == nil {
		logger.Error("AssignmentService:Replay:ReceiverMissing",
			"event_id", eventID.String(), "receiver_id", existing.ReceiverID.String())
		return nil, errors.NewAppError(errors.ErrInternalServer, "Assignment ledger is inconsistent", nil)
	}

	now := time.Now()
	appErr := s.commit(ctx, func(tx *sqlx.Tx) error {
		return s.participantRepo.MarkRevealed(ctx, tx, participant.ID, now)
	})
	if appErr != nil {
		return nil, appErr
	}

	s.audit.Record(ctx, &eventID, nil, auditEntity.ActionReveal, map[string]interface{}{
		"participant": participant.Name,
		"replayed":    true,
	})

	return s.revealResponse(participant, receiver.Name, now, true), nil
}

func (s *AssignmentService) revealResponse(participant *participantEntity.Participant, receiverName string, revealedAt time.Time, replayed bool) *dto.RevealResponse {
	return &dto.RevealResponse{
		Assignment: dto.AssignmentPair{
			Giver:    participant.Name,
			Receiver: receiverName,
		},
		Participant: dto.ParticipantState{
			ID:         participant.ID,
			Name:       participant.Name,
			IsRevealed: true,
			RevealedAt: &revealedAt,
		},
		Replayed: replayed,
	}
}

// ListAssignments returns the resolved ledger for organizers.
func (s *AssignmentService) ListAssignments(ctx context.Context, actorID, eventID uuid.UUID) (*dto.AssignmentListResponse, *errors.AppError) {
	if _, appErr := s.requireManagedEvent(ctx, actorID, eventID); appErr != nil {
		return nil, appErr
	}

	roster, err := s.participantRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list participants", err)
	}

	assignments, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list assignments", err)
	}

	names := make(map[uuid.UUID]string, len(roster))
	revealed := make([]string, 0, len(roster))
	for _, p := range roster {
		names[p.ID] = p.Name
		if p.IsRevealed {
			revealed = append(revealed, p.Name)
		}
	}

	resolved := make(map[string]string, len(assignments))
	for _, a := range assignments {
		giver, okGiver := names[a.GiverID]
		receiver, okReceiver := names[a.ReceiverID]
		if okGiver && okReceiver {
			resolved[giver] = receiver
		}
	}

	return &dto.AssignmentListResponse{
		Assignments:          resolved,
		RevealedParticipants: revealed,
		TotalAssignments:     len(assignments),
		TotalParticipants:    len(roster),
	}, nil
}

// ClearAssignments wipes the ledger and resets every reveal flag in one
// transaction. The next reveals start from a clean slate.
func (s *AssignmentService) ClearAssignments(ctx context.Context, actorID, eventID uuid.UUID) (*dto.ClearAssignmentsResponse, *errors.AppError) {
	if _, appErr := s.requireManagedEvent(ctx, actorID, eventID); appErr != nil {
		return nil, appErr
	}

	s.locks.Lock(eventID.String())
	defer s.locks.Unlock(eventID.String())

	var cleared int64
	appErr := s.commit(ctx, func(tx *sqlx.Tx) error {
		count, err := s.repo.DeleteAllByEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}
		cleared = count
		return s.participantRepo.ResetAllRevealed(ctx, tx, eventID)
	})
	if appErr != nil {
		return nil, appErr
	}

	s.audit.Record(ctx, &eventID, &actorID, auditEntity.ActionClearAssignments, map[string]interface{}{
		"cleared": cleared,
	})

	return &dto.ClearAssignmentsResponse{Cleared: cleared}, nil
}

// PreviewAssignments computes a hypothetical full derangement of the
// current roster without persisting anything.
func (s *AssignmentService) PreviewAssignments(ctx context.Context, actorID, eventID uuid.UUID) (*dto.PreviewResponse, *errors.AppError) {
	if _, appErr := s.requireManagedEvent(ctx, actorID, eventID); appErr != nil {
		return nil, appErr
	}

	roster, err := s.participantRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list participants", err)
	}

	names := make([]string, 0, len(roster))
	for _, p := range roster {
		names = append(names, p.Name)
	}

	deranged, genErr := s.engine.Generate(names)
	if genErr != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "At least two participants are required", genErr)
	}

	assignments := make(map[string]string, len(names))
	for i := range names {
		assignments[names[i]] = deranged[i]
	}

	return &dto.PreviewResponse{Assignments: assignments}, nil
}

// commit runs fn inside a transaction, rolling back on any error.
func (s *AssignmentService) commit(ctx context.Context, fn func(*sqlx.Tx) error) *errors.AppError {
	if err := s.db.RunInTx(ctx, fn); err != nil {
		return errors.NewAppError(errors.ErrStorageFailure, "Failed to commit assignment changes", err)
	}
	return nil
}
