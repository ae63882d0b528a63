package service

import (
	"context"
	"strings"

	"secret-santa-api/core/errors"
	"secret-santa-api/core/utils"
	auditEntity "secret-santa-api/modules/audit/entity"
	auditService "secret-santa-api/modules/audit/service"
	authService "secret-santa-api/modules/auth/service"
	eventEntity "secret-santa-api/modules/event/entity"
	eventRepository "secret-santa-api/modules/event/repository"
	"secret-santa-api/modules/participant/dto"
	"secret-santa-api/modules/participant/entity"
	"secret-santa-api/modules/participant/repository"

	"github.com/google/uuid"
)

// ParticipantService manages the roster of an event.
type ParticipantService struct {
	repo      repository.ParticipantRepositoryInterface
	eventRepo eventRepository.EventRepositoryInterface
	auth      authService.AuthServiceInterface
	audit     auditService.AuditServiceInterface
	locks     *utils.KeyedMutex
}

func NewParticipantService(
	repo repository.ParticipantRepositoryInterface,
	eventRepo eventRepository.EventRepositoryInterface,
	auth authService.AuthServiceInterface,
	audit auditService.AuditServiceInterface,
	locks *utils.KeyedMutex,
) *ParticipantService {
	return &ParticipantService{
		repo:      repo,
		eventRepo: eventRepo,
		auth:      auth,
		audit:     audit,
		locks:     locks,
	}
}

// ParticipantServiceInterface defines the service contract.
type ParticipantServiceInterface interface {
	AddParticipant(ctx context.Context, actorID, eventID uuid.UUID, req *dto.AddParticipantRequest) (*dto.ParticipantResponse, *errors.AppError)
	ListParticipants(ctx context.Context, actorID, eventID uuid.UUID) (*dto.ParticipantListResponse, *errors.AppError)
	DeleteParticipant(ctx context.Context, actorID, eventID, participantID uuid.UUID) *errors.AppError
	ReactivateParticipant(ctx context.Context, actorID, eventID, participantID uuid.UUID) (*dto.ParticipantResponse, *errors.AppError)
}

// requireManagedEvent loads the event and checks the actor may manage it.
func (s *ParticipantService) requireManagedEvent(ctx context.Context, actorID, eventID uuid.UUID) (*eventEntity.Event, *errors.AppError) {
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

// AddParticipant adds a name to the roster. Participants can be added at
// any time before the event finishes, including after reveals started.
func (s *ParticipantService) AddParticipant(ctx context.Context, actorID, eventID uuid.UUID, req *dto.AddParticipantRequest) (*dto.ParticipantResponse, *errors.AppError) {
	event, appErr := s.requireManagedEvent(ctx, actorID, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if event.Status == eventEntity.EventStatusFinished {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Event is finished", nil)
	}

	name := strings.TrimSpace(req.Name)
	existing, err := s.repo.GetByEventAndName(ctx, eventID, name)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to check participant name", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "A participant with this name already exists", nil)
	}

	created, err := s.repo.Create(ctx, &entity.Participant{
		EventID: eventID,
		Name:    name,
		Email:   req.Email,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to add participant", err)
	}

	return dto.ToParticipantResponse(created), nil
}

func (s *ParticipantService) ListParticipants(ctx context.Context, actorID, eventID uuid.UUID) (*dto.ParticipantListResponse, *errors.AppError) {
	if _, appErr := s.requireManagedEvent(ctx, actorID, eventID); appErr != nil {
		return nil, appErr
	}

	participants, err := s.repo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list participants", err)
	}

	return dto.ToParticipantListResponse(participants), nil
}

func (s *ParticipantService) DeleteParticipant(ctx context.Context, actorID, eventID, participantID uuid.UUID) *errors.AppError {
	if _, appErr := s.requireManagedEvent(ctx, actorID, eventID); appErr != nil {
		return appErr
	}

	participant, err := s.repo.GetByID(ctx, participantID)
	if err != nil {
		return errors.NewAppError(errors.ErrStorageFailure, "Failed to get participant", err)
	}
	if participant == nil || participant.EventID != eventID {
		return errors.NewAppError(errors.ErrNotFound, "Participant not found", nil)
	}

	if err := s.repo.Delete(ctx, participantID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete participant", err)
	}
	return nil
}

// ReactivateParticipant clears the reveal flag so the participant can draw
// again. The assignment ledger is left untouched; a repeated reveal
// replays the recorded receiver. Serialized with reveals on the same event.
func (s *ParticipantService) ReactivateParticipant(ctx context.Context, actorID, eventID, participantID uuid.UUID) (*dto.ParticipantResponse, *errors.AppError) {
	if _, appErr := s.requireManagedEvent(ctx, actorID, eventID); appErr != nil {
		return nil, appErr
	}

	s.locks.Lock(eventID.String())
	defer s.locks.Unlock(eventID.String())

	participant, err := s.repo.GetByID(ctx, participantID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to get participant", err)
	}
	if participant == nil || participant.EventID != eventID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Participant not found", nil)
	}

	if participant.IsRevealed {
		if err := s.repo.ClearRevealed(ctx, participantID); err != nil {
			return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to reactivate participant", err)
		}
		participant.IsRevealed = false
		participant.RevealedAt = nil

		s.audit.Record(ctx, &eventID, &actorID, auditEntity.ActionReactivate, map[string]interface{}{
			"participant": participant.Name,
		})
	}

	return dto.ToParticipantResponse(participant), nil
}
