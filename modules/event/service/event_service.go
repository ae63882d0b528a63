package service

import (
	"context"
	"strings"
	"time"

	"secret-santa-api/core/constants"
	"secret-santa-api/core/errors"
	"secret-santa-api/core/logger"
	"secret-santa-api/core/utils"
	auditEntity "secret-santa-api/modules/audit/entity"
	auditService "secret-santa-api/modules/audit/service"
	authService "secret-santa-api/modules/auth/service"
	"secret-santa-api/modules/event/dto"
	"secret-santa-api/modules/event/entity"
	"secret-santa-api/modules/event/repository"
	participantRepository "secret-santa-api/modules/participant/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// EventService handles event lifecycle business logic.
type EventService struct {
	repo            repository.EventRepositoryInterface
	participantRepo participantRepository.ParticipantRepositoryInterface
	auth            authService.AuthServiceInterface
	audit           auditService.AuditServiceInterface
}

func NewEventService(
	repo repository.EventRepositoryInterface,
	participantRepo participantRepository.ParticipantRepositoryInterface,
	auth authService.AuthServiceInterface,
	audit auditService.AuditServiceInterface,
) *EventService {
	return &EventService{
		repo:            repo,
		participantRepo: participantRepo,
		auth:            auth,
		audit:           audit,
	}
}

// EventServiceInterface defines the service contract.
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, actorID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	ListEvents(ctx context.Context, actorID uuid.UUID) ([]dto.EventResponse, *errors.AppError)
	GetEvent(ctx context.Context, actorID, eventID uuid.UUID) (*dto.EventDetailResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, actorID, eventID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	UpdateStatus(ctx context.Context, actorID, eventID uuid.UUID, status entity.EventStatus) (*dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, actorID, eventID uuid.UUID) *errors.AppError

	GetActiveEvent(ctx context.Context) (*dto.PublicEventResponse, *errors.AppError)
	GetPublicEvent(ctx context.Context, eventID uuid.UUID) (*dto.PublicEventResponse, *errors.AppError)

	FinishExpiredEvents(ctx context.Context) (int64, error)
}

func (s *EventService) requireManagedEvent(ctx context.Context, actorID, eventID uuid.UUID) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
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

// CreateEvent creates a draft event. Guests are capped by their quota.
func (s *EventService) CreateEvent(ctx context.Context, actorID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	user, appErr := s.auth.GetUserByID(ctx, actorID)
	if appErr != nil {
		return nil, appErr
	}

	if user.Role != constants.RoleAdmin {
		count, err := s.repo.CountEventsByCreator(ctx, actorID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to count events", err)
		}
		if count >= user.MaxEvents {
			return nil, errors.NewAppError(errors.ErrForbidden, "Event quota reached", nil)
		}
	}

	name := strings.TrimSpace(req.Name)
	event := &entity.Event{
		Name:        name,
		Description: req.Description,
		Date:        req.Date,
		Slug:        slug.Make(name) + "-" + utils.GenerateID(),
		Status:      entity.EventStatusDraft,
		CreatedBy:   actorID,
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create event", err)
	}

	s.audit.Record(ctx, &created.ID, &actorID, auditEntity.ActionEventCreated, map[string]interface{}{
		"name": created.Name,
	})

	return dto.ToEventResponse(created, 0), nil
}

// ListEvents returns the events the actor can manage, with roster sizes.
func (s *EventService) ListEvents(ctx context.Context, actorID uuid.UUID) ([]dto.EventResponse, *errors.AppError) {
	user, appErr := s.auth.GetUserByID(ctx, actorID)
	if appErr != nil {
		return nil, appErr
	}

	var (
		events []entity.EventWithCount
		err    error
	)
	if user.Role == constants.RoleAdmin {
		events, err = s.repo.ListEvents(ctx)
	} else {
		events, err = s.repo.ListEventsByCreator(ctx, actorID)
	}
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list events", err)
	}

	responses := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, *dto.ToEventResponse(&events[i].Event, events[i].ParticipantCount))
	}
	return responses, nil
}

// GetEvent returns the event with its full roster.
func (s *EventService) GetEvent(ctx context.Context, actorID, eventID uuid.UUID) (*dto.EventDetailResponse, *errors.AppError) {
	event, appErr := s.requireManagedEvent(ctx, actorID, eventID)
	if appErr != nil {
		return nil, appErr
	}

	participants, err := s.participantRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list participants", err)
	}

	summaries := make([]dto.ParticipantSummary, 0, len(participants))
	for _, p := range participants {
		summaries = append(summaries, dto.ParticipantSummary{
			ID:         p.ID,
			Name:       p.Name,
			Email:      p.Email,
			IsRevealed: p.IsRevealed,
			RevealedAt: p.RevealedAt,
		})
	}

	return &dto.EventDetailResponse{
		EventResponse: *dto.ToEventResponse(event, len(participants)),
		Participants:  summaries,
	}, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, actorID, eventID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	event, appErr := s.requireManagedEvent(ctx, actorID, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if event.Status == entity.EventStatusFinished {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Event is finished", nil)
	}

	event.Name = strings.TrimSpace(req.Name)
	event.Description = req.Description
	if req.Date != nil {
		event.Date = *req.Date
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update event", err)
	}

	return dto.ToEventResponse(event, 0), nil
}

func (s *EventService) UpdateStatus(ctx context.Context, actorID, eventID uuid.UUID, status entity.EventStatus) (*dto.EventResponse, *errors.AppError) {
	event, appErr := s.requireManagedEvent(ctx, actorID, eventID)
	if appErr != nil {
		return nil, appErr
	}

	if err := s.repo.UpdateStatus(ctx, eventID, status); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update event status", err)
	}
	event.Status = status

	return dto.ToEventResponse(event, 0), nil
}

func (s *EventService) DeleteEvent(ctx context.Context, actorID, eventID uuid.UUID) *errors.AppError {
	event, appErr := s.requireManagedEvent(ctx, actorID, eventID)
	if appErr != nil {
		return appErr
	}

	if err := s.repo.DeleteEvent(ctx, eventID); err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete event", err)
	}

	s.audit.Record(ctx, nil, &actorID, auditEntity.ActionEventDeleted, map[string]interface{}{
		"event_id": eventID.String(),
		"name":     event.Name,
	})
	return nil
}

func (s *EventService) toPublicResponse(ctx context.Context, event *entity.Event) (*dto.PublicEventResponse, *errors.AppError) {
	participants, err := s.participantRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list participants", err)
	}

	roster := make([]dto.PublicParticipant, 0, len(participants))
	for _, p := range participants {
		roster = append(roster, dto.PublicParticipant{
			Name:       p.Name,
			IsRevealed: p.IsRevealed,
		})
	}

	return &dto.PublicEventResponse{
		ID:           event.ID,
		Name:         event.Name,
		Description:  event.Description,
		Date:         event.Date,
		Slug:         event.Slug,
		Participants: roster,
	}, nil
}

// GetActiveEvent returns the most recent active event for the public page.
func (s *EventService) GetActiveEvent(ctx context.Context) (*dto.PublicEventResponse, *errors.AppError) {
	event, err := s.repo.GetActiveEvent(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to get active event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "No active event", nil)
	}
	return s.toPublicResponse(ctx, event)
}

// GetPublicEvent returns an event by id; only active events are visible.
func (s *EventService) GetPublicEvent(ctx context.Context, eventID uuid.UUID) (*dto.PublicEventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorageFailure, "Failed to get event", err)
	}
	if event == nil || event.Status != entity.EventStatusActive {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return s.toPublicResponse(ctx, event)
}

// FinishExpiredEvents marks active events whose date has passed as
// finished. Invoked by the periodic worker task.
func (s *EventService) FinishExpiredEvents(ctx context.Context) (int64, error) {
	count, err := s.repo.FinishExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info("EventService:FinishExpiredEvents", "finished", count)
	}
	return count, nil
}
