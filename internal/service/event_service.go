package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventbook/internal/domain"
	"eventbook/internal/repository"
	"eventbook/internal/validation"
)

// EventService covers event listing, search and the CRUD surface. Writes
// always return the joined representation, never a bare insert result.
type EventService interface {
	List(ctx context.Context, q domain.ListQuery) (*domain.ListResult, error)
	Search(ctx context.Context, term string) ([]domain.Event, error)
	Get(ctx context.Context, id int64) (*domain.Event, error)
	Create(ctx context.Context, form validation.EventForm) (*domain.Event, error)
	Update(ctx context.Context, id int64, form validation.EventForm) (*domain.Event, error)
	Delete(ctx context.Context, id int64) error
}

type eventService struct {
	events repository.EventRepository
	users  repository.UserRepository
}

func NewEventService(events repository.EventRepository, users repository.UserRepository) EventService {
	return &eventService{
		events: events,
		users:  users,
	}
}

func (s *eventService) List(ctx context.Context, q domain.ListQuery) (*domain.ListResult, error) {
	events, total, err := s.events.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &domain.ListResult{
		Events: events,
		Limit:  q.Limit,
		Offset: q.Offset,
		Total:  total,
	}, nil
}

func (s *eventService) Search(ctx context.Context, term string) ([]domain.Event, error) {
	return s.events.Search(ctx, strings.TrimSpace(term))
}

func (s *eventService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.events.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) Create(ctx context.Context, form validation.EventForm) (*domain.Event, error) {
	if violations := form.Validate(validation.Strict, time.Now().UTC()); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	if err := s.requireUser(ctx, *form.UserID); err != nil {
		return nil, err
	}

	start, err := validation.ParseDate(strings.TrimSpace(*form.StartDate))
	if err != nil {
		return nil, err
	}
	end, err := validation.ParseDate(strings.TrimSpace(*form.EndDate))
	if err != nil {
		return nil, err
	}

	event := &domain.Event{
		Title:       *form.Title,
		Description: form.Description,
		StartDate:   start,
		EndDate:     end,
		Location:    *form.Location,
		UserID:      *form.UserID,
	}
	id, err := s.events.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *eventService) Update(ctx context.Context, id int64, form validation.EventForm) (*domain.Event, error) {
	if violations := form.Validate(validation.Partial, time.Now().UTC()); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if form.UserID != nil {
		if err := s.requireUser(ctx, *form.UserID); err != nil {
			return nil, err
		}
	}

	patch := domain.EventPatch{
		Title:       form.Title,
		Description: form.Description,
		Location:    form.Location,
		UserID:      form.UserID,
	}
	if form.StartDate != nil {
		start, err := validation.ParseDate(strings.TrimSpace(*form.StartDate))
		if err != nil {
			return nil, err
		}
		patch.StartDate = &start
	}
	if form.EndDate != nil {
		end, err := validation.ParseDate(strings.TrimSpace(*form.EndDate))
		if err != nil {
			return nil, err
		}
		patch.EndDate = &end
	}
	if patch.Empty() {
		return nil, ErrNoFields
	}

	if err := s.events.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *eventService) Delete(ctx context.Context, id int64) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}

func (s *eventService) requireUser(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
