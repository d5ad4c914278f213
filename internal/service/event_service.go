package service

import (
	"context"
	"strings"
	"time"

	"applytrack/internal/models"
	"applytrack/internal/repository"
	"applytrack/internal/validation"
)

// EventService owns calendar event CRUD.
type EventService struct {
	eventRepo repository.EventRepository
}

// NewEventService returns an EventService backed by the given repository.
func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// CreateEventInput carries the fields for creating a calendar event.
type CreateEventInput struct {
	UserID      uint
	Title       string
	StartDate   *time.Time
	EndDate     *time.Time
	Description string
	Color       string
}

// UpdateEventInput carries partial updates; nil fields are left unchanged.
type UpdateEventInput struct {
	UserID      uint
	EventID     uint
	Title       *string
	StartDate   *time.Time
	EndDate     *time.Time
	ClearEnd    bool
	Description *string
	Color       *string
}

// ListEventsInput carries the optional start-date window.
type ListEventsInput struct {
	UserID uint
	From   *time.Time
	To     *time.Time
}

// Create validates and persists a calendar event.
func (s *EventService) Create(ctx context.Context, in CreateEventInput) (*models.CalendarEvent, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > validation.MaxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if in.StartDate == nil {
		return nil, models.NewValidationError("Start date is required")
	}
	if in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return nil, models.NewValidationError("End date must not be before start date")
	}
	if len(in.Description) > validation.MaxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 10000 characters)")
	}

	color := in.Color
	if color == "" {
		color = models.DefaultEventColor
	}
	if err := validation.ValidateEventColor(color); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	event := &models.CalendarEvent{
		UserID:      in.UserID,
		Title:       title,
		StartDate:   *in.StartDate,
		EndDate:     in.EndDate,
		Description: in.Description,
		Color:       color,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Get returns a single owned event.
func (s *EventService) Get(ctx context.Context, id, userID uint) (*models.CalendarEvent, error) {
	return s.eventRepo.GetByID(ctx, id, userID)
}

// List returns the caller's events, optionally windowed by start date.
func (s *EventService) List(ctx context.Context, in ListEventsInput) ([]*models.CalendarEvent, error) {
	return s.eventRepo.ListByUser(ctx, in.UserID, in.From, in.To)
}

// Update applies the provided fields to an owned event.
func (s *EventService) Update(ctx context.Context, in UpdateEventInput) (*models.CalendarEvent, error) {
	event, err := s.eventRepo.GetByID(ctx, in.EventID, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("Title is required")
		}
		if len(title) > validation.MaxTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		event.Title = title
	}
	if in.StartDate != nil {
		event.StartDate = *in.StartDate
	}
	if in.ClearEnd {
		event.EndDate = nil
	} else if in.EndDate != nil {
		event.EndDate = in.EndDate
	}
	if event.EndDate != nil && event.EndDate.Before(event.StartDate) {
		return nil, models.NewValidationError("End date must not be before start date")
	}
	if in.Description != nil {
		if len(*in.Description) > validation.MaxDescriptionLen {
			return nil, models.NewValidationError("Description too long (max 10000 characters)")
		}
		event.Description = *in.Description
	}
	if in.Color != nil {
		if err := validation.ValidateEventColor(*in.Color); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		event.Color = *in.Color
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes an owned event.
func (s *EventService) Delete(ctx context.Context, id, userID uint) error {
	return s.eventRepo.Delete(ctx, id, userID)
}
