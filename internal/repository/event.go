package repository

import (
	"context"
	"errors"
	"time"

	"applytrack/internal/models"

	"gorm.io/gorm"
)

// EventRepository defines persistence operations for calendar events.
type EventRepository interface {
	Create(ctx context.Context, event *models.CalendarEvent) error
	GetByID(ctx context.Context, id, userID uint) (*models.CalendarEvent, error)
	ListByUser(ctx context.Context, userID uint, from, to *time.Time) ([]*models.CalendarEvent, error)
	Update(ctx context.Context, event *models.CalendarEvent) error
	Delete(ctx context.Context, id, userID uint) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository returns a new EventRepository implementation.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id, userID uint) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Event", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &event, nil
}

// ListByUser returns the user's events ordered by start date. The optional
// from/to bounds filter on start_date for month-view queries.
func (r *eventRepository) ListByUser(ctx context.Context, userID uint, from, to *time.Time) ([]*models.CalendarEvent, error) {
	var events []*models.CalendarEvent
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date ASC")
	if from != nil {
		q = q.Where("start_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("start_date < ?", *to)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *models.CalendarEvent) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", event.ID, event.UserID).
		Select("Title", "StartDate", "EndDate", "Description", "Color").
		Updates(event)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Event", event.ID)
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CalendarEvent{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Event", id)
	}
	return nil
}
