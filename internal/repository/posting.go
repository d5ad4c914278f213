package repository

import (
	"context"
	"errors"

	"applytrack/internal/cache"
	"applytrack/internal/models"

	"gorm.io/gorm"
)

// PostingRepository defines persistence operations for postings. Every query
// carries the owner's user id; a posting owned by someone else is
// indistinguishable from a missing one.
type PostingRepository interface {
	Create(ctx context.Context, posting *models.Posting) error
	GetByID(ctx context.Context, id, userID uint) (*models.Posting, error)
	ListByUser(ctx context.Context, userID uint, status string, limit, offset int) ([]*models.Posting, error)
	Update(ctx context.Context, posting *models.Posting) error
	Delete(ctx context.Context, id, userID uint) error
	UpsertReminder(ctx context.Context, reminder *models.Reminder) error
	DeleteReminder(ctx context.Context, postingID uint) error
	CountDueReminders(ctx context.Context) (int64, error)
}

type postingRepository struct {
	db *gorm.DB
}

// NewPostingRepository returns a new PostingRepository implementation.
func NewPostingRepository(db *gorm.DB) PostingRepository {
	return &postingRepository{db: db}
}

func (r *postingRepository) Create(ctx context.Context, posting *models.Posting) error {
	if err := r.db.WithContext(ctx).Create(posting).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePostingList(ctx, posting.UserID)
	return nil
}

func (r *postingRepository) GetByID(ctx context.Context, id, userID uint) (*models.Posting, error) {
	var posting models.Posting
	err := r.db.WithContext(ctx).
		Preload("Reminder").
		Where("id = ? AND user_id = ?", id, userID).
		First(&posting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Posting", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &posting, nil
}

const defaultListLimit = 50

func (r *postingRepository) ListByUser(ctx context.Context, userID uint, status string, limit, offset int) ([]*models.Posting, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	fetch := func() ([]*models.Posting, error) {
		var postings []*models.Posting
		q := r.db.WithContext(ctx).
			Preload("Reminder").
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset)
		if status != "" {
			q = q.Where("status = ?", status)
		}
		if err := q.Find(&postings).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
		return postings, nil
	}

	// Only the default list shape is cached; filtered and paged reads go
	// straight to the database.
	if status != "" || offset != 0 || limit != defaultListLimit {
		return fetch()
	}

	var postings []*models.Posting
	err := cache.Aside(ctx, cache.PostingListKey(userID), &postings, cache.PostingListTTL, func() error {
		rows, err := fetch()
		if err != nil {
			return err
		}
		postings = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return postings, nil
}

func (r *postingRepository) Update(ctx context.Context, posting *models.Posting) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", posting.ID, posting.UserID).
		Select("Title", "Company", "Description", "DueDate", "Status").
		Updates(posting)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Posting", posting.ID)
	}
	cache.InvalidatePostingList(ctx, posting.UserID)
	return nil
}

func (r *postingRepository) Delete(ctx context.Context, id, userID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Posting{})
		if result.Error != nil {
			return models.NewInternalError(result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Posting", id)
		}
		if err := tx.Where("posting_id = ?", id).Delete(&models.Reminder{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidatePostingList(ctx, userID)
	return nil
}

// UpsertReminder replaces the posting's reminder record, if any.
func (r *postingRepository) UpsertReminder(ctx context.Context, reminder *models.Reminder) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("posting_id = ?", reminder.PostingID).Delete(&models.Reminder{}).Error; err != nil {
			return err
		}
		return tx.Create(reminder).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postingRepository) DeleteReminder(ctx context.Context, postingID uint) error {
	if err := r.db.WithContext(ctx).Where("posting_id = ?", postingID).Delete(&models.Reminder{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// CountDueReminders counts reminder records whose fire time has passed,
// feeding the reminders-due gauge.
func (r *postingRepository) CountDueReminders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reminder{}).
		Joins("JOIN postings ON postings.id = reminders.posting_id").
		Where("postings.due_date IS NOT NULL").
		Where(`postings.due_date <= CASE reminders.timing
			WHEN '3_days' THEN datetime('now', '+3 days')
			WHEN '1_week' THEN datetime('now', '+7 days')
			ELSE datetime('now', '+1 day') END`).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
