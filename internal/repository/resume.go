package repository

import (
	"context"
	"errors"

	"applytrack/internal/models"

	"gorm.io/gorm"
)

// ResumeRepository defines persistence operations for resume metadata rows.
type ResumeRepository interface {
	Create(ctx context.Context, resume *models.Resume) error
	GetByID(ctx context.Context, id, userID uint) (*models.Resume, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Resume, error)
	Delete(ctx context.Context, id, userID uint) error
	ExistsByStoredFilename(ctx context.Context, storedFilename string) (bool, error)
}

type resumeRepository struct {
	db *gorm.DB
}

// NewResumeRepository returns a new ResumeRepository implementation.
func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(ctx context.Context, resume *models.Resume) error {
	if err := r.db.WithContext(ctx).Create(resume).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *resumeRepository) GetByID(ctx context.Context, id, userID uint) (*models.Resume, error) {
	var resume models.Resume
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&resume).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Resume", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &resume, nil
}

func (r *resumeRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Resume, error) {
	if limit <= 0 {
		limit = 50
	}
	var resumes []*models.Resume
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&resumes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return resumes, nil
}

func (r *resumeRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Resume{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Resume", id)
	}
	return nil
}

// ExistsByStoredFilename reports whether any resume row references the stored
// filename. The blob route only serves referenced blobs.
func (r *resumeRepository) ExistsByStoredFilename(ctx context.Context, storedFilename string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Resume{}).
		Where("stored_filename = ?", storedFilename).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
