package service

import (
	"context"
	"strings"
	"time"

	"applytrack/internal/models"
	"applytrack/internal/observability"
	"applytrack/internal/repository"
	"applytrack/internal/validation"
)

// PostingService owns posting CRUD and reminder bookkeeping.
type PostingService struct {
	postingRepo repository.PostingRepository
	now         func() time.Time
}

// NewPostingService returns a PostingService backed by the given repository.
func NewPostingService(postingRepo repository.PostingRepository) *PostingService {
	return &PostingService{
		postingRepo: postingRepo,
		now:         time.Now,
	}
}

// ReminderInput is the optional reminder payload on posting create/update.
type ReminderInput struct {
	EmailAddress string `json:"email_address"`
	Timing       string `json:"timing"`
}

// CreatePostingInput carries the fields for creating a posting.
type CreatePostingInput struct {
	UserID      uint
	Title       string
	Company     string
	Description string
	DueDate     *time.Time
	Status      string
	Reminder    *ReminderInput
}

// UpdatePostingInput carries partial updates; nil fields are left unchanged.
type UpdatePostingInput struct {
	UserID      uint
	PostingID   uint
	Title       *string
	Company     *string
	Description *string
	DueDate     *time.Time
	ClearDue    bool
	Status      *string
	Reminder    *ReminderInput
}

// ListPostingsInput carries list filters.
type ListPostingsInput struct {
	UserID uint
	Status string
	Limit  int
	Offset int
}

// Create validates and persists a posting, with its reminder if given.
func (s *PostingService) Create(ctx context.Context, in CreatePostingInput) (*models.Posting, error) {
	title := strings.TrimSpace(in.Title)
	company := strings.TrimSpace(in.Company)

	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > validation.MaxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if company == "" {
		return nil, models.NewValidationError("Company is required")
	}
	if len(company) > validation.MaxCompanyLen {
		return nil, models.NewValidationError("Company too long (max 120 characters)")
	}
	if len(in.Description) > validation.MaxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 10000 characters)")
	}

	status := models.StatusInterested
	if in.Status != "" {
		parsed, err := models.ParsePostingStatus(in.Status)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		status = parsed
	}

	reminder, err := buildReminder(in.Reminder)
	if err != nil {
		return nil, err
	}

	posting := &models.Posting{
		UserID:      in.UserID,
		Title:       title,
		Company:     company,
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      status,
		Reminder:    reminder,
	}
	if err := s.postingRepo.Create(ctx, posting); err != nil {
		return nil, err
	}

	posting.DueState = posting.ComputeDueState(s.now())
	return posting, nil
}

// Get returns a single owned posting with its derived due state.
func (s *PostingService) Get(ctx context.Context, id, userID uint) (*models.Posting, error) {
	posting, err := s.postingRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	posting.DueState = posting.ComputeDueState(s.now())
	return posting, nil
}

// List returns the caller's postings newest first.
func (s *PostingService) List(ctx context.Context, in ListPostingsInput) ([]*models.Posting, error) {
	if in.Status != "" {
		if _, err := models.ParsePostingStatus(in.Status); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	postings, err := s.postingRepo.ListByUser(ctx, in.UserID, in.Status, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, p := range postings {
		p.DueState = p.ComputeDueState(now)
	}
	return postings, nil
}

const exportPageSize = 500

// ListAll pages through every posting the caller owns, for export.
func (s *PostingService) ListAll(ctx context.Context, userID uint, status string) ([]*models.Posting, error) {
	if status != "" {
		if _, err := models.ParsePostingStatus(status); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	now := s.now()
	var all []*models.Posting
	for offset := 0; ; offset += exportPageSize {
		page, err := s.postingRepo.ListByUser(ctx, userID, status, exportPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, p := range page {
			p.DueState = p.ComputeDueState(now)
		}
		all = append(all, page...)
		if len(page) < exportPageSize {
			break
		}
	}
	return all, nil
}

// Update applies the provided fields to an owned posting.
func (s *PostingService) Update(ctx context.Context, in UpdatePostingInput) (*models.Posting, error) {
	posting, err := s.postingRepo.GetByID(ctx, in.PostingID, in.UserID)
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
		posting.Title = title
	}
	if in.Company != nil {
		company := strings.TrimSpace(*in.Company)
		if company == "" {
			return nil, models.NewValidationError("Company is required")
		}
		if len(company) > validation.MaxCompanyLen {
			return nil, models.NewValidationError("Company too long (max 120 characters)")
		}
		posting.Company = company
	}
	if in.Description != nil {
		if len(*in.Description) > validation.MaxDescriptionLen {
			return nil, models.NewValidationError("Description too long (max 10000 characters)")
		}
		posting.Description = *in.Description
	}
	if in.ClearDue {
		posting.DueDate = nil
	} else if in.DueDate != nil {
		posting.DueDate = in.DueDate
	}
	if in.Status != nil {
		parsed, err := models.ParsePostingStatus(*in.Status)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if parsed != posting.Status {
			observability.PostingStatusChanges.WithLabelValues(string(parsed)).Inc()
		}
		posting.Status = parsed
	}

	if err := s.postingRepo.Update(ctx, posting); err != nil {
		return nil, err
	}

	if in.Reminder != nil {
		reminder, err := buildReminder(in.Reminder)
		if err != nil {
			return nil, err
		}
		reminder.PostingID = posting.ID
		if err := s.postingRepo.UpsertReminder(ctx, reminder); err != nil {
			return nil, err
		}
		posting.Reminder = reminder
	}

	posting.DueState = posting.ComputeDueState(s.now())
	return posting, nil
}

// RemoveReminder detaches the reminder from an owned posting.
func (s *PostingService) RemoveReminder(ctx context.Context, postingID, userID uint) error {
	if _, err := s.postingRepo.GetByID(ctx, postingID, userID); err != nil {
		return err
	}
	return s.postingRepo.DeleteReminder(ctx, postingID)
}

// Delete removes an owned posting and its reminder.
func (s *PostingService) Delete(ctx context.Context, id, userID uint) error {
	return s.postingRepo.Delete(ctx, id, userID)
}

// RefreshReminderGauge recomputes the reminders-due gauge.
func (s *PostingService) RefreshReminderGauge(ctx context.Context) error {
	count, err := s.postingRepo.CountDueReminders(ctx)
	if err != nil {
		return err
	}
	observability.RemindersDue.Set(float64(count))
	return nil
}

func buildReminder(in *ReminderInput) (*models.Reminder, error) {
	if in == nil {
		return nil, nil
	}
	if err := validation.ValidateEmail(in.EmailAddress); err != nil {
		return nil, models.NewValidationError("Reminder email: " + err.Error())
	}
	timing := models.TimingOneDay
	if in.Timing != "" {
		parsed, err := models.ParseReminderTiming(in.Timing)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		timing = parsed
	}
	return &models.Reminder{
		EmailAddress: in.EmailAddress,
		Timing:       timing,
	}, nil
}
