package server

import (
	"fmt"
	"time"

	"applytrack/internal/models"
	"applytrack/internal/service"

	"github.com/gofiber/fiber/v2"
)

type reminderRequest struct {
	EmailAddress string `json:"email_address"`
	Timing       string `json:"timing"`
}

func (r *reminderRequest) toInput() *service.ReminderInput {
	if r == nil {
		return nil
	}
	return &service.ReminderInput{
		EmailAddress: r.EmailAddress,
		Timing:       r.Timing,
	}
}

// CreatePosting handles POST /api/postings
func (s *Server) CreatePosting(c *fiber.Ctx) error {
	var req struct {
		Title       string           `json:"title"`
		Company     string           `json:"company"`
		Description string           `json:"description"`
		DueDate     *time.Time       `json:"due_date"`
		Status      string           `json:"status"`
		Reminder    *reminderRequest `json:"reminder"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	posting, err := s.postingService.Create(c.Context(), service.CreatePostingInput{
		UserID:      s.currentUserID(c),
		Title:       req.Title,
		Company:     req.Company,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
		Reminder:    req.Reminder.toInput(),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(posting)
}

// GetPostings handles GET /api/postings with optional ?status=, ?limit=, ?offset=
func (s *Server) GetPostings(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	postings, err := s.postingService.List(c.Context(), service.ListPostingsInput{
		UserID: s.currentUserID(c),
		Status: c.Query("status"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(postings)
}

// GetPosting handles GET /api/postings/:id
func (s *Server) GetPosting(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	posting, err := s.postingService.Get(c.Context(), id, s.currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posting)
}

// UpdatePosting handles PUT /api/postings/:id.  Absent fields are left
// unchanged; clear_due_date and clear_reminder remove the respective values.
func (s *Server) UpdatePosting(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title         *string          `json:"title"`
		Company       *string          `json:"company"`
		Description   *string          `json:"description"`
		DueDate       *time.Time       `json:"due_date"`
		ClearDueDate  bool             `json:"clear_due_date"`
		Status        *string          `json:"status"`
		Reminder      *reminderRequest `json:"reminder"`
		ClearReminder bool             `json:"clear_reminder"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID := s.currentUserID(c)

	posting, err := s.postingService.Update(c.Context(), service.UpdatePostingInput{
		UserID:      userID,
		PostingID:   id,
		Title:       req.Title,
		Company:     req.Company,
		Description: req.Description,
		DueDate:     req.DueDate,
		ClearDue:    req.ClearDueDate,
		Status:      req.Status,
		Reminder:    req.Reminder.toInput(),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	if req.ClearReminder && req.Reminder == nil {
		if err := s.postingService.RemoveReminder(c.Context(), id, userID); err != nil {
			return respondServiceError(c, err)
		}
		posting.Reminder = nil
	}

	return c.JSON(posting)
}

// DeletePosting handles DELETE /api/postings/:id
func (s *Server) DeletePosting(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postingService.Delete(c.Context(), id, s.currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Posting deleted",
	})
}

// ExportPostings handles GET /api/postings/export, streaming the caller's
// postings as a CSV attachment.
func (s *Server) ExportPostings(c *fiber.Ctx) error {
	postings, err := s.postingService.ListAll(c.Context(), s.currentUserID(c), c.Query("status"))
	if err != nil {
		return respondServiceError(c, err)
	}

	filename := fmt.Sprintf("postings-%s.csv", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	if err := service.WritePostingsCSV(c.Response().BodyWriter(), postings); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return nil
}
