package server

import (
	"time"

	"applytrack/internal/models"
	"applytrack/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateEvent handles POST /api/events
func (s *Server) CreateEvent(c *fiber.Ctx) error {
	var req struct {
		Title       string     `json:"title"`
		StartDate   *time.Time `json:"start_date"`
		EndDate     *time.Time `json:"end_date"`
		Description string     `json:"description"`
		Color       string     `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	event, err := s.eventService.Create(c.Context(), service.CreateEventInput{
		UserID:      s.currentUserID(c),
		Title:       req.Title,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(event)
}

// GetEvents handles GET /api/events with optional ?from= and ?to= (RFC 3339)
// bounds on the event start date.
func (s *Server) GetEvents(c *fiber.Ctx) error {
	in := service.ListEventsInput{UserID: s.currentUserID(c)}

	if raw := c.Query("from"); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid from date"))
		}
		in.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid to date"))
		}
		in.To = &t
	}

	events, err := s.eventService.List(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(events)
}

// GetEvent handles GET /api/events/:id
func (s *Server) GetEvent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	event, err := s.eventService.Get(c.Context(), id, s.currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(event)
}

// UpdateEvent handles PUT /api/events/:id.  Absent fields are left unchanged;
// clear_end_date removes the end date.
func (s *Server) UpdateEvent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title        *string    `json:"title"`
		StartDate    *time.Time `json:"start_date"`
		EndDate      *time.Time `json:"end_date"`
		ClearEndDate bool       `json:"clear_end_date"`
		Description  *string    `json:"description"`
		Color        *string    `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	event, err := s.eventService.Update(c.Context(), service.UpdateEventInput{
		UserID:      s.currentUserID(c),
		EventID:     id,
		Title:       req.Title,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ClearEnd:    req.ClearEndDate,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(event)
}

// DeleteEvent handles DELETE /api/events/:id
func (s *Server) DeleteEvent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.eventService.Delete(c.Context(), id, s.currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Event deleted",
	})
}

// parseTimeParam accepts RFC 3339 timestamps or bare dates (2006-01-02).
func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
