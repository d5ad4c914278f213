package server

import (
	"applytrack/internal/models"

	"github.com/gofiber/fiber/v2"
)

// TailorResume handles POST /api/tailor, matching a stored resume's text
// against a posting's description.
func (s *Server) TailorResume(c *fiber.Ctx) error {
	var req struct {
		PostingID uint `json:"posting_id"`
		ResumeID  uint `json:"resume_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PostingID == 0 || req.ResumeID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("posting_id and resume_id are required"))
	}

	result, err := s.tailorService.Tailor(c.Context(), s.currentUserID(c), req.PostingID, req.ResumeID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}
