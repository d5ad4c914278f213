package server

import (
	"io"
	"strings"

	"applytrack/internal/models"
	"applytrack/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadResume handles POST /api/resumes (multipart form).  The file part may
// be named either "file" or "resume"; an optional "name" field sets the
// display name.
func (s *Server) UploadResume(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		file, err = c.FormFile("resume")
	}
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}

	resume, err := s.resumeService.Upload(c.Context(), service.UploadResumeInput{
		UserID:      s.currentUserID(c),
		Filename:    file.Filename,
		DisplayName: c.FormValue("name"),
		Content:     content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resume)
}

// GetResumes handles GET /api/resumes
func (s *Server) GetResumes(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	resumes, err := s.resumeService.List(c.Context(), s.currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(resumes)
}

// GetResumeContent handles GET /api/resumes/:id/content, returning the stored
// bytes as plain text when they decode as text.
func (s *Server) GetResumeContent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	text, err := s.resumeService.Content(c.Context(), id, s.currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.SendString(text)
}

// DeleteResume handles DELETE /api/resumes/:id
func (s *Server) DeleteResume(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.resumeService.Delete(c.Context(), id, s.currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Resume deleted",
	})
}

// ServeUpload handles GET /uploads/:file.  Only blobs referenced by a resume
// row are served; anything else in the upload directory stays unreachable.
func (s *Server) ServeUpload(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("file"))
	if name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid file name"))
	}

	content, contentType, err := s.resumeService.ResolveBlob(c.Context(), name)
	if err != nil {
		return respondServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(content)
}
