package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"applytrack/internal/models"
	"applytrack/internal/repository"
	"applytrack/internal/storage"
	"applytrack/internal/validation"
)

// ResumeService owns resume upload, listing, content rendering, and deletion.
// The metadata row and the blob are not written atomically; Upload removes
// the blob best-effort when the insert fails, and Delete tolerates a blob
// that is already gone.
type ResumeService struct {
	resumeRepo repository.ResumeRepository
	blobs      *storage.BlobStore
	maxBytes   int64
}

// NewResumeService returns a ResumeService writing blobs through store.
func NewResumeService(resumeRepo repository.ResumeRepository, blobs *storage.BlobStore, maxUploadMB int) *ResumeService {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &ResumeService{
		resumeRepo: resumeRepo,
		blobs:      blobs,
		maxBytes:   int64(maxUploadMB) * 1024 * 1024,
	}
}

// UploadResumeInput carries an uploaded file and its metadata.
type UploadResumeInput struct {
	UserID      uint
	Filename    string
	DisplayName string
	Content     []byte
}

// Upload stores the file bytes and records the metadata row.
func (s *ResumeService) Upload(ctx context.Context, in UploadResumeInput) (*models.Resume, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxBytes {
		return nil, models.NewPayloadTooLargeError(fmt.Sprintf("File too large (max %dMB)", s.maxBytes/(1024*1024)))
	}
	if len(in.Filename) > validation.MaxFilenameLen {
		return nil, models.NewValidationError("Filename too long (max 255 characters)")
	}
	displayName := strings.TrimSpace(in.DisplayName)
	if len(displayName) > validation.MaxDisplayNameLen {
		return nil, models.NewValidationError("Display name too long (max 120 characters)")
	}

	storedName := storage.GenerateStoredName(in.Filename)
	if err := s.blobs.Write(storedName, in.Content); err != nil {
		return nil, models.NewInternalError(err)
	}

	resume := &models.Resume{
		UserID:           in.UserID,
		StoredFilename:   storedName,
		OriginalFilename: in.Filename,
		ContentType:      storage.SniffContentType(in.Content),
		SizeBytes:        int64(len(in.Content)),
	}
	if displayName != "" {
		resume.DisplayName = &displayName
	}

	if err := s.resumeRepo.Create(ctx, resume); err != nil {
		// Avoid an orphaned blob when the row never lands.
		_ = s.blobs.Remove(storedName)
		return nil, err
	}

	resume.URL = blobURL(storedName)
	return resume, nil
}

// List returns the caller's resumes newest first, with blob URLs filled in.
func (s *ResumeService) List(ctx context.Context, userID uint, limit, offset int) ([]*models.Resume, error) {
	resumes, err := s.resumeRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, r := range resumes {
		r.URL = blobURL(r.StoredFilename)
	}
	return resumes, nil
}

// Content returns the blob as plain text when it is text-typed. Binary
// formats (PDF, DOCX) are not parsed here; callers get an unprocessable
// error instead of garbage.
func (s *ResumeService) Content(ctx context.Context, id, userID uint) (string, error) {
	resume, err := s.resumeRepo.GetByID(ctx, id, userID)
	if err != nil {
		return "", err
	}

	content, readErr := s.blobs.Read(resume.StoredFilename)
	if readErr != nil {
		return "", models.NewNotFoundError("Resume", id)
	}

	detected := storage.SniffContentType(content)
	if !strings.HasPrefix(detected, "text/") || !utf8.Valid(content) {
		return "", models.NewUnprocessableError("Resume content is not extractable as text")
	}
	return string(content), nil
}

// Delete removes the metadata row, then the blob. A missing blob does not
// fail the delete.
func (s *ResumeService) Delete(ctx context.Context, id, userID uint) error {
	resume, err := s.resumeRepo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.resumeRepo.Delete(ctx, id, userID); err != nil {
		return err
	}
	if err := s.blobs.Remove(resume.StoredFilename); err != nil {
		// The row is gone; log-worthy but not a client-facing failure.
		return nil
	}
	return nil
}

// ResolveBlob returns the bytes and sniffed content type for a stored
// filename, but only when a resume row still references it.
func (s *ResumeService) ResolveBlob(ctx context.Context, storedName string) ([]byte, string, error) {
	referenced, err := s.resumeRepo.ExistsByStoredFilename(ctx, storedName)
	if err != nil {
		return nil, "", err
	}
	if !referenced {
		return nil, "", models.NewNotFoundError("File", storedName)
	}
	content, readErr := s.blobs.Read(storedName)
	if readErr != nil {
		return nil, "", models.NewNotFoundError("File", storedName)
	}
	return content, storage.SniffContentType(content), nil
}

func blobURL(storedName string) string {
	return "/uploads/" + storedName
}
