package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"applytrack/internal/models"
	"applytrack/internal/repository"
	"applytrack/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResumeService(t *testing.T) (*ResumeService, *storage.BlobStore) {
	t.Helper()
	blobs, err := storage.NewBlobStore(t.TempDir())
	require.NoError(t, err)
	repo := repository.NewResumeRepository(newTestDB(t))
	return NewResumeService(repo, blobs, 1), blobs
}

func TestUploadResume(t *testing.T) {
	svc, blobs := newResumeService(t)
	ctx := context.Background()

	resume, err := svc.Upload(ctx, UploadResumeInput{
		UserID:      1,
		Filename:    "resume.txt",
		DisplayName: "  My Resume  ",
		Content:     []byte("experienced go engineer"),
	})
	require.NoError(t, err)

	assert.NotZero(t, resume.ID)
	assert.Equal(t, "resume.txt", resume.OriginalFilename)
	assert.NotEqual(t, "resume.txt", resume.StoredFilename)
	require.NotNil(t, resume.DisplayName)
	assert.Equal(t, "My Resume", *resume.DisplayName)
	assert.Equal(t, int64(23), resume.SizeBytes)
	assert.True(t, strings.HasPrefix(resume.ContentType, "text/plain"))
	assert.Equal(t, "/uploads/"+resume.StoredFilename, resume.URL)
	assert.True(t, blobs.Exists(resume.StoredFilename))
}

func TestUploadResumeValidation(t *testing.T) {
	svc, _ := newResumeService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		in       UploadResumeInput
		wantCode string
	}{
		{"no user", UploadResumeInput{Filename: "r.txt", Content: []byte("x")}, "VALIDATION_ERROR"},
		{"empty file", UploadResumeInput{UserID: 1, Filename: "r.txt"}, "VALIDATION_ERROR"},
		{"too large", UploadResumeInput{UserID: 1, Filename: "r.txt", Content: bytes.Repeat([]byte("x"), 2*1024*1024)}, "PAYLOAD_TOO_LARGE"},
		{"long filename", UploadResumeInput{UserID: 1, Filename: strings.Repeat("f", 300) + ".txt", Content: []byte("x")}, "VALIDATION_ERROR"},
		{"long display name", UploadResumeInput{UserID: 1, Filename: "r.txt", DisplayName: strings.Repeat("d", 121), Content: []byte("x")}, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, tt.in)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestListResumesScopedToOwner(t *testing.T) {
	svc, _ := newResumeService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadResumeInput{UserID: 1, Filename: "a.txt", Content: []byte("a")})
	require.NoError(t, err)
	_, err = svc.Upload(ctx, UploadResumeInput{UserID: 2, Filename: "b.txt", Content: []byte("b")})
	require.NoError(t, err)

	mine, err := svc.List(ctx, 1, 50, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "a.txt", mine[0].OriginalFilename)
	assert.NotEmpty(t, mine[0].URL)
}

func TestResumeContent(t *testing.T) {
	svc, _ := newResumeService(t)
	ctx := context.Background()

	text, err := svc.Upload(ctx, UploadResumeInput{
		UserID: 1, Filename: "r.txt", Content: []byte("go, sql, kubernetes"),
	})
	require.NoError(t, err)

	got, err := svc.Content(ctx, text.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "go, sql, kubernetes", got)

	// Binary uploads are stored fine but cannot be rendered as text.
	pdf, err := svc.Upload(ctx, UploadResumeInput{
		UserID: 1, Filename: "r.pdf", Content: []byte("%PDF-1.4\x00\x01\x02 binary"),
	})
	require.NoError(t, err)

	_, err = svc.Content(ctx, pdf.ID, 1)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNPROCESSABLE", appErr.Code)

	// Ownership scoping again yields not-found.
	_, err = svc.Content(ctx, text.ID, 2)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestDeleteResumeRemovesRowAndBlob(t *testing.T) {
	svc, blobs := newResumeService(t)
	ctx := context.Background()

	resume, err := svc.Upload(ctx, UploadResumeInput{
		UserID: 1, Filename: "r.txt", Content: []byte("x"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, resume.ID, 1))
	assert.False(t, blobs.Exists(resume.StoredFilename))

	list, err := svc.List(ctx, 1, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteResumeToleratesMissingBlob(t *testing.T) {
	svc, blobs := newResumeService(t)
	ctx := context.Background()

	resume, err := svc.Upload(ctx, UploadResumeInput{
		UserID: 1, Filename: "r.txt", Content: []byte("x"),
	})
	require.NoError(t, err)

	// The blob disappears out from under the row.
	require.NoError(t, blobs.Remove(resume.StoredFilename))

	assert.NoError(t, svc.Delete(ctx, resume.ID, 1))
}

func TestResolveBlobOnlyServesReferencedFiles(t *testing.T) {
	svc, blobs := newResumeService(t)
	ctx := context.Background()

	resume, err := svc.Upload(ctx, UploadResumeInput{
		UserID: 1, Filename: "r.txt", Content: []byte("served"),
	})
	require.NoError(t, err)

	content, contentType, err := svc.ResolveBlob(ctx, resume.StoredFilename)
	require.NoError(t, err)
	assert.Equal(t, []byte("served"), content)
	assert.True(t, strings.HasPrefix(contentType, "text/plain"))

	// A file in the upload dir without a row stays unreachable.
	orphan := storage.GenerateStoredName("orphan.txt")
	require.NoError(t, blobs.Write(orphan, []byte("hidden")))

	_, _, err = svc.ResolveBlob(ctx, orphan)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
