package service

import (
	"context"
	"testing"

	"applytrack/internal/models"
	"applytrack/internal/repository"
	"applytrack/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{
			name:  "frequency wins",
			text:  "golang golang golang kubernetes kubernetes docker",
			limit: 8,
			want:  []string{"golang", "kubernetes", "docker"},
		},
		{
			name:  "stopwords and short tokens dropped",
			text:  "the team will work with you on go and sql",
			limit: 8,
			want:  []string{"sql"},
		},
		{
			name:  "punctuation splits tokens",
			text:  "Python/Django, REST-APIs; PostgreSQL!",
			limit: 8,
			want:  []string{"python", "django", "rest", "apis", "postgresql"},
		},
		{
			name:  "limit caps the result",
			text:  "alpha bravo charlie delta echo",
			limit: 3,
			want:  []string{"alpha", "bravo", "charlie"},
		},
		{
			name:  "empty text",
			text:  "",
			limit: 8,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.text, tt.limit)
			assert.ElementsMatch(t, tt.want, got)
			if len(tt.want) > 0 {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTailor(t *testing.T) {
	db := newTestDB(t)
	postingRepo := repository.NewPostingRepository(db)
	resumeRepo := repository.NewResumeRepository(db)
	svc := NewTailorService(postingRepo, resumeRepo)
	ctx := context.Background()

	posting := &models.Posting{
		UserID:      1,
		Title:       "Backend Engineer",
		Company:     "Acme",
		Description: "golang kubernetes postgres grpc golang",
		Status:      models.StatusApplied,
	}
	require.NoError(t, postingRepo.Create(ctx, posting))

	blobs, err := storage.NewBlobStore(t.TempDir())
	require.NoError(t, err)
	resumeSvc := NewResumeService(resumeRepo, blobs, 1)
	resume, err := resumeSvc.Upload(ctx, UploadResumeInput{
		UserID: 1, Filename: "r.txt", Content: []byte("go engineer"),
	})
	require.NoError(t, err)

	result, err := svc.Tailor(ctx, 1, posting.ID, resume.ID)
	require.NoError(t, err)

	assert.Contains(t, result.Keywords, "golang")
	assert.Contains(t, result.Keywords, "backend")
	assert.LessOrEqual(t, len(result.Keywords), 8)
	assert.GreaterOrEqual(t, result.Score, 80)
	assert.LessOrEqual(t, result.Score, 100)
	assert.NotEmpty(t, result.TailoredResume)

	// Most frequent token leads.
	require.NotEmpty(t, result.Keywords)
	assert.Equal(t, "golang", result.Keywords[0])
}

func TestTailorOwnershipScoped(t *testing.T) {
	db := newTestDB(t)
	postingRepo := repository.NewPostingRepository(db)
	resumeRepo := repository.NewResumeRepository(db)
	svc := NewTailorService(postingRepo, resumeRepo)
	ctx := context.Background()

	posting := &models.Posting{
		UserID: 1, Title: "Engineer", Company: "Acme", Status: models.StatusApplied,
	}
	require.NoError(t, postingRepo.Create(ctx, posting))

	_, err := svc.Tailor(ctx, 2, posting.ID, 1)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
