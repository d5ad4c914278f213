package service

import (
	"context"
	"testing"
	"time"

	"applytrack/internal/cache"
	"applytrack/internal/models"
	"applytrack/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostingService(t *testing.T) (*PostingService, repository.PostingRepository) {
	t.Helper()
	repo := repository.NewPostingRepository(newTestDB(t))
	return NewPostingService(repo), repo
}

func strPtr(s string) *string { return &s }

func TestCreatePostingDefaults(t *testing.T) {
	svc, _ := newPostingService(t)
	ctx := context.Background()

	posting, err := svc.Create(ctx, CreatePostingInput{
		UserID:  1,
		Title:   "  Backend Engineer  ",
		Company: "Acme",
	})
	require.NoError(t, err)

	assert.NotZero(t, posting.ID)
	assert.Equal(t, "Backend Engineer", posting.Title)
	assert.Equal(t, models.StatusInterested, posting.Status)
	assert.Equal(t, models.DueStateNone, posting.DueState)
	assert.Nil(t, posting.Reminder)
}

func TestCreatePostingValidation(t *testing.T) {
	svc, _ := newPostingService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreatePostingInput
	}{
		{"missing title", CreatePostingInput{UserID: 1, Company: "Acme"}},
		{"missing company", CreatePostingInput{UserID: 1, Title: "Engineer"}},
		{"unknown status", CreatePostingInput{UserID: 1, Title: "Engineer", Company: "Acme", Status: "ghosted"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestGetPostingScopedToOwner(t *testing.T) {
	svc, _ := newPostingService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePostingInput{
		UserID: 1, Title: "Engineer", Company: "Acme",
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	// Another user sees not-found, never forbidden.
	_, err = svc.Get(ctx, created.ID, 2)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestListPostingsFilterAndOrder(t *testing.T) {
	svc, repo := newPostingService(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, status := range []models.PostingStatus{
		models.StatusApplied, models.StatusInterested, models.StatusApplied,
	} {
		p := &models.Posting{
			UserID:    1,
			Title:     "Role",
			Company:   "Acme",
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.Create(ctx, p))
	}

	all, err := svc.List(ctx, ListPostingsInput{UserID: 1})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))
	assert.True(t, all[1].CreatedAt.After(all[2].CreatedAt))

	applied, err := svc.List(ctx, ListPostingsInput{UserID: 1, Status: "applied"})
	require.NoError(t, err)
	assert.Len(t, applied, 2)

	_, err = svc.List(ctx, ListPostingsInput{UserID: 1, Status: "bogus"})
	assert.Error(t, err)

	other, err := svc.List(ctx, ListPostingsInput{UserID: 2})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestUpdatePostingPartial(t *testing.T) {
	svc, _ := newPostingService(t)
	ctx := context.Background()

	due := time.Now().Add(48 * time.Hour)
	created, err := svc.Create(ctx, CreatePostingInput{
		UserID: 1, Title: "Engineer", Company: "Acme", DueDate: &due,
	})
	require.NoError(t, err)

	// Only the status changes; everything else stays.
	updated, err := svc.Update(ctx, UpdatePostingInput{
		UserID: 1, PostingID: created.ID, Status: strPtr("applied"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, updated.Status)
	assert.Equal(t, "Engineer", updated.Title)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, models.DueStateDueSoon, updated.DueState)

	// Clearing the due date resets the due state.
	updated, err = svc.Update(ctx, UpdatePostingInput{
		UserID: 1, PostingID: created.ID, ClearDue: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, models.DueStateNone, updated.DueState)
}

func TestUpdatePostingOwnership(t *testing.T) {
	svc, _ := newPostingService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePostingInput{
		UserID: 1, Title: "Engineer", Company: "Acme",
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, UpdatePostingInput{
		UserID: 2, PostingID: created.ID, Title: strPtr("Hijacked"),
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPostingReminderLifecycle(t *testing.T) {
	svc, _ := newPostingService(t)
	ctx := context.Background()

	due := time.Now().Add(10 * 24 * time.Hour)
	created, err := svc.Create(ctx, CreatePostingInput{
		UserID:  1,
		Title:   "Engineer",
		Company: "Acme",
		DueDate: &due,
		Reminder: &ReminderInput{
			EmailAddress: "me@example.com",
			Timing:       "3_days",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, created.Reminder)
	assert.Equal(t, models.TimingThreeDays, created.Reminder.Timing)

	// Updating the reminder replaces it rather than stacking a second one.
	updated, err := svc.Update(ctx, UpdatePostingInput{
		UserID:    1,
		PostingID: created.ID,
		Reminder: &ReminderInput{
			EmailAddress: "me@example.com",
			Timing:       "1_week",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Reminder)
	assert.Equal(t, models.TimingOneWeek, updated.Reminder.Timing)

	require.NoError(t, svc.RemoveReminder(ctx, created.ID, 1))

	got, err := svc.Get(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, got.Reminder)
}

func TestCreatePostingRejectsBadReminder(t *testing.T) {
	svc, _ := newPostingService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePostingInput{
		UserID: 1, Title: "Engineer", Company: "Acme",
		Reminder: &ReminderInput{EmailAddress: "not-an-email", Timing: "1_day"},
	})
	assert.Error(t, err)

	_, err = svc.Create(ctx, CreatePostingInput{
		UserID: 1, Title: "Engineer", Company: "Acme",
		Reminder: &ReminderInput{EmailAddress: "me@example.com", Timing: "2_days"},
	})
	assert.Error(t, err)
}

func TestDeletePostingRemovesReminder(t *testing.T) {
	svc, repo := newPostingService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePostingInput{
		UserID: 1, Title: "Engineer", Company: "Acme",
		Reminder: &ReminderInput{EmailAddress: "me@example.com", Timing: "1_day"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID, 1))

	_, err = svc.Get(ctx, created.ID, 1)
	assert.Error(t, err)

	count, err := repo.CountDueReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Deleting again reports not-found.
	err = svc.Delete(ctx, created.ID, 1)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPostingListCacheAside(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	svc, _ := newPostingService(t)
	ctx := context.Background()
	key := cache.PostingListKey(1)

	created, err := svc.Create(ctx, CreatePostingInput{UserID: 1, Title: "Engineer", Company: "Acme"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(key))

	// The default list read fills the cache.
	list, err := svc.List(ctx, ListPostingsInput{UserID: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists(key))

	// Any write drops the cached list.
	_, err = svc.Update(ctx, UpdatePostingInput{
		PostingID: created.ID, UserID: 1, Status: strPtr("applied"),
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(key))

	// The next read serves the updated row and refills.
	list, err = svc.List(ctx, ListPostingsInput{UserID: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.StatusApplied, list[0].Status)
	assert.True(t, mr.Exists(key))

	// Filtered reads bypass the cache entirely.
	mr.FlushAll()
	_, err = svc.List(ctx, ListPostingsInput{UserID: 1, Status: "applied"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(key))

	require.NoError(t, svc.Delete(ctx, created.ID, 1))
	assert.False(t, mr.Exists(key))
}
