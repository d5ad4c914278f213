package service

import (
	"context"
	"testing"

	"applytrack/internal/models"
	"applytrack/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(repository.NewUserRepository(newTestDB(t)))
}

func TestRegisterHashesPasswordAndLowercasesEmail(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Name:     "Ada Lovelace",
		Email:    "Ada.Lovelace@Example.COM",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "ada.lovelace@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NotContains(t, user.PasswordHash, "password123")
}

func TestRegisterRejectsDuplicateEmailCaseInsensitively(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Name: "First", Email: "taken@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{
		Name: "Second", Email: "TAKEN@example.com", Password: "password456",
	})
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestRegisterValidatesInput(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"empty name", RegisterInput{Name: " ", Email: "a@example.com", Password: "password123"}},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "password123"}},
		{"short password", RegisterInput{Name: "A", Email: "a@example.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.Nil(t, registered.LastLoginAt)

	user, err := svc.Authenticate(ctx, "ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotNil(t, user.LastLoginAt)
}

func TestAuthenticateBadCredentialsAreIndistinguishable(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(ctx, "ada@example.com", "wrong-password")
	_, unknownEmail := svc.Authenticate(ctx, "nobody@example.com", "password123")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}
