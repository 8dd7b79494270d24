package identitystore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinyapp/internal/models"
)

func TestRegisterThenAuthenticate(t *testing.T) {
	store := New()
	ctx := context.Background()

	userID, err := store.Register(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	require.NotEmpty(t, userID)

	authenticatedID, err := store.Authenticate(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, userID, authenticatedID)

	usr, found := store.GetUserByID(ctx, userID)
	require.True(t, found)
	assert.Equal(t, "a@x.com", usr.Email)
	assert.NotEqual(t, "p1", usr.PasswordHash, "raw password must not be stored")
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "empty email", email: "", password: "p1", wantErr: models.ErrInvalidInput},
		{name: "empty password", email: "a@x.com", password: "", wantErr: models.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := New()
			_, err := store.Register(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, store.GetNumberOfUsers(context.Background()))
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.Register(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	_, err = store.Register(ctx, "a@x.com", "another")
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
	assert.Equal(t, 1, store.GetNumberOfUsers(ctx))
}

func TestEmailMatchingIsCaseSensitive(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.Register(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	_, err = store.Register(ctx, "A@x.com", "p1")
	assert.NoError(t, err, "differently cased email is a distinct account")
}

func TestAuthenticateFailsUniformly(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.Register(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	_, unknownEmailErr := store.Authenticate(ctx, "nobody@x.com", "p1")
	_, wrongPasswordErr := store.Authenticate(ctx, "a@x.com", "wrong")

	assert.ErrorIs(t, unknownEmailErr, models.ErrBadCredentials)
	assert.ErrorIs(t, wrongPasswordErr, models.ErrBadCredentials)
	assert.Equal(t, unknownEmailErr, wrongPasswordErr, "failure class must not leak which check failed")
}

func TestAuthenticateNeverAcceptsStalePassword(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.Register(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	_, err = store.Authenticate(ctx, "a@x.com", "p2")
	assert.ErrorIs(t, err, models.ErrBadCredentials)
}
