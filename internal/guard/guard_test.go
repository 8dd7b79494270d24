package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tinyapp/internal/models"
)

func TestCheckOutcomeChain(t *testing.T) {
	ownedLink := models.Link{ShortCode: "abc123", OwnerID: "owner-1"}

	tests := []struct {
		name  string
		actor models.Actor
		link  models.Link
		found bool
		want  error
	}{
		{
			name:  "unknown code wins over missing session",
			actor: models.Anonymous,
			found: false,
			want:  models.ErrNotFound,
		},
		{
			name:  "unknown code wins over wrong owner",
			actor: models.AuthenticatedActor("owner-2"),
			found: false,
			want:  models.ErrNotFound,
		},
		{
			name:  "anonymous actor on existing record",
			actor: models.Anonymous,
			link:  ownedLink,
			found: true,
			want:  models.ErrUnauthenticated,
		},
		{
			name:  "authenticated non-owner",
			actor: models.AuthenticatedActor("owner-2"),
			link:  ownedLink,
			found: true,
			want:  models.ErrForbidden,
		},
		{
			name:  "owner is allowed",
			actor: models.AuthenticatedActor("owner-1"),
			link:  ownedLink,
			found: true,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.actor, tt.link, tt.found)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAnonymousNeverViewsOrMutates(t *testing.T) {
	link := models.Link{ShortCode: "abc123", OwnerID: "owner-1"}

	assert.False(t, CanView(models.Anonymous, link))
	assert.False(t, CanMutate(models.Anonymous, link))
}

func TestOwnershipDecidesAccess(t *testing.T) {
	link := models.Link{ShortCode: "abc123", OwnerID: "owner-1"}

	assert.True(t, CanView(models.AuthenticatedActor("owner-1"), link))
	assert.True(t, CanMutate(models.AuthenticatedActor("owner-1"), link))
	assert.False(t, CanView(models.AuthenticatedActor("owner-2"), link))
	assert.False(t, CanMutate(models.AuthenticatedActor("owner-2"), link))
}
