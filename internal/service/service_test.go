package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinyapp/internal/identitystore"
	"tinyapp/internal/linkstore"
	"tinyapp/internal/models"
)

func newTestService() *Service {
	return New(identitystore.New(), linkstore.New(), "http://localhost:8080")
}

func TestOwnershipScenario(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	userAID, err := svc.RegisterUser(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	userA := models.AuthenticatedActor(userAID)

	code, err := svc.ShortenURL(ctx, userA, "example.com")
	require.NoError(t, err)

	link, err := svc.GetLink(ctx, userA, code)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", link.TargetURL, "protocol must be auto-prefixed")

	userBID, err := svc.RegisterUser(ctx, "b@x.com", "p2")
	require.NoError(t, err)
	userB := models.AuthenticatedActor(userBID)

	err = svc.UpdateLink(ctx, userB, code, "other.com")
	assert.ErrorIs(t, err, models.ErrForbidden)

	link, err = svc.GetLink(ctx, userA, code)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", link.TargetURL, "forbidden update must not mutate")

	target, err := svc.VisitLink(ctx, code, "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", target)

	link, err = svc.GetLink(ctx, userA, code)
	require.NoError(t, err)
	assert.Equal(t, 1, link.VisitCount)
	assert.Equal(t, 1, link.UniqueVisitors())
}

func TestShortenRequiresAuthentication(t *testing.T) {
	svc := newTestService()

	_, err := svc.ShortenURL(context.Background(), models.Anonymous, "example.com")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestGetLinkAccessChain(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	ownerID, err := svc.RegisterUser(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	owner := models.AuthenticatedActor(ownerID)

	code, err := svc.ShortenURL(ctx, owner, "example.com")
	require.NoError(t, err)

	_, err = svc.GetLink(ctx, owner, "unknown")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.GetLink(ctx, models.Anonymous, code)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	strangerID, err := svc.RegisterUser(ctx, "b@x.com", "p2")
	require.NoError(t, err)

	_, err = svc.GetLink(ctx, models.AuthenticatedActor(strangerID), code)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestDeleteLink(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	ownerID, err := svc.RegisterUser(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	owner := models.AuthenticatedActor(ownerID)

	code, err := svc.ShortenURL(ctx, owner, "example.com")
	require.NoError(t, err)

	err = svc.DeleteLink(ctx, models.Anonymous, code)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	require.NoError(t, svc.DeleteLink(ctx, owner, code))

	_, err = svc.VisitLink(ctx, code, "visitor-1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestVisitUnknownCodeMutatesNothing(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.VisitLink(ctx, "unknown", "visitor-1")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Zero(t, svc.GetInternalStats(ctx).URLs)
}

func TestGetInternalStats(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	userID, err := svc.RegisterUser(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	_, err = svc.ShortenURL(ctx, models.AuthenticatedActor(userID), "example.com")
	require.NoError(t, err)

	stats := svc.GetInternalStats(ctx)
	assert.Equal(t, 1, stats.URLs)
	assert.Equal(t, 1, stats.Users)
}

func TestGetShortURL(t *testing.T) {
	svc := New(identitystore.New(), linkstore.New(), "http://localhost:8080/")

	assert.Equal(t, "http://localhost:8080/u/abc123", svc.GetShortURL("abc123"))
}
