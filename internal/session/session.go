// Package session establishes the identity of every request. The session
// cookie carries a signed JWT with the user id; a separate visitor cookie
// carries an anonymous visitor id used only for redirect analytics and is
// never written to the identity store.
package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tinyapp/internal/logger"
	"tinyapp/internal/models"
)

type userKeeper interface {
	GetUserByID(ctx context.Context, userID string) (models.User, bool)
}

// Manager resolves, issues and clears session state on HTTP requests.
type Manager struct {
	// users validates that a session's user id still refers to a known
	// account.
	users userKeeper

	// sessionCookieName is the name of the cookie holding the signed JWT.
	sessionCookieName string

	// visitorCookieName is the name of the cookie holding the anonymous
	// visitor id.
	visitorCookieName string

	// signingKey signs and verifies session JWTs.
	signingKey []byte
}

// Claims are the JWT claims of a session cookie.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

const actorKey ContextKey = "actor"

// New creates a session manager bound to the given user lookup, cookie
// names and signing key.
func New(users userKeeper, sessionCookieName, visitorCookieName string, signingKey []byte) *Manager {
	return &Manager{
		users:             users,
		sessionCookieName: sessionCookieName,
		visitorCookieName: visitorCookieName,
		signingKey:        signingKey,
	}
}

// Resolve derives the current actor from the request. Any failure - missing
// cookie, malformed or tampered token, or a user id that no longer exists in
// the identity store - degrades to Anonymous rather than erroring.
func (m *Manager) Resolve(request *http.Request) models.Actor {
	cookie, err := request.Cookie(m.sessionCookieName)
	if err != nil {
		return models.Anonymous
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		cookie.Value,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.signingKey, nil
		},
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return models.Anonymous
	}

	if _, found := m.users.GetUserByID(request.Context(), claims.UserID); !found {
		return models.Anonymous
	}

	return models.AuthenticatedActor(claims.UserID)
}

// Issue writes a signed session cookie for the user. Called on login and
// registration; no expiry is set, the session lives as long as the client
// keeps the cookie.
func (m *Manager) Issue(response http.ResponseWriter, userID string) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: userID})

	tokenString, err := token.SignedString(m.signingKey)
	if err != nil {
		return err
	}

	http.SetCookie(
		response,
		&http.Cookie{
			Name:     m.sessionCookieName,
			Value:    tokenString,
			Path:     "/",
			HttpOnly: true,
		},
	)

	return nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(response http.ResponseWriter) {
	http.SetCookie(
		response,
		&http.Cookie{
			Name:     m.sessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		},
	)
}

// VisitorID returns the durable visitor id of the request, minting one and
// setting it back into the response on first contact. The id is a plain
// uuid, disjoint from user ids, and never enters the identity store.
func (m *Manager) VisitorID(response http.ResponseWriter, request *http.Request) string {
	cookie, err := request.Cookie(m.visitorCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	visitorID := uuid.New().String()
	http.SetCookie(
		response,
		&http.Cookie{
			Name:     m.visitorCookieName,
			Value:    visitorID,
			Path:     "/",
			HttpOnly: true,
		},
	)

	return visitorID
}

// WithActor is an HTTP middleware that resolves the actor once per request
// and stores it in the request context.
func (m *Manager) WithActor(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		actor := m.Resolve(request)
		if actor.Authenticated {
			logger.Log.Debugln("resolved authenticated actor", zap.String("userID", actor.UserID))
		}

		ctx := context.WithValue(request.Context(), actorKey, actor)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

// ActorFromContext returns the actor stored by WithActor, or Anonymous when
// the middleware did not run.
func ActorFromContext(ctx context.Context) models.Actor {
	actor, ok := ctx.Value(actorKey).(models.Actor)
	if !ok {
		return models.Anonymous
	}

	return actor
}
