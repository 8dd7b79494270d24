// Package models defines the domain records shared across the application:
// users, short links with their visit analytics, the resolved request actor,
// and the error taxonomy handlers translate into HTTP statuses.
package models

import (
	"errors"
	"time"
)

// User is a registered account. Records are immutable after creation;
// there is no update or delete path for users.
type User struct {
	// ID is the unique identifier of the user, meaning a UUID.
	ID string

	// Email is stored exactly as submitted; matching is case-sensitive.
	Email string

	// PasswordHash is the bcrypt hash of the password. The raw password
	// is never stored.
	PasswordHash string
}

// Visit is one entry of a link's visitor log.
type Visit struct {
	VisitorID string
	VisitedAt time.Time
}

// Link is a short-code record. VisitCount counts every redirect;
// Visits holds one entry per distinct visitor id.
type Link struct {
	ShortCode  string
	TargetURL  string
	OwnerID    string
	CreatedAt  time.Time
	VisitCount int
	Visits     []Visit
}

// UniqueVisitors returns the number of distinct visitor ids seen by the link.
func (l Link) UniqueVisitors() int {
	return len(l.Visits)
}

// Actor is the resolved identity of the requesting party, produced once per
// request by the session resolver and passed explicitly to downstream logic.
type Actor struct {
	UserID        string
	Authenticated bool
}

// Anonymous is the actor of a request carrying no valid session.
var Anonymous = Actor{}

// AuthenticatedActor returns the actor for a known user id.
func AuthenticatedActor(userID string) Actor {
	return Actor{UserID: userID, Authenticated: true}
}

// InternalStatsResponse is the payload of the internal stats endpoint.
type InternalStatsResponse struct {
	URLs  int `json:"urls"`
	Users int `json:"users"`
}

var (
	// ErrInvalidInput marks an empty or malformed required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateEmail marks a registration with an already used email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrBadCredentials covers both an unknown email and a wrong password,
	// so a caller cannot tell which of the two failed.
	ErrBadCredentials = errors.New("bad credentials")

	// ErrNotFound marks a lookup of an unknown short code.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated marks a protected action without a valid session.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden marks an action by an authenticated non-owner.
	ErrForbidden = errors.New("forbidden")
)
