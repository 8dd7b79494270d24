// Package identitystore keeps registered users in process memory.
// Registration and credential checks happen here; the raw password never
// leaves this package unhashed.
package identitystore

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tinyapp/internal/models"
)

// Store maps user ids and emails to user records. Emails are matched
// case-sensitively, exactly as submitted at registration.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

// New returns an empty user store.
func New() *Store {
	return &Store{
		byID:    map[string]*models.User{},
		byEmail: map[string]*models.User{},
	}
}

// Register creates a user and returns its id. It fails with
// models.ErrInvalidInput when email or password is empty and with
// models.ErrDuplicateEmail when the email is already taken.
//
// The bcrypt hash is computed before the store lock is taken, so concurrent
// registrations are not serialized behind the hash computation.
func (s *Store) Register(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", models.ErrInvalidInput
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return "", models.ErrDuplicateEmail
	}

	usr := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(passwordHash),
	}
	s.byID[usr.ID] = usr
	s.byEmail[usr.Email] = usr

	return usr.ID, nil
}

// Authenticate checks the credentials and returns the user id. An unknown
// email and a wrong password both fail with models.ErrBadCredentials, so the
// caller learns nothing about which of the two it was.
func (s *Store) Authenticate(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", models.ErrInvalidInput
	}

	s.mu.RLock()
	usr, found := s.byEmail[email]
	s.mu.RUnlock()

	if !found {
		return "", models.ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrBadCredentials
	}

	return usr.ID, nil
}

// GetUserByID returns a copy of the user record.
func (s *Store) GetUserByID(ctx context.Context, userID string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	usr, found := s.byID[userID]
	if !found {
		return models.User{}, false
	}

	return *usr, true
}

// GetNumberOfUsers returns the number of registered users.
func (s *Store) GetNumberOfUsers(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byID)
}
