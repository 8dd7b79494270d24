// Package linkstore keeps short-link records in process memory. It owns
// short-code allocation, target normalization, the per-owner listing order
// and the visit log of every link.
package linkstore

import (
	"context"
	"strings"
	"sync"
	"time"

	funk "github.com/thoas/go-funk"

	"tinyapp/internal/keygen"
	"tinyapp/internal/models"
)

// Store maps short codes to link records. codes keeps insertion order for
// per-owner listings; the order is not stable across a delete followed by a
// reinsertion.
type Store struct {
	mu    sync.RWMutex
	links map[string]*models.Link
	codes []string
	now   func() time.Time
}

// New returns an empty link store.
func New() *Store {
	return &Store{
		links: map[string]*models.Link{},
		now:   time.Now,
	}
}

// NormalizeTargetURL prefixes the target with "http://" unless it already
// starts with "http://" or "https://". The prefix match is exact and
// case-sensitive.
func NormalizeTargetURL(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}

	return "http://" + target
}

// Create normalizes the target, allocates a unique short code and stores a
// new record with zeroed analytics. An empty target fails with
// models.ErrInvalidInput. The code uniqueness check and the insert happen
// under one lock, so two concurrent creates can never share a code.
func (s *Store) Create(ctx context.Context, ownerID, target string) (string, error) {
	if target == "" {
		return "", models.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shortCode, err := keygen.UniqueShortCode(func(candidate string) bool {
		_, occupied := s.links[candidate]
		return occupied
	})
	if err != nil {
		return "", err
	}

	s.links[shortCode] = &models.Link{
		ShortCode: shortCode,
		TargetURL: NormalizeTargetURL(target),
		OwnerID:   ownerID,
		CreatedAt: s.now(),
	}
	s.codes = append(s.codes, shortCode)

	return shortCode, nil
}

// Get returns a copy of the record or models.ErrNotFound.
func (s *Store) Get(ctx context.Context, shortCode string) (models.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, found := s.links[shortCode]
	if !found {
		return models.Link{}, models.ErrNotFound
	}

	return copyLink(link), nil
}

// Update replaces the target of an owned record, applying the same
// normalization as Create. It fails with models.ErrNotFound for an unknown
// code and models.ErrForbidden when actorID is not the owner; a failed check
// leaves the record untouched.
func (s *Store) Update(ctx context.Context, shortCode, actorID, newTarget string) error {
	if newTarget == "" {
		return models.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	link, found := s.links[shortCode]
	if !found {
		return models.ErrNotFound
	}
	if link.OwnerID != actorID {
		return models.ErrForbidden
	}

	link.TargetURL = NormalizeTargetURL(newTarget)

	return nil
}

// Delete removes an owned record. The error contract matches Update.
func (s *Store) Delete(ctx context.Context, shortCode, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, found := s.links[shortCode]
	if !found {
		return models.ErrNotFound
	}
	if link.OwnerID != actorID {
		return models.ErrForbidden
	}

	delete(s.links, shortCode)
	s.codes = funk.FilterString(s.codes, func(code string) bool {
		return code != shortCode
	})

	return nil
}

// RecordVisit increments the visit counter and appends the visitor to the
// log when its id has not been seen for this link. A missing code is a
// silent no-op; the redirect handler checks existence before calling.
func (s *Store) RecordVisit(ctx context.Context, shortCode, visitorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, found := s.links[shortCode]
	if !found {
		return
	}

	link.VisitCount++

	alreadySeen := funk.Contains(link.Visits, func(visit models.Visit) bool {
		return visit.VisitorID == visitorID
	})
	if !alreadySeen {
		link.Visits = append(link.Visits, models.Visit{
			VisitorID: visitorID,
			VisitedAt: s.now(),
		})
	}
}

// GetUserLinks returns copies of the records owned by the given user, in the
// insertion order of the store.
func (s *Store) GetUserLinks(ctx context.Context, ownerID string) []models.Link {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ownedCodes := funk.FilterString(s.codes, func(code string) bool {
		return s.links[code].OwnerID == ownerID
	})

	owned := make([]models.Link, 0, len(ownedCodes))
	for _, code := range ownedCodes {
		owned = append(owned, copyLink(s.links[code]))
	}

	return owned
}

// GetNumberOfShortenedURLs returns the number of live links.
func (s *Store) GetNumberOfShortenedURLs(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.links)
}

func copyLink(link *models.Link) models.Link {
	clone := *link
	clone.Visits = make([]models.Visit, len(link.Visits))
	copy(clone.Visits, link.Visits)

	return clone
}
