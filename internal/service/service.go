// Package service orchestrates the identity and link stores behind the HTTP
// handlers: account lifecycle, ownership-checked link operations and the
// public redirect with its visit tracking.
package service

import (
	"context"
	"errors"
	"strings"

	"tinyapp/internal/guard"
	"tinyapp/internal/models"
)

type identityKeeper interface {
	Register(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	GetUserByID(ctx context.Context, userID string) (models.User, bool)
	GetNumberOfUsers(ctx context.Context) int
}

type linksKeeper interface {
	Create(ctx context.Context, ownerID, target string) (string, error)
	Get(ctx context.Context, shortCode string) (models.Link, error)
	Update(ctx context.Context, shortCode, actorID, newTarget string) error
	Delete(ctx context.Context, shortCode, actorID string) error
	RecordVisit(ctx context.Context, shortCode, visitorID string)
	GetUserLinks(ctx context.Context, ownerID string) []models.Link
	GetNumberOfShortenedURLs(ctx context.Context) int
}

// Service glues stores and policy together for the handlers.
type Service struct {
	users        identityKeeper
	links        linksKeeper
	shortURLBase string
}

// New builds a Service on top of the given stores. shortURLBase is the
// public base the short codes are appended to.
func New(users identityKeeper, links linksKeeper, shortURLBase string) *Service {
	return &Service{
		users:        users,
		links:        links,
		shortURLBase: shortURLBase,
	}
}

// RegisterUser creates an account and returns the new user id.
func (s *Service) RegisterUser(ctx context.Context, email, password string) (string, error) {
	return s.users.Register(ctx, email, password)
}

// Login validates the credentials and returns the user id.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	return s.users.Authenticate(ctx, email, password)
}

// GetUser returns the user record behind an actor, if any.
func (s *Service) GetUser(ctx context.Context, actor models.Actor) (models.User, bool) {
	if !actor.Authenticated {
		return models.User{}, false
	}

	return s.users.GetUserByID(ctx, actor.UserID)
}

// ShortenURL creates a link owned by the actor and returns its short code.
// Anonymous actors fail with models.ErrUnauthenticated.
func (s *Service) ShortenURL(ctx context.Context, actor models.Actor, target string) (string, error) {
	if !actor.Authenticated {
		return "", models.ErrUnauthenticated
	}

	return s.links.Create(ctx, actor.UserID, target)
}

// GetLink returns an owned record, applying the access chain of the guard:
// NotFound, then Unauthenticated, then Forbidden.
func (s *Service) GetLink(ctx context.Context, actor models.Actor, shortCode string) (models.Link, error) {
	link, err := s.links.Get(ctx, shortCode)
	if errors.Is(err, models.ErrNotFound) {
		return models.Link{}, guard.Check(actor, models.Link{}, false)
	}
	if err != nil {
		return models.Link{}, err
	}

	if err := guard.Check(actor, link, true); err != nil {
		return models.Link{}, err
	}

	return link, nil
}

// UpdateLink replaces the target of an owned record.
func (s *Service) UpdateLink(ctx context.Context, actor models.Actor, shortCode, newTarget string) error {
	link, err := s.links.Get(ctx, shortCode)
	if err := guard.Check(actor, link, err == nil); err != nil {
		return err
	}

	return s.links.Update(ctx, shortCode, actor.UserID, newTarget)
}

// DeleteLink removes an owned record.
func (s *Service) DeleteLink(ctx context.Context, actor models.Actor, shortCode string) error {
	link, err := s.links.Get(ctx, shortCode)
	if err := guard.Check(actor, link, err == nil); err != nil {
		return err
	}

	return s.links.Delete(ctx, shortCode, actor.UserID)
}

// VisitLink resolves a short code for the public redirect and records the
// visit. It is intentionally exempt from the ownership guard; the only
// failure is an unknown code, which mutates nothing.
func (s *Service) VisitLink(ctx context.Context, shortCode, visitorID string) (string, error) {
	link, err := s.links.Get(ctx, shortCode)
	if err != nil {
		return "", err
	}

	s.links.RecordVisit(ctx, shortCode, visitorID)

	return link.TargetURL, nil
}

// GetUserLinks lists the actor's own records in insertion order.
func (s *Service) GetUserLinks(ctx context.Context, actor models.Actor) ([]models.Link, error) {
	if !actor.Authenticated {
		return nil, models.ErrUnauthenticated
	}

	return s.links.GetUserLinks(ctx, actor.UserID), nil
}

// GetInternalStats returns totals for the internal stats endpoint.
func (s *Service) GetInternalStats(ctx context.Context) models.InternalStatsResponse {
	return models.InternalStatsResponse{
		URLs:  s.links.GetNumberOfShortenedURLs(ctx),
		Users: s.users.GetNumberOfUsers(ctx),
	}
}

// GetShortURL renders the public URL of a short code.
func (s *Service) GetShortURL(shortCode string) string {
	return strings.TrimRight(s.shortURLBase, "/") + "/u/" + shortCode
}
